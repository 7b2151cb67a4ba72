package main

import "turnslate/internal/cli"

func main() {
	cli.Execute()
}
