package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"turnslate/internal/bundle"
	"turnslate/internal/compose"
	"turnslate/internal/config"
	"turnslate/internal/fetch"
	"turnslate/internal/ftl"
	"turnslate/internal/output"
	"turnslate/internal/schema"
)

// Execute runs the CLI application.
func Execute() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	rootCmd := &cobra.Command{
		Use:   "turnslate",
		Short: "Typed TypeScript bindings for Fluent translation bundles",
		Long: `turnslate fetches a project's Fluent translation bundle, derives the
parameter schema of every message from the main locale, and generates a
TypeScript module bundling the typed schema with the raw resources.`,
	}

	rootCmd.AddCommand(generateCmd())
	rootCmd.AddCommand(schemaCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// bundleOptions selects and parameterizes the bundle source, shared by the
// generate and schema commands.
type bundleOptions struct {
	project  string
	token    string
	endpoint string
	dir      string
	main     string
}

func addBundleFlags(cmd *cobra.Command) {
	cmd.Flags().String("project", "", "Project identifier (falls back to PROJECT)")
	cmd.Flags().String("token", "", "Access token (falls back to TOKEN)")
	cmd.Flags().String("endpoint", "", "Bundle service endpoint (overrides TURNSLATE_ENDPOINT)")
	cmd.Flags().String("dir", "", "Assemble the bundle from .ftl files under this directory instead of fetching")
	cmd.Flags().String("main", "en", "Main locale when using --dir")
}

func bundleFlagOptions(cmd *cobra.Command) bundleOptions {
	var opts bundleOptions
	opts.project, _ = cmd.Flags().GetString("project")
	opts.token, _ = cmd.Flags().GetString("token")
	opts.endpoint, _ = cmd.Flags().GetString("endpoint")
	opts.dir, _ = cmd.Flags().GetString("dir")
	opts.main, _ = cmd.Flags().GetString("main")
	return opts
}

type generateOptions struct {
	bundleOptions
	out   string
	force bool
}

func generateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate the TypeScript translation module",
		Long: `Resolves the translation bundle, derives the parameter schema from the
main locale and writes a single TypeScript module: runtime binding,
LocalizedMessage type and the embedded raw resource of every locale.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := generateOptions{bundleOptions: bundleFlagOptions(cmd)}
			opts.out, _ = cmd.Flags().GetString("out")
			opts.force, _ = cmd.Flags().GetBool("force")
			return runGenerate(opts)
		},
	}

	addBundleFlags(cmd)
	cmd.Flags().String("out", "", "Output file path (falls back to OUT_FILE)")
	cmd.Flags().Bool("force", false, "Write the output even when it is unchanged")

	return cmd
}

type schemaOptions struct {
	bundleOptions
	format string
}

func schemaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the extracted message schema without writing files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := schemaOptions{bundleOptions: bundleFlagOptions(cmd)}
			opts.format, _ = cmd.Flags().GetString("format")
			return runSchema(opts)
		},
	}

	addBundleFlags(cmd)
	cmd.Flags().String("format", "ts", "Output format: ts or json")

	return cmd
}

// runGenerate handles the `generate` command.
func runGenerate(opts generateOptions) error {
	ctx, cancel := setupContext()
	defer cancel()

	cfg := config.Load()

	out := resolveValue(opts.out, "OUT_FILE")
	if out == "" {
		return fmt.Errorf("output path is required (--out or OUT_FILE)")
	}

	b, err := resolveBundle(ctx, cfg, opts.bundleOptions)
	if err != nil {
		return err
	}

	records, err := extractSchema(b)
	if err != nil {
		return err
	}

	doc := compose.New(cfg.WorkerCount).Compose(ctx, schema.Render(records), b.Langs)
	if err := ctx.Err(); err != nil {
		return err
	}

	wrote, err := output.NewWriter(opts.force).Write(out, doc)
	if err != nil {
		return err
	}

	log.Info().
		Int("languages", len(b.Langs)).
		Int("messages", len(records)).
		Str("output", out).
		Bool("written", wrote).
		Msg("Generated translations")

	return nil
}

// runSchema handles the `schema` command.
func runSchema(opts schemaOptions) error {
	ctx, cancel := setupContext()
	defer cancel()

	cfg := config.Load()

	b, err := resolveBundle(ctx, cfg, opts.bundleOptions)
	if err != nil {
		return err
	}

	records, err := extractSchema(b)
	if err != nil {
		return err
	}

	var text string
	switch opts.format {
	case "ts":
		text = schema.Render(records)
	case "json":
		if text, err = schema.RenderJSON(records); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown format %q (want ts or json)", opts.format)
	}

	fmt.Println(text)
	return nil
}

// resolveBundle produces the bundle from the configured source: a local
// directory of .ftl files when --dir is set, the turnslate service
// otherwise.
func resolveBundle(ctx context.Context, cfg *config.Config, opts bundleOptions) (*bundle.Bundle, error) {
	if opts.dir != "" {
		return bundle.FromDir(opts.dir, opts.main)
	}

	project := resolveValue(opts.project, "PROJECT")
	if project == "" {
		return nil, fmt.Errorf("project id is required (--project or PROJECT)")
	}
	token := resolveValue(opts.token, "TOKEN")
	if token == "" {
		return nil, fmt.Errorf("access token is required (--token or TOKEN)")
	}

	endpoint := opts.endpoint
	if endpoint == "" {
		endpoint = cfg.Endpoint
	}

	client := fetch.NewClient(endpoint, time.Duration(cfg.HTTPTimeoutSeconds)*time.Second)
	return client.FetchBundle(ctx, project, token)
}

// extractSchema parses the main locale and extracts one record per message.
// A grammar violation in the main locale is fatal; other locales are never
// parsed.
func extractSchema(b *bundle.Bundle) ([]schema.Record, error) {
	res, err := ftl.Parse(b.MainSource())
	if err != nil {
		return nil, fmt.Errorf("parse main locale %q: %w", b.Main, err)
	}

	records := schema.Extract(res)
	log.Info().Int("messages", len(records)).Str("locale", b.Main).Msg("Schema extracted")
	return records, nil
}

// resolveValue prefers the flag value, then the environment.
func resolveValue(flagValue, envKey string) string {
	if flagValue != "" {
		return flagValue
	}
	return os.Getenv(envKey)
}

// setupContext creates a cancellable context with signal handling.
func setupContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		log.Warn().Msg("Received shutdown signal, cancelling...")
		cancel()
	}()

	return ctx, cancel
}
