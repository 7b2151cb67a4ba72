package schema

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"turnslate/internal/ftl"
)

func parse(t *testing.T, src string) *ftl.Resource {
	t.Helper()
	res, err := ftl.Parse(src)
	require.NoError(t, err)
	return res
}

func TestExtract(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []Record
	}{
		{
			name: "simple variable",
			src:  "hello-user = Hello, {$userName}!\n",
			want: []Record{{Name: "hello-user", Vars: []string{"userName"}}},
		},
		{
			name: "no placeables",
			src:  "hello = Hello, world!\n",
			want: []Record{{Name: "hello", Vars: nil}},
		},
		{
			name: "deduplicated references",
			src:  "greeting = {$name}, yes you, {$name}!\n",
			want: []Record{{Name: "greeting", Vars: []string{"name"}}},
		},
		{
			name: "first appearance order",
			src:  "swap = {$second} before {$first} and {$second}\n",
			want: []Record{{Name: "swap", Vars: []string{"second", "first"}}},
		},
		{
			name: "union across select branches",
			src: `shared-photos =
    {$userName} {$photoCount ->
        [one] added a new photo
       *[other] added {$photoCount} new photos
    } to {$userGender ->
        [male] his stream
        [female] her stream
       *[other] their stream
    }.
`,
			want: []Record{{Name: "shared-photos", Vars: []string{"userName", "photoCount", "userGender"}}},
		},
		{
			name: "variants walked for non-variable selector",
			src: `emails =
    {NUMBER($unreadEmails) ->
        [one] You have one unread email.
       *[other] You have {$unreadEmails} unread emails.
    }
`,
			want: []Record{{Name: "emails", Vars: []string{"unreadEmails"}}},
		},
		{
			name: "nested selects",
			src: `nested =
    {$outer ->
        [a] {$inner ->
                [x] {$deep}
               *[y] nope
            }
       *[b] {$fallback}
    }
`,
			want: []Record{{Name: "nested", Vars: []string{"outer", "inner", "deep", "fallback"}}},
		},
		{
			name: "non-variable inline expressions contribute nothing",
			src: `about = Version {"2.0"} of {-brand} via {menu} at {3.14}
-brand = Turnslate
`,
			want: []Record{{Name: "about", Vars: nil}},
		},
		{
			name: "terms comments and junk skipped",
			src: `# a comment
-brand = Turnslate {$ignored}
valid = A {$var}
== not an entry ==
`,
			want: []Record{{Name: "valid", Vars: []string{"var"}}},
		},
		{
			name: "attribute-only message yields empty vars",
			src: `login-input =
    .placeholder = email@example.com
`,
			want: []Record{{Name: "login-input", Vars: nil}},
		},
		{
			name: "comment-only resource",
			src:  "# nothing here\n## still nothing\n",
			want: []Record{},
		},
		{
			name: "declaration order preserved",
			src: `second-defined = B {$b}
first-sorted = A {$a}
`,
			want: []Record{
				{Name: "second-defined", Vars: []string{"b"}},
				{Name: "first-sorted", Vars: []string{"a"}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, _ := ftl.Parse(tt.src)
			got := Extract(res)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Extract mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestExtract_Idempotent(t *testing.T) {
	res := parse(t, "msg = {$a} {$b ->\n    [one] {$c}\n   *[other] {$a}\n}\n")
	first := Extract(res)
	second := Extract(res)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("repeated extraction diverged (-first +second):\n%s", diff)
	}
}
