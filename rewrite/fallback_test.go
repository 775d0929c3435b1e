package rewrite_test

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/fwojciec/pagesmith"
	"github.com/fwojciec/pagesmith/rewrite"
	"github.com/stretchr/testify/assert"
)

func TestTruncateWords(t *testing.T) {
	t.Parallel()

	t.Run("short text is unchanged", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "Hello world", rewrite.TruncateWords("Hello world", 155))
	})

	t.Run("cuts at the last word boundary", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "alpha beta", rewrite.TruncateWords("alpha beta gamma", 13))
	})

	t.Run("single long word is cut hard", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "abcde", rewrite.TruncateWords("abcdefghij", 5))
	})

	t.Run("counts runes", func(t *testing.T) {
		t.Parallel()

		got := rewrite.TruncateWords(strings.Repeat("é ", 100), 155)

		assert.LessOrEqual(t, utf8.RuneCountInString(got), 155)
		assert.True(t, utf8.ValidString(got))
	})
}

func TestMetaDescriptionDefault(t *testing.T) {
	t.Parallel()

	t.Run("uses the brief", func(t *testing.T) {
		t.Parallel()

		got := rewrite.MetaDescriptionDefault(pagesmith.Brief{UserInput: "  Dog   grooming in Bristol  "})

		assert.Equal(t, "Dog grooming in Bristol", got)
	})

	t.Run("long brief is cut near 155 characters", func(t *testing.T) {
		t.Parallel()

		got := rewrite.MetaDescriptionDefault(pagesmith.Brief{UserInput: strings.Repeat("grooming ", 40)})

		assert.LessOrEqual(t, utf8.RuneCountInString(got), 155)
		assert.Greater(t, utf8.RuneCountInString(got), 140)
		assert.False(t, strings.HasSuffix(got, " "))
	})

	t.Run("falls back to company name", func(t *testing.T) {
		t.Parallel()

		got := rewrite.MetaDescriptionDefault(pagesmith.Brief{CompanyName: "Acme"})

		assert.Equal(t, "Discover what Acme can do for you.", got)
	})

	t.Run("generic sentence without brief or company", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "Discover what we can do for you.", rewrite.MetaDescriptionDefault(pagesmith.Brief{}))
	})
}

func TestFallback(t *testing.T) {
	t.Parallel()

	brief := pagesmith.Brief{UserInput: "Dog grooming"}

	t.Run("original text", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "Welcome", rewrite.Fallback(textGroup("<h1>", "Welcome"), brief))
	})

	t.Run("empty meta description uses the default", func(t *testing.T) {
		t.Parallel()

		g := &pagesmith.RewriteGroup{Kind: pagesmith.TargetAttr, Attr: pagesmith.AttrMetaDescription}

		assert.Equal(t, "Dog grooming", rewrite.Fallback(g, brief))
	})
}

func TestSanitize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain text", "Fresh bread daily", "Fresh bread daily"},
		{"strips tags", "<b>Fresh</b> bread <em>daily</em>", "Fresh bread daily"},
		{"drops script content", "<script>alert(1)</script>Hello", "Hello"},
		{"keeps ampersands as text", "Salt & pepper", "Salt & pepper"},
		{"keeps quotes as text", `The "best" bread`, `The "best" bread`},
		{"collapses whitespace", "  Fresh\n\tbread  ", "Fresh bread"},
		{"markup only", "<br><hr>", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, rewrite.Sanitize(tt.in))
		})
	}
}
