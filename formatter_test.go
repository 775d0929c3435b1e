package pagesmith_test

import (
	"testing"

	"github.com/fwojciec/pagesmith"
	"github.com/stretchr/testify/assert"
)

func TestFormatGroups(t *testing.T) {
	t.Parallel()

	t.Run("returns empty string for no groups", func(t *testing.T) {
		t.Parallel()

		assert.Empty(t, pagesmith.FormatGroups(nil))
	})

	t.Run("formats id, occurrences, hint and text", func(t *testing.T) {
		t.Parallel()

		groups := []*pagesmith.RewriteGroup{
			{ID: "t1", Hint: "<h1> [section:hero]", Original: "Welcome", Targets: make([]pagesmith.Target, 2)},
		}

		out := pagesmith.FormatGroups(groups)

		assert.Equal(t, "t1\tx2\t<h1> [section:hero]\tWelcome", out)
	})

	t.Run("numbers groups without IDs and marks empty text", func(t *testing.T) {
		t.Parallel()

		groups := []*pagesmith.RewriteGroup{
			{Hint: "<title>", Original: "Home", Targets: make([]pagesmith.Target, 1)},
			{Hint: "<meta name=description>", Attr: pagesmith.AttrMetaDescription, Targets: make([]pagesmith.Target, 1)},
		}

		out := pagesmith.FormatGroups(groups)

		assert.Contains(t, out, "#1\tx1\t<title>\tHome")
		assert.Contains(t, out, "#2\tx1\t<meta name=description>\t(empty)")
	})
}
