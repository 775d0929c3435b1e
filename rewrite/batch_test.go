package rewrite_test

import (
	"strings"
	"testing"

	"github.com/fwojciec/pagesmith"
	"github.com/fwojciec/pagesmith/rewrite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func textGroup(hint, original string) *pagesmith.RewriteGroup {
	return &pagesmith.RewriteGroup{Kind: pagesmith.TargetText, Tag: "div", Hint: hint, Original: original}
}

func TestIsLong(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		group *pagesmith.RewriteGroup
		want  bool
	}{
		{"short paragraph", textGroup("<p.lead>", "Hi"), true},
		{"short list item", textGroup("<li> [section:features]", "Fast"), true},
		{"heading at limit", textGroup("<h1>", strings.Repeat("a", 80)), false},
		{"heading over limit", textGroup("<h1>", strings.Repeat("a", 81)), true},
		{"pre is not prose", textGroup("<pre>", "code"), false},
		{"long meta description", &pagesmith.RewriteGroup{
			Kind: pagesmith.TargetAttr, Attr: pagesmith.AttrMetaDescription,
			Hint: "<meta name=description>", Original: strings.Repeat("a", 200),
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, rewrite.IsLong(tt.group))
		})
	}
}

func TestAssignIDs(t *testing.T) {
	t.Parallel()

	groups := []*pagesmith.RewriteGroup{textGroup("<h1>", "a"), textGroup("<h2>", "b"), textGroup("<h3>", "c")}

	rewrite.AssignIDs(groups)

	assert.Equal(t, "t1", groups[0].ID)
	assert.Equal(t, "t2", groups[1].ID)
	assert.Equal(t, "t3", groups[2].ID)
}

func TestBuildBatches(t *testing.T) {
	t.Parallel()

	t.Run("long batches come first and respect sizes", func(t *testing.T) {
		t.Parallel()

		var groups []*pagesmith.RewriteGroup
		for range 130 {
			groups = append(groups, textGroup("<span>", "short"))
		}
		for range 35 {
			groups = append(groups, textGroup("<p>", "prose"))
		}

		batches := rewrite.BuildBatches(groups, rewrite.DefaultConfig())

		require.Len(t, batches, 4)
		assert.True(t, batches[0].Long)
		assert.Len(t, batches[0].Groups, 30)
		assert.Equal(t, 14000, batches[0].MaxTokens)
		assert.True(t, batches[1].Long)
		assert.Len(t, batches[1].Groups, 5)
		assert.False(t, batches[2].Long)
		assert.Len(t, batches[2].Groups, 120)
		assert.Equal(t, 6000, batches[2].MaxTokens)
		assert.Len(t, batches[3].Groups, 10)
	})

	t.Run("keeps relative order within a kind", func(t *testing.T) {
		t.Parallel()

		a := textGroup("<span>", "a")
		b := textGroup("<p>", "b")
		c := textGroup("<span>", "c")

		batches := rewrite.BuildBatches([]*pagesmith.RewriteGroup{a, b, c}, rewrite.DefaultConfig())

		require.Len(t, batches, 2)
		assert.Equal(t, []*pagesmith.RewriteGroup{b}, batches[0].Groups)
		assert.Equal(t, []*pagesmith.RewriteGroup{a, c}, batches[1].Groups)
	})

	t.Run("no groups yields no batches", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, rewrite.BuildBatches(nil, rewrite.DefaultConfig()))
	})
}
