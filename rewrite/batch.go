package rewrite

import (
	"regexp"
	"strconv"
	"unicode/utf8"

	"github.com/fwojciec/pagesmith"
)

// longTextChars is the length above which any non-meta group is long.
const longTextChars = 80

// proseHintPattern matches hints of paragraph and list-item elements.
var proseHintPattern = regexp.MustCompile(`^<(p|li)[#.>]`)

// Batch is one generation request worth of groups.
type Batch struct {
	Long      bool
	Groups    []*pagesmith.RewriteGroup
	MaxTokens int
}

// IsLong reports whether g belongs in a long-form batch: paragraph or list
// item copy, or any non-meta-description text over 80 characters.
func IsLong(g *pagesmith.RewriteGroup) bool {
	if proseHintPattern.MatchString(g.Hint) {
		return true
	}
	return !g.IsMetaDescription() && utf8.RuneCountInString(g.Original) > longTextChars
}

// AssignIDs numbers groups t1, t2, ... in order.
func AssignIDs(groups []*pagesmith.RewriteGroup) {
	for i, g := range groups {
		g.ID = "t" + strconv.Itoa(i+1)
	}
}

// BuildBatches partitions groups into long and short batches. Long batches
// come first; relative group order is kept within each kind.
func BuildBatches(groups []*pagesmith.RewriteGroup, cfg Config) []Batch {
	var long, short []*pagesmith.RewriteGroup
	for _, g := range groups {
		if IsLong(g) {
			long = append(long, g)
		} else {
			short = append(short, g)
		}
	}

	var batches []Batch
	for _, groups := range chunk(long, cfg.LongBatchSize) {
		batches = append(batches, Batch{Long: true, Groups: groups, MaxTokens: cfg.LongMaxTokens})
	}
	for _, groups := range chunk(short, cfg.ShortBatchSize) {
		batches = append(batches, Batch{Groups: groups, MaxTokens: cfg.ShortMaxTokens})
	}
	return batches
}

// chunk splits groups into consecutive slices of at most size elements.
func chunk(groups []*pagesmith.RewriteGroup, size int) [][]*pagesmith.RewriteGroup {
	if size <= 0 {
		size = len(groups)
	}
	var out [][]*pagesmith.RewriteGroup
	for start := 0; start < len(groups); start += size {
		end := min(start+size, len(groups))
		out = append(out, groups[start:end])
	}
	return out
}
