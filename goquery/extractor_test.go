package goquery_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/fwojciec/pagesmith"
	"github.com/fwojciec/pagesmith/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// findGroup returns the first group whose original text equals text.
func findGroup(groups []*pagesmith.RewriteGroup, text string) *pagesmith.RewriteGroup {
	for _, g := range groups {
		if g.Original == text {
			return g
		}
	}
	return nil
}

func TestExtractor_Extract(t *testing.T) {
	t.Parallel()

	t.Run("extracts heading and paragraph text", func(t *testing.T) {
		t.Parallel()

		html := `<body><h1>Welcome</h1><p>Buy our amazing widget today for all your widget needs across the globe.</p></body>`

		ext, err := goquery.NewExtractor().Extract(html, pagesmith.ExtractOptions{})

		require.NoError(t, err)
		h1 := findGroup(ext.Groups, "Welcome")
		require.NotNil(t, h1)
		assert.Equal(t, "<h1>", h1.Hint)
		assert.Equal(t, "h1", h1.Tag)
		assert.Equal(t, pagesmith.TargetText, h1.Kind)

		p := findGroup(ext.Groups, "Buy our amazing widget today for all your widget needs across the globe.")
		require.NotNil(t, p)
		assert.Equal(t, "<p>", p.Hint)
	})

	t.Run("orders title and meta before body", func(t *testing.T) {
		t.Parallel()

		html := `<!DOCTYPE html><html><head>
<title>Acme Home</title>
<meta name="keywords" content="widgets, gadgets">
</head><body><h1>Hello</h1></body></html>`

		ext, err := goquery.NewExtractor().Extract(html, pagesmith.ExtractOptions{})

		require.NoError(t, err)
		require.Len(t, ext.Groups, 4)
		assert.Equal(t, "Acme Home", ext.Groups[0].Original)
		assert.Equal(t, "<title>", ext.Groups[0].Hint)
		assert.Equal(t, pagesmith.AttrMetaDescription, ext.Groups[1].Attr)
		assert.Empty(t, ext.Groups[1].Original)
		assert.Equal(t, pagesmith.AttrMetaKeywords, ext.Groups[2].Attr)
		assert.Equal(t, "widgets, gadgets", ext.Groups[2].Original)
		assert.Equal(t, "Hello", ext.Groups[3].Original)
		assert.Equal(t, "<!DOCTYPE html>", ext.Doctype)
	})

	t.Run("keeps existing meta description", func(t *testing.T) {
		t.Parallel()

		html := `<html><head><meta name="Description" content="  Old   description "></head><body><p>Hi</p></body></html>`

		ext, err := goquery.NewExtractor().Extract(html, pagesmith.ExtractOptions{})

		require.NoError(t, err)
		require.Len(t, ext.Groups, 2)
		assert.True(t, ext.Groups[0].IsMetaDescription())
		assert.Equal(t, "Old description", ext.Groups[0].Original)
	})

	t.Run("synthesized meta description is applied to head", func(t *testing.T) {
		t.Parallel()

		html := `<html><head></head><body><p>Hi</p></body></html>`

		ext, err := goquery.NewExtractor().Extract(html, pagesmith.ExtractOptions{})
		require.NoError(t, err)

		meta := ext.Groups[0]
		require.True(t, meta.IsMetaDescription())
		require.NoError(t, ext.Document.Apply(meta.Targets[0], "Fresh summary"))

		out, err := ext.Document.Render()
		require.NoError(t, err)
		assert.Contains(t, out, `<meta name="description" content="Fresh summary"/>`)
	})

	t.Run("empty body yields no groups and no mutation", func(t *testing.T) {
		t.Parallel()

		html := `<!DOCTYPE html><html><head></head><body></body></html>`

		ext, err := goquery.NewExtractor().Extract(html, pagesmith.ExtractOptions{})

		require.NoError(t, err)
		assert.Empty(t, ext.Groups)
		assert.False(t, ext.Mutated())
		out, err := ext.Document.Render()
		require.NoError(t, err)
		assert.NotContains(t, out, "description")
	})

	t.Run("skips script, style, header, footer and landmark roles", func(t *testing.T) {
		t.Parallel()

		html := `<body>
<header><h1>Header title</h1></header>
<div role="banner"><p>Banner text</p></div>
<script>var x = "script text";</script>
<style>.a{}</style>
<noscript>Enable JS</noscript>
<main><p>Main text</p></main>
<div role="contentinfo"><p>Info text</p></div>
<footer><p>Footer text</p></footer>
</body>`

		ext, err := goquery.NewExtractor().Extract(html, pagesmith.ExtractOptions{})

		require.NoError(t, err)
		var texts []string
		for _, g := range ext.Groups {
			if !g.IsMetaDescription() {
				texts = append(texts, g.Original)
			}
		}
		assert.Equal(t, []string{"Main text"}, texts)
	})

	t.Run("extracts rewritable attributes", func(t *testing.T) {
		t.Parallel()

		html := `<body><section class="hero"><img src="a.png" alt="Team photo"><input placeholder="Your email"><button aria-label="Close dialog" title=" "></button></section></body>`

		ext, err := goquery.NewExtractor().Extract(html, pagesmith.ExtractOptions{})

		require.NoError(t, err)
		alt := findGroup(ext.Groups, "Team photo")
		require.NotNil(t, alt)
		assert.Equal(t, pagesmith.TargetAttr, alt.Kind)
		assert.Equal(t, "alt", alt.Attr)
		assert.Equal(t, "<img> [section:hero]", alt.Hint)
		assert.Equal(t, pagesmith.SectionHero, alt.Section)

		require.NotNil(t, findGroup(ext.Groups, "Your email"))
		require.NotNil(t, findGroup(ext.Groups, "Close dialog"))
		for _, g := range ext.Groups {
			assert.NotEqual(t, "title", g.Attr, "blank title attribute must be skipped")
		}
	})

	t.Run("collapses duplicate occurrences into one group", func(t *testing.T) {
		t.Parallel()

		html := `<body><p class="a">Learn  more</p><p class="b">Learn more</p><span>Learn more</span></body>`

		ext, err := goquery.NewExtractor().Extract(html, pagesmith.ExtractOptions{})

		require.NoError(t, err)
		var pGroup, spanGroup *pagesmith.RewriteGroup
		for _, g := range ext.Groups {
			if g.Original != "Learn more" {
				continue
			}
			switch g.Tag {
			case "p":
				pGroup = g
			case "span":
				spanGroup = g
			}
		}
		require.NotNil(t, pGroup)
		require.NotNil(t, spanGroup)
		assert.Len(t, pGroup.Targets, 2)
		assert.Len(t, spanGroup.Targets, 1)
	})

	t.Run("applies one replacement to every occurrence", func(t *testing.T) {
		t.Parallel()

		html := `<body><p>Learn more</p><div><p> Learn more </p></div></body>`

		ext, err := goquery.NewExtractor().Extract(html, pagesmith.ExtractOptions{})
		require.NoError(t, err)

		g := findGroup(ext.Groups, "Learn more")
		require.NotNil(t, g)
		for _, target := range g.Targets {
			require.NoError(t, ext.Document.Apply(target, "Discover"))
		}

		out, err := ext.Document.Render()
		require.NoError(t, err)
		assert.Contains(t, out, "<p>Discover</p>")
		assert.Contains(t, out, "<p> Discover </p>")
		assert.NotContains(t, out, "Learn more")
	})

	t.Run("rewrites CTA hrefs when link supplied", func(t *testing.T) {
		t.Parallel()

		html := `<body>
<a id="c1" href="/contact">Talk to us</a>
<a id="c2" href="#" class="btn btn-primary">Go</a>
<a id="c3" href="javascript:void(0)">Get started</a>
<a id="c4" href="https://example.com/about">About us</a>
<a id="c5" href="#">Read the story</a>
</body>`

		ext, err := goquery.NewExtractor().Extract(html, pagesmith.ExtractOptions{CTALink: "https://cal.example/book"})
		require.NoError(t, err)
		assert.Equal(t, 3, ext.CTARewrites)
		assert.True(t, ext.Mutated())

		out, err := ext.Document.Render()
		require.NoError(t, err)
		assert.Contains(t, out, `<a id="c1" href="https://cal.example/book">`)
		assert.Contains(t, out, `<a id="c2" href="https://cal.example/book"`)
		assert.Contains(t, out, `<a id="c3" href="https://cal.example/book">`)
		assert.Contains(t, out, `<a id="c4" href="https://example.com/about">`)
		assert.Contains(t, out, `<a id="c5" href="#">`)
	})

	t.Run("leaves hrefs alone without CTA link", func(t *testing.T) {
		t.Parallel()

		html := `<body><a href="/contact">Contact</a></body>`

		ext, err := goquery.NewExtractor().Extract(html, pagesmith.ExtractOptions{})

		require.NoError(t, err)
		assert.Zero(t, ext.CTARewrites)
	})

	t.Run("hint carries id, classes and section", func(t *testing.T) {
		t.Parallel()

		html := `<body><section id="features"><div class="card shadow rounded"><p>Fast setup</p></div></section></body>`

		ext, err := goquery.NewExtractor().Extract(html, pagesmith.ExtractOptions{})

		require.NoError(t, err)
		g := findGroup(ext.Groups, "Fast setup")
		require.NotNil(t, g)
		assert.Equal(t, "<p> [section:features]", g.Hint)
		assert.Equal(t, pagesmith.SectionFeatures, g.Section)
	})

	t.Run("accepts exactly the group limit", func(t *testing.T) {
		t.Parallel()

		// 2,499 paragraphs plus the synthesized meta description.
		html := paragraphs(pagesmith.MaxGroups - 1)

		ext, err := goquery.NewExtractor().Extract(html, pagesmith.ExtractOptions{})

		require.NoError(t, err)
		assert.Len(t, ext.Groups, pagesmith.MaxGroups)
	})

	t.Run("rejects one group over the limit", func(t *testing.T) {
		t.Parallel()

		html := paragraphs(pagesmith.MaxGroups)

		_, err := goquery.NewExtractor().Extract(html, pagesmith.ExtractOptions{})

		require.Error(t, err)
		assert.Equal(t, pagesmith.ETOOLARGE, pagesmith.ErrorCode(err))
		assert.Contains(t, pagesmith.ErrorMessage(err), "too many fields")
	})

	t.Run("honors custom group limit", func(t *testing.T) {
		t.Parallel()

		ext := &goquery.Extractor{MaxGroups: 3}

		_, err := ext.Extract(paragraphs(3), pagesmith.ExtractOptions{})

		require.Error(t, err)
		assert.Equal(t, pagesmith.ETOOLARGE, pagesmith.ErrorCode(err))
	})
}

// paragraphs returns a document with n distinct paragraphs.
func paragraphs(n int) string {
	var sb strings.Builder
	sb.WriteString("<html><head></head><body>")
	for i := 0; i < n; i++ {
		fmt.Fprintf(&sb, "<p>item %d</p>", i)
	}
	sb.WriteString("</body></html>")
	return sb.String()
}

func TestCaptureDoctype(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "<!DOCTYPE html>", goquery.CaptureDoctype("<!DOCTYPE html>\n<html></html>"))
	assert.Equal(t, "<!doctype html>", goquery.CaptureDoctype("  \n<!doctype html><html></html>"))
	assert.Empty(t, goquery.CaptureDoctype("<html></html>"))
}
