package tui

import (
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/ansi"
	"github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/lipgloss"
	lru "github.com/hashicorp/golang-lru/v2"
)

const renderedMarkdownCacheSize = 256

var (
	mdRendererMu sync.Mutex
	// Renderers are cached by style + wrap width. Building one with
	// WithAutoStyle can block on terminal background queries, so the style is
	// always explicit and follows the theme preference.
	mdRenderers = map[string]*glamour.TermRenderer{}

	// Rendered descriptions, keyed by style, width and source. The details pane
	// re-renders on every frame; glamour output is comparatively expensive.
	mdRendered, _ = lru.New[string, string](renderedMarkdownCacheSize)
)

func renderMarkdown(md string, width int) string {
	md = strings.TrimSpace(md)
	if md == "" {
		return ""
	}
	if width < 10 {
		width = 10
	}

	style := markdownStyle()
	cacheKey := style + ":" + strconv.Itoa(width) + ":" + md
	if out, ok := mdRendered.Get(cacheKey); ok {
		return out
	}

	r, err := markdownRenderer(style, width)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	out = strings.TrimRight(out, "\n")
	mdRendered.Add(cacheKey, out)
	return out
}

func markdownRenderer(style string, width int) (*glamour.TermRenderer, error) {
	key := style + ":" + strconv.Itoa(width)

	mdRendererMu.Lock()
	r := mdRenderers[key]
	mdRendererMu.Unlock()
	if r != nil {
		return r, nil
	}

	cfg := markdownStyleConfig(style)
	zero := uint(0)
	cfg.Document.Margin = &zero
	rr, err := glamour.NewTermRenderer(
		glamour.WithStyles(cfg),
		glamour.WithWordWrap(width),
		glamour.WithEmoji(),
	)
	if err != nil {
		return nil, err
	}

	mdRendererMu.Lock()
	defer mdRendererMu.Unlock()
	if existing := mdRenderers[key]; existing != nil {
		return existing, nil
	}
	mdRenderers[key] = rr
	return rr, nil
}

func markdownStyle() string {
	if lipgloss.HasDarkBackground() {
		return "dark"
	}
	return "light"
}

func markdownStyleConfig(styleName string) ansi.StyleConfig {
	if styleName == "light" {
		cfg := styles.LightStyleConfig
		applyMarkdownPalette(&cfg, styleName)
		return cfg
	}
	cfg := styles.DarkStyleConfig
	applyMarkdownPalette(&cfg, styleName)
	return cfg
}

func applyMarkdownPalette(cfg *ansi.StyleConfig, styleName string) {
	// Headings keep the normal text color; links use the accent.
	headingColor := mdColor(colorSurfaceFg, styleName)
	cfg.Heading.Color = headingColor
	cfg.H1.Color = headingColor
	cfg.H2.Color = headingColor
	cfg.H3.Color = headingColor

	linkColor := mdColor(colorAccent, styleName)
	cfg.Link.Color = linkColor
	cfg.Link.Underline = mdBoolPtr(true)
	cfg.LinkText.Color = linkColor

	cfg.Code.Color = mdColor(colorSurfaceFg, styleName)
	cfg.Text.Color = mdColor(colorSurfaceFg, styleName)
	cfg.Strong.Color = nil
	cfg.Emph.Color = nil
	cfg.BlockQuote.Faint = mdBoolPtr(false)
}

func mdColor(c lipgloss.AdaptiveColor, styleName string) *string {
	if styleName == "light" {
		return mdStrPtr(c.Light)
	}
	return mdStrPtr(c.Dark)
}

func mdStrPtr(s string) *string { return &s }
func mdBoolPtr(b bool) *bool    { return &b }
