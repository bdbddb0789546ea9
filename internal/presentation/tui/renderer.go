package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/pagewizard/pkg/domain"
	"github.com/charmbracelet/glamour"
)

// NewRenderer returns a function that renders markdown using glamour.
// It falls back to the raw markdown when the renderer cannot be built.
func NewRenderer() func(string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithEmoji(),
	)
	if err != nil {
		return func(markdown string) (string, error) { return markdown, nil }
	}

	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}
}

// PreviewMarkdown lays generated content out as a markdown document.
func PreviewMarkdown(c *domain.GeneratedContent) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", c.PageTitle)
	if c.SEODescription != "" {
		fmt.Fprintf(&b, "> %s\n\n", c.SEODescription)
	}
	for _, s := range c.Sections {
		if s.Title != "" {
			fmt.Fprintf(&b, "## %s\n\n", s.Title)
		}
		if s.Text != "" {
			fmt.Fprintf(&b, "%s\n\n", s.Text)
		}
	}
	if c.PageURL != "" {
		fmt.Fprintf(&b, "---\n\n%s\n", c.PageURL)
	}
	return b.String()
}

// ProductMarkdown summarizes an analyzed product as a markdown card.
func ProductMarkdown(p *domain.Product) string {
	var b strings.Builder
	fmt.Fprintf(&b, "**%s**\n\n", p.Name)
	if p.Price != nil {
		fmt.Fprintf(&b, "- Price: %.0f\n", *p.Price)
	}
	if p.Reviews.Count > 0 {
		fmt.Fprintf(&b, "- Reviews: %.1f (%d)\n", p.Reviews.Average, p.Reviews.Count)
	}
	fmt.Fprintf(&b, "- Images: %d\n", len(p.Images))
	return b.String()
}
