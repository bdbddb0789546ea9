package tui

import (
	"testing"

	"github.com/aretw0/pagewizard/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestPreviewMarkdown(t *testing.T) {
	md := PreviewMarkdown(&domain.GeneratedContent{
		PageTitle:      "Wooden cart",
		SEODescription: "A cart for small hands",
		Sections: []domain.Section{
			{Role: "intro", Title: "Why", Text: "Because."},
			{Role: "closing", Text: "Bye."},
		},
	})

	assert.Contains(t, md, "# Wooden cart\n")
	assert.Contains(t, md, "> A cart for small hands")
	assert.Contains(t, md, "## Why\n\nBecause.")
	assert.Contains(t, md, "Bye.")
	assert.NotContains(t, md, "---")
}

func TestProductMarkdown(t *testing.T) {
	price := 2980.0
	md := ProductMarkdown(&domain.Product{
		Name:    "Cart",
		Price:   &price,
		Reviews: domain.ReviewStats{Average: 4.5, Count: 12},
		Images:  []string{"a", "b"},
	})

	assert.Contains(t, md, "**Cart**")
	assert.Contains(t, md, "Price: 2980")
	assert.Contains(t, md, "4.5 (12)")
	assert.Contains(t, md, "Images: 2")
}
