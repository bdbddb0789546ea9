package ports

import (
	"context"

	"github.com/aretw0/pagewizard/pkg/domain"
)

// Backend is the subset of the remote service the interpreter depends on.
// Implementations must treat any non-success response as an error.
type Backend interface {
	// AnalyzeProduct fetches structured product data for a product page URL.
	AnalyzeProduct(ctx context.Context, productURL string) (*domain.Product, error)

	// GenerateImages asks the AI model for a set of images matching prompt.
	GenerateImages(ctx context.Context, model, prompt string) ([]string, error)

	// UploadImage stores one local file and returns its remote path.
	UploadImage(ctx context.Context, file domain.UploadFile) (string, error)

	// GenerateContent produces the page content for the collected persona and product.
	GenerateContent(ctx context.Context, persona domain.Persona, product *domain.Product, opts domain.GenerateOptions) (*domain.GeneratedContent, error)

	// SavePersona stores the persona under a user supplied name.
	SavePersona(ctx context.Context, name string, persona domain.Persona) error

	// Publish pushes the generated page to the storefront.
	Publish(ctx context.Context, content *domain.GeneratedContent, product *domain.Product, images []string) (*domain.PublishResult, error)

	// Credits returns the remaining credit count of the current user.
	Credits(ctx context.Context) (int, error)
}
