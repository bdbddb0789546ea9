package testutils

import (
	"context"
	"errors"
	"sync"

	"github.com/aretw0/pagewizard/pkg/domain"
)

// ErrNotScripted is returned by FakeBackend calls that have no scripted behaviour.
var ErrNotScripted = errors.New("fake backend: call not scripted")

// FakeBackend is a scripted ports.Backend. Nil funcs fail with ErrNotScripted,
// except SavePersona and Credits which succeed.
type FakeBackend struct {
	AnalyzeFunc         func(ctx context.Context, productURL string) (*domain.Product, error)
	GenerateImagesFunc  func(ctx context.Context, model, prompt string) ([]string, error)
	UploadFunc          func(ctx context.Context, file domain.UploadFile) (string, error)
	GenerateContentFunc func(ctx context.Context, persona domain.Persona, product *domain.Product, opts domain.GenerateOptions) (*domain.GeneratedContent, error)
	SavePersonaFunc     func(ctx context.Context, name string, persona domain.Persona) error
	PublishFunc         func(ctx context.Context, content *domain.GeneratedContent, product *domain.Product, images []string) (*domain.PublishResult, error)
	CreditsFunc         func(ctx context.Context) (int, error)

	mu    sync.Mutex
	calls []string
}

// Calls returns the names of the methods invoked so far, in order.
func (f *FakeBackend) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *FakeBackend) record(name string) {
	f.mu.Lock()
	f.calls = append(f.calls, name)
	f.mu.Unlock()
}

func (f *FakeBackend) AnalyzeProduct(ctx context.Context, productURL string) (*domain.Product, error) {
	f.record("AnalyzeProduct")
	if f.AnalyzeFunc == nil {
		return nil, ErrNotScripted
	}
	return f.AnalyzeFunc(ctx, productURL)
}

func (f *FakeBackend) GenerateImages(ctx context.Context, model, prompt string) ([]string, error) {
	f.record("GenerateImages")
	if f.GenerateImagesFunc == nil {
		return nil, ErrNotScripted
	}
	return f.GenerateImagesFunc(ctx, model, prompt)
}

func (f *FakeBackend) UploadImage(ctx context.Context, file domain.UploadFile) (string, error) {
	f.record("UploadImage")
	if f.UploadFunc == nil {
		return "", ErrNotScripted
	}
	return f.UploadFunc(ctx, file)
}

func (f *FakeBackend) GenerateContent(ctx context.Context, persona domain.Persona, product *domain.Product, opts domain.GenerateOptions) (*domain.GeneratedContent, error) {
	f.record("GenerateContent")
	if f.GenerateContentFunc == nil {
		return nil, ErrNotScripted
	}
	return f.GenerateContentFunc(ctx, persona, product, opts)
}

func (f *FakeBackend) SavePersona(ctx context.Context, name string, persona domain.Persona) error {
	f.record("SavePersona")
	if f.SavePersonaFunc == nil {
		return nil
	}
	return f.SavePersonaFunc(ctx, name, persona)
}

func (f *FakeBackend) Publish(ctx context.Context, content *domain.GeneratedContent, product *domain.Product, images []string) (*domain.PublishResult, error) {
	f.record("Publish")
	if f.PublishFunc == nil {
		return nil, ErrNotScripted
	}
	return f.PublishFunc(ctx, content, product, images)
}

func (f *FakeBackend) Credits(ctx context.Context) (int, error) {
	f.record("Credits")
	if f.CreditsFunc == nil {
		return 0, nil
	}
	return f.CreditsFunc(ctx)
}
