package api

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/aretw0/pagewizard/internal/dto"
	"github.com/aretw0/pagewizard/pkg/domain"
	"github.com/aretw0/pagewizard/pkg/ports"
)

const (
	endpointAuth     = "/auth"
	endpointPersona  = "/persona"
	endpointAnalyze  = "/analyze"
	endpointGenerate = "/image/generate"
	endpointUpload   = "/image/upload"
	endpointResize   = "/image/resize"
	endpointContent  = "/content/generate"
	endpointPublish  = "/publish"
	endpointStatus   = "/status"
)

// ImageRequest parameterizes AI image generation.
type ImageRequest struct {
	Provider    string `json:"provider"`
	Prompt      string `json:"prompt"`
	Count       int    `json:"count"`
	AspectRatio string `json:"aspectRatio"`
}

var _ ports.Backend = (*Client)(nil)

// AnalyzeProduct fetches structured data for a product page.
func (c *Client) AnalyzeProduct(ctx context.Context, productURL string) (*domain.Product, error) {
	res, err := c.Call(ctx, endpointAnalyze, "POST", map[string]any{"productUrl": productURL})
	if err != nil {
		return nil, err
	}
	raw, err := field(endpointAnalyze, res, "product")
	if err != nil {
		return nil, err
	}

	var p domain.Product
	if err := decode(raw, &p); err != nil {
		return nil, fmt.Errorf("%s: %w", endpointAnalyze, err)
	}
	return &p, nil
}

// GenerateImages asks for four 3:2 images from the given model.
func (c *Client) GenerateImages(ctx context.Context, model, prompt string) ([]string, error) {
	return c.GenerateImagesWith(ctx, ImageRequest{Provider: model, Prompt: prompt})
}

// GenerateImagesWith is GenerateImages with explicit count and aspect ratio.
func (c *Client) GenerateImagesWith(ctx context.Context, req ImageRequest) ([]string, error) {
	if req.Count <= 0 {
		req.Count = 4
	}
	if req.AspectRatio == "" {
		req.AspectRatio = "3:2"
	}

	res, err := c.Call(ctx, endpointGenerate, "POST", req)
	if err != nil {
		return nil, err
	}
	if _, err := field(endpointGenerate, res, "images"); err != nil {
		return nil, err
	}

	var out dto.ImageList
	if err := decode(res, &out); err != nil {
		return nil, fmt.Errorf("%s: %w", endpointGenerate, err)
	}
	return out.Images, nil
}

// UploadImage sends one file, base64 encoded, and returns its stored path.
func (c *Client) UploadImage(ctx context.Context, file domain.UploadFile) (string, error) {
	res, err := c.Call(ctx, endpointUpload, "POST", map[string]any{
		"imageData": base64.StdEncoding.EncodeToString(file.Data),
		"filename":  file.Name,
	})
	if err != nil {
		return "", err
	}
	return imagePath(endpointUpload, res)
}

// ResizeImage has the backend fetch imageURL, resize it and store the result.
// Zero dimensions default to 1200x800.
func (c *Client) ResizeImage(ctx context.Context, imageURL string, width, height int) (string, error) {
	if width <= 0 {
		width = 1200
	}
	if height <= 0 {
		height = 800
	}

	res, err := c.Call(ctx, endpointResize, "POST", map[string]any{
		"imageUrl": imageURL,
		"width":    width,
		"height":   height,
	})
	if err != nil {
		return "", err
	}
	return imagePath(endpointResize, res)
}

func imagePath(endpoint string, res map[string]any) (string, error) {
	var out dto.ImagePath
	if err := decode(res, &out); err != nil {
		return "", fmt.Errorf("%s: %w", endpoint, err)
	}
	if out.Path == "" {
		return "", fmt.Errorf("%s: %w %q", endpoint, ErrMissingField, "path")
	}
	return out.Path, nil
}

// GenerateContent produces the page content.
func (c *Client) GenerateContent(ctx context.Context, persona domain.Persona, product *domain.Product, opts domain.GenerateOptions) (*domain.GeneratedContent, error) {
	res, err := c.Call(ctx, endpointContent, "POST", map[string]any{
		"persona": persona,
		"product": product,
		"options": opts,
	})
	if err != nil {
		return nil, err
	}
	raw, err := field(endpointContent, res, "content")
	if err != nil {
		return nil, err
	}

	var content domain.GeneratedContent
	if err := decode(raw, &content); err != nil {
		return nil, fmt.Errorf("%s: %w", endpointContent, err)
	}
	return &content, nil
}

// SavePersona stores persona under name.
func (c *Client) SavePersona(ctx context.Context, name string, persona domain.Persona) error {
	_, err := c.Call(ctx, endpointPersona, "POST", map[string]any{
		"action":   "save",
		"persona":  persona,
		"saveName": name,
	})
	return err
}

// ListPersonas returns the saved personas of the current user.
func (c *Client) ListPersonas(ctx context.Context) ([]domain.SavedPersona, error) {
	res, err := c.Call(ctx, endpointPersona, "GET", map[string]any{"action": "list"})
	if err != nil {
		return nil, err
	}

	var out dto.PersonaList
	if err := decode(res, &out); err != nil {
		return nil, fmt.Errorf("%s: %w", endpointPersona, err)
	}
	return out.Personas, nil
}

// DeletePersona removes a saved persona.
func (c *Client) DeletePersona(ctx context.Context, id string) error {
	_, err := c.Call(ctx, endpointPersona, "DELETE", map[string]any{
		"action":    "delete",
		"personaId": id,
	})
	return err
}

// Publish pushes the page to the storefront.
func (c *Client) Publish(ctx context.Context, content *domain.GeneratedContent, product *domain.Product, images []string) (*domain.PublishResult, error) {
	if images == nil {
		images = []string{}
	}
	res, err := c.Call(ctx, endpointPublish, "POST", map[string]any{
		"generatedContent": content,
		"product":          product,
		"images":           images,
	})
	if err != nil {
		return nil, err
	}

	var out domain.PublishResult
	if err := decode(res, &out); err != nil {
		return nil, fmt.Errorf("%s: %w", endpointPublish, err)
	}
	return &out, nil
}

// Credits returns the remaining credit count.
func (c *Client) Credits(ctx context.Context) (int, error) {
	res, err := c.Call(ctx, endpointStatus, "GET", map[string]any{"action": "credits"})
	if err != nil {
		return 0, err
	}

	var out dto.Credits
	if err := decode(res, &out); err != nil {
		return 0, fmt.Errorf("%s: %w", endpointStatus, err)
	}
	if out.Credits == nil {
		return 0, fmt.Errorf("%s: %w %q", endpointStatus, ErrMissingField, "credits")
	}
	return *out.Credits, nil
}
