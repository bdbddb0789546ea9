package domain

import (
	"slices"

	"github.com/google/uuid"
)

// Persona field names written by the sample flow.
const (
	FieldGenre          = "genre"
	FieldTargetCustomer = "targetCustomer"
	FieldTone           = "tone"
	FieldEmojiUsage     = "emojiUsage"
	FieldIncludePrice   = "includePrice"

	// FieldProductURL is the top-level session slot written by URL questions.
	FieldProductURL = "productUrl"
)

// ImageSource identifies one of the image-selection sub-flows.
type ImageSource string

const (
	SourceProduct  ImageSource = "product"
	SourceGenerate ImageSource = "generate"
	SourceUpload   ImageSource = "upload"
)

// Persona maps persona field names to answers.
type Persona map[string]any

func (p Persona) str(key string) string {
	if v, ok := p[key].(string); ok {
		return v
	}
	return ""
}

func (p Persona) Genre() string          { return p.str(FieldGenre) }
func (p Persona) TargetCustomer() string { return p.str(FieldTargetCustomer) }
func (p Persona) Tone() string           { return p.str(FieldTone) }
func (p Persona) EmojiUsage() string     { return p.str(FieldEmojiUsage) }

// IncludePrice returns the raw includePrice answer (usually a bool), or nil if unanswered.
func (p Persona) IncludePrice() any {
	return p[FieldIncludePrice]
}

// SessionOptions holds auxiliary settings derived during a run.
type SessionOptions struct {
	// MainImage is the designated primary image, always a member of Images or empty.
	MainImage   string      `json:"mainImage,omitempty"`
	ImageSource ImageSource `json:"imageSource,omitempty"`
	ImageModel  string      `json:"imageModel,omitempty"`
}

// Session is the mutable accumulator of one wizard run.
// A restart replaces the whole value, so RunID doubles as the run generation.
type Session struct {
	RunID            string            `json:"runId"`
	Persona          Persona           `json:"persona"`
	ProductURL       string            `json:"productUrl,omitempty"`
	Product          *Product          `json:"product,omitempty"`
	Images           []string          `json:"images"`
	Options          SessionOptions    `json:"options"`
	GeneratedContent *GeneratedContent `json:"generatedContent,omitempty"`
	// Fields holds top-level answers for fields the session has no dedicated slot for.
	Fields map[string]string `json:"fields,omitempty"`
}

// NewSession creates an empty session with a fresh run id.
func NewSession() *Session {
	return &Session{
		RunID:   uuid.NewString(),
		Persona: make(Persona),
		Images:  []string{},
		Options: SessionOptions{ImageSource: SourceProduct},
		Fields:  make(map[string]string),
	}
}

// SetTopLevel writes a URL-style answer to the session slot named by field.
func (s *Session) SetTopLevel(field, value string) {
	if field == FieldProductURL {
		s.ProductURL = value
		return
	}
	if s.Fields == nil {
		s.Fields = make(map[string]string)
	}
	s.Fields[field] = value
}

// TopLevel reads a value written by SetTopLevel.
func (s *Session) TopLevel(field string) string {
	if field == FieldProductURL {
		return s.ProductURL
	}
	return s.Fields[field]
}

// ToggleImage adds url to the selection or removes it if already selected.
// It reports whether the image is selected afterwards.
func (s *Session) ToggleImage(url string) bool {
	if i := slices.Index(s.Images, url); i >= 0 {
		s.Images = slices.Delete(s.Images, i, i+1)
		if s.Options.MainImage == url {
			s.Options.MainImage = ""
			if len(s.Images) > 0 {
				s.Options.MainImage = s.Images[0]
			}
		}
		return false
	}
	s.Images = append(s.Images, url)
	if len(s.Images) == 1 {
		s.Options.MainImage = url
	}
	return true
}

// ReplaceImages swaps the whole selection; the first image becomes main.
func (s *Session) ReplaceImages(images []string) {
	s.Images = append([]string{}, images...)
	s.Options.MainImage = ""
	if len(s.Images) > 0 {
		s.Options.MainImage = s.Images[0]
	}
}

// SetMainImage overrides the main image designation. The image must be selected.
func (s *Session) SetMainImage(url string) bool {
	if !slices.Contains(s.Images, url) {
		return false
	}
	s.Options.MainImage = url
	return true
}

// MainImage returns the designated main image, defaulting to the first selected one.
func (s *Session) MainImage() string {
	if s.Options.MainImage != "" {
		return s.Options.MainImage
	}
	if len(s.Images) > 0 {
		return s.Images[0]
	}
	return ""
}

// Clone returns a deep copy safe to hand to presenters or other goroutines.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	next := *s
	next.Persona = make(Persona, len(s.Persona))
	for k, v := range s.Persona {
		next.Persona[k] = v
	}
	next.Images = append([]string{}, s.Images...)
	next.Fields = make(map[string]string, len(s.Fields))
	for k, v := range s.Fields {
		next.Fields[k] = v
	}
	if s.Product != nil {
		p := *s.Product
		p.Images = append([]string(nil), s.Product.Images...)
		next.Product = &p
	}
	if s.GeneratedContent != nil {
		c := *s.GeneratedContent
		c.Sections = append([]Section(nil), s.GeneratedContent.Sections...)
		next.GeneratedContent = &c
	}
	return &next
}
