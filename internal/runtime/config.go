package runtime

import (
	"maps"
	"slices"
	"time"

	"github.com/aretw0/pagewizard/pkg/domain"
)

// Config is the immutable configuration of an interpreter.
// Build it with DefaultConfig and adjust fields before passing it to New.
type Config struct {
	// Entry is the step a new run starts at.
	Entry string
	// ProductStep is where a failed product analysis sends the user back to.
	ProductStep string
	// RegenerateStep is the step re-entered by Regenerate.
	RegenerateStep string

	// Stages maps step ids to the coarse progress stage (1-4). Unknown ids are stage 1.
	Stages map[string]int

	// Cosmetic pacing. Zero disables the pause.
	MessageDelay time.Duration
	TypingDelay  time.Duration
	ProductDelay time.Duration

	Catalog domain.Catalog

	// DefaultSaveName is used when the user saves a persona without naming it.
	DefaultSaveName string

	Texts Texts
}

// Texts holds every user facing string the interpreter emits on its own.
type Texts struct {
	EmptyText    string
	InvalidURL   string
	NoImages     string
	NoModel      string
	NoPrompt     string
	NoFiles      string
	BadOption    string
	BadImage     string
	UnknownModel string

	Analyzing           string
	AnalyzeFailed       string
	GeneratingContent   string
	GenerateFailed      string // formatted with the error
	GeneratingImages    string
	ImageGenerateFailed string // formatted with the error
	Uploading           string
	UploadProgress      string // formatted with index and total
	UploadFailed        string // formatted with the error
	Saved               string // formatted with the save name
	SaveFailed          string
	Publishing          string
	Published           string // formatted with the page URL
	PublishFailed       string // formatted with the error
}

// DefaultConfig returns the configuration of the built-in wizard flow.
func DefaultConfig() Config {
	return Config{
		Entry:          "welcome",
		ProductStep:    "product_url",
		RegenerateStep: "generating",
		Stages: map[string]int{
			"welcome": 1, "genre": 1, "target": 1, "tone": 1, "emoji": 1, "persona_complete": 1,
			"product_url": 2, "analyzing": 2, "product_confirm": 2, "price_include": 2,
			"image_source": 3,
			"generating": 4, "preview": 4,
		},
		MessageDelay:    1000 * time.Millisecond,
		TypingDelay:     300 * time.Millisecond,
		ProductDelay:    500 * time.Millisecond,
		Catalog:         DefaultCatalog(),
		DefaultSaveName: "Preset 1",
		Texts: Texts{
			EmptyText:    "Please type an answer",
			InvalidURL:   "Please enter a valid URL",
			NoImages:     "Select at least one image",
			NoModel:      "Choose an AI model",
			NoPrompt:     "Enter a prompt",
			NoFiles:      "Choose at least one file",
			BadOption:    "That choice is not available",
			BadImage:     "That image is not part of this product",
			UnknownModel: "Unknown AI model",

			Analyzing:           "Analyzing the product page...",
			AnalyzeFailed:       "Sorry, I couldn't analyze that product page 😢\nTry another URL, or try again.",
			GeneratingContent:   "Generating your content...",
			GenerateFailed:      "Content generation failed: %v",
			GeneratingImages:    "Generating images...",
			ImageGenerateFailed: "Image generation failed: %v",
			Uploading:           "Uploading images...",
			UploadProgress:      "Uploading images... (%d/%d)",
			UploadFailed:        "Upload failed: %v",
			Saved:               "Saved as \"%s\"! ✨",
			SaveFailed:          "Saving failed",
			Publishing:          "Publishing your page...",
			Published:           "🎉 Your content page is published!\n\n📎 URL: %s",
			PublishFailed:       "Publishing failed: %v",
		},
	}
}

// DefaultCatalog returns the fixed image model, tone and emoji catalogs.
func DefaultCatalog() domain.Catalog {
	return domain.Catalog{
		ImageModels: []domain.ImageModel{
			{ID: "gemini", Name: "Gemini", Icon: "🌟", Desc: "Google AI"},
			{ID: "chatgpt", Name: "ChatGPT", Icon: "🤖", Desc: "OpenAI DALL-E"},
			{ID: "midjourney", Name: "Midjourney", Icon: "🎨", Desc: "High quality art"},
		},
		Tones: map[string]domain.ToneSetting{
			"casual":       {Name: "Casual", Description: "Friendly and approachable", Example: "You're gonna love this! 😊"},
			"polite":       {Name: "Polite", Description: "Courteous, formal register", Example: "We are pleased to present..."},
			"professional": {Name: "Professional", Description: "Expert tone with domain vocabulary", Example: "We recommend... It is effective for..."},
		},
		Emoji: map[string]domain.EmojiSetting{
			"yes":      {Name: "Yes", Frequency: "high", Examples: []string{"😊", "✨", "🎁", "💕", "🌸", "👍"}},
			"moderate": {Name: "A few", Frequency: "low", Examples: []string{"✨", "🎁"}},
			"no":       {Name: "No", Frequency: "none", Examples: []string{}},
		},
	}
}

// Stage returns the progress stage of a step id.
func (c *Config) Stage(stepID string) int {
	if s, ok := c.Stages[stepID]; ok {
		return s
	}
	return 1
}

// clone detaches the config from the caller's maps and slices.
func (c Config) clone() Config {
	out := c
	out.Stages = maps.Clone(c.Stages)
	out.Catalog.ImageModels = slices.Clone(c.Catalog.ImageModels)
	out.Catalog.Tones = maps.Clone(c.Catalog.Tones)
	out.Catalog.Emoji = maps.Clone(c.Catalog.Emoji)
	return out
}
