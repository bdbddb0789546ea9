package domain

// Product is the structured result of a product page analysis.
type Product struct {
	Name    string         `json:"name" mapstructure:"name"`
	Price   *float64       `json:"price,omitempty" mapstructure:"price"`
	Reviews ReviewStats    `json:"reviews" mapstructure:"reviews"`
	Images  []string       `json:"images" mapstructure:"images"`
	URL     string         `json:"url,omitempty" mapstructure:"url"`
	Extra   map[string]any `json:"-" mapstructure:",remain"`
}

// ReviewStats summarizes product reviews.
type ReviewStats struct {
	Average float64 `json:"average" mapstructure:"average"`
	Count   int     `json:"count" mapstructure:"count"`
}

// GeneratedContent is the page produced by the generation backend.
type GeneratedContent struct {
	PageTitle      string    `json:"pageTitle" mapstructure:"pageTitle"`
	PageURL        string    `json:"pageUrl" mapstructure:"pageUrl"`
	SEODescription string    `json:"seoDescription" mapstructure:"seoDescription"`
	Sections       []Section `json:"sections" mapstructure:"sections"`
}

// Section is one block of generated content.
type Section struct {
	Role  string `json:"role" mapstructure:"role"`
	Title string `json:"title" mapstructure:"title"`
	Text  string `json:"text" mapstructure:"text"`
}

// GenerateOptions is the options bag sent along with a content generation request.
type GenerateOptions struct {
	IncludePrice any      `json:"includePrice"`
	MainImage    string   `json:"mainImage,omitempty"`
	Images       []string `json:"images"`
}

// ImageModel is one entry of the AI image model catalog.
type ImageModel struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
	Icon string `json:"icon,omitempty" yaml:"icon,omitempty"`
	Desc string `json:"desc,omitempty" yaml:"desc,omitempty"`
}

// UploadFile is a local file chosen for upload.
// Data is base64 encoded in JSON.
type UploadFile struct {
	Name string `json:"name"`
	Data []byte `json:"data"`
}

// SavedPersona is a persona stored on the backend.
type SavedPersona struct {
	ID       string  `json:"id" mapstructure:"id"`
	SaveName string  `json:"saveName" mapstructure:"saveName"`
	Persona  Persona `json:"persona,omitempty" mapstructure:"persona"`
}

// PublishResult is the backend answer to a publish request.
type PublishResult struct {
	PageURL string `json:"pageUrl" mapstructure:"pageUrl"`
}
