package domain

// ToneSetting describes one writing tone offered to the user.
type ToneSetting struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	Example     string `json:"example" yaml:"example"`
}

// EmojiSetting describes one emoji usage level.
type EmojiSetting struct {
	Name      string   `json:"name" yaml:"name"`
	Frequency string   `json:"frequency" yaml:"frequency"`
	Examples  []string `json:"examples" yaml:"examples"`
}

// Catalog groups the fixed choice sets presenters may show next to inputs.
type Catalog struct {
	ImageModels []ImageModel            `json:"imageModels"`
	Tones       map[string]ToneSetting  `json:"tones"`
	Emoji       map[string]EmojiSetting `json:"emoji"`
}

// Model returns the catalog entry for id.
func (c Catalog) Model(id string) (ImageModel, bool) {
	for _, m := range c.ImageModels {
		if m.ID == id {
			return m, true
		}
	}
	return ImageModel{}, false
}
