package domain

import (
	"encoding/json"
	"fmt"
)

// Event is raw user input reported by the presenter.
// Presenters never decide flow progression; they only report events.
type Event interface {
	eventName() string
}

// TextSubmitted carries a free-text answer.
type TextSubmitted struct {
	Value string `json:"value"`
}

// URLSubmitted carries a URL answer.
type URLSubmitted struct {
	Value string `json:"value"`
}

// ButtonChosen selects the option at Index of the current button set.
// Text carries extra input some option actions need (e.g. a save name).
type ButtonChosen struct {
	Index int    `json:"index"`
	Text  string `json:"text,omitempty"`
}

// ImageSourceSwitched changes the active image sub-flow.
type ImageSourceSwitched struct {
	Source ImageSource `json:"source"`
}

// ImageToggled flips membership of a product image in the selection.
type ImageToggled struct {
	URL string `json:"url"`
}

// MainImageChosen overrides the main image designation.
type MainImageChosen struct {
	URL string `json:"url"`
}

// ModelChosen picks an AI image model.
type ModelChosen struct {
	Model string `json:"model"`
}

// GenerateRequested submits an AI image generation prompt.
type GenerateRequested struct {
	Prompt string `json:"prompt"`
}

// FilesChosen submits local files for upload.
type FilesChosen struct {
	Files []UploadFile `json:"files"`
}

// ImagesConfirmed confirms the current image selection.
type ImagesConfirmed struct{}

func (TextSubmitted) eventName() string       { return "text_submitted" }
func (URLSubmitted) eventName() string        { return "url_submitted" }
func (ButtonChosen) eventName() string        { return "button_chosen" }
func (ImageSourceSwitched) eventName() string { return "image_source_switched" }
func (ImageToggled) eventName() string        { return "image_toggled" }
func (MainImageChosen) eventName() string     { return "main_image_chosen" }
func (ModelChosen) eventName() string         { return "model_chosen" }
func (GenerateRequested) eventName() string   { return "generate_requested" }
func (FilesChosen) eventName() string         { return "files_chosen" }
func (ImagesConfirmed) eventName() string     { return "images_confirmed" }

// EventName returns the wire name of an event.
func EventName(e Event) string {
	if e == nil {
		return ""
	}
	return e.eventName()
}

// EventEnvelope is the wire shape of an event: its name plus its fields.
type EventEnvelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// DecodeEvent builds the event named name from its JSON fields.
// Empty data is accepted for events without required fields.
func DecodeEvent(name string, data json.RawMessage) (Event, error) {
	var ev Event
	switch name {
	case "text_submitted":
		ev = &TextSubmitted{}
	case "url_submitted":
		ev = &URLSubmitted{}
	case "button_chosen":
		ev = &ButtonChosen{}
	case "image_source_switched":
		ev = &ImageSourceSwitched{}
	case "image_toggled":
		ev = &ImageToggled{}
	case "main_image_chosen":
		ev = &MainImageChosen{}
	case "model_chosen":
		ev = &ModelChosen{}
	case "generate_requested":
		ev = &GenerateRequested{}
	case "files_chosen":
		ev = &FilesChosen{}
	case "images_confirmed":
		return ImagesConfirmed{}, nil
	default:
		return nil, fmt.Errorf("unknown event %q", name)
	}

	if len(data) > 0 && string(data) != "null" {
		if err := json.Unmarshal(data, ev); err != nil {
			return nil, fmt.Errorf("invalid %s payload: %w", name, err)
		}
	}
	return deref(ev), nil
}

// deref returns the value form of a decoded event, which is what the interpreter switches on.
func deref(ev Event) Event {
	switch e := ev.(type) {
	case *TextSubmitted:
		return *e
	case *URLSubmitted:
		return *e
	case *ButtonChosen:
		return *e
	case *ImageSourceSwitched:
		return *e
	case *ImageToggled:
		return *e
	case *MainImageChosen:
		return *e
	case *ModelChosen:
		return *e
	case *GenerateRequested:
		return *e
	case *FilesChosen:
		return *e
	}
	return ev
}
