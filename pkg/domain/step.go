package domain

// StepType names the control flow behavior of a step as written in flow files.
type StepType string

const (
	// StepMessage displays content and continues (soft step) unless it carries buttons.
	StepMessage StepType = "message"
	// StepQuestion displays content and halts waiting for input (hard step).
	StepQuestion StepType = "question"
	// StepLoading displays a status and runs a named action.
	StepLoading StepType = "loading"
	// StepProductDisplay renders the analyzed product as a card.
	StepProductDisplay StepType = "product_display"
	// StepPreview renders the generated content and stops.
	StepPreview StepType = "preview"
)

// InputType defines the kind of input requested by a question.
type InputType string

const (
	InputText        InputType = "text"
	InputURL         InputType = "url"
	InputButtons     InputType = "buttons"
	InputImageSelect InputType = "image_select"
)

// Option is one choice of a button set.
type Option struct {
	Value  any    `json:"value" yaml:"value"`
	Label  string `json:"label" yaml:"label"`
	Desc   string `json:"desc,omitempty" yaml:"desc,omitempty"`
	Action string `json:"action,omitempty" yaml:"action,omitempty"`
	// Next overrides the step-level successor for this option only.
	Next string `json:"next,omitempty" yaml:"next,omitempty"`
}

// StepDefinition is the raw, string-typed shape of a step as authored in flow files.
// It is compiled into a Step before the interpreter ever sees it.
type StepDefinition struct {
	ID        string    `json:"id" yaml:"id"`
	Type      StepType  `json:"type" yaml:"type"`
	Content   string    `json:"content,omitempty" yaml:"content,omitempty"`
	InputType InputType `json:"inputType,omitempty" yaml:"inputType,omitempty"`
	Field     string    `json:"field,omitempty" yaml:"field,omitempty"`
	Options   []Option  `json:"options,omitempty" yaml:"options,omitempty"`
	Action    string    `json:"action,omitempty" yaml:"action,omitempty"`
	Next      string    `json:"next,omitempty" yaml:"next,omitempty"`
	Hint      string    `json:"hint,omitempty" yaml:"hint,omitempty"`
}

// Step is an immutable, compiled step.
type Step struct {
	ID      string
	Content string
	Hint    string
	Next    string
	Kind    StepKind
}

// StepKind is the sealed sum type over step behaviors.
// Only the types in this package implement it.
type StepKind interface {
	stepType() StepType
}

// Message shows content. With Choices set it suspends until one is picked.
type Message struct {
	Choices *ButtonsInput
}

// Question shows content and an input widget, then suspends.
type Question struct {
	// Field is the session slot the answer writes to (optional for buttons).
	Field string
	Input Input
}

// Loading shows a status message and runs Action.
type Loading struct {
	Action string
}

// ProductDisplay attaches the analyzed product card to the latest message.
type ProductDisplay struct{}

// Preview renders the generated content; automatic advancement stops here.
type Preview struct{}

func (Message) stepType() StepType        { return StepMessage }
func (Question) stepType() StepType       { return StepQuestion }
func (Loading) stepType() StepType        { return StepLoading }
func (ProductDisplay) stepType() StepType { return StepProductDisplay }
func (Preview) stepType() StepType        { return StepPreview }

// Type reports the authored type of the step.
func (s *Step) Type() StepType {
	if s.Kind == nil {
		return ""
	}
	return s.Kind.stepType()
}

// Input is the sealed sum type over question widgets.
type Input interface {
	inputType() InputType
}

// TextInput accepts any non-empty trimmed string.
type TextInput struct{}

// URLInput accepts an absolute http(s) URL.
type URLInput struct{}

// ButtonsInput offers a fixed, ordered set of options.
type ButtonsInput struct {
	Options []Option
}

// ImageSelectInput runs the image-selection sub-flow.
type ImageSelectInput struct{}

func (TextInput) inputType() InputType        { return InputText }
func (URLInput) inputType() InputType         { return InputURL }
func (ButtonsInput) inputType() InputType     { return InputButtons }
func (ImageSelectInput) inputType() InputType { return InputImageSelect }

// InputTypeOf reports the authored input type of a widget, or "" for nil.
func InputTypeOf(in Input) InputType {
	if in == nil {
		return ""
	}
	return in.inputType()
}

// Successors lists every step id this step can hand control to.
// Per-option overrides are included; duplicates are removed.
func (s *Step) Successors() []string {
	var out []string
	seen := make(map[string]bool)
	add := func(id string) {
		if id != "" && !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	add(s.Next)
	for _, opt := range s.Options() {
		add(opt.Next)
	}
	return out
}

// NextFor resolves the successor for a chosen option.
func (s *Step) NextFor(opt Option) string {
	if opt.Next != "" {
		return opt.Next
	}
	return s.Next
}

// Options returns the button options of the step, if it offers any.
func (s *Step) Options() []Option {
	switch k := s.Kind.(type) {
	case Message:
		if k.Choices != nil {
			return k.Choices.Options
		}
	case Question:
		if b, ok := k.Input.(ButtonsInput); ok {
			return b.Options
		}
	}
	return nil
}

// Choices returns the button set of the step, if any.
func (s *Step) Choices() (ButtonsInput, bool) {
	opts := s.Options()
	if opts == nil {
		return ButtonsInput{}, false
	}
	return ButtonsInput{Options: opts}, true
}
