package dsl

import "github.com/aretw0/pagewizard/pkg/domain"

// StepBuilder provides a fluent API for configuring a step.
type StepBuilder struct {
	def domain.StepDefinition
}

// Message marks the step as a message (soft step unless it carries options).
func (s *StepBuilder) Message(content string) *StepBuilder {
	s.def.Type = domain.StepMessage
	s.def.Content = content
	return s
}

// Question marks the step as a question (hard step).
func (s *StepBuilder) Question(content string) *StepBuilder {
	s.def.Type = domain.StepQuestion
	s.def.Content = content
	return s
}

// Loading marks the step as a loading step that runs action.
func (s *StepBuilder) Loading(content, action string) *StepBuilder {
	s.def.Type = domain.StepLoading
	s.def.Content = content
	s.def.Action = action
	return s
}

// ProductDisplay marks the step as the product card step.
func (s *StepBuilder) ProductDisplay(content string) *StepBuilder {
	s.def.Type = domain.StepProductDisplay
	s.def.Content = content
	return s
}

// Preview marks the step as the terminal preview.
func (s *StepBuilder) Preview(content string) *StepBuilder {
	s.def.Type = domain.StepPreview
	s.def.Content = content
	return s
}

// Input sets the input widget of a question.
func (s *StepBuilder) Input(inputType domain.InputType) *StepBuilder {
	s.def.InputType = inputType
	return s
}

// SaveTo specifies the session field the answer is written to.
func (s *StepBuilder) SaveTo(field string) *StepBuilder {
	s.def.Field = field
	return s
}

// Hint sets the guidance text shown with the step.
func (s *StepBuilder) Hint(hint string) *StepBuilder {
	s.def.Hint = hint
	return s
}

// Option appends a button. The step input becomes buttons.
func (s *StepBuilder) Option(value any, label string) *StepBuilder {
	s.def.InputType = domain.InputButtons
	s.def.Options = append(s.def.Options, domain.Option{Value: value, Label: label})
	return s
}

// Desc sets the description of the last option.
func (s *StepBuilder) Desc(desc string) *StepBuilder {
	if o := s.lastOption(); o != nil {
		o.Desc = desc
	}
	return s
}

// Does attaches an action to the last option.
func (s *StepBuilder) Does(action string) *StepBuilder {
	if o := s.lastOption(); o != nil {
		o.Action = action
	}
	return s
}

// To overrides the successor of the last option.
func (s *StepBuilder) To(target string) *StepBuilder {
	if o := s.lastOption(); o != nil {
		o.Next = target
	}
	return s
}

// Go sets the step level successor.
func (s *StepBuilder) Go(target string) *StepBuilder {
	s.def.Next = target
	return s
}

// Definition returns the underlying raw definition.
func (s *StepBuilder) Definition() domain.StepDefinition {
	def := s.def
	def.Options = append([]domain.Option(nil), s.def.Options...)
	return def
}

func (s *StepBuilder) lastOption() *domain.Option {
	if len(s.def.Options) == 0 {
		return nil
	}
	return &s.def.Options[len(s.def.Options)-1]
}
