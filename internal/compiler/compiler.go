package compiler

import (
	"fmt"

	"github.com/aretw0/pagewizard/pkg/domain"
)

// Compile converts authored step definitions into an immutable graph.
// Every illegal type/inputType combination is reported at once as a *domain.GraphError.
// Closure and reachability are checked separately by the validator.
func Compile(defs []domain.StepDefinition) (*domain.Graph, error) {
	var problems []string
	steps := make([]*domain.Step, 0, len(defs))

	for i, def := range defs {
		step, errs := CompileStep(def)
		if len(errs) > 0 {
			name := def.ID
			if name == "" {
				name = fmt.Sprintf("#%d", i)
			}
			for _, e := range errs {
				problems = append(problems, fmt.Sprintf("step %s: %s", name, e))
			}
			continue
		}
		steps = append(steps, step)
	}

	if len(problems) > 0 {
		return nil, &domain.GraphError{Problems: problems}
	}

	g, err := domain.NewGraph(steps...)
	if err != nil {
		return nil, &domain.GraphError{Problems: []string{err.Error()}}
	}
	return g, nil
}

// CompileStep converts one definition. It returns the list of problems found, if any.
func CompileStep(def domain.StepDefinition) (*domain.Step, []string) {
	var errs []string
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Sprintf(format, args...))
	}

	if def.ID == "" {
		fail("missing id")
	}

	step := &domain.Step{
		ID:      def.ID,
		Content: def.Content,
		Hint:    def.Hint,
		Next:    def.Next,
	}

	switch def.Type {
	case domain.StepMessage:
		switch def.InputType {
		case "":
			if len(def.Options) > 0 {
				fail("options require inputType buttons")
			}
			step.Kind = domain.Message{}
		case domain.InputButtons:
			if len(def.Options) == 0 {
				fail("buttons need at least one option")
			}
			step.Kind = domain.Message{Choices: &domain.ButtonsInput{Options: copyOptions(def.Options)}}
		default:
			fail("message steps only accept inputType buttons, got %q", def.InputType)
		}
		if def.Field != "" {
			fail("field is only valid on question steps")
		}
		if def.Action != "" {
			fail("action is only valid on loading steps")
		}

	case domain.StepQuestion:
		q := domain.Question{Field: def.Field}
		switch def.InputType {
		case domain.InputText:
			q.Input = domain.TextInput{}
		case domain.InputURL:
			q.Input = domain.URLInput{}
		case domain.InputButtons:
			if len(def.Options) == 0 {
				fail("buttons need at least one option")
			}
			q.Input = domain.ButtonsInput{Options: copyOptions(def.Options)}
		case domain.InputImageSelect:
			q.Input = domain.ImageSelectInput{}
		case "":
			fail("question steps require an inputType")
		default:
			fail("unknown inputType %q", def.InputType)
		}
		if (def.InputType == domain.InputText || def.InputType == domain.InputURL) && def.Field == "" {
			fail("%s questions require a field", def.InputType)
		}
		if def.InputType != domain.InputButtons && len(def.Options) > 0 {
			fail("options require inputType buttons")
		}
		if def.Action != "" {
			fail("action is only valid on loading steps")
		}
		if def.Next == "" {
			fail("question steps require next")
		}
		step.Kind = q

	case domain.StepLoading:
		if def.Action == "" {
			fail("loading steps require an action")
		}
		if def.InputType != "" || len(def.Options) > 0 {
			fail("loading steps take no input")
		}
		if def.Next == "" {
			fail("loading steps require next")
		}
		step.Kind = domain.Loading{Action: def.Action}

	case domain.StepProductDisplay:
		if def.InputType != "" || len(def.Options) > 0 || def.Action != "" {
			fail("product_display steps take no input or action")
		}
		step.Kind = domain.ProductDisplay{}

	case domain.StepPreview:
		if def.InputType != "" || len(def.Options) > 0 || def.Action != "" {
			fail("preview steps take no input or action")
		}
		step.Kind = domain.Preview{}

	case "":
		fail("missing type")
	default:
		fail("unknown type %q", def.Type)
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return step, nil
}

func copyOptions(in []domain.Option) []domain.Option {
	return append([]domain.Option(nil), in...)
}
