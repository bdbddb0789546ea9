package runtime

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aretw0/pagewizard/pkg/domain"
	"github.com/aretw0/pagewizard/pkg/ports"
	"github.com/aretw0/pagewizard/pkg/registry"
)

// Built-in action names referenced by the default flow.
const (
	ActionAnalyzeProduct  = "analyzeProduct"
	ActionGenerateContent = "generateContent"
	ActionSavePersona     = "savePersona"
)

// Route tells the interpreter where to go once an action has finished.
type Route int

const (
	// Advance continues to the step's successor.
	Advance Route = iota
	// Reroute jumps to Outcome.Target instead.
	Reroute
	// Park leaves the interpreter on the current step until the user retries.
	Park
)

// Outcome is what an action reports back. Actions never return raw errors:
// every failure is folded into a route plus user facing notices.
type Outcome struct {
	Route  Route
	Target string
	// Apply mutates the live session. It only runs if the run that launched the action is still current.
	Apply func(*domain.Session)
	// Notices are presented after Apply, again only for a current run.
	Notices []domain.Command
	// Err records the failure for logs and hooks.
	Err error
}

// Env is what an action may use while it runs.
type Env struct {
	Backend ports.Backend
	Config  *Config
	// Input carries extra text from the triggering event, such as a save name.
	Input string

	present func(cmds ...domain.Command)
}

// Present forwards commands to the presenter while the launching step is still current.
func (e Env) Present(cmds ...domain.Command) {
	if e.present != nil {
		e.present(cmds...)
	}
}

// Action is a named asynchronous side effect. It receives a snapshot of the session
// and must not keep references to it after returning.
type Action func(ctx context.Context, env Env, session *domain.Session) Outcome

// Actions is the registry type used by the interpreter.
type Actions = registry.Registry[Action]

// DefaultActions returns a registry holding the built-in actions.
func DefaultActions() *Actions {
	r := registry.New[Action]()
	r.Register(ActionAnalyzeProduct, AnalyzeProduct)
	r.Register(ActionGenerateContent, GenerateContent)
	r.Register(ActionSavePersona, SavePersona)
	return r
}

// AnalyzeProduct fetches the product behind session.ProductURL.
// A failure leaves Product nil and routes back to the URL question.
func AnalyzeProduct(ctx context.Context, env Env, s *domain.Session) Outcome {
	env.Present(showLoading(env.Config.Texts.Analyzing, 30))
	product, err := env.Backend.AnalyzeProduct(ctx, s.ProductURL)
	env.Present(hideLoading())

	if err == nil && product == nil {
		err = errors.New("no product data returned")
	}
	if err == nil && len(product.Images) == 0 {
		err = errors.New("product has no images")
	}
	if err != nil {
		return Outcome{
			Route:   Reroute,
			Target:  env.Config.ProductStep,
			Apply:   func(s *domain.Session) { s.Product = nil },
			Notices: []domain.Command{showMessage("", env.Config.Texts.AnalyzeFailed, "")},
			Err:     &domain.ActionError{Action: ActionAnalyzeProduct, Err: err},
		}
	}

	if product.URL == "" {
		product.URL = s.ProductURL
	}
	return Outcome{
		Route: Advance,
		Apply: func(s *domain.Session) { s.Product = product },
	}
}

// GenerateContent asks the backend for the page content.
// A failure shows an error and parks on the loading step.
func GenerateContent(ctx context.Context, env Env, s *domain.Session) Outcome {
	env.Present(showLoading(env.Config.Texts.GeneratingContent, 0))
	content, err := env.Backend.GenerateContent(ctx, s.Persona, s.Product, domain.GenerateOptions{
		IncludePrice: s.Persona.IncludePrice(),
		MainImage:    s.MainImage(),
		Images:       s.Images,
	})
	env.Present(hideLoading())

	if err == nil && content == nil {
		err = errors.New("no content returned")
	}
	if err != nil {
		return Outcome{
			Route:   Park,
			Notices: []domain.Command{showError(fmt.Sprintf(env.Config.Texts.GenerateFailed, err))},
			Err:     &domain.ActionError{Action: ActionGenerateContent, Err: err},
		}
	}

	return Outcome{
		Route: Advance,
		Apply: func(s *domain.Session) { s.GeneratedContent = content },
	}
}

// SavePersona stores the persona under env.Input (or the default name).
// The flow advances whether or not saving worked.
func SavePersona(ctx context.Context, env Env, s *domain.Session) Outcome {
	name := strings.TrimSpace(env.Input)
	if name == "" {
		name = env.Config.DefaultSaveName
	}

	if err := env.Backend.SavePersona(ctx, name, s.Persona); err != nil {
		return Outcome{
			Route:   Advance,
			Notices: []domain.Command{showError(env.Config.Texts.SaveFailed)},
			Err:     &domain.ActionError{Action: ActionSavePersona, Err: err},
		}
	}

	return Outcome{
		Route:   Advance,
		Notices: []domain.Command{showMessage("", fmt.Sprintf(env.Config.Texts.Saved, name), "")},
	}
}
