package runtime

import "github.com/aretw0/pagewizard/pkg/domain"

func showMessage(stepID, content, hint string) domain.Command {
	return domain.Command{
		Type:    domain.CommandShowMessage,
		Payload: domain.MessagePayload{StepID: stepID, Content: content, Hint: hint},
	}
}

func echoUser(text string) domain.Command {
	return domain.Command{Type: domain.CommandEchoUser, Payload: text}
}

func showLoading(text string, progress int) domain.Command {
	return domain.Command{
		Type:    domain.CommandShowLoading,
		Payload: domain.LoadingPayload{Text: text, Progress: progress},
	}
}

func hideLoading() domain.Command {
	return domain.Command{Type: domain.CommandHideLoading}
}

func showError(msg string) domain.Command {
	return domain.Command{Type: domain.CommandShowError, Payload: msg}
}

func clearInput() domain.Command {
	return domain.Command{Type: domain.CommandClearInput}
}

func progress(stage int) domain.Command {
	return domain.Command{Type: domain.CommandProgress, Payload: stage}
}

func credits(n int) domain.Command {
	return domain.Command{Type: domain.CommandCredits, Payload: n}
}

func imageSelection(s *domain.Session) domain.Command {
	return domain.Command{
		Type: domain.CommandImageSelection,
		Payload: domain.ImageSelection{
			Source:    s.Options.ImageSource,
			Model:     s.Options.ImageModel,
			Images:    append([]string{}, s.Images...),
			MainImage: s.Options.MainImage,
		},
	}
}

// inputRequest builds the widget request for a suspended step.
func (i *Interpreter) inputRequest(step *domain.Step, s *domain.Session) domain.Command {
	req := domain.InputRequest{StepID: step.ID, Hint: step.Hint}

	switch k := step.Kind.(type) {
	case domain.Message:
		req.Type = domain.InputButtons
		req.Options = k.Choices.Options
	case domain.Question:
		req.Type = domain.InputTypeOf(k.Input)
		switch in := k.Input.(type) {
		case domain.ButtonsInput:
			req.Options = in.Options
		case domain.ImageSelectInput:
			req.Models = i.cfg.Catalog.ImageModels
			if s.Product != nil {
				req.Images = append([]string(nil), s.Product.Images...)
			}
		}
	}

	return domain.Command{Type: domain.CommandRequestInput, Payload: req}
}
