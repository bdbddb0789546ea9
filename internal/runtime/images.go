package runtime

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/aretw0/pagewizard/pkg/domain"
)

// Image sub-flow request names reported to lifecycle hooks.
const (
	actionGenerateImages = "generateImages"
	actionUploadImages   = "uploadImages"
)

func (i *Interpreter) onImageEvent(ctx context.Context, t ticket, step *domain.Step, ev domain.Event) (continuation, error) {
	if _, ok := questionInput[domain.ImageSelectInput](step); !ok {
		return nil, domain.ErrNotAwaitingInput
	}
	s := i.session

	switch e := ev.(type) {
	case domain.ImageSourceSwitched:
		switch e.Source {
		case domain.SourceProduct, domain.SourceGenerate, domain.SourceUpload:
		default:
			return nil, i.rejectLocked(ctx, step, i.cfg.Texts.BadOption)
		}
		s.Options.ImageSource = e.Source

	case domain.ImageToggled:
		if s.Product == nil || !slices.Contains(s.Product.Images, e.URL) {
			return nil, i.rejectLocked(ctx, step, i.cfg.Texts.BadImage)
		}
		s.ToggleImage(e.URL)

	case domain.MainImageChosen:
		if !s.SetMainImage(e.URL) {
			return nil, i.rejectLocked(ctx, step, i.cfg.Texts.BadImage)
		}

	case domain.ModelChosen:
		if _, ok := i.cfg.Catalog.Model(e.Model); !ok {
			return nil, i.rejectLocked(ctx, step, i.cfg.Texts.UnknownModel)
		}
		s.Options.ImageModel = e.Model

	case domain.GenerateRequested:
		if i.busy {
			return nil, domain.ErrBusy
		}
		model := s.Options.ImageModel
		if model == "" {
			return nil, i.rejectLocked(ctx, step, i.cfg.Texts.NoModel)
		}
		prompt := strings.TrimSpace(e.Prompt)
		if prompt == "" {
			return nil, i.rejectLocked(ctx, step, i.cfg.Texts.NoPrompt)
		}
		i.busy = true
		return func() error { return i.generateImages(ctx, t, step, model, prompt) }, nil

	case domain.FilesChosen:
		if i.busy {
			return nil, domain.ErrBusy
		}
		if len(e.Files) == 0 {
			return nil, i.rejectLocked(ctx, step, i.cfg.Texts.NoFiles)
		}
		i.busy = true
		files := slices.Clone(e.Files)
		return func() error { return i.uploadImages(ctx, t, step, files) }, nil

	case domain.ImagesConfirmed:
		if len(s.Images) == 0 {
			return nil, i.rejectLocked(ctx, step, i.cfg.Texts.NoImages)
		}
		i.awaiting = false
		i.present(ctx, clearInput())
		return i.advance(ctx, t, step.Next), nil
	}

	i.present(ctx, imageSelection(s))
	return nil, nil
}

// generateImages runs while the step stays interactive. Toggles made in the
// meantime are overwritten by the generated set.
func (i *Interpreter) generateImages(ctx context.Context, t ticket, step *domain.Step, model, prompt string) error {
	i.emit(ctx, t, showLoading(i.cfg.Texts.GeneratingImages, 0))
	i.emitActionCall(ctx, t, step.ID, actionGenerateImages)
	start := time.Now()
	images, err := i.backend.GenerateImages(ctx, model, prompt)
	if err == nil && len(images) == 0 {
		err = errors.New("no images returned")
	}
	i.emitActionReturn(ctx, t, step.ID, actionGenerateImages, time.Since(start), err)
	i.emit(ctx, t, hideLoading())

	if err != nil {
		return i.failImages(ctx, t, step, fmt.Sprintf(i.cfg.Texts.ImageGenerateFailed, err))
	}
	return i.commitImages(ctx, t, step, images)
}

// uploadImages uploads files one at a time. The first failure aborts the batch;
// files already uploaded stay on the backend.
func (i *Interpreter) uploadImages(ctx context.Context, t ticket, step *domain.Step, files []domain.UploadFile) error {
	i.emit(ctx, t, showLoading(i.cfg.Texts.Uploading, 0))
	i.emitActionCall(ctx, t, step.ID, actionUploadImages)
	start := time.Now()

	uploaded := make([]string, 0, len(files))
	var err error
	for n, f := range files {
		var path string
		path, err = i.backend.UploadImage(ctx, f)
		if err != nil {
			err = fmt.Errorf("%s: %w", f.Name, err)
			break
		}
		if path != "" {
			uploaded = append(uploaded, path)
		}
		done := n + 1
		if !i.emit(ctx, t, showLoading(fmt.Sprintf(i.cfg.Texts.UploadProgress, done, len(files)), done*100/len(files))) {
			i.logger.Debug("upload abandoned", "step", step.ID, "uploaded", len(uploaded))
			return nil
		}
	}
	if err == nil && len(uploaded) == 0 {
		err = errors.New("no files uploaded")
	}

	i.emitActionReturn(ctx, t, step.ID, actionUploadImages, time.Since(start), err)
	i.emit(ctx, t, hideLoading())

	if err != nil {
		return i.failImages(ctx, t, step, fmt.Sprintf(i.cfg.Texts.UploadFailed, err))
	}
	return i.commitImages(ctx, t, step, uploaded)
}

// commitImages replaces the selection and leaves the image step.
func (i *Interpreter) commitImages(ctx context.Context, t ticket, step *domain.Step, images []string) error {
	i.mu.Lock()
	if !i.isCurrentLocked(t) || !i.awaiting {
		i.mu.Unlock()
		i.logger.Debug("stale continuation discarded", "step", step.ID)
		return nil
	}
	i.busy = false
	i.session.ReplaceImages(images)
	i.awaiting = false
	i.present(ctx, imageSelection(i.session), clearInput())
	next := i.advance(ctx, t, step.Next)
	i.mu.Unlock()

	if next == nil {
		return nil
	}
	return next()
}

func (i *Interpreter) failImages(ctx context.Context, t ticket, step *domain.Step, msg string) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	if !i.isCurrentLocked(t) {
		i.logger.Debug("stale continuation discarded", "step", step.ID)
		return nil
	}
	i.busy = false
	i.present(ctx, showError(msg))
	return nil
}
