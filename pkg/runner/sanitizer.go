package runner

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/aretw0/pagewizard/pkg/domain"
)

// DefaultMaxInputSize bounds one line of user input, in bytes.
const DefaultMaxInputSize = 4096

// EnvMaxInputSize overrides DefaultMaxInputSize.
const EnvMaxInputSize = "PAGEWIZARD_MAX_INPUT_SIZE"

var (
	ErrInputTooLarge = errors.New("input exceeds maximum allowed size")
	ErrInvalidUTF8   = errors.New("input contains invalid UTF-8 sequences")
)

// MaxInputSize returns the active input size limit.
func MaxInputSize() int {
	if v, err := strconv.Atoi(os.Getenv(EnvMaxInputSize)); err == nil && v > 0 {
		return v
	}
	return DefaultMaxInputSize
}

// SanitizeInput rejects oversized or malformed text and strips control
// characters other than newline, tab and carriage return.
// Oversized input is rejected, never truncated.
func SanitizeInput(input string) (string, error) {
	if limit := MaxInputSize(); len(input) > limit {
		return "", fmt.Errorf("%w: size=%d limit=%d", ErrInputTooLarge, len(input), limit)
	}
	if !utf8.ValidString(input) {
		return "", ErrInvalidUTF8
	}
	if strings.IndexFunc(input, unsafeControl) < 0 {
		return input, nil
	}
	return strings.Map(func(r rune) rune {
		if unsafeControl(r) {
			return -1
		}
		return r
	}, input), nil
}

func unsafeControl(r rune) bool {
	return unicode.IsControl(r) && r != '\n' && r != '\t' && r != '\r'
}

// SanitizeEvent applies SanitizeInput to the user-typed fields of ev.
// File contents are left alone; only their names are cleaned.
func SanitizeEvent(ev domain.Event) (domain.Event, error) {
	var err error
	switch e := ev.(type) {
	case domain.TextSubmitted:
		e.Value, err = SanitizeInput(e.Value)
		return e, err
	case domain.URLSubmitted:
		e.Value, err = SanitizeInput(e.Value)
		return e, err
	case domain.ButtonChosen:
		e.Text, err = SanitizeInput(e.Text)
		return e, err
	case domain.GenerateRequested:
		e.Prompt, err = SanitizeInput(e.Prompt)
		return e, err
	case domain.FilesChosen:
		files := make([]domain.UploadFile, len(e.Files))
		for i, f := range e.Files {
			if f.Name, err = SanitizeInput(f.Name); err != nil {
				return nil, fmt.Errorf("file %d: %w", i+1, err)
			}
			files[i] = f
		}
		e.Files = files
		return e, nil
	}
	return ev, nil
}
