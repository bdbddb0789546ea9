package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/aretw0/pagewizard/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeEvent(t *testing.T) {
	tests := []struct {
		name string
		data string
		want domain.Event
	}{
		{"text_submitted", `{"value":"toys"}`, domain.TextSubmitted{Value: "toys"}},
		{"button_chosen", `{"index":2,"text":"Mine"}`, domain.ButtonChosen{Index: 2, Text: "Mine"}},
		{"image_source_switched", `{"source":"generate"}`, domain.ImageSourceSwitched{Source: domain.SourceGenerate}},
		{"files_chosen", `{"files":[{"name":"a.png","data":"aGk="}]}`, domain.FilesChosen{Files: []domain.UploadFile{{Name: "a.png", Data: []byte("hi")}}}},
		{"images_confirmed", ``, domain.ImagesConfirmed{}},
		{"model_chosen", `null`, domain.ModelChosen{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, err := domain.DecodeEvent(tt.name, json.RawMessage(tt.data))
			require.NoError(t, err)
			assert.Equal(t, tt.want, ev)
			assert.Equal(t, tt.name, domain.EventName(ev))
		})
	}
}

func TestDecodeEvent_Errors(t *testing.T) {
	_, err := domain.DecodeEvent("teleport", nil)
	assert.ErrorContains(t, err, "unknown event")

	_, err = domain.DecodeEvent("button_chosen", json.RawMessage(`{"index":"x"}`))
	assert.ErrorContains(t, err, "invalid button_chosen payload")
}
