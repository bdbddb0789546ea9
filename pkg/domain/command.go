package domain

// CommandType names a render command for the presenter.
type CommandType string

// Standard Command Types
const (
	// CommandShowMessage displays a bot message.
	// Payload: MessagePayload
	CommandShowMessage CommandType = "SHOW_MESSAGE"

	// CommandEchoUser displays what the user answered.
	// Payload: string
	CommandEchoUser CommandType = "ECHO_USER"

	// CommandRequestInput asks the presenter to show an input widget.
	// Payload: InputRequest
	CommandRequestInput CommandType = "REQUEST_INPUT"

	// CommandClearInput removes the current input widget.
	// Payload: nil
	CommandClearInput CommandType = "CLEAR_INPUT"

	// CommandShowProduct attaches a product card to the latest bot message.
	// Payload: Product
	CommandShowProduct CommandType = "SHOW_PRODUCT"

	// CommandShowPreview displays the structured content preview.
	// Payload: GeneratedContent
	CommandShowPreview CommandType = "SHOW_PREVIEW"

	// CommandShowLoading shows the loading overlay.
	// Payload: LoadingPayload
	CommandShowLoading CommandType = "SHOW_LOADING"

	// CommandHideLoading hides the loading overlay.
	// Payload: nil
	CommandHideLoading CommandType = "HIDE_LOADING"

	// CommandShowError displays a transient error toast.
	// Payload: string
	CommandShowError CommandType = "SHOW_ERROR"

	// CommandProgress updates the coarse progress indicator.
	// Payload: int (stage 1-4)
	CommandProgress CommandType = "PROGRESS"

	// CommandImageSelection reports the current image selection.
	// Payload: ImageSelection
	CommandImageSelection CommandType = "IMAGE_SELECTION"

	// CommandCredits reports the remaining credit count.
	// Payload: int
	CommandCredits CommandType = "CREDITS"
)

// Command is a render instruction emitted by the interpreter.
type Command struct {
	Type    CommandType `json:"type"`
	Payload any         `json:"payload,omitempty"`
}

// MessagePayload is a bot message with an optional hint line.
type MessagePayload struct {
	StepID  string `json:"step_id,omitempty"`
	Content string `json:"content"`
	Hint    string `json:"hint,omitempty"`
}

// LoadingPayload describes the loading overlay. Progress is a percentage, or -1 to keep the bar as is.
type LoadingPayload struct {
	Text     string `json:"text"`
	Progress int    `json:"progress"`
}

// InputRequest describes the widget the presenter should show.
type InputRequest struct {
	StepID  string       `json:"step_id"`
	Type    InputType    `json:"type"`
	Hint    string       `json:"hint,omitempty"`
	Options []Option     `json:"options,omitempty"`
	Models  []ImageModel `json:"models,omitempty"`
	// Images lists reusable product images for image_select inputs.
	Images []string `json:"images,omitempty"`
}

// ImageSelection mirrors the selection state of the image sub-flow.
type ImageSelection struct {
	Source    ImageSource `json:"source"`
	Model     string      `json:"model,omitempty"`
	Images    []string    `json:"images"`
	MainImage string      `json:"main_image,omitempty"`
}
