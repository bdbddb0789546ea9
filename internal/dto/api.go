package dto

import (
	"github.com/aretw0/pagewizard/pkg/domain"
)

// Envelope is the single request shape accepted by the backend.
// Every call is POSTed as text/plain JSON; Method is the logical verb.
type Envelope struct {
	Endpoint string `json:"endpoint"`
	Method   string `json:"method"`
	Data     any    `json:"data"`
	Token    string `json:"token,omitempty"`
}

// Status is the discriminator every response carries.
type Status struct {
	Status  string `mapstructure:"status"`
	Message string `mapstructure:"message"`
}

// AuthResult is the payload of a successful login.
type AuthResult struct {
	Token string              `mapstructure:"token"`
	User  *domain.UserProfile `mapstructure:"user"`
}

// PersonaList is the payload of a persona list call.
type PersonaList struct {
	Personas []domain.SavedPersona `mapstructure:"personas"`
}

// ImageList is the payload of an image generation call.
type ImageList struct {
	Images []string `mapstructure:"images"`
}

// ImagePath is the payload of an upload or resize call.
type ImagePath struct {
	Path string `mapstructure:"path"`
}

// Credits is the payload of a status call.
type Credits struct {
	Credits *int `mapstructure:"credits"`
}
