package domain

// UserProfile is the cached profile returned at login.
type UserProfile struct {
	UserID           string `json:"userId,omitempty" mapstructure:"userId"`
	Name             string `json:"name,omitempty" mapstructure:"name"`
	RemainingCredits int    `json:"remainingCredits" mapstructure:"remainingCredits"`
}

// Credentials is the opaque bearer token plus the cached profile.
// It outlives a single wizard run.
type Credentials struct {
	Token      string       `json:"token"`
	User       *UserProfile `json:"user,omitempty"`
	RememberMe bool         `json:"rememberMe,omitempty"`
}
