package model

import "time"

// GenerateRequest represents a password generation request.
// A nil Length means "use the configured default" and a nil Count means one
// password; an explicit 0 is rejected for both.
type GenerateRequest struct {
	Length      *int   `json:"length"`
	Type        string `json:"type"`
	Numbers     bool   `json:"numbers"`
	Symbols     bool   `json:"symbols"`
	Capitalized bool   `json:"capitalized"`
	Count       *int   `json:"count"`
}

// GenerateResponse represents a password generation response.
type GenerateResponse struct {
	Passwords    []string `json:"passwords"`
	Length       int      `json:"length"`
	Policy       string   `json:"policy"`
	Classes      []string `json:"classes"`
	AlphabetSize int      `json:"alphabet_size"`
}

// PolicyResponse describes a named policy.
type PolicyResponse struct {
	Name         string   `json:"name"`
	Classes      []string `json:"classes"`
	AlphabetSize int      `json:"alphabet_size"`
}

// Generation channels.
const (
	ChannelAPI = "api"
	ChannelCLI = "cli"
)

// GenerationRecord is the audit trail of one generation request. It carries
// request metadata only, never the generated passwords.
type GenerationRecord struct {
	ID           string
	Policy       string
	Classes      string
	Length       int
	AlphabetSize int
	Count        int
	Channel      string
	CreatedAt    time.Time
}

// GenerationRecordResponse is the JSON form of a GenerationRecord.
type GenerationRecordResponse struct {
	ID           string    `json:"id"`
	Policy       string    `json:"policy"`
	Classes      string    `json:"classes"`
	Length       int       `json:"length"`
	AlphabetSize int       `json:"alphabet_size"`
	Count        int       `json:"count"`
	Channel      string    `json:"channel"`
	CreatedAt    time.Time `json:"created_at"`
}
