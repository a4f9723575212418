package email

// SendEmailRequest represents a request to send an email with plain text and
// optional HTML bodies
type SendEmailRequest struct {
	FromAddress string `json:"from_address" validate:"omitempty,email"`
	ToAddress   string `json:"to_address" validate:"required,email"`
	Subject     string `json:"subject" validate:"required"`
	Text        string `json:"text" validate:"required"`
	HTML        string `json:"html,omitempty"`
}

// SendEmailResponse represents the outcome of a send attempt. Expected
// failure modes (disabled client, provider rejection) are reported through
// Success=false and Error, never through a returned error.
type SendEmailResponse struct {
	MessageID string
	Success   bool
	Error     string
}
