package dto

// ErrorResponse is the raw error shape of the scraping and matching routes.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
