package controller

// ShortenRequest is the POST /shorten body.
type ShortenRequest struct {
	OriginalURL string `json:"original_url" validate:"required,url"`
	CustomAlias string `json:"custom_alias,omitempty"`
}
