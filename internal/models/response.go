package models

// CachedResponse is an upstream reply kept by the gateway for GET requests.
type CachedResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}
