package types

// RelayResponse is the body the send-order endpoint writes for every outcome.
type RelayResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// HealthResponse mirrors the lightweight status payload of the health routes.
type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}
