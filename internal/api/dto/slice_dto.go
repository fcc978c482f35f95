package dto

// Multipart form defaults for POST /api/slice/start
const (
	DefaultPitch     = "1.0"
	DefaultNumAngles = "360"
	DefaultRotation  = "0"
)

// StartSliceResponse is returned when a slicing job has been accepted
type StartSliceResponse struct {
	JobID string `json:"job_id"`
}

// ErrorResponse is the body of every non-2xx API response
type ErrorResponse struct {
	Error string `json:"error"`
}
