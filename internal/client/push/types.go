package push

import "device-inspection/internal/model"

// Payload is the document posted to the collector endpoint.
type Payload struct {
	Source string             `json:"source"` // Tool identifier, e.g. "device-inspection"
	Batch  *model.BatchResult `json:"batch"`
}

// Response is the optional acknowledgement body returned by the collector.
// Collectors that answer with an empty body are treated as accepted.
type Response struct {
	Status   string `json:"status,omitempty"`
	Accepted int    `json:"accepted,omitempty"`
	Message  string `json:"message,omitempty"`
}

// IsRejected returns true if the collector explicitly reported a failure.
func (r *Response) IsRejected() bool {
	return r != nil && (r.Status == "error" || r.Status == "rejected")
}
