package upload

import "fmt"

// Reason identifies the step an upload failed at.
type Reason string

const (
	ReasonNone             Reason = ""
	ReasonUnsupportedType  Reason = "unsupported_type"
	ReasonInvalidSize      Reason = "invalid_size"
	ReasonOversize         Reason = "oversize"
	ReasonCorrupt          Reason = "corrupt_media"
	ReasonDisallowedMarkup Reason = "disallowed_markup"
	ReasonDimensions       Reason = "dimensions_out_of_bounds"
)

// Result is the verdict on one upload candidate.
type Result struct {
	Accepted      bool     `json:"accepted"`
	Category      Category `json:"category"`
	Reason        Reason   `json:"reason,omitempty"`
	Message       string   `json:"message,omitempty"`
	SanitizedName string   `json:"fileName"`
	Extension     string   `json:"extension"`
	SizeLimit     int64    `json:"sizeLimit,omitempty"`
	DetectedType  string   `json:"detectedType,omitempty"`
	Width         int      `json:"width,omitempty"`
	Height        int      `json:"height,omitempty"`
	HasLocation   bool     `json:"hasLocation,omitempty"`
}

func (r Result) reject(reason Reason, format string, args ...any) Result {
	r.Accepted = false
	r.Reason = reason
	r.Message = fmt.Sprintf(format, args...)
	return r
}

func (r Result) accept() Result {
	r.Accepted = true
	r.Reason = ReasonNone
	r.Message = ""
	return r
}
