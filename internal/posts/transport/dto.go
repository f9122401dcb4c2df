package transport

// CheckPostRequest is a post creation or update payload. Content is the serialized
// block document produced by the editor.
type CheckPostRequest struct {
	Title   string `json:"title" validate:"required,max=200,plaintext"`
	Content string `json:"content" validate:"required,richtext"`
}

// CheckPostResponse carries the normalised content a client should store. When the
// content could not be parsed as a block document it is echoed unchanged.
type CheckPostResponse struct {
	Valid   bool   `json:"valid"`
	Content string `json:"content"`
}

// CheckCommentRequest is a comment payload; comments are plain text.
type CheckCommentRequest struct {
	Content string `json:"content" validate:"required,max=5000,plaintext"`
}

// CheckReportRequest is an abuse report payload.
type CheckReportRequest struct {
	Reason string `json:"reason" validate:"required,max=1000,plaintext"`
}

// CheckResponse is returned when every field passed.
type CheckResponse struct {
	Valid bool `json:"valid"`
}
