package transport

import "blog_backend/internal/upload"

// UploadResponse is the verdict on one uploaded file plus, when it was stored,
// where it lives.
type UploadResponse struct {
	upload.Result
	Bucket      string `json:"bucket,omitempty"`
	FileKey     string `json:"fileKey,omitempty"`
	DownloadURL string `json:"downloadUrl,omitempty"`
}

// BatchItem is one entry of a batch upload response, in request order.
type BatchItem struct {
	Index int            `json:"index"`
	Error string         `json:"error,omitempty"`
	File  UploadResponse `json:"file"`
}

// BatchResponse is the response of a batch upload.
type BatchResponse struct {
	Accepted int         `json:"accepted"`
	Rejected int         `json:"rejected"`
	Items    []BatchItem `json:"items"`
}
