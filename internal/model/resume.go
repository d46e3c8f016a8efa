package model

// UploadStatus indicates how an uploaded resume was handled.
type UploadStatus string

const (
	// UploadStatusVector means the backend indexed the resume for retrieval.
	UploadStatusVector UploadStatus = "vector"
	// UploadStatusLocal means the backend was unavailable and the resume is
	// usable in local-text mode only. No chunk count is reported.
	UploadStatusLocal UploadStatus = "local"
)

// UploadResult is the outcome of a resume upload.
type UploadResult struct {
	Status UploadStatus `json:"status"`
	Chunks *int         `json:"chunks,omitempty"`
}
