// Package llm - normalized file management
package llm

import (
	"context"
	"encoding/json"
)

// FilePurpose is the declared use of an uploaded file.
type FilePurpose string

const (
	PurposeAssistants       FilePurpose = "assistants"
	PurposeAssistantsOutput FilePurpose = "assistants_output"
	PurposeBatch            FilePurpose = "batch"
	PurposeBatchOutput      FilePurpose = "batch_output"
	PurposeFineTune         FilePurpose = "fine-tune"
	PurposeFineTuneResults  FilePurpose = "fine-tune-results"
	PurposeVision           FilePurpose = "vision"
	PurposeUserData         FilePurpose = "user_data"
	PurposeEvals            FilePurpose = "evals"
)

// FileStatus normalizes vendor file lifecycle states.
type FileStatus string

const (
	FileStatusUploaded   FileStatus = "uploaded"
	FileStatusProcessed  FileStatus = "processed"
	FileStatusProcessing FileStatus = "processing"
	FileStatusError      FileStatus = "error"
	FileStatusDeleted    FileStatus = "deleted"
)

// FileObject is the normalized view of an uploaded file. It preserves the
// origin vendor so a round-trip back to that vendor's JSON is lossless.
type FileObject struct {
	ID        string      `json:"id"`
	Filename  string      `json:"filename"`
	SizeBytes int64       `json:"sizeBytes"`
	CreatedAt int64       `json:"createdAt"`
	Purpose   FilePurpose `json:"purpose,omitempty"`
	Status    FileStatus  `json:"status,omitempty"`
	MimeType  string      `json:"mimeType,omitempty"`
	// Downloadable reports whether content retrieval is allowed (Anthropic
	// marks API-created files non-downloadable unless produced by code
	// execution).
	Downloadable bool `json:"downloadable,omitempty"`
	// Origin is the vendor the object came from ("openai", "anthropic").
	Origin string `json:"origin,omitempty"`
	// StatusDetails carries vendor error detail for FileStatusError.
	StatusDetails string `json:"statusDetails,omitempty"`

	// anthropicCreatedAt preserves the vendor's RFC 3339 timestamp string so
	// ToAnthropicJSON round-trips losslessly.
	anthropicCreatedAt string
}

// openaiFileJSON is the OpenAI /v1/files object shape.
type openaiFileJSON struct {
	ID            string `json:"id"`
	Object        string `json:"object"`
	Bytes         int64  `json:"bytes"`
	CreatedAt     int64  `json:"created_at"`
	Filename      string `json:"filename"`
	Purpose       string `json:"purpose"`
	Status        string `json:"status,omitempty"`
	StatusDetails string `json:"status_details,omitempty"`
}

// anthropicFileJSON is the Anthropic /v1/files object shape.
type anthropicFileJSON struct {
	ID           string `json:"id"`
	Type         string `json:"type"`
	Filename     string `json:"filename"`
	MimeType     string `json:"mime_type"`
	SizeBytes    int64  `json:"size_bytes"`
	CreatedAt    string `json:"created_at"`
	Downloadable bool   `json:"downloadable,omitempty"`
}

// FileObjectFromOpenAI parses an OpenAI file object.
func FileObjectFromOpenAI(raw []byte) (FileObject, error) {
	var v openaiFileJSON
	if err := json.Unmarshal(raw, &v); err != nil {
		return FileObject{}, &JSONParseError{Message: "parse OpenAI file object", Err: err}
	}
	return FileObject{
		ID:            v.ID,
		Filename:      v.Filename,
		SizeBytes:     v.Bytes,
		CreatedAt:     v.CreatedAt,
		Purpose:       FilePurpose(v.Purpose),
		Status:        FileStatus(v.Status),
		StatusDetails: v.StatusDetails,
		Downloadable:  true,
		Origin:        "openai",
	}, nil
}

// FileObjectFromAnthropic parses an Anthropic file object. Anthropic carries
// an RFC 3339 created_at; it is preserved verbatim through ToAnthropicJSON
// via the anthropicCreatedAt field.
func FileObjectFromAnthropic(raw []byte) (FileObject, error) {
	var v anthropicFileJSON
	if err := json.Unmarshal(raw, &v); err != nil {
		return FileObject{}, &JSONParseError{Message: "parse Anthropic file object", Err: err}
	}
	f := FileObject{
		ID:           v.ID,
		Filename:     v.Filename,
		SizeBytes:    v.SizeBytes,
		MimeType:     v.MimeType,
		Downloadable: v.Downloadable,
		Origin:       "anthropic",
	}
	f.anthropicCreatedAt = v.CreatedAt
	return f, nil
}

// ToOpenAIJSON renders the object in OpenAI wire shape.
func (f FileObject) ToOpenAIJSON() ([]byte, error) {
	return json.Marshal(openaiFileJSON{
		ID:            f.ID,
		Object:        "file",
		Bytes:         f.SizeBytes,
		CreatedAt:     f.CreatedAt,
		Filename:      f.Filename,
		Purpose:       string(f.Purpose),
		Status:        string(f.Status),
		StatusDetails: f.StatusDetails,
	})
}

// ToAnthropicJSON renders the object in Anthropic wire shape.
func (f FileObject) ToAnthropicJSON() ([]byte, error) {
	return json.Marshal(anthropicFileJSON{
		ID:           f.ID,
		Type:         "file",
		Filename:     f.Filename,
		MimeType:     f.MimeType,
		SizeBytes:    f.SizeBytes,
		CreatedAt:    f.anthropicCreatedAt,
		Downloadable: f.Downloadable,
	})
}

// FileList is a page of file objects. Vendors disagree on pagination: OpenAI
// offset fields and Anthropic cursor fields are both carried so neither is
// lost in normalization.
type FileList struct {
	Files []FileObject `json:"files"`

	// Cursor pagination (Anthropic)
	FirstID string `json:"firstId,omitempty"`
	LastID  string `json:"lastId,omitempty"`
	HasMore bool   `json:"hasMore,omitempty"`

	// Offset pagination (OpenAI-style list endpoints)
	Total  int `json:"total,omitempty"`
	Limit  int `json:"limit,omitempty"`
	Offset int `json:"offset,omitempty"`
}

// FileUploadRequest describes a multipart upload.
type FileUploadRequest struct {
	Filename string
	Data     []byte
	MimeType string
	Purpose  FilePurpose
}

// FileListQuery narrows a list call. Zero values mean vendor defaults.
type FileListQuery struct {
	Purpose FilePurpose
	Limit   int
	// After / Before are cursor bounds (Anthropic, OpenAI after-style).
	After  string
	Before string
	// Order is "asc" or "desc" where the vendor supports it.
	Order string
}

// FileManager is the file management surface. Discovered by type assertion
// on a Provider.
type FileManager interface {
	UploadFile(ctx context.Context, req FileUploadRequest) (*FileObject, error)
	ListFiles(ctx context.Context, query *FileListQuery) (*FileList, error)
	RetrieveFile(ctx context.Context, id string) (*FileObject, error)
	DeleteFile(ctx context.Context, id string) error
	GetFileContent(ctx context.Context, id string) ([]byte, error)
}
