package artwork

import (
	"time"

	"github.com/componentadmin/backend/internal/domain/component"
)

// UploadRequest carries one staged upload. Reader and Size come from the
// multipart part; ComponentID is optional and triggers the attach step.
type UploadRequest struct {
	Filename     string
	MimeType     string
	Size         int64
	Alt          string
	ComponentID  string
	MetafieldKey string
}

// UploadResponse is the created vendor file plus whether it was attached
type UploadResponse struct {
	File     FileResponse `json:"file"`
	Attached bool         `json:"attached"`
}

// FileResponse represents a vendor file in API responses
type FileResponse struct {
	ID        string    `json:"id"`
	Filename  string    `json:"filename"`
	URL       string    `json:"url"`
	MimeType  string    `json:"mime_type"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"created_at"`
}

// SuggestNameRequest asks for the next free versioned filename
type SuggestNameRequest struct {
	Filename string `json:"filename" binding:"required,min=1,max=255"`
}

// SuggestNameResponse carries the suggestion
type SuggestNameResponse struct {
	Filename string `json:"filename"`
}

// UsageResponse lists the components referencing a file
type UsageResponse struct {
	FileID string                `json:"file_id"`
	UsedBy []component.FileUsage `json:"used_by"`
}

func toFileResponse(f *component.FileReference) FileResponse {
	return FileResponse{
		ID:        f.ID,
		Filename:  f.Filename,
		URL:       f.URL,
		MimeType:  f.MimeType,
		Size:      f.Size,
		CreatedAt: f.CreatedAt,
	}
}
