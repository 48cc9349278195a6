package component

import "time"

// FileReference points at an artwork file stored on the vendor platform.
type FileReference struct {
	ID        string
	Filename  string
	URL       string
	MimeType  string
	Size      int64
	CreatedAt time.Time
}

// StagedTarget is the upload destination returned by the vendor's staging
// step. Parameters must accompany the upload request when present.
type StagedTarget struct {
	URL         string
	ResourceURL string
	Parameters  []StagedParameter
}

// StagedParameter is one form field the staging response requires.
type StagedParameter struct {
	Name  string
	Value string
}

// FileUsage records one component that references a file through its
// artwork metafield.
type FileUsage struct {
	ComponentID   string
	ComponentName string
	Code          string
	MetafieldKey  string
}
