package artwork

import (
	"context"
	"fmt"
	"io"
	"path"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/componentadmin/backend/internal/domain/component"
	"github.com/componentadmin/backend/internal/domain/shared"
	"github.com/componentadmin/backend/internal/infrastructure/telemetry"
)

// DefaultMetafieldKey is the component metafield artwork attaches under
// when the request does not name one.
const DefaultMetafieldKey = "artwork"

// Service relays file uploads to the vendor platform in three stages:
// stage a target, stream the bytes, register the file. The attach step
// only runs when every earlier stage succeeded, so a failed upload never
// leaves a component pointing at a half-transferred file.
type Service struct {
	files      component.FileGateway
	components component.Gateway
	maxSize    int64
}

// NewService creates a new artwork Service. maxSize caps accepted uploads
// in bytes; zero means no cap.
func NewService(files component.FileGateway, components component.Gateway, maxSize int64) *Service {
	return &Service{
		files:      files,
		components: components,
		maxSize:    maxSize,
	}
}

// Upload stages, streams and registers one file, then attaches it to the
// requested component. Each stage aborts the remaining ones on failure.
func (s *Service) Upload(ctx context.Context, req UploadRequest, r io.Reader) (*UploadResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "artwork", "upload")
	defer span.End()

	// Correlates the stage, stream and register phases across log lines
	// and spans before the vendor has assigned a file ID.
	uploadID := uuid.NewString()
	telemetry.SetAttributes(span,
		telemetry.SpanAttrUploadID, uploadID,
		telemetry.SpanAttrFilename, req.Filename,
		telemetry.SpanAttrFileSize, req.Size,
	)

	if strings.TrimSpace(req.Filename) == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Filename is required")
	}
	if req.Size <= 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "File is empty")
	}
	if s.maxSize > 0 && req.Size > s.maxSize {
		return nil, shared.NewDomainError("INVALID_INPUT",
			fmt.Sprintf("File exceeds the %d byte upload limit", s.maxSize))
	}

	target, err := s.files.StageUpload(ctx, req.Filename, req.MimeType, req.Size)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("stage upload for %s: %w", req.Filename, err)
	}
	telemetry.AddEvent(span, "upload_staged", "filename", req.Filename)

	if err := s.files.StreamUpload(ctx, target, req.Filename, r, req.Size); err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("stream upload for %s: %w", req.Filename, err)
	}

	file, err := s.files.CreateFile(ctx, target.ResourceURL, req.Filename, req.Alt)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("register file %s: %w", req.Filename, err)
	}
	telemetry.SetAttribute(span, telemetry.SpanAttrFileID, file.ID)

	resp := &UploadResponse{File: toFileResponse(file)}
	if req.ComponentID == "" {
		return resp, nil
	}

	if err := s.files.AttachFile(ctx, file.ID, req.ComponentID); err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("attach file %s to component: %w", req.Filename, err)
	}

	key := req.MetafieldKey
	if key == "" {
		key = DefaultMetafieldKey
	}
	field := component.Metafield{Key: key, Type: component.MetafieldTypeFile, Value: file.ID}
	if err := s.components.SetMetafields(ctx, req.ComponentID, []component.Metafield{field}); err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("set artwork metafield on component: %w", err)
	}

	resp.Attached = true
	return resp, nil
}

// List lists vendor files, optionally filtered by a search query
func (s *Service) List(ctx context.Context, query string) ([]FileResponse, error) {
	files, err := s.files.ListFiles(ctx, query)
	if err != nil {
		return nil, err
	}
	out := make([]FileResponse, len(files))
	for i := range files {
		out[i] = toFileResponse(&files[i])
	}
	return out, nil
}

// Delete removes a vendor file
func (s *Service) Delete(ctx context.Context, fileID string) error {
	if fileID == "" {
		return shared.NewDomainError("INVALID_INPUT", "File ID is required")
	}
	return s.files.DeleteFile(ctx, fileID)
}

// Usage lists the components whose artwork metafields reference the file
func (s *Service) Usage(ctx context.Context, fileID string) (*UsageResponse, error) {
	usages, err := s.files.FileUsage(ctx, fileID)
	if err != nil {
		return nil, err
	}
	return &UsageResponse{FileID: fileID, UsedBy: usages}, nil
}

var versionSuffix = regexp.MustCompile(`_(\d+)$`)

// SuggestName returns the next free versioned filename: for "logo.png" it
// scans existing files named "logo_N.png" and proposes "logo_{max+1}.png".
// A name with no versioned siblings gets "_1".
func (s *Service) SuggestName(ctx context.Context, req SuggestNameRequest) (*SuggestNameResponse, error) {
	ext := path.Ext(req.Filename)
	base := strings.TrimSuffix(req.Filename, ext)
	base = versionSuffix.ReplaceAllString(base, "")
	if base == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Filename has no base name")
	}

	files, err := s.files.ListFiles(ctx, base)
	if err != nil {
		return nil, err
	}

	highest := 0
	for _, f := range files {
		name := strings.TrimSuffix(f.Filename, path.Ext(f.Filename))
		if name == base && highest == 0 {
			// An unversioned copy counts as version 1.
			highest = 1
		}
		rest, ok := strings.CutPrefix(name, base)
		if !ok {
			continue
		}
		m := versionSuffix.FindStringSubmatch(rest)
		if m == nil || rest != m[0] {
			continue
		}
		if n, err := strconv.Atoi(m[1]); err == nil && n > highest {
			highest = n
		}
	}

	return &SuggestNameResponse{
		Filename: fmt.Sprintf("%s_%d%s", base, highest+1, ext),
	}, nil
}
