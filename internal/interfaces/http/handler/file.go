package handler

import (
	artworkapp "github.com/componentadmin/backend/internal/application/artwork"
	"github.com/gin-gonic/gin"
)

// FileHandler handles artwork file API endpoints
type FileHandler struct {
	BaseHandler
	artworkService *artworkapp.Service
}

// NewFileHandler creates a new FileHandler
func NewFileHandler(artworkService *artworkapp.Service) *FileHandler {
	return &FileHandler{
		artworkService: artworkService,
	}
}

// Upload accepts a multipart upload and relays it to the vendor platform.
// The file goes under the "file" form field; component_id, metafield_key
// and alt are optional form values. When component_id is present the file
// is attached to that component after the transfer completes.
func (h *FileHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.BadRequest(c, "A file form field is required")
		return
	}

	src, err := fileHeader.Open()
	if err != nil {
		h.BadRequest(c, "Could not read the uploaded file")
		return
	}
	defer src.Close()

	req := artworkapp.UploadRequest{
		Filename:     fileHeader.Filename,
		MimeType:     fileHeader.Header.Get("Content-Type"),
		Size:         fileHeader.Size,
		Alt:          c.PostForm("alt"),
		ComponentID:  c.PostForm("component_id"),
		MetafieldKey: c.PostForm("metafield_key"),
	}

	resp, err := h.artworkService.Upload(c.Request.Context(), req, src)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, resp)
}

// List lists vendor files, optionally filtered by a search query
func (h *FileHandler) List(c *gin.Context) {
	files, err := h.artworkService.List(c.Request.Context(), c.Query("search"))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, files)
}

// Delete removes a vendor file
func (h *FileHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		h.BadRequest(c, "File ID is required")
		return
	}

	if err := h.artworkService.Delete(c.Request.Context(), id); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

// Usage lists the components whose artwork metafields reference a file
func (h *FileHandler) Usage(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		h.BadRequest(c, "File ID is required")
		return
	}

	usage, err := h.artworkService.Usage(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, usage)
}

// SuggestName proposes the next free versioned filename for an upload
func (h *FileHandler) SuggestName(c *gin.Context) {
	var req artworkapp.SuggestNameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.artworkService.SuggestName(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}
