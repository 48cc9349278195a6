package handler

import (
	componentapp "github.com/componentadmin/backend/internal/application/component"
	"github.com/gin-gonic/gin"
)

// ComponentHandler handles component-related API endpoints
type ComponentHandler struct {
	BaseHandler
	componentService *componentapp.Service
}

// NewComponentHandler creates a new ComponentHandler
func NewComponentHandler(componentService *componentapp.Service) *ComponentHandler {
	return &ComponentHandler{
		componentService: componentService,
	}
}

// Create creates a new component. The code is checked for uniqueness
// across every component kind before the vendor create call runs.
func (h *ComponentHandler) Create(c *gin.Context) {
	var req componentapp.CreateComponentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	created, err := h.componentService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, created)
}

// GetByID retrieves a component by its vendor ID
func (h *ComponentHandler) GetByID(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		h.BadRequest(c, "Component ID is required")
		return
	}

	comp, err := h.componentService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, comp)
}

// GetByCode retrieves the component holding a code, regardless of kind
func (h *ComponentHandler) GetByCode(c *gin.Context) {
	code := c.Param("code")
	if code == "" {
		h.BadRequest(c, "Component code is required")
		return
	}

	comp, err := h.componentService.GetByCode(c.Request.Context(), code)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, comp)
}

// List retrieves a paginated list of components with optional filtering
func (h *ComponentHandler) List(c *gin.Context) {
	var filter componentapp.ComponentListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	page, err := h.componentService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, int64(page.Total), page.Page, page.PageSize)
}

// Update rewrites a component's basic information
func (h *ComponentHandler) Update(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		h.BadRequest(c, "Component ID is required")
		return
	}

	var req componentapp.UpdateComponentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	comp, err := h.componentService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, comp)
}

// UpdateCode changes a component's code, subject to the same uniqueness
// check as Create
func (h *ComponentHandler) UpdateCode(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		h.BadRequest(c, "Component ID is required")
		return
	}

	var req componentapp.UpdateCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if err := h.componentService.UpdateCode(c.Request.Context(), id, req); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, gin.H{"id": id, "code": req.Code})
}

// UpdateMetafields writes metafield values. An empty request body is a
// successful no-op.
func (h *ComponentHandler) UpdateMetafields(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		h.BadRequest(c, "Component ID is required")
		return
	}

	var req componentapp.UpdateMetafieldsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if err := h.componentService.UpdateMetafields(c.Request.Context(), id, req); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, gin.H{"id": id})
}

// DeleteMetafield removes one metafield by key
func (h *ComponentHandler) DeleteMetafield(c *gin.Context) {
	id := c.Param("id")
	key := c.Param("key")
	if id == "" {
		h.BadRequest(c, "Component ID is required")
		return
	}

	if err := h.componentService.DeleteMetafield(c.Request.Context(), id, key); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

// UpdatePrice sets the unit price on the component's primary variant
func (h *ComponentHandler) UpdatePrice(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		h.BadRequest(c, "Component ID is required")
		return
	}

	var req componentapp.UpdatePriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if err := h.componentService.UpdatePrice(c.Request.Context(), id, req); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, gin.H{"id": id})
}

// UpdatePriceBands replaces the component's tiered price list
func (h *ComponentHandler) UpdatePriceBands(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		h.BadRequest(c, "Component ID is required")
		return
	}

	var req componentapp.UpdatePriceBandsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if err := h.componentService.UpdatePriceBands(c.Request.Context(), id, req); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, gin.H{"id": id})
}

// ApplyPriceBands materializes the stored band metafield into per-band
// variants with computed prices. An empty body applies the default key.
func (h *ComponentHandler) ApplyPriceBands(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		h.BadRequest(c, "Component ID is required")
		return
	}

	var req componentapp.ApplyPriceBandsRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.BadRequest(c, err.Error())
			return
		}
	}

	result, err := h.componentService.ApplyPriceBands(c.Request.Context(), id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}
