package handler

import (
	"github.com/gin-gonic/gin"

	"w9ayt_delivery_server/internal/dto/request"
	"w9ayt_delivery_server/internal/service"
)

// ContactHandler serves the public contact form and its admin inbox.
type ContactHandler struct {
	contacts service.ContactService
}

func NewContactHandler(contacts service.ContactService) *ContactHandler {
	return &ContactHandler{contacts: contacts}
}

// Submit handles POST /api/contact. Public endpoint.
func (h *ContactHandler) Submit(c *gin.Context) {
	var req request.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	if err := h.contacts.Submit(req); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// List handles GET /api/admin/contacts.
func (h *ContactHandler) List(c *gin.Context) {
	rsp, err := h.contacts.List()
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, rsp)
}

// Delete handles DELETE /api/admin/contacts/:id.
func (h *ContactHandler) Delete(c *gin.Context) {
	id, err := paramUint(c, "id")
	if err != nil {
		HandleError(c, err)
		return
	}
	if err := h.contacts.Delete(id); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}
