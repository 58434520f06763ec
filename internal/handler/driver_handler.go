package handler

import (
	"github.com/gin-gonic/gin"

	"w9ayt_delivery_server/internal/dto/request"
	"w9ayt_delivery_server/internal/infrastructure/middleware"
	"w9ayt_delivery_server/internal/service"
)

// DriverHandler serves the company drivers screen.
type DriverHandler struct {
	drivers service.DriverService
}

func NewDriverHandler(drivers service.DriverService) *DriverHandler {
	return &DriverHandler{drivers: drivers}
}

// List handles GET /api/company/drivers.
func (h *DriverHandler) List(c *gin.Context) {
	rsp, err := h.drivers.ListByCompany(uint(middleware.UserID(c)))
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, rsp)
}

// Get handles GET /api/company/drivers/:id.
func (h *DriverHandler) Get(c *gin.Context) {
	id, err := paramUint(c, "id")
	if err != nil {
		HandleError(c, err)
		return
	}
	rsp, err := h.drivers.GetByID(uint(middleware.UserID(c)), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, rsp)
}

// Add handles POST /api/company/drivers.
func (h *DriverHandler) Add(c *gin.Context) {
	var req request.AddDriverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	rsp, err := h.drivers.Add(uint(middleware.UserID(c)), req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, rsp)
}

// Update handles PUT /api/company/drivers/:id.
func (h *DriverHandler) Update(c *gin.Context) {
	id, err := paramUint(c, "id")
	if err != nil {
		HandleError(c, err)
		return
	}
	var req request.UpdateDriverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	if err := h.drivers.Update(uint(middleware.UserID(c)), id, req); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// Delete handles DELETE /api/company/drivers/:id.
func (h *DriverHandler) Delete(c *gin.Context) {
	id, err := paramUint(c, "id")
	if err != nil {
		HandleError(c, err)
		return
	}
	if err := h.drivers.Delete(uint(middleware.UserID(c)), id); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}
