package handler

import (
	"github.com/gin-gonic/gin"

	"w9ayt_delivery_server/internal/dto/request"
	"w9ayt_delivery_server/internal/infrastructure/middleware"
	"w9ayt_delivery_server/internal/service"
)

// DeliveryHandler serves the delivery lifecycle endpoints for the three
// roles.
type DeliveryHandler struct {
	deliveries service.DeliveryService
}

func NewDeliveryHandler(deliveries service.DeliveryService) *DeliveryHandler {
	return &DeliveryHandler{deliveries: deliveries}
}

// Create handles POST /api/client/deliveries.
func (h *DeliveryHandler) Create(c *gin.Context) {
	var req request.CreateDeliveryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	rsp, err := h.deliveries.Create(uint(middleware.UserID(c)), req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, rsp)
}

// ListForClient handles GET /api/client/deliveries.
func (h *DeliveryHandler) ListForClient(c *gin.Context) {
	var req request.ListDeliveriesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	rsp, err := h.deliveries.ListForClient(uint(middleware.UserID(c)), req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, rsp)
}

// History handles GET /api/client/deliveries/history with free-text,
// status and date-range filters.
func (h *DeliveryHandler) History(c *gin.Context) {
	var req request.DeliveryHistoryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	rsp, err := h.deliveries.History(uint(middleware.UserID(c)), req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, rsp)
}

// Cancel handles PUT /api/client/deliveries/:id/cancel.
func (h *DeliveryHandler) Cancel(c *gin.Context) {
	id, err := paramUint(c, "id")
	if err != nil {
		HandleError(c, err)
		return
	}
	if err := h.deliveries.Cancel(uint(middleware.UserID(c)), id); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// ListForCompany handles GET /api/company/deliveries.
func (h *DeliveryHandler) ListForCompany(c *gin.Context) {
	var req request.ListDeliveriesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	rsp, err := h.deliveries.ListForCompany(uint(middleware.UserID(c)), req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, rsp)
}

// Assign handles PUT /api/company/deliveries/:id/assign.
func (h *DeliveryHandler) Assign(c *gin.Context) {
	id, err := paramUint(c, "id")
	if err != nil {
		HandleError(c, err)
		return
	}
	var req request.AssignDriverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	if err := h.deliveries.Assign(uint(middleware.UserID(c)), id, req.DriverID); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// Available handles GET /api/driver/deliveries, the assignments waiting
// for pickup.
func (h *DeliveryHandler) Available(c *gin.Context) {
	rsp, err := h.deliveries.AvailableForDriver(uint(middleware.UserID(c)))
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, rsp)
}

// Accept handles PUT /api/driver/deliveries/:id/accept.
func (h *DeliveryHandler) Accept(c *gin.Context) {
	id, err := paramUint(c, "id")
	if err != nil {
		HandleError(c, err)
		return
	}
	if err := h.deliveries.Accept(uint(middleware.UserID(c)), id); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// UpdateStatus handles PUT /api/driver/deliveries/:id/status.
func (h *DeliveryHandler) UpdateStatus(c *gin.Context) {
	id, err := paramUint(c, "id")
	if err != nil {
		HandleError(c, err)
		return
	}
	var req request.UpdateDeliveryStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	if err := h.deliveries.UpdateStatus(uint(middleware.UserID(c)), id, req.Status); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}
