package handler

import (
	"github.com/gin-gonic/gin"

	"w9ayt_delivery_server/internal/dto/request"
	"w9ayt_delivery_server/internal/infrastructure/middleware"
	"w9ayt_delivery_server/internal/service"
)

// CompanyHandler serves the company profile, the public catalogue and
// the admin validation endpoints.
type CompanyHandler struct {
	companies service.CompanyService
}

func NewCompanyHandler(companies service.CompanyService) *CompanyHandler {
	return &CompanyHandler{companies: companies}
}

// Profile handles GET /api/company/profile.
func (h *CompanyHandler) Profile(c *gin.Context) {
	rsp, err := h.companies.GetProfile(uint(middleware.UserID(c)))
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, rsp)
}

// UpdateProfile handles PUT /api/company/profile.
func (h *CompanyHandler) UpdateProfile(c *gin.Context) {
	var req request.UpdateCompanyProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	if err := h.companies.UpdateProfile(uint(middleware.UserID(c)), req); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// ListApproved handles GET /api/companies, the catalogue clients order
// from. Public endpoint.
func (h *CompanyHandler) ListApproved(c *gin.Context) {
	rsp, err := h.companies.ListApproved()
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, rsp)
}

// ListAll handles GET /api/admin/companies?validation=.
func (h *CompanyHandler) ListAll(c *gin.Context) {
	rsp, err := h.companies.ListAll(c.Query("validation"))
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, rsp)
}

// Validate handles PUT /api/admin/companies/:id/validate.
func (h *CompanyHandler) Validate(c *gin.Context) {
	id, err := paramUint(c, "id")
	if err != nil {
		HandleError(c, err)
		return
	}
	var req request.ValidateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	if err := h.companies.Validate(id, req.Decision); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}
