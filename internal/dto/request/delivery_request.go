package request

// CreateDeliveryRequest places a new delivery order with a company.
type CreateDeliveryRequest struct {
	CompanyID      uint    `json:"company_id" binding:"required"`
	PickupAddress  string  `json:"pickup_address" binding:"required"`
	DropoffAddress string  `json:"dropoff_address" binding:"required"`
	Description    string  `json:"description"`
	Weight         float64 `json:"weight" binding:"omitempty,gt=0"`
}

// ListDeliveriesRequest is the paged listing query.
type ListDeliveriesRequest struct {
	Page     int    `form:"page"`
	PageSize int    `form:"pageSize"`
	Search   string `form:"search"`
}

// DeliveryHistoryRequest filters the client history screen.
type DeliveryHistoryRequest struct {
	Q         string `form:"q"`
	Status    string `form:"status" binding:"omitempty,oneof=pending assigned in_transit delivered cancelled"`
	StartDate string `form:"startDate"` // YYYY-MM-DD
	EndDate   string `form:"endDate"`   // YYYY-MM-DD
	Page      int    `form:"page"`
	PageSize  int    `form:"pageSize"`
}

// AssignDriverRequest dispatches a pending delivery to a driver.
type AssignDriverRequest struct {
	DriverID uint `json:"driver_id" binding:"required"`
}

// UpdateDeliveryStatusRequest advances a delivery along its lifecycle.
type UpdateDeliveryStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=in_transit delivered"`
}
