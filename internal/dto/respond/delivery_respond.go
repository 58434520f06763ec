package respond

import "w9ayt_delivery_server/internal/model"

// DeliveryListRespond is a paged delivery listing.
type DeliveryListRespond struct {
	Deliveries []model.Delivery `json:"deliveries"`
	Total      int64            `json:"total"`
	Page       int              `json:"page"`
	PageSize   int              `json:"pageSize"`
}
