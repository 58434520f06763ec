package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"w9ayt_delivery_server/internal/dto/request"
	"w9ayt_delivery_server/internal/dto/respond"
	"w9ayt_delivery_server/internal/model"
)

func idPath(prefix string, id uint, suffix string) string {
	return prefix + "/" + strconv.FormatUint(uint64(id), 10) + suffix
}

// Companies lists the approved companies clients can order from.
func (c *Client) Companies(ctx context.Context) ([]model.Company, error) {
	var rsp []model.Company
	if err := c.doJSON(ctx, http.MethodGet, "/api/companies", nil, &rsp); err != nil {
		return nil, err
	}
	return rsp, nil
}

// SubmitContact sends the public contact form.
func (c *Client) SubmitContact(ctx context.Context, req request.ContactRequest) error {
	return c.doJSON(ctx, http.MethodPost, "/api/contact", req, nil)
}

// CreateDelivery places a new order.
func (c *Client) CreateDelivery(ctx context.Context, req request.CreateDeliveryRequest) (*model.Delivery, error) {
	var rsp model.Delivery
	if err := c.doJSON(ctx, http.MethodPost, "/api/client/deliveries", req, &rsp); err != nil {
		return nil, err
	}
	return &rsp, nil
}

func listQuery(req request.ListDeliveriesRequest) url.Values {
	values := url.Values{}
	if req.Page > 0 {
		values.Set("page", strconv.Itoa(req.Page))
	}
	if req.PageSize > 0 {
		values.Set("pageSize", strconv.Itoa(req.PageSize))
	}
	if req.Search != "" {
		values.Set("search", req.Search)
	}
	return values
}

// ClientDeliveries lists the caller's orders.
func (c *Client) ClientDeliveries(ctx context.Context, req request.ListDeliveriesRequest) (*respond.DeliveryListRespond, error) {
	var rsp respond.DeliveryListRespond
	path := queryPath("/api/client/deliveries", listQuery(req))
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &rsp); err != nil {
		return nil, err
	}
	return &rsp, nil
}

// DeliveryHistory queries the archive with filters.
func (c *Client) DeliveryHistory(ctx context.Context, req request.DeliveryHistoryRequest) (*respond.DeliveryListRespond, error) {
	values := url.Values{}
	if req.Q != "" {
		values.Set("q", req.Q)
	}
	if req.Status != "" {
		values.Set("status", req.Status)
	}
	if req.StartDate != "" {
		values.Set("startDate", req.StartDate)
	}
	if req.EndDate != "" {
		values.Set("endDate", req.EndDate)
	}
	if req.Page > 0 {
		values.Set("page", strconv.Itoa(req.Page))
	}
	if req.PageSize > 0 {
		values.Set("pageSize", strconv.Itoa(req.PageSize))
	}
	var rsp respond.DeliveryListRespond
	path := queryPath("/api/client/deliveries/history", values)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &rsp); err != nil {
		return nil, err
	}
	return &rsp, nil
}

// CancelDelivery cancels a pending order.
func (c *Client) CancelDelivery(ctx context.Context, deliveryID uint) error {
	return c.doJSON(ctx, http.MethodPut, idPath("/api/client/deliveries", deliveryID, "/cancel"), nil, nil)
}

// CompanyDeliveries lists the company's incoming orders.
func (c *Client) CompanyDeliveries(ctx context.Context, req request.ListDeliveriesRequest) (*respond.DeliveryListRespond, error) {
	var rsp respond.DeliveryListRespond
	path := queryPath("/api/company/deliveries", listQuery(req))
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &rsp); err != nil {
		return nil, err
	}
	return &rsp, nil
}

// AssignDriver dispatches an order to a driver.
func (c *Client) AssignDriver(ctx context.Context, deliveryID, driverID uint) error {
	return c.doJSON(ctx, http.MethodPut, idPath("/api/company/deliveries", deliveryID, "/assign"),
		request.AssignDriverRequest{DriverID: driverID}, nil)
}

// CompanyProfile fetches the caller's company profile.
func (c *Client) CompanyProfile(ctx context.Context) (*model.Company, error) {
	var rsp model.Company
	if err := c.doJSON(ctx, http.MethodGet, "/api/company/profile", nil, &rsp); err != nil {
		return nil, err
	}
	return &rsp, nil
}

// UpdateCompanyProfile edits the caller's company profile.
func (c *Client) UpdateCompanyProfile(ctx context.Context, req request.UpdateCompanyProfileRequest) error {
	return c.doJSON(ctx, http.MethodPut, "/api/company/profile", req, nil)
}

// Drivers lists the company's drivers.
func (c *Client) Drivers(ctx context.Context) ([]model.Driver, error) {
	var rsp []model.Driver
	if err := c.doJSON(ctx, http.MethodGet, "/api/company/drivers", nil, &rsp); err != nil {
		return nil, err
	}
	return rsp, nil
}

// AddDriver creates a driver account under the company.
func (c *Client) AddDriver(ctx context.Context, req request.AddDriverRequest) (*model.Driver, error) {
	var rsp model.Driver
	if err := c.doJSON(ctx, http.MethodPost, "/api/company/drivers", req, &rsp); err != nil {
		return nil, err
	}
	return &rsp, nil
}

// UpdateDriver edits a driver profile.
func (c *Client) UpdateDriver(ctx context.Context, driverID uint, req request.UpdateDriverRequest) error {
	return c.doJSON(ctx, http.MethodPut, idPath("/api/company/drivers", driverID, ""), req, nil)
}

// DeleteDriver removes a driver and their account.
func (c *Client) DeleteDriver(ctx context.Context, driverID uint) error {
	return c.doJSON(ctx, http.MethodDelete, idPath("/api/company/drivers", driverID, ""), nil, nil)
}

// CompanyStatistics fetches the dashboard aggregates.
func (c *Client) CompanyStatistics(ctx context.Context) (*respond.StatisticsRespond, error) {
	var rsp respond.StatisticsRespond
	if err := c.doJSON(ctx, http.MethodGet, "/api/company/statistics", nil, &rsp); err != nil {
		return nil, err
	}
	return &rsp, nil
}

// CompanyPerformance fetches the performance panel.
func (c *Client) CompanyPerformance(ctx context.Context) (*respond.PerformanceRespond, error) {
	var rsp respond.PerformanceRespond
	if err := c.doJSON(ctx, http.MethodGet, "/api/company/statistics/performance", nil, &rsp); err != nil {
		return nil, err
	}
	return &rsp, nil
}

// DriverDeliveries lists the caller's assignments waiting for pickup.
func (c *Client) DriverDeliveries(ctx context.Context) ([]model.Delivery, error) {
	var rsp []model.Delivery
	if err := c.doJSON(ctx, http.MethodGet, "/api/driver/deliveries", nil, &rsp); err != nil {
		return nil, err
	}
	return rsp, nil
}

// AcceptDelivery confirms a pickup.
func (c *Client) AcceptDelivery(ctx context.Context, deliveryID uint) error {
	return c.doJSON(ctx, http.MethodPut, idPath("/api/driver/deliveries", deliveryID, "/accept"), nil, nil)
}

// UpdateDeliveryStatus advances an assignment.
func (c *Client) UpdateDeliveryStatus(ctx context.Context, deliveryID uint, status string) error {
	return c.doJSON(ctx, http.MethodPut, idPath("/api/driver/deliveries", deliveryID, "/status"),
		request.UpdateDeliveryStatusRequest{Status: status}, nil)
}
