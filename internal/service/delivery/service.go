// Package delivery implements the order lifecycle across the three
// roles: clients place and cancel, companies dispatch, drivers carry.
package delivery

import (
	"database/sql"
	"time"

	"w9ayt_delivery_server/internal/dao/mysql/repository"
	"w9ayt_delivery_server/internal/dto/request"
	"w9ayt_delivery_server/internal/dto/respond"
	"w9ayt_delivery_server/internal/model"
	"w9ayt_delivery_server/pkg/errorx"
)

const (
	defaultPage     = 1
	defaultPageSize = 10
)

type deliveryService struct {
	repos *repository.Repositories
}

// NewDeliveryService creates the delivery lifecycle service.
func NewDeliveryService(repos *repository.Repositories) *deliveryService {
	return &deliveryService{repos: repos}
}

func normalizePaging(page, pageSize int) (int, int) {
	if page < 1 {
		page = defaultPage
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = defaultPageSize
	}
	return page, pageSize
}

// Create places a pending order with an approved company.
func (s *deliveryService) Create(clientID uint, req request.CreateDeliveryRequest) (*model.Delivery, error) {
	company, err := s.repos.Company.FindByID(req.CompanyID)
	if err != nil {
		return nil, err
	}
	if company.Validation != model.CompanyApproved {
		return nil, errorx.New(errorx.CodeForbidden, "company is not accepting orders")
	}

	delivery := &model.Delivery{
		ClientID:       clientID,
		CompanyID:      company.ID,
		PickupAddress:  req.PickupAddress,
		DropoffAddress: req.DropoffAddress,
		Description:    req.Description,
		Weight:         req.Weight,
		Status:         model.DeliveryPending,
	}
	if err := s.repos.Delivery.Create(delivery); err != nil {
		return nil, err
	}
	return delivery, nil
}

func (s *deliveryService) ListForClient(clientID uint, req request.ListDeliveriesRequest) (*respond.DeliveryListRespond, error) {
	page, pageSize := normalizePaging(req.Page, req.PageSize)
	deliveries, total, err := s.repos.Delivery.FindByClient(clientID, repository.DeliveryFilter{
		Search:   req.Search,
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		return nil, err
	}
	return &respond.DeliveryListRespond{Deliveries: deliveries, Total: total, Page: page, PageSize: pageSize}, nil
}

// History is the client archive screen with free-text, status and
// date-range filters.
func (s *deliveryService) History(clientID uint, req request.DeliveryHistoryRequest) (*respond.DeliveryListRespond, error) {
	page, pageSize := normalizePaging(req.Page, req.PageSize)
	filter := repository.DeliveryFilter{
		Search:   req.Q,
		Status:   req.Status,
		Page:     page,
		PageSize: pageSize,
	}
	if req.StartDate != "" {
		from, err := time.Parse("2006-01-02", req.StartDate)
		if err != nil {
			return nil, errorx.New(errorx.CodeInvalidParam, "startDate must be YYYY-MM-DD")
		}
		filter.From = from
	}
	if req.EndDate != "" {
		to, err := time.Parse("2006-01-02", req.EndDate)
		if err != nil {
			return nil, errorx.New(errorx.CodeInvalidParam, "endDate must be YYYY-MM-DD")
		}
		// Inclusive end of day.
		filter.To = to.Add(24*time.Hour - time.Nanosecond)
	}
	deliveries, total, err := s.repos.Delivery.FindByClient(clientID, filter)
	if err != nil {
		return nil, err
	}
	return &respond.DeliveryListRespond{Deliveries: deliveries, Total: total, Page: page, PageSize: pageSize}, nil
}

// Cancel is client-initiated and only possible before dispatch.
func (s *deliveryService) Cancel(clientID, deliveryID uint) error {
	delivery, err := s.repos.Delivery.FindByID(deliveryID)
	if err != nil {
		return err
	}
	if delivery.ClientID != clientID {
		return errorx.New(errorx.CodeForbidden, "delivery belongs to another client")
	}
	if delivery.Status != model.DeliveryPending {
		return errorx.Newf(errorx.CodeConflict, "cannot cancel a delivery in state %s", delivery.Status)
	}
	delivery.Status = model.DeliveryCancelled
	return s.repos.Delivery.Update(delivery)
}

func (s *deliveryService) ListForCompany(companyUserID uint, req request.ListDeliveriesRequest) (*respond.DeliveryListRespond, error) {
	company, err := s.repos.Company.FindByUserID(companyUserID)
	if err != nil {
		return nil, err
	}
	page, pageSize := normalizePaging(req.Page, req.PageSize)
	deliveries, total, err := s.repos.Delivery.FindByCompany(company.ID, repository.DeliveryFilter{
		Search:   req.Search,
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		return nil, err
	}
	return &respond.DeliveryListRespond{Deliveries: deliveries, Total: total, Page: page, PageSize: pageSize}, nil
}

// Assign dispatches a pending delivery to one of the company's
// available drivers.
func (s *deliveryService) Assign(companyUserID, deliveryID, driverID uint) error {
	company, err := s.repos.Company.FindByUserID(companyUserID)
	if err != nil {
		return err
	}
	delivery, err := s.repos.Delivery.FindByID(deliveryID)
	if err != nil {
		return err
	}
	if delivery.CompanyID != company.ID {
		return errorx.New(errorx.CodeForbidden, "delivery belongs to another company")
	}
	if delivery.Status != model.DeliveryPending {
		return errorx.Newf(errorx.CodeConflict, "delivery already %s", delivery.Status)
	}
	driver, err := s.repos.Driver.FindByID(driverID)
	if err != nil {
		return err
	}
	if driver.CompanyID != company.ID {
		return errorx.New(errorx.CodeForbidden, "driver belongs to another company")
	}
	if driver.Status == model.DriverSuspended {
		return errorx.New(errorx.CodeConflict, "driver is suspended")
	}

	return s.repos.Transaction(func(tx *repository.Repositories) error {
		delivery.DriverID = sql.NullInt64{Int64: int64(driver.ID), Valid: true}
		delivery.Status = model.DeliveryAssigned
		if err := tx.Delivery.Update(delivery); err != nil {
			return err
		}
		return tx.Driver.SetStatus(driver.ID, model.DriverBusy)
	})
}

// AvailableForDriver lists assignments the driver has not picked up yet.
func (s *deliveryService) AvailableForDriver(driverUserID uint) ([]model.Delivery, error) {
	driver, err := s.repos.Driver.FindByUserID(driverUserID)
	if err != nil {
		return nil, err
	}
	deliveries, _, err := s.repos.Delivery.FindByDriver(driver.ID, repository.DeliveryFilter{
		Status: model.DeliveryAssigned,
	})
	return deliveries, err
}

// Accept marks the pickup: the assignment moves to in_transit.
func (s *deliveryService) Accept(driverUserID, deliveryID uint) error {
	return s.advance(driverUserID, deliveryID, model.DeliveryInTransit)
}

// UpdateStatus advances a delivery along assigned -> in_transit ->
// delivered. Any other transition is rejected.
func (s *deliveryService) UpdateStatus(driverUserID, deliveryID uint, status string) error {
	return s.advance(driverUserID, deliveryID, status)
}

func (s *deliveryService) advance(driverUserID, deliveryID uint, next string) error {
	driver, err := s.repos.Driver.FindByUserID(driverUserID)
	if err != nil {
		return err
	}
	delivery, err := s.repos.Delivery.FindByID(deliveryID)
	if err != nil {
		return err
	}
	if !delivery.DriverID.Valid || uint(delivery.DriverID.Int64) != driver.ID {
		return errorx.New(errorx.CodeForbidden, "delivery is not assigned to you")
	}

	valid := (delivery.Status == model.DeliveryAssigned && next == model.DeliveryInTransit) ||
		(delivery.Status == model.DeliveryInTransit && next == model.DeliveryDelivered)
	if !valid {
		return errorx.Newf(errorx.CodeConflict, "cannot move a %s delivery to %s", delivery.Status, next)
	}

	return s.repos.Transaction(func(tx *repository.Repositories) error {
		delivery.Status = next
		if next == model.DeliveryDelivered {
			delivery.DeliveredAt = sql.NullTime{Time: time.Now(), Valid: true}
		}
		if err := tx.Delivery.Update(delivery); err != nil {
			return err
		}
		if next == model.DeliveryDelivered {
			if err := tx.Driver.IncrementCompleted(driver.ID); err != nil {
				return err
			}
			return tx.Driver.SetStatus(driver.ID, model.DriverAvailable)
		}
		return nil
	})
}
