package repository

import (
	"time"

	"w9ayt_delivery_server/internal/model"

	"gorm.io/gorm"
)

type deliveryRepository struct {
	db *gorm.DB
}

// NewDeliveryRepository creates the delivery Repository.
func NewDeliveryRepository(db *gorm.DB) DeliveryRepository {
	return &deliveryRepository{db: db}
}

func (r *deliveryRepository) FindByID(id uint) (*model.Delivery, error) {
	var delivery model.Delivery
	if err := r.db.First(&delivery, id).Error; err != nil {
		return nil, wrapDBErrorf(err, "find delivery id=%d", id)
	}
	return &delivery, nil
}

// applyFilter narrows a query with the non-zero fields of f and returns
// the query plus the requested page bounds.
func applyFilter(q *gorm.DB, f DeliveryFilter) *gorm.DB {
	if f.Search != "" {
		like := "%" + f.Search + "%"
		q = q.Where("pickup_address LIKE ? OR dropoff_address LIKE ? OR description LIKE ?", like, like, like)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if !f.From.IsZero() {
		q = q.Where("created_at >= ?", f.From)
	}
	if !f.To.IsZero() {
		q = q.Where("created_at <= ?", f.To)
	}
	return q
}

func (r *deliveryRepository) findPaged(q *gorm.DB, f DeliveryFilter, what string) ([]model.Delivery, int64, error) {
	q = applyFilter(q, f)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, wrapDBError(err, "count "+what)
	}

	q = q.Order("created_at DESC")
	if f.PageSize > 0 {
		page := f.Page
		if page < 1 {
			page = 1
		}
		q = q.Offset((page - 1) * f.PageSize).Limit(f.PageSize)
	}

	var deliveries []model.Delivery
	if err := q.Find(&deliveries).Error; err != nil {
		return nil, 0, wrapDBError(err, "list "+what)
	}
	return deliveries, total, nil
}

func (r *deliveryRepository) FindByClient(clientID uint, f DeliveryFilter) ([]model.Delivery, int64, error) {
	q := r.db.Model(&model.Delivery{}).Where("client_id = ?", clientID)
	return r.findPaged(q, f, "client deliveries")
}

func (r *deliveryRepository) FindByCompany(companyID uint, f DeliveryFilter) ([]model.Delivery, int64, error) {
	q := r.db.Model(&model.Delivery{}).Where("company_id = ?", companyID)
	return r.findPaged(q, f, "company deliveries")
}

func (r *deliveryRepository) FindPendingByCompany(companyID uint) ([]model.Delivery, error) {
	var deliveries []model.Delivery
	if err := r.db.Where("company_id = ? AND status = ?", companyID, model.DeliveryPending).
		Order("created_at ASC").Find(&deliveries).Error; err != nil {
		return nil, wrapDBErrorf(err, "list pending deliveries company_id=%d", companyID)
	}
	return deliveries, nil
}

func (r *deliveryRepository) FindByDriver(driverID uint, f DeliveryFilter) ([]model.Delivery, int64, error) {
	q := r.db.Model(&model.Delivery{}).Where("driver_id = ?", driverID)
	return r.findPaged(q, f, "driver deliveries")
}

func (r *deliveryRepository) Create(delivery *model.Delivery) error {
	if err := r.db.Create(delivery).Error; err != nil {
		return wrapDBError(err, "create delivery")
	}
	return nil
}

func (r *deliveryRepository) Update(delivery *model.Delivery) error {
	if err := r.db.Save(delivery).Error; err != nil {
		return wrapDBErrorf(err, "update delivery id=%d", delivery.ID)
	}
	return nil
}

func (r *deliveryRepository) CountByCompanyStatusBetween(companyID uint, status string, from, to time.Time) (int64, error) {
	var count int64
	q := r.db.Model(&model.Delivery{}).
		Where("company_id = ? AND created_at >= ? AND created_at < ?", companyID, from, to)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if err := q.Count(&count).Error; err != nil {
		return 0, wrapDBErrorf(err, "count deliveries company_id=%d status=%s", companyID, status)
	}
	return count, nil
}

func (r *deliveryRepository) MonthlyStats(companyID uint, from time.Time) ([]MonthlyCount, error) {
	var stats []MonthlyCount
	err := r.db.Model(&model.Delivery{}).
		Select("DATE_FORMAT(created_at, '%Y-%m') AS month, COUNT(*) AS total, SUM(status = 'delivered') AS delivered").
		Where("company_id = ? AND created_at >= ?", companyID, from).
		Group("month").Order("month ASC").
		Scan(&stats).Error
	if err != nil {
		return nil, wrapDBErrorf(err, "monthly stats company_id=%d", companyID)
	}
	return stats, nil
}

func (r *deliveryRepository) StatusDistribution(companyID uint) ([]StatusCount, error) {
	var stats []StatusCount
	err := r.db.Model(&model.Delivery{}).
		Select("status, COUNT(*) AS count").
		Where("company_id = ?", companyID).
		Group("status").
		Scan(&stats).Error
	if err != nil {
		return nil, wrapDBErrorf(err, "status distribution company_id=%d", companyID)
	}
	return stats, nil
}
