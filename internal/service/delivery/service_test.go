package delivery

import (
	"database/sql"
	"testing"
	"time"

	"w9ayt_delivery_server/internal/dao/mysql/repository"
	"w9ayt_delivery_server/internal/dto/request"
	"w9ayt_delivery_server/internal/model"
	"w9ayt_delivery_server/pkg/errorx"
)

type fakeCompanyRepo struct {
	companies map[uint]*model.Company
}

func (f *fakeCompanyRepo) FindByID(id uint) (*model.Company, error) {
	if c, ok := f.companies[id]; ok {
		return c, nil
	}
	return nil, errorx.ErrNotFound
}

func (f *fakeCompanyRepo) FindByUserID(userID uint) (*model.Company, error) {
	for _, c := range f.companies {
		if c.UserID == userID {
			return c, nil
		}
	}
	return nil, errorx.ErrNotFound
}

func (f *fakeCompanyRepo) FindAll(string) ([]model.Company, error) { return nil, nil }
func (f *fakeCompanyRepo) Create(*model.Company) error { return nil }
func (f *fakeCompanyRepo) Update(*model.Company) error { return nil }
func (f *fakeCompanyRepo) SetValidation(uint, string) error { return nil }
func (f *fakeCompanyRepo) Delete(uint) error { return nil }

type fakeDriverRepo struct {
	drivers   map[uint]*model.Driver
	completed map[uint]int
}

func (f *fakeDriverRepo) FindByID(id uint) (*model.Driver, error) {
	if d, ok := f.drivers[id]; ok {
		return d, nil
	}
	return nil, errorx.ErrNotFound
}

func (f *fakeDriverRepo) FindByUserID(userID uint) (*model.Driver, error) {
	for _, d := range f.drivers {
		if d.UserID == userID {
			return d, nil
		}
	}
	return nil, errorx.ErrNotFound
}

func (f *fakeDriverRepo) FindByCompany(uint) ([]model.Driver, error) { return nil, nil }
func (f *fakeDriverRepo) Create(*model.Driver) error { return nil }
func (f *fakeDriverRepo) Update(*model.Driver) error { return nil }
func (f *fakeDriverRepo) Delete(uint) error { return nil }

func (f *fakeDriverRepo) SetStatus(id uint, status string) error {
	d, err := f.FindByID(id)
	if err != nil {
		return err
	}
	d.Status = status
	return nil
}

func (f *fakeDriverRepo) IncrementCompleted(id uint) error {
	if f.completed == nil {
		f.completed = make(map[uint]int)
	}
	f.completed[id]++
	return nil
}

func (f *fakeDriverRepo) CountByCompanyAndStatus(uint, string) (int64, error) { return 0, nil }

type fakeDeliveryRepo struct {
	deliveries map[uint]*model.Delivery
	created    []*model.Delivery
}

func (f *fakeDeliveryRepo) FindByID(id uint) (*model.Delivery, error) {
	if d, ok := f.deliveries[id]; ok {
		return d, nil
	}
	return nil, errorx.ErrNotFound
}

func (f *fakeDeliveryRepo) FindByClient(clientID uint, _ repository.DeliveryFilter) ([]model.Delivery, int64, error) {
	var out []model.Delivery
	for _, d := range f.deliveries {
		if d.ClientID == clientID {
			out = append(out, *d)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeDeliveryRepo) FindByCompany(uint, repository.DeliveryFilter) ([]model.Delivery, int64, error) {
	return nil, 0, nil
}

func (f *fakeDeliveryRepo) FindPendingByCompany(uint) ([]model.Delivery, error) { return nil, nil }

func (f *fakeDeliveryRepo) FindByDriver(driverID uint, filter repository.DeliveryFilter) ([]model.Delivery, int64, error) {
	var out []model.Delivery
	for _, d := range f.deliveries {
		if d.DriverID.Valid && uint(d.DriverID.Int64) == driverID &&
			(filter.Status == "" || d.Status == filter.Status) {
			out = append(out, *d)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeDeliveryRepo) Create(d *model.Delivery) error {
	f.created = append(f.created, d)
	return nil
}

func (f *fakeDeliveryRepo) Update(d *model.Delivery) error {
	f.deliveries[d.ID] = d
	return nil
}

func (f *fakeDeliveryRepo) CountByCompanyStatusBetween(uint, string, time.Time, time.Time) (int64, error) {
	return 0, nil
}

func (f *fakeDeliveryRepo) MonthlyStats(uint, time.Time) ([]repository.MonthlyCount, error) {
	return nil, nil
}

func (f *fakeDeliveryRepo) StatusDistribution(uint) ([]repository.StatusCount, error) {
	return nil, nil
}

// fixture: company 1 (user 10, approved), driver 5 (user 20, available),
// delivery 100 placed by client 30 with company 1.
func newFixture() (*deliveryService, *fakeDeliveryRepo, *fakeDriverRepo) {
	company := &model.Company{UserID: 10, Name: "Rapide", Validation: model.CompanyApproved}
	company.ID = 1
	driver := &model.Driver{UserID: 20, CompanyID: 1, Patronim: "Karim", Status: model.DriverAvailable}
	driver.ID = 5
	delivery := &model.Delivery{ClientID: 30, CompanyID: 1, Status: model.DeliveryPending}
	delivery.ID = 100

	deliveries := &fakeDeliveryRepo{deliveries: map[uint]*model.Delivery{100: delivery}}
	drivers := &fakeDriverRepo{drivers: map[uint]*model.Driver{5: driver}}
	repos := &repository.Repositories{
		Company:  &fakeCompanyRepo{companies: map[uint]*model.Company{1: company}},
		Driver:   drivers,
		Delivery: deliveries,
	}
	return NewDeliveryService(repos), deliveries, drivers
}

func TestCreateRejectsUnapprovedCompany(t *testing.T) {
	svc, _, _ := newFixture()
	pending := &model.Company{UserID: 11, Validation: model.CompanyPending}
	pending.ID = 2
	svc.repos.Company.(*fakeCompanyRepo).companies[2] = pending

	_, err := svc.Create(30, request.CreateDeliveryRequest{CompanyID: 2, PickupAddress: "a", DropoffAddress: "b"})
	if errorx.GetCode(err) != errorx.CodeForbidden {
		t.Fatalf("want forbidden, got %v", err)
	}
}

func TestCreateStartsPending(t *testing.T) {
	svc, deliveries, _ := newFixture()

	d, err := svc.Create(30, request.CreateDeliveryRequest{
		CompanyID: 1, PickupAddress: "Lac 2", DropoffAddress: "Marsa", Weight: 2.5,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if d.Status != model.DeliveryPending || d.ClientID != 30 || d.CompanyID != 1 {
		t.Fatalf("unexpected delivery %+v", d)
	}
	if len(deliveries.created) != 1 {
		t.Fatalf("expected one insert, got %d", len(deliveries.created))
	}
}

func TestHistoryRejectsBadDates(t *testing.T) {
	svc, _, _ := newFixture()
	_, err := svc.History(30, request.DeliveryHistoryRequest{StartDate: "28/08/2026"})
	if errorx.GetCode(err) != errorx.CodeInvalidParam {
		t.Fatalf("want invalid param, got %v", err)
	}
}

func TestCancelOnlyPending(t *testing.T) {
	svc, deliveries, _ := newFixture()

	if err := svc.Cancel(31, 100); errorx.GetCode(err) != errorx.CodeForbidden {
		t.Fatalf("foreign client: want forbidden, got %v", err)
	}
	if err := svc.Cancel(30, 100); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if deliveries.deliveries[100].Status != model.DeliveryCancelled {
		t.Fatalf("status = %s", deliveries.deliveries[100].Status)
	}
	if err := svc.Cancel(30, 100); errorx.GetCode(err) != errorx.CodeConflict {
		t.Fatalf("second cancel: want conflict, got %v", err)
	}
}

func TestAssignDispatchesAndMarksDriverBusy(t *testing.T) {
	svc, deliveries, drivers := newFixture()

	if err := svc.Assign(10, 100, 5); err != nil {
		t.Fatalf("assign: %v", err)
	}
	d := deliveries.deliveries[100]
	if d.Status != model.DeliveryAssigned || !d.DriverID.Valid || d.DriverID.Int64 != 5 {
		t.Fatalf("unexpected delivery %+v", d)
	}
	if drivers.drivers[5].Status != model.DriverBusy {
		t.Fatalf("driver status = %s", drivers.drivers[5].Status)
	}

	if err := svc.Assign(10, 100, 5); errorx.GetCode(err) != errorx.CodeConflict {
		t.Fatalf("re-assign: want conflict, got %v", err)
	}
}

func TestAssignRejectsForeignDriver(t *testing.T) {
	svc, _, drivers := newFixture()
	other := &model.Driver{UserID: 21, CompanyID: 2, Status: model.DriverAvailable}
	other.ID = 6
	drivers.drivers[6] = other

	if err := svc.Assign(10, 100, 6); errorx.GetCode(err) != errorx.CodeForbidden {
		t.Fatalf("want forbidden, got %v", err)
	}
}

func TestAssignRejectsSuspendedDriver(t *testing.T) {
	svc, _, drivers := newFixture()
	drivers.drivers[5].Status = model.DriverSuspended

	if err := svc.Assign(10, 100, 5); errorx.GetCode(err) != errorx.CodeConflict {
		t.Fatalf("want conflict, got %v", err)
	}
}

func TestLifecycleAssignedToDelivered(t *testing.T) {
	svc, deliveries, drivers := newFixture()
	if err := svc.Assign(10, 100, 5); err != nil {
		t.Fatalf("assign: %v", err)
	}

	// Skipping in_transit is rejected.
	if err := svc.UpdateStatus(20, 100, model.DeliveryDelivered); errorx.GetCode(err) != errorx.CodeConflict {
		t.Fatalf("skip transition: want conflict, got %v", err)
	}

	if err := svc.Accept(20, 100); err != nil {
		t.Fatalf("accept: %v", err)
	}
	if deliveries.deliveries[100].Status != model.DeliveryInTransit {
		t.Fatalf("status = %s", deliveries.deliveries[100].Status)
	}

	if err := svc.UpdateStatus(20, 100, model.DeliveryDelivered); err != nil {
		t.Fatalf("deliver: %v", err)
	}
	d := deliveries.deliveries[100]
	if d.Status != model.DeliveryDelivered || !d.DeliveredAt.Valid {
		t.Fatalf("unexpected delivery %+v", d)
	}
	if drivers.drivers[5].Status != model.DriverAvailable {
		t.Fatalf("driver status = %s", drivers.drivers[5].Status)
	}
	if drivers.completed[5] != 1 {
		t.Fatalf("completed = %d", drivers.completed[5])
	}
}

func TestAdvanceRejectsForeignDriver(t *testing.T) {
	svc, _, drivers := newFixture()
	other := &model.Driver{UserID: 21, CompanyID: 1, Status: model.DriverAvailable}
	other.ID = 6
	drivers.drivers[6] = other
	if err := svc.Assign(10, 100, 5); err != nil {
		t.Fatalf("assign: %v", err)
	}

	if err := svc.Accept(21, 100); errorx.GetCode(err) != errorx.CodeForbidden {
		t.Fatalf("want forbidden, got %v", err)
	}
}

func TestAvailableForDriverFiltersAssigned(t *testing.T) {
	svc, deliveries, _ := newFixture()
	if err := svc.Assign(10, 100, 5); err != nil {
		t.Fatalf("assign: %v", err)
	}
	done := &model.Delivery{ClientID: 30, CompanyID: 1, Status: model.DeliveryDelivered,
		DriverID: sql.NullInt64{Int64: 5, Valid: true}}
	done.ID = 101
	deliveries.deliveries[101] = done

	out, err := svc.AvailableForDriver(20)
	if err != nil {
		t.Fatalf("available: %v", err)
	}
	if len(out) != 1 || out[0].ID != 100 {
		t.Fatalf("unexpected assignments %+v", out)
	}
}

func TestNormalizePaging(t *testing.T) {
	cases := []struct {
		page, size, wantPage, wantSize int
	}{
		{0, 0, 1, 10},
		{-3, 500, 1, 10},
		{2, 25, 2, 25},
	}
	for _, c := range cases {
		p, s := normalizePaging(c.page, c.size)
		if p != c.wantPage || s != c.wantSize {
			t.Fatalf("normalizePaging(%d,%d) = %d,%d", c.page, c.size, p, s)
		}
	}
}
