package statistics

import (
	"database/sql"
	"testing"
	"time"

	"w9ayt_delivery_server/internal/dao/mysql/repository"
	"w9ayt_delivery_server/internal/model"
	"w9ayt_delivery_server/pkg/errorx"
)

func TestFormatChange(t *testing.T) {
	cases := []struct {
		current, previous int64
		want              string
	}{
		{10, 5, "+100%"},
		{5, 10, "-50%"},
		{10, 10, "+0%"},
		{3, 0, "+100%"},
		{0, 0, "0%"},
		{0, 4, "-100%"},
	}
	for _, c := range cases {
		if got := formatChange(c.current, c.previous); got != c.want {
			t.Fatalf("formatChange(%d, %d) = %q, want %q", c.current, c.previous, got, c.want)
		}
	}
}

type statsCompanyRepo struct{}

func (statsCompanyRepo) FindByID(uint) (*model.Company, error) { return nil, errorx.ErrNotFound }

func (statsCompanyRepo) FindByUserID(userID uint) (*model.Company, error) {
	if userID != 10 {
		return nil, errorx.ErrNotFound
	}
	c := &model.Company{UserID: 10, Name: "Rapide", Validation: model.CompanyApproved}
	c.ID = 1
	return c, nil
}

func (statsCompanyRepo) FindAll(string) ([]model.Company, error) { return nil, nil }
func (statsCompanyRepo) Create(*model.Company) error { return nil }
func (statsCompanyRepo) Update(*model.Company) error { return nil }
func (statsCompanyRepo) SetValidation(uint, string) error { return nil }
func (statsCompanyRepo) Delete(uint) error { return nil }

type statsDriverRepo struct{}

func (statsDriverRepo) FindByID(uint) (*model.Driver, error) { return nil, errorx.ErrNotFound }
func (statsDriverRepo) FindByUserID(uint) (*model.Driver, error) { return nil, errorx.ErrNotFound }

func (statsDriverRepo) FindByCompany(uint) ([]model.Driver, error) {
	return []model.Driver{
		{CoverageZone: "Tunis"},
		{CoverageZone: "Ariana"},
		{CoverageZone: "Tunis"}, // duplicate zone
		{CoverageZone: ""},
	}, nil
}

func (statsDriverRepo) Create(*model.Driver) error { return nil }
func (statsDriverRepo) Update(*model.Driver) error { return nil }
func (statsDriverRepo) Delete(uint) error { return nil }
func (statsDriverRepo) SetStatus(uint, string) error { return nil }
func (statsDriverRepo) IncrementCompleted(uint) error { return nil }

func (statsDriverRepo) CountByCompanyAndStatus(_ uint, status string) (int64, error) {
	switch status {
	case model.DriverAvailable:
		return 2, nil
	case model.DriverBusy:
		return 3, nil
	}
	return 0, nil
}

type statsDeliveryRepo struct{}

func (statsDeliveryRepo) FindByID(uint) (*model.Delivery, error) { return nil, errorx.ErrNotFound }

func (statsDeliveryRepo) FindByClient(uint, repository.DeliveryFilter) ([]model.Delivery, int64, error) {
	return nil, 0, nil
}

// Two delivered orders, 2h and 4h door to door.
func (statsDeliveryRepo) FindByCompany(_ uint, f repository.DeliveryFilter) ([]model.Delivery, int64, error) {
	if f.Status != model.DeliveryDelivered {
		return nil, 0, nil
	}
	base := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	mk := func(hours int) model.Delivery {
		d := model.Delivery{Status: model.DeliveryDelivered,
			DeliveredAt: sql.NullTime{Time: base.Add(time.Duration(hours) * time.Hour), Valid: true}}
		d.CreatedAt = base
		return d
	}
	return []model.Delivery{mk(2), mk(4)}, 2, nil
}

func (statsDeliveryRepo) FindPendingByCompany(uint) ([]model.Delivery, error) { return nil, nil }

func (statsDeliveryRepo) FindByDriver(uint, repository.DeliveryFilter) ([]model.Delivery, int64, error) {
	return nil, 0, nil
}

func (statsDeliveryRepo) Create(*model.Delivery) error { return nil }
func (statsDeliveryRepo) Update(*model.Delivery) error { return nil }

func (statsDeliveryRepo) CountByCompanyStatusBetween(_ uint, status string, from, _ time.Time) (int64, error) {
	// This month doubles last month's volume for every status.
	thisMonth := monthStart(time.Now())
	if from.Equal(thisMonth) {
		return 10, nil
	}
	return 5, nil
}

func (statsDeliveryRepo) MonthlyStats(uint, time.Time) ([]repository.MonthlyCount, error) {
	return []repository.MonthlyCount{
		{Month: "2026-07", Total: 12, Delivered: 9},
		{Month: "2026-08", Total: 10, Delivered: 6},
	}, nil
}

func (statsDeliveryRepo) StatusDistribution(uint) ([]repository.StatusCount, error) {
	return []repository.StatusCount{
		{Status: model.DeliveryDelivered, Count: 60},
		{Status: model.DeliveryCancelled, Count: 20},
		{Status: model.DeliveryPending, Count: 5},
	}, nil
}

func newStatsService() *statisticsService {
	return NewStatisticsService(&repository.Repositories{
		Company:  statsCompanyRepo{},
		Driver:   statsDriverRepo{},
		Delivery: statsDeliveryRepo{},
	})
}

func TestCompanyStatistics(t *testing.T) {
	rsp, err := newStatsService().CompanyStatistics(10)
	if err != nil {
		t.Fatalf("statistics: %v", err)
	}
	if rsp.CommandesTotales != 85 || rsp.CommandesLivrees != 60 || rsp.CommandesAnnulees != 20 {
		t.Fatalf("unexpected totals %+v", rsp)
	}
	if rsp.LivreursActifs != 5 {
		t.Fatalf("active drivers = %d", rsp.LivreursActifs)
	}
	if rsp.PercentageChangeTotales != "+100%" || rsp.PercentageChangeLivreurs != "0%" {
		t.Fatalf("unexpected changes %+v", rsp)
	}
	if len(rsp.MonthlyData) != 2 || len(rsp.StatusDistribution) != 3 {
		t.Fatalf("series missing %+v", rsp)
	}
}

func TestPerformance(t *testing.T) {
	rsp, err := newStatsService().Performance(10)
	if err != nil {
		t.Fatalf("performance: %v", err)
	}
	if rsp.LivraisonsMoyennes != "7.5/mois" {
		t.Fatalf("avg per month = %q", rsp.LivraisonsMoyennes)
	}
	if rsp.TempsMoyen != "3.0h" {
		t.Fatalf("avg hours = %q", rsp.TempsMoyen)
	}
	// 60 delivered out of 80 closed orders.
	if rsp.TauxSatisfaction != "75%" {
		t.Fatalf("satisfaction = %q", rsp.TauxSatisfaction)
	}
	if rsp.RevenusTotaux != "900 TND" {
		t.Fatalf("revenue = %q", rsp.RevenusTotaux)
	}
	if rsp.ZonesActives != "2" {
		t.Fatalf("zones = %q", rsp.ZonesActives)
	}
}
