// Package statistics aggregates the dashboard numbers for company and
// admin screens.
package statistics

import (
	"fmt"
	"time"

	"w9ayt_delivery_server/internal/dao/mysql/repository"
	"w9ayt_delivery_server/internal/dto/respond"
	"w9ayt_delivery_server/internal/model"
)

// Flat delivery fee used for the revenue estimate until real pricing
// lands.
const deliveryFee = 15

type statisticsService struct {
	repos *repository.Repositories
}

// NewStatisticsService creates the statistics service.
func NewStatisticsService(repos *repository.Repositories) *statisticsService {
	return &statisticsService{repos: repos}
}

// formatChange renders a month-over-month delta as a signed percent.
func formatChange(current, previous int64) string {
	if previous == 0 {
		if current > 0 {
			return "+100%"
		}
		return "0%"
	}
	return fmt.Sprintf("%+d%%", (current-previous)*100/previous)
}

func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// CompanyStatistics builds the dashboard: lifetime counters, signed
// month-over-month changes, six months of volume and the status pie.
func (s *statisticsService) CompanyStatistics(companyUserID uint) (*respond.StatisticsRespond, error) {
	company, err := s.repos.Company.FindByUserID(companyUserID)
	if err != nil {
		return nil, err
	}

	distribution, err := s.repos.Delivery.StatusDistribution(company.ID)
	if err != nil {
		return nil, err
	}
	var total, delivered, cancelled int64
	for _, d := range distribution {
		total += d.Count
		switch d.Status {
		case model.DeliveryDelivered:
			delivered += d.Count
		case model.DeliveryCancelled:
			cancelled += d.Count
		}
	}

	activeDrivers, err := s.activeDrivers(company.ID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	thisMonth := monthStart(now)
	prevMonth := thisMonth.AddDate(0, -1, 0)
	nextMonth := thisMonth.AddDate(0, 1, 0)

	changes := map[string][2]int64{}
	for _, status := range []string{"", model.DeliveryDelivered, model.DeliveryCancelled} {
		cur, err := s.repos.Delivery.CountByCompanyStatusBetween(company.ID, status, thisMonth, nextMonth)
		if err != nil {
			return nil, err
		}
		prev, err := s.repos.Delivery.CountByCompanyStatusBetween(company.ID, status, prevMonth, thisMonth)
		if err != nil {
			return nil, err
		}
		changes[status] = [2]int64{cur, prev}
	}

	monthly, err := s.repos.Delivery.MonthlyStats(company.ID, thisMonth.AddDate(0, -5, 0))
	if err != nil {
		return nil, err
	}

	return &respond.StatisticsRespond{
		CommandesTotales:  total,
		CommandesLivrees:  delivered,
		CommandesAnnulees: cancelled,
		LivreursActifs:    activeDrivers,

		PercentageChangeTotales:  formatChange(changes[""][0], changes[""][1]),
		PercentageChangeLivrees:  formatChange(changes[model.DeliveryDelivered][0], changes[model.DeliveryDelivered][1]),
		PercentageChangeAnnulees: formatChange(changes[model.DeliveryCancelled][0], changes[model.DeliveryCancelled][1]),
		PercentageChangeLivreurs: "0%",

		MonthlyData:        monthly,
		StatusDistribution: distribution,
	}, nil
}

func (s *statisticsService) activeDrivers(companyID uint) (int64, error) {
	available, err := s.repos.Driver.CountByCompanyAndStatus(companyID, model.DriverAvailable)
	if err != nil {
		return 0, err
	}
	busy, err := s.repos.Driver.CountByCompanyAndStatus(companyID, model.DriverBusy)
	if err != nil {
		return 0, err
	}
	return available + busy, nil
}

// Performance derives the panel numbers from delivered orders and the
// driver roster. Satisfaction is approximated by the completion rate
// until ratings exist.
func (s *statisticsService) Performance(companyUserID uint) (*respond.PerformanceRespond, error) {
	company, err := s.repos.Company.FindByUserID(companyUserID)
	if err != nil {
		return nil, err
	}

	monthly, err := s.repos.Delivery.MonthlyStats(company.ID, monthStart(time.Now()).AddDate(0, -5, 0))
	if err != nil {
		return nil, err
	}
	var delivered int64
	for _, m := range monthly {
		delivered += m.Delivered
	}
	avgPerMonth := 0.0
	if len(monthly) > 0 {
		avgPerMonth = float64(delivered) / float64(len(monthly))
	}

	avgHours, err := s.averageDeliveryHours(company.ID)
	if err != nil {
		return nil, err
	}

	distribution, err := s.repos.Delivery.StatusDistribution(company.ID)
	if err != nil {
		return nil, err
	}
	var done, cancelled int64
	for _, d := range distribution {
		switch d.Status {
		case model.DeliveryDelivered:
			done += d.Count
		case model.DeliveryCancelled:
			cancelled += d.Count
		}
	}
	satisfaction := int64(100)
	if done+cancelled > 0 {
		satisfaction = done * 100 / (done + cancelled)
	}

	drivers, err := s.repos.Driver.FindByCompany(company.ID)
	if err != nil {
		return nil, err
	}
	zones := map[string]struct{}{}
	for _, d := range drivers {
		if d.CoverageZone != "" {
			zones[d.CoverageZone] = struct{}{}
		}
	}

	return &respond.PerformanceRespond{
		LivraisonsMoyennes: fmt.Sprintf("%.1f/mois", avgPerMonth),
		TempsMoyen:         fmt.Sprintf("%.1fh", avgHours),
		TauxSatisfaction:   fmt.Sprintf("%d%%", satisfaction),
		RevenusTotaux:      fmt.Sprintf("%d TND", done*deliveryFee),
		ZonesActives:       fmt.Sprintf("%d", len(zones)),
	}, nil
}

func (s *statisticsService) averageDeliveryHours(companyID uint) (float64, error) {
	// Recent delivered orders are a good enough sample for the panel.
	delivered, _, err := s.repos.Delivery.FindByCompany(companyID, repository.DeliveryFilter{
		Status:   model.DeliveryDelivered,
		Page:     1,
		PageSize: 200,
	})
	if err != nil {
		return 0, err
	}
	var sum time.Duration
	var n int
	for _, d := range delivered {
		if d.DeliveredAt.Valid {
			sum += d.DeliveredAt.Time.Sub(d.CreatedAt)
			n++
		}
	}
	if n == 0 {
		return 0, nil
	}
	return sum.Hours() / float64(n), nil
}

// AdminStatistics backs the platform-wide admin counters.
func (s *statisticsService) AdminStatistics() (*respond.AdminStatisticsRespond, error) {
	clients, err := s.repos.User.CountByRole(model.RoleClient)
	if err != nil {
		return nil, err
	}
	drivers, err := s.repos.User.CountByRole(model.RoleDriver)
	if err != nil {
		return nil, err
	}
	companies, err := s.repos.User.CountByRole(model.RoleCompany)
	if err != nil {
		return nil, err
	}
	pending, err := s.repos.Company.FindAll(model.CompanyPending)
	if err != nil {
		return nil, err
	}
	return &respond.AdminStatisticsRespond{
		TotalClients:     clients,
		TotalDrivers:     drivers,
		TotalCompanies:   companies,
		PendingCompanies: int64(len(pending)),
	}, nil
}
