package respond

import "w9ayt_delivery_server/internal/dao/mysql/repository"

// StatisticsRespond backs the company dashboard statistics screen.
// Field names mirror what the dashboard charts bind to.
type StatisticsRespond struct {
	CommandesTotales  int64 `json:"commandesTotales"`
	CommandesLivrees  int64 `json:"commandesLivrees"`
	CommandesAnnulees int64 `json:"commandesAnnulees"`
	LivreursActifs    int64 `json:"livreursActifs"`

	// Month-over-month changes, preformatted with sign and percent.
	PercentageChangeTotales  string `json:"percentageChangeTotales"`
	PercentageChangeLivrees  string `json:"percentageChangeLivrees"`
	PercentageChangeAnnulees string `json:"percentageChangeAnnulees"`
	PercentageChangeLivreurs string `json:"percentageChangeLivreurs"`

	MonthlyData        []repository.MonthlyCount `json:"monthlyData"`
	StatusDistribution []repository.StatusCount  `json:"statusDistribution"`
}

// PerformanceRespond backs the performance panel.
type PerformanceRespond struct {
	LivraisonsMoyennes string `json:"livraisonsMoyennes"`
	TempsMoyen         string `json:"tempsMoyen"`
	TauxSatisfaction   string `json:"tauxSatisfaction"`
	RevenusTotaux      string `json:"revenusTotaux"`
	ZonesActives       string `json:"zonesActives"`
}

// AdminStatisticsRespond backs the admin dashboard counters.
type AdminStatisticsRespond struct {
	TotalClients     int64 `json:"totalClients"`
	TotalDrivers     int64 `json:"totalDrivers"`
	TotalCompanies   int64 `json:"totalCompanies"`
	PendingCompanies int64 `json:"pendingCompanies"`
}
