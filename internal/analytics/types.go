package analytics

import (
	"time"

	"github.com/RaikyD/store-admin/internal/domain"
	"github.com/google/uuid"
)

// Data is the raw input of one aggregation run.
type Data struct {
	Orders    []domain.Order
	Products  []domain.Product
	Customers []domain.Customer
}

type DailyRevenuePoint struct {
	Date    string    `json:"date"`
	Day     time.Time `json:"day"`
	Revenue float64   `json:"revenue"`
	Orders  int       `json:"orders"`
}

type StatusPoint struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

type ProductPerformance struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Price   float64   `json:"price"`
	Sales   int       `json:"sales"`
	Revenue float64   `json:"revenue"`
}

type Summary struct {
	TotalRevenue   float64 `json:"totalRevenue"`
	TotalOrders    int     `json:"totalOrders"`
	TotalCustomers int     `json:"totalCustomers"`
	AvgOrderValue  float64 `json:"avgOrderValue"`
}

type ChartData struct {
	DailyRevenueData   []DailyRevenuePoint  `json:"dailyRevenueData"`
	StatusDistribution []StatusPoint        `json:"statusDistribution"`
	TopProducts        []ProductPerformance `json:"topProducts"`
	Summary            Summary              `json:"summary"`
}

type MonthlyRevenuePoint struct {
	Month   string  `json:"month"`
	Revenue float64 `json:"revenue"`
	Orders  int     `json:"orders"`
}

type CustomerStats struct {
	OrderCount int     `json:"orderCount"`
	TotalSpent float64 `json:"totalSpent"`
}
