package services

import (
	"stockcontrol/internal/repositories"

	"github.com/shopspring/decimal"
)

// StockRow is one line of the stock table.
type StockRow struct {
	ID          uint
	Name        string
	Description string
	Quantity    int
	UnitPrice   decimal.Decimal
}

// StockShare is one slice of the stock distribution chart.
type StockShare struct {
	Name     string
	Quantity int
	Percent  float64
}

// ReportService builds read-only views over the catalog.
type ReportService struct {
	productRepo repositories.ProductRepository
}

// NewReportService creates a new ReportService.
func NewReportService(productRepo repositories.ProductRepository) *ReportService {
	return &ReportService{productRepo: productRepo}
}

// StockTable lists every product in identifier order.
func (s *ReportService) StockTable() ([]StockRow, error) {
	products, err := s.productRepo.GetAll()
	if err != nil {
		return nil, err
	}
	rows := make([]StockRow, 0, len(products))
	for _, p := range products {
		rows = append(rows, StockRow{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			Quantity:    p.StockQuantity,
			UnitPrice:   p.UnitPrice,
		})
	}
	return rows, nil
}

// StockDistribution maps product names to stock quantity. Products sharing a
// name are summed.
func (s *ReportService) StockDistribution() (map[string]int, error) {
	shares, err := s.StockShares()
	if err != nil {
		return nil, err
	}
	dist := make(map[string]int, len(shares))
	for _, sh := range shares {
		dist[sh.Name] = sh.Quantity
	}
	return dist, nil
}

// StockShares returns the distribution as ordered slices with percentages.
// Names keep the order in which they first appear in the catalog.
func (s *ReportService) StockShares() ([]StockShare, error) {
	products, err := s.productRepo.GetAll()
	if err != nil {
		return nil, err
	}

	index := make(map[string]int)
	var shares []StockShare
	total := 0
	for _, p := range products {
		total += p.StockQuantity
		if i, ok := index[p.Name]; ok {
			shares[i].Quantity += p.StockQuantity
			continue
		}
		index[p.Name] = len(shares)
		shares = append(shares, StockShare{Name: p.Name, Quantity: p.StockQuantity})
	}

	if total > 0 {
		for i := range shares {
			shares[i].Percent = float64(shares[i].Quantity) * 100 / float64(total)
		}
	}
	return shares, nil
}
