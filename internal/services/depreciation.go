package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultDepreciationRate is the straight-line annual rate applied when
// a category carries no rate of its own (10 year useful life).
const DefaultDepreciationRate = 0.10

// DepreciationLine is one asset's position in the depreciation report.
type DepreciationLine struct {
	AssetID           int64           `json:"id_patrimonio"`
	AssetName         string          `json:"nome"`
	CategoryName      string          `json:"categoria"`
	AcquisitionDate   time.Time       `json:"data_aquisicao"`
	PurchaseValue     decimal.Decimal `json:"valor_compra"`
	AnnualRate        float64         `json:"taxa_anual"`
	Accumulated       decimal.Decimal `json:"depreciacao_acumulada"`
	CurrentValue      decimal.Decimal `json:"valor_atual"`
	MonthsDepreciated int             `json:"meses_depreciados"`
}

// ComputeDepreciation applies straight-line depreciation to a purchase
// value from its acquisition date until asOf. Accumulated depreciation
// never exceeds the purchase value; assets acquired after asOf have not
// depreciated at all.
func ComputeDepreciation(value decimal.Decimal, acquired, asOf time.Time, annualRate float64) (accumulated, current decimal.Decimal, months int) {
	if annualRate <= 0 {
		annualRate = DefaultDepreciationRate
	}
	if !acquired.Before(asOf) {
		return decimal.Zero, value, 0
	}
	days := asOf.Sub(acquired).Hours() / 24
	years := days / 365.25
	months = int(years * 12)

	accumulated = value.Mul(decimal.NewFromFloat(annualRate * years))
	if accumulated.GreaterThan(value) {
		accumulated = value
	}
	accumulated = accumulated.Round(2)
	current = value.Sub(accumulated)
	return accumulated, current, months
}

// DepreciationService builds the depreciation report from the current
// asset registry and each category's annual rate.
type DepreciationService struct {
	DB *sql.DB
}

func NewDepreciationService(db *sql.DB) *DepreciationService {
	return &DepreciationService{DB: db}
}

// Report lists every asset with its accumulated and current value as of
// now, optionally filtered by category and status.
func (s *DepreciationService) Report(ctx context.Context, categoryID int64, status string) ([]DepreciationLine, error) {
	where := []string{"1=1"}
	args := []interface{}{}
	pos := 1
	if categoryID > 0 {
		where = append(where, fmt.Sprintf("p.id_categoria = $%d", pos))
		args = append(args, categoryID)
		pos++
	}
	if status != "" {
		where = append(where, fmt.Sprintf("p.status = $%d", pos))
		args = append(args, status)
		pos++
	}
	query := fmt.Sprintf(`
		SELECT p.id_patrimonio, p.nome, c.nome_categoria, p.data_aquisicao, p.valor_compra,
			COALESCE(c.taxa_depreciacao, 0)
		FROM patrimonios p
		INNER JOIN categorias c ON c.id_categoria = p.id_categoria
		WHERE %s
		ORDER BY p.nome
	`, strings.Join(where, " AND "))

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	now := time.Now()
	var out []DepreciationLine
	for rows.Next() {
		var line DepreciationLine
		if err := rows.Scan(&line.AssetID, &line.AssetName, &line.CategoryName,
			&line.AcquisitionDate, &line.PurchaseValue, &line.AnnualRate); err != nil {
			return nil, err
		}
		if line.AnnualRate <= 0 {
			line.AnnualRate = DefaultDepreciationRate
		}
		line.Accumulated, line.CurrentValue, line.MonthsDepreciated =
			ComputeDepreciation(line.PurchaseValue, line.AcquisitionDate, now, line.AnnualRate)
		out = append(out, line)
	}
	return out, rows.Err()
}
