package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestComputeDepreciationStraightLine(t *testing.T) {
	value := decimal.RequireFromString("1200")
	acquired := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	asOf := acquired.AddDate(2, 0, 0)

	accumulated, current, months := ComputeDepreciation(value, acquired, asOf, 0.10)
	// Two years at 10%/year of 1200 is ~240 (leap-day drift under 1).
	if accumulated.LessThan(decimal.RequireFromString("239")) || accumulated.GreaterThan(decimal.RequireFromString("241")) {
		t.Fatalf("expected roughly 240 accumulated, got %s", accumulated)
	}
	if !accumulated.Add(current).Equal(value) {
		t.Fatalf("expected accumulated+current to equal purchase value, got %s + %s", accumulated, current)
	}
	if months < 23 || months > 24 {
		t.Fatalf("expected about 24 months, got %d", months)
	}
}

func TestComputeDepreciationNeverExceedsValue(t *testing.T) {
	value := decimal.RequireFromString("500")
	acquired := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	asOf := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	accumulated, current, _ := ComputeDepreciation(value, acquired, asOf, 0.10)
	if !accumulated.Equal(value) {
		t.Fatalf("expected fully depreciated asset, got %s", accumulated)
	}
	if !current.IsZero() {
		t.Fatalf("expected zero current value, got %s", current)
	}
}

func TestComputeDepreciationFutureAcquisition(t *testing.T) {
	value := decimal.RequireFromString("100")
	asOf := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	accumulated, current, months := ComputeDepreciation(value, asOf.AddDate(1, 0, 0), asOf, 0.10)
	if !accumulated.IsZero() || !current.Equal(value) || months != 0 {
		t.Fatalf("expected untouched value for future acquisition, got %s / %s / %d", accumulated, current, months)
	}
}

func TestComputeDepreciationDefaultsRate(t *testing.T) {
	value := decimal.RequireFromString("1000")
	acquired := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	asOf := acquired.AddDate(1, 0, 0)

	withDefault, _, _ := ComputeDepreciation(value, acquired, asOf, 0)
	withExplicit, _, _ := ComputeDepreciation(value, acquired, asOf, DefaultDepreciationRate)
	if !withDefault.Equal(withExplicit) {
		t.Fatalf("expected zero rate to fall back to the default, got %s vs %s", withDefault, withExplicit)
	}
}
