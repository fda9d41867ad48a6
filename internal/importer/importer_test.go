package importer

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"patrimonio/internal/models"
)

// memStore is an in-memory Store used by pipeline tests.
type memStore struct {
	suppliers  []models.Supplier
	sectors    []models.Sector
	categories []models.Category
	assets     []models.Asset
	nextID     int64

	supplierWrites int
	sectorWrites   int
	categoryWrites int

	failCategory map[string]error
}

func newMemStore() *memStore {
	return &memStore{failCategory: make(map[string]error)}
}

func (m *memStore) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *memStore) ListSuppliers(context.Context) ([]models.Supplier, error) {
	return append([]models.Supplier{}, m.suppliers...), nil
}

func (m *memStore) ListSectors(context.Context) ([]models.Sector, error) {
	return append([]models.Sector{}, m.sectors...), nil
}

func (m *memStore) ListCategories(context.Context) ([]models.Category, error) {
	return append([]models.Category{}, m.categories...), nil
}

func (m *memStore) CreateSupplier(_ context.Context, supplier models.Supplier) (int64, error) {
	supplier.ID = m.id()
	m.suppliers = append(m.suppliers, supplier)
	m.supplierWrites++
	return supplier.ID, nil
}

func (m *memStore) CreateSector(_ context.Context, name string) (int64, error) {
	sector := models.Sector{ID: m.id(), Name: name}
	m.sectors = append(m.sectors, sector)
	m.sectorWrites++
	return sector.ID, nil
}

func (m *memStore) CreateCategory(_ context.Context, name string) (int64, error) {
	if err, ok := m.failCategory[name]; ok {
		return 0, err
	}
	category := models.Category{ID: m.id(), Name: name}
	m.categories = append(m.categories, category)
	m.categoryWrites++
	return category.ID, nil
}

func (m *memStore) CreateAsset(_ context.Context, asset models.Asset) (int64, error) {
	asset.ID = m.id()
	m.assets = append(m.assets, asset)
	return asset.ID, nil
}

func importRow(line int, name, supplier, sector, category string) models.ImportRow {
	return models.ImportRow{
		Line:            line,
		Name:            name,
		AcquisitionDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		PurchaseValue:   decimal.RequireFromString("3500.00"),
		Quantity:        1,
		Condition:       models.ConditionGood,
		Category:        category,
		SupplierName:    supplier,
		SectorLocation:  sector,
		Status:          models.StatusActive,
	}
}

func TestImportCreatesEachEntityAtMostOnce(t *testing.T) {
	store := newMemStore()
	imp := New(store, nil)

	rows := []models.ImportRow{
		importRow(2, "Laptop", "Acme", "HQ", "IT"),
		importRow(3, "Monitor", "ACME", "HQ", "IT"),
		importRow(4, "Dock", "acme ", "HQ", "IT"),
	}
	result := imp.Import(context.Background(), rows)

	if !result.Success || result.Imported != 3 {
		t.Fatalf("expected 3 imported rows, got %+v", result)
	}
	if result.SuppliersCreated != 1 || store.supplierWrites != 1 {
		t.Fatalf("expected exactly one supplier creation, got %d (writes %d)", result.SuppliersCreated, store.supplierWrites)
	}
	if result.SectorsCreated != 1 || result.CategoriesCreated != 1 {
		t.Fatalf("expected one sector and one category, got %+v", result)
	}
	if len(store.assets) != 3 {
		t.Fatalf("expected 3 assets written, got %d", len(store.assets))
	}
}

func TestResolverIsIdempotentWithinARun(t *testing.T) {
	cnpj := "11222333000181"
	store := newMemStore()
	store.suppliers = []models.Supplier{{ID: 7, Name: "Acme", CNPJ: &cnpj}}

	res := newResolver(store)
	if err := res.prime(context.Background()); err != nil {
		t.Fatalf("prime: %v", err)
	}

	row := importRow(2, "Laptop", "Distribuidora Nova", "HQ", "IT")
	row.SupplierCNPJ = &cnpj

	// Unknown name but known CNPJ resolves to the existing supplier.
	id, created, err := res.ensureSupplier(context.Background(), row)
	if err != nil {
		t.Fatalf("resolve by cnpj: %v", err)
	}
	if created || id != 7 {
		t.Fatalf("expected cache hit on cnpj, got id=%d created=%v", id, created)
	}

	again, created, err := res.ensureSupplier(context.Background(), row)
	if err != nil {
		t.Fatalf("second resolve: %v", err)
	}
	if created || again != id {
		t.Fatalf("expected identical identifier on repeat resolution, got %d then %d", id, again)
	}
	if store.supplierWrites != 0 {
		t.Fatalf("expected no store writes for cache hits, got %d", store.supplierWrites)
	}
}

func TestImportPartialFailureIsolation(t *testing.T) {
	store := newMemStore()
	store.failCategory["Furniture"] = fmt.Errorf("connection reset")
	imp := New(store, nil)

	rows := []models.ImportRow{
		importRow(2, "Laptop", "Acme", "HQ", "IT"),
		importRow(3, "Chair", "Acme", "HQ", "Furniture"),
		importRow(4, "Monitor", "Acme", "HQ", "IT"),
	}
	result := imp.Import(context.Background(), rows)

	if result.Success {
		t.Fatalf("expected partial failure")
	}
	if result.Imported != 2 {
		t.Fatalf("expected 2 imported rows, got %d", result.Imported)
	}
	if len(result.Errors) != 1 || !strings.Contains(result.Errors[0], "Line 3") {
		t.Fatalf("expected one error mentioning line 3, got %v", result.Errors)
	}
	if len(store.assets) != 2 {
		t.Fatalf("expected the two good rows to be written, got %d", len(store.assets))
	}
	// The failing row still created its supplier and sector before the
	// category insert failed; counters reflect what actually happened.
	if result.SuppliersCreated != 1 || result.SectorsCreated != 1 || result.CategoriesCreated != 1 {
		t.Fatalf("unexpected created counters: %+v", result)
	}
}

func TestImportEndToEndFromCSV(t *testing.T) {
	content := "name,acquisition_date,purchase_value,category,supplier_name,sector_location,status\n" +
		"Laptop,01/01/2024,3500.00,IT,Acme,HQ,active\n" +
		"Laptop2,02/01/2024,1000,IT,Acme,HQ,active\n" +
		"BadRow,not-a-date,10,IT,Acme,HQ,active\n"
	path := writeTempFile(t, "assets.csv", content)

	raw, err := ReadSpreadsheet(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	store := newMemStore()
	imp := New(store, nil)

	valid, errs := imp.Validate(raw)
	if len(valid) != 2 {
		t.Fatalf("expected 2 valid rows, got %d", len(valid))
	}
	if len(errs) != 1 || errs[0] != "Line 4: invalid acquisition date" {
		t.Fatalf("unexpected validation errors: %v", errs)
	}

	result := imp.Import(context.Background(), valid)
	if result.Imported != 2 {
		t.Fatalf("expected 2 imported, got %d", result.Imported)
	}
	if result.SuppliersCreated != 1 || result.CategoriesCreated != 1 {
		t.Fatalf("expected Acme and IT created once, got %+v", result)
	}
}

func TestImportStopsBetweenRowsWhenCancelled(t *testing.T) {
	store := newMemStore()
	imp := New(store, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rows := []models.ImportRow{
		importRow(2, "Laptop", "Acme", "HQ", "IT"),
		importRow(3, "Monitor", "Acme", "HQ", "IT"),
	}
	result := imp.Import(ctx, rows)

	if result.Success || result.Imported != 0 {
		t.Fatalf("expected no rows imported after cancellation, got %+v", result)
	}
	if len(result.Errors) != 1 || !strings.Contains(result.Errors[0], "aborted") {
		t.Fatalf("expected a single abort error, got %v", result.Errors)
	}
	if len(store.assets) != 0 {
		t.Fatalf("expected no writes, got %d", len(store.assets))
	}
}

func TestRunEmitsMonotonicProgressAndOneCompletion(t *testing.T) {
	store := newMemStore()
	imp := New(store, nil)

	var progress [][2]int
	imp.Progress = func(done, total int) {
		progress = append(progress, [2]int{done, total})
	}
	var statuses []string
	imp.Status = func(message string) { statuses = append(statuses, message) }

	rows := []models.ImportRow{
		importRow(2, "Laptop", "Acme", "HQ", "IT"),
		importRow(3, "Monitor", "Acme", "HQ", "IT"),
	}
	done := Run(context.Background(), imp, rows)

	result, ok := <-done
	if !ok {
		t.Fatalf("expected a result on the completion channel")
	}
	if result.Imported != 2 {
		t.Fatalf("expected 2 imported rows, got %+v", result)
	}
	if _, open := <-done; open {
		t.Fatalf("expected completion channel to close after one result")
	}

	if len(progress) != 2 {
		t.Fatalf("expected one progress event per row, got %v", progress)
	}
	for i, p := range progress {
		if p[0] != i+1 || p[1] != 2 {
			t.Fatalf("expected monotonic progress, got %v", progress)
		}
	}
	if len(statuses) != 2 || !strings.Contains(statuses[0], "row 1 of 2") {
		t.Fatalf("unexpected status messages: %v", statuses)
	}
}
