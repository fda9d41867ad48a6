package importer

import (
	"context"
	"fmt"
	"strings"

	"patrimonio/internal/models"
)

// Store is the repository surface the pipeline needs: bulk reads to
// prime the entity cache, entity inserts returning the new identifier,
// and the asset insert itself. Inserts are auto-commit; the pipeline
// never opens multi-statement transactions.
type Store interface {
	ListSuppliers(ctx context.Context) ([]models.Supplier, error)
	ListSectors(ctx context.Context) ([]models.Sector, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
	CreateSupplier(ctx context.Context, supplier models.Supplier) (int64, error)
	CreateSector(ctx context.Context, name string) (int64, error)
	CreateCategory(ctx context.Context, name string) (int64, error)
	CreateAsset(ctx context.Context, asset models.Asset) (int64, error)
}

const cnpjKeyPrefix = "cnpj:"

// entityCache maps entity references to identifiers for the duration of
// one import run. Suppliers are reachable by lowercased name and, when
// known, by CNPJ; sectors and categories by lowercased name only. The
// cache is what keeps repeated references from creating duplicate rows.
type entityCache struct {
	suppliers  map[string]int64
	sectors    map[string]int64
	categories map[string]int64
}

// resolver looks up or lazily creates the entities an import row
// references. It is owned by a single run and must not be shared.
type resolver struct {
	store Store
	cache entityCache
}

func newResolver(store Store) *resolver {
	return &resolver{
		store: store,
		cache: entityCache{
			suppliers:  make(map[string]int64),
			sectors:    make(map[string]int64),
			categories: make(map[string]int64),
		},
	}
}

// prime loads the store's current suppliers, sectors and categories so
// that resolution starts from what already exists.
func (r *resolver) prime(ctx context.Context) error {
	suppliers, err := r.store.ListSuppliers(ctx)
	if err != nil {
		return fmt.Errorf("load suppliers: %w", err)
	}
	for _, s := range suppliers {
		r.cache.suppliers[nameKey(s.Name)] = s.ID
		if s.CNPJ != nil && *s.CNPJ != "" {
			r.cache.suppliers[cnpjKeyPrefix+strings.TrimSpace(*s.CNPJ)] = s.ID
		}
	}
	sectors, err := r.store.ListSectors(ctx)
	if err != nil {
		return fmt.Errorf("load sectors: %w", err)
	}
	for _, s := range sectors {
		r.cache.sectors[nameKey(s.Name)] = s.ID
	}
	categories, err := r.store.ListCategories(ctx)
	if err != nil {
		return fmt.Errorf("load categories: %w", err)
	}
	for _, c := range categories {
		r.cache.categories[nameKey(c.Name)] = c.ID
	}
	return nil
}

// ensureSupplier returns the identifier for the row's supplier, creating
// it with every optional field available when neither the name nor the
// CNPJ is known yet. The created flag is false on cache hits.
func (r *resolver) ensureSupplier(ctx context.Context, row models.ImportRow) (int64, bool, error) {
	key := nameKey(row.SupplierName)
	if id, ok := r.cache.suppliers[key]; ok {
		return id, false, nil
	}
	if row.SupplierCNPJ != nil {
		if id, ok := r.cache.suppliers[cnpjKeyPrefix+*row.SupplierCNPJ]; ok {
			return id, false, nil
		}
	}

	id, err := r.store.CreateSupplier(ctx, models.Supplier{
		Name:              row.SupplierName,
		CNPJ:              row.SupplierCNPJ,
		Phone:             row.SupplierPhone,
		Email:             row.SupplierEmail,
		StateRegistration: row.SupplierStateRegistration,
		Contact:           row.SupplierContact,
		Notes:             row.SupplierNotes,
	})
	if err != nil {
		return 0, false, fmt.Errorf("create supplier %q: %w", row.SupplierName, err)
	}
	r.cache.suppliers[key] = id
	if row.SupplierCNPJ != nil {
		r.cache.suppliers[cnpjKeyPrefix+*row.SupplierCNPJ] = id
	}
	return id, true, nil
}

func (r *resolver) ensureSector(ctx context.Context, name string) (int64, bool, error) {
	key := nameKey(name)
	if id, ok := r.cache.sectors[key]; ok {
		return id, false, nil
	}
	id, err := r.store.CreateSector(ctx, name)
	if err != nil {
		return 0, false, fmt.Errorf("create sector %q: %w", name, err)
	}
	r.cache.sectors[key] = id
	return id, true, nil
}

func (r *resolver) ensureCategory(ctx context.Context, name string) (int64, bool, error) {
	key := nameKey(name)
	if id, ok := r.cache.categories[key]; ok {
		return id, false, nil
	}
	id, err := r.store.CreateCategory(ctx, name)
	if err != nil {
		return 0, false, fmt.Errorf("create category %q: %w", name, err)
	}
	r.cache.categories[key] = id
	return id, true, nil
}

func nameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
