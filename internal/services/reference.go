package services

import (
	"context"
	"database/sql"

	"patrimonio/internal/models"
)

// ReferenceService lists and creates the lookup entities assets point
// at: sectors/locations and categories.
type ReferenceService struct {
	DB    *sql.DB
	Store *AssetStore
}

func NewReferenceService(db *sql.DB) *ReferenceService {
	return &ReferenceService{DB: db, Store: NewAssetStore(db)}
}

func (s *ReferenceService) ListSectors(ctx context.Context) ([]models.Sector, error) {
	return s.Store.ListSectors(ctx)
}

func (s *ReferenceService) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.Store.ListCategories(ctx)
}

// EnsureSector returns the identifier of an existing sector with the
// given name, creating it when absent.
func (s *ReferenceService) EnsureSector(ctx context.Context, name string) (int64, error) {
	var id int64
	err := s.DB.QueryRowContext(ctx,
		`SELECT id_setor_local FROM setores_locais WHERE LOWER(nome_setor_local) = LOWER($1)`, name,
	).Scan(&id)
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return 0, err
	}
	return s.Store.CreateSector(ctx, name)
}

// EnsureCategory returns the identifier of an existing category with
// the given name, creating it when absent.
func (s *ReferenceService) EnsureCategory(ctx context.Context, name string) (int64, error) {
	var id int64
	err := s.DB.QueryRowContext(ctx,
		`SELECT id_categoria FROM categorias WHERE LOWER(nome_categoria) = LOWER($1)`, name,
	).Scan(&id)
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return 0, err
	}
	return s.Store.CreateCategory(ctx, name)
}

// SetCategoryRate updates the annual depreciation rate of a category.
func (s *ReferenceService) SetCategoryRate(ctx context.Context, id int64, rate float64) error {
	_, err := s.DB.ExecContext(ctx,
		`UPDATE categorias SET taxa_depreciacao = $1 WHERE id_categoria = $2`, rate, id)
	return err
}
