package importer

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"patrimonio/internal/models"
)

// Importer drives one import run: resolve entities for each validated
// row, write the asset, accumulate counters and per-row errors. Rows are
// processed strictly in file order, one at a time; a failing row is
// reported and skipped, never aborting the run.
type Importer struct {
	store Store
	log   *zap.SugaredLogger

	// Progress, when set, receives (completed, total) after every row.
	Progress func(done, total int)
	// Status, when set, receives a short human-readable phase message.
	Status func(message string)
}

func New(store Store, log *zap.SugaredLogger) *Importer {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Importer{store: store, log: log}
}

// Validate converts raw rows into typed rows plus the full list of
// validation errors. It never touches the store.
func (imp *Importer) Validate(rows []RawRow) ([]models.ImportRow, []string) {
	return ValidateRows(rows)
}

// Import writes the validated rows to the store. Entity creation is
// auto-commit and is not rolled back when a later step of the same row
// fails; re-running finds those entities through the cache instead of
// duplicating them.
func (imp *Importer) Import(ctx context.Context, rows []models.ImportRow) models.ImportResult {
	result := models.ImportResult{TotalRows: len(rows)}

	res := newResolver(imp.store)
	if err := res.prime(ctx); err != nil {
		imp.log.Errorw("priming entity cache failed, resolving against an empty cache", "error", err)
	}

	total := len(rows)
	for i, row := range rows {
		// A running row is never interrupted; cancellation only takes
		// effect between rows.
		if err := ctx.Err(); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("import aborted before line %d: %s", row.Line, err))
			break
		}
		imp.emitStatus(fmt.Sprintf("Importing row %d of %d...", i+1, total))

		if err := imp.importRow(ctx, res, row, &result); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Line %d: %s", row.Line, err))
		} else {
			result.Imported++
		}
		imp.emitProgress(i+1, total)
	}

	result.Success = len(result.Errors) == 0
	imp.log.Infow("import run finished",
		"total", result.TotalRows,
		"imported", result.Imported,
		"errors", len(result.Errors),
		"suppliers_created", result.SuppliersCreated,
		"sectors_created", result.SectorsCreated,
		"categories_created", result.CategoriesCreated,
	)
	return result
}

// importRow resolves supplier, sector and category in that order, then
// writes the asset. The order keeps partially applied creations easy to
// reason about when a later step fails.
func (imp *Importer) importRow(ctx context.Context, res *resolver, row models.ImportRow, result *models.ImportResult) error {
	supplierID, created, err := res.ensureSupplier(ctx, row)
	if err != nil {
		return err
	}
	if created {
		result.SuppliersCreated++
	}

	sectorID, created, err := res.ensureSector(ctx, row.SectorLocation)
	if err != nil {
		return err
	}
	if created {
		result.SectorsCreated++
	}

	categoryID, created, err := res.ensureCategory(ctx, row.Category)
	if err != nil {
		return err
	}
	if created {
		result.CategoriesCreated++
	}

	_, err = imp.store.CreateAsset(ctx, models.Asset{
		Name:            row.Name,
		Description:     row.Description,
		SerialNumber:    row.SerialNumber,
		AcquisitionDate: row.AcquisitionDate,
		PurchaseValue:   row.PurchaseValue,
		Quantity:        row.Quantity,
		InvoiceNumber:   row.InvoiceNumber,
		Condition:       row.Condition,
		CategoryID:      categoryID,
		SupplierID:      supplierID,
		SectorID:        sectorID,
		Status:          row.Status,
	})
	if err != nil {
		return fmt.Errorf("create asset: %w", err)
	}
	return nil
}

func (imp *Importer) emitProgress(done, total int) {
	if imp.Progress != nil {
		imp.Progress(done, total)
	}
}

func (imp *Importer) emitStatus(message string) {
	if imp.Status != nil {
		imp.Status(message)
	}
}
