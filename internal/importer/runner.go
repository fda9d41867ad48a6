package importer

import (
	"context"

	"patrimonio/internal/models"
)

// Run executes an import on its own goroutine so the caller is never
// blocked, and delivers the ImportResult exactly once on the returned
// channel. Progress and status callbacks configured on the Importer are
// invoked from the worker goroutine, one progress event per processed
// row, strictly monotonic. Cancelling ctx stops the run between rows;
// a row already being written always completes.
func Run(ctx context.Context, imp *Importer, rows []models.ImportRow) <-chan models.ImportResult {
	done := make(chan models.ImportResult, 1)
	go func() {
		done <- imp.Import(ctx, rows)
		close(done)
	}()
	return done
}
