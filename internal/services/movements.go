package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"patrimonio/internal/models"
)

// MovementFilter narrows movement history listings.
type MovementFilter struct {
	AssetID int64
	From    time.Time
	To      time.Time
	Limit   int
}

// MovementService records asset relocations and serves their history.
// Registering a movement also points the asset at its new sector, so
// the ledger and the history never disagree.
type MovementService struct {
	DB *sql.DB
}

func NewMovementService(db *sql.DB) *MovementService {
	return &MovementService{DB: db}
}

func (s *MovementService) List(ctx context.Context, filter MovementFilter) ([]models.Movement, error) {
	where := []string{"1=1"}
	args := []interface{}{}
	pos := 1
	if filter.AssetID > 0 {
		where = append(where, fmt.Sprintf("m.id_patrimonio = $%d", pos))
		args = append(args, filter.AssetID)
		pos++
	}
	if !filter.From.IsZero() {
		where = append(where, fmt.Sprintf("m.data_movimentacao >= $%d", pos))
		args = append(args, filter.From)
		pos++
	}
	if !filter.To.IsZero() {
		where = append(where, fmt.Sprintf("m.data_movimentacao <= $%d", pos))
		args = append(args, filter.To)
		pos++
	}
	limit := filter.Limit
	if limit <= 0 || limit > 500 {
		limit = 200
	}
	query := fmt.Sprintf(`
		SELECT m.id_movimentacao, m.id_patrimonio, p.nome, m.id_usuario, COALESCE(u.nome, ''),
			m.data_movimentacao, m.tipo_movimentacao, m.origem, m.destino, m.responsavel, m.observacoes
		FROM movimentacoes m
		JOIN patrimonios p ON p.id_patrimonio = m.id_patrimonio
		LEFT JOIN usuarios u ON u.id_usuario = m.id_usuario
		WHERE %s
		ORDER BY m.data_movimentacao DESC, m.id_movimentacao DESC
		LIMIT $%d`, strings.Join(where, " AND "), pos)
	args = append(args, limit)

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []models.Movement
	for rows.Next() {
		var movement models.Movement
		var userID sql.NullInt64
		var kind string
		var responsible, notes sql.NullString
		err := rows.Scan(
			&movement.ID, &movement.AssetID, &movement.AssetName, &userID, &movement.UserName,
			&movement.When, &kind, &movement.Origin, &movement.Destination, &responsible, &notes,
		)
		if err != nil {
			return nil, err
		}
		movement.UserID = userID.Int64
		movement.Type = models.MovementType(kind)
		movement.Responsible = nullable(responsible)
		movement.Notes = nullable(notes)
		out = append(out, movement)
	}
	return out, rows.Err()
}

// Register appends the movement to the history and moves the asset to
// the destination sector in one transaction. Origin and destination are
// resolved to sector names before the asset is updated.
func (s *MovementService) Register(ctx context.Context, movement models.Movement, destinationSectorID int64) (int64, error) {
	var origin string
	err := s.DB.QueryRowContext(ctx, `
		SELECT COALESCE(sl.nome_setor_local, '-')
		FROM patrimonios p
		LEFT JOIN setores_locais sl ON sl.id_setor_local = p.id_setor_local
		WHERE p.id_patrimonio = $1`, movement.AssetID).Scan(&origin)
	if err == sql.ErrNoRows {
		return 0, models.ErrAssetNotFound
	}
	if err != nil {
		return 0, err
	}

	var destination string
	err = s.DB.QueryRowContext(ctx,
		`SELECT nome_setor_local FROM setores_locais WHERE id_setor_local = $1`,
		destinationSectorID).Scan(&destination)
	if err == sql.ErrNoRows {
		return 0, models.ErrSectorNotFound
	}
	if err != nil {
		return 0, err
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	var id int64
	err = tx.QueryRowContext(ctx, `
		INSERT INTO movimentacoes (id_patrimonio, id_usuario, data_movimentacao, tipo_movimentacao,
			origem, destino, responsavel, observacoes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id_movimentacao
	`, movement.AssetID, nullableID(movement.UserID), movement.When, string(movement.Type),
		origin, destination, movement.Responsible, movement.Notes).Scan(&id)
	if err != nil {
		tx.Rollback()
		return 0, err
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE patrimonios SET id_setor_local = $1 WHERE id_patrimonio = $2`,
		destinationSectorID, movement.AssetID); err != nil {
		tx.Rollback()
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

func nullableID(id int64) interface{} {
	if id <= 0 {
		return nil
	}
	return id
}
