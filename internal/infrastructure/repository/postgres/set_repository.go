package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/overtimehq/overtime-api/internal/domain/matchset"
	qb "github.com/overtimehq/overtime-api/internal/platform/querybuilder"
)

type SetRepository struct {
	db  *sqlx.DB
	now func() time.Time
}

func NewSetRepository(db *sqlx.DB) *SetRepository {
	return &SetRepository{db: db, now: time.Now}
}

func (r *SetRepository) GetByID(ctx context.Context, setID string) (matchset.Set, bool, error) {
	query, args, err := qb.Select("*").From("match_sets").
		Where(
			qb.Eq("public_id", setID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return matchset.Set{}, false, fmt.Errorf("build get set by id query: %w", err)
	}

	var row setTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return matchset.Set{}, false, nil
		}
		return matchset.Set{}, false, fmt.Errorf("get set by id: %w", err)
	}

	return setFromRow(row), true, nil
}

func (r *SetRepository) ListByMatch(ctx context.Context, matchID string) ([]matchset.Set, error) {
	query, args, err := qb.Select("*").From("match_sets").
		Where(
			qb.Eq("match_public_id", matchID),
			qb.IsNull("deleted_at"),
		).
		OrderBy("set_number").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list sets by match query: %w", err)
	}

	var rows []setTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list sets by match: %w", err)
	}

	out := make([]matchset.Set, 0, len(rows))
	for _, row := range rows {
		out = append(out, setFromRow(row))
	}
	return out, nil
}

func (r *SetRepository) Create(ctx context.Context, s matchset.Set) error {
	insertModel := setInsertModel{
		PublicID:  s.ID,
		MatchID:   s.MatchID,
		Number:    s.Number,
		Status:    s.Status,
		Winner:    s.Winner,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}

	query, args, err := qb.InsertModel("match_sets", insertModel, "")
	if err != nil {
		return fmt.Errorf("build insert set query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert set: %w", err)
	}
	return nil
}

func (r *SetRepository) Update(ctx context.Context, s matchset.Set) error {
	query, args, err := qb.Update("match_sets").
		Set("status", s.Status).
		Set("winner", s.Winner).
		Set("updated_at", s.UpdatedAt).
		Where(
			qb.Eq("public_id", s.ID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update set query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update set: %w", err)
	}
	return nil
}

func (r *SetRepository) Delete(ctx context.Context, setID string) error {
	query, args, err := qb.Update("match_sets").
		Set("deleted_at", r.now().UTC()).
		Where(
			qb.Eq("public_id", setID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete set query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete set: %w", err)
	}
	return nil
}
