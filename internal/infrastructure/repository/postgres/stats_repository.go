package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/overtimehq/overtime-api/internal/domain/stats"
	qb "github.com/overtimehq/overtime-api/internal/platform/querybuilder"
)

type SetLineRepository struct {
	db *sqlx.DB
}

func NewSetLineRepository(db *sqlx.DB) *SetLineRepository {
	return &SetLineRepository{db: db}
}

func (r *SetLineRepository) GetByID(ctx context.Context, lineID string) (stats.SetLine, bool, error) {
	query, args, err := qb.Select("*").From("set_stat_lines").
		Where(qb.Eq("public_id", lineID)).
		ToSQL()
	if err != nil {
		return stats.SetLine{}, false, fmt.Errorf("build get set line query: %w", err)
	}

	var row setLineTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return stats.SetLine{}, false, nil
		}
		return stats.SetLine{}, false, fmt.Errorf("get set line: %w", err)
	}

	return setLineFromRow(row), true, nil
}

func (r *SetLineRepository) GetBySetAndEntry(ctx context.Context, setID, rosterEntryID string) (stats.SetLine, bool, error) {
	query, args, err := qb.Select("*").From("set_stat_lines").
		Where(
			qb.Eq("set_public_id", setID),
			qb.Eq("roster_entry_public_id", rosterEntryID),
		).
		ToSQL()
	if err != nil {
		return stats.SetLine{}, false, fmt.Errorf("build get set line by entry query: %w", err)
	}

	var row setLineTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return stats.SetLine{}, false, nil
		}
		return stats.SetLine{}, false, fmt.Errorf("get set line by entry: %w", err)
	}

	return setLineFromRow(row), true, nil
}

func (r *SetLineRepository) ListBySet(ctx context.Context, setID string) ([]stats.SetLine, error) {
	return r.list(ctx, qb.Eq("set_public_id", setID))
}

func (r *SetLineRepository) ListByMatch(ctx context.Context, matchID string) ([]stats.SetLine, error) {
	return r.list(ctx, qb.Eq("match_public_id", matchID))
}

func (r *SetLineRepository) list(ctx context.Context, cond qb.Condition) ([]stats.SetLine, error) {
	query, args, err := qb.Select("*").From("set_stat_lines").
		Where(cond).
		OrderBy("set_public_id", "roster_entry_public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list set lines query: %w", err)
	}

	var rows []setLineTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list set lines: %w", err)
	}

	out := make([]stats.SetLine, 0, len(rows))
	for _, row := range rows {
		out = append(out, setLineFromRow(row))
	}
	return out, nil
}

// Create relies on the unique index over (set_public_id, roster_entry_public_id)
// to absorb duplicate submissions of the same player row.
func (r *SetLineRepository) Create(ctx context.Context, l stats.SetLine) error {
	insertModel := setLineInsertModel{
		PublicID:      l.ID,
		SetID:         l.SetID,
		MatchID:       l.MatchID,
		RosterEntryID: l.RosterEntryID,
		TeamID:        l.TeamID,
		Throws:        l.Line.Throws,
		Hits:          l.Line.Hits,
		Outs:          l.Line.Outs,
		Catches:       l.Line.Catches,
		CreatedAt:     l.CreatedAt,
		UpdatedAt:     l.UpdatedAt,
	}

	query, args, err := qb.InsertModel("set_stat_lines", insertModel, `ON CONFLICT (set_public_id, roster_entry_public_id)
DO UPDATE SET
    throws = EXCLUDED.throws,
    hits = EXCLUDED.hits,
    outs = EXCLUDED.outs,
    catches = EXCLUDED.catches,
    updated_at = EXCLUDED.updated_at`)
	if err != nil {
		return fmt.Errorf("build insert set line query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert set line: %w", err)
	}
	return nil
}

func (r *SetLineRepository) Update(ctx context.Context, l stats.SetLine) error {
	query, args, err := qb.Update("set_stat_lines").
		Set("throws", l.Line.Throws).
		Set("hits", l.Line.Hits).
		Set("outs", l.Line.Outs).
		Set("catches", l.Line.Catches).
		Set("updated_at", l.UpdatedAt).
		Where(qb.Eq("public_id", l.ID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update set line query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update set line: %w", err)
	}
	return nil
}

type MatchLineRepository struct {
	db *sqlx.DB
}

func NewMatchLineRepository(db *sqlx.DB) *MatchLineRepository {
	return &MatchLineRepository{db: db}
}

func (r *MatchLineRepository) GetByID(ctx context.Context, lineID string) (stats.MatchLine, bool, error) {
	query, args, err := qb.Select("*").From("match_stat_lines").
		Where(qb.Eq("public_id", lineID)).
		ToSQL()
	if err != nil {
		return stats.MatchLine{}, false, fmt.Errorf("build get match line query: %w", err)
	}

	var row matchLineTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return stats.MatchLine{}, false, nil
		}
		return stats.MatchLine{}, false, fmt.Errorf("get match line: %w", err)
	}

	return matchLineFromRow(row), true, nil
}

func (r *MatchLineRepository) ListByMatch(ctx context.Context, matchID, kind string) ([]stats.MatchLine, error) {
	conditions := []qb.Condition{qb.Eq("match_public_id", matchID)}
	if kind != "" {
		conditions = append(conditions, qb.Eq("kind", kind))
	}

	query, args, err := qb.Select("*").From("match_stat_lines").
		Where(conditions...).
		OrderBy("roster_entry_public_id", "kind").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list match lines query: %w", err)
	}

	var rows []matchLineTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list match lines: %w", err)
	}

	out := make([]stats.MatchLine, 0, len(rows))
	for _, row := range rows {
		out = append(out, matchLineFromRow(row))
	}
	return out, nil
}

func (r *MatchLineRepository) Create(ctx context.Context, l stats.MatchLine) error {
	insertModel := matchLineInsertModel{
		PublicID:      l.ID,
		MatchID:       l.MatchID,
		RosterEntryID: l.RosterEntryID,
		TeamID:        l.TeamID,
		Kind:          l.Kind,
		Source:        l.Source,
		Throws:        l.Line.Throws,
		Hits:          l.Line.Hits,
		Outs:          l.Line.Outs,
		Catches:       l.Line.Catches,
		CreatedAt:     l.CreatedAt,
		UpdatedAt:     l.UpdatedAt,
	}

	query, args, err := qb.InsertModel("match_stat_lines", insertModel, `ON CONFLICT (match_public_id, roster_entry_public_id, kind)
DO UPDATE SET
    source = EXCLUDED.source,
    throws = EXCLUDED.throws,
    hits = EXCLUDED.hits,
    outs = EXCLUDED.outs,
    catches = EXCLUDED.catches,
    updated_at = EXCLUDED.updated_at`)
	if err != nil {
		return fmt.Errorf("build insert match line query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert match line: %w", err)
	}
	return nil
}

func (r *MatchLineRepository) Update(ctx context.Context, l stats.MatchLine) error {
	query, args, err := qb.Update("match_stat_lines").
		Set("source", l.Source).
		Set("throws", l.Line.Throws).
		Set("hits", l.Line.Hits).
		Set("outs", l.Line.Outs).
		Set("catches", l.Line.Catches).
		Set("updated_at", l.UpdatedAt).
		Where(qb.Eq("public_id", l.ID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update match line query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update match line: %w", err)
	}
	return nil
}

type TeamAggregateRepository struct {
	db *sqlx.DB
}

func NewTeamAggregateRepository(db *sqlx.DB) *TeamAggregateRepository {
	return &TeamAggregateRepository{db: db}
}

func (r *TeamAggregateRepository) GetByMatchAndTeam(ctx context.Context, matchID, teamID string) (stats.TeamAggregate, bool, error) {
	query, args, err := qb.Select("*").From("team_match_aggregates").
		Where(
			qb.Eq("match_public_id", matchID),
			qb.Eq("team_id", teamID),
		).
		ToSQL()
	if err != nil {
		return stats.TeamAggregate{}, false, fmt.Errorf("build get team aggregate query: %w", err)
	}

	var row teamAggregateTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return stats.TeamAggregate{}, false, nil
		}
		return stats.TeamAggregate{}, false, fmt.Errorf("get team aggregate: %w", err)
	}

	return teamAggregateFromRow(row), true, nil
}

func (r *TeamAggregateRepository) ListByMatch(ctx context.Context, matchID string) ([]stats.TeamAggregate, error) {
	query, args, err := qb.Select("*").From("team_match_aggregates").
		Where(qb.Eq("match_public_id", matchID)).
		OrderBy("team_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list team aggregates query: %w", err)
	}

	var rows []teamAggregateTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list team aggregates: %w", err)
	}

	out := make([]stats.TeamAggregate, 0, len(rows))
	for _, row := range rows {
		out = append(out, teamAggregateFromRow(row))
	}
	return out, nil
}

func (r *TeamAggregateRepository) Replace(ctx context.Context, a stats.TeamAggregate) error {
	insertModel := teamAggregateInsertModel{
		MatchID:       a.MatchID,
		TeamID:        a.TeamID,
		Throws:        a.Line.Throws,
		Hits:          a.Line.Hits,
		Outs:          a.Line.Outs,
		Catches:       a.Line.Catches,
		Effectiveness: a.Effectiveness,
		UpdatedAt:     a.UpdatedAt,
	}

	query, args, err := qb.InsertModel("team_match_aggregates", insertModel, `ON CONFLICT (match_public_id, team_id)
DO UPDATE SET
    throws = EXCLUDED.throws,
    hits = EXCLUDED.hits,
    outs = EXCLUDED.outs,
    catches = EXCLUDED.catches,
    effectiveness = EXCLUDED.effectiveness,
    updated_at = EXCLUDED.updated_at`)
	if err != nil {
		return fmt.Errorf("build replace team aggregate query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("replace team aggregate: %w", err)
	}
	return nil
}
