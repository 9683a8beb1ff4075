package postgres

import (
	"context"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/jmoiron/sqlx"

	"github.com/overtimehq/overtime-api/internal/domain/editrequest"
	qb "github.com/overtimehq/overtime-api/internal/platform/querybuilder"
)

type EditRequestRepository struct {
	db *sqlx.DB
}

func NewEditRequestRepository(db *sqlx.DB) *EditRequestRepository {
	return &EditRequestRepository{db: db}
}

func (r *EditRequestRepository) GetByID(ctx context.Context, requestID string) (editrequest.Request, bool, error) {
	query, args, err := qb.Select("*").From("edit_requests").
		Where(qb.Eq("public_id", requestID)).
		ToSQL()
	if err != nil {
		return editrequest.Request{}, false, fmt.Errorf("build get edit request query: %w", err)
	}

	var row editRequestTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return editrequest.Request{}, false, nil
		}
		return editrequest.Request{}, false, fmt.Errorf("get edit request: %w", err)
	}

	req, err := editRequestFromRow(row)
	if err != nil {
		return editrequest.Request{}, false, err
	}
	return req, true, nil
}

func (r *EditRequestRepository) List(ctx context.Context, f editrequest.Filter) ([]editrequest.Request, error) {
	conditions := make([]qb.Condition, 0, 2)
	if f.State != "" {
		conditions = append(conditions, qb.Eq("state", f.State))
	}
	if f.Kind != "" {
		conditions = append(conditions, qb.Eq("kind", f.Kind))
	}

	query, args, err := qb.Select("*").From("edit_requests").
		Where(conditions...).
		OrderBy("created_at DESC", "id DESC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list edit requests query: %w", err)
	}

	var rows []editRequestTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list edit requests: %w", err)
	}

	out := make([]editrequest.Request, 0, len(rows))
	for _, row := range rows {
		req, err := editRequestFromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, req)
	}
	return out, nil
}

func (r *EditRequestRepository) CountByState(ctx context.Context, state string) (int, error) {
	query, args, err := qb.Select("COUNT(*)").From("edit_requests").
		Where(qb.Eq("state", state)).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build count edit requests query: %w", err)
	}

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("count edit requests: %w", err)
	}
	return count, nil
}

func (r *EditRequestRepository) Create(ctx context.Context, req editrequest.Request) error {
	changes, err := sonic.Marshal(req.ProposedChanges)
	if err != nil {
		return fmt.Errorf("encode proposed changes: %w", err)
	}

	insertModel := editRequestInsertModel{
		PublicID:        req.ID,
		Kind:            req.Kind,
		TargetID:        req.TargetID,
		ProposedChanges: changes,
		State:           req.State,
		CreatedBy:       req.CreatedBy,
		CreatedAt:       req.CreatedAt,
	}

	query, args, err := qb.InsertModel("edit_requests", insertModel, "")
	if err != nil {
		return fmt.Errorf("build insert edit request query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert edit request: %w", err)
	}
	return nil
}

func (r *EditRequestRepository) Update(ctx context.Context, req editrequest.Request) error {
	builder := qb.Update("edit_requests").
		Set("state", req.State).
		Set("rejection_reason", req.RejectionReason).
		Set("decided_by", req.DecidedBy)
	if req.DecidedAt != nil {
		builder = builder.Set("decided_at", *req.DecidedAt)
	}

	query, args, err := builder.
		Where(qb.Eq("public_id", req.ID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update edit request query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update edit request: %w", err)
	}
	return nil
}
