package postgres

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/bytedance/sonic"

	"github.com/overtimehq/overtime-api/internal/domain/editrequest"
)

type editRequestTableModel struct {
	ID              int64          `db:"id"`
	PublicID        string         `db:"public_id"`
	Kind            string         `db:"kind"`
	TargetID        string         `db:"target_public_id"`
	ProposedChanges []byte         `db:"proposed_changes"`
	State           string         `db:"state"`
	RejectionReason sql.NullString `db:"rejection_reason"`
	CreatedBy       string         `db:"created_by"`
	DecidedBy       sql.NullString `db:"decided_by"`
	CreatedAt       time.Time      `db:"created_at"`
	DecidedAt       *time.Time     `db:"decided_at"`
}

type editRequestInsertModel struct {
	PublicID        string    `db:"public_id"`
	Kind            string    `db:"kind"`
	TargetID        string    `db:"target_public_id"`
	ProposedChanges []byte    `db:"proposed_changes"`
	State           string    `db:"state"`
	CreatedBy       string    `db:"created_by"`
	CreatedAt       time.Time `db:"created_at"`
}

func editRequestFromRow(row editRequestTableModel) (editrequest.Request, error) {
	var changes map[string]any
	if len(row.ProposedChanges) > 0 {
		if err := sonic.Unmarshal(row.ProposedChanges, &changes); err != nil {
			return editrequest.Request{}, fmt.Errorf("decode proposed changes: %w", err)
		}
	}

	return editrequest.Request{
		ID:              row.PublicID,
		Kind:            row.Kind,
		TargetID:        row.TargetID,
		ProposedChanges: changes,
		State:           row.State,
		RejectionReason: row.RejectionReason.String,
		CreatedBy:       row.CreatedBy,
		DecidedBy:       row.DecidedBy.String,
		CreatedAt:       row.CreatedAt,
		DecidedAt:       row.DecidedAt,
	}, nil
}
