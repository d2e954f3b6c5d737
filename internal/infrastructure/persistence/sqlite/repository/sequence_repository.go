package repository

import (
	"context"
	"database/sql"
	"errors"

	"gorm.io/gorm"

	"conferencehall/internal/errs"
	"conferencehall/internal/ports"
)

const (
	sqliteNextNumberSQL = `INSERT INTO event_proposal_counters (event_id, last_proposal_number) VALUES (?, 1)
ON CONFLICT(event_id) DO UPDATE SET last_proposal_number = event_proposal_counters.last_proposal_number + 1
RETURNING last_proposal_number`

	// LAST_INSERT_ID(expr) stores expr for this connection, so the read back
	// sees this statement's value and never a concurrent writer's.
	mysqlNextNumberSQL = `INSERT INTO event_proposal_counters (event_id, last_proposal_number) VALUES (?, LAST_INSERT_ID(1))
ON DUPLICATE KEY UPDATE last_proposal_number = LAST_INSERT_ID(last_proposal_number + 1)`
)

// SequenceRepository allocates proposal numbers with one atomic
// insert-or-increment statement per call.
type SequenceRepository struct{}

var _ ports.SequenceAllocator = (*SequenceRepository)(nil)

func NewSequenceRepository() *SequenceRepository {
	return &SequenceRepository{}
}

func (r *SequenceRepository) NextProposalNumber(ctx context.Context, eventID string) (int64, error) {
	db, err := txConn(ctx)
	if err != nil {
		return 0, err
	}
	if eventID == "" {
		return 0, errs.Wrap(errs.ErrInvalidArgument, "event id is required")
	}

	var number int64
	if db.Dialector.Name() == "mysql" {
		number, err = nextNumberMySQL(db, eventID)
	} else {
		number, err = nextNumberReturning(db, eventID)
	}
	if err != nil {
		return 0, err
	}
	if number <= 0 {
		return 0, allocationError(eventID, nil)
	}
	return number, nil
}

func nextNumberReturning(db *gorm.DB, eventID string) (int64, error) {
	var number int64
	if err := db.Raw(sqliteNextNumberSQL, eventID).Row().Scan(&number); err != nil {
		return 0, allocationError(eventID, err)
	}
	return number, nil
}

func nextNumberMySQL(db *gorm.DB, eventID string) (int64, error) {
	result := db.Exec(mysqlNextNumberSQL, eventID)
	if result.Error != nil {
		return 0, allocationError(eventID, result.Error)
	}
	if result.RowsAffected == 0 {
		return 0, allocationError(eventID, nil)
	}

	var number int64
	if err := db.Raw("SELECT LAST_INSERT_ID()").Row().Scan(&number); err != nil {
		return 0, allocationError(eventID, err)
	}
	return number, nil
}

func allocationError(eventID string, cause error) error {
	if errors.Is(cause, sql.ErrNoRows) {
		cause = nil
	}
	return errs.WithStack(&errs.Error{
		Code:     errs.CodeSequenceAllocation,
		Message:  "proposal counter did not return a number",
		Metadata: map[string]string{"event_id": eventID},
		Cause:    cause,
	})
}
