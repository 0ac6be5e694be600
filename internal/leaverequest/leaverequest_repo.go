package leaverequest

import (
	"context"
	"database/sql"
	"errors"
	"time"

	leaverequesterrors "github.com/parryG11/hr/internal/leaverequest/errors"
)

//go:generate mockgen -source=leaverequest_repo.go -destination=mock/leaverequest_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, l *LeaveRequest) error
	FindByID(ctx context.Context, id string) (*LeaveRequest, error)
	FindAll(ctx context.Context, filter ListFilter) ([]LeaveRequest, error)
	Update(ctx context.Context, l *LeaveRequest) error
	Delete(ctx context.Context, id string) error
	EmployeeName(ctx context.Context, employeeID string) (string, error)
	HasOverlappingPeriod(ctx context.Context, employeeID string, startDate, endDate time.Time, excludeID *string) (bool, error)
}

type repository struct {
	db *sql.DB
	tx *sql.Tx
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

type querier interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
	QueryContext(context.Context, string, ...any) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...any) *sql.Row
}

func (r *repository) querier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

const leaveRequestColumns = `
id, employee_id, employee_name, leave_type_id, start_date, end_date,
total_days, reason, status, created_by, approved_by, approved_at,
rejection_reason, created_at, updated_at
`

func scanLeaveRequest(row interface{ Scan(...any) error }) (*LeaveRequest, error) {
	var l LeaveRequest
	err := row.Scan(
		&l.ID,
		&l.EmployeeID,
		&l.EmployeeName,
		&l.LeaveTypeID,
		&l.StartDate,
		&l.EndDate,
		&l.TotalDays,
		&l.Reason,
		&l.Status,
		&l.CreatedBy,
		&l.ApprovedBy,
		&l.ApprovedAt,
		&l.RejectionReason,
		&l.CreatedAt,
		&l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *repository) Create(ctx context.Context, l *LeaveRequest) error {
	query := `
INSERT INTO leave_requests (
	id, employee_id, employee_name, leave_type_id, start_date, end_date,
	total_days, reason, status, created_by, created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
`

	_, err := r.querier().ExecContext(ctx, query,
		l.ID, l.EmployeeID, l.EmployeeName, l.LeaveTypeID,
		l.StartDate, l.EndDate, l.TotalDays, l.Reason, l.Status, l.CreatedBy,
	)
	return err
}

func (r *repository) FindByID(ctx context.Context, id string) (*LeaveRequest, error) {
	query := `SELECT ` + leaveRequestColumns + ` FROM leave_requests WHERE id = $1`

	l, err := scanLeaveRequest(r.querier().QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, leaverequesterrors.ErrLeaveRequestNotFound
	}
	if err != nil {
		return nil, err
	}
	return l, nil
}

func (r *repository) FindAll(ctx context.Context, filter ListFilter) ([]LeaveRequest, error) {
	query := `SELECT ` + leaveRequestColumns + ` FROM leave_requests WHERE 1=1`
	args := []any{}

	if filter.EmployeeID != "" {
		args = append(args, filter.EmployeeID)
		query += ` AND employee_id = $1`
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		if len(args) == 1 {
			query += ` AND status = $1`
		} else {
			query += ` AND status = $2`
		}
	}
	query += ` ORDER BY start_date DESC, created_at DESC`

	rows, err := r.querier().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []LeaveRequest
	for rows.Next() {
		l, err := scanLeaveRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, *l)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *repository) Update(ctx context.Context, l *LeaveRequest) error {
	query := `
UPDATE leave_requests
SET leave_type_id = $2, start_date = $3, end_date = $4, total_days = $5,
	reason = $6, status = $7, approved_by = $8, approved_at = $9,
	rejection_reason = $10, updated_at = NOW()
WHERE id = $1
`

	res, err := r.querier().ExecContext(ctx, query,
		l.ID, l.LeaveTypeID, l.StartDate, l.EndDate, l.TotalDays,
		l.Reason, l.Status, l.ApprovedBy, l.ApprovedAt, l.RejectionReason,
	)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return leaverequesterrors.ErrLeaveRequestNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	res, err := r.querier().ExecContext(ctx, `DELETE FROM leave_requests WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return leaverequesterrors.ErrLeaveRequestNotFound
	}
	return nil
}

func (r *repository) EmployeeName(ctx context.Context, employeeID string) (string, error) {
	query := `SELECT full_name FROM employees WHERE id = $1 AND deleted_at IS NULL`

	var name string
	err := r.querier().QueryRowContext(ctx, query, employeeID).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return "", leaverequesterrors.ErrEmployeeNotFound
	}
	if err != nil {
		return "", err
	}
	return name, nil
}

func (r *repository) HasOverlappingPeriod(ctx context.Context, employeeID string, startDate, endDate time.Time, excludeID *string) (bool, error) {
	query := `
SELECT COUNT(1) FROM leave_requests
WHERE employee_id = $1
	AND status IN ('pending', 'approved')
	AND NOT (end_date < $2 OR start_date > $3)
`
	args := []any{employeeID, startDate, endDate}

	if excludeID != nil && *excludeID != "" {
		query += ` AND id <> $4`
		args = append(args, *excludeID)
	}

	var count int64
	if err := r.querier().QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}
