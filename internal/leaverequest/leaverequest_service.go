package leaverequest

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"github.com/parryG11/hr/internal/balance"
	"github.com/parryG11/hr/internal/config"
	leaverequesterrors "github.com/parryG11/hr/internal/leaverequest/errors"
	"github.com/parryG11/hr/internal/notification"
	"github.com/parryG11/hr/internal/shared/apperror"
	"github.com/parryG11/hr/internal/shared/contextutil"
)

const (
	StatusPending   = "pending"
	StatusApproved  = "approved"
	StatusRejected  = "rejected"
	StatusCancelled = "cancelled"
)

// BalanceEngine applies reservation movements inside the caller's
// transaction. Implemented by balance.Engine.
type BalanceEngine interface {
	Reserve(ctx context.Context, tx *sql.Tx, key balance.Key, days int) error
	Release(ctx context.Context, tx *sql.Tx, key balance.Key, days int) error
	Adjust(ctx context.Context, tx *sql.Tx, oldKey balance.Key, oldDays int, newKey balance.Key, newDays int) error
}

// NotificationEmitter is fired after the primary transaction commits.
// Implementations log their own failures and never return them.
type NotificationEmitter interface {
	Emit(ctx context.Context, recipientUserID, notifType, message, link string)
}

//go:generate mockgen -source=leaverequest_service.go -destination=mock/leaverequest_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, actorID string, req CreateLeaveRequestRequest) (LeaveRequestResponse, error)
	GetAll(ctx context.Context, filter ListFilter) ([]LeaveRequestResponse, error)
	GetByID(ctx context.Context, id string) (LeaveRequestResponse, error)
	Update(ctx context.Context, actorID, id string, req UpdateLeaveRequestRequest) (LeaveRequestResponse, error)
	Approve(ctx context.Context, actorID, id string) (LeaveRequestResponse, error)
	Reject(ctx context.Context, actorID, id, rejectionReason string) (LeaveRequestResponse, error)
	Cancel(ctx context.Context, actorID, id string) (LeaveRequestResponse, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	db               *sql.DB
	repo             Repository
	engine           BalanceEngine
	emitter          NotificationEmitter
	dayCountMode     config.DayCountMode
	adminRecipientID string
	logger           *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	engine BalanceEngine,
	emitter NotificationEmitter,
	dayCountMode config.DayCountMode,
	adminRecipientID string,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("leaverequest.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leaverequest.service")
	}
	return &service{
		db:               db,
		repo:             repo,
		engine:           engine,
		emitter:          emitter,
		dayCountMode:     dayCountMode,
		adminRecipientID: adminRecipientID,
		logger:           l,
	}
}

func (s *service) Create(ctx context.Context, actorID string, req CreateLeaveRequestRequest) (LeaveRequestResponse, error) {
	s.logger.Debug("create leave request requested",
		zap.String("request_id", contextutil.GetRequestID(ctx)),
		zap.String("actor_id", actorID),
		zap.String("employee_id", req.EmployeeID),
		zap.String("start_date", req.StartDate),
		zap.String("end_date", req.EndDate),
	)

	employeeUUID, leaveTypeUUID, createdByUUID, startDate, endDate, err := validateCreateRequest(actorID, req)
	if err != nil {
		s.logger.Warn("create leave request validation failed", zap.Error(err))
		return LeaveRequestResponse{}, err
	}

	var created *LeaveRequest
	err = s.runWithConflictRetry(ctx, "create leave request", func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		defer tx.Rollback()

		qtx := s.repo.WithTx(tx)

		employeeName, err := qtx.EmployeeName(ctx, req.EmployeeID)
		if err != nil {
			return err
		}

		overlap, err := qtx.HasOverlappingPeriod(ctx, req.EmployeeID, startDate, endDate, nil)
		if err != nil {
			return err
		}
		if overlap {
			return leaverequesterrors.ErrLeaveOverlap
		}

		totalDays := countDays(s.dayCountMode, startDate, endDate)
		if totalDays == 0 {
			return leaverequesterrors.ErrNoWorkingDays
		}
		l := &LeaveRequest{
			ID:           uuid.New(),
			EmployeeID:   employeeUUID,
			EmployeeName: employeeName,
			LeaveTypeID:  leaveTypeUUID,
			StartDate:    startDate,
			EndDate:      endDate,
			TotalDays:    totalDays,
			Reason:       req.Reason,
			Status:       StatusPending,
			CreatedBy:    createdByUUID,
		}

		// Reserve and persist share the transaction: an insufficient
		// balance leaves no request row behind.
		key := balance.Key{EmployeeID: employeeUUID, LeaveTypeID: leaveTypeUUID, Year: l.BalanceYear()}
		if err := s.engine.Reserve(ctx, tx, key, totalDays); err != nil {
			return err
		}
		if err := qtx.Create(ctx, l); err != nil {
			return err
		}

		if err := tx.Commit(); err != nil {
			return err
		}
		created = l
		return nil
	})
	if err != nil {
		s.logger.Warn("create leave request failed",
			zap.String("employee_id", req.EmployeeID),
			zap.Error(err),
		)
		return LeaveRequestResponse{}, err
	}

	s.logger.Info("create leave request success",
		zap.String("leave_request_id", created.ID.String()),
		zap.String("employee_id", req.EmployeeID),
		zap.Int("total_days", created.TotalDays),
	)

	s.emitter.Emit(ctx,
		s.adminRecipientID,
		notification.TypeLeaveRequestCreated,
		fmt.Sprintf("%s filed a leave request for %s to %s (%d days)",
			created.EmployeeName,
			created.StartDate.Format("2006-01-02"),
			created.EndDate.Format("2006-01-02"),
			created.TotalDays,
		),
		"/leave-requests/"+created.ID.String(),
	)

	return mapToResponse(*created), nil
}

func (s *service) GetAll(ctx context.Context, filter ListFilter) ([]LeaveRequestResponse, error) {
	if filter.EmployeeID != "" {
		if _, err := uuid.Parse(filter.EmployeeID); err != nil {
			return nil, leaverequesterrors.ErrInvalidEmployeeID
		}
	}
	if filter.Status != "" && !isKnownStatus(filter.Status) {
		return nil, apperror.InvalidField("status")
	}

	requests, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(requests), nil
}

func (s *service) GetByID(ctx context.Context, id string) (LeaveRequestResponse, error) {
	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return LeaveRequestResponse{}, err
	}
	return mapToResponse(*l), nil
}

// Update edits the details of a pending request and moves its
// reservation accordingly. Status changes go through Approve, Reject
// and Cancel.
func (s *service) Update(ctx context.Context, actorID, id string, req UpdateLeaveRequestRequest) (LeaveRequestResponse, error) {
	s.logger.Debug("update leave request requested",
		zap.String("request_id", contextutil.GetRequestID(ctx)),
		zap.String("leave_request_id", id),
		zap.String("actor_id", actorID),
	)

	if _, err := uuid.Parse(actorID); err != nil {
		return LeaveRequestResponse{}, leaverequesterrors.ErrInvalidActorID
	}
	leaveTypeUUID, err := uuid.Parse(req.LeaveTypeID)
	if err != nil {
		return LeaveRequestResponse{}, leaverequesterrors.ErrInvalidLeaveTypeID
	}
	startDate, endDate, err := parseDateRange(req.StartDate, req.EndDate)
	if err != nil {
		return LeaveRequestResponse{}, err
	}

	var updated *LeaveRequest
	err = s.runWithConflictRetry(ctx, "update leave request", func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		defer tx.Rollback()

		qtx := s.repo.WithTx(tx)

		l, err := qtx.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if l.Status != StatusPending {
			return leaverequesterrors.ErrNotEditable
		}

		overlap, err := qtx.HasOverlappingPeriod(ctx, l.EmployeeID.String(), startDate, endDate, &id)
		if err != nil {
			return err
		}
		if overlap {
			return leaverequesterrors.ErrLeaveOverlap
		}

		newDays := countDays(s.dayCountMode, startDate, endDate)
		if newDays == 0 {
			return leaverequesterrors.ErrNoWorkingDays
		}

		oldKey := balance.Key{EmployeeID: l.EmployeeID, LeaveTypeID: l.LeaveTypeID, Year: l.BalanceYear()}
		oldDays := l.TotalDays

		l.LeaveTypeID = leaveTypeUUID
		l.StartDate = startDate
		l.EndDate = endDate
		l.TotalDays = newDays
		l.Reason = req.Reason

		newKey := balance.Key{EmployeeID: l.EmployeeID, LeaveTypeID: l.LeaveTypeID, Year: l.BalanceYear()}
		if err := s.engine.Adjust(ctx, tx, oldKey, oldDays, newKey, l.TotalDays); err != nil {
			return err
		}
		if err := qtx.Update(ctx, l); err != nil {
			return err
		}

		if err := tx.Commit(); err != nil {
			return err
		}
		updated = l
		return nil
	})
	if err != nil {
		s.logger.Warn("update leave request failed",
			zap.String("leave_request_id", id),
			zap.Error(err),
		)
		return LeaveRequestResponse{}, err
	}

	s.logger.Info("update leave request success",
		zap.String("leave_request_id", id),
		zap.Int("total_days", updated.TotalDays),
	)
	return mapToResponse(*updated), nil
}

func (s *service) Approve(ctx context.Context, actorID, id string) (LeaveRequestResponse, error) {
	return s.transition(ctx, actorID, id, StatusApproved, nil)
}

func (s *service) Reject(ctx context.Context, actorID, id, rejectionReason string) (LeaveRequestResponse, error) {
	return s.transition(ctx, actorID, id, StatusRejected, &rejectionReason)
}

func (s *service) Cancel(ctx context.Context, actorID, id string) (LeaveRequestResponse, error) {
	return s.transition(ctx, actorID, id, StatusCancelled, nil)
}

// transition performs one guarded status change. The current-status
// read, the guard, the balance movement and the row update all share
// one transaction, so a concurrent transition cannot slip between the
// read and the write.
func (s *service) transition(ctx context.Context, actorID, id, target string, rejectionReason *string) (LeaveRequestResponse, error) {
	s.logger.Debug("transition leave request requested",
		zap.String("request_id", contextutil.GetRequestID(ctx)),
		zap.String("leave_request_id", id),
		zap.String("actor_id", actorID),
		zap.String("target_status", target),
	)

	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return LeaveRequestResponse{}, leaverequesterrors.ErrInvalidActorID
	}
	if target == StatusRejected && (rejectionReason == nil || *rejectionReason == "") {
		return LeaveRequestResponse{}, leaverequesterrors.ErrRejectionReasonRequired
	}

	var transitioned *LeaveRequest
	err = s.runWithConflictRetry(ctx, "transition leave request", func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		defer tx.Rollback()

		qtx := s.repo.WithTx(tx)

		l, err := qtx.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if !isAllowedTransition(l.Status, target) {
			s.logger.Warn("transition leave request rejected by state machine",
				zap.String("leave_request_id", id),
				zap.String("from_status", l.Status),
				zap.String("to_status", target),
			)
			return leaverequesterrors.NewInvalidTransition(l.Status, target)
		}

		key := balance.Key{EmployeeID: l.EmployeeID, LeaveTypeID: l.LeaveTypeID, Year: l.BalanceYear()}

		l.Status = target
		switch target {
		case StatusApproved:
			// Approval keeps the reservation; the days stay spent.
			now := time.Now().UTC()
			l.ApprovedBy = &actorUUID
			l.ApprovedAt = &now
			l.RejectionReason = nil
		case StatusRejected:
			l.ApprovedBy = nil
			l.ApprovedAt = nil
			l.RejectionReason = rejectionReason
			if err := s.engine.Release(ctx, tx, key, l.TotalDays); err != nil {
				return err
			}
		case StatusCancelled:
			l.ApprovedBy = nil
			l.ApprovedAt = nil
			l.RejectionReason = nil
			if err := s.engine.Release(ctx, tx, key, l.TotalDays); err != nil {
				return err
			}
		}

		if err := qtx.Update(ctx, l); err != nil {
			return err
		}
		if err := tx.Commit(); err != nil {
			return err
		}
		transitioned = l
		return nil
	})
	if err != nil {
		s.logger.Warn("transition leave request failed",
			zap.String("leave_request_id", id),
			zap.String("target_status", target),
			zap.Error(err),
		)
		return LeaveRequestResponse{}, err
	}

	s.logger.Info("transition leave request success",
		zap.String("leave_request_id", id),
		zap.String("status", target),
	)

	s.notifyTransition(ctx, transitioned)

	return mapToResponse(*transitioned), nil
}

func (s *service) notifyTransition(ctx context.Context, l *LeaveRequest) {
	period := fmt.Sprintf("%s to %s",
		l.StartDate.Format("2006-01-02"),
		l.EndDate.Format("2006-01-02"),
	)
	link := "/leave-requests/" + l.ID.String()

	switch l.Status {
	case StatusApproved:
		s.emitter.Emit(ctx,
			l.CreatedBy.String(),
			notification.TypeLeaveRequestApproved,
			fmt.Sprintf("Your leave request for %s was approved", period),
			link,
		)
	case StatusRejected:
		reason := ""
		if l.RejectionReason != nil {
			reason = ": " + *l.RejectionReason
		}
		s.emitter.Emit(ctx,
			l.CreatedBy.String(),
			notification.TypeLeaveRequestRejected,
			fmt.Sprintf("Your leave request for %s was rejected%s", period, reason),
			link,
		)
	}
}

// Delete removes the row only; any reservation the request still holds
// stays on the ledger. Admins reclaim days through Cancel or a fresh
// allocation.
func (s *service) Delete(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := s.repo.WithTx(tx).Delete(ctx, id); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	s.logger.Info("delete leave request success", zap.String("leave_request_id", id))
	return nil
}

// runWithConflictRetry retries the unit once when Postgres aborts it
// with a serialization or deadlock failure, then surfaces a conflict.
func (s *service) runWithConflictRetry(ctx context.Context, op string, fn func() error) error {
	err := fn()
	if err == nil || !isRetryableConflict(err) {
		return err
	}

	s.logger.Warn(op+" hit a serialization conflict, retrying once",
		zap.String("request_id", contextutil.GetRequestID(ctx)),
	)

	err = fn()
	if err != nil && isRetryableConflict(err) {
		return apperror.ErrConflict
	}
	return err
}

func isRetryableConflict(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == "40001" || pgErr.Code == "40P01"
}

func isAllowedTransition(current, target string) bool {
	if current != StatusPending {
		return false
	}
	switch target {
	case StatusApproved, StatusRejected, StatusCancelled:
		return true
	}
	return false
}

func isKnownStatus(status string) bool {
	switch status {
	case StatusPending, StatusApproved, StatusRejected, StatusCancelled:
		return true
	}
	return false
}

func validateCreateRequest(actorID string, req CreateLeaveRequestRequest) (uuid.UUID, uuid.UUID, uuid.UUID, time.Time, time.Time, error) {
	employeeUUID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return uuid.Nil, uuid.Nil, uuid.Nil, time.Time{}, time.Time{}, leaverequesterrors.ErrInvalidEmployeeID
	}
	leaveTypeUUID, err := uuid.Parse(req.LeaveTypeID)
	if err != nil {
		return uuid.Nil, uuid.Nil, uuid.Nil, time.Time{}, time.Time{}, leaverequesterrors.ErrInvalidLeaveTypeID
	}
	createdByUUID, err := uuid.Parse(actorID)
	if err != nil {
		return uuid.Nil, uuid.Nil, uuid.Nil, time.Time{}, time.Time{}, leaverequesterrors.ErrInvalidActorID
	}
	startDate, endDate, err := parseDateRange(req.StartDate, req.EndDate)
	if err != nil {
		return uuid.Nil, uuid.Nil, uuid.Nil, time.Time{}, time.Time{}, err
	}
	return employeeUUID, leaveTypeUUID, createdByUUID, startDate, endDate, nil
}

func parseDateRange(start, end string) (time.Time, time.Time, error) {
	startDate, err := parseDate(start)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	endDate, err := parseDate(end)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if startDate.After(endDate) {
		return time.Time{}, time.Time{}, leaverequesterrors.ErrInvalidDateRange
	}
	return startDate, endDate, nil
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, leaverequesterrors.ErrInvalidDateFormat
	}
	return t, nil
}
