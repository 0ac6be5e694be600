package leaverequest_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/parryG11/hr/internal/balance"
	balanceerrors "github.com/parryG11/hr/internal/balance/errors"
	"github.com/parryG11/hr/internal/config"
	"github.com/parryG11/hr/internal/leaverequest"
	leaverequesterrors "github.com/parryG11/hr/internal/leaverequest/errors"
	"github.com/parryG11/hr/internal/notification"
	"github.com/parryG11/hr/internal/shared/apperror"
	"github.com/shopspring/decimal"
)

type fakeLeaveRequestRepository struct {
	withTxFn               func(tx *sql.Tx) leaverequest.Repository
	createFn               func(ctx context.Context, l *leaverequest.LeaveRequest) error
	findByIDFn             func(ctx context.Context, id string) (*leaverequest.LeaveRequest, error)
	findAllFn              func(ctx context.Context, filter leaverequest.ListFilter) ([]leaverequest.LeaveRequest, error)
	updateFn               func(ctx context.Context, l *leaverequest.LeaveRequest) error
	deleteFn               func(ctx context.Context, id string) error
	employeeNameFn         func(ctx context.Context, employeeID string) (string, error)
	hasOverlappingPeriodFn func(ctx context.Context, employeeID string, startDate, endDate time.Time, excludeID *string) (bool, error)
}

func (f *fakeLeaveRequestRepository) WithTx(tx *sql.Tx) leaverequest.Repository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}

func (f *fakeLeaveRequestRepository) Create(ctx context.Context, l *leaverequest.LeaveRequest) error {
	if f.createFn != nil {
		return f.createFn(ctx, l)
	}
	return nil
}

func (f *fakeLeaveRequestRepository) FindByID(ctx context.Context, id string) (*leaverequest.LeaveRequest, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, leaverequesterrors.ErrLeaveRequestNotFound
}

func (f *fakeLeaveRequestRepository) FindAll(ctx context.Context, filter leaverequest.ListFilter) ([]leaverequest.LeaveRequest, error) {
	if f.findAllFn != nil {
		return f.findAllFn(ctx, filter)
	}
	return nil, nil
}

func (f *fakeLeaveRequestRepository) Update(ctx context.Context, l *leaverequest.LeaveRequest) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, l)
	}
	return nil
}

func (f *fakeLeaveRequestRepository) Delete(ctx context.Context, id string) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id)
	}
	return nil
}

func (f *fakeLeaveRequestRepository) EmployeeName(ctx context.Context, employeeID string) (string, error) {
	if f.employeeNameFn != nil {
		return f.employeeNameFn(ctx, employeeID)
	}
	return "Jane Roe", nil
}

func (f *fakeLeaveRequestRepository) HasOverlappingPeriod(ctx context.Context, employeeID string, startDate, endDate time.Time, excludeID *string) (bool, error) {
	if f.hasOverlappingPeriodFn != nil {
		return f.hasOverlappingPeriodFn(ctx, employeeID, startDate, endDate, excludeID)
	}
	return false, nil
}

type engineCall struct {
	op   string
	key  balance.Key
	days int
}

type fakeBalanceEngine struct {
	calls     []engineCall
	reserveFn func(key balance.Key, days int) error
	releaseFn func(key balance.Key, days int) error
	adjustFn  func(oldKey balance.Key, oldDays int, newKey balance.Key, newDays int) error
}

func (f *fakeBalanceEngine) Reserve(ctx context.Context, tx *sql.Tx, key balance.Key, days int) error {
	f.calls = append(f.calls, engineCall{op: "reserve", key: key, days: days})
	if f.reserveFn != nil {
		return f.reserveFn(key, days)
	}
	return nil
}

func (f *fakeBalanceEngine) Release(ctx context.Context, tx *sql.Tx, key balance.Key, days int) error {
	f.calls = append(f.calls, engineCall{op: "release", key: key, days: days})
	if f.releaseFn != nil {
		return f.releaseFn(key, days)
	}
	return nil
}

func (f *fakeBalanceEngine) Adjust(ctx context.Context, tx *sql.Tx, oldKey balance.Key, oldDays int, newKey balance.Key, newDays int) error {
	f.calls = append(f.calls, engineCall{op: "adjust", key: newKey, days: newDays})
	if f.adjustFn != nil {
		return f.adjustFn(oldKey, oldDays, newKey, newDays)
	}
	return nil
}

type emittedNotification struct {
	recipient string
	notifType string
	message   string
	link      string
}

type fakeEmitter struct {
	emitted []emittedNotification
}

func (f *fakeEmitter) Emit(ctx context.Context, recipientUserID, notifType, message, link string) {
	f.emitted = append(f.emitted, emittedNotification{
		recipient: recipientUserID,
		notifType: notifType,
		message:   message,
		link:      link,
	})
}

type serviceDeps struct {
	db      *sql.DB
	sqlMock sqlmock.Sqlmock
	repo    *fakeLeaveRequestRepository
	engine  *fakeBalanceEngine
	emitter *fakeEmitter
	service leaverequest.Service
}

const adminRecipientID = "7f0f2f0a-8c3a-4a3e-9a4e-111111111111"

func setupServiceTest(t *testing.T) *serviceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	repo := &fakeLeaveRequestRepository{}
	engine := &fakeBalanceEngine{}
	emitter := &fakeEmitter{}
	svc := leaverequest.NewService(db, repo, engine, emitter, config.DayCountCalendar, adminRecipientID)

	return &serviceDeps{
		db:      db,
		sqlMock: sqlMock,
		repo:    repo,
		engine:  engine,
		emitter: emitter,
		service: svc,
	}
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func pendingRequest(id, employeeID, leaveTypeID, createdBy uuid.UUID) *leaverequest.LeaveRequest {
	start, _ := time.Parse("2006-01-02", "2024-03-01")
	end, _ := time.Parse("2006-01-02", "2024-03-05")
	return &leaverequest.LeaveRequest{
		ID:           id,
		EmployeeID:   employeeID,
		EmployeeName: "Jane Roe",
		LeaveTypeID:  leaveTypeID,
		StartDate:    start,
		EndDate:      end,
		TotalDays:    5,
		Reason:       "family matters",
		Status:       leaverequest.StatusPending,
		CreatedBy:    createdBy,
	}
}

func TestLeaveRequestService_Create(t *testing.T) {
	ctx := context.Background()
	actorID := uuid.New().String()
	employeeID := uuid.New().String()
	leaveTypeID := uuid.New().String()

	req := leaverequest.CreateLeaveRequestRequest{
		EmployeeID:  employeeID,
		LeaveTypeID: leaveTypeID,
		StartDate:   "2024-03-01",
		EndDate:     "2024-03-05",
		Reason:      "family matters",
	}

	t.Run("success reserves five days and notifies the admin", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)

		var persisted *leaverequest.LeaveRequest
		deps.repo.createFn = func(ctx context.Context, l *leaverequest.LeaveRequest) error {
			persisted = l
			return nil
		}

		resp, err := deps.service.Create(ctx, actorID, req)
		assert.NoError(t, err)

		assert.Equal(t, leaverequest.StatusPending, resp.Status)
		assert.Equal(t, 5, resp.TotalDays)
		assert.Equal(t, "Jane Roe", resp.EmployeeName)
		assert.NotNil(t, persisted)

		assert.Len(t, deps.engine.calls, 1)
		call := deps.engine.calls[0]
		assert.Equal(t, "reserve", call.op)
		assert.Equal(t, 5, call.days)
		assert.Equal(t, uuid.MustParse(employeeID), call.key.EmployeeID)
		assert.Equal(t, uuid.MustParse(leaveTypeID), call.key.LeaveTypeID)
		assert.Equal(t, 2024, call.key.Year)

		assert.Len(t, deps.emitter.emitted, 1)
		assert.Equal(t, adminRecipientID, deps.emitter.emitted[0].recipient)
		assert.Equal(t, notification.TypeLeaveRequestCreated, deps.emitter.emitted[0].notifType)
		assert.Contains(t, deps.emitter.emitted[0].message, "Jane Roe")

		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative insufficient balance aborts without persisting", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)

		deps.engine.reserveFn = func(key balance.Key, days int) error {
			return balanceerrors.NewInsufficientBalance(
				decimal.NewFromInt(int64(days)), decimal.NewFromInt(2))
		}
		created := false
		deps.repo.createFn = func(ctx context.Context, l *leaverequest.LeaveRequest) error {
			created = true
			return nil
		}

		_, err := deps.service.Create(ctx, actorID, req)
		assert.True(t, balanceerrors.IsInsufficientBalance(err))
		assert.False(t, created)
		assert.Empty(t, deps.emitter.emitted)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative end before start fails before any transaction", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		bad := req
		bad.StartDate = "2024-03-05"
		bad.EndDate = "2024-03-01"

		_, err := deps.service.Create(ctx, actorID, bad)
		assert.ErrorIs(t, err, leaverequesterrors.ErrInvalidDateRange)
		assert.Empty(t, deps.engine.calls)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative overlapping period conflicts", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.repo.hasOverlappingPeriodFn = func(ctx context.Context, eid string, s, e time.Time, excludeID *string) (bool, error) {
			return true, nil
		}

		_, err := deps.service.Create(ctx, actorID, req)
		assert.ErrorIs(t, err, leaverequesterrors.ErrLeaveOverlap)
		assert.Empty(t, deps.engine.calls)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative weekend-only range counts zero business days and is rejected", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		svc := leaverequest.NewService(
			deps.db, deps.repo, deps.engine, deps.emitter,
			config.DayCountBusiness, adminRecipientID,
		)

		expectTx(t, deps.sqlMock, false)

		weekend := req
		weekend.StartDate = "2024-03-02"
		weekend.EndDate = "2024-03-03"

		_, err := svc.Create(ctx, actorID, weekend)
		assert.ErrorIs(t, err, leaverequesterrors.ErrNoWorkingDays)
		assert.Empty(t, deps.engine.calls)
		assert.Empty(t, deps.emitter.emitted)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("retries once on a serialization conflict", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		expectTx(t, deps.sqlMock, true)

		attempts := 0
		deps.repo.createFn = func(ctx context.Context, l *leaverequest.LeaveRequest) error {
			attempts++
			if attempts == 1 {
				return &pgconn.PgError{Code: "40001"}
			}
			return nil
		}

		resp, err := deps.service.Create(ctx, actorID, req)
		assert.NoError(t, err)
		assert.Equal(t, 2, attempts)
		assert.Equal(t, leaverequest.StatusPending, resp.Status)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative persistent conflict surfaces 409", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		expectTx(t, deps.sqlMock, false)

		deps.repo.createFn = func(ctx context.Context, l *leaverequest.LeaveRequest) error {
			return &pgconn.PgError{Code: "40P01"}
		}

		_, err := deps.service.Create(ctx, actorID, req)
		assert.ErrorIs(t, err, apperror.ErrConflict)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestLeaveRequestService_Transitions(t *testing.T) {
	ctx := context.Background()
	actorID := uuid.New()
	requestID := uuid.New()
	employeeID := uuid.New()
	leaveTypeID := uuid.New()
	createdBy := uuid.New()

	findPending := func(deps *serviceDeps) {
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leaverequest.LeaveRequest, error) {
			assert.Equal(t, requestID.String(), id)
			return pendingRequest(requestID, employeeID, leaveTypeID, createdBy), nil
		}
	}

	t.Run("approve keeps the reservation and notifies the filer", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		findPending(deps)

		resp, err := deps.service.Approve(ctx, actorID.String(), requestID.String())
		assert.NoError(t, err)
		assert.Equal(t, leaverequest.StatusApproved, resp.Status)
		assert.Empty(t, deps.engine.calls)

		assert.Len(t, deps.emitter.emitted, 1)
		assert.Equal(t, createdBy.String(), deps.emitter.emitted[0].recipient)
		assert.Equal(t, notification.TypeLeaveRequestApproved, deps.emitter.emitted[0].notifType)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("reject releases the reservation and notifies the filer", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		findPending(deps)

		resp, err := deps.service.Reject(ctx, actorID.String(), requestID.String(), "headcount freeze")
		assert.NoError(t, err)
		assert.Equal(t, leaverequest.StatusRejected, resp.Status)

		assert.Len(t, deps.engine.calls, 1)
		assert.Equal(t, "release", deps.engine.calls[0].op)
		assert.Equal(t, 5, deps.engine.calls[0].days)
		assert.Equal(t, 2024, deps.engine.calls[0].key.Year)

		assert.Len(t, deps.emitter.emitted, 1)
		assert.Equal(t, createdBy.String(), deps.emitter.emitted[0].recipient)
		assert.Equal(t, notification.TypeLeaveRequestRejected, deps.emitter.emitted[0].notifType)
		assert.Contains(t, deps.emitter.emitted[0].message, "headcount freeze")
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("cancel releases the reservation without a notification", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		findPending(deps)

		resp, err := deps.service.Cancel(ctx, actorID.String(), requestID.String())
		assert.NoError(t, err)
		assert.Equal(t, leaverequest.StatusCancelled, resp.Status)

		assert.Len(t, deps.engine.calls, 1)
		assert.Equal(t, "release", deps.engine.calls[0].op)
		assert.Empty(t, deps.emitter.emitted)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative reject requires a reason", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.Reject(ctx, actorID.String(), requestID.String(), "")
		assert.ErrorIs(t, err, leaverequesterrors.ErrRejectionReasonRequired)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative terminal status refuses transitions and reports it", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leaverequest.LeaveRequest, error) {
			l := pendingRequest(requestID, employeeID, leaveTypeID, createdBy)
			l.Status = leaverequest.StatusRejected
			return l, nil
		}

		_, err := deps.service.Approve(ctx, actorID.String(), requestID.String())
		assert.Error(t, err)

		var appErr *apperror.AppError
		assert.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperror.CodeInvalidState, appErr.Code)
		details, ok := appErr.Details.(map[string]string)
		assert.True(t, ok)
		assert.Equal(t, leaverequest.StatusRejected, details["currentStatus"])

		assert.Empty(t, deps.engine.calls)
		assert.Empty(t, deps.emitter.emitted)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative repeated approve fails", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leaverequest.LeaveRequest, error) {
			l := pendingRequest(requestID, employeeID, leaveTypeID, createdBy)
			l.Status = leaverequest.StatusApproved
			return l, nil
		}

		_, err := deps.service.Approve(ctx, actorID.String(), requestID.String())
		assert.Error(t, err)
		assert.Empty(t, deps.emitter.emitted)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestLeaveRequestService_Update(t *testing.T) {
	ctx := context.Background()
	actorID := uuid.New()
	requestID := uuid.New()
	employeeID := uuid.New()
	leaveTypeID := uuid.New()
	createdBy := uuid.New()

	req := leaverequest.UpdateLeaveRequestRequest{
		LeaveTypeID: leaveTypeID.String(),
		StartDate:   "2024-03-01",
		EndDate:     "2024-03-03",
		Reason:      "shortened",
	}

	t.Run("success adjusts the reservation to the new day count", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leaverequest.LeaveRequest, error) {
			return pendingRequest(requestID, employeeID, leaveTypeID, createdBy), nil
		}

		var adjOld, adjNew int
		deps.engine.adjustFn = func(oldKey balance.Key, oldDays int, newKey balance.Key, newDays int) error {
			adjOld, adjNew = oldDays, newDays
			assert.Equal(t, oldKey, newKey)
			return nil
		}

		resp, err := deps.service.Update(ctx, actorID.String(), requestID.String(), req)
		assert.NoError(t, err)
		assert.Equal(t, 5, adjOld)
		assert.Equal(t, 3, adjNew)
		assert.Equal(t, 3, resp.TotalDays)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative only pending requests are editable", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leaverequest.LeaveRequest, error) {
			l := pendingRequest(requestID, employeeID, leaveTypeID, createdBy)
			l.Status = leaverequest.StatusApproved
			return l, nil
		}

		_, err := deps.service.Update(ctx, actorID.String(), requestID.String(), req)
		assert.ErrorIs(t, err, leaverequesterrors.ErrNotEditable)
		assert.Empty(t, deps.engine.calls)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative insufficient balance fails the whole update", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leaverequest.LeaveRequest, error) {
			return pendingRequest(requestID, employeeID, leaveTypeID, createdBy), nil
		}
		deps.engine.adjustFn = func(oldKey balance.Key, oldDays int, newKey balance.Key, newDays int) error {
			return balanceerrors.NewInsufficientBalance(decimal.NewFromInt(3), decimal.NewFromInt(1))
		}
		updated := false
		deps.repo.updateFn = func(ctx context.Context, l *leaverequest.LeaveRequest) error {
			updated = true
			return nil
		}

		_, err := deps.service.Update(ctx, actorID.String(), requestID.String(), req)
		assert.True(t, balanceerrors.IsInsufficientBalance(err))
		assert.False(t, updated)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestLeaveRequestService_Delete(t *testing.T) {
	ctx := context.Background()
	requestID := uuid.New().String()

	t.Run("success removes the row and leaves the ledger alone", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		deleted := false
		deps.repo.deleteFn = func(ctx context.Context, id string) error {
			assert.Equal(t, requestID, id)
			deleted = true
			return nil
		}

		err := deps.service.Delete(ctx, requestID)
		assert.NoError(t, err)
		assert.True(t, deleted)
		assert.Empty(t, deps.engine.calls)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestLeaveRequestService_GetAll(t *testing.T) {
	ctx := context.Background()

	t.Run("negative unknown status filter", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.GetAll(ctx, leaverequest.ListFilter{Status: "archived"})
		assert.Error(t, err)
	})

	t.Run("success passes the filter through", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		employeeID := uuid.New().String()
		deps.repo.findAllFn = func(ctx context.Context, filter leaverequest.ListFilter) ([]leaverequest.LeaveRequest, error) {
			assert.Equal(t, employeeID, filter.EmployeeID)
			assert.Equal(t, leaverequest.StatusPending, filter.Status)
			return nil, nil
		}

		resp, err := deps.service.GetAll(ctx, leaverequest.ListFilter{
			EmployeeID: employeeID,
			Status:     leaverequest.StatusPending,
		})
		assert.NoError(t, err)
		assert.Empty(t, resp)
	})
}
