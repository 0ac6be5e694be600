package balance

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	balanceerrors "github.com/parryG11/hr/internal/balance/errors"
	"github.com/parryG11/hr/internal/shared/apperror"
	"github.com/parryG11/hr/internal/shared/contextutil"
)

// EmployeeChecker reports whether an employee exists. Implemented by the
// employee repository.
type EmployeeChecker interface {
	Exists(ctx context.Context, id string) (bool, error)
}

// LeaveTypeChecker reports whether a leave type exists. Implemented by
// the leavetype repository.
type LeaveTypeChecker interface {
	Exists(ctx context.Context, id string) (bool, error)
}

//go:generate mockgen -source=balance_service.go -destination=mock/balance_service_mock.go -package=mock
type Service interface {
	Allocate(ctx context.Context, req AllocateBalanceRequest) (BalanceResponse, error)
	Get(ctx context.Context, employeeID, leaveTypeID string, year int) (BalanceResponse, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]BalanceResponse, error)
}

type service struct {
	repo       Repository
	employees  EmployeeChecker
	leaveTypes LeaveTypeChecker
	logger     *zap.Logger
}

func NewService(repo Repository, employees EmployeeChecker, leaveTypes LeaveTypeChecker, logger ...*zap.Logger) Service {
	l := zap.L().Named("balance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("balance.service")
	}
	return &service{
		repo:       repo,
		employees:  employees,
		leaveTypes: leaveTypes,
		logger:     l,
	}
}

func (s *service) Allocate(ctx context.Context, req AllocateBalanceRequest) (BalanceResponse, error) {
	key, err := parseKey(req.EmployeeID, req.LeaveTypeID, req.Year)
	if err != nil {
		return BalanceResponse{}, err
	}

	allocated, err := decimal.NewFromString(req.Allocated)
	if err != nil {
		return BalanceResponse{}, apperror.InvalidField("allocated")
	}

	exists, err := s.employees.Exists(ctx, req.EmployeeID)
	if err != nil {
		return BalanceResponse{}, err
	}
	if !exists {
		return BalanceResponse{}, balanceerrors.ErrUnknownEmployee
	}

	exists, err = s.leaveTypes.Exists(ctx, req.LeaveTypeID)
	if err != nil {
		return BalanceResponse{}, err
	}
	if !exists {
		return BalanceResponse{}, balanceerrors.ErrUnknownLeaveType
	}

	b, err := s.repo.Allocate(ctx, key, allocated)
	if err != nil {
		return BalanceResponse{}, err
	}

	s.logger.Info("leave balance allocated",
		zap.String("request_id", contextutil.GetRequestID(ctx)),
		zap.String("employee_id", req.EmployeeID),
		zap.String("leave_type_id", req.LeaveTypeID),
		zap.Int("year", req.Year),
		zap.String("allocated", allocated.String()),
	)

	return mapToResponse(*b), nil
}

func (s *service) Get(ctx context.Context, employeeID, leaveTypeID string, year int) (BalanceResponse, error) {
	key, err := parseKey(employeeID, leaveTypeID, year)
	if err != nil {
		return BalanceResponse{}, err
	}

	b, err := s.repo.Get(ctx, key)
	if err != nil {
		return BalanceResponse{}, err
	}
	return mapToResponse(*b), nil
}

func (s *service) ListByEmployee(ctx context.Context, employeeID string) ([]BalanceResponse, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return nil, apperror.InvalidField("employeeId")
	}

	balances, err := s.repo.ListByEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	resp := make([]BalanceResponse, len(balances))
	for i, b := range balances {
		resp[i] = mapToResponse(b)
	}
	return resp, nil
}

func parseKey(employeeID, leaveTypeID string, year int) (Key, error) {
	empID, err := uuid.Parse(employeeID)
	if err != nil {
		return Key{}, apperror.InvalidField("employeeId")
	}
	ltID, err := uuid.Parse(leaveTypeID)
	if err != nil {
		return Key{}, apperror.InvalidField("leaveTypeId")
	}
	return Key{EmployeeID: empID, LeaveTypeID: ltID, Year: year}, nil
}
