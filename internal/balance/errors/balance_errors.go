package balanceerrors

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/parryG11/hr/internal/shared/apperror"
)

var (
	ErrBalanceNotFound = apperror.New(
		apperror.CodeNotFound,
		"no leave balance allocated for this employee, leave type and year",
		http.StatusNotFound,
	)
	ErrInvalidAllocation = apperror.New(
		apperror.CodeInvalidInput,
		"allocated days must not be negative or below the days already used",
		http.StatusBadRequest,
	)
	ErrUnknownEmployee = apperror.New(
		apperror.CodeInvalidInput,
		"employee does not exist",
		http.StatusBadRequest,
	)
	ErrUnknownLeaveType = apperror.New(
		apperror.CodeInvalidInput,
		"leave type does not exist",
		http.StatusBadRequest,
	)
)

// NewInsufficientBalance reports a reservation that exceeds the remaining
// balance, carrying the requested and available amounts for the caller.
func NewInsufficientBalance(requested, available decimal.Decimal) *apperror.AppError {
	shortfall := requested.Sub(available)
	return apperror.New(
		apperror.CodeInsufficientBalance,
		fmt.Sprintf("insufficient leave balance: requested %s days, %s available (short by %s)",
			requested.String(), available.String(), shortfall.String()),
		http.StatusUnprocessableEntity,
	).WithDetails(map[string]string{
		"requested": requested.String(),
		"available": available.String(),
		"shortfall": shortfall.String(),
	})
}

// NewReleaseExceedsUsed reports a release that would drive the used
// counter below zero. It indicates a bookkeeping bug, not user input.
func NewReleaseExceedsUsed(released, used decimal.Decimal) *apperror.AppError {
	return apperror.New(
		apperror.CodeInternalError,
		fmt.Sprintf("cannot release %s days: only %s currently used", released.String(), used.String()),
		http.StatusInternalServerError,
	)
}

func IsInsufficientBalance(err error) bool {
	var appErr *apperror.AppError
	return errors.As(err, &appErr) && appErr.Code == apperror.CodeInsufficientBalance
}
