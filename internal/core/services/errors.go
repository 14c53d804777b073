package services

import (
	"errors"
	"fmt"

	"github.com/SscSPs/bizcore/internal/apperrors"
	"github.com/SscSPs/bizcore/internal/core/domain"
	"github.com/shopspring/decimal"
)

func isNotFound(err error) bool {
	return errors.Is(err, apperrors.ErrNotFound)
}

// storeErr wraps repository failures with apperrors.ErrPersistence unless they
// already carry a domain sentinel the caller should see.
func storeErr(err error, format string, args ...any) error {
	for _, sentinel := range []error{
		apperrors.ErrNotFound,
		apperrors.ErrDuplicate,
		apperrors.ErrDuplicatePendingRequest,
		apperrors.ErrInvalidState,
		apperrors.ErrAlreadyEmployed,
		apperrors.ErrPositionFull,
		apperrors.ErrValidation,
		apperrors.ErrInsufficientFunds,
		apperrors.ErrPersistence,
	} {
		if errors.Is(err, sentinel) {
			return fmt.Errorf(format+": %w", append(args, err)...)
		}
	}
	return fmt.Errorf("%w: "+format+": %w", append(append([]any{apperrors.ErrPersistence}, args...), err)...)
}

// amountErr rejects amounts that are not positive whole cents.
func amountErr(what string, d decimal.Decimal) error {
	if domain.IsValidAmount(d) {
		return nil
	}
	return validationErr("%s must be positive with at most %d decimal places, got %s", what, domain.MoneyPlaces, d)
}

func validationErr(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{apperrors.ErrValidation}, args...)...)
}
