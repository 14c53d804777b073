package pgsql

import (
	"errors"
	"fmt"
	"testing"

	"github.com/SscSPs/bizcore/internal/apperrors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"no rows", pgx.ErrNoRows, apperrors.ErrNotFound},
		{"wrapped no rows", fmt.Errorf("scan: %w", pgx.ErrNoRows), apperrors.ErrNotFound},
		{"unique violation", &pgconn.PgError{Code: pgUniqueViolation, ConstraintName: "ux_businesses_owner_name"}, apperrors.ErrDuplicate},
		{"foreign key", &pgconn.PgError{Code: pgForeignKey}, apperrors.ErrNotFound},
		{"check violation", &pgconn.PgError{Code: pgCheckViolation, ConstraintName: "businesses_balance_check"}, apperrors.ErrValidation},
		{"other pg error", &pgconn.PgError{Code: "40001"}, apperrors.ErrPersistence},
		{"connection error", errors.New("connection refused"), apperrors.ErrPersistence},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, mapError(tt.err, "save business"), tt.want)
		})
	}
	assert.NoError(t, mapError(nil, "noop"))
}

func TestStoreErrorKeepsCause(t *testing.T) {
	cause := errors.New("broken pipe")
	err := storeError("failed to commit transaction", cause)

	var appErr *apperrors.AppError
	assert.ErrorAs(t, err, &appErr)
	assert.Equal(t, 500, appErr.Code)
	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, apperrors.ErrPersistence)
}

func TestExpectOne(t *testing.T) {
	assert.NoError(t, expectOne(1, "update business 1"))
	assert.ErrorIs(t, expectOne(0, "update business 1"), apperrors.ErrNotFound)
}

func TestHiringLockKey(t *testing.T) {
	assert.Equal(t, "hiring_request:7:alice", hiringLockKey(7, "alice"))
	assert.NotEqual(t, hiringLockKey(7, "alice"), hiringLockKey(7, "bob"))
	assert.NotEqual(t, hiringLockKey(7, "alice"), hiringLockKey(8, "alice"))
}
