package services_test

import (
	"testing"
	"time"

	"github.com/SscSPs/bizcore/internal/apperrors"
	"github.com/SscSPs/bizcore/internal/core/services"
	"github.com/SscSPs/bizcore/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPositionService_Lifecycle(t *testing.T) {
	f := newFixture(t)
	svc := services.NewPositionService(f.reg, f.store, f.store, f.opts()...)
	b := f.business(t, "owner", "Acme", 0)

	pos, err := svc.CreatePosition(f.ctx, b.ID, dto.CreatePositionRequest{
		Title:        " Baker ",
		BaseSalary:   decimal.NewFromInt(120),
		MaxEmployees: 2,
	}, "owner")
	require.NoError(t, err)
	assert.Equal(t, "Baker", pos.Title)
	assert.True(t, pos.IsActive)

	title, capacity := "Head Baker", 3
	f.clock.Advance(time.Hour)
	updated, err := svc.UpdatePosition(f.ctx, pos.ID, dto.UpdatePositionRequest{Title: &title, MaxEmployees: &capacity}, "owner")
	require.NoError(t, err)
	assert.Equal(t, "Head Baker", updated.Title)
	assert.Equal(t, 3, updated.MaxEmployees)
	assert.Equal(t, t0.Add(time.Hour), updated.LastUpdatedAt)

	require.NoError(t, svc.DeactivatePosition(f.ctx, pos.ID, "owner"))
	require.NoError(t, svc.DeactivatePosition(f.ctx, pos.ID, "owner"), "deactivating twice is a no-op")

	open, err := svc.ListPositions(f.ctx, b.ID, false)
	require.NoError(t, err)
	assert.Empty(t, open)
	all, err := svc.ListPositions(f.ctx, b.ID, true)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.False(t, all[0].IsActive)

	_, err = svc.ListPositions(f.ctx, 4242, false)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestPositionService_Rejections(t *testing.T) {
	f := newFixture(t)
	svc := services.NewPositionService(f.reg, f.store, f.store, f.opts()...)
	b := f.business(t, "owner", "Acme", 0)
	valid := dto.CreatePositionRequest{Title: "Clerk", BaseSalary: decimal.NewFromInt(10), MaxEmployees: 1}

	bad := valid
	bad.Title = " "
	_, err := svc.CreatePosition(f.ctx, b.ID, bad, "owner")
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	bad = valid
	bad.BaseSalary = decimal.Zero
	_, err = svc.CreatePosition(f.ctx, b.ID, bad, "owner")
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	bad = valid
	bad.BaseSalary = decimal.RequireFromString("10.001")
	_, err = svc.CreatePosition(f.ctx, b.ID, bad, "owner")
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	bad = valid
	bad.MaxEmployees = 0
	_, err = svc.CreatePosition(f.ctx, b.ID, bad, "owner")
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = svc.CreatePosition(f.ctx, b.ID, valid, "stranger")
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	pos, err := svc.CreatePosition(f.ctx, b.ID, valid, "owner")
	require.NoError(t, err)
	zero := 0
	_, err = svc.UpdatePosition(f.ctx, pos.ID, dto.UpdatePositionRequest{MaxEmployees: &zero}, "owner")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	fine := decimal.RequireFromString("9.999")
	_, err = svc.UpdatePosition(f.ctx, pos.ID, dto.UpdatePositionRequest{BaseSalary: &fine}, "owner")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.ErrorIs(t, svc.DeactivatePosition(f.ctx, pos.ID, "stranger"), apperrors.ErrForbidden)
	_, err = svc.UpdatePosition(f.ctx, 999, dto.UpdatePositionRequest{}, "owner")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestPositionService_ManagerMayCreate(t *testing.T) {
	f := newFixture(t)
	svc := services.NewPositionService(f.reg, f.store, f.store, f.opts()...)
	b := f.business(t, "owner", "Acme", 0)
	mgr := f.position(t, b.ID, 1, true)
	f.hire(t, b.ID, mgr.ID, "mgr", 100)
	clerk := f.position(t, b.ID, 1, false)
	f.hire(t, b.ID, clerk.ID, "clerk", 100)

	req := dto.CreatePositionRequest{Title: "Porter", BaseSalary: decimal.NewFromInt(10), MaxEmployees: 1}
	_, err := svc.CreatePosition(f.ctx, b.ID, req, "mgr")
	assert.NoError(t, err)
	_, err = svc.CreatePosition(f.ctx, b.ID, req, "clerk")
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	// a deactivated manager position no longer grants rights
	require.NoError(t, svc.DeactivatePosition(f.ctx, mgr.ID, "owner"))
	_, err = svc.CreatePosition(f.ctx, b.ID, req, "mgr")
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestEmployeeService_FireAndQuit(t *testing.T) {
	f := newFixture(t)
	svc := services.NewEmployeeService(f.reg, f.store, f.store, f.opts()...)
	b := f.business(t, "owner", "Acme", 0)
	p := f.position(t, b.ID, 5, false)
	f.hire(t, b.ID, p.ID, "p1", 100)
	f.hire(t, b.ID, p.ID, "p2", 100)

	assert.ErrorIs(t, svc.FireEmployee(f.ctx, b.ID, "p1", "p2", ""), apperrors.ErrForbidden)
	require.NoError(t, svc.FireEmployee(f.ctx, b.ID, "p1", "owner", "late again"))
	assert.ErrorIs(t, svc.FireEmployee(f.ctx, b.ID, "p1", "owner", ""), apperrors.ErrNotFound)
	assert.Contains(t, f.notes.For("p1")[0], "Acme")

	require.NoError(t, svc.QuitBusiness(f.ctx, b.ID, "p2"))
	assert.ErrorIs(t, svc.QuitBusiness(f.ctx, b.ID, "p2"), apperrors.ErrNotFound)
	assert.Len(t, f.notes.For("owner"), 1)

	active, err := svc.ListEmployees(f.ctx, b.ID, "anyone", false)
	require.NoError(t, err)
	assert.Empty(t, active)

	_, err = svc.ListEmployees(f.ctx, b.ID, "anyone", true)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	history, err := svc.ListEmployees(f.ctx, b.ID, "owner", true)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "fired: late again", history[0].Notes)
	assert.Equal(t, "quit", history[1].Notes)
	require.NotNil(t, history[0].TerminatedAt)
	assert.Equal(t, t0, *history[0].TerminatedAt)
}

func TestEmployeeService_Rehire(t *testing.T) {
	f := newFixture(t)
	svc := services.NewEmployeeService(f.reg, f.store, f.store, f.opts()...)
	b := f.business(t, "owner", "Acme", 0)
	p := f.position(t, b.ID, 1, false)
	f.hire(t, b.ID, p.ID, "p1", 100)
	require.NoError(t, svc.QuitBusiness(f.ctx, b.ID, "p1"))

	// the old employment stays as history; the slot is free again
	emp, err := svc.AdminHire(f.ctx, dto.AdminHireRequest{BusinessID: b.ID, PositionID: p.ID, PlayerID: "p1"}, "admin")
	require.NoError(t, err)
	assert.True(t, emp.CurrentSalary.Equal(decimal.NewFromInt(100)), "defaults to base salary")

	jobs, err := svc.ListEmployments(f.ctx, "p1")
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, emp.ID, jobs[0].ID)
}

func TestEmployeeService_SetSalary(t *testing.T) {
	f := newFixture(t)
	svc := services.NewEmployeeService(f.reg, f.store, f.store, f.opts()...)
	b := f.business(t, "owner", "Acme", 0)
	e := f.hire(t, b.ID, f.position(t, b.ID, 2, false).ID, "p1", 100)

	updated, err := svc.SetSalary(f.ctx, e.ID, "owner", decimal.NewFromInt(175))
	require.NoError(t, err)
	assert.True(t, updated.CurrentSalary.Equal(decimal.NewFromInt(175)))
	stored, err := f.store.FindEmployeeByID(f.ctx, e.ID)
	require.NoError(t, err)
	assert.True(t, stored.CurrentSalary.Equal(decimal.NewFromInt(175)))
	assert.Len(t, f.notes.For("p1"), 1)

	_, err = svc.SetSalary(f.ctx, e.ID, "owner", decimal.Zero)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	_, err = svc.SetSalary(f.ctx, e.ID, "owner", decimal.RequireFromString("175.555"))
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	_, err = svc.SetSalary(f.ctx, e.ID, "p1", decimal.NewFromInt(1000))
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	require.NoError(t, svc.FireEmployee(f.ctx, b.ID, "p1", "owner", ""))
	_, err = svc.SetSalary(f.ctx, e.ID, "owner", decimal.NewFromInt(200))
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)
}

func TestEmployeeService_AdminHire(t *testing.T) {
	f := newFixture(t)
	svc := services.NewEmployeeService(f.reg, f.store, f.store, f.opts()...)
	b := f.business(t, "owner", "Acme", 0)
	p := f.position(t, b.ID, 1, false)
	salary := decimal.NewFromInt(250)
	req := dto.AdminHireRequest{BusinessID: b.ID, PositionID: p.ID, PlayerID: "p1", Salary: &salary}

	_, err := svc.AdminHire(f.ctx, req, "owner")
	assert.ErrorIs(t, err, apperrors.ErrForbidden, "owners use the consent workflow")

	emp, err := svc.AdminHire(f.ctx, req, "admin")
	require.NoError(t, err)
	assert.True(t, emp.CurrentSalary.Equal(salary))
	assert.Nil(t, emp.TerminatedAt)

	_, err = svc.AdminHire(f.ctx, req, "admin")
	assert.ErrorIs(t, err, apperrors.ErrAlreadyEmployed)

	req.PlayerID = "p2"
	_, err = svc.AdminHire(f.ctx, req, "admin")
	assert.ErrorIs(t, err, apperrors.ErrPositionFull)
}
