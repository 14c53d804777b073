package services_test

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/SscSPs/bizcore/internal/apperrors"
	"github.com/SscSPs/bizcore/internal/core/domain"
	"github.com/SscSPs/bizcore/internal/core/services"
	"github.com/SscSPs/bizcore/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type HiringServiceTestSuite struct {
	suite.Suite
	f        *fixture
	svc      *services.HiringService
	business domain.Business
	position domain.Position
}

func (s *HiringServiceTestSuite) SetupTest() {
	s.f = newFixture(s.T())
	s.svc = services.NewHiringService(s.f.reg, s.f.store.Provider(), 24*time.Hour, s.f.opts()...)
	s.business = s.f.business(s.T(), "owner", "Acme", 1000)
	s.position = s.f.position(s.T(), s.business.ID, 2, false)
}

func TestHiringServiceTestSuite(t *testing.T) {
	suite.Run(t, new(HiringServiceTestSuite))
}

func (s *HiringServiceTestSuite) offer(target string) dto.CreateHiringRequest {
	return dto.CreateHiringRequest{
		BusinessID:     s.business.ID,
		PositionID:     s.position.ID,
		TargetPlayerID: target,
		OfferedSalary:  decimal.NewFromInt(150),
		Message:        "join us",
	}
}

func (s *HiringServiceTestSuite) create(target string) *domain.HiringRequest {
	req, err := s.svc.CreateHiringRequest(s.f.ctx, s.offer(target), "owner")
	s.Require().NoError(err)
	return req
}

func (s *HiringServiceTestSuite) activeEmployee(player string) bool {
	_, err := s.f.store.FindActiveEmployee(s.f.ctx, s.business.ID, player)
	return err == nil
}

func (s *HiringServiceTestSuite) TestCreateHiringRequest_Success() {
	req := s.create("p1")

	s.Equal(domain.HiringPending, req.Status)
	s.Equal(t0, req.RequestTime)
	s.Equal(t0.Add(24*time.Hour), req.ExpirationTime)
	s.Equal("owner", req.RequesterID)
	s.Len(s.f.notes.For("p1"), 1)

	stored, err := s.f.store.FindHiringRequestByID(s.f.ctx, req.ID)
	s.Require().NoError(err)
	s.Equal(domain.HiringPending, stored.Status)
}

func (s *HiringServiceTestSuite) TestCreateHiringRequest_Validation() {
	cases := map[string]func(r *dto.CreateHiringRequest){
		"self target":    func(r *dto.CreateHiringRequest) { r.TargetPlayerID = "owner" },
		"zero salary":    func(r *dto.CreateHiringRequest) { r.OfferedSalary = decimal.Zero },
		"sub-cent salary": func(r *dto.CreateHiringRequest) {
			r.OfferedSalary = decimal.RequireFromString("12.345")
		},
		"missing target": func(r *dto.CreateHiringRequest) { r.TargetPlayerID = " " },
		"missing ids":    func(r *dto.CreateHiringRequest) { r.PositionID = 0 },
	}
	for name, mutate := range cases {
		s.Run(name, func() {
			req := s.offer("p1")
			mutate(&req)
			_, err := s.svc.CreateHiringRequest(s.f.ctx, req, "owner")
			s.ErrorIs(err, apperrors.ErrValidation)
		})
	}
}

func (s *HiringServiceTestSuite) TestCreateHiringRequest_NotFound() {
	req := s.offer("p1")
	req.BusinessID = 999
	_, err := s.svc.CreateHiringRequest(s.f.ctx, req, "owner")
	s.ErrorIs(err, apperrors.ErrNotFound)

	other := s.f.business(s.T(), "owner", "Other", 0)
	foreign := s.f.position(s.T(), other.ID, 1, false)
	req = s.offer("p1")
	req.PositionID = foreign.ID
	_, err = s.svc.CreateHiringRequest(s.f.ctx, req, "owner")
	s.ErrorIs(err, apperrors.ErrNotFound, "position of another business")
}

func (s *HiringServiceTestSuite) TestCreateHiringRequest_Permissions() {
	_, err := s.svc.CreateHiringRequest(s.f.ctx, s.offer("p1"), "stranger")
	s.ErrorIs(err, apperrors.ErrForbidden)

	mgrPos := s.f.position(s.T(), s.business.ID, 1, true)
	s.f.hire(s.T(), s.business.ID, mgrPos.ID, "mgr", 200)
	_, err = s.svc.CreateHiringRequest(s.f.ctx, s.offer("p1"), "mgr")
	s.NoError(err, "manager may hire")

	_, err = s.svc.CreateHiringRequest(s.f.ctx, s.offer("p2"), "admin")
	s.NoError(err, "admin may hire")
}

func (s *HiringServiceTestSuite) TestCreateHiringRequest_AlreadyEmployed() {
	s.f.hire(s.T(), s.business.ID, s.position.ID, "p1", 100)
	_, err := s.svc.CreateHiringRequest(s.f.ctx, s.offer("p1"), "owner")
	s.ErrorIs(err, apperrors.ErrAlreadyEmployed)
}

func (s *HiringServiceTestSuite) TestCreateHiringRequest_DuplicatePending() {
	s.create("p1")

	_, err := s.svc.CreateHiringRequest(s.f.ctx, s.offer("p1"), "owner")
	s.ErrorIs(err, apperrors.ErrDuplicatePendingRequest)

	// a stale PENDING request no longer blocks a new offer
	s.f.clock.Advance(25 * time.Hour)
	_, err = s.svc.CreateHiringRequest(s.f.ctx, s.offer("p1"), "owner")
	s.NoError(err)
}

func (s *HiringServiceTestSuite) TestCreateHiringRequest_ConcurrentSinglePending() {
	const workers = 16
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		created   int
		duplicate int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.svc.CreateHiringRequest(s.f.ctx, s.offer("p1"), "owner")
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				created++
			} else if assert.ErrorIs(s.T(), err, apperrors.ErrDuplicatePendingRequest) {
				duplicate++
			}
		}()
	}
	wg.Wait()

	s.Equal(1, created)
	s.Equal(workers-1, duplicate)
	pending := domain.HiringPending
	list, err := s.svc.ListForBusiness(s.f.ctx, s.business.ID, "owner", &pending)
	s.Require().NoError(err)
	s.Len(list, 1)
}

func (s *HiringServiceTestSuite) TestCreateHiringRequest_SinglePendingAcrossInstances() {
	// each instance has its own in-process lock; only the store guard is shared
	replicas := []*services.HiringService{
		s.svc,
		services.NewHiringService(s.f.reg, s.f.store.Provider(), 24*time.Hour, s.f.opts()...),
	}
	const perReplica = 8
	var (
		wg      sync.WaitGroup
		created atomic.Int32
	)
	for i := 0; i < perReplica; i++ {
		for _, svc := range replicas {
			wg.Add(1)
			go func(svc *services.HiringService) {
				defer wg.Done()
				_, err := svc.CreateHiringRequest(s.f.ctx, s.offer("p1"), "owner")
				if err == nil {
					created.Add(1)
					return
				}
				assert.ErrorIs(s.T(), err, apperrors.ErrDuplicatePendingRequest)
			}(svc)
		}
	}
	wg.Wait()

	s.Equal(int32(1), created.Load())
}

func (s *HiringServiceTestSuite) TestAcceptHiringRequest_CreatesEmployee() {
	req := s.create("p1")
	s.f.clock.Advance(time.Hour)

	emp, err := s.svc.AcceptHiringRequest(s.f.ctx, req.ID, "p1")
	s.Require().NoError(err)
	s.Equal("p1", emp.PlayerID)
	s.True(emp.CurrentSalary.Equal(decimal.NewFromInt(150)), "salary is the offered one")
	s.Equal(s.position.ID, emp.PositionID)

	stored, _ := s.f.store.FindHiringRequestByID(s.f.ctx, req.ID)
	s.Equal(domain.HiringAccepted, stored.Status)
	s.True(s.activeEmployee("p1"))
	s.NotEmpty(s.f.notes.For("owner"))
}

func (s *HiringServiceTestSuite) TestAcceptHiringRequest_AfterExpiry() {
	req := s.create("p1")
	s.f.clock.Advance(25 * time.Hour)

	_, err := s.svc.AcceptHiringRequest(s.f.ctx, req.ID, "p1")
	s.ErrorIs(err, apperrors.ErrInvalidState)
	s.False(s.activeEmployee("p1"))

	// lazy expiry does not rewrite the stored status
	stored, _ := s.f.store.FindHiringRequestByID(s.f.ctx, req.ID)
	s.Equal(domain.HiringPending, stored.Status)

	// but readers see it as expired
	got, err := s.svc.GetHiringRequest(s.f.ctx, req.ID, "p1")
	s.Require().NoError(err)
	s.Equal(domain.HiringExpired, got.Status)
}

func (s *HiringServiceTestSuite) TestAcceptHiringRequest_OnlyTarget() {
	req := s.create("p1")
	_, err := s.svc.AcceptHiringRequest(s.f.ctx, req.ID, "p2")
	s.ErrorIs(err, apperrors.ErrForbidden)
	s.False(s.activeEmployee("p1"))
}

func (s *HiringServiceTestSuite) TestAcceptHiringRequest_Twice() {
	req := s.create("p1")
	_, err := s.svc.AcceptHiringRequest(s.f.ctx, req.ID, "p1")
	s.Require().NoError(err)

	_, err = s.svc.AcceptHiringRequest(s.f.ctx, req.ID, "p1")
	s.ErrorIs(err, apperrors.ErrInvalidState)
	_, err = s.svc.RejectHiringRequest(s.f.ctx, req.ID, "p1", "changed my mind")
	s.ErrorIs(err, apperrors.ErrInvalidState)
}

func (s *HiringServiceTestSuite) TestAcceptHiringRequest_ConcurrentOnlyOneWins() {
	req := s.create("p1")
	const workers = 8
	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		wins   int
		states int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.svc.AcceptHiringRequest(s.f.ctx, req.ID, "p1")
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				wins++
			} else if assert.ErrorIs(s.T(), err, apperrors.ErrInvalidState) {
				states++
			}
		}()
	}
	wg.Wait()
	s.Equal(1, wins)
	s.Equal(workers-1, states)

	employees, err := s.f.store.ListActiveEmployeesByBusiness(s.f.ctx, s.business.ID)
	s.Require().NoError(err)
	s.Len(employees, 1)
}

func (s *HiringServiceTestSuite) TestAcceptHiringRequest_PositionFullLeavesPending() {
	s.f.hire(s.T(), s.business.ID, s.position.ID, "x1", 100)
	s.f.hire(s.T(), s.business.ID, s.position.ID, "x2", 100)
	req := s.create("p1")

	_, err := s.svc.AcceptHiringRequest(s.f.ctx, req.ID, "p1")
	s.ErrorIs(err, apperrors.ErrPositionFull)
	stored, _ := s.f.store.FindHiringRequestByID(s.f.ctx, req.ID)
	s.Equal(domain.HiringPending, stored.Status)
	s.False(s.activeEmployee("p1"))
}

func (s *HiringServiceTestSuite) TestRejectHiringRequest() {
	req := s.create("p1")

	got, err := s.svc.RejectHiringRequest(s.f.ctx, req.ID, "p1", " busy ")
	s.Require().NoError(err)
	s.Equal(domain.HiringRejected, got.Status)
	s.Equal("busy", got.DecisionReason)
	s.Require().NotNil(got.DecidedAt)

	_, err = s.svc.AcceptHiringRequest(s.f.ctx, req.ID, "p1")
	s.ErrorIs(err, apperrors.ErrInvalidState)
	s.False(s.activeEmployee("p1"))
	s.Contains(s.f.notes.For("owner")[0], "busy")
}

func (s *HiringServiceTestSuite) TestRejectHiringRequest_AfterExpiry() {
	req := s.create("p1")
	s.f.clock.Advance(24*time.Hour + time.Second)
	_, err := s.svc.RejectHiringRequest(s.f.ctx, req.ID, "p1", "")
	s.ErrorIs(err, apperrors.ErrInvalidState)
}

func (s *HiringServiceTestSuite) TestCancelHiringRequest() {
	req := s.create("p1")

	_, err := s.svc.CancelHiringRequest(s.f.ctx, req.ID, "p1")
	s.ErrorIs(err, apperrors.ErrForbidden, "the target rejects instead")

	got, err := s.svc.CancelHiringRequest(s.f.ctx, req.ID, "owner")
	s.Require().NoError(err)
	s.Equal(domain.HiringCancelled, got.Status)

	_, err = s.svc.AcceptHiringRequest(s.f.ctx, req.ID, "p1")
	s.ErrorIs(err, apperrors.ErrInvalidState)

	// a cancelled request frees the slot for a new offer
	_, err = s.svc.CreateHiringRequest(s.f.ctx, s.offer("p1"), "owner")
	s.NoError(err)
}

func (s *HiringServiceTestSuite) TestGetHiringRequest_Visibility() {
	req := s.create("p1")
	_, err := s.svc.GetHiringRequest(s.f.ctx, req.ID, "stranger")
	s.ErrorIs(err, apperrors.ErrForbidden)
	_, err = s.svc.GetHiringRequest(s.f.ctx, 424242, "p1")
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *HiringServiceTestSuite) TestListingsApplyExpiry() {
	stale := s.create("p1")
	s.f.clock.Advance(25 * time.Hour)
	fresh := s.create("p2")

	expired := domain.HiringExpired
	list, err := s.svc.ListForBusiness(s.f.ctx, s.business.ID, "owner", &expired)
	s.Require().NoError(err)
	s.Require().Len(list, 1)
	s.Equal(stale.ID, list[0].ID)

	pending := domain.HiringPending
	list, err = s.svc.ListForBusiness(s.f.ctx, s.business.ID, "owner", &pending)
	s.Require().NoError(err)
	s.Require().Len(list, 1)
	s.Equal(fresh.ID, list[0].ID)

	mine, err := s.svc.ListForPlayer(s.f.ctx, "p1")
	s.Require().NoError(err)
	s.Require().Len(mine, 1)
	s.Equal(domain.HiringExpired, mine[0].Status)

	_, err = s.svc.ListForBusiness(s.f.ctx, s.business.ID, "stranger", nil)
	s.ErrorIs(err, apperrors.ErrForbidden)
}

func (s *HiringServiceTestSuite) TestExpireStale() {
	stale := s.create("p1")
	s.f.clock.Advance(25 * time.Hour)
	s.create("p2")

	n, err := s.svc.ExpireStale(s.f.ctx)
	s.Require().NoError(err)
	s.Equal(int64(1), n)

	stored, _ := s.f.store.FindHiringRequestByID(s.f.ctx, stale.ID)
	s.Equal(domain.HiringExpired, stored.Status)

	n, err = s.svc.ExpireStale(s.f.ctx)
	s.Require().NoError(err)
	s.Zero(n)
}

func TestNewHiringService_DefaultTTL(t *testing.T) {
	f := newFixture(t)
	svc := services.NewHiringService(f.reg, f.store.Provider(), 0, f.opts()...)
	b := f.business(t, "owner", "Acme", 0)
	p := f.position(t, b.ID, 1, false)

	req, err := svc.CreateHiringRequest(f.ctx, dto.CreateHiringRequest{
		BusinessID:     b.ID,
		PositionID:     p.ID,
		TargetPlayerID: "p1",
		OfferedSalary:  decimal.NewFromInt(10),
	}, "owner")
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultHiringRequestTTL, req.ExpirationTime.Sub(req.RequestTime))
}
