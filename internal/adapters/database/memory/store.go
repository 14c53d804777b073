// Package memory is an in-process implementation of the repository ports, used for
// local runs (STORE_DRIVER=memory) and behavioral tests.
package memory

import (
	"sync"

	"github.com/SscSPs/bizcore/internal/core/domain"
	portsrepo "github.com/SscSPs/bizcore/internal/core/ports/repositories"
)

// Store keeps every entity in maps guarded by a single mutex. Multi-entity writes
// such as accepting a hiring request happen under that mutex, which makes them atomic.
type Store struct {
	mu sync.Mutex

	businesses  map[int64]domain.Business
	positions   map[int64]domain.Position
	employees   map[int64]domain.Employee
	requests    map[int64]domain.HiringRequest
	ledger      []domain.RevenueLedgerEntry
	payrollRuns []domain.PayrollRun
}

func NewStore() *Store {
	return &Store{
		businesses: make(map[int64]domain.Business),
		positions:  make(map[int64]domain.Position),
		employees:  make(map[int64]domain.Employee),
		requests:   make(map[int64]domain.HiringRequest),
	}
}

// Provider exposes the store through every repository port.
func (s *Store) Provider() portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		BusinessRepo:   s,
		PositionRepo:   s,
		EmployeeRepo:   s,
		HiringRepo:     s,
		LedgerRepo:     s,
		PayrollRunRepo: s,
	}
}

// NewRepositoryProvider creates a fresh store and returns its repositories.
func NewRepositoryProvider() portsrepo.RepositoryProvider {
	return NewStore().Provider()
}

var (
	_ portsrepo.BusinessRepositoryFacade      = (*Store)(nil)
	_ portsrepo.PositionRepositoryFacade      = (*Store)(nil)
	_ portsrepo.EmployeeRepositoryFacade      = (*Store)(nil)
	_ portsrepo.HiringRequestRepositoryFacade = (*Store)(nil)
	_ portsrepo.LedgerRepositoryFacade        = (*Store)(nil)
	_ portsrepo.PayrollRunRepositoryFacade    = (*Store)(nil)
)
