package pgsql

import (
	portsrepo "github.com/SscSPs/bizcore/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	staffRepo := newPgxStaffRepository(dbPool)
	ledgerRepo := newPgxLedgerRepository(dbPool)

	return portsrepo.RepositoryProvider{
		BusinessRepo:   newPgxBusinessRepository(dbPool),
		PositionRepo:   staffRepo,
		EmployeeRepo:   staffRepo,
		HiringRepo:     newPgxHiringRequestRepository(dbPool),
		LedgerRepo:     ledgerRepo,
		PayrollRunRepo: ledgerRepo,
	}
}
