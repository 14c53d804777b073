package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	BusinessRepo   BusinessRepositoryFacade
	PositionRepo   PositionRepositoryFacade
	EmployeeRepo   EmployeeRepositoryFacade
	HiringRepo     HiringRequestRepositoryFacade
	LedgerRepo     LedgerRepositoryFacade
	PayrollRunRepo PayrollRunRepositoryFacade
}
