package services

import (
	"time"

	portsrepo "github.com/SscSPs/bizcore/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bizcore/internal/core/ports/services"
	"github.com/SscSPs/bizcore/internal/core/registry"
)

// ContainerConfig carries the settings and adapters shared by all services.
type ContainerConfig struct {
	Wallet     portssvc.Wallet
	HiringTTL  time.Duration
	Revenue    RevenueConfig
	SharedOpts []ServiceOption
}

// NewServiceContainer creates a new service container with all services initialized
func NewServiceContainer(reg *registry.Registry, repos portsrepo.RepositoryProvider, cfg ContainerConfig) *portssvc.ServiceContainer {
	opts := cfg.SharedOpts

	return &portssvc.ServiceContainer{
		Business:  NewBusinessService(reg, cfg.Wallet, opts...),
		Position:  NewPositionService(reg, repos.PositionRepo, repos.EmployeeRepo, opts...),
		Employee:  NewEmployeeService(reg, repos.EmployeeRepo, repos.PositionRepo, opts...),
		Hiring:    NewHiringService(reg, repos, cfg.HiringTTL, opts...),
		Payroll:   NewPayrollService(reg, repos, cfg.Wallet, opts...),
		Revenue:   NewRevenueService(reg, repos, cfg.Revenue, opts...),
		Reporting: NewReportingService(reg, repos, opts...),
	}
}
