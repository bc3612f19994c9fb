package services

import (
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/observability"
	"github.com/SscSPs/ledger_engine/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, metrics *observability.Metrics) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	accountOpts := []AccountServiceOption{}
	if repos.AccountCache != nil {
		accountOpts = append(accountOpts, WithAccountCache(repos.AccountCache))
	}
	container.Account = NewAccountService(repos.AccountRepo, accountOpts...)

	container.Company = NewCompanyService(repos.CompanyRepo)

	container.Journal = NewJournalService(
		repos.JournalRepo,
		repos.AccountRepo,
		WithCompanyRepository(repos.CompanyRepo),
		WithJournalMetrics(metrics),
		WithPostEntryMaxAttempts(cfg.PostEntryMaxAttempts),
	)

	container.Reporting = NewReportingService(
		repos.ReportingRepo,
		repos.AccountRepo,
		WithReportTimeout(cfg.ReportTimeout),
		WithReportingMetrics(metrics),
	)

	return container
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.AccountSvcFacade = (*accountService)(nil)
	_ portssvc.JournalSvcFacade = (*journalService)(nil)
	_ portssvc.ReportingService = (*reportingService)(nil)
	_ portssvc.CompanySvc       = (*companyService)(nil)
)
