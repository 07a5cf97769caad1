package services

import (
	portsrepo "github.com/SscSPs/pocket_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/pocket_ledger/internal/core/ports/services"
	"github.com/SscSPs/pocket_ledger/internal/platform/config"
	"github.com/SscSPs/pocket_ledger/internal/platform/metrics"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, recorder metrics.Recorder) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Account = NewAccountService(repos.AccountRepo)

	// The builder resolves every account reference through the account service.
	container.Drafts = NewDraftBuilder(
		container.Account,
		WithAmountScale(cfg.AmountScale()),
		WithDomesticCurrency(cfg.DomesticCurrency),
	)

	container.Journal = NewJournalService(repos.JournalRepo, container.Drafts, WithMetrics(recorder))
	container.Reporting = NewReportingService(repos.ReportingRepo)

	return container
}
