package services

// LedgerBook bundles the three core services for one company's book of
// accounts. It is the single context object handed to the handlers; there
// are no ambient singletons.
type LedgerBook struct {
	Masters   MasterSvcFacade
	Vouchers  VoucherSvcFacade
	Reporting ReportingSvc
}
