package invoicing

// RunResult summarizes one batch run of the invoice robot
type RunResult struct {
	CompaniesProcessed int
	InvoicesCreated    int
	DeliveriesSkipped  int // eligible deliveries with nothing outstanding
	RecoveryFailures   int // companies whose draft recovery reported failure
	FinalizeFailures   int // created invoices whose finalization failed
}

// CompanyRunResult summarizes the run for a single company
type CompanyRunResult struct {
	InvoicesCreated   int
	DeliveriesSkipped int
	RecoverySucceeded bool
	FinalizeFailures  int
}
