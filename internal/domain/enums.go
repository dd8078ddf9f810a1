package domain

// InvoiceStatus is the Remote Invoice Service's lifecycle status for an
// invoice, as carried in preflight snapshots.
type InvoiceStatus string

const (
	InvoiceStatusDraft    InvoiceStatus = "draft"
	InvoiceStatusReviewed InvoiceStatus = "reviewed"
	InvoiceStatusApproved InvoiceStatus = "approved"
	InvoiceStatusPosted   InvoiceStatus = "posted"
)

// IssueType classifies a preflight issue. Blocking excludes the invoice
// from posting; a warning is informational and can be clicked through.
type IssueType string

const (
	IssueBlocking IssueType = "blocking"
	IssueWarning  IssueType = "warning"
)

// PostingOutcome is the per-invoice partition of a completed batch post.
type PostingOutcome string

const (
	OutcomeSuccess PostingOutcome = "success"
	OutcomeFailed  PostingOutcome = "failed"
	OutcomeSkipped PostingOutcome = "skipped"
)

// WorkflowState is the state of one posting workflow run.
type WorkflowState string

const (
	StateLoading    WorkflowState = "loading"
	StateResolution WorkflowState = "resolution"
	StateReady      WorkflowState = "ready"
	StatePosting    WorkflowState = "posting"
	StateSuccess    WorkflowState = "success"
	StateClosed     WorkflowState = "closed"
)

// workflowTransitions is the full transition table. Closing is legal from
// every state except posting: an in-flight post runs to completion or
// transport failure, never cancellation.
var workflowTransitions = map[WorkflowState][]WorkflowState{
	StateLoading:    {StateReady, StateResolution, StateClosed},
	StateResolution: {StateReady, StateResolution, StateClosed},
	StateReady:      {StatePosting, StateClosed},
	StatePosting:    {StateSuccess, StateReady},
	StateSuccess:    {StateClosed},
	StateClosed:     {},
}

// CanTransition reports whether moving from s to next is legal.
func (s WorkflowState) CanTransition(next WorkflowState) bool {
	for _, allowed := range workflowTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are possible.
func (s WorkflowState) IsTerminal() bool {
	return len(workflowTransitions[s]) == 0
}

// String returns the string form of the state.
func (s WorkflowState) String() string {
	return string(s)
}
