package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceRef is the immutable snapshot of an invoice held for the duration
// of one workflow run: the identifier plus the minimal fields needed to
// decide postability. The Remote Invoice Service owns the record.
type InvoiceRef struct {
	ID         uuid.UUID       `json:"id"`
	VendorName string          `json:"vendor_name"`
	Status     InvoiceStatus   `json:"status"`
	Amount     decimal.Decimal `json:"amount"`
}

// PreflightIssue reports a per-invoice concern found during preflight.
// A blocking issue excludes the invoice from ReadyIDs; a warning does not.
type PreflightIssue struct {
	InvoiceID uuid.UUID `json:"invoice_id"`
	IssueType IssueType `json:"issue_type"`
	Message   string    `json:"message"`
}

// VendorRef names a vendor that has no counterpart record in Stellar.
type VendorRef struct {
	VendorName string `json:"vendor_name"`
}

// PreflightResponse partitions a requested invoice batch: every requested
// id is either in ReadyIDs, blocked by exactly one entry of
// BlockingVendors, or excluded by a blocking issue. BlockingVendors is
// deduplicated by vendor name; one entry stands for every invoice sharing
// that unresolved vendor.
type PreflightResponse struct {
	ReadyIDs        []uuid.UUID      `json:"ready_ids"`
	BlockingVendors []VendorRef      `json:"blocking_vendors"`
	Issues          []PreflightIssue `json:"issues"`
	Invoices        []InvoiceRef     `json:"invoices,omitempty"`
}

// SupplierMatch is a candidate supplier from the Stellar directory. The
// directory is loose about id typing, so UnmarshalJSON accepts a JSON
// string or number.
type SupplierMatch struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// UnmarshalJSON normalizes the supplier id to a string regardless of how
// the directory sent it.
func (s *SupplierMatch) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID   json.RawMessage `json:"id"`
		Name string          `json:"name"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	s.Name = raw.Name
	if len(raw.ID) == 0 {
		return fmt.Errorf("%w: supplier match missing id", ErrMalformedPayload)
	}
	if bytes.HasPrefix(raw.ID, []byte(`"`)) {
		return json.Unmarshal(raw.ID, &s.ID)
	}
	var n json.Number
	if err := json.Unmarshal(raw.ID, &n); err != nil {
		return fmt.Errorf("%w: supplier id is neither string nor number", ErrMalformedPayload)
	}
	s.ID = n.String()
	return nil
}

// Valid reports whether the match carries the fields a vendor link needs.
func (s SupplierMatch) Valid() bool {
	return s.ID != "" && s.Name != ""
}

// VendorLinkRequest records a user's choice of Stellar supplier for an
// internal vendor name. Once accepted by the Remote Invoice Service it is
// a durable mapping used by all future preflight runs for that vendor.
type VendorLinkRequest struct {
	VendorName          string `json:"vendorName"`
	StellarSupplierID   string `json:"stellarSupplierId"`
	StellarSupplierName string `json:"stellarSupplierName"`
}

// ResultItem is one invoice's outcome within a bulk post.
type ResultItem struct {
	ID     uuid.UUID `json:"id"`
	Reason string    `json:"reason,omitempty"`
}

// BulkPostResult partitions a submitted batch. Every submitted id appears
// in exactly one of the three lists.
type BulkPostResult struct {
	Success []ResultItem `json:"success"`
	Failed  []ResultItem `json:"failed"`
	Skipped []ResultItem `json:"skipped"`
}

// Total returns the number of invoices accounted for across the three
// partitions. It always equals the submitted id count.
func (r *BulkPostResult) Total() int {
	return len(r.Success) + len(r.Failed) + len(r.Skipped)
}

// PostingRecord is the durable per-invoice outcome of a completed batch
// post.
type PostingRecord struct {
	ID        uuid.UUID           `db:"id" json:"id"`
	RunID     uuid.UUID           `db:"run_id" json:"run_id"`
	InvoiceID uuid.UUID           `db:"invoice_id" json:"invoice_id"`
	Outcome   PostingOutcome      `db:"outcome" json:"outcome"`
	Reason    string              `db:"reason" json:"reason"`
	Amount    decimal.NullDecimal `db:"amount" json:"amount"`
	PostedAt  time.Time           `db:"posted_at" json:"posted_at"`
}

// WorkflowRun is the ephemeral state of one open posting workflow. It is
// created on open, lives only in memory, and is discarded on close.
type WorkflowRun struct {
	ID         uuid.UUID          `json:"id"`
	State      WorkflowState      `json:"state"`
	InvoiceIDs []uuid.UUID        `json:"invoice_ids"`
	Preflight  *PreflightResponse `json:"preflight,omitempty"`
	// Cursor indexes the blocking vendor currently being resolved. It only
	// moves forward within one blocking list; it resets to 0 when a fresh
	// list arrives from re-preflight.
	Cursor     int             `json:"cursor"`
	Query      string          `json:"query,omitempty"`
	Candidates []SupplierMatch `json:"candidates,omitempty"`
	Result     *BulkPostResult `json:"result,omitempty"`
	OpenedAt   time.Time       `json:"opened_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// CurrentVendor returns the blocking vendor under the cursor, or false
// when the run has no blocking list or the cursor is exhausted.
func (r *WorkflowRun) CurrentVendor() (VendorRef, bool) {
	if r.Preflight == nil || r.Cursor < 0 || r.Cursor >= len(r.Preflight.BlockingVendors) {
		return VendorRef{}, false
	}
	return r.Preflight.BlockingVendors[r.Cursor], true
}

// AmountOf looks up the snapshot amount for an invoice id, if the
// preflight response carried invoice snapshots.
func (r *WorkflowRun) AmountOf(id uuid.UUID) (decimal.Decimal, bool) {
	if r.Preflight == nil {
		return decimal.Decimal{}, false
	}
	for _, inv := range r.Preflight.Invoices {
		if inv.ID == id {
			return inv.Amount, true
		}
	}
	return decimal.Decimal{}, false
}
