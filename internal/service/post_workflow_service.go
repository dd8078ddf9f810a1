package service

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Cascadia376/invoice-automator-sub000/internal/domain"
	"github.com/Cascadia376/invoice-automator-sub000/internal/port"
)

// PostWorkflowConfig holds tunables for the posting workflow.
type PostWorkflowConfig struct {
	SearchMinChars int
	SearchCacheTTL time.Duration
}

// PostWorkflowService drives the bulk invoice-to-Stellar posting
// workflow: preflight classification, one-vendor-at-a-time resolution,
// and the final batch post. Each open workflow is a WorkflowRun held in
// memory until closed.
type PostWorkflowService interface {
	Open(ctx context.Context, invoiceIDs []uuid.UUID) (*domain.WorkflowRun, error)
	Get(ctx context.Context, runID uuid.UUID) (*domain.WorkflowRun, error)
	SearchSuppliers(ctx context.Context, runID uuid.UUID, query string) (*domain.WorkflowRun, error)
	ResolveVendor(ctx context.Context, runID uuid.UUID, match domain.SupplierMatch) (*domain.WorkflowRun, error)
	ConfirmPost(ctx context.Context, runID uuid.UUID) (*domain.WorkflowRun, error)
	Close(ctx context.Context, runID uuid.UUID) error
}

// run pairs the run data with its concurrency guards. gen is bumped when
// the run closes so a completion arriving for a closed (or re-opened)
// workflow is discarded instead of applied.
type run struct {
	mu           sync.Mutex
	data         domain.WorkflowRun
	gen          uint64
	searchSeq    uint64
	linkInFlight bool
	postInFlight bool
	prefInFlight bool
}

type postWorkflowService struct {
	evaluator PreflightEvaluator
	gateway   port.InvoiceGateway
	directory port.SupplierDirectory
	cache     port.SupplierSearchCache
	history   port.PostingHistoryRepository
	cfg       PostWorkflowConfig

	mu   sync.RWMutex
	runs map[uuid.UUID]*run
}

// NewPostWorkflowService creates a PostWorkflowService.
func NewPostWorkflowService(
	evaluator PreflightEvaluator,
	gateway port.InvoiceGateway,
	directory port.SupplierDirectory,
	cache port.SupplierSearchCache,
	history port.PostingHistoryRepository,
	cfg PostWorkflowConfig,
) PostWorkflowService {
	if cfg.SearchMinChars <= 0 {
		cfg.SearchMinChars = 2
	}
	if cfg.SearchCacheTTL <= 0 {
		cfg.SearchCacheTTL = time.Minute
	}
	return &postWorkflowService{
		evaluator: evaluator,
		gateway:   gateway,
		directory: directory,
		cache:     cache,
		history:   history,
		cfg:       cfg,
		runs:      make(map[uuid.UUID]*run),
	}
}

// Open creates a run in the loading state, preflights the batch, and
// transitions it to ready or resolution. A preflight failure aborts the
// run entirely; nothing is left behind for the caller to observe.
func (s *postWorkflowService) Open(ctx context.Context, invoiceIDs []uuid.UUID) (*domain.WorkflowRun, error) {
	ids := dedupeIDs(invoiceIDs)
	if len(ids) == 0 {
		return nil, domain.ErrEmptyBatch
	}

	now := time.Now().UTC()
	r := &run{
		data: domain.WorkflowRun{
			ID:         uuid.New(),
			State:      domain.StateLoading,
			InvoiceIDs: ids,
			OpenedAt:   now,
			UpdatedAt:  now,
		},
	}

	s.mu.Lock()
	s.runs[r.data.ID] = r
	s.mu.Unlock()

	r.mu.Lock()
	r.prefInFlight = true
	gen := r.gen
	r.mu.Unlock()

	resp, err := s.evaluator.Preflight(ctx, ids)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.prefInFlight = false

	if err != nil {
		s.discard(r)
		return nil, err
	}
	if r.gen != gen {
		// Closed while loading; the response is discarded.
		return nil, domain.ErrRunClosed
	}

	s.applyPreflight(r, resp)
	snap := r.data
	return &snap, nil
}

// Get returns a snapshot of the run.
func (s *postWorkflowService) Get(_ context.Context, runID uuid.UUID) (*domain.WorkflowRun, error) {
	r, err := s.lookup(runID)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	snap := r.data
	return &snap, nil
}

// SearchSuppliers queries the Stellar directory for the run's current
// resolution step. Searches supersede each other: a response belonging to
// an older query than the run's newest never overwrites the candidate
// list (last-query-wins, not first-response-wins).
func (s *postWorkflowService) SearchSuppliers(ctx context.Context, runID uuid.UUID, query string) (*domain.WorkflowRun, error) {
	query = strings.TrimSpace(query)
	if len([]rune(query)) < s.cfg.SearchMinChars {
		return nil, domain.ErrQueryTooShort
	}

	r, err := s.lookup(runID)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	if r.data.State != domain.StateResolution {
		r.mu.Unlock()
		return nil, domain.ErrInvalidTransition
	}
	r.searchSeq++
	seq := r.searchSeq
	gen := r.gen
	r.data.Query = query
	r.mu.Unlock()

	matches, err := s.searchDirectory(ctx, query)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.gen != gen {
		return nil, domain.ErrRunClosed
	}
	// Apply only if this is still the newest search for the run.
	if seq == r.searchSeq {
		r.data.Candidates = matches
		r.data.UpdatedAt = time.Now().UTC()
	}
	snap := r.data
	return &snap, nil
}

// searchDirectory consults the cache before the directory. Cache failures
// are logged and ignored; the directory is the source of truth.
func (s *postWorkflowService) searchDirectory(ctx context.Context, query string) ([]domain.SupplierMatch, error) {
	key := strings.ToLower(query)
	if cached, ok, err := s.cache.Get(ctx, key); err != nil {
		log.Printf("postWorkflow: supplier cache get failed: %v", err)
	} else if ok {
		return cached, nil
	}

	matches, err := s.directory.Search(ctx, query)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, key, matches, s.cfg.SearchCacheTTL); err != nil {
		log.Printf("postWorkflow: supplier cache set failed: %v", err)
	}
	return matches, nil
}

// ResolveVendor links the blocking vendor under the cursor to the chosen
// supplier, then advances the cursor or, when the cursor was on the last
// vendor, re-runs preflight. A failed link leaves the cursor unchanged so
// the step can be retried; the loop never advances past an unresolved
// vendor.
func (s *postWorkflowService) ResolveVendor(ctx context.Context, runID uuid.UUID, match domain.SupplierMatch) (*domain.WorkflowRun, error) {
	if !match.Valid() {
		return nil, domain.ErrInvalidSupplier
	}

	r, err := s.lookup(runID)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	if r.data.State != domain.StateResolution {
		r.mu.Unlock()
		return nil, domain.ErrInvalidTransition
	}
	if r.linkInFlight || r.prefInFlight {
		// A link or preflight is already in flight for this run; one
		// operation of each kind at a time.
		r.mu.Unlock()
		return nil, domain.ErrInvalidTransition
	}
	vendor, ok := r.data.CurrentVendor()
	if !ok {
		r.mu.Unlock()
		return nil, domain.ErrNoBlockingVendor
	}
	r.linkInFlight = true
	gen := r.gen
	lastIndex := len(r.data.Preflight.BlockingVendors) - 1
	atLast := r.data.Cursor == lastIndex
	r.mu.Unlock()

	linkErr := s.gateway.LinkVendor(ctx, domain.VendorLinkRequest{
		VendorName:          vendor.VendorName,
		StellarSupplierID:   match.ID,
		StellarSupplierName: match.Name,
	})

	r.mu.Lock()
	r.linkInFlight = false
	if r.gen != gen {
		r.mu.Unlock()
		return nil, domain.ErrRunClosed
	}
	if linkErr != nil {
		r.mu.Unlock()
		return nil, linkErr
	}

	if !atLast {
		r.data.Cursor++
		clearSearchState(r)
		r.data.UpdatedAt = time.Now().UTC()
		snap := r.data
		r.mu.Unlock()
		return &snap, nil
	}

	// Last vendor resolved: the loop never self-terminates into ready. A
	// fresh preflight decides whether resolution is actually finished.
	r.prefInFlight = true
	ids := r.data.InvoiceIDs
	r.mu.Unlock()

	resp, prefErr := s.evaluator.Preflight(ctx, ids)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.prefInFlight = false
	if r.gen != gen {
		return nil, domain.ErrRunClosed
	}
	if prefErr != nil {
		// Re-preflight failure aborts the run, same as the initial one.
		s.discard(r)
		return nil, prefErr
	}
	s.applyPreflight(r, resp)
	snap := r.data
	return &snap, nil
}

// ConfirmPost submits the most recent ready set as a batch post. Only
// ready ids from the latest preflight are ever submitted; a blocked id
// cannot reach the request. On transport failure the run reverts to ready
// with its preflight data intact so the user can retry.
func (s *postWorkflowService) ConfirmPost(ctx context.Context, runID uuid.UUID) (*domain.WorkflowRun, error) {
	r, err := s.lookup(runID)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	if r.data.State != domain.StateReady {
		r.mu.Unlock()
		return nil, domain.ErrInvalidTransition
	}
	if r.linkInFlight || r.prefInFlight {
		r.mu.Unlock()
		return nil, domain.ErrInvalidTransition
	}
	readyIDs := r.data.Preflight.ReadyIDs
	if len(readyIDs) == 0 {
		r.mu.Unlock()
		return nil, domain.ErrNotPostable
	}
	r.data.State = domain.StatePosting
	r.data.UpdatedAt = time.Now().UTC()
	r.postInFlight = true
	gen := r.gen
	r.mu.Unlock()

	result, postErr := s.gateway.BulkPost(ctx, readyIDs)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.postInFlight = false
	if r.gen != gen {
		return nil, domain.ErrRunClosed
	}
	if postErr != nil {
		// The whole batch is unattempted; revert for manual retry.
		r.data.State = domain.StateReady
		r.data.UpdatedAt = time.Now().UTC()
		return nil, postErr
	}

	r.data.State = domain.StateSuccess
	r.data.Result = result
	r.data.UpdatedAt = time.Now().UTC()

	s.recordOutcomes(ctx, &r.data, result)

	snap := r.data
	return &snap, nil
}

// Close discards the run. Posting is not cancelable: once a post is in
// flight the run must reach success or transport failure first.
func (s *postWorkflowService) Close(_ context.Context, runID uuid.UUID) error {
	r, err := s.lookup(runID)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.data.State == domain.StatePosting || r.postInFlight {
		return domain.ErrPostInFlight
	}
	s.discard(r)
	return nil
}

// discard closes and unregisters a run. Callers hold r.mu.
func (s *postWorkflowService) discard(r *run) {
	r.gen++
	r.data.State = domain.StateClosed
	s.mu.Lock()
	delete(s.runs, r.data.ID)
	s.mu.Unlock()
}

// applyPreflight installs a fresh partition and derives the next state.
// The cursor and search state reset: a new blocking list starts from its
// first vendor. Callers hold r.mu.
func (s *postWorkflowService) applyPreflight(r *run, resp *domain.PreflightResponse) {
	next := domain.StateReady
	if len(resp.BlockingVendors) > 0 {
		next = domain.StateResolution
	}
	if !r.data.State.CanTransition(next) {
		// The transition table admits ready/resolution from both loading
		// and resolution, so this only guards future table edits.
		log.Printf("postWorkflow: dropping illegal transition %s -> %s for run %s", r.data.State, next, r.data.ID)
		return
	}
	r.data.State = next
	r.data.Preflight = resp
	r.data.Cursor = 0
	clearSearchState(r)
	r.data.UpdatedAt = time.Now().UTC()
}

// recordOutcomes persists per-invoice outcomes of a completed post.
// History is reporting data; a write failure never fails the workflow.
func (s *postWorkflowService) recordOutcomes(ctx context.Context, data *domain.WorkflowRun, result *domain.BulkPostResult) {
	now := time.Now().UTC()
	records := make([]domain.PostingRecord, 0, result.Total())
	appendItems := func(items []domain.ResultItem, outcome domain.PostingOutcome) {
		for _, item := range items {
			rec := domain.PostingRecord{
				ID:        uuid.New(),
				RunID:     data.ID,
				InvoiceID: item.ID,
				Outcome:   outcome,
				Reason:    item.Reason,
				PostedAt:  now,
			}
			if amount, ok := data.AmountOf(item.ID); ok {
				rec.Amount.Decimal = amount
				rec.Amount.Valid = true
			}
			records = append(records, rec)
		}
	}
	appendItems(result.Success, domain.OutcomeSuccess)
	appendItems(result.Failed, domain.OutcomeFailed)
	appendItems(result.Skipped, domain.OutcomeSkipped)

	if err := s.history.CreateBatch(ctx, records); err != nil {
		log.Printf("postWorkflow: recording posting history for run %s failed: %v", data.ID, err)
	}
}

func (s *postWorkflowService) lookup(runID uuid.UUID) (*run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.runs[runID]
	if !ok {
		return nil, domain.ErrRunNotFound
	}
	return r, nil
}

// clearSearchState resets query text and candidate list when the
// resolution step advances. Callers hold r.mu.
func clearSearchState(r *run) {
	r.data.Query = ""
	r.data.Candidates = nil
	r.searchSeq++
}

func dedupeIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if id == uuid.Nil || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
