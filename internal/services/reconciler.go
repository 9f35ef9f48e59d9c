package services

import (
	"context"
	"errors"
	"fmt"
	"manifest-scan-service/internal/domain"
	"manifest-scan-service/internal/platform/obs"
	"manifest-scan-service/internal/ports"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Outcome of a single scan. Already and Synthesized are mutually
// exclusive: Already reports a re-scan of a terminal record (no mutation),
// Synthesized reports an unmatched barcode recorded as a failure row so the
// caller can prompt the operator.
type ScanOutcome struct {
	Status      domain.Status
	Already     bool
	Synthesized bool
	Stats       domain.Stats
}

type DeleteOutcome struct {
	Removed int
	Stats   domain.Stats
}

type LoadOutcome struct {
	ManifestID string
	Stats      domain.Stats
}

// Reconciler owns the live shipment ledger and is its only writer. Load,
// Scan, Delete and Reset are atomic with respect to each other and to
// Stats: each takes the ledger lock, mutates a fresh copy, persists it
// through the injected store, and only then publishes the copy. A failed
// store write leaves the prior ledger untouched.
type Reconciler struct {
	mu         sync.Mutex
	profile    domain.WorkflowProfile
	store      ports.LedgerStore
	now        func() time.Time
	ledger     []domain.Shipment
	manifestID string
}

func NewReconciler(store ports.LedgerStore, profile domain.WorkflowProfile) *Reconciler {
	return &Reconciler{
		profile: profile,
		store:   store,
		now:     time.Now,
	}
}

// Restore replaces the in-memory ledger with the persisted copy, if any.
// Called once at startup so a restart resumes the current manifest.
func (r *Reconciler) Restore(ctx context.Context) (err error) {
	defer obs.Time(ctx, "ledger.restore")(&err)

	rows, err := r.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("restore ledger: %w", err)
	}

	if len(rows) == 0 {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.ledger = rows
	return nil
}

// Load atomically replaces the ledger with a freshly-initialized copy of
// records. Every incoming record is forced to the profile's initial status
// with a cleared scan time, regardless of what the parser set: a load
// always restarts the workflow from scratch.
func (r *Reconciler) Load(ctx context.Context, records []domain.Shipment) (_ LoadOutcome, err error) {
	defer obs.Time(ctx, "ledger.load")(&err)

	next := make([]domain.Shipment, 0, len(records))
	for _, rec := range records {
		rec.AWBID = rec.Key()
		if rec.AWBID == "" {
			continue
		}
		if rec.Quantity <= 0 {
			rec.Quantity = 1
		}
		rec.Status = r.profile.Initial
		rec.ScannedTime = ""
		next = append(next, rec)
	}
	if len(next) == 0 {
		return LoadOutcome{}, fmt.Errorf("load ledger: %w", domain.ErrEmptyManifest)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.store.Save(ctx, next); err != nil {
		return LoadOutcome{}, fmt.Errorf("load ledger: persist: %w", err)
	}

	r.ledger = next
	r.manifestID = uuid.NewString()
	return LoadOutcome{
		ManifestID: r.manifestID,
		Stats:      domain.CountStats(r.ledger, r.profile),
	}, nil
}

// Scan applies one barcode scan against the ledger. The first row whose
// trimmed AWB id matches wins. Terminal rows are never reopened; a barcode
// matching nothing is synthesized as a permanent failure row.
func (r *Reconciler) Scan(ctx context.Context, awbID string) (_ ScanOutcome, err error) {
	defer obs.Time(ctx, "ledger.scan")(&err)

	awb := strings.TrimSpace(awbID)
	if awb == "" {
		return ScanOutcome{}, errors.New("scan: awb id must not be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.ledger == nil {
		return ScanOutcome{}, fmt.Errorf("scan: %w", domain.ErrNoManifest)
	}

	idx := -1
	for i := range r.ledger {
		if r.ledger[i].Key() == awb {
			idx = i
			break
		}
	}

	if idx >= 0 {
		cur := r.ledger[idx].Status
		if r.profile.Terminal(cur) {
			return ScanOutcome{
				Status:  cur,
				Already: true,
				Stats:   domain.CountStats(r.ledger, r.profile),
			}, nil
		}

		next := snapshot(r.ledger)
		next[idx].Status = r.profile.Success
		next[idx].ScannedTime = r.now().Format(domain.ScannedTimeLayout)
		if err := r.store.Save(ctx, next); err != nil {
			return ScanOutcome{}, fmt.Errorf("scan awb=%q: persist: %w", awb, err)
		}

		r.ledger = next
		return ScanOutcome{
			Status: r.profile.Success,
			Stats:  domain.CountStats(r.ledger, r.profile),
		}, nil
	}

	synth := domain.NewSynthesized(awb, r.profile.Failure, r.now().Format(domain.ScannedTimeLayout))
	next := append(snapshot(r.ledger), synth)
	if err := r.store.Save(ctx, next); err != nil {
		return ScanOutcome{}, fmt.Errorf("scan awb=%q: persist synthesized row: %w", awb, err)
	}

	r.ledger = next
	return ScanOutcome{
		Status:      r.profile.Failure,
		Synthesized: true,
		Stats:       domain.CountStats(r.ledger, r.profile),
	}, nil
}

// Delete removes every row whose trimmed AWB id matches, never a strict
// subset. An unchanged ledger reports ErrNotFound.
func (r *Reconciler) Delete(ctx context.Context, awbID string) (_ DeleteOutcome, err error) {
	defer obs.Time(ctx, "ledger.delete")(&err)

	awb := strings.TrimSpace(awbID)
	if awb == "" {
		return DeleteOutcome{}, errors.New("delete: awb id must not be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	next := make([]domain.Shipment, 0, len(r.ledger))
	for _, rec := range r.ledger {
		if rec.Key() != awb {
			next = append(next, rec)
		}
	}
	removed := len(r.ledger) - len(next)
	if removed == 0 {
		return DeleteOutcome{}, fmt.Errorf("delete awb=%q: %w", awb, domain.ErrNotFound)
	}

	if err := r.store.Save(ctx, next); err != nil {
		return DeleteOutcome{}, fmt.Errorf("delete awb=%q: persist: %w", awb, err)
	}

	r.ledger = next
	return DeleteOutcome{
		Removed: removed,
		Stats:   domain.CountStats(r.ledger, r.profile),
	}, nil
}

// Stats tallies the ledger at the instant of the call.
func (r *Reconciler) Stats() domain.Stats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return domain.CountStats(r.ledger, r.profile)
}

// Shipments returns a copy of the ledger in row order.
func (r *Reconciler) Shipments() []domain.Shipment {
	r.mu.Lock()
	defer r.mu.Unlock()
	return snapshot(r.ledger)
}

// Reset clears the ledger and its persisted copy.
func (r *Reconciler) Reset(ctx context.Context) (err error) {
	defer obs.Time(ctx, "ledger.reset")(&err)

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.store.Clear(ctx); err != nil {
		return fmt.Errorf("reset ledger: %w", err)
	}
	r.ledger = nil
	r.manifestID = ""
	return nil
}

func snapshot(rows []domain.Shipment) []domain.Shipment {
	out := make([]domain.Shipment, len(rows))
	copy(out, rows)
	return out
}
