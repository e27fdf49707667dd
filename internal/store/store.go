// Package store keeps the loaded threats in memory. A ThreatStore is
// replaced wholesale by Load and mutated one record at a time by Mitigate.
package store

import (
	"sync"

	"github.com/google/uuid"

	"threat-tracker/internal/models"
	"threat-tracker/internal/risk"
)

// LoadResult summarises a load. Skipped rows were rejected; Warnings name
// informational cells of accepted rows that were set to 0.
type LoadResult struct {
	BatchID    string
	Accepted   int
	Skipped    []RowError
	Warnings   []RowError
	Percentage float64
}

// MitigationResult is a snapshot taken under the store lock, so Threats and
// BatchID describe the same store state as Percentage.
type MitigationResult struct {
	Before     models.ThreatRecord
	After      models.ThreatRecord
	Percentage float64
	Threats    int
	BatchID    string
}

// ThreatStore is safe for concurrent use; every method runs to completion
// under the lock so callers observe whole loads and whole mitigations.
type ThreatStore struct {
	mu      sync.RWMutex
	batchID string
	records []models.ThreatRecord // index i holds ID i+1
}

func New() *ThreatStore {
	return &ThreatStore{}
}

// Load validates t and, if at least one row is accepted, replaces the
// store contents. A missing column or zero accepted rows leave the store
// untouched. Rejected rows are reported in LoadResult.Skipped either way.
// A row is rejected only for its impact or likelihood.
func (s *ThreatStore) Load(t *models.Table) (LoadResult, error) {
	if t == nil {
		return LoadResult{}, ErrNilTable
	}
	cols, err := resolveColumns(t)
	if err != nil {
		return LoadResult{}, err
	}

	var res LoadResult
	records := make([]models.ThreatRecord, 0, len(t.Rows))
	for i, row := range t.Rows {
		rec, rowErr, warnings := parseRow(cols, row, sourceRow(t, i))
		if rowErr != nil {
			res.Skipped = append(res.Skipped, *rowErr)
			continue
		}
		res.Warnings = append(res.Warnings, warnings...)
		rec.ID = len(records) + 1
		records = append(records, rec)
	}

	pct, err := risk.Aggregate(records)
	if err != nil {
		return res, err
	}

	res.BatchID = uuid.NewString()
	res.Accepted = len(records)
	res.Percentage = pct

	s.mu.Lock()
	s.records = records
	s.batchID = res.BatchID
	s.mu.Unlock()

	return res, nil
}

// Mitigate overwrites likelihood and frequency of one threat, rescoring it
// with its unchanged impact. Values are stored as given; range checks are
// the caller's job.
func (s *ThreatStore) Mitigate(id, likelihood, frequency int) (MitigationResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id < 1 || id > len(s.records) {
		return MitigationResult{}, ErrThreatNotFound
	}

	rec := &s.records[id-1]
	res := MitigationResult{Before: *rec, Threats: len(s.records), BatchID: s.batchID}

	rec.Likelihood = likelihood
	rec.Frequency = frequency
	rec.RiskScore = risk.Score(rec.Impact, rec.Likelihood)
	res.After = *rec

	pct, err := risk.Aggregate(s.records)
	if err != nil {
		return res, err
	}
	res.Percentage = pct
	return res, nil
}

// Records returns a copy of all threats in ID order.
func (s *ThreatStore) Records() []models.ThreatRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.ThreatRecord, len(s.records))
	copy(out, s.records)
	return out
}

func (s *ThreatStore) Get(id int) (models.ThreatRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if id < 1 || id > len(s.records) {
		return models.ThreatRecord{}, ErrThreatNotFound
	}
	return s.records[id-1], nil
}

func (s *ThreatStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// BatchID identifies the last successful load; empty before the first one.
func (s *ThreatStore) BatchID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.batchID
}

// Percentage is the aggregate risk over the whole store. It returns
// risk.ErrNoData on an empty store.
func (s *ThreatStore) Percentage() (float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return risk.Aggregate(s.records)
}
