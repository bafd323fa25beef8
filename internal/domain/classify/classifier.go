// Package classify partitions a repository's snapshot inventory against the
// identifiers expected for the run.
package classify

import (
	"sort"

	"github.com/battleroid/dwms/internal/domain"
)

// Classify sorts every expected identifier into found or missing, then
// sub-partitions found by raw state. Neither argument is modified.
func Classify(exp domain.RepositoryExpectation, inventory []domain.SnapshotRecord) domain.ClassificationResult {
	// Last write wins on duplicate ids.
	index := make(map[string]string, len(inventory))
	for _, rec := range inventory {
		index[rec.ID] = rec.Status
	}

	result := domain.NewClassificationResult()
	expected := make(map[string]struct{}, len(exp.Identifiers))
	for _, id := range exp.Identifiers {
		if _, dup := expected[id]; dup {
			continue
		}
		expected[id] = struct{}{}

		status, ok := index[id]
		if !ok {
			result.Missing = append(result.Missing, id)
			continue
		}
		result.Found[id] = status

		switch status {
		case domain.SnapshotInProgress:
			result.InProgress = append(result.InProgress, id)
		case domain.SnapshotPartial:
			result.Partial = append(result.Partial, id)
		case domain.SnapshotFailed:
			result.Failed = append(result.Failed, id)
		}
	}

	sort.Strings(result.Missing)
	sort.Strings(result.InProgress)
	sort.Strings(result.Partial)
	sort.Strings(result.Failed)
	return result
}

// TimedOut is the result for a repository whose inventory could not be
// fetched. The buckets stay empty: a failed fetch says nothing about which
// snapshots exist.
func TimedOut(cause error) domain.ClassificationResult {
	result := domain.NewClassificationResult()
	result.TimedOut = true
	result.Err = cause
	if cause != nil {
		result.Reason = cause.Error()
	}
	return result
}

// FromFetch classifies the outcome of an inventory fetch.
func FromFetch(exp domain.RepositoryExpectation, inventory []domain.SnapshotRecord, fetchErr error) domain.ClassificationResult {
	if fetchErr != nil {
		return TimedOut(fetchErr)
	}
	return Classify(exp, inventory)
}
