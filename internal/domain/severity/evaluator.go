// Package severity reduces classification results to a single Status.
package severity

import "github.com/battleroid/dwms/internal/domain"

// RepositoryStatus returns the most severe Status that applies to r.
// BAD_HEALTH is never produced here; it belongs to the reachability check.
func RepositoryStatus(r domain.ClassificationResult) domain.Status {
	if r.TimedOut {
		return domain.StatusTimedOut
	}

	candidates := []domain.Status{domain.StatusOkay}
	if len(r.InProgress) > 0 {
		candidates = append(candidates, domain.StatusInProgress)
	}
	if len(r.Partial) > 0 {
		candidates = append(candidates, domain.StatusPartial)
	}
	if len(r.Missing) > 0 {
		candidates = append(candidates, domain.StatusMissing)
	}
	if len(r.Failed) > 0 {
		candidates = append(candidates, domain.StatusFailed)
	}
	return domain.MaxStatus(candidates...)
}

// ClusterStatus is the most severe repository Status of a cluster. A cluster
// without repositories is OKAY.
func ClusterStatus(repos map[string]domain.ClassificationResult) domain.Status {
	status := domain.StatusOkay
	for _, r := range repos {
		status = domain.MaxStatus(status, RepositoryStatus(r))
	}
	return status
}
