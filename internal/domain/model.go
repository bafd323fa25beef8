package domain

import (
	"sort"
)

// Raw snapshot states reported by the inventory source.
const (
	SnapshotSuccess    = "SUCCESS"
	SnapshotInProgress = "IN_PROGRESS"
	SnapshotPartial    = "PARTIAL"
	SnapshotFailed     = "FAILED"
)

// RepositoryExpectation is the set of snapshot identifiers a repository must
// hold for the current run, already expanded from its date templates.
type RepositoryExpectation struct {
	Repository  string   `json:"repository"`
	Identifiers []string `json:"identifiers"`
}

// SnapshotRecord is one entry of a repository's snapshot inventory.
type SnapshotRecord struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// ClassificationResult partitions a repository's expectations against its
// inventory. When TimedOut is set every bucket is empty.
type ClassificationResult struct {
	Found      map[string]string `json:"found"`
	Missing    []string          `json:"missing"`
	InProgress []string          `json:"in_progress"`
	Partial    []string          `json:"partial"`
	Failed     []string          `json:"failed"`
	TimedOut   bool              `json:"timed_out"`
	Reason     string            `json:"reason,omitempty"`

	// Err is the fetch failure behind a timed out result.
	Err error `json:"-"`
}

// NewClassificationResult returns a result whose buckets are empty, never nil.
func NewClassificationResult() ClassificationResult {
	return ClassificationResult{
		Found:      map[string]string{},
		Missing:    []string{},
		InProgress: []string{},
		Partial:    []string{},
		Failed:     []string{},
	}
}

// ClusterReport is the evaluation outcome for one cluster.
type ClusterReport struct {
	Cluster      string                          `json:"cluster"`
	Status       Status                          `json:"status"`
	Repositories map[string]ClassificationResult `json:"repositories"`
	Reason       string                          `json:"reason,omitempty"`
}

// RunReport collects every cluster evaluated in a single invocation.
type RunReport struct {
	RunID    string          `json:"run_id"`
	Date     string          `json:"date"`
	Revision string          `json:"revision,omitempty"`
	Clusters []ClusterReport `json:"clusters"`
}

// Statuses maps each cluster identifier to its final Status.
func (r RunReport) Statuses() map[string]Status {
	out := make(map[string]Status, len(r.Clusters))
	for _, c := range r.Clusters {
		out[c.Cluster] = c.Status
	}
	return out
}

// Worst returns the most severe cluster Status of the run.
func (r RunReport) Worst() Status {
	worst := StatusOkay
	for _, c := range r.Clusters {
		worst = MaxStatus(worst, c.Status)
	}
	return worst
}

// NotificationGroup is a Status together with the clusters sharing it.
type NotificationGroup struct {
	Status  Status   `json:"status"`
	Members []string `json:"members"`
}

func (g NotificationGroup) Count() int   { return len(g.Members) }
func (g NotificationGroup) Color() Color { return g.Status.Color() }

// Dispatch is what every sink receives: the grouped results plus the flat
// per-cluster view for sinks that render one line per cluster.
type Dispatch struct {
	RunID    string              `json:"run_id"`
	Date     string              `json:"date"`
	Revision string              `json:"revision,omitempty"`
	Statuses map[string]Status   `json:"statuses"`
	Groups   []NotificationGroup `json:"groups"`
}

// Clusters returns the cluster identifiers of d in lexical order.
func (d Dispatch) Clusters() []string {
	ids := make([]string, 0, len(d.Statuses))
	for id := range d.Statuses {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
