// Package notify groups per-cluster results into notification entries.
package notify

import (
	"fmt"
	"sort"
	"strings"

	"github.com/battleroid/dwms/internal/domain"
)

type entry struct {
	cluster string
	status  domain.Status
}

// Group sorts clusters by Status ordinal and collapses consecutive clusters
// sharing a Status into one group. Members are listed in lexical order.
func Group(results map[string]domain.Status) []domain.NotificationGroup {
	entries := make([]entry, 0, len(results))
	for cluster, status := range results {
		entries = append(entries, entry{cluster: cluster, status: status})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].status != entries[j].status {
			return entries[i].status < entries[j].status
		}
		return entries[i].cluster < entries[j].cluster
	})

	var groups []domain.NotificationGroup
	for _, e := range entries {
		if n := len(groups); n > 0 && groups[n-1].Status == e.status {
			groups[n-1].Members = append(groups[n-1].Members, e.cluster)
			continue
		}
		groups = append(groups, domain.NotificationGroup{Status: e.status, Members: []string{e.cluster}})
	}
	return groups
}

// Title renders a group heading such as "Missing (2)".
func Title(g domain.NotificationGroup) string {
	return fmt.Sprintf("%s (%d)", g.Status.Title(), g.Count())
}

// Body lists the group's clusters, one per line.
func Body(g domain.NotificationGroup) string {
	return strings.Join(g.Members, "\n")
}

// AtLeast drops groups less severe than min.
func AtLeast(groups []domain.NotificationGroup, min domain.Status) []domain.NotificationGroup {
	out := make([]domain.NotificationGroup, 0, len(groups))
	for _, g := range groups {
		if g.Status >= min {
			out = append(out, g)
		}
	}
	return out
}

// NewDispatch builds the sink input for a finished run.
func NewDispatch(report domain.RunReport) domain.Dispatch {
	statuses := report.Statuses()
	return domain.Dispatch{
		RunID:    report.RunID,
		Date:     report.Date,
		Revision: report.Revision,
		Statuses: statuses,
		Groups:   Group(statuses),
	}
}
