// Package tui renders run results for a terminal with lipgloss. Output
// written to a non-terminal carries no escape codes.
package tui

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/battleroid/dwms/internal/domain"
)

// ── palette ──
var (
	accent  = lipgloss.Color("#D97706") // amber
	fg      = lipgloss.Color("#E8E6E3") // warm light gray
	dim     = lipgloss.Color("#6B7280") // muted gray
	faint   = lipgloss.Color("#3F3F46") // very dim
	success = lipgloss.Color("#22C55E") // green
	danger  = lipgloss.Color("#EF4444") // red
	warning = lipgloss.Color("#F59E0B") // amber-yellow
)

// minLeader is the shortest dot run between a name and its status.
const minLeader = 3

// Renderer styles output for one writer.
type Renderer struct {
	r *lipgloss.Renderer
}

// NewRenderer detects the color profile of w.
func NewRenderer(w io.Writer) *Renderer {
	return &Renderer{r: lipgloss.NewRenderer(w)}
}

// statusColor follows the console convention: green when okay, yellow for
// snapshots still being written, red for everything else.
func statusColor(s domain.Status) lipgloss.Color {
	switch s {
	case domain.StatusOkay:
		return success
	case domain.StatusInProgress, domain.StatusPartial:
		return warning
	default:
		return danger
	}
}

// Status renders s in its color.
func (t *Renderer) Status(s domain.Status) string {
	return t.r.NewStyle().Bold(s != domain.StatusOkay).Foreground(statusColor(s)).Render(s.String())
}

// Line is one row of a status table.
type Line struct {
	Cluster string
	Status  domain.Status
	Text    string
}

// StatusTable lays out one dot-leader row per cluster, sorted by name, with
// every status aligned to the same column:
//
//	es1.example.com: ... OKAY
//	es2: ............ MISSING
func (t *Renderer) StatusTable(statuses map[string]domain.Status) []Line {
	names := make([]string, 0, len(statuses))
	width := 0
	for name, s := range statuses {
		names = append(names, name)
		if w := len(name) + len(s.String()); w > width {
			width = w
		}
	}
	sort.Strings(names)

	lines := make([]Line, 0, len(names))
	for _, name := range names {
		s := statuses[name]
		dots := strings.Repeat(".", width-len(name)-len(s.String())+minLeader)
		text := fmt.Sprintf("%s: %s %s", name, t.r.NewStyle().Foreground(dim).Render(dots), t.Status(s))
		lines = append(lines, Line{Cluster: name, Status: s, Text: text})
	}
	return lines
}

// RenderReport shows every cluster with its per-repository breakdown.
func (t *Renderer) RenderReport(report domain.RunReport) string {
	var b strings.Builder
	title := t.r.NewStyle().Bold(true).Foreground(accent)
	name := t.r.NewStyle().Bold(true).Foreground(fg)
	dimStyle := t.r.NewStyle().Foreground(dim)
	sep := t.r.NewStyle().Foreground(faint).Render(strings.Repeat("─", 48))

	fmt.Fprintf(&b, "%s %s\n", title.Render("dwms"), dimStyle.Render(report.Date))
	if report.Revision != "" {
		fmt.Fprintf(&b, "%s\n", dimStyle.Render("config revision "+report.Revision))
	}

	for _, c := range report.Clusters {
		fmt.Fprintf(&b, "  %s\n\n  %s  %s\n", sep, name.Render(c.Cluster), t.Status(c.Status))
		if c.Reason != "" {
			fmt.Fprintf(&b, "    %s\n", dimStyle.Render(c.Reason))
		}

		repos := make([]string, 0, len(c.Repositories))
		for repo := range c.Repositories {
			repos = append(repos, repo)
		}
		sort.Strings(repos)
		for _, repo := range repos {
			t.renderRepository(&b, repo, c.Repositories[repo])
		}
	}
	b.WriteString("\n")
	return b.String()
}

func (t *Renderer) renderRepository(b *strings.Builder, repo string, r domain.ClassificationResult) {
	dimStyle := t.r.NewStyle().Foreground(dim)
	if r.TimedOut {
		fmt.Fprintf(b, "    %s %s  %s\n", t.Status(domain.StatusTimedOut), repo, dimStyle.Render(r.Reason))
		return
	}

	fmt.Fprintf(b, "    %s %s\n", t.r.NewStyle().Foreground(accent).Render("●"), repo)
	buckets := []struct {
		label string
		ids   []string
		s     domain.Status
	}{
		{"missing", r.Missing, domain.StatusMissing},
		{"in progress", r.InProgress, domain.StatusInProgress},
		{"partial", r.Partial, domain.StatusPartial},
		{"failed", r.Failed, domain.StatusFailed},
	}
	fmt.Fprintf(b, "      %s\n", dimStyle.Render(fmt.Sprintf("%d found", len(r.Found))))
	for _, bucket := range buckets {
		if len(bucket.ids) == 0 {
			continue
		}
		label := t.r.NewStyle().Foreground(statusColor(bucket.s)).Render(bucket.label)
		fmt.Fprintf(b, "      %s %s\n", label, strings.Join(bucket.ids, ", "))
	}
}

// RenderPatterns lists the identifiers each cluster is expected to hold.
func (t *Renderer) RenderPatterns(date string, expectations map[string][]domain.RepositoryExpectation) string {
	var b strings.Builder
	name := t.r.NewStyle().Bold(true).Foreground(fg)
	dimStyle := t.r.NewStyle().Foreground(dim)

	clusters := make([]string, 0, len(expectations))
	for id := range expectations {
		clusters = append(clusters, id)
	}
	sort.Strings(clusters)

	fmt.Fprintf(&b, "%s %s\n", t.r.NewStyle().Bold(true).Foreground(accent).Render("expected snapshots for"), date)
	for _, id := range clusters {
		fmt.Fprintf(&b, "\n  %s\n", name.Render(id))
		for _, exp := range expectations[id] {
			fmt.Fprintf(&b, "    %s\n", dimStyle.Render(exp.Repository))
			for _, ident := range exp.Identifiers {
				fmt.Fprintf(&b, "      %s\n", ident)
			}
		}
	}
	return b.String()
}
