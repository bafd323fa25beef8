// Package patterns expands strftime-style snapshot name templates into the
// concrete identifiers expected for a given day.
package patterns

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/ncruces/go-strftime"

	"github.com/battleroid/dwms/internal/domain"
)

// DateLayout is the only accepted shape of a date override.
const DateLayout = "2006-01-02"

// specifiers are the conversion characters accepted after '%'.
const specifiers = "aAbBcCdDeFgGhHIjmMnprRStTuUVwWxXyYzZ%"

// ParseDate parses a YYYY-MM-DD date override.
func ParseDate(s string) (time.Time, error) {
	if len(s) != len(DateLayout) {
		return time.Time{}, domain.NewConfigError("date", "%q does not match YYYY-MM-DD", s)
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, domain.NewConfigError("date", "%q does not match YYYY-MM-DD", s)
	}
	return t, nil
}

// Validate checks that template is a usable date-format string.
func Validate(template string) error {
	if strings.TrimSpace(template) == "" {
		return domain.NewConfigError("pattern", "template must not be empty")
	}
	for i := 0; i < len(template); i++ {
		if template[i] != '%' {
			continue
		}
		if i == len(template)-1 {
			return &domain.ConfigError{Field: "pattern", Err: fmt.Errorf("%q: %w", template, errDangling)}
		}
		i++
		if strings.IndexByte(specifiers, template[i]) < 0 {
			return domain.NewConfigError("pattern", "%q: unknown directive %%%c", template, template[i])
		}
	}
	return nil
}

var errDangling = errors.New("dangling % at end of template")

// Build formats every template against date and returns the distinct
// identifiers in sorted order. The same input always yields the same output.
func Build(templates []string, date time.Time) ([]string, error) {
	set := make(map[string]struct{}, len(templates))
	for _, tmpl := range templates {
		if err := Validate(tmpl); err != nil {
			return nil, err
		}
		set[strftime.Format(tmpl, date)] = struct{}{}
	}

	out := make([]string, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Strings(out)
	return out, nil
}

// Expectations expands every repository of a cluster, sorted by repository name.
func Expectations(cluster domain.ClusterConfig, date time.Time) ([]domain.RepositoryExpectation, error) {
	names := make([]string, 0, len(cluster.Repositories))
	for name := range cluster.Repositories {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]domain.RepositoryExpectation, 0, len(names))
	for _, name := range names {
		ids, err := Build(cluster.Repositories[name].Patterns, date)
		if err != nil {
			var ce *domain.ConfigError
			if errors.As(err, &ce) {
				ce.Field = fmt.Sprintf("clusters.%s.repositories.%s.patterns", cluster.ID(), name)
			}
			return nil, err
		}
		out = append(out, domain.RepositoryExpectation{Repository: name, Identifiers: ids})
	}
	return out, nil
}
