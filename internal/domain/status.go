package domain

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/fatih/camelcase"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Status is the ordered health classification of a repository or cluster.
// Higher values are more severe; comparisons always use the ordinal.
type Status int

const (
	StatusOkay Status = iota
	StatusInProgress
	StatusPartial
	StatusBadHealth
	StatusTimedOut
	StatusMissing
	StatusFailed
)

// Color is the alert color attached to a Status.
type Color string

const (
	ColorGood    Color = "good"
	ColorWarning Color = "warning"
	ColorDanger  Color = "danger"
)

// AllStatuses lists every Status in ascending severity.
var AllStatuses = []Status{
	StatusOkay,
	StatusInProgress,
	StatusPartial,
	StatusBadHealth,
	StatusTimedOut,
	StatusMissing,
	StatusFailed,
}

var statusNames = map[Status]string{
	StatusOkay:       "OKAY",
	StatusInProgress: "IN_PROGRESS",
	StatusPartial:    "PARTIAL",
	StatusBadHealth:  "BAD_HEALTH",
	StatusTimedOut:   "TIMED_OUT",
	StatusMissing:    "MISSING",
	StatusFailed:     "FAILED",
}

var statusColors = map[Status]Color{
	StatusOkay:       ColorGood,
	StatusInProgress: ColorWarning,
	StatusPartial:    ColorWarning,
	StatusBadHealth:  ColorDanger,
	StatusTimedOut:   ColorDanger,
	StatusMissing:    ColorDanger,
	StatusFailed:     ColorDanger,
}

var titleCaser = cases.Title(language.English)

// Valid reports whether s is one of the seven known statuses.
func (s Status) Valid() bool {
	_, ok := statusNames[s]
	return ok
}

// Name returns the canonical constant name, e.g. "IN_PROGRESS".
func (s Status) Name() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("STATUS(%d)", int(s))
}

// String returns the display form, e.g. "IN PROGRESS".
func (s Status) String() string {
	return strings.ReplaceAll(s.Name(), "_", " ")
}

// Title returns the title-cased display form, e.g. "In Progress".
func (s Status) Title() string {
	return titleCaser.String(strings.ToLower(s.String()))
}

// Color returns the alert color for s. Unknown statuses are treated as danger.
func (s Status) Color() Color {
	if c, ok := statusColors[s]; ok {
		return c
	}
	return ColorDanger
}

func (s Status) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid status %d", int(s))
	}
	return []byte(s.Name()), nil
}

func (s *Status) UnmarshalText(text []byte) error {
	parsed, err := ParseStatus(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// MaxStatus returns the most severe of the given statuses, or StatusOkay
// when none are given.
func MaxStatus(statuses ...Status) Status {
	max := StatusOkay
	for _, s := range statuses {
		if s > max {
			max = s
		}
	}
	return max
}

// ParseStatus accepts a status in any of the spellings an operator is likely
// to write: "IN_PROGRESS", "in progress", "InProgress", "inProgress".
func ParseStatus(s string) (Status, error) {
	var words []string
	for _, w := range camelcase.Split(strings.TrimSpace(s)) {
		if strings.IndexFunc(w, func(r rune) bool { return unicode.IsLetter(r) || unicode.IsDigit(r) }) < 0 {
			continue
		}
		words = append(words, strings.ToUpper(w))
	}
	name := strings.Join(words, "_")
	for status, n := range statusNames {
		if n == name {
			return status, nil
		}
	}
	return StatusOkay, fmt.Errorf("unknown status %q", s)
}
