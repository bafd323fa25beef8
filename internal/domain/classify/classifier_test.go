package classify_test

import (
	"errors"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/battleroid/dwms/internal/domain"
	"github.com/battleroid/dwms/internal/domain/classify"
)

func expect(ids ...string) domain.RepositoryExpectation {
	return domain.RepositoryExpectation{Repository: "sample", Identifiers: ids}
}

func rec(id, status string) domain.SnapshotRecord {
	return domain.SnapshotRecord{ID: id, Status: status}
}

var ignoreErr = cmpopts.IgnoreFields(domain.ClassificationResult{}, "Err")

func TestClassify_Scenarios(t *testing.T) {
	tests := []struct {
		name      string
		exp       domain.RepositoryExpectation
		inventory []domain.SnapshotRecord
		want      domain.ClassificationResult
	}{
		{
			name:      "found success",
			exp:       expect("20240101"),
			inventory: []domain.SnapshotRecord{rec("20240101", "SUCCESS")},
			want: domain.ClassificationResult{
				Found:   map[string]string{"20240101": "SUCCESS"},
				Missing: []string{}, InProgress: []string{}, Partial: []string{}, Failed: []string{},
			},
		},
		{
			name:      "empty inventory",
			exp:       expect("20240101"),
			inventory: nil,
			want: domain.ClassificationResult{
				Found:   map[string]string{},
				Missing: []string{"20240101"}, InProgress: []string{}, Partial: []string{}, Failed: []string{},
			},
		},
		{
			name:      "failed snapshot",
			exp:       expect("20240101"),
			inventory: []domain.SnapshotRecord{rec("20240101", "FAILED")},
			want: domain.ClassificationResult{
				Found:   map[string]string{"20240101": "FAILED"},
				Missing: []string{}, InProgress: []string{}, Partial: []string{}, Failed: []string{"20240101"},
			},
		},
		{
			name: "mixed states with unrelated inventory",
			exp:  expect("a", "b", "c", "d", "e"),
			inventory: []domain.SnapshotRecord{
				rec("a", "SUCCESS"),
				rec("b", "IN_PROGRESS"),
				rec("c", "PARTIAL"),
				rec("d", "FAILED"),
				rec("old", "SUCCESS"),
			},
			want: domain.ClassificationResult{
				Found:      map[string]string{"a": "SUCCESS", "b": "IN_PROGRESS", "c": "PARTIAL", "d": "FAILED"},
				Missing:    []string{"e"},
				InProgress: []string{"b"},
				Partial:    []string{"c"},
				Failed:     []string{"d"},
			},
		},
		{
			name:      "unknown raw status counts as healthy",
			exp:       expect("a"),
			inventory: []domain.SnapshotRecord{rec("a", "INCOMPATIBLE")},
			want: domain.ClassificationResult{
				Found:   map[string]string{"a": "INCOMPATIBLE"},
				Missing: []string{}, InProgress: []string{}, Partial: []string{}, Failed: []string{},
			},
		},
		{
			name:      "duplicate inventory ids last write wins",
			exp:       expect("a"),
			inventory: []domain.SnapshotRecord{rec("a", "IN_PROGRESS"), rec("a", "SUCCESS")},
			want: domain.ClassificationResult{
				Found:   map[string]string{"a": "SUCCESS"},
				Missing: []string{}, InProgress: []string{}, Partial: []string{}, Failed: []string{},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classify.Classify(tt.exp, tt.inventory)
			if diff := cmp.Diff(tt.want, got, ignoreErr); diff != "" {
				t.Errorf("Classify() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestClassify_PartitionInvariant(t *testing.T) {
	exp := expect("a", "b", "c", "d", "e", "f")
	inventory := []domain.SnapshotRecord{
		rec("b", "SUCCESS"), rec("d", "FAILED"), rec("f", "PARTIAL"), rec("z", "SUCCESS"),
	}

	got := classify.Classify(exp, inventory)
	require.False(t, got.TimedOut)

	union := append([]string{}, got.Missing...)
	for id := range got.Found {
		assert.NotContains(t, got.Missing, id, "found and missing must be disjoint")
		union = append(union, id)
	}
	sort.Strings(union)
	assert.Equal(t, exp.Identifiers, union)
}

func TestClassify_DoesNotMutateInputs(t *testing.T) {
	exp := expect("b", "a")
	inventory := []domain.SnapshotRecord{rec("a", "SUCCESS")}

	classify.Classify(exp, inventory)

	assert.Equal(t, []string{"b", "a"}, exp.Identifiers)
	assert.Equal(t, []domain.SnapshotRecord{rec("a", "SUCCESS")}, inventory)
}

func TestTimedOut_CarriesCause(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	got := classify.TimedOut(cause)

	assert.True(t, got.TimedOut)
	assert.Empty(t, got.Found)
	assert.Empty(t, got.Missing)
	assert.Empty(t, got.Failed)
	assert.ErrorIs(t, got.Err, cause)
	assert.Equal(t, cause.Error(), got.Reason)
}

func TestFromFetch(t *testing.T) {
	ok := classify.FromFetch(expect("a"), nil, nil)
	assert.False(t, ok.TimedOut)
	assert.Equal(t, []string{"a"}, ok.Missing)

	failed := classify.FromFetch(expect("a"), []domain.SnapshotRecord{rec("a", "SUCCESS")}, errors.New("boom"))
	assert.True(t, failed.TimedOut)
	assert.Empty(t, failed.Found)
}
