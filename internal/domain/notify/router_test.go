package notify_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/battleroid/dwms/internal/domain"
	"github.com/battleroid/dwms/internal/domain/notify"
)

func TestGroup_TwoStatuses(t *testing.T) {
	groups := notify.Group(map[string]domain.Status{
		"clusterA": domain.StatusOkay,
		"clusterB": domain.StatusMissing,
	})

	require.Len(t, groups, 2)
	assert.Equal(t, "Okay (1)", notify.Title(groups[0]))
	assert.Equal(t, []string{"clusterA"}, groups[0].Members)
	assert.Equal(t, domain.ColorGood, groups[0].Color())
	assert.Equal(t, "Missing (1)", notify.Title(groups[1]))
	assert.Equal(t, []string{"clusterB"}, groups[1].Members)
	assert.Equal(t, domain.ColorDanger, groups[1].Color())
}

func TestGroup_OrderedBySeverityThenName(t *testing.T) {
	groups := notify.Group(map[string]domain.Status{
		"zeta":  domain.StatusFailed,
		"alpha": domain.StatusInProgress,
		"beta":  domain.StatusFailed,
		"gamma": domain.StatusOkay,
		"delta": domain.StatusInProgress,
	})

	require.Len(t, groups, 3)
	assert.Equal(t, domain.StatusOkay, groups[0].Status)
	assert.Equal(t, domain.StatusInProgress, groups[1].Status)
	assert.Equal(t, []string{"alpha", "delta"}, groups[1].Members)
	assert.Equal(t, "In Progress (2)", notify.Title(groups[1]))
	assert.Equal(t, domain.StatusFailed, groups[2].Status)
	assert.Equal(t, "beta\nzeta", notify.Body(groups[2]))
}

func TestGroup_Empty(t *testing.T) {
	assert.Empty(t, notify.Group(nil))
}

func TestAtLeast(t *testing.T) {
	groups := notify.Group(map[string]domain.Status{
		"a": domain.StatusOkay,
		"b": domain.StatusPartial,
		"c": domain.StatusTimedOut,
	})

	filtered := notify.AtLeast(groups, domain.StatusPartial)
	require.Len(t, filtered, 2)
	assert.Equal(t, domain.StatusPartial, filtered[0].Status)
	assert.Equal(t, domain.StatusTimedOut, filtered[1].Status)
	assert.Len(t, notify.AtLeast(groups, domain.StatusOkay), 3)
}

func TestNewDispatch(t *testing.T) {
	report := domain.RunReport{
		RunID: "run-1",
		Date:  "2024-01-01",
		Clusters: []domain.ClusterReport{
			{Cluster: "es1", Status: domain.StatusOkay},
			{Cluster: "es2", Status: domain.StatusBadHealth},
		},
	}

	d := notify.NewDispatch(report)
	assert.Equal(t, "run-1", d.RunID)
	assert.Equal(t, []string{"es1", "es2"}, d.Clusters())
	require.Len(t, d.Groups, 2)
	assert.Equal(t, "Bad Health (1)", notify.Title(d.Groups[1]))
}
