package sim

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildModel_EmptyLog(t *testing.T) {
	_, _, err := BuildModel(&EventLog{})
	var emptyErr EmptyLogError
	assert.True(t, errors.As(err, &emptyErr))

	_, _, err = BuildModel(nil)
	assert.True(t, errors.As(err, &emptyErr))
}

func TestBuildModel_TransitionProbabilities(t *testing.T) {
	_, table, _ := claimModel()

	assert.Equal(t, map[string]float64{"B": 1.0}, table.OutgoingProbabilities("A"))
	row := table.OutgoingProbabilities("B")
	assert.InDelta(t, 0.5, row["C"], 1e-12)
	assert.InDelta(t, 0.5, row["D"], 1e-12)
}

func TestBuildModel_StartDistribution(t *testing.T) {
	_, table, _ := claimModel()
	assert.Equal(t, map[string]float64{"A": 1.0}, table.StartDistribution())
}

func TestBuildModel_TerminalActivities(t *testing.T) {
	_, table, _ := claimModel()

	assert.True(t, table.IsTerminal("C"))
	assert.True(t, table.IsTerminal("D"))
	assert.False(t, table.IsTerminal("A"))
	assert.False(t, table.IsTerminal("B"))
	assert.Nil(t, table.OutgoingProbabilities("C"))
	assert.Equal(t, []string{"C", "D"}, table.EndActivities())
	assert.Equal(t, []string{"A", "B"}, table.Sources())
}

func TestBuildModel_RowProbabilitiesSumToOne(t *testing.T) {
	// GIVEN a log with several branching paths
	log := NewEventLog([]Record{
		rec("1", "A", 0, 1), rec("1", "B", 1, 1), rec("1", "C", 2, 1),
		rec("2", "A", 0, 1), rec("2", "C", 1, 1),
		rec("3", "B", 0, 1), rec("3", "A", 1, 1), rec("3", "C", 2, 1),
		rec("4", "A", 0, 1), rec("4", "B", 1, 1), rec("4", "B", 2, 1), rec("4", "C", 3, 1),
	})
	table, _, err := BuildModel(log)
	require.NoError(t, err)

	// THEN every non-terminal row and the start distribution sum to 1
	for _, src := range table.Sources() {
		sum := 0.0
		for _, p := range table.OutgoingProbabilities(src) {
			sum += p
		}
		assert.InDelta(t, 1.0, sum, 1e-9, "row %s", src)
	}
	startSum := 0.0
	for _, p := range table.StartDistribution() {
		startSum += p
	}
	assert.InDelta(t, 1.0, startSum, 1e-9)
}

func TestBuildModel_DurationProfilesRetainDuplicates(t *testing.T) {
	log := NewEventLog([]Record{
		rec("1", "A", 0, 5),
		rec("2", "A", 0, 5),
		rec("3", "A", 0, 7),
	})
	_, profiles, err := BuildModel(log)
	require.NoError(t, err)

	// Repeated identical durations keep their resampling weight
	require.Len(t, profiles["A"], 3)
	assert.ElementsMatch(t, []float64{5, 5, 7}, []float64(profiles["A"]))
}

func TestTransitionTable_NextActivityFollowsEmpiricalWeights(t *testing.T) {
	_, table, _ := claimModel()
	rng := rand.New(rand.NewSource(1))

	counts := map[string]int{}
	for i := 0; i < 10000; i++ {
		next, ok := table.NextActivity("B", rng)
		require.True(t, ok)
		counts[next]++
	}
	// B -> C and B -> D are each observed once historically
	assert.InDelta(t, 5000, counts["C"], 300)
	assert.InDelta(t, 5000, counts["D"], 300)
}

func TestTransitionTable_NextActivityTerminal(t *testing.T) {
	_, table, _ := claimModel()
	rng := rand.New(rand.NewSource(1))

	next, ok := table.NextActivity("C", rng)
	assert.False(t, ok)
	assert.Equal(t, "", next)
}
