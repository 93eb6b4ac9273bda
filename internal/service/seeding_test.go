package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/mossholder/creatureleague/internal/bracket"
	"github.com/mossholder/creatureleague/internal/league"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalcBracketSize(t *testing.T) {
	testCases := []struct {
		count    int
		expected int
	}{
		{0, 0},
		{1, 1},
		{2, 2},
		{3, 4},
		{5, 8},
		{8, 8},
		{9, 16},
		{17, 32},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.expected, calcBracketSize(tc.count), "count %d", tc.count)
	}
}

func TestGenerateRound1Pairs(t *testing.T) {
	testCases := []struct {
		name        string
		bracketSize int
		expected    [][2]int
	}{
		{
			name:        "2 slots",
			bracketSize: 2,
			expected:    [][2]int{{0, 1}},
		},
		{
			name:        "4 slots",
			bracketSize: 4,
			expected:    [][2]int{{0, 3}, {1, 2}},
		},
		{
			name:        "8 slots",
			bracketSize: 8,
			expected:    [][2]int{{0, 7}, {3, 4}, {1, 6}, {2, 5}},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			actual := generateRound1Pairs(tc.bracketSize)
			assert.Equal(t, tc.expected, actual)
		})
	}
}

func TestGenerateRound1Pairs_TopSeedsInOppositeHalves(t *testing.T) {
	pairs := generateRound1Pairs(16)
	require.Len(t, pairs, 8)

	half := func(seed int) int {
		for i, p := range pairs {
			if p[0] == seed || p[1] == seed {
				return i / 4
			}
		}
		return -1
	}

	assert.NotEqual(t, half(0), half(1), "seeds 1 and 2 should only be able to meet in the final")
}

func standingsTeam(name string, wins int, pointsFor float64) league.Team {
	return league.Team{
		ID:        uuid.New(),
		Name:      name,
		Wins:      wins,
		PointsFor: pointsFor,
	}
}

func TestSeedFromStandings(t *testing.T) {
	a := standingsTeam("A", 10, 900)
	b := standingsTeam("B", 8, 950)
	c := standingsTeam("C", 8, 800)
	d := standingsTeam("D", 2, 400)

	inputs, err := SeedFromStandings([]league.Team{d, c, b, a}, nil)
	require.NoError(t, err)
	require.Len(t, inputs, 4)

	assert.Equal(t, "A", inputs[0].Name)
	assert.Equal(t, "B", inputs[1].Name, "points for breaks the 8-win tie")
	assert.Equal(t, "C", inputs[2].Name)
	assert.Equal(t, "D", inputs[3].Name)

	// External refs point back at the league teams.
	assert.Equal(t, a.ID.String(), inputs[0].ExternalRef)
}

func TestSeedFromStandings_ExplicitTiebreak(t *testing.T) {
	a := standingsTeam("A", 8, 800)
	b := standingsTeam("B", 8, 800)
	c := standingsTeam("C", 8, 800)

	// Fully tied records: the explicit list decides.
	inputs, err := SeedFromStandings([]league.Team{a, b, c}, []uuid.UUID{c.ID, a.ID, b.ID})
	require.NoError(t, err)

	assert.Equal(t, "C", inputs[0].Name)
	assert.Equal(t, "A", inputs[1].Name)
	assert.Equal(t, "B", inputs[2].Name)

	// Without a tiebreak list the standings order is preserved.
	inputs, err = SeedFromStandings([]league.Team{a, b, c}, nil)
	require.NoError(t, err)
	assert.Equal(t, "A", inputs[0].Name)
	assert.Equal(t, "B", inputs[1].Name)
	assert.Equal(t, "C", inputs[2].Name)
}

func TestSeedFromStandings_TooFewTeams(t *testing.T) {
	_, err := SeedFromStandings([]league.Team{standingsTeam("A", 1, 100)}, nil)
	assert.ErrorIs(t, err, bracket.ErrInvalidFieldSize)

	_, err = SeedFromStandings(nil, nil)
	assert.ErrorIs(t, err, bracket.ErrInvalidFieldSize)
}

func TestSeedTeams(t *testing.T) {
	tournamentID := uuid.New()
	teams := seedTeams(tournamentID, namedInputs("First", "Second", "Third"))

	require.Len(t, teams, 3)
	for i, team := range teams {
		assert.Equal(t, i+1, team.Seed)
		assert.Equal(t, tournamentID, team.TournamentID)
		assert.NotEqual(t, uuid.Nil, team.ID)
	}
	assert.Nil(t, teams[0].ExternalRef)
}
