package bracket

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoundName(t *testing.T) {
	testCases := []struct {
		round    int
		total    int
		expected string
	}{
		{1, 1, "Finals"},
		{2, 2, "Finals"},
		{1, 2, "Semifinals"},
		{1, 3, "Quarterfinals"},
		{1, 4, "Round of 16"},
		{1, 5, "Round of 32"},
		{1, 6, "Round 1"},
		{2, 6, "Round 2"},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.expected, RoundName(tc.round, tc.total), "round %d of %d", tc.round, tc.total)
	}
}

func TestLosersRoundName(t *testing.T) {
	assert.Equal(t, "Losers Finals", LosersRoundName(4, 4))
	assert.Equal(t, "Losers Semifinals", LosersRoundName(3, 4))
}

func TestMatchAccessors(t *testing.T) {
	m := Match{Status: MatchPending}
	assert.False(t, m.Complete())
	assert.Nil(t, m.WinnerTeamID())
	assert.Nil(t, m.LoserTeamID())
}
