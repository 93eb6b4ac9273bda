package service

import (
	"math"
	"sort"

	"github.com/google/uuid"
	"github.com/mossholder/creatureleague/internal/bracket"
	"github.com/mossholder/creatureleague/internal/league"
	"github.com/mossholder/creatureleague/internal/utils"
)

// TeamInput is one participant heading into a playoff, already in seed order.
type TeamInput struct {
	Name        string
	ExternalRef string
}

// Gets the nearest power of 2 while rounding up, so with input 5 it returns 8 and so on
func calcBracketSize(count int) int {
	if count <= 0 {
		return 0
	}

	// Log2 -> Ceil -> 2^^log2 to round up
	log2 := math.Ceil(math.Log2(float64(count)))
	return int(math.Pow(2, log2))
}

// generateRound1Pairs produces the classic bracket fold: seed 1 meets the
// lowest active seed, and the top seeds land in opposite halves so they
// cannot meet before the final. Values are 0-based seed indexes; an index
// at or beyond the field size is a bye.
func generateRound1Pairs(bracketSize int) [][2]int {
	if bracketSize == 0 {
		return [][2]int{}
	}

	rounds := []int{0}
	for len(rounds) < bracketSize {
		var nextRound []int
		currentCount := len(rounds) * 2

		for _, seed := range rounds {
			nextRound = append(nextRound, seed)
			nextRound = append(nextRound, (currentCount-1)-seed)
		}
		rounds = nextRound
	}

	pairs := make([][2]int, 0, bracketSize/2)
	for i := 0; i < len(rounds); i += 2 {
		matchup := [2]int{rounds[i], rounds[i+1]}
		pairs = append(pairs, matchup)
	}

	return pairs
}

// SeedFromStandings orders league teams into playoff seeds by regular-season
// record (wins, then points for). Exact ties are broken by position in the
// caller's explicit tiebreak list; teams missing from that list keep their
// standings order rather than being silently shuffled.
func SeedFromStandings(standings []league.Team, tiebreak []uuid.UUID) ([]TeamInput, error) {
	if len(standings) < 2 {
		return nil, bracket.ErrInvalidFieldSize
	}

	tiebreakIndex := make(map[uuid.UUID]int, len(tiebreak))
	for i, id := range tiebreak {
		tiebreakIndex[id] = i
	}

	ordered := make([]league.Team, len(standings))
	copy(ordered, standings)

	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if a.Wins != b.Wins {
			return a.Wins > b.Wins
		}
		if a.PointsFor != b.PointsFor {
			return a.PointsFor > b.PointsFor
		}
		ai, aok := tiebreakIndex[a.ID]
		bi, bok := tiebreakIndex[b.ID]
		if aok && bok {
			return ai < bi
		}
		return false
	})

	inputs := make([]TeamInput, 0, len(ordered))
	for _, t := range ordered {
		inputs = append(inputs, TeamInput{Name: t.Name, ExternalRef: t.ID.String()})
	}
	return inputs, nil
}

// seedTeams assigns 1-based seeds in input order and snapshots the
// participants for the new tournament.
func seedTeams(tournamentID uuid.UUID, inputs []TeamInput) []bracket.Team {
	var teams []bracket.Team
	for i, input := range inputs {
		t := bracket.Team{
			ID:           uuid.New(),
			TournamentID: tournamentID,
			Name:         input.Name,
			Seed:         i + 1,
			ExternalRef:  utils.StringOrNil(input.ExternalRef),
		}
		teams = append(teams, t)
	}
	return teams
}
