package bracket

import "fmt"

// RoundName derives the display name for a round from its distance to the
// final of its bracket section. Names are advisory metadata computed once at
// build time; advancement never looks at them.
func RoundName(roundNumber, totalRounds int) string {
	switch totalRounds - roundNumber {
	case 0:
		return "Finals"
	case 1:
		return "Semifinals"
	case 2:
		return "Quarterfinals"
	case 3:
		return "Round of 16"
	case 4:
		return "Round of 32"
	default:
		return fmt.Sprintf("Round %d", roundNumber)
	}
}

func LosersRoundName(roundNumber, totalRounds int) string {
	return "Losers " + RoundName(roundNumber, totalRounds)
}
