package bracket

import (
	"time"

	"github.com/google/uuid"
)

type MatchStatus string

const (
	MatchPending  MatchStatus = "pending"
	MatchComplete MatchStatus = "complete"
)

type BracketSide string

const (
	WinnersSide BracketSide = "winners"
	LosersSide  BracketSide = "losers"
	FinalsSide  BracketSide = "finals"
)

// Match slots are filled lazily: a nil Team1ID/Team2ID is either a
// placeholder waiting on the referenced feeder match, or a side that can
// never be filled because every feeder was a bye. Downstream propagation is
// driven by the Winner/Loser forward references populated at build time.
type Match struct {
	ID           uuid.UUID `db:"id"`
	TournamentID uuid.UUID `db:"tournament_id"`

	// Position in the bracket for reconstructing the view
	BracketSide BracketSide `db:"bracket_side"`
	RoundNumber int         `db:"round_number"`
	RoundName   string      `db:"round_name"`
	MatchOrder  int         `db:"match_order"`

	Team1ID *uuid.UUID `db:"team_1_id"`
	Team2ID *uuid.UUID `db:"team_2_id"`

	Status     MatchStatus `db:"status"`
	WinnerSlot *int        `db:"winner_slot"`

	WinnerNextMatchID *uuid.UUID `db:"winner_next_match_id"`
	WinnerNextSlot    *int       `db:"winner_next_slot"`

	LoserNextMatchID *uuid.UUID `db:"loser_next_match_id"`
	LoserNextSlot    *int       `db:"loser_next_slot"`

	IsBye          bool `db:"is_bye"`
	IsBracketReset bool `db:"is_bracket_reset"`

	ReplayLink *string `db:"replay_link"`

	CreatedAt time.Time `db:"created_at"`
}

func (m *Match) Complete() bool {
	return m.Status == MatchComplete
}

func (m *Match) SlotTeam(slot int) *uuid.UUID {
	if slot == 1 {
		return m.Team1ID
	}
	return m.Team2ID
}

func (m *Match) WinnerTeamID() *uuid.UUID {
	if m.Status != MatchComplete || m.WinnerSlot == nil {
		return nil
	}
	return m.SlotTeam(*m.WinnerSlot)
}

// LoserTeamID is nil for byes: a match decided without an opponent has a
// winner but nobody to send down to the losers bracket.
func (m *Match) LoserTeamID() *uuid.UUID {
	if m.Status != MatchComplete || m.WinnerSlot == nil {
		return nil
	}
	if *m.WinnerSlot == 1 {
		return m.Team2ID
	}
	return m.Team1ID
}
