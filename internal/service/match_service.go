package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/mossholder/creatureleague/internal/bracket"
	"github.com/mossholder/creatureleague/internal/store"
)

// MatchService is the advancement engine: RecordResult is the only path
// that mutates a bracket after it has been built.
type MatchService struct {
	db    *sqlx.DB
	store *store.TournamentStore

	// OnResultRecorded fires after a successful commit, once per recorded
	// result, with the completed match. Used by the live update hub.
	OnResultRecorded func(match bracket.Match)
}

func NewMatchService(db *sqlx.DB, store *store.TournamentStore) *MatchService {
	return &MatchService{db: db, store: store}
}

// RecordResult validates and applies a reported winner for a match, then
// propagates the outcome through the bracket: the winner moves along its
// winner reference, the loser drops into the losers bracket in double
// elimination, downstream byes complete recursively, and terminal
// conditions (champion, bracket reset) are resolved. The whole transition
// is one transaction; a validation failure leaves the bracket untouched.
func (s *MatchService) RecordResult(ctx context.Context, matchID, winnerID uuid.UUID, replayLink *string) (*bracket.Match, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	match, err := s.store.GetMatchTx(ctx, tx, matchID.String())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, bracket.ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to get match: %w", err)
	}

	tournament, err := s.store.GetTournamentTx(ctx, tx, match.TournamentID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to get tournament: %w", err)
	}

	// A decided bracket has no pending matches left to record against.
	if tournament.Status == bracket.TournamentCompleted {
		return nil, bracket.ErrMatchAlreadyComplete
	}
	if match.Complete() {
		return nil, bracket.ErrMatchAlreadyComplete
	}
	if match.Team1ID == nil || match.Team2ID == nil {
		return nil, bracket.ErrMatchNotReady
	}

	var winnerSlot int
	switch {
	case *match.Team1ID == winnerID:
		winnerSlot = 1
	case *match.Team2ID == winnerID:
		winnerSlot = 2
	default:
		return nil, bracket.ErrInvalidWinner
	}

	all, err := s.store.GetMatchesTx(ctx, tx, match.TournamentID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to load bracket: %w", err)
	}
	matchMap := make(map[uuid.UUID]*bracket.Match, len(all))
	for i := range all {
		matchMap[all[i].ID] = &all[i]
	}
	match = matchMap[matchID]
	if replayLink != nil {
		match.ReplayLink = replayLink
	}

	dirty := make(map[uuid.UUID]*bracket.Match)
	completeMatch(matchMap, match, winnerSlot, dirty)

	var resetMatch *bracket.Match
	switch {
	case match.BracketSide == bracket.FinalsSide && match.IsBracketReset:
		// Second grand final is always decisive.
		tournament.ChampionTeamID = &winnerID
		tournament.Status = bracket.TournamentCompleted
	case match.BracketSide == bracket.FinalsSide:
		if winnerSlot == 2 {
			// The losers-bracket entrant beat the undefeated team: both now
			// have one loss, so a second grand final settles it.
			resetMatch = newMatch(match.TournamentID, bracket.FinalsSide, 2, 1, "Grand Finals Reset")
			resetMatch.IsBracketReset = true
			resetMatch.Team1ID = match.Team1ID
			resetMatch.Team2ID = match.Team2ID
		} else {
			tournament.ChampionTeamID = &winnerID
			tournament.Status = bracket.TournamentCompleted
		}
	case match.BracketSide == bracket.WinnersSide && match.WinnerNextMatchID == nil:
		// Single-elimination final.
		tournament.ChampionTeamID = &winnerID
		tournament.Status = bracket.TournamentCompleted
	}

	for _, m := range dirty {
		if err := s.store.UpdateMatch(ctx, tx, m); err != nil {
			return nil, fmt.Errorf("failed to update match: %w", err)
		}
	}
	if resetMatch != nil {
		if err := s.store.InsertMatchTx(ctx, tx, resetMatch); err != nil {
			return nil, fmt.Errorf("failed to create bracket reset match: %w", err)
		}
	}
	if err := s.store.CommitTournamentVersion(ctx, tx, tournament); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	if s.OnResultRecorded != nil {
		s.OnResultRecorded(*match)
	}

	return match, nil
}
