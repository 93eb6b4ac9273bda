package service

import (
	"context"
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/mossholder/creatureleague/internal/bracket"
	"github.com/mossholder/creatureleague/internal/middleware"
	"github.com/mossholder/creatureleague/internal/store"
	"github.com/mossholder/creatureleague/internal/utils"
)

type BracketBuilder struct {
	db          *sqlx.DB
	store       *store.TournamentStore
	leagueStore *store.LeagueStore
}

func NewBracketBuilder(db *sqlx.DB, tournamentStore *store.TournamentStore, leagueStore *store.LeagueStore) *BracketBuilder {
	return &BracketBuilder{db: db, store: tournamentStore, leagueStore: leagueStore}
}

func newMatch(tournamentID uuid.UUID, side bracket.BracketSide, round, order int, name string) *bracket.Match {
	return &bracket.Match{
		ID:           uuid.New(),
		TournamentID: tournamentID,
		BracketSide:  side,
		RoundNumber:  round,
		MatchOrder:   order,
		RoundName:    name,
		Status:       bracket.MatchPending,
	}
}

// buildMatches turns a seeded team list into the full initial match set:
// winners bracket always, losers bracket and a pending grand final for
// double elimination. Round-1 byes are completed here through the same
// propagation code the advancement engine uses.
func buildMatches(tournamentID uuid.UUID, format bracket.Format, teams []bracket.Team) ([]bracket.Match, error) {
	if format != bracket.SingleElimination && format != bracket.DoubleElimination {
		return nil, bracket.ErrUnsupportedFormat
	}
	if len(teams) < 2 {
		return nil, bracket.ErrInvalidFieldSize
	}

	bracketSize := calcBracketSize(len(teams))
	totalRounds := int(math.Log2(float64(bracketSize)))

	// Winners bracket, generated final-first so each match can point at its
	// already-created parent.
	wb := make([][]*bracket.Match, totalRounds+1)
	for r := totalRounds; r >= 1; r-- {
		count := 1 << (totalRounds - r)
		wb[r] = make([]*bracket.Match, count)
		for i := range wb[r] {
			m := newMatch(tournamentID, bracket.WinnersSide, r, i+1, bracket.RoundName(r, totalRounds))
			if r < totalRounds {
				parent := wb[r+1][i/2]
				m.WinnerNextMatchID = utils.Ptr(parent.ID)
				if (i+1)%2 != 0 {
					m.WinnerNextSlot = utils.Ptr(1)
				} else {
					m.WinnerNextSlot = utils.Ptr(2)
				}
			}
			wb[r][i] = m
		}
	}

	var lb [][]*bracket.Match
	var gf *bracket.Match
	lbTotal := 0

	if format == bracket.DoubleElimination {
		// Losers bracket rounds alternate: odd rounds pair up losers-side
		// winners, even rounds interleave the losers re-entering from the
		// matching winners round. Round 1 is fed entirely by winners round 1.
		lbTotal = 2 * (totalRounds - 1)
		lb = make([][]*bracket.Match, lbTotal+1)
		for j := 1; j <= lbTotal; j++ {
			count := bracketSize >> (((j + 1) / 2) + 1)
			lb[j] = make([]*bracket.Match, count)
			for i := range lb[j] {
				lb[j][i] = newMatch(tournamentID, bracket.LosersSide, j, i+1, bracket.LosersRoundName(j, lbTotal))
			}
		}

		for j := 1; j < lbTotal; j++ {
			for i, m := range lb[j] {
				if j%2 != 0 {
					next := lb[j+1][i]
					m.WinnerNextMatchID = utils.Ptr(next.ID)
					m.WinnerNextSlot = utils.Ptr(1)
				} else {
					next := lb[j+1][i/2]
					m.WinnerNextMatchID = utils.Ptr(next.ID)
					if (i+1)%2 != 0 {
						m.WinnerNextSlot = utils.Ptr(1)
					} else {
						m.WinnerNextSlot = utils.Ptr(2)
					}
				}
			}
		}

		for i, m := range wb[1] {
			if lbTotal == 0 {
				break
			}
			target := lb[1][i/2]
			m.LoserNextMatchID = utils.Ptr(target.ID)
			if (i+1)%2 != 0 {
				m.LoserNextSlot = utils.Ptr(1)
			} else {
				m.LoserNextSlot = utils.Ptr(2)
			}
		}
		// Later winners-round losers re-enter in reverse order so a team is
		// not immediately rematched against the opponent that sent it down.
		for r := 2; r <= totalRounds; r++ {
			j := 2 * (r - 1)
			count := len(lb[j])
			for i, m := range wb[r] {
				target := lb[j][count-1-i]
				m.LoserNextMatchID = utils.Ptr(target.ID)
				m.LoserNextSlot = utils.Ptr(2)
			}
		}

		// Grand final is created pending and always requires an explicit
		// result, even once both feeders have winners.
		gf = newMatch(tournamentID, bracket.FinalsSide, 1, 1, "Grand Finals")
		wbFinal := wb[totalRounds][0]
		wbFinal.WinnerNextMatchID = utils.Ptr(gf.ID)
		wbFinal.WinnerNextSlot = utils.Ptr(1)
		if lbTotal > 0 {
			lbFinal := lb[lbTotal][0]
			lbFinal.WinnerNextMatchID = utils.Ptr(gf.ID)
			lbFinal.WinnerNextSlot = utils.Ptr(2)
		} else {
			// Two-team double elimination has no losers rounds: the winners
			// final loser drops straight into the grand final.
			wbFinal.LoserNextMatchID = utils.Ptr(gf.ID)
			wbFinal.LoserNextSlot = utils.Ptr(2)
		}
	}

	all := make([]*bracket.Match, 0)
	for r := 1; r <= totalRounds; r++ {
		all = append(all, wb[r]...)
	}
	for j := 1; j <= lbTotal; j++ {
		all = append(all, lb[j]...)
	}
	if gf != nil {
		all = append(all, gf)
	}

	matchMap := make(map[uuid.UUID]*bracket.Match, len(all))
	for _, m := range all {
		matchMap[m.ID] = m
	}

	pairings := generateRound1Pairs(bracketSize)
	for i, pair := range pairings {
		match := wb[1][i]
		if pair[0] < len(teams) {
			match.Team1ID = &teams[pair[0]].ID
		}
		if pair[1] < len(teams) {
			match.Team2ID = &teams[pair[1]].ID
		}
	}

	markByes(all, matchMap, len(teams))

	// Round-1 byes resolve immediately; everything downstream cascades
	// through the shared advancement path.
	dirty := make(map[uuid.UUID]*bracket.Match)
	for _, m := range wb[1] {
		if !m.IsBye || m.Complete() {
			continue
		}
		if m.Team1ID != nil {
			completeMatch(matchMap, m, 1, dirty)
		} else if m.Team2ID != nil {
			completeMatch(matchMap, m, 2, dirty)
		}
	}

	matches := make([]bracket.Match, 0, len(all))
	for _, m := range all {
		matches = append(matches, *m)
	}
	return matches, nil
}

// markByes flags every match that can only ever be reached by one
// participant. Slot liveness flows forward from round 1: a bye produces a
// winner but no loser, so losers-bracket slots behind a bye stay dead, and
// a losers match with a dead side is itself a bye once its live participant
// shows up.
func markByes(ordered []*bracket.Match, matchMap map[uuid.UUID]*bracket.Match, fieldSize int) {
	live := make(map[uuid.UUID]*[2]bool, len(ordered))
	for _, m := range ordered {
		live[m.ID] = &[2]bool{}
	}
	for _, m := range ordered {
		if m.BracketSide == bracket.WinnersSide && m.RoundNumber == 1 {
			live[m.ID][0] = m.Team1ID != nil
			live[m.ID][1] = m.Team2ID != nil
		}
	}

	for _, m := range ordered {
		l := live[m.ID]
		producesWinner := l[0] || l[1]
		producesLoser := l[0] && l[1]
		if m.WinnerNextMatchID != nil && producesWinner {
			live[*m.WinnerNextMatchID][*m.WinnerNextSlot-1] = true
		}
		if m.LoserNextMatchID != nil && producesLoser {
			live[*m.LoserNextMatchID][*m.LoserNextSlot-1] = true
		}
	}

	for _, m := range ordered {
		l := live[m.ID]
		if (l[0] || l[1]) && !(l[0] && l[1]) {
			m.IsBye = true
		}
	}
}

// completeMatch assigns the winner and pushes both participants through the
// forward references, recursively completing downstream byes as they fill.
// Shared between build-time bye resolution and the advancement engine.
func completeMatch(matchMap map[uuid.UUID]*bracket.Match, m *bracket.Match, winnerSlot int, dirty map[uuid.UUID]*bracket.Match) {
	m.WinnerSlot = utils.Ptr(winnerSlot)
	m.Status = bracket.MatchComplete
	dirty[m.ID] = m

	if winner := m.WinnerTeamID(); winner != nil && m.WinnerNextMatchID != nil {
		advanceTeam(matchMap, *m.WinnerNextMatchID, *m.WinnerNextSlot, *winner, dirty)
	}
	if loser := m.LoserTeamID(); loser != nil && m.LoserNextMatchID != nil {
		advanceTeam(matchMap, *m.LoserNextMatchID, *m.LoserNextSlot, *loser, dirty)
	}
}

func advanceTeam(matchMap map[uuid.UUID]*bracket.Match, matchID uuid.UUID, slot int, teamID uuid.UUID, dirty map[uuid.UUID]*bracket.Match) {
	next, ok := matchMap[matchID]
	if !ok {
		return
	}
	if slot == 1 {
		next.Team1ID = &teamID
	} else {
		next.Team2ID = &teamID
	}
	dirty[next.ID] = next

	if next.IsBye && next.Status == bracket.MatchPending {
		completeMatch(matchMap, next, slot, dirty)
	}
}

// CreateTournament builds and persists a playoff bracket from an explicit,
// already seed-ordered team list.
func (s *BracketBuilder) CreateTournament(ctx context.Context, name string, format bracket.Format, leagueID *uuid.UUID, inputs []TeamInput) (uuid.UUID, error) {
	if len(inputs) < 2 {
		return uuid.Nil, bracket.ErrInvalidFieldSize
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return uuid.Nil, err
	}
	defer tx.Rollback()

	tournamentID := uuid.New()
	ownerID, _ := middleware.GetUserIDFromContext(ctx)
	tournament := bracket.Tournament{
		ID:       tournamentID,
		LeagueID: leagueID,
		OwnerID:  ownerID,
		Name:     name,
		Format:   format,
		Status:   bracket.TournamentInProgress,
		Version:  1,
	}

	teams := seedTeams(tournamentID, inputs)

	matches, err := buildMatches(tournamentID, format, teams)
	if err != nil {
		return uuid.Nil, err
	}

	if err := s.store.CreateTournament(ctx, tx, &tournament); err != nil {
		return uuid.Nil, err
	}
	if err := s.store.CreateTeams(ctx, tx, teams); err != nil {
		return uuid.Nil, err
	}
	if err := s.store.CreateMatches(ctx, tx, matches); err != nil {
		return uuid.Nil, err
	}

	return tournamentID, tx.Commit()
}

// CreatePlayoffFromLeague seeds the top fieldSize teams of the league's
// standings and builds the playoff bracket. fieldSize 0 takes the whole
// league.
func (s *BracketBuilder) CreatePlayoffFromLeague(ctx context.Context, leagueID uuid.UUID, name string, format bracket.Format, fieldSize int, tiebreak []uuid.UUID) (uuid.UUID, error) {
	standings, err := s.leagueStore.GetStandings(ctx, leagueID.String())
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to load standings: %w", err)
	}

	inputs, err := SeedFromStandings(standings, tiebreak)
	if err != nil {
		return uuid.Nil, err
	}
	if fieldSize > 0 && fieldSize < len(inputs) {
		inputs = inputs[:fieldSize]
	}
	if len(inputs) < 2 {
		return uuid.Nil, bracket.ErrInvalidFieldSize
	}

	return s.CreateTournament(ctx, name, format, &leagueID, inputs)
}
