package service

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/mossholder/creatureleague/internal/bracket"
	"github.com/mossholder/creatureleague/internal/middleware"
	"github.com/mossholder/creatureleague/internal/store"
	"golang.org/x/sync/errgroup"
)

// TournamentService is the read-only side of the bracket aggregate: it
// never mutates anything, presentation and export go through here.
type TournamentService struct {
	db    *sqlx.DB
	store *store.TournamentStore
}

func NewTournamentService(db *sqlx.DB, store *store.TournamentStore) *TournamentService {
	return &TournamentService{db: db, store: store}
}

type TournamentData struct {
	Tournament *bracket.Tournament
	Teams      []bracket.Team
	Matches    []bracket.Match
}

func (s *TournamentService) GetTournamentData(ctx context.Context, id string) (*TournamentData, error) {
	data := &TournamentData{}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		tournament, err := s.store.GetTournament(gCtx, id)
		if err != nil {
			return fmt.Errorf("failed to get tournament: %w", err)
		}
		data.Tournament = tournament
		return nil
	})
	g.Go(func() error {
		teams, err := s.store.GetTeams(gCtx, id)
		if err != nil {
			return fmt.Errorf("failed to get teams: %w", err)
		}
		data.Teams = teams
		return nil
	})
	g.Go(func() error {
		matches, err := s.store.GetMatches(gCtx, id)
		if err != nil {
			return fmt.Errorf("failed to get matches: %w", err)
		}
		data.Matches = matches
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return data, nil
}

func (s *TournamentService) GetMatch(ctx context.Context, id string) (*bracket.Match, error) {
	return s.store.GetMatch(ctx, id)
}

// GetChampion returns nil without error while the bracket is undecided.
func (s *TournamentService) GetChampion(ctx context.Context, tournamentID string) (*bracket.Team, error) {
	tournament, err := s.store.GetTournament(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	if tournament.ChampionTeamID == nil {
		return nil, nil
	}
	return s.store.GetTeam(ctx, tournament.ChampionTeamID.String())
}

func (s *TournamentService) GetTournamentsForUser(ctx context.Context) ([]bracket.Tournament, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, fmt.Errorf("user ID not found in the context")
	}
	return s.store.GetTournamentsByUserID(ctx, userID)
}
