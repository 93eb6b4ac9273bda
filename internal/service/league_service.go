package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/mossholder/creatureleague/internal/league"
	"github.com/mossholder/creatureleague/internal/middleware"
	"github.com/mossholder/creatureleague/internal/store"
)

type LeagueService struct {
	db    *sqlx.DB
	store *store.LeagueStore
}

func NewLeagueService(db *sqlx.DB, store *store.LeagueStore) *LeagueService {
	return &LeagueService{db: db, store: store}
}

func (s *LeagueService) CreateLeague(ctx context.Context, name string, season int) (*league.League, error) {
	ownerID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, fmt.Errorf("user ID not found in the context")
	}
	l := &league.League{
		ID:      uuid.New(),
		OwnerID: ownerID,
		Name:    name,
		Season:  season,
	}
	if err := s.store.CreateLeague(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

func (s *LeagueService) AddTeam(ctx context.Context, leagueID uuid.UUID, name string) (*league.Team, error) {
	ownerID, _ := middleware.GetUserIDFromContext(ctx)

	standings, err := s.store.GetStandings(ctx, leagueID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to load standings: %w", err)
	}

	t := &league.Team{
		ID:       uuid.New(),
		LeagueID: leagueID,
		OwnerID:  ownerID,
		Name:     name,
		// Placeholder until the next resolution recomputes priorities from
		// reverse standings; a win-less new team then picks first.
		WaiverPriority: len(standings) + 1,
	}
	if err := s.store.CreateTeam(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *LeagueService) AddCreature(ctx context.Context, leagueID uuid.UUID, teamID *uuid.UUID, name, species string) (*league.Creature, error) {
	c := &league.Creature{
		ID:       uuid.New(),
		LeagueID: leagueID,
		TeamID:   teamID,
		Name:     name,
		Species:  species,
	}
	if err := s.store.CreateCreature(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *LeagueService) GetLeague(ctx context.Context, id string) (*league.League, error) {
	return s.store.GetLeague(ctx, id)
}

func (s *LeagueService) GetLeaguesForUser(ctx context.Context) ([]league.League, error) {
	ownerID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, fmt.Errorf("user ID not found in the context")
	}
	return s.store.GetLeaguesByOwner(ctx, ownerID)
}

func (s *LeagueService) GetStandings(ctx context.Context, leagueID string) ([]league.Team, error) {
	return s.store.GetStandings(ctx, leagueID)
}

func (s *LeagueService) GetRoster(ctx context.Context, teamID string) ([]league.Creature, error) {
	return s.store.GetRoster(ctx, teamID)
}

func (s *LeagueService) RecordWeek(ctx context.Context, teamID uuid.UUID, won bool, points float64) error {
	team, err := s.store.GetTeam(ctx, teamID.String())
	if err != nil {
		return fmt.Errorf("failed to get team: %w", err)
	}
	if won {
		team.Wins++
	} else {
		team.Losses++
	}
	team.PointsFor += points
	return s.store.UpdateTeamRecord(ctx, team)
}
