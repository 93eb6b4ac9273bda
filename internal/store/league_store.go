package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/mossholder/creatureleague/internal/league"
)

type LeagueStore struct {
	db *sqlx.DB
}

func NewLeagueStore(db *sqlx.DB) *LeagueStore {
	return &LeagueStore{db: db}
}

func (s *LeagueStore) CreateLeague(ctx context.Context, l *league.League) error {
	_, err := s.db.NamedExecContext(ctx, `INSERT INTO leagues (id, owner_id, name, season)
        VALUES (:id, :owner_id, :name, :season)`, l)
	return err
}

func (s *LeagueStore) GetLeague(ctx context.Context, id string) (*league.League, error) {
	var l league.League
	err := s.db.GetContext(ctx, &l, "SELECT * FROM leagues WHERE id = ?", id)
	return &l, err
}

func (s *LeagueStore) GetLeaguesByOwner(ctx context.Context, ownerID uuid.UUID) ([]league.League, error) {
	var leagues []league.League
	err := s.db.SelectContext(ctx, &leagues, "SELECT * FROM leagues WHERE owner_id = ? ORDER BY created_at DESC", ownerID)
	return leagues, err
}

func (s *LeagueStore) CreateTeam(ctx context.Context, t *league.Team) error {
	_, err := s.db.NamedExecContext(ctx, `INSERT INTO league_teams (id, league_id, owner_id, name, wins, losses, points_for, waiver_priority)
        VALUES (:id, :league_id, :owner_id, :name, :wins, :losses, :points_for, :waiver_priority)`, t)
	return err
}

func (s *LeagueStore) GetTeam(ctx context.Context, id string) (*league.Team, error) {
	var t league.Team
	err := s.db.GetContext(ctx, &t, "SELECT * FROM league_teams WHERE id = ?", id)
	return &t, err
}

// GetStandings returns the league's teams ordered by regular-season record.
// Exact ties survive in insertion order; the seeding resolver applies the
// caller's explicit tiebreak on top.
func (s *LeagueStore) GetStandings(ctx context.Context, leagueID string) ([]league.Team, error) {
	var teams []league.Team
	err := s.db.SelectContext(ctx, &teams, `SELECT * FROM league_teams WHERE league_id = ?
        ORDER BY wins DESC, points_for DESC, created_at ASC`, leagueID)
	return teams, err
}

func (s *LeagueStore) GetStandingsTx(ctx context.Context, tx *sqlx.Tx, leagueID string) ([]league.Team, error) {
	var teams []league.Team
	err := tx.SelectContext(ctx, &teams, `SELECT * FROM league_teams WHERE league_id = ?
        ORDER BY wins DESC, points_for DESC, created_at ASC`, leagueID)
	return teams, err
}

func (s *LeagueStore) UpdateTeamRecord(ctx context.Context, t *league.Team) error {
	_, err := s.db.NamedExecContext(ctx, `UPDATE league_teams SET
        wins = :wins, losses = :losses, points_for = :points_for, waiver_priority = :waiver_priority
        WHERE id = :id`, t)
	return err
}

func (s *LeagueStore) UpdateWaiverPriority(ctx context.Context, tx *sqlx.Tx, teamID uuid.UUID, priority int) error {
	_, err := tx.ExecContext(ctx, "UPDATE league_teams SET waiver_priority = ? WHERE id = ?", priority, teamID)
	return err
}

func (s *LeagueStore) CreateCreature(ctx context.Context, c *league.Creature) error {
	_, err := s.db.NamedExecContext(ctx, `INSERT INTO creatures (id, league_id, team_id, name, species)
        VALUES (:id, :league_id, :team_id, :name, :species)`, c)
	return err
}

func (s *LeagueStore) GetCreature(ctx context.Context, id string) (*league.Creature, error) {
	var c league.Creature
	err := s.db.GetContext(ctx, &c, "SELECT * FROM creatures WHERE id = ?", id)
	return &c, err
}

func (s *LeagueStore) GetRoster(ctx context.Context, teamID string) ([]league.Creature, error) {
	var creatures []league.Creature
	err := s.db.SelectContext(ctx, &creatures, "SELECT * FROM creatures WHERE team_id = ? ORDER BY name ASC", teamID)
	return creatures, err
}

func (s *LeagueStore) AssignCreature(ctx context.Context, tx *sqlx.Tx, creatureID uuid.UUID, teamID *uuid.UUID) error {
	_, err := tx.ExecContext(ctx, "UPDATE creatures SET team_id = ? WHERE id = ?", teamID, creatureID)
	return err
}

func (s *LeagueStore) CreateTrade(ctx context.Context, t *league.Trade) error {
	_, err := s.db.NamedExecContext(ctx, `INSERT INTO trades (id, league_id, from_team_id, to_team_id, offered_creature_id, requested_creature_id, status)
        VALUES (:id, :league_id, :from_team_id, :to_team_id, :offered_creature_id, :requested_creature_id, :status)`, t)
	return err
}

func (s *LeagueStore) GetTrade(ctx context.Context, id string) (*league.Trade, error) {
	var t league.Trade
	err := s.db.GetContext(ctx, &t, "SELECT * FROM trades WHERE id = ?", id)
	return &t, err
}

func (s *LeagueStore) GetTradeTx(ctx context.Context, tx *sqlx.Tx, id string) (*league.Trade, error) {
	var t league.Trade
	err := tx.GetContext(ctx, &t, "SELECT * FROM trades WHERE id = ?", id)
	return &t, err
}

func (s *LeagueStore) GetTrades(ctx context.Context, leagueID string) ([]league.Trade, error) {
	var trades []league.Trade
	err := s.db.SelectContext(ctx, &trades, "SELECT * FROM trades WHERE league_id = ? ORDER BY created_at DESC", leagueID)
	return trades, err
}

func (s *LeagueStore) UpdateTradeStatus(ctx context.Context, tx *sqlx.Tx, tradeID uuid.UUID, status league.TradeStatus) error {
	_, err := tx.ExecContext(ctx, "UPDATE trades SET status = ? WHERE id = ?", status, tradeID)
	return err
}

func (s *LeagueStore) CreateWaiverClaim(ctx context.Context, c *league.WaiverClaim) error {
	_, err := s.db.NamedExecContext(ctx, `INSERT INTO waiver_claims (id, league_id, team_id, creature_id, priority, status)
        VALUES (:id, :league_id, :team_id, :creature_id, :priority, :status)`, c)
	return err
}

func (s *LeagueStore) GetWaiverClaim(ctx context.Context, id string) (*league.WaiverClaim, error) {
	var c league.WaiverClaim
	err := s.db.GetContext(ctx, &c, "SELECT * FROM waiver_claims WHERE id = ?", id)
	return &c, err
}

func (s *LeagueStore) GetWaiverClaimTx(ctx context.Context, tx *sqlx.Tx, id string) (*league.WaiverClaim, error) {
	var c league.WaiverClaim
	err := tx.GetContext(ctx, &c, "SELECT * FROM waiver_claims WHERE id = ?", id)
	return &c, err
}

func (s *LeagueStore) GetPendingClaims(ctx context.Context, leagueID string) ([]league.WaiverClaim, error) {
	var claims []league.WaiverClaim
	err := s.db.SelectContext(ctx, &claims, `SELECT * FROM waiver_claims WHERE league_id = ? AND status = 'pending'
        ORDER BY priority ASC, created_at ASC`, leagueID)
	return claims, err
}

func (s *LeagueStore) GetPendingClaimsTx(ctx context.Context, tx *sqlx.Tx, leagueID string) ([]league.WaiverClaim, error) {
	var claims []league.WaiverClaim
	err := tx.SelectContext(ctx, &claims, `SELECT * FROM waiver_claims WHERE league_id = ? AND status = 'pending'
        ORDER BY priority ASC, created_at ASC`, leagueID)
	return claims, err
}

func (s *LeagueStore) UpdateWaiverStatus(ctx context.Context, tx *sqlx.Tx, claimID uuid.UUID, status league.WaiverStatus) error {
	_, err := tx.ExecContext(ctx, "UPDATE waiver_claims SET status = ? WHERE id = ?", status, claimID)
	return err
}
