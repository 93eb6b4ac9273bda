package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/mossholder/creatureleague/internal/bracket"
)

type TournamentStore struct {
	db *sqlx.DB
}

func NewTournamentStore(db *sqlx.DB) *TournamentStore {
	return &TournamentStore{db: db}
}

func (s *TournamentStore) CreateTournament(ctx context.Context, tx *sqlx.Tx, tournament *bracket.Tournament) error {
	_, err := tx.NamedExecContext(ctx, `INSERT INTO tournaments (id, league_id, owner_id, name, format, status, champion_team_id, version)
        VALUES (:id, :league_id, :owner_id, :name, :format, :status, :champion_team_id, :version)`, tournament)
	return err
}

func (s *TournamentStore) CreateTeams(ctx context.Context, tx *sqlx.Tx, teams []bracket.Team) error {
	if len(teams) == 0 {
		return nil
	}
	_, err := tx.NamedExecContext(ctx, `INSERT INTO teams (id, tournament_id, name, seed, external_ref)
            VALUES (:id, :tournament_id, :name, :seed, :external_ref)`, teams)
	return err
}

func (s *TournamentStore) CreateMatches(ctx context.Context, tx *sqlx.Tx, matches []bracket.Match) error {
	if len(matches) == 0 {
		return nil
	}
	_, err := tx.NamedExecContext(ctx, `INSERT INTO matches (id, tournament_id, bracket_side, round_number, round_name, match_order,
            team_1_id, team_2_id, status, winner_slot, winner_next_match_id, winner_next_slot,
            loser_next_match_id, loser_next_slot, is_bye, is_bracket_reset, replay_link)
        VALUES (:id, :tournament_id, :bracket_side, :round_number, :round_name, :match_order,
            :team_1_id, :team_2_id, :status, :winner_slot, :winner_next_match_id, :winner_next_slot,
            :loser_next_match_id, :loser_next_slot, :is_bye, :is_bracket_reset, :replay_link)`, matches)
	return err
}

func (s *TournamentStore) InsertMatchTx(ctx context.Context, tx *sqlx.Tx, match *bracket.Match) error {
	return s.CreateMatches(ctx, tx, []bracket.Match{*match})
}

func (s *TournamentStore) GetTournament(ctx context.Context, id string) (*bracket.Tournament, error) {
	var tournament bracket.Tournament
	err := s.db.GetContext(ctx, &tournament, "SELECT * FROM tournaments WHERE id = ?", id)
	return &tournament, err
}

func (s *TournamentStore) GetTournamentTx(ctx context.Context, tx *sqlx.Tx, id string) (*bracket.Tournament, error) {
	var tournament bracket.Tournament
	err := tx.GetContext(ctx, &tournament, "SELECT * FROM tournaments WHERE id = ?", id)
	return &tournament, err
}

func (s *TournamentStore) GetTournamentsByUserID(ctx context.Context, userID uuid.UUID) ([]bracket.Tournament, error) {
	var tournaments []bracket.Tournament
	err := s.db.SelectContext(ctx, &tournaments, "SELECT * FROM tournaments WHERE owner_id = ? ORDER BY created_at DESC", userID)
	return tournaments, err
}

func (s *TournamentStore) GetTeams(ctx context.Context, tournamentID string) ([]bracket.Team, error) {
	var teams []bracket.Team
	err := s.db.SelectContext(ctx, &teams, "SELECT * FROM teams WHERE tournament_id = ? ORDER BY seed ASC", tournamentID)
	return teams, err
}

func (s *TournamentStore) GetTeam(ctx context.Context, id string) (*bracket.Team, error) {
	var team bracket.Team
	err := s.db.GetContext(ctx, &team, "SELECT * FROM teams WHERE id = ?", id)
	return &team, err
}

func (s *TournamentStore) GetMatch(ctx context.Context, id string) (*bracket.Match, error) {
	var match bracket.Match
	err := s.db.GetContext(ctx, &match, "SELECT * FROM matches WHERE id = ?", id)
	return &match, err
}

func (s *TournamentStore) GetMatchTx(ctx context.Context, tx *sqlx.Tx, id string) (*bracket.Match, error) {
	var match bracket.Match
	err := tx.GetContext(ctx, &match, "SELECT * FROM matches WHERE id = ?", id)
	return &match, err
}

func (s *TournamentStore) GetMatches(ctx context.Context, tournamentID string) ([]bracket.Match, error) {
	var matches []bracket.Match
	err := s.db.SelectContext(ctx, &matches, "SELECT * FROM matches WHERE tournament_id = ? ORDER BY bracket_side DESC, round_number ASC, match_order ASC", tournamentID)
	return matches, err
}

func (s *TournamentStore) GetMatchesTx(ctx context.Context, tx *sqlx.Tx, tournamentID string) ([]bracket.Match, error) {
	var matches []bracket.Match
	err := tx.SelectContext(ctx, &matches, "SELECT * FROM matches WHERE tournament_id = ? ORDER BY bracket_side DESC, round_number ASC, match_order ASC", tournamentID)
	return matches, err
}

func (s *TournamentStore) UpdateMatch(ctx context.Context, tx *sqlx.Tx, match *bracket.Match) error {
	_, err := tx.NamedExecContext(ctx, `UPDATE matches SET
            team_1_id = :team_1_id,
            team_2_id = :team_2_id,
            status = :status,
            winner_slot = :winner_slot,
            replay_link = :replay_link
        WHERE id = :id`, match)
	return err
}

// CommitTournamentVersion applies the tournament-level outcome of a result
// recording and bumps the aggregate version in the same statement. A stale
// writer matches zero rows and is reported as a concurrent modification so
// the caller can reload and retry.
func (s *TournamentStore) CommitTournamentVersion(ctx context.Context, tx *sqlx.Tx, tournament *bracket.Tournament) error {
	res, err := tx.ExecContext(ctx, `UPDATE tournaments SET
            status = ?, champion_team_id = ?, version = version + 1
        WHERE id = ? AND version = ?`,
		tournament.Status, tournament.ChampionTeamID, tournament.ID, tournament.Version)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return bracket.ErrConcurrentModification
	}
	tournament.Version++
	return nil
}
