package bracket

import (
	"time"

	"github.com/google/uuid"
)

type TournamentStatus string

const (
	TournamentInProgress TournamentStatus = "in_progress"
	TournamentCompleted  TournamentStatus = "completed"
)

type Format string

const (
	SingleElimination Format = "single_elimination"
	DoubleElimination Format = "double_elimination"
)

// Tournament is the bracket aggregate root. ChampionTeamID stays nil until
// the advancement engine decides a champion, after which the whole structure
// is immutable. Version backs the optimistic write check: every result
// recording bumps it, and a stale writer is rejected instead of applied.
type Tournament struct {
	ID             uuid.UUID        `db:"id"`
	LeagueID       *uuid.UUID       `db:"league_id"`
	OwnerID        uuid.UUID        `db:"owner_id"`
	Name           string           `db:"name"`
	Format         Format           `db:"format"`
	Status         TournamentStatus `db:"status"`
	ChampionTeamID *uuid.UUID       `db:"champion_team_id"`
	Version        int              `db:"version"`
	CreatedAt      time.Time        `db:"created_at"`
}
