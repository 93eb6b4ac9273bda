package league

import (
	"time"

	"github.com/google/uuid"
)

type League struct {
	ID        uuid.UUID `db:"id"`
	OwnerID   uuid.UUID `db:"owner_id"`
	Name      string    `db:"name"`
	Season    int       `db:"season"`
	CreatedAt time.Time `db:"created_at"`
}

// Team is a league franchise with its regular-season record. Wins and
// PointsFor feed the playoff seeding; WaiverPriority is reverse standings.
type Team struct {
	ID             uuid.UUID `db:"id"`
	LeagueID       uuid.UUID `db:"league_id"`
	OwnerID        uuid.UUID `db:"owner_id"`
	Name           string    `db:"name"`
	Wins           int       `db:"wins"`
	Losses         int       `db:"losses"`
	PointsFor      float64   `db:"points_for"`
	WaiverPriority int       `db:"waiver_priority"`
	CreatedAt      time.Time `db:"created_at"`
}

// Creature is a rosterable participant. TeamID nil means free agent.
type Creature struct {
	ID        uuid.UUID  `db:"id"`
	LeagueID  uuid.UUID  `db:"league_id"`
	TeamID    *uuid.UUID `db:"team_id"`
	Name      string     `db:"name"`
	Species   string     `db:"species"`
	CreatedAt time.Time  `db:"created_at"`
}
