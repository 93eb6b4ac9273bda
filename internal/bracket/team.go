package bracket

import (
	"time"

	"github.com/google/uuid"
)

// Team is a playoff participant. It is a snapshot taken at seeding time:
// ExternalRef points back at the league roster entry it was copied from,
// and the engine never consults the roster again after the bracket is built.
type Team struct {
	ID           uuid.UUID `db:"id"`
	TournamentID uuid.UUID `db:"tournament_id"`
	Name         string    `db:"name"`
	Seed         int       `db:"seed"`
	ExternalRef  *string   `db:"external_ref"`
	CreatedAt    time.Time `db:"created_at"`
}
