package league

import (
	"time"

	"github.com/google/uuid"
)

type TradeStatus string

const (
	TradeProposed TradeStatus = "proposed"
	TradeAccepted TradeStatus = "accepted"
	TradeRejected TradeStatus = "rejected"
)

// Trade swaps one creature for another between two teams. The workflow is a
// single transition out of proposed; accepted and rejected are terminal.
type Trade struct {
	ID                  uuid.UUID   `db:"id"`
	LeagueID            uuid.UUID   `db:"league_id"`
	FromTeamID          uuid.UUID   `db:"from_team_id"`
	ToTeamID            uuid.UUID   `db:"to_team_id"`
	OfferedCreatureID   uuid.UUID   `db:"offered_creature_id"`
	RequestedCreatureID uuid.UUID   `db:"requested_creature_id"`
	Status              TradeStatus `db:"status"`
	CreatedAt           time.Time   `db:"created_at"`
}

type WaiverStatus string

const (
	WaiverPending  WaiverStatus = "pending"
	WaiverApproved WaiverStatus = "approved"
	WaiverRejected WaiverStatus = "rejected"
)

type WaiverClaim struct {
	ID         uuid.UUID    `db:"id"`
	LeagueID   uuid.UUID    `db:"league_id"`
	TeamID     uuid.UUID    `db:"team_id"`
	CreatureID uuid.UUID    `db:"creature_id"`
	Priority   int          `db:"priority"`
	Status     WaiverStatus `db:"status"`
	CreatedAt  time.Time    `db:"created_at"`
}
