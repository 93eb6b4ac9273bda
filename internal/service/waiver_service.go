package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/mossholder/creatureleague/internal/league"
	"github.com/mossholder/creatureleague/internal/store"
)

// WaiverService handles free-agent claims. Claims queue up per league and
// are resolved in waiver-priority order: the highest-priority claim on each
// creature is approved, competing claims are rejected.
type WaiverService struct {
	db    *sqlx.DB
	store *store.LeagueStore
}

func NewWaiverService(db *sqlx.DB, store *store.LeagueStore) *WaiverService {
	return &WaiverService{db: db, store: store}
}

func (s *WaiverService) SubmitClaim(ctx context.Context, leagueID, teamID, creatureID uuid.UUID) (*league.WaiverClaim, error) {
	creature, err := s.store.GetCreature(ctx, creatureID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to get creature: %w", err)
	}
	if creature.TeamID != nil {
		return nil, ErrCreatureNotFreeAgent
	}

	team, err := s.store.GetTeam(ctx, teamID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to get team: %w", err)
	}

	claim := &league.WaiverClaim{
		ID:         uuid.New(),
		LeagueID:   leagueID,
		TeamID:     teamID,
		CreatureID: creatureID,
		Priority:   team.WaiverPriority,
		Status:     league.WaiverPending,
	}
	if err := s.store.CreateWaiverClaim(ctx, claim); err != nil {
		return nil, err
	}
	return claim, nil
}

// ResolveClaims processes every pending claim in the league. Waiver
// priority is recomputed from the current standings in reverse (the worst
// record picks first) before claims are visited; the highest-priority claim
// on each creature wins the creature, later claims on it are rejected.
func (s *WaiverService) ResolveClaims(ctx context.Context, leagueID uuid.UUID) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	standings, err := s.store.GetStandingsTx(ctx, tx, leagueID.String())
	if err != nil {
		return fmt.Errorf("failed to load standings: %w", err)
	}
	priority := make(map[uuid.UUID]int, len(standings))
	for i, team := range standings {
		priority[team.ID] = len(standings) - i
		if err := s.store.UpdateWaiverPriority(ctx, tx, team.ID, priority[team.ID]); err != nil {
			return fmt.Errorf("failed to update waiver priority: %w", err)
		}
	}

	claims, err := s.store.GetPendingClaimsTx(ctx, tx, leagueID.String())
	if err != nil {
		return fmt.Errorf("failed to load pending claims: %w", err)
	}
	sort.SliceStable(claims, func(i, j int) bool {
		return priority[claims[i].TeamID] < priority[claims[j].TeamID]
	})

	awarded := make(map[uuid.UUID]bool)
	for _, claim := range claims {
		if awarded[claim.CreatureID] {
			if err := s.store.UpdateWaiverStatus(ctx, tx, claim.ID, league.WaiverRejected); err != nil {
				return fmt.Errorf("failed to reject claim: %w", err)
			}
			continue
		}

		if err := s.store.AssignCreature(ctx, tx, claim.CreatureID, &claim.TeamID); err != nil {
			return fmt.Errorf("failed to assign creature: %w", err)
		}
		if err := s.store.UpdateWaiverStatus(ctx, tx, claim.ID, league.WaiverApproved); err != nil {
			return fmt.Errorf("failed to approve claim: %w", err)
		}
		awarded[claim.CreatureID] = true
	}

	return tx.Commit()
}

func (s *WaiverService) RejectClaim(ctx context.Context, claimID uuid.UUID) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	claim, err := s.store.GetWaiverClaimTx(ctx, tx, claimID.String())
	if err != nil {
		return fmt.Errorf("failed to get claim: %w", err)
	}
	if claim.Status != league.WaiverPending {
		return ErrClaimNotPending
	}

	if err := s.store.UpdateWaiverStatus(ctx, tx, claim.ID, league.WaiverRejected); err != nil {
		return fmt.Errorf("failed to update claim: %w", err)
	}

	return tx.Commit()
}
