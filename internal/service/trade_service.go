package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/mossholder/creatureleague/internal/league"
	"github.com/mossholder/creatureleague/internal/store"
)

// TradeService runs the propose/accept/reject workflow. Accepting swaps the
// two creatures' rosters in one transaction; both outcomes are terminal.
type TradeService struct {
	db    *sqlx.DB
	store *store.LeagueStore
}

func NewTradeService(db *sqlx.DB, store *store.LeagueStore) *TradeService {
	return &TradeService{db: db, store: store}
}

func (s *TradeService) ProposeTrade(ctx context.Context, leagueID, fromTeamID, toTeamID, offeredCreatureID, requestedCreatureID uuid.UUID) (*league.Trade, error) {
	if fromTeamID == toTeamID {
		return nil, ErrSameTeamTrade
	}

	offered, err := s.store.GetCreature(ctx, offeredCreatureID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to get offered creature: %w", err)
	}
	if offered.TeamID == nil || *offered.TeamID != fromTeamID {
		return nil, ErrCreatureNotOnTeam
	}

	requested, err := s.store.GetCreature(ctx, requestedCreatureID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to get requested creature: %w", err)
	}
	if requested.TeamID == nil || *requested.TeamID != toTeamID {
		return nil, ErrCreatureNotOnTeam
	}

	trade := &league.Trade{
		ID:                  uuid.New(),
		LeagueID:            leagueID,
		FromTeamID:          fromTeamID,
		ToTeamID:            toTeamID,
		OfferedCreatureID:   offeredCreatureID,
		RequestedCreatureID: requestedCreatureID,
		Status:              league.TradeProposed,
	}
	if err := s.store.CreateTrade(ctx, trade); err != nil {
		return nil, err
	}
	return trade, nil
}

func (s *TradeService) GetTrades(ctx context.Context, leagueID string) ([]league.Trade, error) {
	return s.store.GetTrades(ctx, leagueID)
}

func (s *TradeService) AcceptTrade(ctx context.Context, tradeID uuid.UUID) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	trade, err := s.store.GetTradeTx(ctx, tx, tradeID.String())
	if err != nil {
		return fmt.Errorf("failed to get trade: %w", err)
	}
	if trade.Status != league.TradeProposed {
		return ErrTradeNotPending
	}

	if err := s.store.AssignCreature(ctx, tx, trade.OfferedCreatureID, &trade.ToTeamID); err != nil {
		return fmt.Errorf("failed to move offered creature: %w", err)
	}
	if err := s.store.AssignCreature(ctx, tx, trade.RequestedCreatureID, &trade.FromTeamID); err != nil {
		return fmt.Errorf("failed to move requested creature: %w", err)
	}
	if err := s.store.UpdateTradeStatus(ctx, tx, trade.ID, league.TradeAccepted); err != nil {
		return fmt.Errorf("failed to update trade: %w", err)
	}

	return tx.Commit()
}

func (s *TradeService) RejectTrade(ctx context.Context, tradeID uuid.UUID) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	trade, err := s.store.GetTradeTx(ctx, tx, tradeID.String())
	if err != nil {
		return fmt.Errorf("failed to get trade: %w", err)
	}
	if trade.Status != league.TradeProposed {
		return ErrTradeNotPending
	}

	if err := s.store.UpdateTradeStatus(ctx, tx, trade.ID, league.TradeRejected); err != nil {
		return fmt.Errorf("failed to update trade: %w", err)
	}

	return tx.Commit()
}
