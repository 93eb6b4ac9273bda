package service

import "errors"

// League workflow failures. Bracket engine errors live in the bracket
// package; these cover the roster-transaction side.
var (
	ErrTradeNotPending      = errors.New("trade has already been resolved")
	ErrClaimNotPending      = errors.New("waiver claim has already been resolved")
	ErrCreatureNotOnTeam    = errors.New("creature does not belong to that team")
	ErrCreatureNotFreeAgent = errors.New("creature is already on a roster")
	ErrSameTeamTrade        = errors.New("a team cannot trade with itself")
)
