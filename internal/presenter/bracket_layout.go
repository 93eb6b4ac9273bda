package presenter

import (
	"sort"

	"github.com/google/uuid"
	"github.com/mossholder/creatureleague/internal/bracket"
	"github.com/mossholder/creatureleague/internal/replay"
)

// The presenter flattens the aggregate into the JSON shape clients render.
// It is strictly read-only and carries no bracket-shape knowledge beyond
// grouping: round names were already derived at build time.

type TeamView struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Seed int       `json:"seed"`
}

type MatchView struct {
	ID             uuid.UUID        `json:"id"`
	Order          int              `json:"order"`
	Team1          *TeamView        `json:"team1"`
	Team2          *TeamView        `json:"team2"`
	Status         string           `json:"status"`
	WinnerTeamID   *uuid.UUID       `json:"winner_team_id"`
	IsBye          bool             `json:"is_bye"`
	IsBracketReset bool             `json:"is_bracket_reset"`
	ReplayLink     *string          `json:"replay_link,omitempty"`
	ReplayEmbed    replay.EmbedInfo `json:"replay_embed"`
}

type RoundView struct {
	Number  int         `json:"number"`
	Name    string      `json:"name"`
	Matches []MatchView `json:"matches"`
}

type BracketView struct {
	ID       uuid.UUID   `json:"id"`
	Name     string      `json:"name"`
	Format   string      `json:"format"`
	Status   string      `json:"status"`
	Champion *TeamView   `json:"champion"`
	Winners  []RoundView `json:"winners"`
	Losers   []RoundView `json:"losers,omitempty"`
	Finals   []RoundView `json:"finals,omitempty"`
}

func PrepareBracketView(tournament *bracket.Tournament, teams []bracket.Team, matches []bracket.Match) BracketView {
	teamMap := make(map[uuid.UUID]bracket.Team, len(teams))
	for _, t := range teams {
		teamMap[t.ID] = t
	}

	view := BracketView{
		ID:     tournament.ID,
		Name:   tournament.Name,
		Format: string(tournament.Format),
		Status: string(tournament.Status),
	}
	if tournament.ChampionTeamID != nil {
		view.Champion = teamView(teamMap, tournament.ChampionTeamID)
	}

	view.Winners = groupRounds(teamMap, matches, bracket.WinnersSide)
	view.Losers = groupRounds(teamMap, matches, bracket.LosersSide)
	view.Finals = groupRounds(teamMap, matches, bracket.FinalsSide)
	return view
}

func groupRounds(teamMap map[uuid.UUID]bracket.Team, matches []bracket.Match, side bracket.BracketSide) []RoundView {
	byRound := make(map[int][]MatchView)
	names := make(map[int]string)
	var roundNums []int

	for _, m := range matches {
		if m.BracketSide != side {
			continue
		}
		if _, exists := byRound[m.RoundNumber]; !exists {
			roundNums = append(roundNums, m.RoundNumber)
			names[m.RoundNumber] = m.RoundName
		}
		byRound[m.RoundNumber] = append(byRound[m.RoundNumber], matchView(teamMap, m))
	}

	sort.Ints(roundNums)

	var rounds []RoundView
	for _, n := range roundNums {
		ms := byRound[n]
		sort.Slice(ms, func(i, j int) bool { return ms[i].Order < ms[j].Order })
		rounds = append(rounds, RoundView{Number: n, Name: names[n], Matches: ms})
	}
	return rounds
}

func matchView(teamMap map[uuid.UUID]bracket.Team, m bracket.Match) MatchView {
	return MatchView{
		ID:             m.ID,
		Order:          m.MatchOrder,
		Team1:          teamView(teamMap, m.Team1ID),
		Team2:          teamView(teamMap, m.Team2ID),
		Status:         string(m.Status),
		WinnerTeamID:   m.WinnerTeamID(),
		IsBye:          m.IsBye,
		IsBracketReset: m.IsBracketReset,
		ReplayLink:     m.ReplayLink,
		ReplayEmbed:    replay.GetEmbedInfo(m.ReplayLink),
	}
}

func teamView(teamMap map[uuid.UUID]bracket.Team, id *uuid.UUID) *TeamView {
	if id == nil {
		return nil
	}
	t, ok := teamMap[*id]
	if !ok {
		return nil
	}
	return &TeamView{ID: t.ID, Name: t.Name, Seed: t.Seed}
}
