package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/mossholder/creatureleague/internal/league"
	"github.com/mossholder/creatureleague/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type leagueFixture struct {
	service *LeagueService
	league  *league.League
	teams   map[string]*league.Team
}

func buildLeagueFixture(t *testing.T, db *sqlx.DB, teamNames ...string) *leagueFixture {
	t.Helper()

	leagueService := NewLeagueService(db, store.NewLeagueStore(db))
	ctx := testContext()

	l, err := leagueService.CreateLeague(ctx, "Test League", 2026)
	require.NoError(t, err)

	f := &leagueFixture{
		service: leagueService,
		league:  l,
		teams:   make(map[string]*league.Team, len(teamNames)),
	}
	for _, name := range teamNames {
		team, err := leagueService.AddTeam(ctx, l.ID, name)
		require.NoError(t, err)
		f.teams[name] = team
	}
	return f
}

func TestCreateLeague(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	f := buildLeagueFixture(t, db)
	assert.Equal(t, "Test League", f.league.Name)
	assert.Equal(t, 2026, f.league.Season)
	assert.NotEqual(t, uuid.Nil, f.league.OwnerID)
}

func TestAddTeam_WaiverPriority(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	f := buildLeagueFixture(t, db, "First", "Second", "Third")

	// Each new team joins at the back of the standings, which is the front
	// of the waiver order.
	assert.Equal(t, 1, f.teams["First"].WaiverPriority)
	assert.Equal(t, 2, f.teams["Second"].WaiverPriority)
	assert.Equal(t, 3, f.teams["Third"].WaiverPriority)
}

func TestRecordWeekAndStandings(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	f := buildLeagueFixture(t, db, "Alpha", "Beta", "Gamma")
	ctx := testContext()

	require.NoError(t, f.service.RecordWeek(ctx, f.teams["Beta"].ID, true, 120.5))
	require.NoError(t, f.service.RecordWeek(ctx, f.teams["Beta"].ID, true, 98))
	require.NoError(t, f.service.RecordWeek(ctx, f.teams["Gamma"].ID, true, 110))
	require.NoError(t, f.service.RecordWeek(ctx, f.teams["Alpha"].ID, false, 80))

	standings, err := f.service.GetStandings(ctx, f.league.ID.String())
	require.NoError(t, err)
	require.Len(t, standings, 3)

	assert.Equal(t, "Beta", standings[0].Name)
	assert.Equal(t, 2, standings[0].Wins)
	assert.InDelta(t, 218.5, standings[0].PointsFor, 0.001)

	assert.Equal(t, "Gamma", standings[1].Name)
	assert.Equal(t, 1, standings[1].Wins)

	assert.Equal(t, "Alpha", standings[2].Name)
	assert.Equal(t, 0, standings[2].Wins)
	assert.Equal(t, 1, standings[2].Losses)
}

func TestAddCreatureAndRoster(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	f := buildLeagueFixture(t, db, "Alpha")
	ctx := testContext()

	team := f.teams["Alpha"]
	_, err := f.service.AddCreature(ctx, f.league.ID, &team.ID, "Emberwing", "Drake")
	require.NoError(t, err)
	_, err = f.service.AddCreature(ctx, f.league.ID, &team.ID, "Mossback", "Tortoise")
	require.NoError(t, err)

	// Free agent, belongs to nobody.
	freeAgent, err := f.service.AddCreature(ctx, f.league.ID, nil, "Glimmer", "Sprite")
	require.NoError(t, err)
	assert.Nil(t, freeAgent.TeamID)

	roster, err := f.service.GetRoster(ctx, team.ID.String())
	require.NoError(t, err)
	assert.Len(t, roster, 2)
}
