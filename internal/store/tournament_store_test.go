package store

import (
	"context"
	"testing"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/mossholder/creatureleague/internal/bracket"
	"github.com/mossholder/creatureleague/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testOwnerID = "00000000-0000-0000-0000-000000000001"

// setupTestDB creates an in-memory SQLite database and applies migrations
func setupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	database, err := sqlx.Connect("sqlite3", "file::memory:")
	require.NoError(t, err, "Failed to connect to in-memory DB")

	_, err = database.Exec("PRAGMA foreign_keys = ON;")
	require.NoError(t, err)

	driver, err := sqlite3.WithInstance(database.DB, &sqlite3.Config{})
	require.NoError(t, err, "Failed to create migrate driver instance")

	m, err := migrate.NewWithDatabaseInstance(
		"file://../../migrations",
		"sqlite3",
		driver,
	)
	require.NoError(t, err, "Failed to create migrate instance")

	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		require.NoError(t, err, "Failed to apply migrations")
	}

	return database
}

func insertTournament(t *testing.T, db *sqlx.DB, store *TournamentStore) *bracket.Tournament {
	t.Helper()

	tournament := &bracket.Tournament{
		ID:      uuid.New(),
		OwnerID: uuid.MustParse(testOwnerID),
		Name:    "Test Tournament",
		Format:  bracket.SingleElimination,
		Status:  bracket.TournamentInProgress,
		Version: 1,
	}

	tx, err := db.BeginTxx(context.Background(), nil)
	require.NoError(t, err)
	require.NoError(t, store.CreateTournament(context.Background(), tx, tournament))
	require.NoError(t, tx.Commit())
	return tournament
}

func TestCreateTournament(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	store := NewTournamentStore(db)
	tournament := insertTournament(t, db, store)

	fetched, err := store.GetTournament(context.Background(), tournament.ID.String())
	require.NoError(t, err)

	assert.Equal(t, tournament.ID, fetched.ID)
	assert.Equal(t, tournament.OwnerID, fetched.OwnerID)
	assert.Equal(t, tournament.Name, fetched.Name)
	assert.Equal(t, tournament.Format, fetched.Format)
	assert.Equal(t, tournament.Status, fetched.Status)
	assert.Equal(t, 1, fetched.Version)
	assert.Nil(t, fetched.ChampionTeamID)
	assert.Nil(t, fetched.LeagueID)
}

func TestCreateTeams(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	store := NewTournamentStore(db)
	tournament := insertTournament(t, db, store)

	teams := []bracket.Team{
		{ID: uuid.New(), TournamentID: tournament.ID, Name: "Team 1", Seed: 1, ExternalRef: utils.StringOrNil("ref1")},
		{ID: uuid.New(), TournamentID: tournament.ID, Name: "Team 2", Seed: 2, ExternalRef: nil},
	}

	tx, err := db.BeginTxx(context.Background(), nil)
	require.NoError(t, err)
	require.NoError(t, store.CreateTeams(context.Background(), tx, teams))
	require.NoError(t, tx.Commit())

	fetched, err := store.GetTeams(context.Background(), tournament.ID.String())
	require.NoError(t, err)
	require.Len(t, fetched, 2)

	assert.Equal(t, teams[0].ID, fetched[0].ID)
	assert.Equal(t, teams[0].Name, fetched[0].Name)
	assert.Equal(t, teams[0].Seed, fetched[0].Seed)
	require.NotNil(t, fetched[0].ExternalRef)
	assert.Equal(t, "ref1", *fetched[0].ExternalRef)

	assert.Equal(t, teams[1].ID, fetched[1].ID)
	assert.Nil(t, fetched[1].ExternalRef)
}

func TestCreateMatches(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	store := NewTournamentStore(db)
	tournament := insertTournament(t, db, store)

	finalID := uuid.New()
	matches := []bracket.Match{
		{
			ID:                uuid.New(),
			TournamentID:      tournament.ID,
			BracketSide:       bracket.WinnersSide,
			RoundNumber:       1,
			RoundName:         "Semifinals",
			MatchOrder:        1,
			Status:            bracket.MatchPending,
			WinnerNextMatchID: utils.Ptr(finalID),
			WinnerNextSlot:    utils.Ptr(1),
		},
		{
			ID:                uuid.New(),
			TournamentID:      tournament.ID,
			BracketSide:       bracket.WinnersSide,
			RoundNumber:       1,
			RoundName:         "Semifinals",
			MatchOrder:        2,
			Status:            bracket.MatchPending,
			WinnerNextMatchID: utils.Ptr(finalID),
			WinnerNextSlot:    utils.Ptr(2),
		},
		{
			ID:           finalID,
			TournamentID: tournament.ID,
			BracketSide:  bracket.WinnersSide,
			RoundNumber:  2,
			RoundName:    "Finals",
			MatchOrder:   1,
			Status:       bracket.MatchPending,
		},
	}

	tx, err := db.BeginTxx(context.Background(), nil)
	require.NoError(t, err)
	require.NoError(t, store.CreateMatches(context.Background(), tx, matches))
	require.NoError(t, tx.Commit())

	fetched, err := store.GetMatches(context.Background(), tournament.ID.String())
	require.NoError(t, err)
	require.Len(t, fetched, 3)

	assert.Equal(t, matches[0].ID, fetched[0].ID)
	assert.Equal(t, "Semifinals", fetched[0].RoundName)
	require.NotNil(t, fetched[0].WinnerNextMatchID)
	assert.Equal(t, finalID, *fetched[0].WinnerNextMatchID)
	assert.Equal(t, 1, *fetched[0].WinnerNextSlot)

	assert.Equal(t, matches[1].ID, fetched[1].ID)
	assert.Equal(t, 2, *fetched[1].WinnerNextSlot)

	assert.Equal(t, finalID, fetched[2].ID)
	assert.Nil(t, fetched[2].WinnerNextMatchID)
	assert.Nil(t, fetched[2].WinnerNextSlot)
	assert.False(t, fetched[2].IsBye)
	assert.False(t, fetched[2].IsBracketReset)
}

func TestUpdateMatch(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	store := NewTournamentStore(db)
	tournament := insertTournament(t, db, store)

	team1 := bracket.Team{ID: uuid.New(), TournamentID: tournament.ID, Name: "T1", Seed: 1}
	team2 := bracket.Team{ID: uuid.New(), TournamentID: tournament.ID, Name: "T2", Seed: 2}
	match := bracket.Match{
		ID:           uuid.New(),
		TournamentID: tournament.ID,
		BracketSide:  bracket.WinnersSide,
		RoundNumber:  1,
		RoundName:    "Finals",
		MatchOrder:   1,
		Status:       bracket.MatchPending,
		Team1ID:      &team1.ID,
		Team2ID:      &team2.ID,
	}

	ctx := context.Background()
	tx, err := db.BeginTxx(ctx, nil)
	require.NoError(t, err)
	require.NoError(t, store.CreateTeams(ctx, tx, []bracket.Team{team1, team2}))
	require.NoError(t, store.CreateMatches(ctx, tx, []bracket.Match{match}))
	require.NoError(t, tx.Commit())

	match.Status = bracket.MatchComplete
	match.WinnerSlot = utils.Ptr(2)
	match.ReplayLink = utils.StringOrNil("https://example.com/replay")

	tx, err = db.BeginTxx(ctx, nil)
	require.NoError(t, err)
	require.NoError(t, store.UpdateMatch(ctx, tx, &match))
	require.NoError(t, tx.Commit())

	fetched, err := store.GetMatch(ctx, match.ID.String())
	require.NoError(t, err)
	assert.Equal(t, bracket.MatchComplete, fetched.Status)
	require.NotNil(t, fetched.WinnerSlot)
	assert.Equal(t, 2, *fetched.WinnerSlot)
	require.NotNil(t, fetched.ReplayLink)
	assert.Equal(t, "https://example.com/replay", *fetched.ReplayLink)
	require.NotNil(t, fetched.WinnerTeamID())
	assert.Equal(t, team2.ID, *fetched.WinnerTeamID())
	require.NotNil(t, fetched.LoserTeamID())
	assert.Equal(t, team1.ID, *fetched.LoserTeamID())
}

func TestCommitTournamentVersion(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	store := NewTournamentStore(db)
	tournament := insertTournament(t, db, store)

	ctx := context.Background()

	tx, err := db.BeginTxx(ctx, nil)
	require.NoError(t, err)
	tournament.Status = bracket.TournamentCompleted
	require.NoError(t, store.CommitTournamentVersion(ctx, tx, tournament))
	require.NoError(t, tx.Commit())

	assert.Equal(t, 2, tournament.Version, "a successful commit bumps the in-memory version")

	fetched, err := store.GetTournament(ctx, tournament.ID.String())
	require.NoError(t, err)
	assert.Equal(t, 2, fetched.Version)
	assert.Equal(t, bracket.TournamentCompleted, fetched.Status)
}

func TestCommitTournamentVersion_StaleVersion(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	store := NewTournamentStore(db)
	tournament := insertTournament(t, db, store)

	ctx := context.Background()

	// A competing writer commits first.
	stale := *tournament
	tx, err := db.BeginTxx(ctx, nil)
	require.NoError(t, err)
	require.NoError(t, store.CommitTournamentVersion(ctx, tx, tournament))
	require.NoError(t, tx.Commit())

	// The stale copy still carries version 1 and must be rejected.
	tx, err = db.BeginTxx(ctx, nil)
	require.NoError(t, err)
	err = store.CommitTournamentVersion(ctx, tx, &stale)
	assert.ErrorIs(t, err, bracket.ErrConcurrentModification)
	tx.Rollback()
}
