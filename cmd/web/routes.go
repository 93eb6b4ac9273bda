package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/markbates/goth/gothic"
	"github.com/mossholder/creatureleague/internal/bracket"
	"github.com/mossholder/creatureleague/internal/db"
	"github.com/mossholder/creatureleague/internal/httputil"
	"github.com/mossholder/creatureleague/internal/live"
	"github.com/mossholder/creatureleague/internal/middleware"
	"github.com/mossholder/creatureleague/internal/presenter"
	"github.com/mossholder/creatureleague/internal/service"
	"github.com/mossholder/creatureleague/internal/store"
)

func newRouter(sessionManager *scs.SessionManager, hub *live.Hub) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
	}))
	r.Use(sessionManager.LoadAndSave)
	r.Use(middleware.LoadAuthenticatedUser(sessionManager, store.NewUserStore(db.GetDB())))

	dbConn := db.GetDB()
	tournamentStore := store.NewTournamentStore(dbConn)
	leagueStore := store.NewLeagueStore(dbConn)

	matchService := service.NewMatchService(dbConn, tournamentStore)
	matchService.OnResultRecorded = func(match bracket.Match) {
		payload, err := json.Marshal(map[string]any{
			"type":          "match_result",
			"tournament_id": match.TournamentID,
			"match_id":      match.ID,
			"winner_slot":   match.WinnerSlot,
		})
		if err != nil {
			return
		}
		hub.Broadcast(match.TournamentID.String(), payload)
	}

	r.Get("/ws/tournaments/{id}", func(w http.ResponseWriter, r *http.Request) {
		live.ServeWS(hub, w, r, chi.URLParam(r, "id"))
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)

		r.Get("/api/me", func(w http.ResponseWriter, r *http.Request) {
			user := middleware.GetAuthenticatedUser(r.Context())
			if user == nil {
				httputil.Unauthorized(w, "authentication required")
				return
			}
			httputil.JSON(w, http.StatusOK, user)
		})

		r.Route("/api/leagues", func(r chi.Router) {
			r.Post("/", func(w http.ResponseWriter, r *http.Request) {
				leagueService := service.NewLeagueService(dbConn, leagueStore)

				var req struct {
					Name   string `json:"name"`
					Season int    `json:"season"`
				}
				if err := httputil.DecodeJSON(r, &req); err != nil {
					httputil.BadRequest(w, "Invalid request body", err)
					return
				}
				l, err := leagueService.CreateLeague(r.Context(), req.Name, req.Season)
				if err != nil {
					httputil.InternalServerError(w, "Failed to create league", err)
					return
				}
				httputil.JSON(w, http.StatusCreated, l)
			})

			r.Get("/", func(w http.ResponseWriter, r *http.Request) {
				leagueService := service.NewLeagueService(dbConn, leagueStore)

				leagues, err := leagueService.GetLeaguesForUser(r.Context())
				if err != nil {
					httputil.InternalServerError(w, "Failed to get leagues", err)
					return
				}
				httputil.JSON(w, http.StatusOK, leagues)
			})

			r.Get("/{id}", func(w http.ResponseWriter, r *http.Request) {
				leagueService := service.NewLeagueService(dbConn, leagueStore)

				l, err := leagueService.GetLeague(r.Context(), chi.URLParam(r, "id"))
				if err != nil {
					if errors.Is(err, sql.ErrNoRows) {
						httputil.NotFound(w, "League not found", err)
						return
					}
					httputil.InternalServerError(w, "Failed to get league", err)
					return
				}
				httputil.JSON(w, http.StatusOK, l)
			})

			r.Get("/{id}/trades", func(w http.ResponseWriter, r *http.Request) {
				tradeService := service.NewTradeService(dbConn, leagueStore)

				trades, err := tradeService.GetTrades(r.Context(), chi.URLParam(r, "id"))
				if err != nil {
					httputil.InternalServerError(w, "Failed to get trades", err)
					return
				}
				httputil.JSON(w, http.StatusOK, trades)
			})

			r.Get("/{id}/standings", func(w http.ResponseWriter, r *http.Request) {
				leagueService := service.NewLeagueService(dbConn, leagueStore)

				standings, err := leagueService.GetStandings(r.Context(), chi.URLParam(r, "id"))
				if err != nil {
					httputil.InternalServerError(w, "Failed to get standings", err)
					return
				}
				httputil.JSON(w, http.StatusOK, standings)
			})

			r.Post("/{id}/teams", func(w http.ResponseWriter, r *http.Request) {
				leagueService := service.NewLeagueService(dbConn, leagueStore)

				leagueID, err := uuid.Parse(chi.URLParam(r, "id"))
				if err != nil {
					httputil.BadRequest(w, "Invalid league ID", err)
					return
				}
				var req struct {
					Name string `json:"name"`
				}
				if err := httputil.DecodeJSON(r, &req); err != nil {
					httputil.BadRequest(w, "Invalid request body", err)
					return
				}
				team, err := leagueService.AddTeam(r.Context(), leagueID, req.Name)
				if err != nil {
					httputil.InternalServerError(w, "Failed to add team", err)
					return
				}
				httputil.JSON(w, http.StatusCreated, team)
			})

			r.Post("/{id}/creatures", func(w http.ResponseWriter, r *http.Request) {
				leagueService := service.NewLeagueService(dbConn, leagueStore)

				leagueID, err := uuid.Parse(chi.URLParam(r, "id"))
				if err != nil {
					httputil.BadRequest(w, "Invalid league ID", err)
					return
				}
				var req struct {
					TeamID  *uuid.UUID `json:"team_id"`
					Name    string     `json:"name"`
					Species string     `json:"species"`
				}
				if err := httputil.DecodeJSON(r, &req); err != nil {
					httputil.BadRequest(w, "Invalid request body", err)
					return
				}
				creature, err := leagueService.AddCreature(r.Context(), leagueID, req.TeamID, req.Name, req.Species)
				if err != nil {
					httputil.InternalServerError(w, "Failed to add creature", err)
					return
				}
				httputil.JSON(w, http.StatusCreated, creature)
			})

			r.Post("/{id}/playoffs", func(w http.ResponseWriter, r *http.Request) {
				builder := service.NewBracketBuilder(dbConn, tournamentStore, leagueStore)

				leagueID, err := uuid.Parse(chi.URLParam(r, "id"))
				if err != nil {
					httputil.BadRequest(w, "Invalid league ID", err)
					return
				}
				var req struct {
					Name      string      `json:"name"`
					Format    string      `json:"format"`
					FieldSize int         `json:"field_size"`
					Tiebreak  []uuid.UUID `json:"tiebreak"`
				}
				if err := httputil.DecodeJSON(r, &req); err != nil {
					httputil.BadRequest(w, "Invalid request body", err)
					return
				}
				format, err := parseFormat(req.Format)
				if err != nil {
					httputil.BadRequest(w, "Invalid format", err)
					return
				}
				id, err := builder.CreatePlayoffFromLeague(r.Context(), leagueID, req.Name, format, req.FieldSize, req.Tiebreak)
				if err != nil {
					writeBracketError(w, "Failed to create playoff", err)
					return
				}
				httputil.JSON(w, http.StatusCreated, map[string]uuid.UUID{"id": id})
			})

			r.Post("/{id}/waivers/resolve", func(w http.ResponseWriter, r *http.Request) {
				waiverService := service.NewWaiverService(dbConn, leagueStore)

				leagueID, err := uuid.Parse(chi.URLParam(r, "id"))
				if err != nil {
					httputil.BadRequest(w, "Invalid league ID", err)
					return
				}
				if err := waiverService.ResolveClaims(r.Context(), leagueID); err != nil {
					httputil.InternalServerError(w, "Failed to resolve waiver claims", err)
					return
				}
				w.WriteHeader(http.StatusNoContent)
			})
		})

		r.Route("/api/teams", func(r chi.Router) {
			r.Get("/{id}/roster", func(w http.ResponseWriter, r *http.Request) {
				leagueService := service.NewLeagueService(dbConn, leagueStore)

				roster, err := leagueService.GetRoster(r.Context(), chi.URLParam(r, "id"))
				if err != nil {
					httputil.InternalServerError(w, "Failed to get roster", err)
					return
				}
				httputil.JSON(w, http.StatusOK, roster)
			})

			r.Post("/{id}/results", func(w http.ResponseWriter, r *http.Request) {
				leagueService := service.NewLeagueService(dbConn, leagueStore)

				teamID, err := uuid.Parse(chi.URLParam(r, "id"))
				if err != nil {
					httputil.BadRequest(w, "Invalid team ID", err)
					return
				}
				var req struct {
					Won    bool    `json:"won"`
					Points float64 `json:"points"`
				}
				if err := httputil.DecodeJSON(r, &req); err != nil {
					httputil.BadRequest(w, "Invalid request body", err)
					return
				}
				if err := leagueService.RecordWeek(r.Context(), teamID, req.Won, req.Points); err != nil {
					httputil.InternalServerError(w, "Failed to record result", err)
					return
				}
				w.WriteHeader(http.StatusNoContent)
			})
		})

		r.Route("/api/trades", func(r chi.Router) {
			r.Post("/", func(w http.ResponseWriter, r *http.Request) {
				tradeService := service.NewTradeService(dbConn, leagueStore)

				var req struct {
					LeagueID            uuid.UUID `json:"league_id"`
					FromTeamID          uuid.UUID `json:"from_team_id"`
					ToTeamID            uuid.UUID `json:"to_team_id"`
					OfferedCreatureID   uuid.UUID `json:"offered_creature_id"`
					RequestedCreatureID uuid.UUID `json:"requested_creature_id"`
				}
				if err := httputil.DecodeJSON(r, &req); err != nil {
					httputil.BadRequest(w, "Invalid request body", err)
					return
				}
				trade, err := tradeService.ProposeTrade(r.Context(), req.LeagueID, req.FromTeamID, req.ToTeamID, req.OfferedCreatureID, req.RequestedCreatureID)
				if err != nil {
					writeLeagueError(w, "Failed to propose trade", err)
					return
				}
				httputil.JSON(w, http.StatusCreated, trade)
			})

			r.Post("/{id}/accept", func(w http.ResponseWriter, r *http.Request) {
				tradeService := service.NewTradeService(dbConn, leagueStore)

				tradeID, err := uuid.Parse(chi.URLParam(r, "id"))
				if err != nil {
					httputil.BadRequest(w, "Invalid trade ID", err)
					return
				}
				if err := tradeService.AcceptTrade(r.Context(), tradeID); err != nil {
					writeLeagueError(w, "Failed to accept trade", err)
					return
				}
				w.WriteHeader(http.StatusNoContent)
			})

			r.Post("/{id}/reject", func(w http.ResponseWriter, r *http.Request) {
				tradeService := service.NewTradeService(dbConn, leagueStore)

				tradeID, err := uuid.Parse(chi.URLParam(r, "id"))
				if err != nil {
					httputil.BadRequest(w, "Invalid trade ID", err)
					return
				}
				if err := tradeService.RejectTrade(r.Context(), tradeID); err != nil {
					writeLeagueError(w, "Failed to reject trade", err)
					return
				}
				w.WriteHeader(http.StatusNoContent)
			})
		})

		r.Route("/api/waivers", func(r chi.Router) {
			r.Post("/", func(w http.ResponseWriter, r *http.Request) {
				waiverService := service.NewWaiverService(dbConn, leagueStore)

				var req struct {
					LeagueID   uuid.UUID `json:"league_id"`
					TeamID     uuid.UUID `json:"team_id"`
					CreatureID uuid.UUID `json:"creature_id"`
				}
				if err := httputil.DecodeJSON(r, &req); err != nil {
					httputil.BadRequest(w, "Invalid request body", err)
					return
				}
				claim, err := waiverService.SubmitClaim(r.Context(), req.LeagueID, req.TeamID, req.CreatureID)
				if err != nil {
					writeLeagueError(w, "Failed to submit claim", err)
					return
				}
				httputil.JSON(w, http.StatusCreated, claim)
			})

			r.Post("/{id}/reject", func(w http.ResponseWriter, r *http.Request) {
				waiverService := service.NewWaiverService(dbConn, leagueStore)

				claimID, err := uuid.Parse(chi.URLParam(r, "id"))
				if err != nil {
					httputil.BadRequest(w, "Invalid claim ID", err)
					return
				}
				if err := waiverService.RejectClaim(r.Context(), claimID); err != nil {
					writeLeagueError(w, "Failed to reject claim", err)
					return
				}
				w.WriteHeader(http.StatusNoContent)
			})
		})

		r.Route("/api/tournaments", func(r chi.Router) {
			r.Get("/", func(w http.ResponseWriter, r *http.Request) {
				tournamentService := service.NewTournamentService(dbConn, tournamentStore)

				tournaments, err := tournamentService.GetTournamentsForUser(r.Context())
				if err != nil {
					httputil.InternalServerError(w, "Failed to get tournaments", err)
					return
				}
				httputil.JSON(w, http.StatusOK, tournaments)
			})

			r.Post("/", func(w http.ResponseWriter, r *http.Request) {
				builder := service.NewBracketBuilder(dbConn, tournamentStore, leagueStore)

				var req struct {
					Name     string     `json:"name"`
					Format   string     `json:"format"`
					LeagueID *uuid.UUID `json:"league_id"`
					Teams    []struct {
						Name        string `json:"name"`
						ExternalRef string `json:"external_ref"`
					} `json:"teams"`
				}
				if err := httputil.DecodeJSON(r, &req); err != nil {
					httputil.BadRequest(w, "Invalid request body", err)
					return
				}
				format, err := parseFormat(req.Format)
				if err != nil {
					httputil.BadRequest(w, "Invalid format", err)
					return
				}
				inputs := make([]service.TeamInput, 0, len(req.Teams))
				for _, t := range req.Teams {
					inputs = append(inputs, service.TeamInput{Name: t.Name, ExternalRef: t.ExternalRef})
				}
				id, err := builder.CreateTournament(r.Context(), req.Name, format, req.LeagueID, inputs)
				if err != nil {
					writeBracketError(w, "Failed to create tournament", err)
					return
				}
				httputil.JSON(w, http.StatusCreated, map[string]uuid.UUID{"id": id})
			})

			r.Get("/{id}", func(w http.ResponseWriter, r *http.Request) {
				tournamentService := service.NewTournamentService(dbConn, tournamentStore)

				data, err := tournamentService.GetTournamentData(r.Context(), chi.URLParam(r, "id"))
				if err != nil {
					if errors.Is(err, sql.ErrNoRows) {
						httputil.NotFound(w, "Tournament not found", err)
						return
					}
					httputil.InternalServerError(w, "Failed to get tournament", err)
					return
				}
				httputil.JSON(w, http.StatusOK, presenter.PrepareBracketView(data.Tournament, data.Teams, data.Matches))
			})

			r.Get("/{id}/champion", func(w http.ResponseWriter, r *http.Request) {
				tournamentService := service.NewTournamentService(dbConn, tournamentStore)

				champion, err := tournamentService.GetChampion(r.Context(), chi.URLParam(r, "id"))
				if err != nil {
					if errors.Is(err, sql.ErrNoRows) {
						httputil.NotFound(w, "Tournament not found", err)
						return
					}
					httputil.InternalServerError(w, "Failed to get champion", err)
					return
				}
				httputil.JSON(w, http.StatusOK, map[string]*bracket.Team{"champion": champion})
			})
		})

		r.Route("/api/matches", func(r chi.Router) {
			r.Get("/{id}", func(w http.ResponseWriter, r *http.Request) {
				tournamentService := service.NewTournamentService(dbConn, tournamentStore)

				match, err := tournamentService.GetMatch(r.Context(), chi.URLParam(r, "id"))
				if err != nil {
					if errors.Is(err, sql.ErrNoRows) {
						httputil.NotFound(w, "Match not found", err)
						return
					}
					httputil.InternalServerError(w, "Failed to get match", err)
					return
				}
				httputil.JSON(w, http.StatusOK, match)
			})

			r.Post("/{id}/result", func(w http.ResponseWriter, r *http.Request) {
				matchID, err := uuid.Parse(chi.URLParam(r, "id"))
				if err != nil {
					httputil.BadRequest(w, "Invalid match ID", err)
					return
				}
				var req struct {
					WinnerID   uuid.UUID `json:"winner_id"`
					ReplayLink *string   `json:"replay_link"`
				}
				if err := httputil.DecodeJSON(r, &req); err != nil {
					httputil.BadRequest(w, "Invalid request body", err)
					return
				}
				match, err := matchService.RecordResult(r.Context(), matchID, req.WinnerID, req.ReplayLink)
				if err != nil {
					writeBracketError(w, "Failed to record result", err)
					return
				}
				httputil.JSON(w, http.StatusOK, match)
			})
		})
	})

	r.Get("/auth/{provider}", func(w http.ResponseWriter, r *http.Request) {
		provider := chi.URLParam(r, "provider")
		r = r.WithContext(context.WithValue(r.Context(), "provider", provider))

		gothic.BeginAuthHandler(w, r)
	})

	r.Get("/auth/{provider}/callback", func(w http.ResponseWriter, r *http.Request) {
		provider := chi.URLParam(r, "provider")
		r = r.WithContext(context.WithValue(r.Context(), "provider", provider))

		gothUser, err := gothic.CompleteUserAuth(w, r)
		if err != nil {
			httputil.BadRequest(w, "Authentication failure", err)
			return
		}

		userService := service.NewUserService(dbConn, store.NewUserStore(dbConn))
		user, err := userService.FindOrCreateUserByProvider(r.Context(), gothUser)
		if err != nil {
			httputil.InternalServerError(w, "Failed to find or create user", err)
			return
		}

		sessionManager.Put(r.Context(), "userID", user.ID.String())
		http.Redirect(w, r, "/", http.StatusFound)
	})

	r.Post("/auth/guest", func(w http.ResponseWriter, r *http.Request) {
		userService := service.NewUserService(dbConn, store.NewUserStore(dbConn))

		user, err := userService.EnsureGuestUser(r.Context())
		if err != nil {
			httputil.InternalServerError(w, "Failed to login as guest", err)
			return
		}

		sessionManager.Put(r.Context(), "userID", user.ID.String())
		httputil.JSON(w, http.StatusOK, user)
	})

	r.Post("/logout", func(w http.ResponseWriter, r *http.Request) {
		sessionManager.Destroy(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})

	return r
}

func parseFormat(s string) (bracket.Format, error) {
	switch bracket.Format(s) {
	case bracket.SingleElimination, bracket.DoubleElimination:
		return bracket.Format(s), nil
	}
	return "", bracket.ErrUnsupportedFormat
}

// writeBracketError maps bracket sentinel errors onto HTTP statuses.
func writeBracketError(w http.ResponseWriter, msg string, err error) {
	switch {
	case errors.Is(err, bracket.ErrMatchNotFound):
		httputil.NotFound(w, msg, err)
	case errors.Is(err, bracket.ErrInvalidFieldSize),
		errors.Is(err, bracket.ErrUnsupportedFormat),
		errors.Is(err, bracket.ErrInvalidWinner),
		errors.Is(err, bracket.ErrMatchNotReady):
		httputil.BadRequest(w, msg, err)
	case errors.Is(err, bracket.ErrMatchAlreadyComplete),
		errors.Is(err, bracket.ErrConcurrentModification):
		httputil.Conflict(w, msg, err)
	default:
		httputil.InternalServerError(w, msg, err)
	}
}

func writeLeagueError(w http.ResponseWriter, msg string, err error) {
	switch {
	case errors.Is(err, sql.ErrNoRows):
		httputil.NotFound(w, msg, err)
	case errors.Is(err, service.ErrTradeNotPending),
		errors.Is(err, service.ErrClaimNotPending):
		httputil.Conflict(w, msg, err)
	case errors.Is(err, service.ErrCreatureNotOnTeam),
		errors.Is(err, service.ErrCreatureNotFreeAgent),
		errors.Is(err, service.ErrSameTeamTrade):
		httputil.BadRequest(w, msg, err)
	default:
		httputil.InternalServerError(w, msg, err)
	}
}
