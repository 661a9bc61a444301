package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/podtracker/internal/api/middleware"
	"github.com/mcoot/podtracker/internal/api/request"
	"github.com/mcoot/podtracker/internal/api/response"
	"github.com/mcoot/podtracker/internal/model"
	"github.com/mcoot/podtracker/internal/services/game"
)

// GameHandler handles game endpoints
type GameHandler struct {
	games *game.Controller
}

// NewGameHandler creates a new game handler
func NewGameHandler(games *game.Controller) *GameHandler {
	return &GameHandler{games: games}
}

// Create handles POST /api/v1/games
func (h *GameHandler) Create(w http.ResponseWriter, r *http.Request) {
	id := middleware.MustGetIdentity(r.Context())

	var req request.CreateGameRequest
	if !decode(w, r, &req) {
		return
	}

	g, err := h.games.Create(r.Context(), id, game.Input{
		PodID:     model.PodID(req.PodID),
		PlayerIDs: toIDs[model.UserID](req.PlayerIDs),
		StartTime: req.StartTime,
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.GameFromModel(g))
}

// List handles GET /api/v1/games
func (h *GameHandler) List(w http.ResponseWriter, r *http.Request) {
	id := middleware.MustGetIdentity(r.Context())

	games, err := h.games.List(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GamesFromModel(games))
}

// Get handles GET /api/v1/games/{id}
func (h *GameHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := middleware.MustGetIdentity(r.Context())

	g, err := h.games.Get(r.Context(), id, gameID(r))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameFromModel(g))
}

// Update handles PUT and PATCH /api/v1/games/{id}
func (h *GameHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := middleware.MustGetIdentity(r.Context())

	var req request.UpdateGameRequest
	if !decode(w, r, &req) {
		return
	}

	verr := &model.ValidationError{}
	if req.EndTime.Null {
		verr.Add("endTime", "end time cannot be cleared")
	}
	if req.WinnerID.Null {
		verr.Add("winnerId", "winner cannot be cleared")
	}
	if err := verr.Err(); err != nil {
		WriteError(w, err)
		return
	}

	upd := game.Update{
		PlayerIDs: toIDs[model.UserID](derefStrings(req.PlayerIDs)),
	}
	if req.PodID != nil {
		podID := model.PodID(*req.PodID)
		upd.PodID = &podID
	}
	if req.EndTime.Set {
		end := req.EndTime.Value
		upd.EndTime = &end
	}
	if req.WinnerID.Set {
		winner := model.UserID(req.WinnerID.Value)
		upd.WinnerID = &winner
	}

	g, err := h.games.Update(r.Context(), id, gameID(r), upd)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameFromModel(g))
}

// Delete handles DELETE /api/v1/games/{id}
func (h *GameHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := middleware.MustGetIdentity(r.Context())

	if err := h.games.Delete(r.Context(), id, gameID(r)); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

func gameID(r *http.Request) model.GameID {
	return model.GameID(mux.Vars(r)["id"])
}
