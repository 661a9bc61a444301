package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/podtracker/internal/api/middleware"
	"github.com/mcoot/podtracker/internal/api/request"
	"github.com/mcoot/podtracker/internal/api/response"
	"github.com/mcoot/podtracker/internal/model"
	"github.com/mcoot/podtracker/internal/services/deck"
)

// DeckHandler handles deck endpoints
type DeckHandler struct {
	decks *deck.Service
}

// NewDeckHandler creates a new deck handler
func NewDeckHandler(decks *deck.Service) *DeckHandler {
	return &DeckHandler{decks: decks}
}

// Create handles POST /api/v1/decks
func (h *DeckHandler) Create(w http.ResponseWriter, r *http.Request) {
	id := middleware.MustGetIdentity(r.Context())

	var req request.DeckRequest
	if !decode(w, r, &req) {
		return
	}

	in := deck.Input{
		Commanders:  req.Commanders.Values,
		Description: req.Description,
		Links:       derefStrings(req.Links),
	}
	if req.Name != nil {
		in.Name = *req.Name
	}

	d, err := h.decks.Create(r.Context(), id, in)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.DeckFromModel(d))
}

// List handles GET /api/v1/decks
func (h *DeckHandler) List(w http.ResponseWriter, r *http.Request) {
	id := middleware.MustGetIdentity(r.Context())

	decks, err := h.decks.List(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.DecksFromModel(decks))
}

// Get handles GET /api/v1/decks/{id}
func (h *DeckHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := middleware.MustGetIdentity(r.Context())

	d, err := h.decks.Get(r.Context(), id, deckID(r))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.DeckFromModel(d))
}

// Update handles PUT and PATCH /api/v1/decks/{id}
func (h *DeckHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := middleware.MustGetIdentity(r.Context())

	var req request.DeckRequest
	if !decode(w, r, &req) {
		return
	}

	upd := deck.Update{
		Name:        req.Name,
		Description: req.Description,
		Links:       derefStrings(req.Links),
	}
	if req.Commanders.Set {
		upd.Commanders = req.Commanders.Values
		if upd.Commanders == nil {
			upd.Commanders = []string{}
		}
	}

	d, err := h.decks.Update(r.Context(), id, deckID(r), upd)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.DeckFromModel(d))
}

// Delete handles DELETE /api/v1/decks/{id}
func (h *DeckHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := middleware.MustGetIdentity(r.Context())

	if err := h.decks.Delete(r.Context(), id, deckID(r)); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

func deckID(r *http.Request) model.DeckID {
	return model.DeckID(mux.Vars(r)["id"])
}
