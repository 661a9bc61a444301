package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/podtracker/internal/api/middleware"
	"github.com/mcoot/podtracker/internal/api/request"
	"github.com/mcoot/podtracker/internal/api/response"
	"github.com/mcoot/podtracker/internal/model"
	"github.com/mcoot/podtracker/internal/services/pod"
)

// PodHandler handles pod endpoints
type PodHandler struct {
	pods *pod.Controller
}

// NewPodHandler creates a new pod handler
func NewPodHandler(pods *pod.Controller) *PodHandler {
	return &PodHandler{pods: pods}
}

// Create handles POST /api/v1/pods
func (h *PodHandler) Create(w http.ResponseWriter, r *http.Request) {
	id := middleware.MustGetIdentity(r.Context())

	var req request.PodRequest
	if !decode(w, r, &req) {
		return
	}

	in := pod.Input{
		MemberIDs: toIDs[model.UserID](derefStrings(req.MemberIDs)),
		DeckIDs:   toIDs[model.DeckID](derefStrings(req.DeckIDs)),
	}
	if req.Name != nil {
		in.Name = *req.Name
	}

	p, err := h.pods.Create(r.Context(), id, in)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.PodFromModel(p))
}

// List handles GET /api/v1/pods
func (h *PodHandler) List(w http.ResponseWriter, r *http.Request) {
	id := middleware.MustGetIdentity(r.Context())

	pods, err := h.pods.List(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.PodsFromModel(pods))
}

// Get handles GET /api/v1/pods/{id}
func (h *PodHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := middleware.MustGetIdentity(r.Context())

	p, err := h.pods.Get(r.Context(), id, podID(r))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.PodFromModel(p))
}

// Update handles PUT and PATCH /api/v1/pods/{id}
func (h *PodHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := middleware.MustGetIdentity(r.Context())

	var req request.PodRequest
	if !decode(w, r, &req) {
		return
	}

	p, err := h.pods.Update(r.Context(), id, podID(r), pod.Update{
		Name:      req.Name,
		MemberIDs: toIDs[model.UserID](derefStrings(req.MemberIDs)),
		DeckIDs:   toIDs[model.DeckID](derefStrings(req.DeckIDs)),
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.PodFromModel(p))
}

// Delete handles DELETE /api/v1/pods/{id}
func (h *PodHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := middleware.MustGetIdentity(r.Context())

	if err := h.pods.Delete(r.Context(), id, podID(r)); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// AddMembers handles POST /api/v1/pods/{id}/members
func (h *PodHandler) AddMembers(w http.ResponseWriter, r *http.Request) {
	id := middleware.MustGetIdentity(r.Context())

	var req request.AddMembersRequest
	if !decode(w, r, &req) {
		return
	}

	p, err := h.pods.AddMembers(r.Context(), id, podID(r), toIDs[model.UserID](req.MemberIDs))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.PodFromModel(p))
}

func podID(r *http.Request) model.PodID {
	return model.PodID(mux.Vars(r)["id"])
}
