package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"church-backend/internal/middleware"
	"church-backend/internal/models"
	"church-backend/internal/repositories"
	"church-backend/internal/services"
	"church-backend/internal/timeutil"
	"church-backend/pkg/utils"

	"github.com/gorilla/mux"
)

type LiveStreamHandler struct {
	Repo   *repositories.LiveStreamRepository
	Events services.EventBroadcaster // optional
}

func NewLiveStreamHandler(repo *repositories.LiveStreamRepository, events services.EventBroadcaster) *LiveStreamHandler {
	return &LiveStreamHandler{Repo: repo, Events: events}
}

func (h *LiveStreamHandler) CreateStream(w http.ResponseWriter, r *http.Request) {
	var req models.CreateLiveStreamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Title == "" || req.URL == "" {
		utils.Error(w, http.StatusBadRequest, "title and url are required")
		return
	}

	s := &models.LiveStream{
		Title:       req.Title,
		Description: req.Description,
		URL:         req.URL,
		ScheduledAt: req.ScheduledAt,
		CreatedBy:   middleware.UserID(r.Context()),
	}
	if err := h.Repo.Create(r.Context(), s); err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.JSON(w, http.StatusCreated, s)
}

func (h *LiveStreamHandler) GetStream(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	s, err := h.Repo.Get(r.Context(), id)
	if err != nil {
		utils.Error(w, http.StatusNotFound, "Stream not found")
		return
	}

	utils.JSON(w, http.StatusOK, s)
}

func (h *LiveStreamHandler) ListStreams(w http.ResponseWriter, r *http.Request) {
	streams, err := h.Repo.List(r.Context())
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	if streams == nil {
		streams = []*models.LiveStream{}
	}

	utils.JSON(w, http.StatusOK, streams)
}

// ListUpcoming returns live streams plus anything scheduled in the next week
func (h *LiveStreamHandler) ListUpcoming(w http.ResponseWriter, r *http.Request) {
	now := timeutil.Now()
	streams, err := h.Repo.ListUpcoming(r.Context(), now, now.Add(7*24*time.Hour))
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	if streams == nil {
		streams = []*models.LiveStream{}
	}

	utils.JSON(w, http.StatusOK, streams)
}

// SetStatus moves a stream through scheduled -> live -> finished and notifies
// connected dashboard clients
func (h *LiveStreamHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	var req struct {
		Status models.StreamStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !req.Status.Valid() {
		utils.Error(w, http.StatusBadRequest, "Invalid status")
		return
	}

	if err := h.Repo.SetStatus(r.Context(), id, req.Status); err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	s, err := h.Repo.Get(r.Context(), id)
	if err != nil {
		utils.Error(w, http.StatusNotFound, "Stream not found")
		return
	}

	if h.Events != nil {
		h.Events.Broadcast("stream_status_changed", s)
	}

	utils.JSON(w, http.StatusOK, s)
}

func (h *LiveStreamHandler) DeleteStream(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	if err := h.Repo.Delete(r.Context(), id); err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
