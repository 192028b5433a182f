package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"church-backend/internal/middleware"
	"church-backend/internal/models"
	"church-backend/internal/repositories"
	"church-backend/internal/timeutil"
	"church-backend/pkg/utils"

	"github.com/gorilla/mux"
)

type DevotionalHandler struct {
	Repo *repositories.DevotionalRepository
}

func NewDevotionalHandler(repo *repositories.DevotionalRepository) *DevotionalHandler {
	return &DevotionalHandler{Repo: repo}
}

func (h *DevotionalHandler) CreateDevotional(w http.ResponseWriter, r *http.Request) {
	var req models.CreateDevotionalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Title == "" || req.Content == "" {
		utils.Error(w, http.StatusBadRequest, "title and content are required")
		return
	}
	if req.PublishDate.IsZero() {
		req.PublishDate = timeutil.Now()
	}

	d := &models.Devotional{
		Title:       req.Title,
		Verse:       req.Verse,
		Content:     req.Content,
		Author:      req.Author,
		PublishDate: req.PublishDate,
		CreatedBy:   middleware.UserID(r.Context()),
	}
	if err := h.Repo.Create(r.Context(), d); err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.JSON(w, http.StatusCreated, d)
}

func (h *DevotionalHandler) GetDevotional(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	d, err := h.Repo.Get(r.Context(), id)
	if err != nil {
		utils.Error(w, http.StatusNotFound, "Devotional not found")
		return
	}

	utils.JSON(w, http.StatusOK, d)
}

// GetToday returns the devotional published today, if any
func (h *DevotionalHandler) GetToday(w http.ResponseWriter, r *http.Request) {
	dayStart := timeutil.StartOfDay(timeutil.Now())
	dayEnd := dayStart.Add(24 * time.Hour)

	d, err := h.Repo.GetForDate(r.Context(), dayStart, dayEnd)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	if d == nil {
		utils.Error(w, http.StatusNotFound, "No devotional published today")
		return
	}

	utils.JSON(w, http.StatusOK, d)
}

func (h *DevotionalHandler) ListDevotionals(w http.ResponseWriter, r *http.Request) {
	devotionals, err := h.Repo.List(r.Context())
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	if devotionals == nil {
		devotionals = []*models.Devotional{}
	}

	utils.JSON(w, http.StatusOK, devotionals)
}

func (h *DevotionalHandler) UpdateDevotional(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	d, err := h.Repo.Get(r.Context(), id)
	if err != nil {
		utils.Error(w, http.StatusNotFound, "Devotional not found")
		return
	}

	var req models.CreateDevotionalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Title != "" {
		d.Title = req.Title
	}
	if req.Verse != "" {
		d.Verse = req.Verse
	}
	if req.Content != "" {
		d.Content = req.Content
	}
	if req.Author != "" {
		d.Author = req.Author
	}
	if !req.PublishDate.IsZero() {
		d.PublishDate = req.PublishDate
	}

	if err := h.Repo.Update(r.Context(), d); err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.JSON(w, http.StatusOK, d)
}

func (h *DevotionalHandler) DeleteDevotional(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	if err := h.Repo.Delete(r.Context(), id); err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
