package handlers

import (
	"encoding/json"
	"errors"
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

type VisitorHandler struct {
	Service *services.VisitorService
}

func NewVisitorHandler(s *services.VisitorService) *VisitorHandler {
	return &VisitorHandler{Service: s}
}

func (h *VisitorHandler) CreateVisitor(w http.ResponseWriter, r *http.Request) {
	var req models.CreateVisitorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	visitor, err := h.Service.CreateVisitor(r.Context(), &req, middleware.UserID(r.Context()))
	if err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	utils.JSON(w, http.StatusCreated, visitor)
}

func (h *VisitorHandler) GetVisitor(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	visitor, err := h.Service.GetVisitor(r.Context(), id)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	if visitor == nil {
		utils.Error(w, http.StatusNotFound, "Visitor not found")
		return
	}

	utils.JSON(w, http.StatusOK, visitor)
}

func (h *VisitorHandler) ListVisitors(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filters := models.VisitorFilters{
		Status:         models.VisitorStatus(q.Get("status")),
		FollowUpStatus: models.FollowUpStatus(q.Get("follow_up_status")),
		Search:         q.Get("search"),
	}
	if s := q.Get("assigned_to"); s != "" {
		id, err := strconv.Atoi(s)
		if err != nil {
			utils.Error(w, http.StatusBadRequest, "Invalid assigned_to")
			return
		}
		filters.AssignedTo = &id
	}
	if s := q.Get("date_start"); s != "" {
		t, err := time.ParseInLocation(timeutil.DateLayout, s, timeutil.BRT)
		if err != nil {
			utils.Error(w, http.StatusBadRequest, "Invalid date_start, expected YYYY-MM-DD")
			return
		}
		filters.DateStart = &t
	}
	if s := q.Get("date_end"); s != "" {
		t, err := time.ParseInLocation(timeutil.DateLayout, s, timeutil.BRT)
		if err != nil {
			utils.Error(w, http.StatusBadRequest, "Invalid date_end, expected YYYY-MM-DD")
			return
		}
		filters.DateEnd = &t
	}

	pageSize := 0
	if s := q.Get("page_size"); s != "" {
		pageSize, _ = strconv.Atoi(s)
	}

	page, err := h.Service.ListVisitors(r.Context(), filters, pageSize, q.Get("cursor"))
	if err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	utils.JSON(w, http.StatusOK, page)
}

func (h *VisitorHandler) UpdateVisitor(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	var req models.UpdateVisitorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.Service.UpdateVisitor(r.Context(), id, &req); err != nil {
		if errors.Is(err, repositories.ErrVisitorNotFound) {
			utils.Error(w, http.StatusNotFound, err.Error())
			return
		}
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	visitor, err := h.Service.GetVisitor(r.Context(), id)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, visitor)
}

func (h *VisitorHandler) DeleteVisitor(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	if err := h.Service.DeleteVisitor(r.Context(), id); err != nil {
		if errors.Is(err, repositories.ErrVisitorNotFound) {
			utils.Error(w, http.StatusNotFound, err.Error())
			return
		}
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *VisitorHandler) AddContactAttempt(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	var req models.AddContactAttemptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	attempt, err := h.Service.AddContactAttempt(r.Context(), id, &req, middleware.UserID(r.Context()))
	if err != nil {
		if errors.Is(err, repositories.ErrVisitorNotFound) {
			utils.Error(w, http.StatusNotFound, err.Error())
			return
		}
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	utils.JSON(w, http.StatusCreated, attempt)
}

func (h *VisitorHandler) RecordVisit(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	var req models.RecordVisitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.VisitorID = id

	record, err := h.Service.RecordVisit(r.Context(), &req, middleware.UserID(r.Context()))
	if err != nil {
		if errors.Is(err, repositories.ErrVisitorNotFound) {
			utils.Error(w, http.StatusNotFound, err.Error())
			return
		}
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	utils.JSON(w, http.StatusCreated, record)
}

func (h *VisitorHandler) VisitHistory(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	records, err := h.Service.VisitHistory(r.Context(), id)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	if records == nil {
		records = []*models.VisitRecord{}
	}

	utils.JSON(w, http.StatusOK, records)
}

func (h *VisitorHandler) ConvertToMember(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	var req struct {
		MemberID string `json:"member_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.Service.ConvertToMember(r.Context(), id, req.MemberID); err != nil {
		if errors.Is(err, repositories.ErrVisitorNotFound) {
			utils.Error(w, http.StatusNotFound, err.Error())
			return
		}
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	visitor, err := h.Service.GetVisitor(r.Context(), id)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, visitor)
}

func (h *VisitorHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Service.GetStats(r.Context())
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.JSON(w, http.StatusOK, stats)
}

func (h *VisitorHandler) SendFollowUp(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	var req struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	attempt, err := h.Service.SendFollowUpMessage(r.Context(), id, req.Message, middleware.UserID(r.Context()))
	if err != nil {
		utils.Error(w, http.StatusBadGateway, err.Error())
		return
	}

	utils.JSON(w, http.StatusCreated, attempt)
}
