package handlers

import (
	"net/http"

	"church-backend/internal/health"
	"church-backend/pkg/utils"
)

type HealthHandler struct {
	Checker *health.HealthChecker
}

func NewHealthHandler(checker *health.HealthChecker) *HealthHandler {
	return &HealthHandler{Checker: checker}
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	status := h.Checker.Check()

	code := http.StatusOK
	if status.Status != "healthy" {
		code = http.StatusServiceUnavailable
	}

	utils.JSON(w, code, status)
}

// Ready gates on the database only, for orchestrator readiness probes
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	status := h.Checker.Check()

	if status.Database.Status != "healthy" {
		utils.Error(w, http.StatusServiceUnavailable, "database unavailable")
		return
	}

	utils.Message(w, http.StatusOK, "ready")
}
