package handlers

import (
	"net/http"
	"strconv"

	"church-backend/internal/models"
	"church-backend/internal/repositories"
	"church-backend/pkg/utils"
)

type AuditLogHandler struct {
	Repo *repositories.AuditLogRepository
}

func NewAuditLogHandler(repo *repositories.AuditLogRepository) *AuditLogHandler {
	return &AuditLogHandler{Repo: repo}
}

// ListLogs returns the newest audit entries, admin only
func (h *AuditLogHandler) ListLogs(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if s := r.URL.Query().Get("limit"); s != "" {
		limit, _ = strconv.Atoi(s)
	}

	logs, err := h.Repo.ListRecent(r.Context(), limit)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	if logs == nil {
		logs = []*models.AuditLog{}
	}

	utils.JSON(w, http.StatusOK, logs)
}
