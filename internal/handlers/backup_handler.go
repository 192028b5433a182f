package handlers

import (
	"net/http"

	"church-backend/internal/services"
	"church-backend/pkg/utils"
)

type BackupHandler struct {
	Service *services.BackupService
}

func NewBackupHandler(s *services.BackupService) *BackupHandler {
	return &BackupHandler{Service: s}
}

// TriggerBackup uploads a fresh visitor snapshot to the backup bucket
func (h *BackupHandler) TriggerBackup(w http.ResponseWriter, r *http.Request) {
	if !h.Service.Enabled() {
		utils.Error(w, http.StatusServiceUnavailable, "Backup is not configured")
		return
	}

	key, err := h.Service.BackupVisitors(r.Context())
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.JSON(w, http.StatusOK, map[string]string{"key": key})
}
