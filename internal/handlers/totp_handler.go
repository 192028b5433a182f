package handlers

import (
	"encoding/json"
	"net/http"

	"church-backend/internal/middleware"
	"church-backend/internal/models"
	"church-backend/internal/services"
	"church-backend/pkg/utils"
)

type TOTPHandler struct {
	Service     *services.TOTPService
	UserService *services.UserService
}

func NewTOTPHandler(s *services.TOTPService, users *services.UserService) *TOTPHandler {
	return &TOTPHandler{Service: s, UserService: users}
}

// Setup starts two-factor enrollment for the authenticated user
func (h *TOTPHandler) Setup(w http.ResponseWriter, r *http.Request) {
	user, err := h.UserService.GetUser(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		utils.Error(w, http.StatusNotFound, "User not found")
		return
	}

	setup, err := h.Service.GenerateSetup(r.Context(), user)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.JSON(w, http.StatusOK, setup)
}

// Verify confirms the enrollment code and turns the second factor on
func (h *TOTPHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req models.TOTPVerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.Service.VerifyAndEnable(r.Context(), middleware.UserID(r.Context()), req.Code); err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	utils.Message(w, http.StatusOK, "totp enabled")
}

// Disable turns the second factor off after checking the current code
func (h *TOTPHandler) Disable(w http.ResponseWriter, r *http.Request) {
	var req models.TOTPVerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.Service.Disable(r.Context(), middleware.UserID(r.Context()), req.Code); err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	utils.Message(w, http.StatusOK, "totp disabled")
}
