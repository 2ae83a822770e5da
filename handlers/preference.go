package handlers

import (
	"net/http"

	"medibook/models"
	"medibook/services/notification"
	"medibook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PreferenceHandler exposes the notification preference matrix.
type PreferenceHandler struct {
	Service notification.DispatcherService
	Logger  *zap.Logger
}

func NewPreferenceHandler(svc notification.DispatcherService, logger *zap.Logger) *PreferenceHandler {
	return &PreferenceHandler{Service: svc, Logger: logger}
}

// GetPreferences returns the caller's matrix.
func (h *PreferenceHandler) GetPreferences(c *gin.Context) {
	pref, err := h.Service.GetPreferences(c.Request.Context(), currentUserID(c))
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to fetch preferences", err.Error())
		return
	}
	c.JSON(http.StatusOK, pref)
}

// SavePreferences replaces the caller's matrix. The global-off cascade is
// applied server-side before the write.
func (h *PreferenceHandler) SavePreferences(c *gin.Context) {
	var pref models.NotificationPreference
	if err := c.ShouldBindJSON(&pref); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	pref.UserID = currentUserID(c)

	if err := h.Service.SavePreferences(c.Request.Context(), &pref); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to save preferences", err.Error())
		return
	}
	c.JSON(http.StatusOK, pref)
}

// ToggleGlobalChannel flips one global channel switch (with cascade on off).
func (h *PreferenceHandler) ToggleGlobalChannel(c *gin.Context) {
	var input struct {
		Channel models.NotificationChannel `json:"channel"`
		Enabled bool                       `json:"enabled"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	pref, err := h.Service.ToggleGlobalChannel(c.Request.Context(), currentUserID(c), input.Channel, input.Enabled)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to toggle channel", err.Error())
		return
	}
	c.JSON(http.StatusOK, pref)
}

// ToggleEventChannel flips one event-channel toggle.
func (h *PreferenceHandler) ToggleEventChannel(c *gin.Context) {
	var input struct {
		Event   models.EventType           `json:"event"`
		Channel models.NotificationChannel `json:"channel"`
		Enabled bool                       `json:"enabled"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	pref, err := h.Service.ToggleEventChannel(c.Request.Context(), currentUserID(c), input.Event, input.Channel, input.Enabled)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to toggle event channel", err.Error())
		return
	}
	c.JSON(http.StatusOK, pref)
}
