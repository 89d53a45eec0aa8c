package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/workbenchflow/workbench-api/internal/dto"
	apperrors "github.com/workbenchflow/workbench-api/internal/errors"
	"github.com/workbenchflow/workbench-api/internal/middleware"
	"github.com/workbenchflow/workbench-api/internal/services"
)

// PinHandler serves the user's private task pins.
type PinHandler struct {
	pinService *services.PinService
}

// NewPinHandler creates a new PinHandler.
func NewPinHandler(pinService *services.PinService) *PinHandler {
	return &PinHandler{pinService: pinService}
}

// PinTask handles POST /tasks/:id/pin
func (h *PinHandler) PinTask(c *gin.Context) {
	taskID, err := parseIDParam(c, "id")
	if err != nil {
		return
	}

	pin, err := h.pinService.Pin(middleware.GetUserID(c), taskID)
	if err != nil {
		respondPinError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToPinDTO(*pin))
}

// ListPins handles GET /pins
func (h *PinHandler) ListPins(c *gin.Context) {
	pins, err := h.pinService.List(middleware.GetUserID(c))
	if err != nil {
		respondPinError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"pins": dto.ToPinDTOs(pins)})
}

// UnpinTask handles DELETE /tasks/:id/pin
func (h *PinHandler) UnpinTask(c *gin.Context) {
	taskID, err := parseIDParam(c, "id")
	if err != nil {
		return
	}

	if err := h.pinService.Unpin(middleware.GetUserID(c), taskID); err != nil {
		respondPinError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Task unpinned"})
}

func respondPinError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrPinNotFound):
		apperrors.NotFound(c, "Pin not found")
	case errors.Is(err, services.ErrAlreadyPinned):
		apperrors.Conflict(c, err.Error())
	default:
		respondTaskError(c, err)
	}
}
