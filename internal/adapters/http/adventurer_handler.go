package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/practicas/core/internal/ports"
)

// AdventurerHandler handles academy requests
type AdventurerHandler struct {
	adventurerService ports.AdventurerService
}

// NewAdventurerHandler creates a new adventurer handler
func NewAdventurerHandler(adventurerService ports.AdventurerService) *AdventurerHandler {
	return &AdventurerHandler{adventurerService: adventurerService}
}

// ListAdventurers godoc
// @Summary List adventurers
// @Tags adventurers
// @Produce json
// @Param skill query string false "Skill the adventurer must have"
// @Param minLevel query int false "Minimum level"
// @Success 200 {array} entities.Adventurer
// @Failure 400 {object} ErrorResponse
// @Router /adventurers [get]
func (h *AdventurerHandler) ListAdventurers(c echo.Context) error {
	var filter ports.AdventurerFilter
	if err := bindQuery(c, &filter); err != nil {
		return err
	}

	adventurers, err := h.adventurerService.ListAdventurers(c.Request().Context(), filter)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, adventurers)
}

// GetAdventurer godoc
// @Summary Get adventurer by ID
// @Tags adventurers
// @Produce json
// @Param id path int true "Adventurer ID"
// @Success 200 {object} entities.Adventurer
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /adventurers/{id} [get]
func (h *AdventurerHandler) GetAdventurer(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	adventurer, err := h.adventurerService.GetAdventurer(c.Request().Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, adventurer)
}

// CreateAdventurer godoc
// @Summary Enroll an adventurer
// @Tags adventurers
// @Accept json
// @Produce json
// @Param request body ports.CreateAdventurerRequest true "Adventurer data"
// @Success 201 {object} entities.Adventurer
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /adventurers [post]
func (h *AdventurerHandler) CreateAdventurer(c echo.Context) error {
	var req ports.CreateAdventurerRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	adventurer, err := h.adventurerService.CreateAdventurer(c.Request().Context(), req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, adventurer)
}

// UpdateAdventurer godoc
// @Summary Update an adventurer
// @Tags adventurers
// @Accept json
// @Produce json
// @Param id path int true "Adventurer ID"
// @Param request body ports.UpdateAdventurerRequest true "Fields to change"
// @Success 200 {object} entities.Adventurer
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /adventurers/{id} [patch]
func (h *AdventurerHandler) UpdateAdventurer(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	var req ports.UpdateAdventurerRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	adventurer, err := h.adventurerService.UpdateAdventurer(c.Request().Context(), id, req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, adventurer)
}

// DeleteAdventurer godoc
// @Summary Delete an adventurer
// @Tags adventurers
// @Produce json
// @Param id path int true "Adventurer ID"
// @Success 200 {object} entities.Adventurer
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /adventurers/{id} [delete]
func (h *AdventurerHandler) DeleteAdventurer(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	adventurer, err := h.adventurerService.DeleteAdventurer(c.Request().Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, adventurer)
}

// AdjustStamina godoc
// @Summary Adjust stamina
// @Description Adds amount to the adventurer's stamina; the result never drops below zero
// @Tags adventurers
// @Accept json
// @Produce json
// @Param id path int true "Adventurer ID"
// @Param request body ports.StaminaRequest true "Amount to add (negative to spend)"
// @Success 200 {object} entities.Adventurer
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /adventurers/{id}/stamina [post]
func (h *AdventurerHandler) AdjustStamina(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	var req ports.StaminaRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	adventurer, err := h.adventurerService.AdjustStamina(c.Request().Context(), id, req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, adventurer)
}
