package handler

import (
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/communitydesk/activityhub/internal/dto"
	"github.com/communitydesk/activityhub/internal/models"
	"github.com/communitydesk/activityhub/internal/repository"
	"github.com/communitydesk/activityhub/internal/service"
	"github.com/communitydesk/activityhub/internal/utils"
)

const defaultListLimit = 10

// ActivityHandler wires the activity HTTP routes. Responses use the raw JSON
// wire format consumed by the sync client: arrays/objects on success and
// {"error": reason} on failure.
type ActivityHandler struct {
	service   service.ActivityService
	dashboard service.DashboardService
	logger    zerolog.Logger
}

// NewActivityHandler constructs the handler.
func NewActivityHandler(service service.ActivityService, dashboard service.DashboardService, logger zerolog.Logger) *ActivityHandler {
	return &ActivityHandler{
		service:   service,
		dashboard: dashboard,
		logger:    logger.With().Str("component", "activity_handler").Logger(),
	}
}

// Register attaches the activity endpoints to the API group. Static segments
// are registered before the :id parameter routes.
func (h *ActivityHandler) Register(api fiber.Router) {
	api.Get("/activities", h.list)
	api.Get("/activities/upcoming", h.upcoming)
	api.Get("/activities/recent", h.recent)
	api.Post("/activities/sync", h.sync)
	api.Get("/activities/:id", h.get)
	api.Post("/activities", h.create)
	api.Put("/activities/:id", h.update)
	api.Delete("/activities/:id", h.delete)
	api.Post("/activities/:id/complete", h.complete)
	api.Post("/activities/:id/cancel", h.cancel)

	api.Get("/mentors", h.mentors)
	api.Get("/statistics", h.statistics)
	api.Get("/dashboard", h.getDashboard)
}

func (h *ActivityHandler) list(c *fiber.Ctx) error {
	filter := repository.ActivityFilter{
		Type:      c.Query("type"),
		Status:    c.Query("status"),
		StartDate: c.Query("startDate"),
		EndDate:   c.Query("endDate"),
		Mentor:    c.Query("mentor"),
		Location:  c.Query("location"),
	}
	if raw := c.Query("capacity"); raw != "" {
		capacity, err := strconv.Atoi(raw)
		if err != nil || capacity < 0 {
			return utils.SendError(c, fiber.StatusBadRequest, "capacity must be a non-negative integer")
		}
		filter.Capacity = &capacity
	}

	activities, err := h.service.List(c.Context(), filter)
	if err != nil {
		return h.internalError(c, err, "Failed to fetch activities")
	}
	return c.JSON(activities)
}

func (h *ActivityHandler) get(c *fiber.Ctx) error {
	activity, err := h.service.Get(c.Context(), c.Params("id"))
	if err != nil {
		return h.mapError(c, err, "Failed to fetch activity")
	}
	return c.JSON(activity)
}

func (h *ActivityHandler) create(c *fiber.Ctx) error {
	var payload dto.CreateActivityRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	activity, err := h.service.Create(c.Context(), payload)
	if err != nil {
		return h.mapError(c, err, "Failed to create activity")
	}
	return c.Status(fiber.StatusCreated).JSON(activity)
}

func (h *ActivityHandler) update(c *fiber.Ctx) error {
	var payload dto.UpdateActivityRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	activity, err := h.service.Update(c.Context(), c.Params("id"), payload)
	if err != nil {
		return h.mapError(c, err, "Failed to update activity")
	}
	return c.JSON(activity)
}

func (h *ActivityHandler) delete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.Context(), c.Params("id")); err != nil {
		return h.mapError(c, err, "Failed to delete activity")
	}
	return utils.SendMessage(c, "Activity deleted successfully")
}

func (h *ActivityHandler) sync(c *fiber.Ctx) error {
	var activities []models.Activity
	if err := c.BodyParser(&activities); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "Expected an array of activities")
	}

	synced, err := h.service.Sync(c.Context(), activities)
	if err != nil {
		return h.internalError(c, err, "Failed to sync activities")
	}
	return c.JSON(synced)
}

func (h *ActivityHandler) complete(c *fiber.Ctx) error {
	activity, err := h.service.Complete(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, models.ErrInvalidTransition) {
			return utils.SendError(c, fiber.StatusBadRequest, "Cannot complete a cancelled activity")
		}
		return h.mapError(c, err, "Failed to complete activity")
	}
	return c.JSON(activity)
}

func (h *ActivityHandler) cancel(c *fiber.Ctx) error {
	activity, err := h.service.Cancel(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, models.ErrInvalidTransition) {
			return utils.SendError(c, fiber.StatusBadRequest, "Cannot cancel a completed activity")
		}
		return h.mapError(c, err, "Failed to cancel activity")
	}
	return c.JSON(activity)
}

func (h *ActivityHandler) upcoming(c *fiber.Ctx) error {
	activities, err := h.service.Upcoming(c.Context(), limitQuery(c))
	if err != nil {
		return h.internalError(c, err, "Failed to fetch upcoming activities")
	}
	return c.JSON(activities)
}

func (h *ActivityHandler) recent(c *fiber.Ctx) error {
	activities, err := h.service.Recent(c.Context(), limitQuery(c))
	if err != nil {
		return h.internalError(c, err, "Failed to fetch recent activities")
	}
	return c.JSON(activities)
}

func (h *ActivityHandler) mentors(c *fiber.Ctx) error {
	mentors, err := h.service.Mentors(c.Context())
	if err != nil {
		return h.internalError(c, err, "Failed to fetch mentors")
	}
	if mentors == nil {
		mentors = []string{}
	}
	return c.JSON(mentors)
}

func (h *ActivityHandler) statistics(c *fiber.Ctx) error {
	stats, err := h.service.Statistics(c.Context(), c.Query("startDate"), c.Query("endDate"))
	if err != nil {
		return h.internalError(c, err, "Failed to fetch statistics")
	}
	return c.JSON(stats)
}

func (h *ActivityHandler) getDashboard(c *fiber.Ctx) error {
	dashboard, err := h.dashboard.Get(c.Context())
	if err != nil {
		return h.internalError(c, err, "Failed to fetch dashboard")
	}
	return c.JSON(dashboard)
}

// mapError translates service errors into the status mapping: unknown id to
// 404, validation and state errors to 400, anything else to 500.
func (h *ActivityHandler) mapError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, service.ErrActivityNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "Activity not found")
	case errors.Is(err, service.ErrDuplicateID):
		return utils.SendError(c, fiber.StatusBadRequest, "Activity with this ID already exists")
	case errors.Is(err, service.ErrAlreadyCompleted),
		errors.Is(err, service.ErrAlreadyCancelled),
		errors.Is(err, service.ErrDateLocked),
		errors.Is(err, models.ErrInvalidTransition):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		return utils.SendError(c, fiber.StatusBadRequest, validationErrs.Error())
	}

	return h.internalError(c, err, fallback)
}

func (h *ActivityHandler) internalError(c *fiber.Ctx, err error, message string) error {
	h.logger.Error().Err(err).Str("path", c.Path()).Msg("request failed")
	return utils.SendError(c, fiber.StatusInternalServerError, message)
}

func limitQuery(c *fiber.Ctx) int {
	limit, err := strconv.Atoi(c.Query("limit", strconv.Itoa(defaultListLimit)))
	if err != nil || limit <= 0 {
		return defaultListLimit
	}
	return limit
}
