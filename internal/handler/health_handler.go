package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// HealthResponse is the liveness payload.
type HealthResponse struct {
	Status    string  `json:"status"`
	Timestamp string  `json:"timestamp"`
	Uptime    float64 `json:"uptime"`
}

// HealthCheck returns a handler reporting liveness and uptime in seconds
// since the given start time.
func HealthCheck(startedAt time.Time) fiber.Handler {
	return func(c *fiber.Ctx) error {
		now := time.Now()
		return c.JSON(HealthResponse{
			Status:    "OK",
			Timestamp: now.UTC().Format(time.RFC3339),
			Uptime:    now.Sub(startedAt).Seconds(),
		})
	}
}
