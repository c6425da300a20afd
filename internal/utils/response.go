package utils

import "github.com/gofiber/fiber/v2"

// ErrorResponse is the wire shape for failed requests.
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse is the wire shape for acknowledgements without a payload.
type MessageResponse struct {
	Message string `json:"message"`
}

// SendError sends an error JSON response with the given status code.
func SendError(c *fiber.Ctx, status int, message string) error {
	if message == "" {
		message = "error"
	}
	return c.Status(status).JSON(ErrorResponse{Error: message})
}

// SendMessage sends a 200 acknowledgement with a human-readable message.
func SendMessage(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusOK).JSON(MessageResponse{Message: message})
}
