package utils

import "github.com/gofiber/fiber/v2"

// APIResponse describes the common structure for successful API responses.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message"`
}

// APIError carries a machine-readable code alongside the human message.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// APIErrorResponse wraps an APIError in the error envelope.
type APIErrorResponse struct {
	Error APIError `json:"error"`
}

// SendSuccess sends a successful JSON response with a message.
func SendSuccess(c *fiber.Ctx, message string, data interface{}) error {
	return SendSuccessWithStatus(c, fiber.StatusOK, message, data)
}

// SendSuccessWithStatus sends a success payload using the provided HTTP status code.
func SendSuccessWithStatus(c *fiber.Ctx, status int, message string, data interface{}) error {
	if message == "" {
		message = "success"
	}
	if status == 0 {
		status = fiber.StatusOK
	}

	return c.Status(status).JSON(APIResponse{
		Success: true,
		Data:    data,
		Message: message,
	})
}

// SendError sends an error envelope with a stable code clients can branch on.
func SendError(c *fiber.Ctx, status int, code, message string) error {
	if code == "" {
		code = "INTERNAL_ERROR"
	}
	if message == "" {
		message = "an unexpected error occurred"
	}

	return c.Status(status).JSON(APIErrorResponse{
		Error: APIError{Code: code, Message: message},
	})
}
