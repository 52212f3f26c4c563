package chat

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/intradesk/helpdesk-api/services"
	"github.com/intradesk/helpdesk-api/utils/response"
	"github.com/intradesk/helpdesk-api/utils/validation"
)

// AssistantHandler handles the chat widget's requests
type AssistantHandler struct {
	validator   *validation.Validator
	chatService *services.ChatService
}

// NewAssistantHandler creates a new assistant handler
func NewAssistantHandler(chatService *services.ChatService) *AssistantHandler {
	return &AssistantHandler{
		validator:   validation.NewValidator(),
		chatService: chatService,
	}
}

// InitRequest represents the request to bootstrap a session
type InitRequest struct {
	SessionID string `json:"session_id" validate:"omitempty,max=100"`
}

// SendMessageRequest represents the request to send a chat message
type SendMessageRequest struct {
	SessionID string `json:"session_id" validate:"required,max=100"`
	Content   string `json:"content" validate:"required,min=1,max=4000"`
}

// ClearRequest represents the request to clear a session's history
type ClearRequest struct {
	SessionID string `json:"session_id" validate:"required,max=100"`
}

// Init handles POST /api/v1/assistant/init
// Mints a session key when the client did not supply one. Idempotent.
func (h *AssistantHandler) Init(c *fiber.Ctx) error {
	var req InitRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	if err := h.chatService.Init(c.Context(), sessionID); err != nil {
		return response.InternalServerError(c, "Failed to initialize session")
	}

	return response.Success(c, fiber.Map{
		"session_id": sessionID,
	})
}

// SendMessage handles POST /api/v1/assistant/message
func (h *AssistantHandler) SendMessage(c *fiber.Ctx) error {
	var req SendMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	reply, err := h.chatService.SendMessage(c.Context(), req.SessionID, req.Content)
	if err != nil {
		if errors.Is(err, services.ErrRateLimited) {
			return response.TooManyRequests(c,
				"You're sending messages a little too quickly. Please wait a moment and try again.")
		}
		if errors.Is(err, services.ErrSessionNotFound) {
			return response.NotFound(c, "Session not found")
		}
		return response.InternalServerError(c, "Failed to process message")
	}

	return response.Success(c, fiber.Map{
		"reply": reply,
	})
}

// Clear handles POST /api/v1/assistant/clear
func (h *AssistantHandler) Clear(c *fiber.Ctx) error {
	var req ClearRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	if err := h.chatService.Clear(c.Context(), req.SessionID); err != nil {
		if errors.Is(err, services.ErrSessionNotFound) {
			return response.NotFound(c, "Session not found")
		}
		return response.InternalServerError(c, "Failed to clear session")
	}

	return response.SuccessWithMessage(c, "Session cleared", nil)
}

// History handles GET /api/v1/assistant/history/:session_id
func (h *AssistantHandler) History(c *fiber.Ctx) error {
	sessionID := c.Params("session_id")
	if sessionID == "" {
		return response.BadRequest(c, "Missing session ID")
	}

	limit, _ := strconv.Atoi(c.Query("limit", "50"))

	messages, err := h.chatService.History(c.Context(), sessionID, limit)
	if err != nil {
		if errors.Is(err, services.ErrSessionNotFound) {
			return response.NotFound(c, "Session not found")
		}
		return response.InternalServerError(c, "Failed to fetch history")
	}

	return response.Success(c, fiber.Map{
		"messages": messages,
	})
}
