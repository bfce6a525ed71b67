package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/case-portal/internal/api/dto"
	"github.com/spec-kit/case-portal/internal/auth"
	"github.com/spec-kit/case-portal/internal/service"
	apperrors "github.com/spec-kit/case-portal/pkg/util"
)

// MessagesHandler serves the per-case message timeline.
type MessagesHandler struct {
	messages *service.MessageService
}

// NewMessagesHandler constructs handler.
func NewMessagesHandler(messages *service.MessageService) *MessagesHandler {
	return &MessagesHandler{messages: messages}
}

// List handles GET /cases/:caseID/messages. Clients poll this endpoint;
// unlike viewing the case itself it never joins the caller to the registry.
func (h *MessagesHandler) List(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}

	caseRecord, msgs, err := h.messages.List(c.Context(), principal.User, c.Params("caseID"))
	if err != nil {
		return err
	}

	items := make([]dto.MessageResponse, 0, len(msgs))
	for i := range msgs {
		items = append(items, messageResponse(&msgs[i]))
	}
	return c.JSON(fiber.Map{"data": dto.MessageListResponse{
		CaseID:     caseRecord.PublicID,
		CaseStatus: caseRecord.Status,
		Messages:   items,
	}})
}

// Post handles POST /cases/:caseID/messages.
func (h *MessagesHandler) Post(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.CreateMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	var attachment *service.AttachmentInput
	if req.Attachment != nil {
		attachment = &service.AttachmentInput{
			FileURL:  req.Attachment.FileURL,
			FileName: req.Attachment.FileName,
			MimeType: req.Attachment.MimeType,
		}
	}

	msg, err := h.messages.Post(c.Context(), principal.User, c.Params("caseID"), req.Body, req.IsInternal, attachment)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": messageResponse(msg)})
}
