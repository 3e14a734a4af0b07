package controllers

import (
	"errors"

	"Backend-FormGen/src/models"
	"Backend-FormGen/src/services/contact"
	"Backend-FormGen/src/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type ContactController struct {
	contact *contact.Service
	log     *zap.Logger
}

func NewContactController(svc *contact.Service, log *zap.Logger) *ContactController {
	return &ContactController{contact: svc, log: log}
}

// SendContact godoc
// @Summary      Send a message from the contact page
// @Tags         contact
// @Accept       json
// @Produce      json
// @Param        body body models.ContactMessage true "Message"
// @Success      202  {object}  map[string]string
// @Failure      400  {object}  models.ErrorResponse
// @Failure      500  {object}  models.ErrorResponse
// @Router       /contact [post]
func (cc *ContactController) SendContact(c *fiber.Ctx) error {
	var msg models.ContactMessage
	if err := bindBody(c, &msg); err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, err.Error())
	}

	delivery, err := cc.contact.Send(c.UserContext(), msg)
	if err != nil {
		if errors.Is(err, contact.ErrEmptyMessage) {
			return utils.HandleError(c, fiber.StatusBadRequest, err.Error())
		}
		cc.log.Error("❌ contact message failed", zap.Error(err))
		return utils.HandleError(c, fiber.StatusInternalServerError, "could not send your message, please try again")
	}
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"message": "Thanks, we will get back to you soon", "delivery": delivery})
}
