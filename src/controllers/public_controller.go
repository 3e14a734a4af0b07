package controllers

import (
	"context"
	"errors"

	"Backend-FormGen/src/middleware"
	"Backend-FormGen/src/models"
	"Backend-FormGen/src/services/forms"
	"Backend-FormGen/src/services/submission"
	"Backend-FormGen/src/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type PublicController struct {
	forms       *forms.Service
	submissions *submission.Service
	log         *zap.Logger
}

func NewPublicController(formSvc *forms.Service, subSvc *submission.Service, log *zap.Logger) *PublicController {
	return &PublicController{forms: formSvc, submissions: subSvc, log: log}
}

// PublicFormResponse ฟอร์มสำหรับผู้กรอก ไม่มีข้อมูลเจ้าของ
type PublicFormResponse struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Schema      models.Schema  `json:"schema"`
	Widgets     []forms.Widget `json:"widgets"`
}

// GetPublicForm godoc
// @Summary      Public form with its rendered widgets
// @Tags         public
// @Produce      json
// @Param        id   path      string  true  "Form ID"
// @Success      200  {object}  PublicFormResponse
// @Failure      404  {object}  map[string]string
// @Router       /public/forms/{id} [get]
func (pc *PublicController) GetPublicForm(c *fiber.Ctx) error {
	form, err := pc.forms.GetPublicForm(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err, "form not found")
	}
	return c.JSON(PublicFormResponse{
		ID:          form.ID,
		Title:       form.Title,
		Description: form.Description,
		Schema:      form.Schema,
		Widgets:     forms.RenderSchema(form.Schema, nil),
	})
}

// SubmitPublicForm godoc
// @Summary      Submit a response to a public form
// @Description  Values are validated against the schema. A bearer token, when present, records the submitter.
// @Tags         public
// @Accept       json
// @Produce      json
// @Param        id   path      string  true  "Form ID"
// @Param        body body      models.SubmitFormRequest true "Values by field id"
// @Success      201  {object}  map[string]interface{}
// @Failure      400  {object}  models.ErrorResponse
// @Failure      404  {object}  map[string]string
// @Failure      422  {object}  models.ErrorResponse
// @Failure      500  {object}  models.ErrorResponse
// @Router       /public/forms/{id}/submit [post]
func (pc *PublicController) SubmitPublicForm(c *fiber.Ctx) error {
	var req models.SubmitFormRequest
	if err := bindBody(c, &req); err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, err.Error())
	}

	form, err := pc.forms.GetPublicForm(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err, "form not found")
	}

	session := forms.NewSession(form.Schema)
	for id, v := range req.Data {
		// ค่าที่ไม่มีใน schema ทิ้งไป
		if err := session.Set(id, v); err != nil && !errors.Is(err, forms.ErrUnknownField) {
			return respondError(c, err, "form not found")
		}
	}

	var submitter *string
	if uid := middleware.UserID(c); uid != "" {
		submitter = &uid
	}

	var saved *models.Submission
	err = session.Submit(c.UserContext(), func(ctx context.Context, values map[string]any) error {
		sub, err := pc.submissions.Submit(ctx, form.ID, submitter, values)
		saved = sub
		return err
	})
	if err != nil {
		return respondError(c, err, "form not found")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Submission received",
		"id":      saved.ID,
		"state":   session.State(),
	})
}
