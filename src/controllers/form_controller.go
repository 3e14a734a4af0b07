package controllers

import (
	"context"
	"time"

	"Backend-FormGen/src/middleware"
	"Backend-FormGen/src/models"
	"Backend-FormGen/src/services/analytics"
	"Backend-FormGen/src/services/forms"
	"Backend-FormGen/src/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// SchemaGenerator is the schema generation gateway.
type SchemaGenerator interface {
	Generate(ctx context.Context, prompt string) (*models.Schema, error)
}

type FormController struct {
	forms     *forms.Service
	generator SchemaGenerator
	loc       *time.Location
	log       *zap.Logger
}

func NewFormController(formSvc *forms.Service, gen SchemaGenerator, loc *time.Location, log *zap.Logger) *FormController {
	if loc == nil {
		loc = time.UTC
	}
	return &FormController{forms: formSvc, generator: gen, loc: loc, log: log}
}

// DashboardStats ตัวเลขและกราฟของหน้า dashboard
type DashboardStats struct {
	TotalForms         int                         `json:"totalForms"`
	TotalSubmissions   int64                       `json:"totalSubmissions"`
	Bands              []analytics.BandCount       `json:"bands"`
	FormsPerDay        []analytics.DayCount        `json:"formsPerDay"`
	SubmissionsPerForm []analytics.FormSubmissions `json:"submissionsPerForm"`
}

type FormListResponse struct {
	Data  []models.FormWithCount `json:"data"`
	Stats DashboardStats         `json:"stats"`
}

// GenerateForm godoc
// @Summary      Generate a form schema from a prompt
// @Description  Sends the prompt to the AI model and returns the parsed schema. Nothing is saved.
// @Tags         forms
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body models.GenerateFormRequest true "Prompt"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  models.ErrorResponse
// @Failure      422  {object}  models.ErrorResponse
// @Failure      429  {object}  map[string]string
// @Failure      502  {object}  models.ErrorResponse
// @Router       /forms/generate [post]
func (fc *FormController) GenerateForm(c *fiber.Ctx) error {
	var req models.GenerateFormRequest
	if err := bindBody(c, &req); err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, err.Error())
	}

	schema, err := fc.generator.Generate(c.UserContext(), req.Prompt)
	if err != nil {
		fc.log.Warn("⚠️ schema generation failed", zap.String("user_id", middleware.UserID(c)), zap.Error(err))
		return respondError(c, err, "form not found")
	}
	return c.JSON(fiber.Map{"schema": schema})
}

// CreateForm godoc
// @Summary      Save a generated form
// @Tags         forms
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body models.CreateFormRequest true "Form"
// @Success      201  {object}  models.Form
// @Failure      400  {object}  models.ErrorResponse
// @Failure      422  {object}  models.ErrorResponse
// @Failure      500  {object}  models.ErrorResponse
// @Router       /forms [post]
func (fc *FormController) CreateForm(c *fiber.Ctx) error {
	var req models.CreateFormRequest
	if err := bindBody(c, &req); err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, err.Error())
	}

	form, err := fc.forms.CreateForm(c.UserContext(), middleware.UserID(c), req)
	if err != nil {
		return respondError(c, err, "form not found")
	}
	return c.Status(fiber.StatusCreated).JSON(form)
}

// ListForms godoc
// @Summary      Dashboard list of the caller's forms
// @Description  Forms with submission counts. search matches the title, band is one of all|0|1-5|6-20|21+
// @Tags         forms
// @Produce      json
// @Security     BearerAuth
// @Param        search query string false "Title search"
// @Param        band   query string false "Submission band" default(all)
// @Param        sort   query string false "latest|oldest|mostSubmissions|leastSubmissions|alphabetical" default(latest)
// @Success      200  {object}  FormListResponse
// @Failure      500  {object}  models.ErrorResponse
// @Router       /forms [get]
func (fc *FormController) ListForms(c *fiber.Ctx) error {
	all, err := fc.forms.ListForms(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return respondError(c, err, "form not found")
	}

	filtered := analytics.FilterForms(all,
		c.Query("search"),
		analytics.Band(c.Query("band", string(analytics.BandAll))),
		analytics.Sort(c.Query("sort", string(analytics.SortLatest))),
	)

	// stats ใช้ฟอร์มทั้งหมด ไม่สนตัวกรอง
	return c.JSON(FormListResponse{
		Data: filtered,
		Stats: DashboardStats{
			TotalForms:         len(all),
			TotalSubmissions:   analytics.TotalSubmissions(all),
			Bands:              analytics.FormStats(analytics.Counts(all)),
			FormsPerDay:        analytics.FormsPerDay(all, fc.loc),
			SubmissionsPerForm: analytics.SubmissionsPerForm(all),
		},
	})
}

// GetForm godoc
// @Summary      Get one of the caller's forms
// @Tags         forms
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Form ID"
// @Success      200  {object}  models.Form
// @Failure      404  {object}  map[string]string
// @Router       /forms/{id} [get]
func (fc *FormController) GetForm(c *fiber.Ctx) error {
	form, err := fc.forms.GetForm(c.UserContext(), middleware.UserID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err, "form not found")
	}
	return c.JSON(form)
}

// DeleteForm godoc
// @Summary      Delete a form and all of its submissions
// @Tags         forms
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Form ID"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  models.ErrorResponse
// @Router       /forms/{id} [delete]
func (fc *FormController) DeleteForm(c *fiber.Ctx) error {
	if err := fc.forms.DeleteForm(c.UserContext(), middleware.UserID(c), c.Params("id")); err != nil {
		return respondError(c, err, "form not found")
	}
	return c.JSON(fiber.Map{"message": "Form deleted successfully"})
}
