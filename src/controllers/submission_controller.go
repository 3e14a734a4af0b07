package controllers

import (
	"fmt"
	"time"

	"Backend-FormGen/src/middleware"
	"Backend-FormGen/src/models"
	"Backend-FormGen/src/services/analytics"
	"Backend-FormGen/src/services/forms"
	"Backend-FormGen/src/services/submission"
	"Backend-FormGen/src/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type SubmissionController struct {
	forms       *forms.Service
	submissions *submission.Service
	loc         *time.Location
	log         *zap.Logger
}

func NewSubmissionController(formSvc *forms.Service, subSvc *submission.Service, loc *time.Location, log *zap.Logger) *SubmissionController {
	if loc == nil {
		loc = time.UTC
	}
	return &SubmissionController{forms: formSvc, submissions: subSvc, loc: loc, log: log}
}

// SubmissionListResponse หน้า submissions พร้อมกราฟและสรุป (คำนวณจากหน้าที่โหลดมา)
type SubmissionListResponse struct {
	*models.PaginatedResponse
	Form      *models.Form             `json:"form"`
	Trends    []analytics.DayCount     `json:"trends"`
	TopFields []analytics.FieldCount   `json:"topFields"`
	Summary   models.SubmissionSummary `json:"summary"`
}

// GetSubmissions godoc
// @Summary      Page of a form's submissions
// @Description  Newest first. search only filters the returned page; total counts the whole form.
// @Tags         submissions
// @Produce      json
// @Security     BearerAuth
// @Param        id     path   string  true  "Form ID"
// @Param        page   query  int     false "Page"    default(1)
// @Param        limit  query  int     false "Limit"   default(25)
// @Param        search query  string  false "Search in submission data"
// @Success      200  {object}  SubmissionListResponse
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  models.ErrorResponse
// @Router       /forms/{id}/submissions [get]
func (sc *SubmissionController) GetSubmissions(c *fiber.Ctx) error {
	form, err := sc.forms.GetForm(c.UserContext(), middleware.UserID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err, "form not found")
	}

	params := models.DefaultPagination()
	if err := c.QueryParser(&params); err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "Invalid query: "+err.Error())
	}
	params.Normalize()

	page, err := sc.submissions.List(c.UserContext(), form.ID, params)
	if err != nil {
		return respondError(c, err, "form not found")
	}

	return c.JSON(SubmissionListResponse{
		PaginatedResponse: models.NewPaginatedResponse(page.Submissions, page.Total, params),
		Form:              form,
		Trends:            analytics.SubmissionsByDay(page.Submissions, sc.loc),
		TopFields:         analytics.TopFields(page.Submissions, analytics.DefaultTopFields),
		Summary:           submission.Summary(form, page.Total, page.Submissions),
	})
}

// GetRecentSubmissions godoc
// @Summary      Newest submissions across all of the caller's forms
// @Tags         submissions
// @Produce      json
// @Security     BearerAuth
// @Param        limit  query  int  false "Limit (max 200)" default(200)
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  models.ErrorResponse
// @Failure      500  {object}  models.ErrorResponse
// @Router       /submissions [get]
func (sc *SubmissionController) GetRecentSubmissions(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", submission.MaxRecent)
	subs, err := sc.submissions.Recent(c.UserContext(), middleware.UserID(c), limit)
	if err != nil {
		return respondError(c, err, "submissions not found")
	}
	return c.JSON(fiber.Map{"data": subs, "total": len(subs)})
}

// ExportSubmissions godoc
// @Summary      Download every submission of a form
// @Tags         submissions
// @Produce      text/csv
// @Security     BearerAuth
// @Param        id     path   string  true  "Form ID"
// @Param        format query  string  false "csv|xlsx" default(csv)
// @Success      200  {file}  file
// @Success      204  "no submissions"
// @Failure      400  {object}  models.ErrorResponse
// @Failure      404  {object}  map[string]string
// @Router       /forms/{id}/submissions/export [get]
func (sc *SubmissionController) ExportSubmissions(c *fiber.Ctx) error {
	form, err := sc.forms.GetForm(c.UserContext(), middleware.UserID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err, "form not found")
	}

	subs, err := sc.submissions.All(c.UserContext(), form.ID)
	if err != nil {
		return respondError(c, err, "form not found")
	}
	if len(subs) == 0 {
		return c.SendStatus(fiber.StatusNoContent)
	}

	var body []byte
	var contentType, ext string
	switch format := c.Query("format", "csv"); format {
	case "csv":
		body, err = submission.ExportCSV(subs)
		contentType, ext = "text/csv; charset=utf-8", "csv"
	case "xlsx":
		body, err = submission.ExportXLSX(form, subs)
		contentType, ext = xlsxContentType, "xlsx"
	default:
		return respondError(c, fmt.Errorf("%w: %s", submission.ErrUnknownFormat, format), "form not found")
	}
	if err != nil {
		return respondError(c, err, "form not found")
	}

	sc.log.Info("submissions exported", zap.String("form_id", form.ID), zap.String("format", ext), zap.Int("rows", len(subs)))
	c.Attachment(fmt.Sprintf("%s-submissions.%s", form.ID, ext))
	c.Set(fiber.HeaderContentType, contentType)
	return c.Send(body)
}

// GetSubmission godoc
// @Summary      One submission of a form
// @Tags         submissions
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "Form ID"
// @Param        sid  path  string  true  "Submission ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]string
// @Router       /forms/{id}/submissions/{sid} [get]
func (sc *SubmissionController) GetSubmission(c *fiber.Ctx) error {
	form, sub, err := sc.load(c)
	if err != nil {
		return respondError(c, err, "submission not found")
	}
	return c.JSON(fiber.Map{"form": form, "submission": sub})
}

// ExportSubmission godoc
// @Summary      Download one submission
// @Tags         submissions
// @Produce      octet-stream
// @Security     BearerAuth
// @Param        id     path   string  true  "Form ID"
// @Param        sid    path   string  true  "Submission ID"
// @Param        format query  string  false "json|csv|txt|xls" default(json)
// @Success      200  {file}  file
// @Failure      400  {object}  models.ErrorResponse
// @Failure      404  {object}  map[string]string
// @Router       /forms/{id}/submissions/{sid}/export [get]
func (sc *SubmissionController) ExportSubmission(c *fiber.Ctx) error {
	form, sub, err := sc.load(c)
	if err != nil {
		return respondError(c, err, "submission not found")
	}

	out, err := submission.ExportPerSubmission(sub, form.Schema, c.Query("format", "json"))
	if err != nil {
		return respondError(c, err, "submission not found")
	}

	c.Attachment(fmt.Sprintf("submission-%s.%s", sub.ID, out.Extension))
	c.Set(fiber.HeaderContentType, out.ContentType)
	return c.Send(out.Body)
}

func (sc *SubmissionController) load(c *fiber.Ctx) (*models.Form, *models.Submission, error) {
	form, err := sc.forms.GetForm(c.UserContext(), middleware.UserID(c), c.Params("id"))
	if err != nil {
		return nil, nil, err
	}
	sub, err := sc.submissions.Get(c.UserContext(), form.ID, c.Params("sid"))
	if err != nil {
		return nil, nil, err
	}
	return form, sub, nil
}
