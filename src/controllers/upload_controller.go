package controllers

import (
	"Backend-FormGen/src/services/uploads"
	"Backend-FormGen/src/utils"

	"github.com/gofiber/fiber/v2"
)

type UploadController struct {
	uploads *uploads.Service
}

func NewUploadController(svc *uploads.Service) *UploadController {
	return &UploadController{uploads: svc}
}

// UploadFile godoc
// @Summary      Upload a file for a file field
// @Description  Images, PDF and DOCX up to 20MB. Returns the value to store in the submission.
// @Tags         uploads
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "File"
// @Success      201  {object}  models.UploadResult
// @Failure      400  {object}  models.ErrorResponse
// @Failure      413  {object}  models.ErrorResponse
// @Failure      415  {object}  models.ErrorResponse
// @Failure      500  {object}  models.ErrorResponse
// @Router       /uploads [post]
func (uc *UploadController) UploadFile(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "file is required")
	}
	if fh.Size > uploads.MaxFileSize {
		return respondError(c, uploads.ErrTooLarge, "")
	}

	f, err := fh.Open()
	if err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "cannot read file: "+err.Error())
	}
	defer f.Close()

	res, err := uc.uploads.Upload(c.UserContext(), fh.Filename, f)
	if err != nil {
		return respondError(c, err, "")
	}
	return c.Status(fiber.StatusCreated).JSON(res)
}
