package routes

import (
	"github.com/gofiber/fiber/v2"
)

// recentSubmissionRoutes รวม submissions ของทุกฟอร์มที่ผู้ใช้เป็นเจ้าของ
func recentSubmissionRoutes(router fiber.Router, auth fiber.Handler, d Deps) {
	router.Get("/submissions", auth, d.Submissions.GetRecentSubmissions)
}

// submissionRoutes อยู่ใต้ /forms จึงได้ AuthJWT มาด้วย
func submissionRoutes(forms fiber.Router, d Deps) {
	subs := forms.Group("/:id/submissions")

	subs.Get("/", d.Submissions.GetSubmissions)
	subs.Get("/export", d.Submissions.ExportSubmissions) // ต้องมาก่อน /:sid
	subs.Get("/:sid", d.Submissions.GetSubmission)
	subs.Get("/:sid/export", d.Submissions.ExportSubmission)
}
