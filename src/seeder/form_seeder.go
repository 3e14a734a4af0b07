package seeder

import (
	"context"
	"fmt"

	"Backend-FormGen/src/models"
	"Backend-FormGen/src/services/forms"
	"Backend-FormGen/src/services/submission"

	"go.uber.org/zap"
)

func f64(v float64) *float64 { return &v }

// SampleForms ฟอร์มตัวอย่างสำหรับ dev
func SampleForms() []models.CreateFormRequest {
	return []models.CreateFormRequest{
		{
			Title:       "Customer Feedback",
			Description: "Tell us how we did",
			Schema: models.Schema{Fields: []models.Field{
				{ID: "name", Label: "Full Name", Type: models.FieldText, Required: true, Validation: &models.ValidationRule{Min: f64(2), Max: f64(80)}},
				{ID: "email", Label: "Email", Type: models.FieldEmail, Required: true},
				{ID: "rating", Label: "Rating", Type: models.FieldNumber, Required: true, Validation: &models.ValidationRule{Min: f64(1), Max: f64(5), Message: "Rating must be between 1 and 5"}},
				{ID: "channel", Label: "How did you find us?", Type: models.FieldSelect, Options: []string{"Search", "Friend", "Social Media", "Other"}},
				{ID: "liked", Label: "What did you like?", Type: models.FieldCheckbox, Options: []string{"Speed", "Price", "Support", "Design"}},
				{ID: "comments", Label: "Comments", Type: models.FieldTextarea, Placeholder: "Anything else?"},
			}},
		},
		{
			Title:       "Tech Conference Registration",
			Description: "Register for the annual technology conference",
			Schema: models.Schema{Fields: []models.Field{
				{ID: "full_name", Label: "Full Name", Type: models.FieldText, Required: true},
				{ID: "email", Label: "Email Address", Type: models.FieldEmail, Required: true},
				{ID: "role", Label: "Primary role", Type: models.FieldRadio, Required: true, Options: []string{"Developer", "Designer", "Manager", "Student", "Other"}},
				{ID: "sessions", Label: "Sessions", Type: models.FieldCheckbox, Options: []string{"AI/ML", "Web Development", "DevOps", "Data Science"}},
				{ID: "arrival", Label: "Arrival date", Type: models.FieldDate},
				{ID: "ticket", Label: "Student ID card", Type: models.FieldFile},
				{ID: "phone", Label: "Phone", Type: models.FieldText, Validation: &models.ValidationRule{Pattern: `0[0-9]{9}`, Message: "Phone must be 10 digits"}},
			}},
		},
	}
}

var sampleSubmissions = []map[string]any{
	{"name": "Somchai Jaidee", "email": "somchai@example.com", "rating": 5.0, "channel": "Friend", "liked": []any{"Speed", "Support"}},
	{"name": "Ann Lee", "email": "ann@example.com", "rating": 4.0, "channel": "Search", "comments": "Great service"},
	{"name": "Bo", "email": "bo@example.com", "rating": 3.0, "liked": []any{"Price"}},
}

// SeedSampleForms creates the sample forms for userID and a few submissions on the first one.
func SeedSampleForms(ctx context.Context, formSvc *forms.Service, subSvc *submission.Service, userID string, log *zap.Logger) ([]*models.Form, error) {
	created := make([]*models.Form, 0, 2)
	for _, req := range SampleForms() {
		form, err := formSvc.CreateForm(ctx, userID, req)
		if err != nil {
			return created, fmt.Errorf("seed form %q: %w", req.Title, err)
		}
		log.Info("✅ Created form", zap.String("title", form.Title), zap.String("id", form.ID))
		created = append(created, form)
	}

	for _, values := range sampleSubmissions {
		if _, err := subSvc.Submit(ctx, created[0].ID, nil, values); err != nil {
			return created, fmt.Errorf("seed submission: %w", err)
		}
	}
	log.Info("✅ Seeded submissions", zap.Int("count", len(sampleSubmissions)), zap.String("form_id", created[0].ID))
	return created, nil
}
