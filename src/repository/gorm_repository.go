package repository

import (
	"context"
	"errors"
	"fmt"

	"Backend-FormGen/src/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormStore is the Postgres store. Schema and data live in jsonb columns.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Migrate creates the tables and the cascading foreign key from submissions to forms.
func (s *GormStore) Migrate(ctx context.Context) error {
	db := s.db.WithContext(ctx)
	if err := db.AutoMigrate(&models.Form{}, &models.Submission{}); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}
	return db.Exec(`DO $$ BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'fk_submissions_form') THEN
			ALTER TABLE submissions ADD CONSTRAINT fk_submissions_form
				FOREIGN KEY (form_id) REFERENCES forms(id) ON DELETE CASCADE;
		END IF;
	END $$;`).Error
}

func (s *GormStore) CreateForm(ctx context.Context, form *models.Form) error {
	if form.ID == "" {
		form.ID = uuid.New().String()
	}
	return s.db.WithContext(ctx).Create(form).Error
}

func (s *GormStore) GetForm(ctx context.Context, id string) (*models.Form, error) {
	var form models.Form
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&form).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &form, nil
}

func (s *GormStore) ListFormsByUser(ctx context.Context, userID string) ([]models.Form, error) {
	forms := []models.Form{}
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&forms).Error
	return forms, err
}

func (s *GormStore) DeleteForm(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ?", id).Delete(&models.Form{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return tx.Where("form_id = ?", id).Delete(&models.Submission{}).Error
	})
}

func (s *GormStore) CreateSubmission(ctx context.Context, sub *models.Submission) error {
	if sub.ID == "" {
		sub.ID = uuid.New().String()
	}
	return s.db.WithContext(ctx).Create(sub).Error
}

func (s *GormStore) GetSubmission(ctx context.Context, id string) (*models.Submission, error) {
	var sub models.Submission
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&sub).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &sub, nil
}

func (s *GormStore) ListSubmissions(ctx context.Context, formID string, skip, limit int64) ([]models.Submission, error) {
	subs := []models.Submission{}
	q := s.db.WithContext(ctx).
		Where("form_id = ?", formID).
		Order("created_at DESC").
		Order("id DESC").
		Offset(int(skip))
	if limit > 0 {
		q = q.Limit(int(limit))
	}
	err := q.Find(&subs).Error
	return subs, err
}

func (s *GormStore) ListSubmissionsByForms(ctx context.Context, formIDs []string, limit int64) ([]models.Submission, error) {
	subs := []models.Submission{}
	if len(formIDs) == 0 {
		return subs, nil
	}
	q := s.db.WithContext(ctx).
		Where("form_id IN ?", formIDs).
		Order("created_at DESC").
		Order("id DESC")
	if limit > 0 {
		q = q.Limit(int(limit))
	}
	err := q.Find(&subs).Error
	return subs, err
}

func (s *GormStore) CountSubmissions(ctx context.Context, formID string) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Submission{}).Where("form_id = ?", formID).Count(&n).Error
	return n, err
}

func (s *GormStore) Close(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
