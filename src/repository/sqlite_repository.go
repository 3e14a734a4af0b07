package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"Backend-FormGen/src/models"

	"github.com/google/uuid"
)

// SQLiteStore is the local store used for development and tests.
// Timestamps are kept as unix nanoseconds so ordering is numeric.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS forms (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		schema TEXT NOT NULL,
		is_public INTEGER NOT NULL DEFAULT 1,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_forms_user_created ON forms(user_id, created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS submissions (
		id TEXT PRIMARY KEY,
		form_id TEXT NOT NULL REFERENCES forms(id) ON DELETE CASCADE,
		user_id TEXT,
		data TEXT NOT NULL,
		created_at INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_submissions_form_created ON submissions(form_id, created_at DESC)`,
}

// Migrate creates the tables when missing.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	for _, stmt := range sqliteSchema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("sqlite migrate: %w", err)
		}
	}
	return nil
}

func (s *SQLiteStore) CreateForm(ctx context.Context, form *models.Form) error {
	if form.ID == "" {
		form.ID = uuid.New().String()
	}
	schema, err := form.Schema.Value()
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO forms(id, user_id, title, description, schema, is_public, created_at, updated_at) VALUES(?,?,?,?,?,?,?,?)`,
		form.ID, form.UserID, form.Title, form.Description, schema, form.IsPublic,
		form.CreatedAt.UnixNano(), form.UpdatedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("insert form: %w", err)
	}
	return nil
}

const formColumns = `id, user_id, title, description, schema, is_public, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanForm(row rowScanner) (*models.Form, error) {
	var (
		f                models.Form
		created, updated int64
	)
	if err := row.Scan(&f.ID, &f.UserID, &f.Title, &f.Description, &f.Schema, &f.IsPublic, &created, &updated); err != nil {
		return nil, err
	}
	f.CreatedAt = time.Unix(0, created).UTC()
	f.UpdatedAt = time.Unix(0, updated).UTC()
	return &f, nil
}

func (s *SQLiteStore) GetForm(ctx context.Context, id string) (*models.Form, error) {
	f, err := scanForm(s.db.QueryRowContext(ctx, `SELECT `+formColumns+` FROM forms WHERE id=?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return f, nil
}

func (s *SQLiteStore) ListFormsByUser(ctx context.Context, userID string) ([]models.Form, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+formColumns+` FROM forms WHERE user_id=? ORDER BY created_at DESC, rowid DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	forms := []models.Form{}
	for rows.Next() {
		f, err := scanForm(rows)
		if err != nil {
			return nil, err
		}
		forms = append(forms, *f)
	}
	return forms, rows.Err()
}

func (s *SQLiteStore) DeleteForm(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM submissions WHERE form_id=?`, id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM forms WHERE id=?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return tx.Commit()
}

func (s *SQLiteStore) CreateSubmission(ctx context.Context, sub *models.Submission) error {
	if sub.ID == "" {
		sub.ID = uuid.New().String()
	}
	data, err := sub.Data.Value()
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO submissions(id, form_id, user_id, data, created_at) VALUES(?,?,?,?,?)`,
		sub.ID, sub.FormID, sub.UserID, data, sub.CreatedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("insert submission: %w", err)
	}
	return nil
}

const submissionColumns = `id, form_id, user_id, data, created_at`

func scanSubmission(row rowScanner) (*models.Submission, error) {
	var (
		sub     models.Submission
		userID  sql.NullString
		created int64
	)
	if err := row.Scan(&sub.ID, &sub.FormID, &userID, &sub.Data, &created); err != nil {
		return nil, err
	}
	if userID.Valid {
		u := userID.String
		sub.UserID = &u
	}
	sub.CreatedAt = time.Unix(0, created).UTC()
	return &sub, nil
}

func (s *SQLiteStore) GetSubmission(ctx context.Context, id string) (*models.Submission, error) {
	sub, err := scanSubmission(s.db.QueryRowContext(ctx, `SELECT `+submissionColumns+` FROM submissions WHERE id=?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return sub, nil
}

func (s *SQLiteStore) ListSubmissions(ctx context.Context, formID string, skip, limit int64) ([]models.Submission, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+submissionColumns+` FROM submissions WHERE form_id=? ORDER BY created_at DESC, rowid DESC LIMIT ? OFFSET ?`,
		formID, limit, skip)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	subs := []models.Submission{}
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		subs = append(subs, *sub)
	}
	return subs, rows.Err()
}

func (s *SQLiteStore) ListSubmissionsByForms(ctx context.Context, formIDs []string, limit int64) ([]models.Submission, error) {
	subs := []models.Submission{}
	if len(formIDs) == 0 {
		return subs, nil
	}
	if limit <= 0 {
		limit = -1
	}
	args := make([]any, 0, len(formIDs)+1)
	for _, id := range formIDs {
		args = append(args, id)
	}
	args = append(args, limit)
	marks := strings.TrimSuffix(strings.Repeat("?,", len(formIDs)), ",")

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+submissionColumns+` FROM submissions WHERE form_id IN (`+marks+`) ORDER BY created_at DESC, rowid DESC LIMIT ?`,
		args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		subs = append(subs, *sub)
	}
	return subs, rows.Err()
}

func (s *SQLiteStore) CountSubmissions(ctx context.Context, formID string) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM submissions WHERE form_id=?`, formID).Scan(&n)
	return n, err
}

func (s *SQLiteStore) Close(ctx context.Context) error {
	return s.db.Close()
}
