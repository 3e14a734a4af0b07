package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// FieldType ชนิดของ field ใน schema ของฟอร์ม
type FieldType string

const (
	FieldText     FieldType = "text"
	FieldEmail    FieldType = "email"
	FieldNumber   FieldType = "number"
	FieldTextarea FieldType = "textarea"
	FieldSelect   FieldType = "select"
	FieldRadio    FieldType = "radio"
	FieldCheckbox FieldType = "checkbox"
	FieldFile     FieldType = "file"
	FieldDate     FieldType = "date"
)

// FieldTypes lists the nine declared field types in the order the generator prompt names them.
var FieldTypes = []FieldType{
	FieldText, FieldEmail, FieldNumber, FieldTextarea,
	FieldSelect, FieldRadio, FieldCheckbox, FieldFile, FieldDate,
}

// WidgetKind is the widget a field type is presented with.
type WidgetKind string

const (
	WidgetInput    WidgetKind = "input"
	WidgetTextarea WidgetKind = "textarea"
	WidgetSelect   WidgetKind = "select"
	WidgetRadio    WidgetKind = "radio"
	WidgetCheckbox WidgetKind = "checkbox"
	WidgetFile     WidgetKind = "file"
)

// Widget maps every field type to its widget. Unknown types fall back to a single-line input.
func (t FieldType) Widget() WidgetKind {
	switch t {
	case FieldTextarea:
		return WidgetTextarea
	case FieldSelect:
		return WidgetSelect
	case FieldRadio:
		return WidgetRadio
	case FieldCheckbox:
		return WidgetCheckbox
	case FieldFile:
		return WidgetFile
	case FieldText, FieldEmail, FieldNumber, FieldDate:
		return WidgetInput
	default:
		return WidgetInput
	}
}

// HasOptions reports whether the type chooses among Field.Options.
func (t FieldType) HasOptions() bool {
	switch t {
	case FieldSelect, FieldRadio, FieldCheckbox:
		return true
	}
	return false
}

// ValidationRule กฎตรวจสอบค่าของ field (ทุกค่าเป็น optional)
type ValidationRule struct {
	Min     *float64 `bson:"min,omitempty" json:"min,omitempty"`
	Max     *float64 `bson:"max,omitempty" json:"max,omitempty"`
	Pattern string   `bson:"pattern,omitempty" json:"pattern,omitempty"`
	Message string   `bson:"message,omitempty" json:"message,omitempty"`
}

// --- Field ---
type Field struct {
	ID          string          `bson:"id" json:"id" validate:"required"`
	Label       string          `bson:"label" json:"label" validate:"required"`
	Type        FieldType       `bson:"type" json:"type" validate:"required"`
	Required    bool            `bson:"required" json:"required"`
	Placeholder string          `bson:"placeholder,omitempty" json:"placeholder,omitempty"`
	Options     []string        `bson:"options,omitempty" json:"options,omitempty"`
	Validation  *ValidationRule `bson:"validation,omitempty" json:"validation,omitempty"`
}

// --- Schema ---
type Schema struct {
	Fields []Field `bson:"fields" json:"fields" validate:"required,dive"`
}

// Check enforces the invariants a schema must hold before it is attached to a form.
func (s Schema) Check() error {
	seen := make(map[string]struct{}, len(s.Fields))
	for i, f := range s.Fields {
		if f.ID == "" {
			return fmt.Errorf("field %d: id is required", i)
		}
		if _, dup := seen[f.ID]; dup {
			return fmt.Errorf("field %q: duplicate id", f.ID)
		}
		seen[f.ID] = struct{}{}
		if f.Type.HasOptions() && len(f.Options) == 0 {
			return fmt.Errorf("field %q: options are required for %s fields", f.ID, f.Type)
		}
	}
	return nil
}

// FieldByID returns the field with the given id.
func (s Schema) FieldByID(id string) (Field, bool) {
	for _, f := range s.Fields {
		if f.ID == id {
			return f, true
		}
	}
	return Field{}, false
}

// Value stores the schema as a JSON document (jsonb on postgres).
func (s Schema) Value() (driver.Value, error) {
	if s.Fields == nil {
		s.Fields = []Field{}
	}
	b, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (s *Schema) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*s = Schema{}
		return nil
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	}
	return errors.New("schema: unsupported scan type")
}

// --- Form ---
type Form struct {
	ID          string    `bson:"_id" json:"id" gorm:"primaryKey;size:36"`
	UserID      string    `bson:"userId" json:"user_id" gorm:"size:64;not null;index"`
	Title       string    `bson:"title" json:"title" gorm:"size:255;not null"`
	Description string    `bson:"description" json:"description" gorm:"type:text"`
	Schema      Schema    `bson:"schema" json:"schema" gorm:"type:jsonb;not null"`
	IsPublic    bool      `bson:"isPublic" json:"is_public" gorm:"not null;default:true"`
	CreatedAt   time.Time `bson:"createdAt" json:"created_at" gorm:"index"`
	UpdatedAt   time.Time `bson:"updatedAt" json:"updated_at"`
}

func (Form) TableName() string {
	return "forms"
}

// FormWithCount ฟอร์มพร้อมจำนวน submission (ใช้ในหน้า dashboard)
type FormWithCount struct {
	Form
	SubmissionCount int64 `json:"submissionCount"`
}

// CreateFormRequest payload สำหรับบันทึกฟอร์มที่ generate แล้ว
type CreateFormRequest struct {
	Title       string `json:"title" validate:"required,max=255"`
	Description string `json:"description" validate:"max=2000"`
	Schema      Schema `json:"schema" validate:"required"`
	IsPublic    *bool  `json:"is_public"`
}

// GenerateFormRequest prompt ภาษาธรรมชาติสำหรับ AI
type GenerateFormRequest struct {
	Prompt string `json:"prompt" validate:"required,max=4000"`
}
