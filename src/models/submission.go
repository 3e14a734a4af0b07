package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SubmissionData maps a field id to the value entered for it.
type SubmissionData map[string]any

func (d SubmissionData) Value() (driver.Value, error) {
	if d == nil {
		return "{}", nil
	}
	b, err := json.Marshal(d)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (d *SubmissionData) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*d = SubmissionData{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return errors.New("submission data: unsupported scan type")
	}
	out := SubmissionData{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return err
	}
	*d = out
	return nil
}

// UnmarshalBSON คืนค่าเป็น []any / map[string]any แทน primitive.A / primitive.D
func (d *SubmissionData) UnmarshalBSON(raw []byte) error {
	var m bson.M
	if err := bson.Unmarshal(raw, &m); err != nil {
		return err
	}
	out := SubmissionData{}
	for k, v := range m {
		out[k] = plainBSON(v)
	}
	*d = out
	return nil
}

func plainBSON(v any) any {
	switch t := v.(type) {
	case primitive.A:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = plainBSON(e)
		}
		return out
	case primitive.M:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = plainBSON(e)
		}
		return out
	case primitive.D:
		out := make(map[string]any, len(t))
		for _, e := range t {
			out[e.Key] = plainBSON(e.Value)
		}
		return out
	default:
		return v
	}
}

type Submission struct {
	ID        string         `bson:"_id" json:"id" gorm:"primaryKey;size:36"`
	FormID    string         `bson:"formId" json:"form_id" gorm:"size:36;not null;index:idx_submissions_form_created,priority:1"`
	UserID    *string        `bson:"userId,omitempty" json:"user_id" gorm:"size:64"`
	Data      SubmissionData `bson:"data" json:"data" gorm:"type:jsonb;not null"`
	CreatedAt time.Time      `bson:"createdAt" json:"created_at" gorm:"index:idx_submissions_form_created,priority:2,sort:desc"`
}

func (Submission) TableName() string {
	return "submissions"
}

// LabelledSubmission แถวในหน้ารวม submissions ของทุกฟอร์ม
type LabelledSubmission struct {
	Submission
	FormTitle string `json:"form_title"`
}

// SubmitFormRequest ค่าที่ผู้ใช้กรอกในฟอร์มสาธารณะ
type SubmitFormRequest struct {
	Data map[string]any `json:"data"`
}

// SubmissionSummary ตัวเลขสรุปด้านบนของหน้า submissions
type SubmissionSummary struct {
	TotalSubmissions int    `json:"totalSubmissions"`
	UniqueUsers      int    `json:"uniqueUsers"`
	Fields           int    `json:"fields"`
	LatestSubmission string `json:"latestSubmission"`
}
