package models

import "time"

// ContactMessage ข้อความจากหน้า Contact ของเว็บไซต์
type ContactMessage struct {
	Name       string    `json:"name" validate:"required,max=120"`
	Email      string    `json:"email" validate:"required,email"`
	Subject    string    `json:"subject" validate:"max=200"`
	Message    string    `json:"message" validate:"required,max=5000"`
	ReceivedAt time.Time `json:"receivedAt"`
}

// UploadResult is what the upload collaborator returns for one file.
type UploadResult struct {
	URL         string `json:"url"`
	FileName    string `json:"fileName"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
	Persistent  bool   `json:"persistent"`
}
