package email

import (
	"bytes"
	_ "embed"
	"html/template"
	"strings"
	"time"

	"Backend-FormGen/src/models"
)

//go:embed email_contact.html
var contactEmailHTML string

var contactEmailTmpl = template.Must(
	template.New("contact").
		Funcs(template.FuncMap{
			"formatTime": func(t time.Time) string {
				if t.IsZero() {
					return "-"
				}
				return t.UTC().Format("02/01/2006 15:04 MST")
			},
		}).
		Parse(contactEmailHTML),
)

// RenderContactEmail builds the subject line and HTML body delivered to the contact inbox.
func RenderContactEmail(msg models.ContactMessage) (subject, body string, err error) {
	var buf bytes.Buffer
	if err := contactEmailTmpl.Execute(&buf, msg); err != nil {
		return "", "", err
	}

	subject = "[Contact] " + strings.TrimSpace(msg.Name)
	if s := strings.TrimSpace(msg.Subject); s != "" {
		subject += ": " + s
	}
	return subject, buf.String(), nil
}
