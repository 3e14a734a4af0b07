package forms

import (
	"slices"

	"Backend-FormGen/src/models"
)

const (
	selectPlaceholder = "Select an option"
	uploadEndpoint    = "/api/uploads"
	uploadAccept      = "image/*,.pdf,.docx"
)

// Option is one choice of a select, radio or checkbox widget.
type Option struct {
	Value    string `json:"value"`
	Label    string `json:"label"`
	Selected bool   `json:"selected"`
}

// Widget describes how one field is presented and what it currently holds.
type Widget struct {
	FieldID     string            `json:"fieldId"`
	Label       string            `json:"label"`
	Kind        models.WidgetKind `json:"kind"`
	InputType   string            `json:"inputType,omitempty"`
	Placeholder string            `json:"placeholder,omitempty"`
	Required    bool              `json:"required"`
	Options     []Option          `json:"options,omitempty"`
	Value       any               `json:"value,omitempty"`

	// file widgets hand the file to the upload collaborator; the value is the URL it returns
	UploadURL string `json:"uploadUrl,omitempty"`
	Accept    string `json:"accept,omitempty"`
}

// Render decides the widget for field given its current value.
func Render(field models.Field, current any) Widget {
	w := Widget{
		FieldID:  field.ID,
		Label:    field.Label,
		Kind:     field.Type.Widget(),
		Required: field.Required,
		Value:    current,
	}

	placeholder := field.Placeholder
	if placeholder == "" {
		placeholder = field.Label
	}

	switch w.Kind {
	case models.WidgetTextarea:
		w.Placeholder = placeholder
	case models.WidgetSelect:
		selected := FormatValue(current)
		w.Options = append(w.Options, Option{Value: "", Label: selectPlaceholder, Selected: selected == ""})
		for _, opt := range field.Options {
			w.Options = append(w.Options, Option{Value: opt, Label: opt, Selected: opt == selected})
		}
	case models.WidgetRadio:
		selected := FormatValue(current)
		for _, opt := range field.Options {
			w.Options = append(w.Options, Option{Value: opt, Label: opt, Selected: selected != "" && opt == selected})
		}
	case models.WidgetCheckbox:
		checked := StringList(current)
		w.Value = checked
		for _, opt := range field.Options {
			w.Options = append(w.Options, Option{Value: opt, Label: opt, Selected: slices.Contains(checked, opt)})
		}
	case models.WidgetFile:
		w.UploadURL = uploadEndpoint
		w.Accept = uploadAccept
	default:
		w.InputType = string(field.Type)
		if w.InputType == "" {
			w.InputType = string(models.FieldText)
		}
		w.Placeholder = placeholder
	}
	return w
}

// RenderSchema renders every field in schema order.
func RenderSchema(schema models.Schema, values map[string]any) []Widget {
	widgets := make([]Widget, 0, len(schema.Fields))
	for _, f := range schema.Fields {
		widgets = append(widgets, Render(f, values[f.ID]))
	}
	return widgets
}

// ToggleOption adds option when absent and removes it when present.
// The order of the other options is kept.
func ToggleOption(values []string, option string) []string {
	out := make([]string, 0, len(values)+1)
	found := false
	for _, v := range values {
		if v == option {
			found = true
			continue
		}
		out = append(out, v)
	}
	if !found {
		out = append(out, option)
	}
	return out
}

// StringList reads a checkbox value decoded from JSON or built in Go.
func StringList(v any) []string {
	switch x := v.(type) {
	case []string:
		return slices.Clone(x)
	case []any:
		out := make([]string, 0, len(x))
		for _, item := range x {
			out = append(out, FormatValue(item))
		}
		return out
	case string:
		if x == "" {
			return []string{}
		}
		return []string{x}
	}
	return []string{}
}
