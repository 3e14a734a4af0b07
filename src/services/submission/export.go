package submission

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"io"
	"strings"
	"time"

	"Backend-FormGen/src/models"
	"Backend-FormGen/src/services/forms"

	"github.com/xuri/excelize/v2"
)

// ErrUnknownFormat is returned for an export format other than json, csv, txt or xls.
var ErrUnknownFormat = errors.New("unknown export format")

// Export is a rendered download.
type Export struct {
	Body        []byte
	ContentType string
	Extension   string
}

var csvHeader = []string{"id", "created_at", "user_id", "data"}

// quoteCell wraps v in double quotes and doubles the quotes inside it.
func quoteCell(v string) string {
	return `"` + strings.ReplaceAll(v, `"`, `""`) + `"`
}

func csvLine(cells []string) string {
	quoted := make([]string, len(cells))
	for i, c := range cells {
		quoted[i] = quoteCell(c)
	}
	return strings.Join(quoted, ",")
}

// ExportCSV writes one header line and one line per submission, every cell quoted,
// data embedded as JSON. Nothing is produced for an empty list.
func ExportCSV(subs []models.Submission) ([]byte, error) {
	if len(subs) == 0 {
		return nil, nil
	}
	lines := make([]string, 0, len(subs)+1)
	lines = append(lines, csvLine(csvHeader))
	for _, sub := range subs {
		data, err := forms.MarshalData(sub.Data)
		if err != nil {
			return nil, fmt.Errorf("encode submission %s: %w", sub.ID, err)
		}
		userID := "null"
		if sub.UserID != nil {
			userID = *sub.UserID
		}
		lines = append(lines, csvLine([]string{
			sub.ID,
			sub.CreatedAt.UTC().Format(time.RFC3339Nano),
			userID,
			string(data),
		}))
	}
	return []byte(strings.Join(lines, "\n")), nil
}

// ExportPerSubmission renders one submission against its schema.
func ExportPerSubmission(sub *models.Submission, schema models.Schema, format string) (*Export, error) {
	switch format {
	case "json":
		var buf bytes.Buffer
		enc := newJSONEncoder(&buf)
		if err := enc.Encode(map[string]any(sub.Data)); err != nil {
			return nil, err
		}
		return &Export{Body: bytes.TrimSuffix(buf.Bytes(), []byte("\n")), ContentType: "application/json", Extension: "json"}, nil

	case "csv":
		header := make([]string, len(schema.Fields))
		row := make([]string, len(schema.Fields))
		for i, f := range schema.Fields {
			header[i] = f.Label
			row[i] = forms.FormatValue(sub.Data[f.ID])
		}
		body := csvLine(header) + "\n" + csvLine(row)
		return &Export{Body: []byte(body), ContentType: "text/csv", Extension: "csv"}, nil

	case "txt":
		lines := make([]string, len(schema.Fields))
		for i, f := range schema.Fields {
			value := "-"
			if v, ok := sub.Data[f.ID]; ok && v != nil {
				value = forms.FormatValue(v)
			}
			lines[i] = f.Label + ": " + value
		}
		return &Export{Body: []byte(strings.Join(lines, "\n")), ContentType: "text/plain", Extension: "txt"}, nil

	case "xls":
		return &Export{Body: []byte(excelHTML(sub, schema)), ContentType: "application/vnd.ms-excel", Extension: "xls"}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

func newJSONEncoder(w io.Writer) *json.Encoder {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc
}

// excelHTML is an HTML table that spreadsheet programs open as a workbook.
func excelHTML(sub *models.Submission, schema models.Schema) string {
	var b strings.Builder
	b.WriteString(`<html xmlns:o="urn:schemas-microsoft-com:office:office" xmlns:x="urn:schemas-microsoft-com:office:excel" xmlns="http://www.w3.org/TR/REC-html40">`)
	b.WriteString("\n<head><meta charset=\"UTF-8\"></head>\n<body>\n<table border=\"1\">\n<tr>")
	for _, f := range schema.Fields {
		b.WriteString("<th>" + html.EscapeString(f.Label) + "</th>")
	}
	b.WriteString("</tr>\n<tr>")
	for _, f := range schema.Fields {
		b.WriteString("<td>" + html.EscapeString(forms.FormatValue(sub.Data[f.ID])) + "</td>")
	}
	b.WriteString("</tr>\n</table>\n</body>\n</html>")
	return b.String()
}

const xlsxSheet = "Submissions"

// ExportXLSX builds a workbook with a "Submitted At" column followed by one column per field.
func ExportXLSX(form *models.Form, subs []models.Submission) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", xlsxSheet); err != nil {
		return nil, err
	}

	header := []any{"Submitted At"}
	for _, field := range form.Schema.Fields {
		header = append(header, field.Label)
	}
	if err := f.SetSheetRow(xlsxSheet, "A1", &header); err != nil {
		return nil, err
	}

	for i, sub := range subs {
		row := []any{sub.CreatedAt.UTC().Format(time.RFC3339)}
		for _, field := range form.Schema.Fields {
			row = append(row, forms.FormatValue(sub.Data[field.ID]))
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(xlsxSheet, cell, &row); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write xlsx: %w", err)
	}
	return buf.Bytes(), nil
}
