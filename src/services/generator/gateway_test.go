package generator

import (
	"context"
	"errors"
	"strings"
	"testing"

	"Backend-FormGen/src/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m, goleak.IgnoreTopFunction("go.opencensus.io/stats/view.(*worker).start"))
}

type fakeLLM struct {
	text  string
	err   error
	calls int
	got   string
	opts  GenerateOptions
}

func (f *fakeLLM) GenerateText(ctx context.Context, prompt string, opts GenerateOptions) (string, error) {
	f.calls++
	f.got = prompt
	f.opts = opts
	return f.text, f.err
}

func newGateway(t *testing.T, llm TextGenerator) *Gateway {
	t.Helper()
	g, err := NewGateway(llm, "", 0, zap.NewNop())
	require.NoError(t, err)
	return g
}

func TestPromptTemplateNamesEveryFieldType(t *testing.T) {
	tmpl, err := LoadPromptTemplate()
	require.NoError(t, err)
	for _, ft := range models.FieldTypes {
		assert.Contains(t, tmpl.System, string(ft))
	}
	assert.Contains(t, tmpl.System, "Only respond with valid JSON")
	assert.Equal(t, float32(0.7), tmpl.Temperature)
	assert.EqualValues(t, 2048, tmpl.MaxOutputTokens)
	assert.Equal(t, "gemini-2.0-flash-exp", tmpl.Model)
}

func TestGenerateParsesFencedResponse(t *testing.T) {
	llm := &fakeLLM{text: "Here you go:\n```json\n" +
		`{"fields":[{"id":"email","label":"Email","type":"email","required":true},` +
		`{"id":"plan","label":"Plan","type":"select","required":false,"options":["Free","Pro"]}]}` +
		"\n```"}
	g := newGateway(t, llm)

	schema, err := g.Generate(context.Background(), "  newsletter signup ")
	require.NoError(t, err)
	require.Len(t, schema.Fields, 2)
	assert.Equal(t, models.FieldEmail, schema.Fields[0].Type)
	assert.Equal(t, []string{"Free", "Pro"}, schema.Fields[1].Options)

	assert.Equal(t, 1, llm.calls)
	assert.True(t, strings.HasSuffix(llm.got, "\n\nUser request: newsletter signup"))
	assert.Equal(t, "gemini-2.0-flash-exp", llm.opts.Model)
	assert.Equal(t, float32(0.7), llm.opts.Temperature)
}

func TestGeneratePassesDuplicateIDsThrough(t *testing.T) {
	llm := &fakeLLM{text: `{"fields":[{"id":"x","label":"A","type":"text"},{"id":"x","label":"B","type":"text"}]}`}
	schema, err := newGateway(t, llm).Generate(context.Background(), "two fields")
	require.NoError(t, err)
	assert.Equal(t, "x", schema.Fields[0].ID)
	assert.Equal(t, "x", schema.Fields[1].ID)
}

func TestGenerateInvalidResponses(t *testing.T) {
	cases := map[string]string{
		"no json":          "Sorry, I cannot help with that.",
		"empty":            "",
		"broken json":      `{"fields": [ {"id": "a", }`,
		"missing fields":   `{"inputs": []}`,
		"field without id": `{"fields":[{"label":"Name","type":"text"}]}`,
		"field no label":   `{"fields":[{"id":"name","type":"text"}]}`,
		"field no type":    `{"fields":[{"id":"name","label":"Name"}]}`,
	}
	for name, text := range cases {
		t.Run(name, func(t *testing.T) {
			llm := &fakeLLM{text: text}
			_, err := newGateway(t, llm).Generate(context.Background(), "anything")
			assert.ErrorIs(t, err, ErrInvalidResponse)
			assert.Equal(t, 1, llm.calls)
		})
	}
}

func TestGenerateUpstreamFailureCarriesMessage(t *testing.T) {
	llm := &fakeLLM{err: errors.New("API key not valid")}
	_, err := newGateway(t, llm).Generate(context.Background(), "contact form")
	assert.ErrorIs(t, err, ErrUpstreamUnavailable)
	assert.Contains(t, err.Error(), "API key not valid")
	assert.Equal(t, 1, llm.calls)
}

func TestGenerateRefusesEmptyPrompt(t *testing.T) {
	llm := &fakeLLM{}
	_, err := newGateway(t, llm).Generate(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrEmptyPrompt)
	assert.Zero(t, llm.calls)
}

func TestGatewayModelOverride(t *testing.T) {
	llm := &fakeLLM{text: `{"fields":[]}`}
	g, err := NewGateway(llm, "gemini-2.5-flash", 0, zap.NewNop())
	require.NoError(t, err)

	schema, err := g.Generate(context.Background(), "empty form")
	require.NoError(t, err)
	assert.Empty(t, schema.Fields)
	assert.Equal(t, "gemini-2.5-flash", llm.opts.Model)
}
