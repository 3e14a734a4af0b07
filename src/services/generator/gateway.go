// Package generator turns a free-text description into a form schema through a hosted language model.
package generator

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"Backend-FormGen/src/models"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

var (
	ErrEmptyPrompt         = errors.New("prompt is required")
	ErrUpstreamUnavailable = errors.New("AI service unavailable")
	ErrInvalidResponse     = errors.New("invalid response from AI")
)

//go:embed prompts/form_schema.yaml
var promptYAML []byte

// PromptTemplate is the fixed instruction placed in front of the user's request.
type PromptTemplate struct {
	Version         string  `yaml:"version"`
	Model           string  `yaml:"model"`
	Temperature     float32 `yaml:"temperature"`
	MaxOutputTokens int32   `yaml:"max_output_tokens"`
	System          string  `yaml:"system"`
}

// LoadPromptTemplate parses the embedded template.
func LoadPromptTemplate() (*PromptTemplate, error) {
	var t PromptTemplate
	if err := yaml.Unmarshal(promptYAML, &t); err != nil {
		return nil, fmt.Errorf("parse prompt template: %w", err)
	}
	if t.System == "" || t.Model == "" {
		return nil, errors.New("prompt template is missing system text or model")
	}
	return &t, nil
}

// Request renders the full text sent upstream for prompt.
func (t *PromptTemplate) Request(prompt string) string {
	return t.System + "\n\nUser request: " + prompt
}

// GenerateOptions are the sampling settings of one request.
type GenerateOptions struct {
	Model           string
	Temperature     float32
	MaxOutputTokens int32
}

// TextGenerator is the hosted model. An error means the call itself failed.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string, opts GenerateOptions) (string, error)
}

// Gateway wraps a TextGenerator with the instruction template and response parsing.
type Gateway struct {
	llm      TextGenerator
	tmpl     *PromptTemplate
	model    string
	timeout  time.Duration
	validate *validator.Validate
	log      *zap.Logger
}

// NewGateway builds a gateway. model overrides the template's model when set; timeout 0 means none.
func NewGateway(llm TextGenerator, model string, timeout time.Duration, log *zap.Logger) (*Gateway, error) {
	tmpl, err := LoadPromptTemplate()
	if err != nil {
		return nil, err
	}
	if model == "" {
		model = tmpl.Model
	}
	return &Gateway{
		llm:      llm,
		tmpl:     tmpl,
		model:    model,
		timeout:  timeout,
		validate: validator.New(),
		log:      log,
	}, nil
}

// Generate asks the model for a schema. It makes exactly one upstream call.
// Field ids are returned as the model wrote them.
func (g *Gateway) Generate(ctx context.Context, prompt string) (*models.Schema, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, ErrEmptyPrompt
	}
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	start := time.Now()
	text, err := g.llm.GenerateText(ctx, g.tmpl.Request(prompt), GenerateOptions{
		Model:           g.model,
		Temperature:     g.tmpl.Temperature,
		MaxOutputTokens: g.tmpl.MaxOutputTokens,
	})
	if err != nil {
		g.log.Warn("schema generation failed upstream", zap.Error(err), zap.Duration("took", time.Since(start)))
		return nil, fmt.Errorf("%w: %s", ErrUpstreamUnavailable, err.Error())
	}

	schema, err := g.parse(text)
	if err != nil {
		g.log.Warn("schema generation returned unusable text", zap.Error(err), zap.Int("length", len(text)))
		return nil, err
	}
	g.log.Info("schema generated",
		zap.String("template", g.tmpl.Version),
		zap.Int("fields", len(schema.Fields)),
		zap.Duration("took", time.Since(start)))
	return schema, nil
}

var jsonObject = regexp.MustCompile(`(?s)\{.*\}`)

// parse takes the outermost {...} span of text and checks it has the schema shape.
func (g *Gateway) parse(text string) (*models.Schema, error) {
	span := jsonObject.FindString(text)
	if span == "" {
		return nil, fmt.Errorf("%w: no JSON object in response", ErrInvalidResponse)
	}

	var schema models.Schema
	if err := json.Unmarshal([]byte(span), &schema); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	if err := g.validate.Struct(schema); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidResponse, shapeProblem(err))
	}
	return &schema, nil
}

func shapeProblem(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fe.Namespace()+" is "+fe.Tag())
	}
	return strings.Join(parts, ", ")
}
