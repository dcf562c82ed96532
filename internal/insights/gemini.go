package insights

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/sadopc/focusflow/internal/store"
)

const (
	DefaultEndpoint   = "https://generativelanguage.googleapis.com/"
	DefaultAPIVersion = "v1beta"
	DefaultModel      = "gemini-3-flash-preview"
	DefaultTimeout    = 30 * time.Second
)

// Gemini asks the Gemini API for a structured JSON analysis.
type Gemini struct {
	APIKey     string
	Model      string
	Endpoint   string
	APIVersion string
	HTTP       *http.Client
	Logger     *slog.Logger
}

func NewGemini(apiKey, model, endpoint string, timeout time.Duration) *Gemini {
	if model == "" {
		model = DefaultModel
	}
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Gemini{
		APIKey:     apiKey,
		Model:      model,
		Endpoint:   endpoint,
		APIVersion: DefaultAPIVersion,
		HTTP:       &http.Client{Timeout: timeout},
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// pairs holds strengths and improvements to exactly two items.
var pairs = genai.Ptr[int64](2)

var analysisSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"summary": {Type: genai.TypeString, Description: "An encouraging summary of the study patterns (max 2 sentences)."},
		"strengths": {
			Type:        genai.TypeArray,
			Items:       &genai.Schema{Type: genai.TypeString},
			MinItems:    pairs,
			MaxItems:    pairs,
			Description: "2 key strengths observed (e.g., consistency on weekends).",
		},
		"improvements": {
			Type:        genai.TypeArray,
			Items:       &genai.Schema{Type: genai.TypeString},
			MinItems:    pairs,
			MaxItems:    pairs,
			Description: "2 areas for improvement (e.g., skipping Mondays).",
		},
		"tip": {Type: genai.TypeString, Description: "One actionable productivity tip based on the data."},
	},
	Required: []string{"summary", "strengths", "improvements", "tip"},
}

func (g *Gemini) client(ctx context.Context) (*genai.Client, error) {
	return genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     g.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: g.HTTP,
		HTTPOptions: genai.HTTPOptions{
			BaseURL:    g.Endpoint,
			APIVersion: g.APIVersion,
		},
	})
}

// Analyze sends the most recent records and decodes the model's reply.
// There are no retries.
func (g *Gemini) Analyze(ctx context.Context, logs []store.StudyLog) (Analysis, error) {
	if g.APIKey == "" {
		return Analysis{}, fmt.Errorf("%w: API key is missing", ErrUnavailable)
	}

	c, err := g.client(ctx)
	if err != nil {
		return Analysis{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	start := time.Now()
	resp, err := c.Models.GenerateContent(ctx, g.Model, genai.Text(Prompt(logs)), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   analysisSchema,
	})
	if err != nil {
		g.Logger.Warn("insights request failed", "err", err)
		return Analysis{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	g.Logger.Info("insights response", "records", len(Window(logs, WindowSize)), "took", time.Since(start))

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return Analysis{}, fmt.Errorf("%w: empty response", ErrUnavailable)
	}

	var a Analysis
	if err := json.Unmarshal([]byte(text), &a); err != nil {
		return Analysis{}, fmt.Errorf("%w: malformed analysis: %v", ErrUnavailable, err)
	}
	if len(a.Strengths) < 2 || len(a.Improvements) < 2 {
		return Analysis{}, fmt.Errorf("%w: malformed analysis: want 2 strengths and 2 improvements, got %d and %d",
			ErrUnavailable, len(a.Strengths), len(a.Improvements))
	}
	a.Strengths = a.Strengths[:2]
	a.Improvements = a.Improvements[:2]
	return a, nil
}
