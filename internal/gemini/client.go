package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"google.golang.org/genai"

	"github.com/park285/grandtalk-server-go/internal/config"
	"github.com/park285/grandtalk-server-go/internal/llm"
	"github.com/park285/grandtalk-server-go/internal/metrics"
	"github.com/park285/grandtalk-server-go/internal/telemetry"
	"github.com/park285/grandtalk-server-go/internal/usage"
)

var (
	// ErrMissingAPIKey 는 Gemini API 키가 없을 때 반환된다.
	ErrMissingAPIKey = errors.New("missing gemini api key")
	// ErrInvalidModel 는 모델이 지정되지 않았을 때 반환된다.
	ErrInvalidModel = errors.New("invalid model")
	// ErrEmptyResponse 는 응답에 텍스트 파트가 없을 때 반환된다.
	ErrEmptyResponse = errors.New("empty model response")
)

// Request 는 Gemini 요청 데이터다.
// ResponseSchema 는 JSON Schema 객체이며 ResponseMIMEType 이 application/json 일 때만 의미가 있다.
type Request struct {
	Prompt           string
	Model            string
	ResponseMIMEType string
	ResponseSchema   map[string]any
}

// contentGenerator 는 genai.Models 의 GenerateContent 시그니처다.
type contentGenerator interface {
	GenerateContent(
		ctx context.Context,
		model string,
		contents []*genai.Content,
		config *genai.GenerateContentConfig,
	) (*genai.GenerateContentResponse, error)
}

type generatorFactory func(ctx context.Context, apiKey string, timeout time.Duration) (contentGenerator, error)

// Client 는 Gemini 호출을 담당한다. API 키가 여러 개면 라운드로빈으로 사용한다.
type Client struct {
	cfg           config.GeminiConfig
	metrics       *metrics.Store
	usageRecorder *usage.Recorder
	newGenerator  generatorFactory
	mu            sync.Mutex
	generators    map[string]contentGenerator
	apiKeyIdx     int
}

// NewClient 는 Gemini 클라이언트를 생성한다.
func NewClient(cfg *config.Config, metricsStore *metrics.Store, usageRecorder *usage.Recorder) (*Client, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if metricsStore == nil {
		return nil, errors.New("metrics store is nil")
	}
	return &Client{
		cfg:           cfg.Gemini,
		metrics:       metricsStore,
		usageRecorder: usageRecorder,
		newGenerator:  newGenAIGenerator,
		generators:    make(map[string]contentGenerator),
	}, nil
}

func newGenAIGenerator(ctx context.Context, apiKey string, timeout time.Duration) (contentGenerator, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{
			Timeout: genai.Ptr(timeout),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return client.Models, nil
}

// Configured 는 API 키가 하나 이상 설정되어 있는지 반환한다.
func (c *Client) Configured() bool {
	return c != nil && len(c.cfg.APIKeys) > 0
}

// Model 은 기본 모델 이름을 반환한다.
func (c *Client) Model() string {
	return c.cfg.Model
}

// Generate 는 프롬프트를 보내고 텍스트 응답과 사용량을 반환한다.
func (c *Client) Generate(ctx context.Context, req Request) (llm.GenerateResult, error) {
	model := strings.TrimSpace(req.Model)
	if model == "" {
		model = c.cfg.Model
	}

	ctx, span := telemetry.Tracer().Start(ctx, "gemini.generate")
	defer span.End()
	span.SetAttributes(
		attribute.String("gemini.model", model),
		attribute.Int("gemini.prompt_chars", len([]rune(req.Prompt))),
	)

	start := time.Now()
	response, err := c.generate(ctx, model, req)
	if err != nil {
		c.metrics.RecordError(time.Since(start))
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return llm.GenerateResult{Model: model}, err
	}

	u := extractUsage(response)
	c.metrics.RecordSuccess(time.Since(start), u)
	c.usageRecorder.Record(context.WithoutCancel(ctx), u)
	span.SetAttributes(
		attribute.Int("gemini.input_tokens", u.InputTokens),
		attribute.Int("gemini.output_tokens", u.OutputTokens),
	)

	textParts, thoughtParts := extractParts(response)
	span.SetAttributes(attribute.Int("gemini.thought_parts", len(thoughtParts)))
	result := llm.GenerateResult{Model: model, Usage: u, ThoughtParts: len(thoughtParts)}
	text := strings.Join(textParts, "")
	if strings.TrimSpace(text) == "" {
		span.SetStatus(codes.Error, ErrEmptyResponse.Error())
		return result, ErrEmptyResponse
	}

	result.Text = text
	return result, nil
}

func (c *Client) generate(ctx context.Context, model string, req Request) (*genai.GenerateContentResponse, error) {
	if model == "" {
		return nil, ErrInvalidModel
	}
	generator, err := c.selectGenerator(ctx)
	if err != nil {
		return nil, err
	}

	contents := []*genai.Content{genai.NewContentFromText(req.Prompt, genai.RoleUser)}
	response, err := generator.GenerateContent(ctx, model, contents, c.buildGenerateConfig(req.ResponseMIMEType, req.ResponseSchema))
	if err != nil {
		return nil, fmt.Errorf("generate content: %w", err)
	}
	return response, nil
}

func (c *Client) selectGenerator(ctx context.Context) (contentGenerator, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.cfg.APIKeys) == 0 {
		return nil, ErrMissingAPIKey
	}

	key := c.cfg.APIKeys[c.apiKeyIdx%len(c.cfg.APIKeys)]
	c.apiKeyIdx++
	if generator, ok := c.generators[key]; ok {
		return generator, nil
	}

	timeout := time.Duration(c.cfg.TimeoutSeconds) * time.Second
	generator, err := c.newGenerator(context.WithoutCancel(ctx), key, timeout)
	if err != nil {
		return nil, err
	}
	c.generators[key] = generator
	return generator, nil
}

func (c *Client) buildGenerateConfig(responseMIMEType string, responseSchema map[string]any) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(c.cfg.Temperature)),
	}
	if c.cfg.MaxOutputTokens > 0 {
		cfg.MaxOutputTokens = int32(c.cfg.MaxOutputTokens)
	}
	if responseMIMEType != "" {
		cfg.ResponseMIMEType = responseMIMEType
	}
	if responseSchema != nil {
		cfg.ResponseJsonSchema = responseSchema
	}
	return cfg
}

func extractParts(response *genai.GenerateContentResponse) ([]string, []string) {
	if response == nil || len(response.Candidates) == 0 || response.Candidates[0] == nil {
		return nil, nil
	}
	content := response.Candidates[0].Content
	if content == nil || len(content.Parts) == 0 {
		return nil, nil
	}

	texts := make([]string, 0, len(content.Parts))
	thoughts := make([]string, 0)
	for _, part := range content.Parts {
		if part == nil || part.Text == "" {
			continue
		}
		if part.Thought {
			thoughts = append(thoughts, part.Text)
			continue
		}
		texts = append(texts, part.Text)
	}
	return texts, thoughts
}

func extractUsage(response *genai.GenerateContentResponse) llm.Usage {
	if response == nil || response.UsageMetadata == nil {
		return llm.Usage{}
	}
	meta := response.UsageMetadata
	return llm.Usage{
		InputTokens:     int(meta.PromptTokenCount),
		OutputTokens:    int(meta.CandidatesTokenCount) + int(meta.ThoughtsTokenCount),
		TotalTokens:     int(meta.TotalTokenCount),
		ReasoningTokens: int(meta.ThoughtsTokenCount),
		CachedTokens:    int(meta.CachedContentTokenCount),
	}
}
