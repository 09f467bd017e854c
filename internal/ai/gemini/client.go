// Package gemini implements the scoring provider interfaces on top of the
// Google GenAI API.
package gemini

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/parthshr370/IntHR/internal/ai"
)

const defaultModel = "gemini-2.5-pro"

// modelCaller is the slice of the GenAI client the generator uses, split out
// so tests can substitute a fake.
type modelCaller interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type cacheCreator interface {
	Create(ctx context.Context, model string, config *genai.CreateCachedContentConfig) (*genai.CachedContent, error)
}

// Config holds the generator settings. Timeout bounds each API call, not
// the whole retry sequence.
type Config struct {
	APIKey  string
	Model   string
	Timeout time.Duration
	Retry   ai.Policy
}

// Generator wraps the GenAI client with per-call timeouts, retry, and a
// cached-content store for requirement payloads reused across a batch.
type Generator struct {
	models    modelCaller
	caches    cacheCreator
	modelName string
	timeout   time.Duration
	policy    ai.Policy
	logger    *zap.Logger

	cacheMu  sync.Mutex
	reqCache map[string]cachedRequirement
}

type cachedRequirement struct {
	name string
	hash string
}

// NewGenerator creates a Generator against the Gemini API backend.
func NewGenerator(ctx context.Context, cfg Config, logger *zap.Logger) (*Generator, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaultModel
	}

	return &Generator{
		models:    client.Models,
		caches:    client.Caches,
		modelName: model,
		timeout:   cfg.Timeout,
		policy:    cfg.Retry,
		logger:    logger,
		reqCache:  make(map[string]cachedRequirement),
	}, nil
}

func (g *Generator) Model() string {
	if g == nil {
		return ""
	}
	return g.modelName
}

// GenerateContent sends the prompt and returns the concatenated textual
// response, retrying temporary failures per the configured policy.
func (g *Generator) GenerateContent(ctx context.Context, prompt string) (string, error) {
	return g.generate(ctx, prompt, nil)
}

// GenerateContentWithCache sends the prompt against a previously created
// cached-content resource.
func (g *Generator) GenerateContentWithCache(ctx context.Context, prompt, cacheName string) (string, error) {
	cacheName = strings.TrimSpace(cacheName)
	if cacheName == "" {
		return g.generate(ctx, prompt, nil)
	}
	return g.generate(ctx, prompt, &genai.GenerateContentConfig{CachedContent: cacheName})
}

// EnsureRequirementCache stores the requirement payload as cached content so
// batch runs send it once instead of once per candidate. Re-caching happens
// only when the payload changes.
func (g *Generator) EnsureRequirementCache(ctx context.Context, reqID, displayName, payload string) (string, error) {
	if g == nil || g.caches == nil {
		return "", errors.New("gemini generator is not initialized")
	}
	reqID = strings.TrimSpace(reqID)
	if reqID == "" {
		return "", errors.New("requirement id is required")
	}
	payload = strings.TrimSpace(payload)
	if payload == "" {
		return "", errors.New("requirement payload must not be empty")
	}

	hashBytes := sha256.Sum256([]byte(payload))
	hash := fmt.Sprintf("%x", hashBytes[:])

	g.cacheMu.Lock()
	defer g.cacheMu.Unlock()

	if existing, ok := g.reqCache[reqID]; ok && existing.hash == hash && existing.name != "" {
		g.logger.Debug("reusing requirement cache",
			zap.String("requirement_id", reqID),
			zap.String("cache_name", existing.name),
		)
		return existing.name, nil
	}

	if displayName = strings.TrimSpace(displayName); displayName == "" {
		displayName = fmt.Sprintf("requirement-%s", reqID)
	}

	cached, err := g.caches.Create(ctx, g.modelName, &genai.CreateCachedContentConfig{
		DisplayName: displayName,
		TTL:         24 * time.Hour,
		Contents: []*genai.Content{{
			Role:  genai.RoleUser,
			Parts: []*genai.Part{{Text: payload}},
		}},
	})
	if err != nil {
		return "", fmt.Errorf("create requirement cache: %w", err)
	}

	name := strings.TrimSpace(cached.Name)
	if name == "" {
		return "", errors.New("gemini api returned empty cache name")
	}
	g.reqCache[reqID] = cachedRequirement{name: name, hash: hash}

	g.logger.Debug("created requirement cache",
		zap.String("requirement_id", reqID),
		zap.String("cache_name", name),
	)

	return name, nil
}

func (g *Generator) generate(ctx context.Context, prompt string, config *genai.GenerateContentConfig) (string, error) {
	if g == nil || g.models == nil {
		return "", errors.New("gemini generator is not initialized")
	}
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", errors.New("prompt must not be empty")
	}

	var output string
	err := g.policy.Do(ctx, func(ctx context.Context) error {
		callCtx := ctx
		if g.timeout > 0 {
			var cancel context.CancelFunc
			callCtx, cancel = context.WithTimeout(ctx, g.timeout)
			defer cancel()
		}

		resp, err := g.models.GenerateContent(callCtx, g.modelName, genai.Text(prompt), config)
		if err != nil {
			return g.wrapError(ctx, err)
		}

		text := collectText(resp)
		if text == "" {
			return &ai.ServiceError{
				Provider:  "gemini",
				Err:       errors.New("empty response"),
				Temporary: true,
			}
		}
		output = text
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	return output, nil
}

// wrapError classifies an API failure. parentCtx distinguishes a per-call
// timeout, which is worth retrying, from the caller giving up.
func (g *Generator) wrapError(parentCtx context.Context, err error) error {
	if parentCtx.Err() != nil {
		return err
	}

	se := &ai.ServiceError{Provider: "gemini", Err: err}
	if errors.Is(err, context.DeadlineExceeded) {
		se.Timeout = true
		se.Temporary = true
		return se
	}

	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Code == http.StatusRequestTimeout,
			apiErr.Code == http.StatusTooManyRequests,
			apiErr.Code >= http.StatusInternalServerError:
			se.Temporary = true
		}
		return se
	}

	// Transport-level failures without an API status are worth a retry.
	se.Temporary = true
	return se
}

func collectText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			text := strings.TrimSpace(part.Text)
			if text == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString("\n")
			}
			builder.WriteString(text)
		}
	}
	return strings.TrimSpace(builder.String())
}
