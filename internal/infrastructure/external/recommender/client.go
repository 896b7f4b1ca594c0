// Package recommender implements the AI skill-match recommendation client.
// It talks to an OpenAI-compatible endpoint and normalizes the model output
// into the canonical recommendation schema. The deterministic matcher never
// depends on this package; recommendations are an additive surface.
package recommender

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/match"
	"github.com/skillswap-hub/skillswap-community-hub/internal/domain/shared"
	"github.com/skillswap-hub/skillswap-community-hub/pkg/circuitbreaker"
	"github.com/skillswap-hub/skillswap-community-hub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// CONFIGURATION
// ══════════════════════════════════════════════════════════════════════════════

// ClientConfig contains configuration for the recommendation client.
type ClientConfig struct {
	// BaseURL is the OpenAI-compatible API base URL (empty for api.openai.com).
	BaseURL string

	// APIKey authenticates against the endpoint.
	APIKey string

	// Model is the model identifier to request.
	Model string

	// RequestTimeout bounds a single recommendation call.
	RequestTimeout time.Duration

	// Temperature controls response variability.
	Temperature float32

	// RateLimiterConfig throttles outgoing calls.
	RateLimiterConfig RateLimiterConfig

	// Logger for structured logging.
	Logger *logger.Logger
}

// DefaultClientConfig returns sensible defaults.
func DefaultClientConfig(apiKey string) ClientConfig {
	return ClientConfig{
		APIKey:            apiKey,
		Model:             openai.GPT4oMini,
		RequestTimeout:    30 * time.Second,
		Temperature:       0.7,
		RateLimiterConfig: DefaultRateLimiterConfig(),
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// CLIENT
// ══════════════════════════════════════════════════════════════════════════════

// Client is the AI recommendation client. It wraps the model call with a
// rate limiter and a circuit breaker; the model call itself is never
// retried, a failed recommendation degrades to the deterministic matcher.
type Client struct {
	api     *openai.Client
	config  ClientConfig
	limiter *RateLimiter
	breaker *circuitbreaker.CircuitBreaker
	log     *logger.Logger
}

var _ match.Recommender = (*Client)(nil)

// NewClient creates a new recommendation client.
func NewClient(config ClientConfig) *Client {
	if config.Logger == nil {
		config.Logger = logger.Default()
	}
	if config.Model == "" {
		config.Model = openai.GPT4oMini
	}
	if config.RequestTimeout <= 0 {
		config.RequestTimeout = 30 * time.Second
	}

	apiConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		apiConfig.BaseURL = config.BaseURL
	}

	return &Client{
		api:     openai.NewClientWithConfig(apiConfig),
		config:  config,
		limiter: NewRateLimiter(config.RateLimiterConfig),
		breaker: circuitbreaker.New("recommender"),
		log:     config.Logger.With(logger.Component("recommender")),
	}
}

// Recommend asks the model for skill-match recommendations. All transport,
// model and parse failures collapse into the recommender error category;
// the distinct cause is only logged.
func (c *Client) Recommend(ctx context.Context, skillName string, profiles []match.CommunityProfile) ([]match.RecommendedMatch, error) {
	if err := c.limiter.Allow(ctx); err != nil {
		c.log.Warn("recommendation rate limited", logger.SkillID(skillName))
		return nil, shared.ErrRecommenderUnavailable
	}

	ctx, cancel := context.WithTimeout(ctx, c.config.RequestTimeout)
	defer cancel()

	var matches []match.RecommendedMatch
	err := c.breaker.Execute(ctx, func(ctx context.Context) error {
		var callErr error
		matches, callErr = c.requestRecommendations(ctx, skillName, profiles)
		return callErr
	})
	if err != nil {
		return nil, c.classifyFailure(err, skillName)
	}
	return matches, nil
}

func (c *Client) requestRecommendations(ctx context.Context, skillName string, profiles []match.CommunityProfile) ([]match.RecommendedMatch, error) {
	prompt, err := buildPrompt(skillName, profiles)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.config.Model,
		Temperature: c.config.Temperature,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return nil, err
	}

	if len(resp.Choices) == 0 {
		return nil, errors.New("recommender: empty completion")
	}

	matches, err := normalizeResponse(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}

	c.log.Info("recommendations received",
		logger.SkillID(skillName),
		logger.Int("matches", len(matches)),
		logger.Latency(time.Since(start)),
	)
	return matches, nil
}

// classifyFailure maps an internal failure onto the recommender error
// category exposed to callers.
func (c *Client) classifyFailure(err error, skillName string) error {
	c.log.Error("recommendation failed", logger.SkillID(skillName), logger.Err(err))

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return shared.ErrRecommenderTimeout
	case errors.Is(err, errMalformedResponse):
		return shared.ErrRecommenderInvalidResponse
	default:
		return shared.ErrRecommenderUnavailable
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// PROMPT
// ══════════════════════════════════════════════════════════════════════════════

const systemPrompt = `You are an AI assistant designed to recommend skill matches in a community skill exchange platform.
Respond with a JSON object of the form {"recommendedMatches": [{"name": string, "location": string, "skillsOffered": [string], "rationale": string}]}.`

func buildPrompt(skillName string, profiles []match.CommunityProfile) (string, error) {
	if profiles == nil {
		profiles = []match.CommunityProfile{}
	}

	serialized, err := json.Marshal(profiles)
	if err != nil {
		return "", fmt.Errorf("recommender: serialize profiles: %w", err)
	}

	return fmt.Sprintf(`A user wants to learn the following skill: '%s'.

Based on the list of community user profiles provided below, identify users who offer this skill.

Community Profiles (JSON):
%s

Analyze the profiles and provide a list of recommended matches. For each match, include a brief, friendly, and encouraging explanation of why they are a good fit. For example, mention their other related skills or simply state they are a great person to learn from.`,
		skillName, serialized), nil
}
