package summarizer

import (
	"context"
	"fmt"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/ai/azopenai"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/rs/zerolog"
)

const (
	defaultTimeout    = 15 * time.Second
	defaultMaxBullets = 5
	maxOutputTokens   = 150
	temperature       = 0.3
)

// AzureConfig configures the Azure OpenAI backed summarizer.
type AzureConfig struct {
	Endpoint   string
	APIKey     string
	Deployment string
	Timeout    time.Duration
	MaxBullets int
}

// AzureClient summarizes through an Azure OpenAI chat deployment.
type AzureClient struct {
	client     *azopenai.Client
	deployment string
	timeout    time.Duration
	maxBullets int
	logger     zerolog.Logger
}

// NewAzureClient builds the client once; it is meant to be created at startup
// and injected wherever summaries are wanted.
func NewAzureClient(cfg AzureConfig, logger zerolog.Logger) (*AzureClient, error) {
	if cfg.Endpoint == "" || cfg.APIKey == "" || cfg.Deployment == "" {
		return nil, fmt.Errorf("%w: endpoint, api key and deployment are required", ErrUnavailable)
	}
	client, err := azopenai.NewClientWithKeyCredential(cfg.Endpoint, azcore.NewKeyCredential(cfg.APIKey), nil)
	if err != nil {
		return nil, fmt.Errorf("creating Azure OpenAI client: %w", err)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.MaxBullets <= 0 {
		cfg.MaxBullets = defaultMaxBullets
	}
	return &AzureClient{
		client:     client,
		deployment: cfg.Deployment,
		timeout:    cfg.Timeout,
		maxBullets: cfg.MaxBullets,
		logger:     logger.With().Str("component", "summarizer").Str("deployment", cfg.Deployment).Logger(),
	}, nil
}

func (c *AzureClient) Summarize(ctx context.Context, kind, text string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	resp, err := c.client.GetChatCompletions(ctx, azopenai.ChatCompletionsOptions{
		DeploymentName: to.Ptr(c.deployment),
		MaxTokens:      to.Ptr[int32](maxOutputTokens),
		Temperature:    to.Ptr[float32](temperature),
		Messages: []azopenai.ChatRequestMessageClassification{
			&azopenai.ChatRequestUserMessage{
				Content: azopenai.NewChatRequestUserMessageContent(Prompt(kind, text)),
			},
		},
	}, nil)
	if err != nil {
		c.logger.Debug().Err(err).Str("kind", kind).Msg("summary request failed")
		return "", fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message == nil || resp.Choices[0].Message.Content == nil {
		return "", fmt.Errorf("%w: empty completion", ErrUnavailable)
	}
	out := KeepBullets(*resp.Choices[0].Message.Content, c.maxBullets)
	if out == "" {
		return "", fmt.Errorf("%w: empty completion", ErrUnavailable)
	}
	c.logger.Debug().Str("kind", kind).Dur("took", time.Since(start)).Msg("summary received")
	return out, nil
}
