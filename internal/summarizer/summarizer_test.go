package summarizer

import (
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoop(t *testing.T) {
	t.Parallel()

	out, err := Noop{}.Summarize(context.Background(), KindExplainIssue, "x")

	require.ErrorIs(t, err, ErrUnavailable)
	assert.Empty(t, out)
}

func TestKeepBullets(t *testing.T) {
	t.Parallel()

	text := "\n- one\n\n- two\n- three\n  - four  \n- five\n- six\n"

	assert.Equal(t, "- one\n- two\n- three\n- four\n- five", KeepBullets(text, 5))
	assert.Equal(t, "- one", KeepBullets(text, 1))
	assert.Empty(t, KeepBullets("  \n ", 5))
}

func TestPrompt_TruncatesContext(t *testing.T) {
	t.Parallel()

	code := strings.Repeat("x", 800)

	p := Prompt(KindSummarizeOptimization, code)
	assert.Contains(t, p, strings.Repeat("x", codeContextLimit)+"...")
	assert.NotContains(t, p, strings.Repeat("x", codeContextLimit+1))
	assert.Contains(t, p, "bullet points")

	p = Prompt(KindSuggestImprovement, code)
	assert.NotContains(t, p, strings.Repeat("x", textContextLimit+1))

	assert.Contains(t, Prompt("unknown", "short"), "Explain this code issue")
}

func TestNewAzureClient_RequiresSettings(t *testing.T) {
	t.Parallel()

	_, err := NewAzureClient(AzureConfig{Endpoint: "https://example.openai.azure.com"}, zerolog.Nop())

	require.ErrorIs(t, err, ErrUnavailable)
}

func TestNewAzureClient_Defaults(t *testing.T) {
	t.Parallel()

	c, err := NewAzureClient(AzureConfig{
		Endpoint:   "https://example.openai.azure.com",
		APIKey:     "key",
		Deployment: "gpt-4o-mini",
	}, zerolog.Nop())

	require.NoError(t, err)
	assert.Equal(t, defaultTimeout, c.timeout)
	assert.Equal(t, defaultMaxBullets, c.maxBullets)
}
