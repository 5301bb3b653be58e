package analyzer

import (
	"context"
	"errors"
	"testing"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChat struct {
	reply string
	err   error
}

func (f *fakeChat) New(_ context.Context, _ openai.ChatCompletionNewParams, _ ...option.RequestOption) (*openai.ChatCompletion, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &openai.ChatCompletion{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: f.reply}},
		},
	}, nil
}

func TestParseAssessment(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{
			name: "plain json",
			raw:  `{"summary":"Classic advance-fee scam.","riskLevel":"high","warningSigns":["upfront payment"]}`,
		},
		{
			name: "fenced json",
			raw:  "```json\n{\"summary\":\"Phishing.\",\"riskLevel\":\"medium\",\"warningSigns\":[]}\n```",
		},
		{
			name: "bare fence",
			raw:  "```\n{\"summary\":\"Phishing.\",\"riskLevel\":\"low\",\"warningSigns\":[]}\n```",
		},
		{name: "not json", raw: "It looks risky to me.", wantErr: true},
		{name: "missing summary", raw: `{"riskLevel":"high"}`, wantErr: true},
		{name: "unknown risk", raw: `{"summary":"x","riskLevel":"severe"}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := parseAssessment(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, a)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, a.Summary)
		})
	}
}

func TestAnalyzeShortDescriptionRejected(t *testing.T) {
	a := &Analyzer{chat: &fakeChat{}, enabled: true}

	res, err := a.Analyze(context.Background(), "too short", "Phishing")
	assert.Error(t, err)
	assert.Nil(t, res)
}

func TestNewWithKeyIsEnabled(t *testing.T) {
	a := New("test-key", "gpt-4o-mini")
	assert.True(t, a.Enabled())
	assert.NotNil(t, a.chat, "the SDK completion service must satisfy chatClient")
}

func TestAnalyzeDisabled(t *testing.T) {
	a := New("", "gpt-4o-mini")
	assert.False(t, a.Enabled())

	res, err := a.Analyze(context.Background(), "a perfectly long enough description", "Phishing")
	assert.Error(t, err)
	assert.Nil(t, res)
}

func TestAnalyzeHappyPath(t *testing.T) {
	a := &Analyzer{
		chat:    &fakeChat{reply: `{"summary":"Fake recovery agents charge fees and vanish.","riskLevel":"critical","warningSigns":["upfront fee","guaranteed recovery"]}`},
		enabled: true,
	}

	res, err := a.Analyze(context.Background(), "They promised to recover my lost crypto for a fee.", "Cryptocurrency")
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, "critical", res.RiskLevel)
	assert.Len(t, res.WarningSigns, 2)
}

func TestAnalyzeTransportFailure(t *testing.T) {
	a := &Analyzer{chat: &fakeChat{err: errors.New("timeout")}, enabled: true}

	res, err := a.Analyze(context.Background(), "a perfectly long enough description", "Phishing")
	assert.Error(t, err)
	assert.Nil(t, res)
}
