// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package analyzer asks a language model to assess a scam description.
// The assessment is enrichment only: every failure path returns a nil
// result and the submission proceeds without it.
package analyzer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/olegiv/sotorko-go/internal/model"
)

// MinDescriptionLen is the shortest description worth sending out.
const MinDescriptionLen = 20

const systemPrompt = `You are a scam analysis assistant for a community scam-report database.
Given a scam description and category, respond with a JSON object only, no prose:
{"summary": "<2-3 sentence risk summary>", "riskLevel": "low|medium|high|critical", "warningSigns": ["<sign>", ...]}`

// Assessment is the model's verdict on a description.
type Assessment struct {
	Summary      string   `json:"summary"`
	RiskLevel    string   `json:"riskLevel"`
	WarningSigns []string `json:"warningSigns"`
}

// chatClient is the slice of the OpenAI client the analyzer needs.
type chatClient interface {
	New(ctx context.Context, params openai.ChatCompletionNewParams, opts ...option.RequestOption) (*openai.ChatCompletion, error)
}

// Analyzer wraps the OpenAI chat API. A zero API key disables it.
type Analyzer struct {
	chat    chatClient
	model   string
	enabled bool
}

// New creates an Analyzer. With an empty API key the analyzer is disabled
// and Analyze always reports ErrDisabled.
func New(apiKey, modelName string) *Analyzer {
	if apiKey == "" {
		return &Analyzer{}
	}
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &Analyzer{chat: &client.Chat.Completions, model: modelName, enabled: true}
}

// Enabled reports whether an API key was configured.
func (a *Analyzer) Enabled() bool { return a.enabled }

// Analyze assesses the description. It returns (nil, err) on every failure;
// callers treat that as "no assessment" and continue.
func (a *Analyzer) Analyze(ctx context.Context, description, category string) (*Assessment, error) {
	if !a.enabled {
		return nil, fmt.Errorf("analyzer disabled: no API key")
	}
	if len(strings.TrimSpace(description)) < MinDescriptionLen {
		return nil, fmt.Errorf("description too short for analysis (min %d chars)", MinDescriptionLen)
	}

	userPrompt := fmt.Sprintf("Category: %s\n\nDescription:\n%s", category, description)

	resp, err := a.chat.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(a.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(userPrompt),
		},
	})
	if err != nil {
		slog.Error("analysis request failed", "error", err)
		return nil, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("chat completion: no choices returned")
	}

	assessment, err := parseAssessment(resp.Choices[0].Message.Content)
	if err != nil {
		slog.Error("analysis reply rejected", "error", err)
		return nil, err
	}
	return assessment, nil
}

// parseAssessment decodes the model reply, tolerating markdown code fences
// around the JSON.
func parseAssessment(raw string) (*Assessment, error) {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
		s = strings.TrimSpace(s)
	}

	var a Assessment
	if err := json.Unmarshal([]byte(s), &a); err != nil {
		return nil, fmt.Errorf("decoding assessment: %w", err)
	}
	if a.Summary == "" {
		return nil, fmt.Errorf("assessment missing summary")
	}
	if !model.IsValidRiskLevel(a.RiskLevel) {
		return nil, fmt.Errorf("unknown risk level %q", a.RiskLevel)
	}
	return &a, nil
}
