package service

import (
	"context"
	"fmt"

	"doc-qa-be/internal/dto"
	"doc-qa-be/internal/pkg/apperror"
	"doc-qa-be/pkg/llm"
)

const interpreterTemperature = 0.7

var interpreterTones = map[string]string{
	"insightful": "Provide deep, thoughtful analysis",
	"supportive": "Be warm, encouraging, and validating",
	"analytical": "Be logical, structured, and objective",
	"creative":   "Be imaginative and explore possibilities",
	"direct":     "Be concise and straightforward",
}

var interpreterStyles = map[string]string{
	"concise":       "Keep responses brief and focused",
	"detailed":      "Provide thorough explanations",
	"bullet_points": "Use bullet points for clarity",
	"narrative":     "Use flowing, narrative prose",
}

type IInterpreterService interface {
	Interpret(ctx context.Context, req *dto.InterpretRequest) (*dto.InterpretResponse, error)
}

type interpreterService struct {
	llmProvider llm.Provider
}

func NewInterpreterService(llmProvider llm.Provider) IInterpreterService {
	return &interpreterService{
		llmProvider: llmProvider,
	}
}

func (s *interpreterService) Interpret(ctx context.Context, req *dto.InterpretRequest) (*dto.InterpretResponse, error) {
	tone := req.Tone
	if tone == "" {
		tone = "insightful"
	}
	style := req.Style
	if style == "" {
		style = "concise"
	}

	history := []llm.Message{
		{Role: "system", Content: buildInterpreterSystemPrompt(tone, style)},
		{Role: "user", Content: buildInterpreterUserPrompt(req.Input, req.Context)},
	}

	interpretation, err := s.llmProvider.Chat(ctx, history, llm.WithTemperature(interpreterTemperature))
	if err != nil {
		return nil, apperror.Upstream("generation service unavailable", err)
	}

	return &dto.InterpretResponse{
		Interpretation: interpretation,
		Tone:           tone,
		Style:          style,
	}, nil
}

func buildInterpreterSystemPrompt(tone, style string) string {
	toneInstruction, ok := interpreterTones[tone]
	if !ok {
		toneInstruction = interpreterTones["insightful"]
	}
	styleInstruction, ok := interpreterStyles[style]
	if !ok {
		styleInstruction = interpreterStyles["concise"]
	}

	return fmt.Sprintf(`You are an interpreter that helps users understand and explore their thoughts, ideas, and experiences.

Tone: %s
Style: %s

Provide meaningful interpretation that helps the user gain clarity and insight.`, toneInstruction, styleInstruction)
}

func buildInterpreterUserPrompt(input, context string) string {
	if context != "" {
		return fmt.Sprintf("Context: %s\n\nInterpret this: %s", context, input)
	}
	return fmt.Sprintf("Interpret this: %s", input)
}
