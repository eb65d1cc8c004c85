package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"support-chat/internal/domain"
	"support-chat/internal/llm"
)

// Scenario es una conversación de prueba y lo que se espera del asistente.
type Scenario struct {
	Name           string
	History        []domain.Message
	Expected       string
	ExpectRedirect bool
}

// judgeResponse es la evaluación estructurada que devuelve el juez.
type judgeResponse struct {
	Reasoning        string
	HelpfulnessScore int
	ScopeScore       int
	FormatScore      int
}

func evaluateReply(ctx context.Context, judge llm.LLMClient, sc Scenario, reply string) (judgeResponse, error) {
	leak := detectTranscriptLeak(reply)
	redirect := detectRedirect(reply)

	heuristicLine := fmt.Sprintf(
		"Heuristics: transcript_leak=%t, redirected_to_support=%t, redirect_expected=%t",
		leak, redirect, sc.ExpectRedirect,
	)
	prompt := buildJudgePrompt(formatHistory(sc.History), reply, sc.Expected, heuristicLine)

	raw, err := judge.Generate(ctx, prompt)
	if err != nil {
		return judgeResponse{}, err
	}

	jsonStr := extractFirstJSONObject(raw)
	if jsonStr == "" || !gjson.Valid(jsonStr) {
		return judgeResponse{}, fmt.Errorf("judge returned non-json: %q", raw)
	}
	res := gjson.Parse(jsonStr)
	jr := judgeResponse{
		Reasoning:        res.Get("reasoning").String(),
		HelpfulnessScore: clamp1to5(int(res.Get("helpfulness_score").Int())),
		ScopeScore:       clamp1to5(int(res.Get("scope_score").Int())),
		FormatScore:      clamp1to5(int(res.Get("format_score").Int())),
	}

	// si el modelo siguió escribiendo turnos, el formato no puede pasar de 2
	if leak && jr.FormatScore > 2 {
		jr.FormatScore = 2
	}
	if sc.ExpectRedirect && !redirect && jr.ScopeScore > 3 {
		jr.ScopeScore = 3
	}
	return jr, nil
}

func clamp1to5(v int) int {
	if v < 1 {
		return 1
	}
	if v > 5 {
		return 5
	}
	return v
}

func formatHistory(history []domain.Message) string {
	lines := make([]string, 0, len(history))
	for _, m := range history {
		lines = append(lines, fmt.Sprintf("%s: %s", m.Role, m.Content))
	}
	return strings.Join(lines, "\n")
}

// detectTranscriptLeak reporta respuestas que continúan la transcripción con turnos etiquetados.
func detectTranscriptLeak(reply string) bool {
	for _, line := range strings.Split(reply, "\n") {
		l := strings.ToLower(strings.TrimSpace(line))
		if strings.HasPrefix(l, "user:") || strings.HasPrefix(l, "assistant:") {
			return true
		}
	}
	return false
}

func detectRedirect(reply string) bool {
	l := strings.ToLower(reply)
	signals := []string{
		"customer support",
		"i can only help",
		"i'm only able to help",
		"i can't help with that",
		"outside of what i can help",
		"support-related",
	}
	for _, s := range signals {
		if strings.Contains(l, s) {
			return true
		}
	}
	return false
}

func buildJudgePrompt(history, reply, expected, heuristicLine string) string {
	return fmt.Sprintf(
		`You are an expert reviewer grading a customer support assistant.

Conversation so far:
%s

Assistant reply: %q
Scenario expectation: %s
%s

Score each dimension from 1 to 5:
1) Helpfulness: does the reply move the customer's issue forward?
2) Scope: does it stay on customer support and redirect off-topic requests?
3) Format: plain reply text only, no role labels and no invented extra turns.
   - If transcript_leak=true, Format is at most 2.

Reply with JSON only (no markdown):
{
  "reasoning": "...",
  "helpfulness_score": 0,
  "scope_score": 0,
  "format_score": 0
}`,
		history, reply, expected, heuristicLine,
	)
}

// extractFirstJSONObject devuelve el primer objeto {...} balanceado, respetando strings.
func extractFirstJSONObject(input string) string {
	start := strings.IndexByte(input, '{')
	if start == -1 {
		return ""
	}

	inString := false
	escape := false
	depth := 0

	for i := start; i < len(input); i++ {
		ch := input[i]

		if inString {
			if escape {
				escape = false
				continue
			}
			if ch == '\\' {
				escape = true
				continue
			}
			if ch == '"' {
				inString = false
			}
			continue
		}

		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return input[start : i+1]
			}
		}
	}
	return ""
}
