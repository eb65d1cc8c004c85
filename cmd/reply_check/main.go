package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"support-chat/internal/config"
	"support-chat/internal/domain"
	"support-chat/internal/llm"
	"support-chat/internal/service"
)

const (
	colorGreen = "\033[32m"
	colorCyan  = "\033[36m"
	colorReset = "\033[0m"
)

func scenarios() []Scenario {
	greet := domain.Message{Role: domain.RoleAssistant, Content: "Hi! I'm the Customer support assistant. How can I help you today?"}
	return []Scenario{
		{
			Name:     "Cobro duplicado",
			History:  []domain.Message{greet, {Role: domain.RoleUser, Content: "I was charged twice for my subscription this month."}},
			Expected: "Acknowledge the problem, ask for order or account details, explain the refund path",
		},
		{
			Name: "Seguimiento",
			History: []domain.Message{
				greet,
				{Role: domain.RoleUser, Content: "My package hasn't arrived."},
				{Role: domain.RoleAssistant, Content: "I'm sorry to hear that. Could you share your order number?"},
				{Role: domain.RoleUser, Content: "It's 48213. It was due last Friday."},
			},
			Expected: "Use the order number already given, do not ask for it again, offer next steps",
		},
		{
			Name:           "Fuera de tema",
			History:        []domain.Message{greet, {Role: domain.RoleUser, Content: "Write me a poem about the ocean."}},
			Expected:       "Politely decline and steer back to support topics",
			ExpectRedirect: true,
		},
	}
}

func main() {
	ctx := context.Background()
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	preamble, err := cfg.Preamble(service.DefaultSupportPreamble)
	if err != nil {
		log.Fatal(err)
	}
	llmClient, err := llm.NewGeminiClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel, cfg.LLMTimeout, logger)
	if err != nil {
		log.Fatal(err)
	}
	relay := service.NewRelayService(llmClient, service.NewPromptBuilder(preamble), cfg.RelayMaxMessages, logger)

	list := scenarios()
	var totalHelp, totalScope, totalFormat int
	for _, sc := range list {
		last := sc.History[len(sc.History)-1]
		fmt.Printf("%s[%s]%s %s\n", colorCyan, sc.Name, colorReset, last.Content)

		turnCtx, cancel := context.WithTimeout(ctx, cfg.LLMTimeout)
		reply, err := relay.Reply(turnCtx, sc.History)
		cancel()
		if err != nil {
			log.Fatalf("relay reply failed: %v", err)
		}
		fmt.Printf("%s[support]%s %s\n", colorGreen, colorReset, reply)

		judgeCtx, cancel := context.WithTimeout(ctx, cfg.LLMTimeout)
		jr, err := evaluateReply(judgeCtx, llmClient, sc, reply)
		cancel()
		if err != nil {
			log.Fatalf("judge failed: %v", err)
		}

		fmt.Printf("%sJudge%s %q\n", colorCyan, colorReset, jr.Reasoning)
		fmt.Printf("Scores: Helpfulness %d/5 | Scope %d/5 | Format %d/5\n\n", jr.HelpfulnessScore, jr.ScopeScore, jr.FormatScore)

		totalHelp += jr.HelpfulnessScore
		totalScope += jr.ScopeScore
		totalFormat += jr.FormatScore

		// Gemini free tier corta rápido por cuota
		time.Sleep(time.Second)
	}

	n := float64(len(list))
	fmt.Println("==== Averages ====")
	fmt.Printf("Helpfulness: %.2f/5 | Scope: %.2f/5 | Format: %.2f/5\n",
		float64(totalHelp)/n, float64(totalScope)/n, float64(totalFormat)/n)
}
