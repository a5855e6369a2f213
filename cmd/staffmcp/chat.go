package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/staffmcp/staffmcp/internal/agent"
	"github.com/staffmcp/staffmcp/internal/mcp"
	"github.com/staffmcp/staffmcp/internal/mcpclient"
)

var chatMessage string

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Talk to the HR assistant (needs a running tool server)",
	RunE:  runChat,
}

func init() {
	chatCmd.Flags().StringVarP(&chatMessage, "message", "m", "", "Send a single message and exit")
}

func runChat(_ *cobra.Command, _ []string) error {
	if cfg.AnthropicAPIKey == "" {
		return fmt.Errorf("ANTHROPIC_API_KEY is not set")
	}

	reasoner := agent.NewAnthropicReasoner(cfg.AnthropicAPIKey, cfg.AnthropicModel(), cfg.AnthropicBaseURL, cfg.MaxTokens)
	client := mcpclient.New(cfg.ServerURL, cfg.ToolTimeoutDuration())
	orch := agent.NewOrchestrator(reasoner, agent.NewDispatcher(client), agent.Options{
		ReasoningTimeout: cfg.ReasoningTimeoutDuration(),
		ToolTimeout:      cfg.ToolTimeoutDuration(),
	})
	session := agent.NewSession("", cfg.SystemPrompt)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if chatMessage != "" {
		return printTurn(orch.Ask(ctx, session, chatMessage))
	}

	fmt.Println("HR assistant (type 'exit' to quit, '/retry' to resume a failed turn)")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("\nYou: ")
		if !scanner.Scan() {
			fmt.Println()
			return nil
		}

		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":
			continue
		case strings.EqualFold(line, "exit"):
			return nil
		case line == "/retry":
			_ = printTurn(orch.Retry(ctx, session))
		default:
			_ = printTurn(orch.Ask(ctx, session, line))
		}
		if ctx.Err() != nil {
			return nil
		}
	}
}

func printTurn(res *agent.TurnResult, err error) error {
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if mcp.IsRetryable(err) {
			fmt.Fprintln(os.Stderr, "The request can be retried with /retry.")
		}
		return err
	}
	if res.Tool != nil {
		fmt.Printf("  ↳ %s %v\n", res.Tool.Name, res.Tool.Arguments)
	}
	fmt.Printf("\nAssistant: %s\n", res.Answer)
	return nil
}
