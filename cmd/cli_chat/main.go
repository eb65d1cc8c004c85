package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"support-chat/internal/chatclient"
	"support-chat/internal/tui"
)

var (
	relayURL string
	greeting string
	title    string
	plain    bool
)

func main() {
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "support-chat",
		Short: "Terminal client for the customer support relay",
		Long: `support-chat talks to the support relay over HTTP.

Examples:
  support-chat chat                          Start the interactive chat
  support-chat chat --plain                  Line mode, no full-screen UI
  support-chat ask "I was charged twice"     Send a single question`,
		SilenceUsage: true,
	}

	defaultURL := os.Getenv("SUPPORT_CHAT_URL")
	if defaultURL == "" {
		defaultURL = chatclient.DefaultEndpoint
	}
	root.PersistentFlags().StringVar(&relayURL, "url", defaultURL, "relay endpoint")
	root.PersistentFlags().StringVar(&greeting, "greeting", chatclient.Greeting, "initial assistant message")

	chat := &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive support chat",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			session := newSession()
			if plain {
				return runPlain(cmd.Context(), session, cmd.InOrStdin(), cmd.OutOrStdout())
			}
			return tui.Run(session, title)
		},
	}
	chat.Flags().BoolVar(&plain, "plain", false, "line-based chat without the full-screen UI")
	chat.Flags().StringVar(&title, "title", "Customer Support", "header shown in the chat window")

	ask := &cobra.Command{
		Use:   "ask [question]",
		Short: "Send one question and print the reply as it arrives",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			out := cmd.OutOrStdout()
			err := newSession().Exchange(ctx, args[0], func(chunk string) {
				fmt.Fprint(out, chunk)
			})
			fmt.Fprintln(out)
			if err != nil {
				fmt.Fprintln(out, chatclient.ErrorReply)
				return err
			}
			return nil
		},
	}

	root.AddCommand(chat, ask)
	return root
}

func newSession() *chatclient.Session {
	return chatclient.NewSession(chatclient.NewClient(relayURL, nil), greeting)
}

// runPlain es el chat por líneas: lee del input, imprime la respuesta a medida que llega.
func runPlain(ctx context.Context, session *chatclient.Session, in io.Reader, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	reader := bufio.NewReader(in)

	if msgs := session.State().Messages(); len(msgs) > 0 {
		fmt.Fprintf(out, "Support > %s\n", msgs[0].Content)
	}
	fmt.Fprintln(out, "---- type 'exit' to quit ----")

	for {
		fmt.Fprint(out, "You > ")
		text, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("read input: %w", err)
		}
		line := strings.TrimSpace(text)
		if line == "exit" || line == "quit" {
			return nil
		}
		if line != "" {
			fmt.Fprint(out, "Support > ")
			turnErr := session.Exchange(ctx, line, func(chunk string) {
				fmt.Fprint(out, chunk)
			})
			if turnErr != nil {
				fmt.Fprintf(out, "%s (%v)", chatclient.ErrorReply, turnErr)
			}
			fmt.Fprintln(out)
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
	}
}
