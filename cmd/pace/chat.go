package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jacksmith/pace/internal/cli"
	"github.com/jacksmith/pace/internal/client"
	"github.com/spf13/cobra"
)

var chatCmd = &cobra.Command{
	Use:   "chat [message]",
	Short: "Chat with the assistant",
	Long: `Chat with the LLM assistant behind the paced backend. With a message
argument the reply is printed and the command exits; without one an
interactive session starts (quit with "exit" or Ctrl-D). Replies stream
as they are generated.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	cfg, err := s.LoadConfig()
	if err != nil {
		return err
	}

	c := client.New(cfg.ServerURL)
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second

	if len(args) == 1 {
		history := []client.Message{{Role: "user", Content: args[0]}}
		_, err := streamReply(cmd.Context(), c, timeout, history)
		return err
	}

	fmt.Println("chatting with", cfg.ServerURL, `(type "exit" to quit)`)
	var history []client.Message
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print(cli.Green("> "))
		if !scanner.Scan() {
			fmt.Println()
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			return nil
		}

		history = append(history, client.Message{Role: "user", Content: line})
		reply, err := streamReply(cmd.Context(), c, timeout, history)
		if err != nil {
			fmt.Fprintln(os.Stderr, cli.Red(err.Error()))
			history = history[:len(history)-1]
			continue
		}
		history = append(history, client.Message{Role: "assistant", Content: reply})
	}
}

func streamReply(ctx context.Context, c *client.Client, timeout time.Duration, history []client.Message) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var b strings.Builder
	err := c.ChatStream(ctx, history, func(chunk string) error {
		b.WriteString(chunk)
		fmt.Print(chunk)
		return nil
	})
	fmt.Println()
	return b.String(), err
}
