package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/PabloGalante/shopchat/internal/app/conversation"
	"github.com/PabloGalante/shopchat/internal/config"
	"github.com/PabloGalante/shopchat/internal/domain"
	"github.com/PabloGalante/shopchat/internal/observability"
)

func chatCmd() *cobra.Command {
	var sessionID string

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Chat with the assistant from the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			// Keep the terminal readable: logs only on warnings.
			observability.Configure(cmd.ErrOrStderr(), "warn")

			svc, closer, err := buildService(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer closer.Close()

			if sessionID == "" {
				sessionID = uuid.NewString()
			}
			return runChat(cmd, svc, domain.SessionID(sessionID))
		},
	}

	cmd.Flags().StringVar(&sessionID, "session", "", "Session id (default: a new random id)")
	return cmd
}

func runChat(cmd *cobra.Command, svc *conversation.Service, id domain.SessionID) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "session %s, type \"exit\" to quit\n", id)

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			break
		}

		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		if text == "exit" || text == "quit" {
			return nil
		}

		res, err := svc.SendMessage(cmd.Context(), conversation.SendMessageInput{SessionID: id, Text: text})
		if err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), "error:", err)
			continue
		}
		fmt.Fprintln(out, res.Reply)
	}

	if err := scanner.Err(); err != nil && err != io.EOF {
		return err
	}
	return nil
}
