package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/taskfoo/taskfoo-bot/internal/action"
	"github.com/taskfoo/taskfoo-bot/internal/actionclient"
	"github.com/taskfoo/taskfoo-bot/internal/navigate"
)

func newCallCmd(opts *options) *cobra.Command {
	var actionName string

	cmd := &cobra.Command{
		Use:   "call <utterance...>",
		Short: "Send an utterance to a running action server",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := actionclient.NewClient(opts.serverURL,
				actionclient.WithAuthToken(opts.token),
				actionclient.WithTimeout(opts.timeout),
			)

			ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
			defer cancel()

			resp, err := client.Utter(ctx, actionName, opts.senderID, strings.Join(args, " "))
			if err != nil {
				return fmt.Errorf("call %s: %w", actionName, err)
			}
			return printResponse(cmd.OutOrStdout(), resp)
		},
	}

	cmd.Flags().StringVarP(&actionName, "action", "a", navigate.ActionName, "action to invoke")
	return cmd
}

// printResponse writes each uttered message and its payload, one per line.
func printResponse(w io.Writer, resp *action.Response) error {
	for _, msg := range resp.Responses {
		if len(msg.Custom) == 0 {
			fmt.Fprintln(w, msg.Text)
			continue
		}
		payload, err := json.Marshal(msg.Custom)
		if err != nil {
			return fmt.Errorf("encode payload: %w", err)
		}
		fmt.Fprintf(w, "%s %s\n", msg.Text, payload)
	}
	if len(resp.Events) > 0 {
		fmt.Fprintf(w, "events: %d\n", len(resp.Events))
	}
	return nil
}
