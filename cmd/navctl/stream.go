package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/taskfoo/taskfoo-bot/internal/action"
	"github.com/taskfoo/taskfoo-bot/internal/navigate"
	"github.com/taskfoo/taskfoo-bot/internal/server"
	"github.com/taskfoo/taskfoo-bot/internal/wsconn"
)

func newStreamCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "stream",
		Short: "Send utterances from stdin over the WebSocket transport",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			wsURL, err := socketURL(opts.serverURL)
			if err != nil {
				return err
			}

			client := wsconn.NewClient(wsconn.Config{URL: wsURL, AuthToken: opts.token}, nil)
			ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
			err = client.Connect(ctx)
			cancel()
			if err != nil {
				return err
			}
			defer client.Close()

			return stream(cmd.Context(), client, cmd.InOrStdin(), cmd.OutOrStdout(), opts)
		},
	}
}

// socketURL derives the /webhook/ws address from an http(s) or ws(s) base URL.
func socketURL(base string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parse url: %w", err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return "", fmt.Errorf("unsupported url scheme %q", u.Scheme)
	}
	if !strings.HasSuffix(u.Path, "/webhook/ws") {
		u.Path = strings.TrimRight(u.Path, "/") + "/webhook/ws"
	}
	return u.String(), nil
}

// stream sends one call per non-empty input line and prints each reply
// before reading the next line.
func stream(ctx context.Context, client wsconn.Client, in io.Reader, out io.Writer, opts *options) error {
	scanner := bufio.NewScanner(in)
	seq := 0

	for scanner.Scan() {
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		seq++
		id := strconv.Itoa(seq)

		call := action.Call{
			NextAction: navigate.ActionName,
			SenderID:   opts.senderID,
			Tracker: &action.Tracker{
				SenderID:      opts.senderID,
				LatestMessage: map[string]any{"text": text},
			},
		}
		if err := client.SendCall(id, call); err != nil {
			return fmt.Errorf("send: %w", err)
		}

		replyCtx, cancel := context.WithTimeout(ctx, opts.timeout)
		reply, err := awaitReply(replyCtx, client, id)
		cancel()
		if err != nil {
			return err
		}
		if reply.Type == server.FrameError {
			var eb action.ErrorBody
			json.Unmarshal(reply.Body, &eb)
			fmt.Fprintf(out, "error: %s\n", eb.Error)
			continue
		}

		var resp action.Response
		if err := json.Unmarshal(reply.Body, &resp); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		if err := printResponse(out, &resp); err != nil {
			return err
		}
	}
	return scanner.Err()
}

func awaitReply(ctx context.Context, client wsconn.Client, id string) (server.SocketReply, error) {
	for {
		select {
		case <-ctx.Done():
			return server.SocketReply{}, ctx.Err()
		case err := <-client.Errors():
			return server.SocketReply{}, fmt.Errorf("connection: %w", err)
		case msg := <-client.Messages():
			reply, err := wsconn.DecodeReply(msg)
			if err != nil {
				return reply, err
			}
			if reply.ID == id {
				return reply, nil
			}
		}
	}
}
