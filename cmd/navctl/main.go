// navctl resolves utterances against the route table and talks to a running
// action server.
//
// Usage:
//
//	navctl resolve open the gantt chart
//	navctl routes --config configs/actionserver.example.yaml
//	navctl call --url http://localhost:5055 go to dashboard
//	echo "open board" | navctl stream --url ws://localhost:5055/webhook/ws
package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/taskfoo/taskfoo-bot/internal/config"
	"github.com/taskfoo/taskfoo-bot/internal/navigate"
	"github.com/taskfoo/taskfoo-bot/internal/version"
)

type options struct {
	configPath string
	serverURL  string
	token      string
	senderID   string
	timeout    time.Duration
	verbose    bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "navctl [command] [flags]",
		Short:         "Inspect and exercise the navigation action",
		Version:       version.String(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelWarn
			if opts.verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&opts.configPath, "config", "c", "", "action server config (built-in table when empty)")
	pf.StringVar(&opts.serverURL, "url", "http://localhost:5055", "action server base URL")
	pf.StringVar(&opts.token, "token", os.Getenv("NAVCTL_TOKEN"), "bearer token for the action server")
	pf.StringVar(&opts.senderID, "sender", "navctl", "sender id placed on calls")
	pf.DurationVar(&opts.timeout, "timeout", 10*time.Second, "request timeout")
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(
		newResolveCmd(opts),
		newRoutesCmd(opts),
		newCallCmd(opts),
		newStreamCmd(opts),
	)
	return root
}

func (o *options) loadConfig() (*config.ServerConfig, error) {
	if o.configPath == "" {
		return config.Default(), nil
	}
	return config.LoadAndValidate(o.configPath)
}

func (o *options) table() (*navigate.Table, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, err
	}
	return navigate.FromConfig(cfg.Navigation)
}
