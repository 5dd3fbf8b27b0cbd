package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/taskfoo/taskfoo-bot/internal/navigate"
)

func newResolveCmd(opts *options) *cobra.Command {
	var strategy string

	cmd := &cobra.Command{
		Use:   "resolve <utterance...>",
		Short: "Resolve an utterance against the route table locally",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := opts.table()
			if err != nil {
				return err
			}
			if strategy != "" {
				table, err = table.WithStrategy(navigate.Strategy(strategy))
				if err != nil {
					return err
				}
			}

			utterance := strings.Join(args, " ")
			out := cmd.OutOrStdout()
			m, ok := table.Resolve(utterance)
			if !ok {
				fmt.Fprintf(out, "%q: no match\n", utterance)
				return nil
			}
			fmt.Fprintf(out, "%q -> %s (phrase %q, entry %d, %s)\n",
				utterance, m.Route, m.Phrase, m.Index, table.Strategy())
			return nil
		},
	}

	cmd.Flags().StringVar(&strategy, "match", "", "override match strategy (first or longest)")
	return cmd
}

func newRoutesCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "Print the route table and entries first-match can never reach",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := opts.table()
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "#\tPHRASE\tROUTE")
			for i, e := range table.Entries() {
				fmt.Fprintf(tw, "%d\t%s\t%s\n", i, e.Phrase, e.Route)
			}
			tw.Flush()

			shadowed := table.Shadowed()
			if len(shadowed) == 0 {
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), "\nshadowed under first-match:")
			for _, sh := range shadowed {
				fmt.Fprintf(cmd.OutOrStdout(), "  %q (entry %d) behind %q (entry %d)\n",
					sh.Entry.Phrase, sh.Index, sh.ByPhrase, sh.ByIndex)
			}
			return nil
		},
	}
}
