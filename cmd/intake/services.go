package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/aretw0/intake/pkg/domain"
	"github.com/spf13/cobra"
)

var servicesCmd = &cobra.Command{
	Use:   "services",
	Short: "Inspect the registered question graphs",
}

var servicesLsCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "List services",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "SERVICE\tQUESTIONS")
		for _, name := range a.engine.Services() {
			g, err := a.engine.Graph(name)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "%s\t%d\n", g.Service, len(g.Questions))
		}
		return w.Flush()
	},
}

var servicesShowCmd = &cobra.Command{
	Use:   "show NAME",
	Short: "Show the questions of a service",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		g, err := a.engine.Graph(strings.Join(args, " "))
		if err != nil {
			return err
		}
		return describeGraph(cmd.OutOrStdout(), g)
	},
}

// describeGraph prints one row per question in walk order.
func describeGraph(out io.Writer, g *domain.Graph) error {
	fmt.Fprintf(out, "%s\n", g.Service)
	if g.OpeningMessage != "" {
		fmt.Fprintf(out, "  %s\n", g.OpeningMessage)
	}
	fmt.Fprintln(out)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "KEY\tTYPE\tREQUIRED\tCONDITIONAL\tSUGGESTIONS")
	for i := range g.Questions {
		q := &g.Questions[i]
		fmt.Fprintf(w, "%s\t%s\t%t\t%t\t%s\n",
			q.Key, q.AnswerType, q.Required, q.When != nil, strings.Join(q.Suggestions, ", "))
	}
	return w.Flush()
}

func init() {
	servicesCmd.AddCommand(servicesLsCmd, servicesShowCmd)
	rootCmd.AddCommand(servicesCmd)
}
