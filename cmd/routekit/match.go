package main

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

func matchCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "match <uri>...",
		Short: "Match relative URIs against the route tree",
		Long: `Match each relative URI and print the route it resolves to with
its bound parameters.

Examples:
  routekit match counter
  routekit match "admin/orders/12?tab=lines" search?q=shoes`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProject(context.Background(), flags)
			if err != nil {
				return err
			}
			mgr := p.contextManager()
			out := cmd.OutOrStdout()

			for _, u := range args {
				c, err := mgr.Build(u)
				if err != nil {
					return err
				}
				if !c.Found() {
					warn("%s: no route", u)
					continue
				}
				success("%s -> %s", u, c.Route())
				for _, a := range c.Route().Ancestors() {
					fmt.Fprintf(out, "    under %s\n", a)
				}
				params := c.ComponentParameters()
				names := make([]string, 0, len(params))
				for name := range params {
					names = append(names, name)
				}
				sort.Strings(names)
				for _, name := range names {
					fmt.Fprintf(out, "    %s = %v\n", name, params[name])
				}
			}
			return nil
		},
	}
}
