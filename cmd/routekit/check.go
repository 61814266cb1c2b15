package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"
)

func checkCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Resolve the manifest and report problems",
		Long: `Resolve the route manifest and report the first problem found.

Checks include duplicate URIs, circular or conflicting relationships,
unresolvable references, invalid templates and invalid configuration.

Examples:
  routekit check
  routekit check -m routes/admin.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			start := time.Now()
			p, err := loadProject(context.Background(), flags)
			if err != nil {
				return err
			}

			success("Resolved %s in %s", p.manifestPath, time.Since(start).Round(time.Microsecond))
			info("%d routes, %d top-level, %d modules",
				p.table.Len(), len(p.table.Roots()), len(p.table.Modules()))
			if p.table.Len() == 0 {
				warn("manifest declares no routes")
			}
			return nil
		},
	}
}
