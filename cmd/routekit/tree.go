package main

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vango-dev/routekit/pkg/route"
)

func treeCmd(flags *globalFlags) *cobra.Command {
	var showMetadata bool

	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Print the resolved route tree",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProject(context.Background(), flags)
			if err != nil {
				return err
			}
			printTree(cmd.OutOrStdout(), p.table.Roots(), showMetadata)
			return nil
		},
	}

	cmd.Flags().BoolVar(&showMetadata, "metadata", false, "Print route metadata")

	return cmd
}

// printTree writes roots as an indented tree:
//
//	/  pages.Home
//	├── /admin  pages.Admin
//	│   └── /admin/orders/{id:int}  pages.Order
//	└── /counter  pages.Counter
func printTree(w io.Writer, roots []*route.Route, showMetadata bool) {
	for _, r := range roots {
		fmt.Fprintf(w, "%s\n", label(r, showMetadata))
		printChildren(w, r.Children(), "", showMetadata)
	}
}

func printChildren(w io.Writer, children []*route.Route, prefix string, showMetadata bool) {
	for i, child := range children {
		branch, next := "├── ", "│   "
		if i == len(children)-1 {
			branch, next = "└── ", "    "
		}
		fmt.Fprintf(w, "%s%s%s\n", prefix, branch, label(child, showMetadata))
		printChildren(w, child.Children(), prefix+next, showMetadata)
	}
}

func label(r *route.Route, showMetadata bool) string {
	s := "/" + r.URI() + "  " + r.Component().Name()
	if !showMetadata || r.Metadata().Len() == 0 {
		return s
	}
	md := r.Metadata().Map()
	keys := make([]string, 0, len(md))
	for k := range md {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, fmt.Sprintf("%s=%v", k, md[k]))
	}
	return s + "  [" + strings.Join(pairs, " ") + "]"
}
