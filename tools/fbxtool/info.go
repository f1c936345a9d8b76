package main

import (
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"github.com/mogaika/fbxdoc/scene"
	"github.com/mogaika/fbxdoc/utils"
)

func printSummary(w io.Writer, s scene.Summary) {
	fmt.Fprintf(w, "version: %d\n", s.Version)
	fmt.Fprintf(w, "objects: %d\n", s.Objects)

	classes := make([]string, 0, len(s.Classes))
	for c := range s.Classes {
		classes = append(classes, c)
	}
	sort.Strings(classes)
	for _, c := range classes {
		fmt.Fprintf(w, "  %-20s %d\n", c, s.Classes[c])
	}

	for _, t := range s.Takes {
		mark := " "
		if t.Name == s.Current {
			mark = "*"
		}
		fmt.Fprintf(w, "%s take %q: %gs - %gs, %d layers, %d curve nodes\n",
			mark, utils.DisplayString(t.Name), t.Start, t.Stop, t.Layers, t.Nodes)
	}
}

var infoCmd = &cobra.Command{
	Use:   "info [file.fbx]",
	Short: "Print version, object counts and takes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDocument(args[0])
		if err != nil {
			return err
		}
		printSummary(cmd.OutOrStdout(), d.Summary())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
