package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mogaika/fbxdoc/scene"
	"github.com/mogaika/fbxdoc/utils"
)

var treeAll bool

func describe(o *scene.Object) string {
	kind := o.Class().String()
	if o.SubClass() != scene.SubClassUnknown {
		kind += "/" + o.SubClass().String()
	}
	return fmt.Sprintf("%s [%s] id=%d", utils.DisplayString(o.Name()), kind, o.ID())
}

func printTree(w io.Writer, d *scene.Document, all bool) {
	line := func(o *scene.Object, depth int) {
		fmt.Fprintf(w, "%s%s\n", strings.Repeat("  ", depth), describe(o))
	}
	if all {
		d.Walk(func(o *scene.Object, depth int) bool {
			line(o, depth)
			return true
		})
	} else {
		d.WalkModels(line)
	}
}

var treeCmd = &cobra.Command{
	Use:   "tree [file.fbx]",
	Short: "Print model hierarchy",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDocument(args[0])
		if err != nil {
			return err
		}
		printTree(cmd.OutOrStdout(), d, treeAll)
		return nil
	},
}

func init() {
	treeCmd.Flags().BoolVarP(&treeAll, "all", "a", false, "print every object, not only models")
	rootCmd.AddCommand(treeCmd)
}
