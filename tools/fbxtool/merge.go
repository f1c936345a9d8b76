package main

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var mergeOut string

var mergeCmd = &cobra.Command{
	Use:   "merge [target.fbx] [animation.fbx...]",
	Short: "Move takes of animation files onto target skeleton",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDocument(args[0])
		if err != nil {
			return err
		}
		merged := 0
		for _, path := range args[1:] {
			src, err := openDocument(path)
			if err != nil {
				return err
			}
			if d.MergeAnimations(src) {
				merged++
			} else {
				log.Warnf("Nothing merged from %q", path)
			}
		}
		if merged == 0 {
			return errors.Errorf("No animations matched %q", args[0])
		}

		out := mergeOut
		if out == "" {
			out = args[0]
		}
		return writeDocument(d, out)
	},
}

func init() {
	mergeCmd.Flags().StringVarP(&mergeOut, "output", "o", "", "output file, target is overwritten by default")
	addOutputFlags(mergeCmd)
	rootCmd.AddCommand(mergeCmd)
}
