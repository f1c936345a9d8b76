package main

import (
	"fmt"
	"strconv"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/mogaika/fbxdoc/utils"
)

var dumpSpew bool

var dumpCmd = &cobra.Command{
	Use:   "dump [file.fbx] [object id]",
	Short: "Print raw records of file or of single object",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDocument(args[0])
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()

		if len(args) == 1 {
			if dumpSpew {
				fmt.Fprint(w, utils.SDump(d.Nodes()))
				return nil
			}
			return d.File().WriteASCII(w)
		}

		id, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return errors.Wrapf(err, "Invalid object id %q", args[1])
		}
		o := d.FindObject(id)
		if o == nil {
			return errors.Errorf("Object %d not found", id)
		}
		fmt.Fprint(w, utils.SDump(o.Info()))
		if o.Node() == nil {
			return nil
		}
		if dumpSpew {
			fmt.Fprint(w, utils.SDump(o.Node()))
			return nil
		}
		return o.Node().WriteASCII(w)
	},
}

func init() {
	dumpCmd.Flags().BoolVar(&dumpSpew, "spew", false, "dump go structures instead of fbx text")
	rootCmd.AddCommand(dumpCmd)
}
