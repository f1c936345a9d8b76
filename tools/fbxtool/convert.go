package main

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/mogaika/fbxdoc/config"
	"github.com/mogaika/fbxdoc/scene"
)

var (
	outFormat  string
	outVersion uint32
)

// writeDocument stores d in format, version 0 keeps configured one
func writeDocument(d *scene.Document, path string) error {
	format, err := scene.ParseFormat(outFormat)
	if err != nil {
		return err
	}
	v := config.GetFBXVersion()
	if outVersion != 0 {
		v = config.FBXVersion(outVersion)
		if !v.Supported() {
			return errors.Errorf("Unsupported fbx version %d", outVersion)
		}
	}
	d.SetVersion(uint32(v))
	log.Infof("Writing %q as %v %v", path, format, v)
	return d.WriteFile(path, format)
}

var convertCmd = &cobra.Command{
	Use:   "convert [in.fbx] [out.fbx]",
	Short: "Re-export file as binary or ascii",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDocument(args[0])
		if err != nil {
			return err
		}
		return writeDocument(d, args[1])
	},
}

func addOutputFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&outFormat, "format", "f", "binary", "output format: binary or ascii")
	cmd.Flags().Uint32Var(&outVersion, "fbx-version", 0, "output version: 7400, 7500 or 7700")
}

func init() {
	addOutputFlags(convertCmd)
	rootCmd.AddCommand(convertCmd)
}
