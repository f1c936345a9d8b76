package main

import (
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/spf13/cobra"

	"github.com/mogaika/fbxdoc/web"
)

var listen string

var serveCmd = &cobra.Command{
	Use:   "serve [dir]",
	Short: "Browse fbx files of directory over http",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		addr := cfg.Listen
		if listen != "" {
			addr = listen
		}
		return web.StartServer(addr, osfs.New(args[0]))
	},
}

func init() {
	serveCmd.Flags().StringVarP(&listen, "listen", "i", "", "address of server, config value by default")
	rootCmd.AddCommand(serveCmd)
}
