package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/mogaika/fbxdoc/config"
	"github.com/mogaika/fbxdoc/scene"
	"github.com/mogaika/fbxdoc/utils"
)

var log = utils.Log("fbxtool")

var (
	configPath string
	logLevel   string
	encoding   string
	cfg        = config.Default()
)

var rootCmd = &cobra.Command{
	Use:           "fbxtool",
	Short:         "Inspect, convert and merge fbx files",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg = config.Default()
		if configPath != "" {
			c, err := config.Load(configPath)
			if err != nil {
				return err
			}
			cfg = c
		}
		if logLevel != "" {
			cfg.LogLevel = logLevel
		}
		if encoding != "" {
			cfg.Encoding = encoding
		}
		if err := utils.SetLogLevel(cfg.LogLevel); err != nil {
			return err
		}
		return cfg.Apply()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "yaml config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level override (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&encoding, "encoding", "", "charmap for 8-bit names of legacy files")
}

func openDocument(path string) (*scene.Document, error) {
	d := scene.NewDocument()
	if err := d.ReadFile(path); err != nil {
		return nil, err
	}
	return d, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}
