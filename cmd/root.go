package cmd

import (
	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "subgen",
	Short: "Generate translated subtitles for uploaded media",
	Long: `Subgen transcribes uploaded video/audio with the whisper CLI, translates
each transcript segment through DeepL, emits an SRT subtitle file, and
optionally burns the subtitles into a new video with ffmpeg.`,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.toml", "path to TOML config file")
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}
