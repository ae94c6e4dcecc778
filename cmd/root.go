package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "face-tagger",
	Short: "A CLI tool for tagging recognized faces in PhotoPrism photos",
	Long: `Face Tagger exports photos from a PhotoPrism instance, runs an external
face-recognition tool over them against a directory of known reference
faces, and applies the recognized identities back as labels on the
originating photos.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
}

func initConfig() {
	// .env file is optional, don't fail if not found
	_ = godotenv.Load()
}
