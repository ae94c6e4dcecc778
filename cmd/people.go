package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kozaktomas/face-tagger/internal/config"
	"github.com/kozaktomas/face-tagger/internal/recognizer"
)

var peopleCmd = &cobra.Command{
	Use:   "people",
	Short: "List the people known from the reference face directory",
	Long: `List every person derivable from the known faces directory. A reference
image's filename, minus extension and trailing digits, is the tag name
applied when that person is recognized.`,
	RunE: runPeople,
}

func init() {
	rootCmd.AddCommand(peopleCmd)
}

func runPeople(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.Recognizer.KnownFacesPath == "" {
		return fmt.Errorf("known faces directory not configured (set KNOWN_FACES_PATH)")
	}

	people, err := recognizer.ScanKnownFaces(cfg.Recognizer.KnownFacesPath)
	if err != nil {
		return err
	}

	if len(people) == 0 {
		fmt.Println("No reference images found.")
		return nil
	}

	for _, person := range people {
		fmt.Printf("%-30s %d reference image(s)\n", person.Name, person.Images)
	}
	fmt.Printf("\n%d people known\n", len(people))
	return nil
}
