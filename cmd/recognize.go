package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kozaktomas/face-tagger/internal/config"
	"github.com/kozaktomas/face-tagger/internal/export"
	"github.com/kozaktomas/face-tagger/internal/mariadb"
	"github.com/kozaktomas/face-tagger/internal/photoprism"
	"github.com/kozaktomas/face-tagger/internal/recognizer"
	"github.com/kozaktomas/face-tagger/internal/tagger"
)

var recognizeCmd = &cobra.Command{
	Use:   "recognize",
	Short: "Recognize faces in catalog photos and tag the people found",
	Long: `Export photos from PhotoPrism, run the external face-recognition tool
over them against the known faces directory, and apply the recognized
identities back as labels.

Photos whose existing labels contain any configured ignore fragment are
skipped. Unmatched faces receive the configured unknown tag.

Examples:
  # Tag faces in all photos
  face-tagger recognize

  # Tag faces in one album only
  face-tagger recognize --query "album:at8e94h6pa15hbk7"

  # See what would be tagged without changing anything
  face-tagger recognize --dry-run --limit 50`,
	RunE: runRecognize,
}

func init() {
	rootCmd.AddCommand(recognizeCmd)

	recognizeCmd.Flags().String("query", "", "PhotoPrism search query selecting the photos (default: all)")
	recognizeCmd.Flags().Int("limit", 0, "Limit number of photos to process (0 = no limit)")
	recognizeCmd.Flags().Int("cores", 0, "CPU hint for the recognition tool (0 = use all, overrides config)")
	recognizeCmd.Flags().Bool("dry-run", false, "Report the labels that would be applied without applying them")
}

func runRecognize(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	rec, err := recognizer.New(cfg.Recognizer.Binary)
	if err != nil {
		return err
	}

	fmt.Println("Connecting to PhotoPrism...")
	pp, err := photoprism.NewPhotoPrism(cfg.PhotoPrism.URL, cfg.PhotoPrism.Username, cfg.PhotoPrism.Password)
	if err != nil {
		return fmt.Errorf("failed to connect to PhotoPrism: %w", err)
	}
	defer pp.Logout()

	var taggerOpts []tagger.Option
	if cfg.PhotoPrism.DatabaseURL != "" {
		pool, err := mariadb.NewPool(cfg.PhotoPrism.DatabaseURL)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: direct database access unavailable, falling back to the API: %v\n", err)
		} else {
			defer pool.Close()
			taggerOpts = append(taggerOpts, tagger.WithTagReader(pool))
		}
	}

	exporter := export.New(pp, cfg.Export.Dir, cfg.Export.MaxSize)
	tg := tagger.New(pp, rec, exporter, taggerOpts...)

	cores := cfg.Recognizer.Cores
	if flagCores := mustGetInt(cmd, "cores"); flagCores > 0 {
		cores = flagCores
	}

	result, err := tg.Run(cmd.Context(), tagger.Options{
		Query:          mustGetString(cmd, "query"),
		Limit:          mustGetInt(cmd, "limit"),
		KnownFacesPath: cfg.Recognizer.KnownFacesPath,
		Cores:          cores,
		UnknownTag:     cfg.Recognizer.UnknownTag,
		IgnoreTags:     cfg.Recognizer.IgnoreTags,
		ResultDir:      cfg.Export.ResultDir,
		DryRun:         mustGetBool(cmd, "dry-run"),
	})
	if err != nil {
		return err
	}

	printResult(result)
	return nil
}

func printResult(result *tagger.Result) {
	fmt.Printf("\nExported:  %d photos\n", result.Exported)
	fmt.Printf("Faces:     %d detected\n", result.Faces)
	fmt.Printf("Ignored:   %d photos\n", result.Ignored)
	fmt.Printf("Unmatched: %d records\n", result.Unmatched)
	fmt.Printf("Applied:   %d labels\n", result.Applied)
	if result.Artifact != "" {
		fmt.Printf("Raw results kept at %s\n", result.Artifact)
	}

	if result.Pending != nil {
		fmt.Println("\nDry run - labels that would be applied:")
		for uid, labels := range result.Pending {
			fmt.Printf("  %s: %v\n", uid, labels)
		}
	}

	if len(result.Errors) > 0 {
		fmt.Printf("\n%d problems:\n", len(result.Errors))
		for _, err := range result.Errors {
			fmt.Printf("  - %v\n", err)
		}
	}
}
