package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kozaktomas/face-tagger/internal/config"
	"github.com/kozaktomas/face-tagger/internal/mariadb"
	"github.com/kozaktomas/face-tagger/internal/photoprism"
	"github.com/kozaktomas/face-tagger/internal/recognizer"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify the recognition tool, reference images, and catalog access",
	RunE:  runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	failed := false
	report := func(name string, err error) {
		if err != nil {
			failed = true
			fmt.Printf("FAIL  %s: %v\n", name, err)
			return
		}
		fmt.Printf("ok    %s\n", name)
	}

	rec, err := recognizer.New(cfg.Recognizer.Binary)
	if err != nil {
		report("recognition tool", err)
	} else {
		report("recognition tool", rec.Available())
	}

	report("known faces", checkKnownFaces(cfg.Recognizer.KnownFacesPath))
	report("photoprism", checkPhotoPrism(cfg))

	if cfg.PhotoPrism.DatabaseURL != "" {
		report("database", checkDatabase(cfg.PhotoPrism.DatabaseURL))
	}

	if failed {
		return errors.New("some checks failed")
	}
	return nil
}

func checkKnownFaces(dir string) error {
	if dir == "" {
		return errors.New("not configured (set KNOWN_FACES_PATH)")
	}
	people, err := recognizer.ScanKnownFaces(dir)
	if err != nil {
		return err
	}
	if len(people) == 0 {
		return fmt.Errorf("no reference images in %s", dir)
	}
	return nil
}

func checkPhotoPrism(cfg *config.Config) error {
	if cfg.PhotoPrism.URL == "" {
		return errors.New("not configured (set PHOTOPRISM_URL)")
	}
	pp, err := photoprism.NewPhotoPrism(cfg.PhotoPrism.URL, cfg.PhotoPrism.Username, cfg.PhotoPrism.Password)
	if err != nil {
		return err
	}
	return pp.Logout()
}

func checkDatabase(dsn string) error {
	pool, err := mariadb.NewPool(dsn)
	if err != nil {
		return err
	}
	return pool.Close()
}
