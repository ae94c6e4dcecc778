package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	PhotoPrism PhotoPrismConfig
	Recognizer RecognizerConfig
	Export     ExportConfig
}

type PhotoPrismConfig struct {
	URL         string
	Username    string
	Password    string
	DatabaseURL string // MariaDB DSN for direct database reads (e.g., photoprism:photoprism@tcp(mariadb:3306)/photoprism)
}

type RecognizerConfig struct {
	Binary         string   // external face-recognition CLI
	KnownFacesPath string   // directory of reference face images
	Cores          int      // CPU hint forwarded to the tool, 0 = all
	UnknownTag     string   // tag substituted for the recognizer's unknown marker
	IgnoreTags     []string // substrings; photos whose tags contain any of them are skipped
}

type ExportConfig struct {
	Dir       string // parent for per-run export directories, defaults to os.TempDir
	MaxSize   int    // maximum exported image dimension in pixels, 0 = original size
	ResultDir string // where the recognition result file is retained, defaults to the user cache dir
}

// MaxCores caps the CPU hint forwarded to the recognition tool.
const MaxCores = 64

// DefaultUnknownTag is applied when no unknown tag is configured.
const DefaultUnknownTag = "unknown_person"

// envInt reads an environment variable and parses it as a positive integer.
// Returns the default value if the env var is unset, empty, or invalid.
func envInt(key string, defaultVal int) int {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n
	}
	return defaultVal
}

// ParseIgnoreTags splits a comma-separated ignore list into trimmed,
// non-empty substrings.
func ParseIgnoreTags(s string) []string {
	var tags []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			tags = append(tags, part)
		}
	}
	return tags
}

// Load reads configuration from the environment. When FACE_TAGGER_CONFIG
// points to a YAML file, its non-empty values override the environment.
func Load() (*Config, error) {
	cfg := &Config{
		PhotoPrism: PhotoPrismConfig{
			URL:         os.Getenv("PHOTOPRISM_URL"),
			Username:    os.Getenv("PHOTOPRISM_USERNAME"),
			Password:    os.Getenv("PHOTOPRISM_PASSWORD"),
			DatabaseURL: os.Getenv("PHOTOPRISM_DATABASE_URL"),
		},
		Recognizer: RecognizerConfig{
			Binary:         os.Getenv("RECOGNIZER_BINARY"),
			KnownFacesPath: os.Getenv("KNOWN_FACES_PATH"),
			Cores:          envInt("RECOGNIZER_CORES", 0),
			UnknownTag:     os.Getenv("UNKNOWN_TAG"),
			IgnoreTags:     ParseIgnoreTags(os.Getenv("IGNORE_TAGS")),
		},
		Export: ExportConfig{
			Dir:       os.Getenv("EXPORT_DIR"),
			MaxSize:   envInt("EXPORT_MAX_SIZE", 0),
			ResultDir: os.Getenv("RESULT_DIR"),
		},
	}

	if path := os.Getenv("FACE_TAGGER_CONFIG"); path != "" {
		if err := cfg.applyFile(path); err != nil {
			return nil, err
		}
	}

	if cfg.Recognizer.Binary == "" {
		cfg.Recognizer.Binary = "facerecognition"
	}
	if cfg.Recognizer.UnknownTag == "" {
		cfg.Recognizer.UnknownTag = DefaultUnknownTag
	}
	if cfg.Recognizer.Cores < 0 {
		cfg.Recognizer.Cores = 0
	}
	if cfg.Recognizer.Cores > MaxCores {
		cfg.Recognizer.Cores = MaxCores
	}

	return cfg, nil
}

// fileConfig is the YAML overlay shape. Only non-empty values override
// what the environment provided.
type fileConfig struct {
	PhotoPrism struct {
		URL         string `yaml:"url"`
		Username    string `yaml:"username"`
		Password    string `yaml:"password"`
		DatabaseURL string `yaml:"databaseUrl"`
	} `yaml:"photoprism"`
	Recognizer struct {
		Binary         string `yaml:"binary"`
		KnownFacesPath string `yaml:"knownFacesPath"`
		Cores          *int   `yaml:"cores"`
		UnknownTag     string `yaml:"unknownTag"`
		IgnoreTags     string `yaml:"ignoreTags"`
	} `yaml:"recognizer"`
	Export struct {
		Dir       string `yaml:"dir"`
		MaxSize   *int   `yaml:"maxSize"`
		ResultDir string `yaml:"resultDir"`
	} `yaml:"export"`
}

func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from the user's own environment
	if err != nil {
		return fmt.Errorf("could not read config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("could not parse config file %s: %w", path, err)
	}

	overrideString(&c.PhotoPrism.URL, fc.PhotoPrism.URL)
	overrideString(&c.PhotoPrism.Username, fc.PhotoPrism.Username)
	overrideString(&c.PhotoPrism.Password, fc.PhotoPrism.Password)
	overrideString(&c.PhotoPrism.DatabaseURL, fc.PhotoPrism.DatabaseURL)

	overrideString(&c.Recognizer.Binary, fc.Recognizer.Binary)
	overrideString(&c.Recognizer.KnownFacesPath, fc.Recognizer.KnownFacesPath)
	overrideString(&c.Recognizer.UnknownTag, fc.Recognizer.UnknownTag)
	if fc.Recognizer.Cores != nil {
		c.Recognizer.Cores = *fc.Recognizer.Cores
	}
	if fc.Recognizer.IgnoreTags != "" {
		c.Recognizer.IgnoreTags = ParseIgnoreTags(fc.Recognizer.IgnoreTags)
	}

	overrideString(&c.Export.Dir, fc.Export.Dir)
	overrideString(&c.Export.ResultDir, fc.Export.ResultDir)
	if fc.Export.MaxSize != nil {
		c.Export.MaxSize = *fc.Export.MaxSize
	}

	return nil
}

func overrideString(dst *string, val string) {
	if val != "" {
		*dst = val
	}
}
