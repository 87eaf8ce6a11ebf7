package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	cp "github.com/otiai10/copy"
	"gopkg.in/yaml.v3"
)

const (
	EconomyModeThreshold = "threshold"
	EconomyModeOCR       = "ocr"

	fileName = "config.yaml"
)

var Version = "dev"

//go:embed default.yaml
var defaultDocument []byte

type Cfg struct {
	Version                 int    `yaml:"version"`
	ForfeitEarly            bool   `yaml:"forfeit_early"`
	SurrenderAfterStage     int    `yaml:"surrender_after_stage"`
	Verbose                 bool   `yaml:"verbose"`
	OverrideInstallLocation string `yaml:"override_install_location"`
	AssetsDirectory         string `yaml:"assets_directory"`
	ScreenshotLocation      string `yaml:"screenshot_location"`
	LogDirectory            string `yaml:"log_directory"`
	Economy                 struct {
		Mode              string   `yaml:"mode"`
		PrioritizedOrder  bool     `yaml:"prioritized_order"`
		TesseractLocation string   `yaml:"tesseract_location"`
		WantedTraits      []string `yaml:"wanted_traits"`
	} `yaml:"economy"`
	ClientAPI struct {
		Enabled bool `yaml:"enabled"`
	} `yaml:"client_api"`
	Notifications struct {
		Desktop        bool   `yaml:"desktop"`
		DiscordWebhook string `yaml:"discord_webhook"`
		TelegramToken  string `yaml:"telegram_token"`
		TelegramChatID int64  `yaml:"telegram_chat_id"`
	} `yaml:"notifications"`

	// Path of the file this configuration was read from.
	Path string `yaml:"-"`
}

// Load reads <storageDir>/config.yaml, creating it from the bundled default
// when missing and migrating it when the bundled default is newer.
func Load(storageDir string, logger *slog.Logger) (*Cfg, error) {
	if err := os.MkdirAll(storageDir, os.ModePerm); err != nil {
		return nil, fmt.Errorf("error creating config directory %s: %w", storageDir, err)
	}

	path := filepath.Join(storageDir, fileName)
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err = os.WriteFile(path, defaultDocument, 0644); err != nil {
			return nil, fmt.Errorf("error writing default config: %w", err)
		}
		logger.Info("Created default configuration", slog.String("path", path))
	}

	migrated, err := migrate(path, defaultDocument)
	if err != nil {
		return nil, err
	}
	if migrated {
		logger.Warn("Config was outdated, a back-up was created and the file updated", slog.String("backup", path+".bak"))
	}

	r, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error loading %s: %w", fileName, err)
	}
	defer r.Close()

	cfg := &Cfg{}
	if err = yaml.NewDecoder(r).Decode(cfg); err != nil {
		return nil, fmt.Errorf("error reading config %s: %w", path, err)
	}
	cfg.Path = path
	cfg.Validate(storageDir)

	return cfg, nil
}

// Validate fills in defaults for zero or out-of-range values and resolves
// relative directories against baseDir.
func (c *Cfg) Validate(baseDir string) {
	if c.SurrenderAfterStage < 1 {
		c.SurrenderAfterStage = 3
	}

	// Unknown modes are kept so the economy setup can reject them.
	c.Economy.Mode = strings.ToLower(strings.TrimSpace(c.Economy.Mode))
	if c.Economy.Mode == "" {
		c.Economy.Mode = EconomyModeThreshold
	}

	c.AssetsDirectory = absPath(baseDir, c.AssetsDirectory, "captures")
	c.ScreenshotLocation = absPath(baseDir, c.ScreenshotLocation, "screenshots")
	c.LogDirectory = absPath(baseDir, c.LogDirectory, "logs")
}

// ApplyFlags lets command line flags force settings on. A flag that is not set
// leaves the file value in place.
func (c *Cfg) ApplyFlags(f Flags) {
	c.ForfeitEarly = f.ForfeitEarly || c.ForfeitEarly
	c.Verbose = f.Verbose || c.Verbose
}

// migrate rewrites the stored file when the default document has a higher
// version. The stored file is first copied verbatim to <path>.bak; then every
// top-level key present in both documents, except version, keeps its stored
// value.
func migrate(path string, defaults []byte) (bool, error) {
	stored, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("error reading %s: %w", path, err)
	}

	var defaultDoc, storedDoc yaml.Node
	if err = yaml.Unmarshal(defaults, &defaultDoc); err != nil {
		return false, fmt.Errorf("error parsing default config: %w", err)
	}
	if err = yaml.Unmarshal(stored, &storedDoc); err != nil {
		return false, fmt.Errorf("error parsing %s: %w", path, err)
	}

	if documentVersion(&defaultDoc) <= documentVersion(&storedDoc) {
		return false, nil
	}

	if err = cp.Copy(path, path+".bak"); err != nil {
		return false, fmt.Errorf("error backing up config: %w", err)
	}

	overlay(&defaultDoc, &storedDoc)

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err = enc.Encode(&defaultDoc); err != nil {
		return false, fmt.Errorf("error encoding migrated config: %w", err)
	}
	_ = enc.Close()

	if err = os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return false, fmt.Errorf("error writing migrated config: %w", err)
	}

	return true, nil
}

func overlay(dst, src *yaml.Node) {
	dstMap, srcMap := rootMapping(dst), rootMapping(src)
	if dstMap == nil || srcMap == nil {
		return
	}

	stored := make(map[string]*yaml.Node, len(srcMap.Content)/2)
	for i := 0; i+1 < len(srcMap.Content); i += 2 {
		stored[srcMap.Content[i].Value] = srcMap.Content[i+1]
	}

	for i := 0; i+1 < len(dstMap.Content); i += 2 {
		key := dstMap.Content[i].Value
		if key == "version" {
			continue
		}
		if v, found := stored[key]; found {
			dstMap.Content[i+1] = v
		}
	}
}

func rootMapping(doc *yaml.Node) *yaml.Node {
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil
	}
	if doc.Content[0].Kind != yaml.MappingNode {
		return nil
	}
	return doc.Content[0]
}

// documentVersion returns 0 when the document carries no readable version.
func documentVersion(doc *yaml.Node) int {
	var v struct {
		Version int `yaml:"version"`
	}
	if err := doc.Decode(&v); err != nil {
		return 0
	}
	return v.Version
}

func absPath(baseDir, path, fallback string) string {
	if path == "" {
		path = fallback
	}
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}
