package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// Mode constants
	ModeCLI   = "cli"
	ModeStdio = "stdio"

	// Default values
	DefaultCitationsDir  = "Citaciones"
	DefaultOutputDir     = "ActasGeneradas"
	DefaultTemplatePath  = "plantillas_acta2.docx"
	DefaultModel         = "gemini-2.5-flash"
	DefaultMaxQuestions  = 10
	DefaultMinTextLength = 50
	DefaultLogLevel      = "info"
	DefaultMaxFileSize   = 100 * 1024 * 1024 // 100MB

	// MaxQuestionsLimit bounds the questions requested per acta
	MaxQuestionsLimit = 30

	// APIKeyEnv is the environment variable holding the Gemini credential
	APIKeyEnv = "GEMINI_API_KEY"

	// Directory permissions
	DefaultDirPerm = 0o750
)

// Config holds all configuration for the acta generator
type Config struct {
	// Run configuration
	Mode         string // "cli" or "stdio"
	File         string // citation to process in cli mode; empty picks the first in CitationsDir
	InitTemplate bool

	// Paths
	CitationsDir string
	OutputDir    string
	TemplatePath string

	// Question generation
	Model        string
	APIKey       string
	MaxQuestions int

	// Application configuration
	Version       string
	ServerName    string
	LogLevel      string
	MinTextLength int
	MaxFileSize   int64 // Maximum PDF file size in bytes
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Mode:          ModeCLI,
		CitationsDir:  DefaultCitationsDir,
		OutputDir:     DefaultOutputDir,
		TemplatePath:  DefaultTemplatePath,
		Model:         DefaultModel,
		MaxQuestions:  DefaultMaxQuestions,
		Version:       "1.0.0",
		ServerName:    "acta-generator",
		LogLevel:      DefaultLogLevel,
		MinTextLength: DefaultMinTextLength,
		MaxFileSize:   DefaultMaxFileSize,
	}
}

// LoadFromFlags parses command line flags and returns a configuration
func LoadFromFlags() (*Config, error) {
	cfg := DefaultConfig()

	// A missing .env file is fine; the credential may come from the environment
	_ = godotenv.Load()

	setupViperEnvironment(cfg)
	defineCommandLineFlags(cfg)
	bindFlagsToViper()
	setupUsageMessage()

	// Check for version flag before parsing
	if err := checkVersionFlag(); err != nil {
		return nil, err
	}

	pflag.Parse()

	populateConfigFromViper(cfg)
	cfg.expandPaths()

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setupViperEnvironment configures viper with environment variables and defaults
func setupViperEnvironment(cfg *Config) {
	viper.SetEnvPrefix("ACTA")
	viper.AutomaticEnv()
	_ = viper.BindEnv("apikey", APIKeyEnv, "ACTA_APIKEY")

	viper.SetDefault("mode", cfg.Mode)
	viper.SetDefault("file", cfg.File)
	viper.SetDefault("citations", cfg.CitationsDir)
	viper.SetDefault("output", cfg.OutputDir)
	viper.SetDefault("template", cfg.TemplatePath)
	viper.SetDefault("model", cfg.Model)
	viper.SetDefault("maxquestions", cfg.MaxQuestions)
	viper.SetDefault("mintext", cfg.MinTextLength)
	viper.SetDefault("loglevel", cfg.LogLevel)
	viper.SetDefault("maxfilesize", cfg.MaxFileSize)
	viper.SetDefault("init-template", cfg.InitTemplate)
}

// defineCommandLineFlags sets up all command line flags
func defineCommandLineFlags(cfg *Config) {
	pflag.String("mode", cfg.Mode, "Run mode: 'cli' to process one citation, 'stdio' for the MCP server")
	pflag.String("file", cfg.File, "Citation PDF to process (cli mode; default: first PDF in --citations)")
	pflag.String("citations", cfg.CitationsDir, "Directory containing citation PDFs")
	pflag.String("output", cfg.OutputDir, "Directory where generated actas are written")
	pflag.String("template", cfg.TemplatePath, "Word template for the acta (.docx)")
	pflag.String("model", cfg.Model, "Gemini model used for additional questions")
	pflag.Int("maxquestions", cfg.MaxQuestions, "Maximum number of questions per acta")
	pflag.Int("mintext", cfg.MinTextLength, "Minimum extracted text length to accept a citation")
	pflag.String("loglevel", cfg.LogLevel, "Log level (debug, info, warn, error)")
	pflag.Int64("maxfilesize", cfg.MaxFileSize, "Maximum PDF file size in bytes")
	pflag.Bool("init-template", cfg.InitTemplate, "Write the built-in acta template to --template and exit")
}

// bindFlagsToViper binds command line flags to viper configuration
func bindFlagsToViper() {
	for _, name := range []string{
		"mode", "file", "citations", "output", "template", "model",
		"maxquestions", "mintext", "loglevel", "maxfilesize", "init-template",
	} {
		_ = viper.BindPFlag(name, pflag.Lookup(name))
	}
}

// setupUsageMessage configures the custom usage message
func setupUsageMessage() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of %s:\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nActa Generator - builds disciplinary hearing records from citation PDFs\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s                                   "+
			"# first PDF in ./Citaciones (default)\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --file=Citaciones/perez.pdf       # one citation\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --mode=stdio --citations=/srv/rrhh # MCP server\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --init-template                   # write an editable template\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  GEMINI_API_KEY      Gemini credential (also read from .env)\n")
		fmt.Fprintf(os.Stderr, "  ACTA_MODE           Run mode\n")
		fmt.Fprintf(os.Stderr, "  ACTA_CITATIONS      Citations directory\n")
		fmt.Fprintf(os.Stderr, "  ACTA_OUTPUT         Output directory\n")
		fmt.Fprintf(os.Stderr, "  ACTA_TEMPLATE       Acta template\n")
		fmt.Fprintf(os.Stderr, "  ACTA_MODEL          Gemini model\n")
		fmt.Fprintf(os.Stderr, "  ACTA_MAXQUESTIONS   Maximum questions\n")
		fmt.Fprintf(os.Stderr, "  ACTA_LOGLEVEL       Log level\n")
		fmt.Fprintf(os.Stderr, "  ACTA_MAXFILESIZE    Maximum file size\n")
	}
}

// checkVersionFlag checks if version flag was requested
func checkVersionFlag() error {
	for _, arg := range os.Args[1:] {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			return fmt.Errorf("version requested")
		}
	}
	return nil
}

// populateConfigFromViper fills the config struct with values from viper
func populateConfigFromViper(cfg *Config) {
	cfg.Mode = viper.GetString("mode")
	cfg.File = viper.GetString("file")
	cfg.CitationsDir = viper.GetString("citations")
	cfg.OutputDir = viper.GetString("output")
	cfg.TemplatePath = viper.GetString("template")
	cfg.Model = viper.GetString("model")
	cfg.APIKey = viper.GetString("apikey")
	cfg.MaxQuestions = viper.GetInt("maxquestions")
	cfg.MinTextLength = viper.GetInt("mintext")
	cfg.LogLevel = viper.GetString("loglevel")
	cfg.MaxFileSize = viper.GetInt64("maxfilesize")
	cfg.InitTemplate = viper.GetBool("init-template")
}

// expandPaths makes every configured path absolute
func (c *Config) expandPaths() {
	for _, p := range []*string{&c.File, &c.CitationsDir, &c.OutputDir, &c.TemplatePath} {
		if *p == "" {
			continue
		}
		if abs, err := filepath.Abs(*p); err == nil {
			*p = abs
		}
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Mode != ModeCLI && c.Mode != ModeStdio {
		return errors.New("mode must be either 'cli' or 'stdio'")
	}

	if c.CitationsDir == "" {
		return errors.New("citations directory cannot be empty")
	}
	if c.OutputDir == "" {
		return errors.New("output directory cannot be empty")
	}

	if c.MaxQuestions < 1 || c.MaxQuestions > MaxQuestionsLimit {
		return fmt.Errorf("maxquestions must be between 1 and %d", MaxQuestionsLimit)
	}
	if c.MinTextLength <= 0 {
		return errors.New("minimum text length must be positive")
	}
	if c.MaxFileSize <= 0 {
		return errors.New("maximum file size must be positive")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}

	// Create the output directory if it doesn't exist
	if _, err := os.Stat(c.OutputDir); os.IsNotExist(err) {
		if err := os.MkdirAll(c.OutputDir, DefaultDirPerm); err != nil {
			return fmt.Errorf("cannot create output directory %s: %w", c.OutputDir, err)
		}
	} else if err != nil {
		return fmt.Errorf("cannot access output directory %s: %w", c.OutputDir, err)
	}

	return nil
}

// IsDebug returns true if debug logging is enabled
func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}

// HasAPIKey reports whether a model credential is configured
func (c *Config) HasAPIKey() bool {
	return c.APIKey != ""
}

// String returns a string representation of the configuration. The
// credential itself is never printed.
func (c *Config) String() string {
	return fmt.Sprintf("Config{Mode: %s, CitationsDir: %s, OutputDir: %s, TemplatePath: %s, "+
		"Model: %s, APIKeySet: %t, MaxQuestions: %d, LogLevel: %s, MaxFileSize: %d}",
		c.Mode, c.CitationsDir, c.OutputDir, c.TemplatePath,
		c.Model, c.HasAPIKey(), c.MaxQuestions, c.LogLevel, c.MaxFileSize)
}

// IsCLIMode returns true when a single citation is processed from the command line
func (c *Config) IsCLIMode() bool {
	return c.Mode == ModeCLI
}

// IsStdioMode returns true if the MCP server runs over stdio
func (c *Config) IsStdioMode() bool {
	return c.Mode == ModeStdio
}
