package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/reportgen-cli/internal/analysis"
)

const dirName = ".reportgen"

// Global configuration structure.
type Global struct {
	// Classification switches
	CategoryDetection       bool `mapstructure:"category_detection" yaml:"category_detection"`
	StructuredTextDetection bool `mapstructure:"structured_text_detection" yaml:"structured_text_detection"`
	DatetimeToCategory      bool `mapstructure:"datetime_to_category" yaml:"datetime_to_category"`

	// Distribution estimation
	MaxBins  int  `mapstructure:"max_bins" yaml:"max_bins"`
	GridSize int  `mapstructure:"grid_size" yaml:"grid_size"`
	NormHist bool `mapstructure:"norm_hist" yaml:"norm_hist"`

	FontPath  string `mapstructure:"font_path" yaml:"font_path"`
	OutputDir string `mapstructure:"output_dir" yaml:"output_dir"`
	LogLevel  string `mapstructure:"log_level" yaml:"log_level"`
}

// ClassifierOptions maps the classification switches onto analysis options.
func (g *Global) ClassifierOptions() analysis.Options {
	return analysis.Options{
		CategoryDetection:       g.CategoryDetection,
		StructuredTextDetection: g.StructuredTextDetection,
		DatetimeToCategory:      g.DatetimeToCategory,
	}
}

// DistOptions returns distribution options seeded from the configured limits.
func (g *Global) DistOptions() analysis.DistOptions {
	opt := analysis.DefaultDistOptions()
	if g.MaxBins > 0 {
		opt.MaxBins = g.MaxBins
	}
	if g.GridSize > 0 {
		opt.GridSize = g.GridSize
	}
	opt.NormHist = g.NormHist
	return opt
}

func defaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, dirName), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.reportgen/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		dir, err := defaultDir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: env > config file > defaults; CLI flags are applied by the caller.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("REPORTGEN")
	v.AutomaticEnv()

	v.SetDefault("category_detection", true)
	v.SetDefault("structured_text_detection", true)
	v.SetDefault("datetime_to_category", true)
	v.SetDefault("max_bins", 50)
	v.SetDefault("grid_size", 100)
	v.SetDefault("norm_hist", true)
	v.SetDefault("font_path", "")
	v.SetDefault("output_dir", ".")
	v.SetDefault("log_level", "warn")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := defaultDir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}
