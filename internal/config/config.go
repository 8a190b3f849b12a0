package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	Target       string `mapstructure:"target" yaml:"target"`
	YearColumn   string `mapstructure:"year_column" yaml:"year_column"`
	GrossColumn  string `mapstructure:"gross_column" yaml:"gross_column"`
	RatingColumn string `mapstructure:"rating_column" yaml:"rating_column"`
	OutputDir    string `mapstructure:"output_dir" yaml:"output_dir"`

	HistBins       int     `mapstructure:"hist_bins" yaml:"hist_bins"`
	TopValues      int     `mapstructure:"top_values" yaml:"top_values"`
	TopCategories  int     `mapstructure:"top_categories" yaml:"top_categories"`
	HeadRows       int     `mapstructure:"head_rows" yaml:"head_rows"`
	ScatterAlpha   float64 `mapstructure:"scatter_alpha" yaml:"scatter_alpha"`
	FloatPrecision int     `mapstructure:"float_precision" yaml:"float_precision"`
	RenderWorkers  int     `mapstructure:"render_workers" yaml:"render_workers"`
	MaxRows        int     `mapstructure:"max_rows" yaml:"max_rows"`
	// Outlier detection via robust Z-score (MAD); 0 disables.
	OutlierThreshold float64  `mapstructure:"outlier_threshold" yaml:"outlier_threshold"`
	NAValues         []string `mapstructure:"na_values" yaml:"na_values"`

	Log LogConfig `mapstructure:"log" yaml:"log"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// DefaultNAValues are the cell values treated as missing when loading a table.
var DefaultNAValues = []string{"", "NA", "N/A", "NaN", "nan", "null", "NULL", "<nil>"}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.eda/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		dir, err := configDir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return eris.Wrap(err, "config: mkdir")
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return eris.Wrap(err, "config: marshal yaml")
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return eris.Wrap(err, "config: write")
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: env > config file > defaults. CLI flags are applied by the caller.
func Load(cfgFile string) (*Global, error) {
	return load(cfgFile, true)
}

// LoadFile loads the config file over the defaults, ignoring environment
// overrides. Use it when the result is written back with Save.
func LoadFile(cfgFile string) (*Global, error) {
	return load(cfgFile, false)
}

func load(cfgFile string, env bool) (*Global, error) {
	v := viper.New()
	if env {
		v.SetEnvPrefix("EDA")
		v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		v.AutomaticEnv()
	}

	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := configDir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); cfgFile != "" || !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}
	return &c, nil
}

// InitLogger initializes the global zap logger. Output goes to stderr so the
// report written to stdout stays clean.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.DisableStacktrace = true
	}
	zapCfg.OutputPaths = []string{"stderr"}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)
	return nil
}

// Default returns the built-in configuration without reading files or env.
func Default() *Global {
	v := viper.New()
	setDefaults(v)
	var c Global
	// Defaults alone always decode.
	_ = v.Unmarshal(&c)
	return &c
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("target", "gross")
	v.SetDefault("year_column", "year_released")
	v.SetDefault("gross_column", "gross")
	v.SetDefault("rating_column", "movie_rating")
	v.SetDefault("output_dir", "eda-report")
	v.SetDefault("hist_bins", 30)
	v.SetDefault("top_values", 10)
	v.SetDefault("top_categories", 15)
	v.SetDefault("head_rows", 5)
	v.SetDefault("scatter_alpha", 0.3)
	v.SetDefault("float_precision", 2)
	v.SetDefault("render_workers", 4)
	v.SetDefault("max_rows", 0)
	v.SetDefault("outlier_threshold", 3.5)
	v.SetDefault("na_values", DefaultNAValues)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
}

func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", eris.Wrap(err, "config: resolve home dir")
	}
	return filepath.Join(home, ".eda"), nil
}
