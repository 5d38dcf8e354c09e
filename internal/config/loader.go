package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Defaults applied by ApplyDefaults when the corresponding fields are unset.
const (
	DefaultAddr           = ":8080"
	DefaultLogLevel       = "info"
	DefaultLogFormat      = "console"
	DefaultProgressBuffer = 64
	DefaultPython         = "python3"
	DefaultConvertScript  = "llama.cpp/convert.py"
	DefaultQuantizeBin    = "llama-quantize"
)

// ToolsConfig locates the external converter and quantizer.
type ToolsConfig struct {
	Python        string `json:"python" yaml:"python" toml:"python"`
	ConvertScript string `json:"convert_script" yaml:"convert_script" toml:"convert_script"`
	// ConvertArgs follow the script path; {input} and {output} are substituted.
	ConvertArgs  []string `json:"convert_args" yaml:"convert_args" toml:"convert_args"`
	QuantizeBin  string   `json:"quantize_bin" yaml:"quantize_bin" toml:"quantize_bin"`
	QuantizeArgs []string `json:"quantize_args" yaml:"quantize_args" toml:"quantize_args"`
	Threads      int      `json:"threads" yaml:"threads" toml:"threads"`
}

// Config holds runtime parameters for the CLI and the server.
// Zero values mean "unspecified" and are replaced by ApplyDefaults.
type Config struct {
	Addr             string      `json:"addr" yaml:"addr" toml:"addr"`
	LogLevel         string      `json:"log_level" yaml:"log_level" toml:"log_level"`
	LogFormat        string      `json:"log_format" yaml:"log_format" toml:"log_format"`
	OutputDir        string      `json:"output_dir" yaml:"output_dir" toml:"output_dir"`
	KeepIntermediate bool        `json:"keep_intermediate" yaml:"keep_intermediate" toml:"keep_intermediate"`
	Formats          []string    `json:"formats" yaml:"formats" toml:"formats"`
	ProgressBuffer   int         `json:"progress_buffer" yaml:"progress_buffer" toml:"progress_buffer"`
	MaxBodyBytes     int64       `json:"max_body_bytes" yaml:"max_body_bytes" toml:"max_body_bytes"`
	CORSOrigins      []string    `json:"cors_origins" yaml:"cors_origins" toml:"cors_origins"`
	Tools            ToolsConfig `json:"tools" yaml:"tools" toml:"tools"`
}

// Load reads a configuration file based on its extension.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	case ".json":
		if err := json.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	case ".toml":
		if err := toml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	return cfg, nil
}

// ApplyEnv overrides fields from GGUFCONV_* environment variables when set.
func (c *Config) ApplyEnv() {
	setStr := func(key string, dst *string) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			*dst = v
		}
	}
	setStr("GGUFCONV_ADDR", &c.Addr)
	setStr("GGUFCONV_LOG_LEVEL", &c.LogLevel)
	setStr("GGUFCONV_LOG_FORMAT", &c.LogFormat)
	setStr("GGUFCONV_OUTPUT_DIR", &c.OutputDir)
	setStr("GGUFCONV_PYTHON", &c.Tools.Python)
	setStr("GGUFCONV_CONVERT_SCRIPT", &c.Tools.ConvertScript)
	setStr("GGUFCONV_QUANTIZE_BIN", &c.Tools.QuantizeBin)
	if v := os.Getenv("GGUFCONV_KEEP_INTERMEDIATE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.KeepIntermediate = b
		}
	}
	if v := os.Getenv("GGUFCONV_THREADS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			c.Tools.Threads = n
		}
	}
}

// ApplyDefaults fills unset fields with package defaults.
func (c *Config) ApplyDefaults() {
	if c.Addr == "" {
		c.Addr = DefaultAddr
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.LogFormat == "" {
		c.LogFormat = DefaultLogFormat
	}
	if c.ProgressBuffer <= 0 {
		c.ProgressBuffer = DefaultProgressBuffer
	}
	if c.Tools.Python == "" {
		c.Tools.Python = DefaultPython
	}
	if c.Tools.ConvertScript == "" {
		c.Tools.ConvertScript = DefaultConvertScript
	}
	if c.Tools.QuantizeBin == "" {
		c.Tools.QuantizeBin = DefaultQuantizeBin
	}
}
