package main

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"ggufconv/internal/config"
	"ggufconv/internal/executor"
	"ggufconv/internal/jobs"
	"ggufconv/internal/logging"
	"ggufconv/internal/tools"
)

// globals holds the persistent flags shared by every subcommand.
type globals struct {
	configPath string
	logLevel   string
	logFormat  string
}

func newRootCmd() *cobra.Command {
	g := &globals{}
	root := &cobra.Command{
		Use:           "ggufconv",
		Short:         "Convert model weights to GGUF and quantize them",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&g.configPath, "config", "", "Config file (.yaml, .yml, .json or .toml)")
	root.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "Log level: debug|info|warn|error|off (defaults GGUFCONV_LOG_LEVEL or info)")
	root.PersistentFlags().StringVar(&g.logFormat, "log-format", "", "Log format: console|json")

	root.AddCommand(
		newPlanCmd(g),
		newConvertCmd(g),
		newServeCmd(g),
		newFormatsCmd(),
		newCompletionCmd(root),
	)
	return root
}

// load resolves the effective configuration: file, then environment, then
// flags, then defaults.
func (g *globals) load() (config.Config, error) {
	var cfg config.Config
	if g.configPath != "" {
		c, err := config.Load(g.configPath)
		if err != nil {
			return cfg, err
		}
		cfg = c
	}
	cfg.ApplyEnv()
	if g.logLevel != "" {
		cfg.LogLevel = g.logLevel
	}
	if g.logFormat != "" {
		cfg.LogFormat = g.logFormat
	}
	cfg.ApplyDefaults()
	return cfg, nil
}

// toolchain is the wired conversion stack for one process.
type toolchain struct {
	conv   *tools.Converter
	quant  *tools.Quantizer
	runner *jobs.Runner
}

func newToolchain(cfg config.Config, log zerolog.Logger) (*toolchain, error) {
	tr := tools.NewRunner(log.With().Str("component", "tools").Logger())
	conv, err := tools.NewConverter(tr, cfg.Tools.Python, cfg.Tools.ConvertScript, cfg.Tools.ConvertArgs)
	if err != nil {
		return nil, err
	}
	quant := tools.NewQuantizer(tr, cfg.Tools.QuantizeBin, cfg.Tools.QuantizeArgs, cfg.Tools.Threads)
	exec := executor.New(conv, quant, log.With().Str("component", "executor").Logger())
	runner := jobs.New(jobs.Config{
		Engine:           exec,
		Log:              log.With().Str("component", "jobs").Logger(),
		Buffer:           cfg.ProgressBuffer,
		OutputDir:        cfg.OutputDir,
		KeepIntermediate: cfg.KeepIntermediate,
		Formats:          cfg.Formats,
	})
	return &toolchain{conv: conv, quant: quant, runner: runner}, nil
}

// preflight checks both external tools before any work starts.
func (t *toolchain) preflight() error {
	if err := t.conv.Preflight(); err != nil {
		return err
	}
	return t.quant.Preflight()
}

func newLogger(cfg config.Config, cmd *cobra.Command) zerolog.Logger {
	return logging.New(cfg.LogLevel, cfg.LogFormat, cmd.ErrOrStderr())
}

func newFormatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "List known quantization formats",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			printFormats(cmd.OutOrStdout())
			return nil
		},
	}
}

func newCompletionCmd(root *cobra.Command) *cobra.Command {
	completionCmd := &cobra.Command{Use: "completion", Short: "Generate the autocompletion script for the specified shell"}
	completionCmd.AddCommand(&cobra.Command{Use: "bash", Short: "Bash completion", RunE: func(cmd *cobra.Command, args []string) error {
		return root.GenBashCompletion(cmd.OutOrStdout())
	}})
	completionCmd.AddCommand(&cobra.Command{Use: "zsh", Short: "Zsh completion", RunE: func(cmd *cobra.Command, args []string) error {
		return root.GenZshCompletion(cmd.OutOrStdout())
	}})
	completionCmd.AddCommand(&cobra.Command{Use: "fish", Short: "Fish completion", RunE: func(cmd *cobra.Command, args []string) error {
		return root.GenFishCompletion(cmd.OutOrStdout(), true)
	}})
	completionCmd.AddCommand(&cobra.Command{Use: "powershell", Short: "PowerShell completion", RunE: func(cmd *cobra.Command, args []string) error {
		return root.GenPowerShellCompletionWithDesc(cmd.OutOrStdout())
	}})
	return completionCmd
}
