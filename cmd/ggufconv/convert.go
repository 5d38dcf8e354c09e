package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"ggufconv/internal/config"
	"ggufconv/internal/planner"
	"ggufconv/internal/report"
	"ggufconv/pkg/types"
)

// requestFlags are the flags shared by plan and convert.
type requestFlags struct {
	inputs           []string
	dir              string
	formats          []string
	outputDir        string
	keepIntermediate bool
	prefsPath        string
}

func (f *requestFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringArrayVarP(&f.inputs, "input", "i", nil, "Source weight file (repeatable)")
	fl.StringVar(&f.dir, "dir", "", "Convert every weight file found directly in this directory")
	fl.StringArrayVarP(&f.formats, "format", "f", nil, "Output format, e.g. Q4_K_M (repeatable or comma-separated)")
	fl.StringVar(&f.outputDir, "output-dir", "", "Write all outputs to this directory instead of next to each input")
	fl.BoolVar(&f.keepIntermediate, "keep-intermediate", false, "Keep the F16 intermediate after its outputs are written")
	fl.StringVar(&f.prefsPath, "prefs", "", "Preferences file (default <user config dir>/ggufconv/preferences.json)")
}

// resolve turns flags, positional args, saved preferences and config
// defaults into a request. Flags win over preferences, preferences over
// config; the Runner applies the config defaults itself.
func (f *requestFlags) resolve(cmd *cobra.Command, args []string, prefs config.Preferences) (types.PlanRequest, error) {
	req := types.PlanRequest{
		Inputs:    append(append([]string(nil), f.inputs...), args...),
		Formats:   splitAll(f.formats),
		OutputDir: f.outputDir,
	}
	if f.dir != "" {
		found, err := planner.Discover(f.dir)
		if err != nil {
			return req, err
		}
		if len(found) == 0 {
			return req, fmt.Errorf("no weight files (%s) found in %s", strings.Join(planner.SupportedExtensions(), ", "), f.dir)
		}
		req.Inputs = append(req.Inputs, found...)
	}
	if len(req.Formats) == 0 {
		req.Formats = append([]string(nil), prefs.SelectedFormats...)
	}
	if req.OutputDir == "" {
		req.OutputDir = prefs.OutputPath
	}
	if cmd.Flags().Changed("keep-intermediate") {
		keep := f.keepIntermediate
		req.KeepIntermediate = &keep
	} else if prefs.KeepF16 != nil {
		keep := *prefs.KeepF16
		req.KeepIntermediate = &keep
	}
	return req, nil
}

// loadPrefs reads the preferences file; a broken file is logged and ignored.
func (f *requestFlags) loadPrefs(log zerolog.Logger) (string, config.Preferences) {
	path := f.prefsPath
	if path == "" {
		p, err := config.DefaultPreferencesPath()
		if err != nil {
			log.Warn().Err(err).Msg("no preferences location")
			return "", config.Preferences{}
		}
		path = p
	}
	prefs, err := config.LoadPreferences(path)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("ignoring preferences")
		return path, config.Preferences{}
	}
	return path, prefs
}

func newPlanCmd(g *globals) *cobra.Command {
	rf := &requestFlags{}
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "plan [input...]",
		Short: "Show what convert would do without running anything",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.load()
			if err != nil {
				return err
			}
			log := newLogger(cfg, cmd)
			_, prefs := rf.loadPrefs(log)
			req, err := rf.resolve(cmd, args, prefs)
			if err != nil {
				return err
			}
			tc, err := newToolchain(cfg, log)
			if err != nil {
				return err
			}
			resp, err := tc.runner.Plan(req)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(resp)
			}
			report.Plan(out, resp.Plan)
			return nil
		},
	}
	rf.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the plan as JSON")
	return cmd
}

func newConvertCmd(g *globals) *cobra.Command {
	rf := &requestFlags{}
	var (
		savePrefs bool
		yes       bool
	)
	cmd := &cobra.Command{
		Use:   "convert [input...]",
		Short: "Convert inputs to F16 GGUF and quantize them to the requested formats",
		Example: "  ggufconv convert -i flux.safetensors -f Q4_K_M -f Q8_0\n" +
			"  ggufconv convert --dir ~/models -f Q4_K_M,Q5_K_M --output-dir ~/models/gguf --yes",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.load()
			if err != nil {
				return err
			}
			log := newLogger(cfg, cmd)
			prefsPath, prefs := rf.loadPrefs(log)
			req, err := rf.resolve(cmd, args, prefs)
			if err != nil {
				return err
			}
			tc, err := newToolchain(cfg, log)
			if err != nil {
				return err
			}
			plan, opts, err := tc.runner.Prepare(req)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			report.Plan(out, plan)
			if plan.PendingCount() > 0 {
				if !yes && !confirm(cmd.InOrStdin(), out, "Proceed with conversion?") {
					fmt.Fprintln(out, "Aborted.")
					return nil
				}
				if err := tc.preflight(); err != nil {
					return err
				}
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			sum, err := tc.runner.Run(ctx, plan, opts, func(ev types.ProgressEvent) {
				fmt.Fprintf(out, "[%3.0f%%] %s\n", ev.Progress, ev.Message)
			})
			if err != nil {
				return err
			}
			report.Summary(out, sum)

			if savePrefs && prefsPath != "" {
				next := config.Preferences{
					SelectedFormats: config.FormatSelection(req.Formats),
					OutputPath:      req.OutputDir,
					KeepF16:         req.KeepIntermediate,
				}
				if err := config.SavePreferences(prefsPath, next); err != nil {
					log.Warn().Err(err).Str("path", prefsPath).Msg("could not save preferences")
				}
			}
			if sum.Failed > 0 {
				return fmt.Errorf("%d of %d conversion(s) failed", sum.Failed, sum.Total)
			}
			return nil
		},
	}
	rf.register(cmd)
	cmd.Flags().BoolVar(&savePrefs, "save-prefs", false, "Remember formats, output dir and keep-intermediate for next time")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}

// confirm asks a yes/no question on out and reads the answer from in.
func confirm(in io.Reader, out io.Writer, question string) bool {
	fmt.Fprintf(out, "%s [y/N] ", question)
	line, _ := bufio.NewReader(in).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}

func printFormats(w io.Writer) {
	report.Formats(w, planner.KnownFormats)
}
