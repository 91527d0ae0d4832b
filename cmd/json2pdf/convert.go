package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	json2pdf "github.com/Adoubf/json2pdf"
	"github.com/Adoubf/json2pdf/internal/config"
	"github.com/Adoubf/json2pdf/internal/hints"
)

// Sentinel errors for CLI operations.
var (
	ErrUsage   = errors.New("invalid usage")
	ErrNoInput = errors.New("no input specified")
	ErrReadCSS = errors.New("failed to read CSS file")
)

// runConvert orchestrates one batch run: config, optional repair, then the
// processor.
func runConvert(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseConvertFlags(args, env.Stdout)
	if err != nil {
		return err
	}

	envCfg := loadEnvConfig()
	cfg, err := loadConfig(flags.common.config, envCfg)
	if err != nil {
		return err
	}
	applyEnvConfig(envCfg, cfg)
	mergeFlags(flags, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	inputPath, err := resolveInputPath(positional, cfg)
	if err != nil {
		return err
	}
	if len(cfg.Records.Fields) == 0 {
		return withHint(json2pdf.ErrNoFields, hints.ForNoFields(inputPath))
	}

	timeout, err := resolveTimeoutWithEnv(flags.timeout, envCfg.Timeout, cfg.Timeout)
	if err != nil {
		return err
	}
	valueFormat, err := json2pdf.ParseValueFormat(cfg.Records.ValueFormat)
	if err != nil {
		return err
	}

	useBar := !flags.common.quiet && env.IsTerminal != nil && env.IsTerminal()
	logger, closeLog, err := setupLogger(env.Stderr, logOptions{
		level:   cfg.Log.Level,
		quiet:   flags.common.quiet,
		verbose: flags.common.verbose,
		file:    cfg.Log.File,
		bar:     useBar,
	})
	if err != nil {
		return err
	}
	defer func() { _ = closeLog() }()

	now := env.Now()
	renderInput, err := buildRenderInput(cfg, inputPath, now)
	if err != nil {
		return err
	}

	src, err := prepareSource(inputPath, cfg, logger, env, flags.common.quiet)
	if err != nil {
		return err
	}

	rendererOpts := []json2pdf.Option{
		json2pdf.WithStyle(cfg.Style.Name),
		json2pdf.WithAssetPath(cfg.Assets.BasePath),
	}
	if timeout > 0 {
		rendererOpts = append(rendererOpts, json2pdf.WithTimeout(timeout))
	}
	renderer, err := env.NewRenderer(rendererOpts...)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := renderer.Close(); cerr != nil {
			logger.Warn("closing renderer", "error", cerr)
		}
	}()

	procOpts := []json2pdf.ProcessorOption{
		json2pdf.WithLogger(logger),
		json2pdf.WithValueFormat(valueFormat),
		json2pdf.WithPrefix(resolvePrefix(cfg)),
		json2pdf.WithTimestampFormat(cfg.Naming.Timestamp),
		json2pdf.WithBatchTimeout(timeout),
		json2pdf.WithRenderInput(renderInput),
		json2pdf.WithHTMLOutput(cfg.Output.HTML),
	}
	var bar *progressBar
	if useBar {
		bar = newProgressBar(env.Stderr)
		procOpts = append(procOpts, json2pdf.WithProgress(bar.Update))
	}

	proc, err := json2pdf.NewProcessor(renderer, procOpts...)
	if err != nil {
		return err
	}

	outputDir := resolveOutputDir(cfg)
	start := time.Now()
	n, err := proc.Process(ctx, src, json2pdf.Job{
		OutputDir: outputDir,
		Fields:    cfg.Records.Fields,
		BatchSize: resolveBatchSize(cfg),
		Separator: resolveSeparator(flags.records, envCfg, cfg),
	})
	if err != nil {
		if bar != nil && n > 0 {
			fmt.Fprintln(env.Stderr)
		}
		if n > 0 {
			logger.Warn("run stopped, earlier documents kept", "written", n, "output_dir", outputDir)
		}
		return err
	}

	if !flags.common.quiet {
		fmt.Fprintf(env.Stdout, "Created %d document(s) in %s", n, outputDir)
		if flags.common.verbose {
			fmt.Fprintf(env.Stdout, " (%v)", time.Since(start).Round(time.Millisecond))
		}
		fmt.Fprintln(env.Stdout)
	}
	return nil
}

// loadConfig loads the config named by --config, else JSON2PDF_CONFIG, else
// returns an empty config.
func loadConfig(flagValue string, env *envConfig) (*config.Config, error) {
	name := flagValue
	if name == "" {
		name = env.ConfigPath
	}
	if name == "" {
		return config.DefaultConfig(), nil
	}

	cfg, err := config.LoadConfig(name)
	if err != nil {
		err = fmt.Errorf("loading config: %w", err)
		if errors.Is(err, config.ErrConfigNotFound) {
			return nil, withHint(err, hints.ForConfigNotFound(config.SearchPaths(name)))
		}
		return nil, err
	}
	return cfg, nil
}

// buildRenderInput assembles the style, page, footer and CSS shared by all
// batches of a run.
func buildRenderInput(cfg *config.Config, inputPath string, now time.Time) (json2pdf.Input, error) {
	page, err := buildPageSettings(cfg)
	if err != nil {
		return json2pdf.Input{}, err
	}
	footer, err := buildFooterData(cfg, now)
	if err != nil {
		return json2pdf.Input{}, err
	}
	userCSS, err := readUserCSS(cfg)
	if err != nil {
		return json2pdf.Input{}, err
	}

	return json2pdf.Input{
		CSS:       userCSS,
		SourceDir: filepath.Dir(inputPath),
		Style:     buildStyle(cfg),
		Page:      page,
		Footer:    footer,
	}, nil
}

// prepareSource returns the record source for the processor, running the
// format repairer first when enabled.
func prepareSource(inputPath string, cfg *config.Config, logger *slog.Logger, env *Environment, quiet bool) (json2pdf.Source, error) {
	if !cfg.Repair.Enabled {
		return json2pdf.Source{Path: inputPath}, nil
	}

	outcome, err := repairSource(inputPath, cfg.Repair.Output, cfg.Repair.ThresholdMB, logger)
	if err != nil {
		return json2pdf.Source{}, err
	}
	if !quiet {
		fmt.Fprintln(env.Stdout, outcome.Status)
	}

	if outcome.WroteFile {
		return json2pdf.Source{Path: outcome.Path}, nil
	}
	return json2pdf.Source{Records: outcome.Records}, nil
}

// repairSource runs the repairer and attaches the threshold hint when a
// large file has no target.
func repairSource(inputPath, target string, thresholdMB float64, logger *slog.Logger) (json2pdf.RepairOutcome, error) {
	outcome, err := json2pdf.Repair(inputPath, json2pdf.RepairOptions{
		Target:      target,
		ThresholdMB: thresholdMB,
		Logger:      logger,
	})
	if err != nil {
		if errors.Is(err, json2pdf.ErrMissingOutputPath) {
			if thresholdMB == 0 {
				thresholdMB = json2pdf.DefaultThresholdMB
			}
			return outcome, withHint(err, hints.ForMissingOutputPath(thresholdMB))
		}
		return outcome, err
	}
	return outcome, nil
}
