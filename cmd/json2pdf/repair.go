package main

import (
	"fmt"
	"strings"
)

// runRepair runs the format repairer on its own and prints the outcome.
// In-memory outcomes write nothing; they only report what convert would load.
func runRepair(args []string, env *Environment) error {
	flags, positional, err := parseRepairFlags(args, env.Stdout)
	if err != nil {
		return err
	}

	envCfg := loadEnvConfig()
	cfg, err := loadConfig(flags.common.config, envCfg)
	if err != nil {
		return err
	}
	applyEnvConfig(envCfg, cfg)
	if flags.output != "" {
		cfg.Repair.Output = flags.output
	}
	if flags.thresholdMB != 0 {
		cfg.Repair.ThresholdMB = flags.thresholdMB
	}
	if flags.common.logLevel != "" {
		cfg.Log.Level = flags.common.logLevel
	}
	if flags.common.logFile != "" {
		cfg.Log.File = flags.common.logFile
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	inputPath, err := resolveInputPath(positional, cfg)
	if err != nil {
		return err
	}

	logger, closeLog, err := setupLogger(env.Stderr, logOptions{
		level:   cfg.Log.Level,
		quiet:   flags.common.quiet,
		verbose: flags.common.verbose,
		file:    cfg.Log.File,
	})
	if err != nil {
		return err
	}
	defer func() { _ = closeLog() }()

	outcome, err := repairSource(inputPath, cfg.Repair.Output, cfg.Repair.ThresholdMB, logger)
	if err != nil {
		return err
	}

	if flags.common.quiet {
		return nil
	}
	fmt.Fprintln(env.Stdout, outcome.Status)
	if !outcome.WroteFile && flags.common.verbose {
		fmt.Fprintf(env.Stdout, "fields: %s\n", strings.Join(outcome.Records[0].Names(), ", "))
	}
	return nil
}
