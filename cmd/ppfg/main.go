package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/chrissnell/ppfg/internal/app"
	"github.com/chrissnell/ppfg/internal/constants"
	"github.com/chrissnell/ppfg/internal/log"
	"github.com/chrissnell/ppfg/internal/ppfg"
	"github.com/chrissnell/ppfg/pkg/config"
	"github.com/chrissnell/ppfg/pkg/responseformat"
	"github.com/chrissnell/ppfg/pkg/wellinput"
)

// Run modes for batch use
const (
	modeWorkflow      = "workflow"
	modeProbabilistic = "probabilistic"
	modeSensitivity   = "sensitivity"
	modeEnvelope      = "envelope"
	modeFit           = "fit"
)

type options struct {
	mode    string
	preset  string
	format  string
	fitTop  float64
	fitBase float64
}

func main() {
	cfgFile := flag.String("config", "", "Path to configuration source:\n\t\t\t  YAML: ppfg.yaml\n\t\t\t  SQLite: ppfg.db\n\t\t\t  Use 'config-convert' tool to convert YAML→SQLite\n\t\t\t  Built-in defaults are used when empty")
	cfgBackend := flag.String("config-backend", "yaml", "Configuration backend type: 'yaml' for YAML files, 'sqlite' for SQLite databases")
	wellFile := flag.String("well", "", "Path to a well log bundle (.yaml, .yml or .json)")
	mode := flag.String("mode", modeWorkflow, "Run mode: workflow, probabilistic, sensitivity, envelope or fit")
	preset := flag.String("preset", "", "Named parameter preset from the configuration")
	format := flag.String("format", responseformat.FormatJSON, "Output format: json or msgpack")
	fitTop := flag.Float64("fit-top", 0, "Shallowest depth included in a trend fit")
	fitBase := flag.Float64("fit-base", 0, "Deepest depth included in a trend fit (0 means no limit)")
	serve := flag.Bool("serve", false, "Run the HTTP API instead of a single batch run")
	debug := flag.Bool("debug", false, "Turn on debugging output")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("ppfg %s\n", constants.Version)
		os.Exit(0)
	}

	// Set up logging
	if err := log.Init(*debug); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	provider, err := openProvider(*cfgFile, *cfgBackend)
	if err != nil {
		log.Errorf("Failed to open configuration: %v", err)
		os.Exit(1)
	}
	defer provider.Close()

	if *serve {
		application := app.New(provider, log.GetSugaredLogger())
		if err := application.Run(context.Background()); err != nil {
			log.Errorf("Application error: %v", err)
			os.Exit(1)
		}
		return
	}

	if *wellFile == "" {
		fmt.Fprintf(os.Stderr, "Usage: %s -well <well.yaml> [-mode workflow] [-config ppfg.yaml]\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(1)
	}

	bundle, err := wellinput.Load(*wellFile)
	if err != nil {
		log.Errorf("Failed to load well: %v", err)
		os.Exit(1)
	}

	opts := options{
		mode:    *mode,
		preset:  *preset,
		format:  *format,
		fitTop:  *fitTop,
		fitBase: *fitBase,
	}
	if err := runBatch(os.Stdout, provider, bundle, opts); err != nil {
		log.Errorf("Run failed: %v", err)
		os.Exit(1)
	}
}

// openProvider returns the configured provider, or one serving the built-in
// defaults when no configuration file is given
func openProvider(cfgFile, cfgBackend string) (config.ConfigProvider, error) {
	if cfgFile == "" {
		return config.NewStaticProvider(&config.ConfigData{Engine: ppfg.DefaultParams()}), nil
	}

	filename, _ := filepath.Abs(cfgFile)

	switch cfgBackend {
	case "yaml":
		return config.NewYAMLProvider(filename), nil
	case "sqlite":
		provider, err := config.NewSQLiteProvider(filename)
		if err != nil {
			return nil, fmt.Errorf("error creating SQLite provider: %w", err)
		}
		return provider, nil
	default:
		return nil, fmt.Errorf("unsupported configuration backend: %s. Use 'yaml' or 'sqlite'", cfgBackend)
	}
}

func runBatch(w io.Writer, provider config.ConfigProvider, bundle *wellinput.Bundle, opts options) error {
	cfgData, err := provider.LoadConfig()
	if err != nil {
		return fmt.Errorf("error reading configuration. Did you pass the -config flag? Run with -h for help: %w", err)
	}

	params := cfgData.Engine
	if opts.preset != "" {
		p, ok := config.FindPreset(cfgData.Presets, opts.preset)
		if !ok {
			return fmt.Errorf("unknown preset: %s", opts.preset)
		}
		params = p.Params
	}

	logs := bundle.WellLogs()
	log.Debugw("loaded well", "name", bundle.Name, "depths", len(logs.Depths), "mode", opts.mode)

	start := time.Now()
	result, err := execute(opts, logs, params)
	if err != nil {
		return err
	}
	log.Infow("run complete", "mode", opts.mode, "depths", len(logs.Depths), "duration", time.Since(start))

	formatter := responseformat.NewFormatter()
	return formatter.Encode(w, opts.format, result)
}

func execute(opts options, logs ppfg.WellLogs, params ppfg.Params) (any, error) {
	switch opts.mode {
	case modeWorkflow:
		profile, err := ppfg.RunWorkflow(logs, params)
		if err != nil {
			return nil, err
		}
		if n := profile.Degenerate.Count(); n > 0 {
			log.Warnw("substituted degenerate samples",
				"count", n,
				"density", profile.Degenerate.Density,
				"sonic", profile.Degenerate.Sonic,
			)
		}
		return map[string]any{"profile": profile, "summary": ppfg.Summarize(profile)}, nil
	case modeProbabilistic:
		return ppfg.GenerateCases(logs, params)
	case modeSensitivity:
		return ppfg.RunSensitivity(logs, params)
	case modeEnvelope:
		return ppfg.CalculateUncertaintyEnvelope(logs, params)
	case modeFit:
		// Only depths and DT take part in a fit; FitNormalTrend checks their pairing
		return ppfg.FitNormalTrend(logs.Depths, logs.DT, depthMask(logs.Depths, opts.fitTop, opts.fitBase))
	default:
		return nil, errors.New("unsupported mode: " + opts.mode)
	}
}

// depthMask selects samples between top and base. A zero base leaves the
// interval open below.
func depthMask(depths []float64, top, base float64) []bool {
	mask := make([]bool, len(depths))
	for i, z := range depths {
		mask[i] = z >= top && (base == 0 || z <= base)
	}
	return mask
}
