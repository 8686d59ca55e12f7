// Command forcepool replays a campaign scenario against a theater of bases and
// prints every command's outcome as YAML.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/skybreak/forcepool/internal/base"
	"github.com/skybreak/forcepool/internal/campaign"
	"github.com/skybreak/forcepool/internal/catalog"
	"github.com/skybreak/forcepool/internal/config"
	"github.com/skybreak/forcepool/internal/database"
	"github.com/skybreak/forcepool/internal/logging"
	intOtel "github.com/skybreak/forcepool/internal/otel"
	"github.com/skybreak/forcepool/internal/sam"
	"github.com/skybreak/forcepool/internal/theater"
)

// BuildDate can be set at build time via ldflags
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
)

const programName = "forcepool"

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "forcepool:", err)
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	configDir := fs.String("config", ".", "directory holding "+config.FileName)
	scenarioPath := fs.String("scenario", "", "YAML scenario to replay")
	listCommands := fs.Bool("commands", false, "list driver commands and exit")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := config.Load(*configDir); err != nil {
		config.LoadDefaults()
		fmt.Fprintf(os.Stderr, "using default configuration: %v\n", err)
	}

	runStart := time.Now()
	logsDir := config.GetString("logsDir")
	if err := os.MkdirAll(logsDir, 0o755); err != nil {
		return fmt.Errorf("creating logs dir: %w", err)
	}
	logFile, err := os.Create(logging.LogFilePath(logsDir, programName, runStart))
	if err != nil {
		return fmt.Errorf("creating log file: %w", err)
	}
	defer logFile.Close()

	otelProvider, otelFile, err := setupOTel(logsDir, runStart)
	if err != nil {
		return err
	}
	if otelFile != nil {
		defer otelFile.Close()
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = otelProvider.Shutdown(ctx)
	}()

	var graylog io.Writer
	if gc := config.GetGraylogConfig(); gc.Enabled {
		w, err := logging.NewGraylogWriter(gc.Address)
		if err != nil {
			fmt.Fprintf(os.Stderr, "graylog disabled: %v\n", err)
		} else {
			defer w.Close()
			graylog = w
		}
	}

	// the theater is created after the logger it logs through
	var th *theater.Theater
	slogManager := logging.NewSlogManager()
	slogManager.Setup(logging.Options{
		Level:    config.GetString("logLevel"),
		File:     logFile,
		Graylog:  graylog,
		Provider: otelProvider.LoggerProvider(),
		Context: func() []slog.Attr {
			if th == nil {
				return nil
			}
			return th.LogAttrs()
		},
	})
	logger := slogManager.Logger()
	logger.Info("Starting up", "version", Version, "buildDate", BuildDate)
	if config.GetOTelConfig().Enabled {
		logger.Info("OTel logging enabled", "serviceName", otelProvider.ServiceName())
	}

	cat, err := loadCatalog(logger)
	if err != nil {
		return err
	}
	logger.Info("Catalog loaded", "unitTypes", cat.Len())

	sc := config.GetSizingConfig()
	th = theater.New(theater.Dependencies{
		Catalog: cat,
		Logger:  logger,
		Sizing: &base.Sizing{
			PlanesImportanceFactor: sc.PlanesImportanceFactor,
			ArmorImportanceFactor:  sc.ArmorImportanceFactor,
			PlanesInGroup:          sc.PlanesInGroup,
		},
	})

	var scenario *campaign.Scenario
	if !*listCommands {
		if *scenarioPath == "" {
			return fmt.Errorf("-scenario is required")
		}
		if scenario, err = campaign.LoadScenario(*scenarioPath); err != nil {
			return err
		}
	}

	var gen sam.Generator = sam.NewGepardGenerator(nil)
	if scenario != nil && scenario.Seed != nil {
		gen = sam.NewGepardGenerator(rand.New(rand.NewPCG(*scenario.Seed, *scenario.Seed)))
	}

	runner, err := campaign.NewRunner(campaign.Dependencies{
		Theater: th,
		Catalog: cat,
		Logger:  logger,
		SAM:     []sam.Generator{gen},
	})
	if err != nil {
		return err
	}

	if *listCommands {
		for _, cmd := range runner.Commands() {
			fmt.Fprintln(stdout, cmd)
		}
		return nil
	}

	steps, err := runner.Run(scenario)
	if err != nil {
		return err
	}
	logger.Info("Scenario complete", "commands", len(steps), "turn", th.Turn())

	enc := yaml.NewEncoder(stdout)
	enc.SetIndent(2)
	if err := enc.Encode(map[string]any{"steps": steps}); err != nil {
		return fmt.Errorf("writing results: %w", err)
	}
	if err := enc.Close(); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := slogManager.Flush(ctx); err != nil {
		logger.Warn("Failed to flush OTel data", "error", err)
	}
	return nil
}

func setupOTel(logsDir string, runStart time.Time) (*intOtel.Provider, *os.File, error) {
	oc := config.GetOTelConfig()
	cfg := intOtel.Config{
		Enabled:      oc.Enabled,
		ServiceName:  oc.ServiceName,
		BatchTimeout: oc.BatchTimeout,
		Endpoint:     oc.Endpoint,
		Insecure:     oc.Insecure,
	}

	var f *os.File
	if oc.Enabled {
		var err error
		f, err = os.Create(logging.LogFilePath(logsDir, programName+".otel", runStart))
		if err != nil {
			return nil, nil, fmt.Errorf("creating otel log file: %w", err)
		}
		cfg.LogWriter = f
	}

	p, err := intOtel.New(cfg)
	if err != nil {
		if f != nil {
			f.Close()
		}
		return nil, nil, fmt.Errorf("setting up otel: %w", err)
	}
	return p, f, nil
}

// loadCatalog builds the unit table from the configured source.
func loadCatalog(logger *slog.Logger) (*catalog.Catalog, error) {
	cc := config.GetCatalogConfig()

	switch cc.Source {
	case "", "builtin":
		return catalog.Builtin(), nil
	case "yaml":
		return catalog.LoadYAML(cc.Path)
	case "sqlite", "postgres":
		m := database.NewManager(logger)
		var err error
		if cc.Source == "postgres" {
			err = m.Connect(config.GetDBConfig(), sqliteFallback(cc.Path))
		} else {
			err = m.ConnectSqlite(cc.Path)
		}
		if err != nil {
			return nil, err
		}
		defer m.Close()

		if err := m.Setup(); err != nil {
			return nil, err
		}
		if cc.Seed {
			if _, err := m.SeedCatalog(catalog.Builtin()); err != nil {
				return nil, err
			}
		}
		return m.LoadCatalog()
	default:
		return nil, fmt.Errorf("unknown catalog source %q", cc.Source)
	}
}

func sqliteFallback(path string) string {
	if path != "" {
		return path
	}
	return filepath.Join(config.GetString("logsDir"), "catalog.db")
}
