package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/moznion/go-optional"
	"github.com/tradeforge/tradeforge/internal/backtest"
	"github.com/tradeforge/tradeforge/internal/backtest/datasource"
	"github.com/tradeforge/tradeforge/internal/backtest/writer"
	"github.com/tradeforge/tradeforge/internal/logger"
	"github.com/tradeforge/tradeforge/internal/strategy"
	"github.com/tradeforge/tradeforge/internal/version"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// backtestAction loads the data and configs, runs one backtest and writes
// the result files.
func backtestAction(ctx context.Context, cmd *cli.Command) error {
	newLogger := logger.NewLogger
	if cmd.Bool("debug") {
		newLogger = logger.NewDebugLogger
	}

	log, err := newLogger()
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer log.Sync()

	strategyConfig, err := loadStrategyConfig(cmd)
	if err != nil {
		return err
	}

	if strategyConfig.EngineVersion != "" {
		if err := version.CheckVersionCompatibility(version.GetVersion(), strategyConfig.EngineVersion); err != nil {
			return err
		}
	}

	backtestConfig, err := loadBacktestConfig(cmd)
	if err != nil {
		return err
	}

	registry := strategy.NewDefaultRegistry()

	strat, err := registry.Create(cmd.String("strategy"), strategyConfig)
	if err != nil {
		return err
	}

	source := datasource.NewCSVSource(cmd.String("data"))

	bars, err := source.Bars()
	if err != nil {
		return err
	}

	result, err := backtest.New(strat, backtestConfig, log).Run(bars)
	if err != nil {
		return err
	}

	resultWriter, err := writer.NewCSVWriter(cmd.String("output"))
	if err != nil {
		return err
	}
	defer resultWriter.Close()

	if err := resultWriter.WriteResult(result); err != nil {
		return err
	}

	log.Info("Results written", zap.String("dir", resultWriter.RunDir()))

	fmt.Println(RenderSummary(result))

	return nil
}

// loadStrategyConfig reads the strategy config file if given, or builds one
// from the strategy name.
func loadStrategyConfig(cmd *cli.Command) (*strategy.Config, error) {
	if path := cmd.String("config"); path != "" {
		return strategy.LoadConfigFile(path)
	}

	config := strategy.NewConfig(cmd.String("strategy"))
	config.Symbols = []string{cmd.String("symbol")}

	return config, nil
}

// loadBacktestConfig reads the backtest config file if given, then applies
// flag overrides on top.
func loadBacktestConfig(cmd *cli.Command) (backtest.Config, error) {
	config := backtest.DefaultConfig()

	if path := cmd.String("backtest-config"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return config, fmt.Errorf("failed to read backtest config: %w", err)
		}

		if err := yaml.Unmarshal(data, &config); err != nil {
			return config, fmt.Errorf("failed to parse backtest config: %w", err)
		}
	}

	if cmd.IsSet("capital") {
		config.InitialCapital = cmd.Float64("capital")
	}

	if cmd.IsSet("commission") {
		config.Commission = cmd.Float64("commission")
	}

	if cmd.IsSet("slippage") {
		config.Slippage = cmd.Float64("slippage")
	}

	if cmd.IsSet("start") {
		config.StartTime = optional.Some(cmd.Timestamp("start"))
	}

	if cmd.IsSet("end") {
		config.EndTime = optional.Some(cmd.Timestamp("end"))
	}

	config.ShowProgress = cmd.Bool("progress")

	if err := config.Validate(); err != nil {
		return config, err
	}

	return config, nil
}

func strategiesAction(ctx context.Context, cmd *cli.Command) error {
	registry := strategy.NewDefaultRegistry()

	fmt.Println(TitleStyle.Render("Available strategies"))

	for _, name := range registry.ListStrategies() {
		fmt.Println("  " + name)
	}

	return nil
}

func schemaAction(ctx context.Context, cmd *cli.Command) error {
	schema, err := strategy.NewConfig("schema").GenerateSchemaJSON()
	if err != nil {
		return err
	}

	fmt.Println(schema)

	return nil
}

func versionAction(ctx context.Context, cmd *cli.Command) error {
	fmt.Println(version.GetVersion())

	return nil
}

func main() {
	// Optional .env for local development; a missing file is not an error.
	_ = godotenv.Load()

	dateLayouts := cli.TimestampConfig{
		Layouts: []string{"2006-01-02", time.RFC3339},
	}

	cmd := &cli.Command{
		Name:  "tradeforge",
		Usage: "Evaluate trading strategies against historical data",
		Commands: []*cli.Command{
			{
				Name:  "backtest",
				Usage: "Run a strategy against a CSV bar file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "data",
						Aliases:  []string{"d"},
						Usage:    "Path to the CSV bar file",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "strategy",
						Aliases: []string{"s"},
						Usage:   "Registered strategy name",
						Value:   strategy.StrategySMACrossover,
					},
					&cli.StringFlag{
						Name:  "symbol",
						Usage: "Symbol to report trades under",
						Value: "005930",
					},
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Strategy config file (.yaml, .yml or .json)",
					},
					&cli.StringFlag{
						Name:  "backtest-config",
						Usage: "Backtest config file overriding the cost defaults",
					},
					&cli.Float64Flag{
						Name:  "capital",
						Usage: "Initial capital override",
					},
					&cli.Float64Flag{
						Name:  "commission",
						Usage: "Commission rate override",
					},
					&cli.Float64Flag{
						Name:  "slippage",
						Usage: "Slippage rate override",
					},
					&cli.TimestampFlag{
						Name:   "start",
						Usage:  "Start of the simulated window (`YYYY-MM-DD`)",
						Config: dateLayouts,
					},
					&cli.TimestampFlag{
						Name:   "end",
						Usage:  "End of the simulated window (`YYYY-MM-DD`)",
						Config: dateLayouts,
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Directory for result files",
						Value:   "results",
					},
					&cli.BoolFlag{
						Name:  "progress",
						Usage: "Show a progress bar while running",
					},
					&cli.BoolFlag{
						Name:  "debug",
						Usage: "Enable debug logging",
					},
				},
				Action: backtestAction,
			},
			{
				Name:   "strategies",
				Usage:  "List registered strategies",
				Action: strategiesAction,
			},
			{
				Name:   "schema",
				Usage:  "Print the strategy config JSON schema",
				Action: schemaAction,
			},
			{
				Name:   "version",
				Usage:  "Print the engine version",
				Action: versionAction,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(ErrorStyle.Render(err.Error()))
	}
}
