// Package writer persists backtest results to disk.
package writer

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/tradeforge/tradeforge/internal/types"
	"gopkg.in/yaml.v3"
)

// ResultWriter persists the artifacts of one backtest run.
type ResultWriter interface {
	// WriteTrade appends one completed trade to the output.
	WriteTrade(trade types.Trade) error

	// WriteEquityCurve writes the full equity series.
	WriteEquityCurve(curve []types.EquityPoint) error

	// WriteResult writes the run summary.
	WriteResult(result *types.BacktestResult) error

	// RunDir returns the directory holding this run's files.
	RunDir() string

	// Close finalizes the writing process.
	Close() error
}

// CSVWriter implements ResultWriter by writing trades.csv, equity_curve.csv
// and result.yaml into a per-run directory under the base directory.
type CSVWriter struct {
	baseDir string
	runDir  string

	tradesFile *os.File
	equityFile *os.File

	tradesCsv *csv.Writer
	equityCsv *csv.Writer
}

// NewCSVWriter creates a writer rooted at baseDir. Each run gets its own
// timestamped directory.
func NewCSVWriter(baseDir string) (*CSVWriter, error) {
	runDir := filepath.Join(baseDir, time.Now().Format("2006-01-02_15-04-05"))

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create run directory: %w", err)
	}

	w := &CSVWriter{
		baseDir: baseDir,
		runDir:  runDir,
	}

	if err := w.initFiles(); err != nil {
		return nil, err
	}

	return w, nil
}

func (w *CSVWriter) initFiles() error {
	tradesFile, err := os.Create(filepath.Join(w.runDir, "trades.csv"))
	if err != nil {
		return fmt.Errorf("failed to create trades file: %w", err)
	}

	w.tradesFile = tradesFile
	w.tradesCsv = csv.NewWriter(tradesFile)

	if err := w.tradesCsv.Write([]string{
		"entry_time", "exit_time", "symbol", "side", "entry_price",
		"exit_price", "quantity", "profit_loss", "profit_rate", "holding_duration",
	}); err != nil {
		return fmt.Errorf("failed to write trades header: %w", err)
	}

	equityFile, err := os.Create(filepath.Join(w.runDir, "equity_curve.csv"))
	if err != nil {
		return fmt.Errorf("failed to create equity curve file: %w", err)
	}

	w.equityFile = equityFile
	w.equityCsv = csv.NewWriter(equityFile)

	if err := w.equityCsv.Write([]string{"timestamp", "equity"}); err != nil {
		return fmt.Errorf("failed to write equity curve header: %w", err)
	}

	return nil
}

// WriteTrade appends one completed trade to trades.csv.
func (w *CSVWriter) WriteTrade(trade types.Trade) error {
	record := []string{
		trade.EntryTime.Format(time.RFC3339),
		trade.ExitTime.Format(time.RFC3339),
		trade.Symbol,
		string(trade.Side),
		fmt.Sprintf("%f", trade.EntryPrice),
		fmt.Sprintf("%f", trade.ExitPrice),
		fmt.Sprintf("%d", trade.Quantity),
		fmt.Sprintf("%f", trade.ProfitLoss),
		fmt.Sprintf("%f", trade.ProfitRate),
		trade.HoldingDuration.String(),
	}

	if err := w.tradesCsv.Write(record); err != nil {
		return fmt.Errorf("failed to write trade: %w", err)
	}

	w.tradesCsv.Flush()

	return w.tradesCsv.Error()
}

// WriteEquityCurve writes the full equity series to equity_curve.csv.
func (w *CSVWriter) WriteEquityCurve(curve []types.EquityPoint) error {
	for _, point := range curve {
		record := []string{
			point.Time.Format(time.RFC3339),
			fmt.Sprintf("%f", point.Equity),
		}

		if err := w.equityCsv.Write(record); err != nil {
			return fmt.Errorf("failed to write equity curve point: %w", err)
		}
	}

	w.equityCsv.Flush()

	return w.equityCsv.Error()
}

// WriteResult writes the run summary to result.yaml and the trade and
// equity series to their CSV files.
func (w *CSVWriter) WriteResult(result *types.BacktestResult) error {
	for _, trade := range result.Trades {
		if err := w.WriteTrade(trade); err != nil {
			return err
		}
	}

	if err := w.WriteEquityCurve(result.EquityCurve); err != nil {
		return err
	}

	resultFile, err := os.Create(filepath.Join(w.runDir, "result.yaml"))
	if err != nil {
		return fmt.Errorf("failed to create result file: %w", err)
	}
	defer resultFile.Close()

	data, err := yaml.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}

	if _, err := resultFile.Write(data); err != nil {
		return fmt.Errorf("failed to write result: %w", err)
	}

	return nil
}

// RunDir returns the directory holding this run's files.
func (w *CSVWriter) RunDir() string {
	return w.runDir
}

// Close flushes and closes the open CSV files.
func (w *CSVWriter) Close() error {
	if w.tradesCsv != nil {
		w.tradesCsv.Flush()
	}

	if w.equityCsv != nil {
		w.equityCsv.Flush()
	}

	if w.tradesFile != nil {
		w.tradesFile.Close()
	}

	if w.equityFile != nil {
		w.equityFile.Close()
	}

	return nil
}
