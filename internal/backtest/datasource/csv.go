// Package datasource loads historical bar data for backtesting.
package datasource

import (
	"os"
	"sort"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/tradeforge/tradeforge/internal/types"
	"github.com/tradeforge/tradeforge/pkg/errors"
)

// BarSource provides ordered bars for a simulation run.
type BarSource interface {
	// Bars returns every bar in ascending time order.
	Bars() ([]types.Bar, error)
	// BarsInRange returns the bars inside the inclusive window.
	BarsInRange(start, end time.Time) ([]types.Bar, error)
}

// CSVSource reads bars from a CSV file with a header row matching the Bar
// column names (time, open, high, low, close, volume). Rows are cached
// after the first read.
type CSVSource struct {
	FilePath string
	cache    []types.Bar
}

// NewCSVSource creates a bar source backed by the given CSV file.
func NewCSVSource(filePath string) *CSVSource {
	return &CSVSource{
		FilePath: filePath,
		cache:    nil,
	}
}

// Bars returns every bar in the file, sorted by time.
func (s *CSVSource) Bars() ([]types.Bar, error) {
	if err := s.load(); err != nil {
		return nil, err
	}

	return s.cache, nil
}

// BarsInRange returns the cached bars inside the inclusive window.
func (s *CSVSource) BarsInRange(start, end time.Time) ([]types.Bar, error) {
	if err := s.load(); err != nil {
		return nil, err
	}

	return types.WindowBars(s.cache, &start, &end), nil
}

// ClearCache drops the cached rows so the next read hits the file again.
func (s *CSVSource) ClearCache() {
	s.cache = nil
}

func (s *CSVSource) load() error {
	if s.cache != nil {
		return nil
	}

	csvFile, err := os.Open(s.FilePath)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeDataNotFound, err, "cannot open bar file %s", s.FilePath)
	}
	defer csvFile.Close()

	var bars []types.Bar
	if err := gocsv.UnmarshalFile(csvFile, &bars); err != nil {
		return errors.Wrapf(errors.ErrCodeConfigParse, err, "cannot parse bar file %s", s.FilePath)
	}

	if len(bars) == 0 {
		return errors.Newf(errors.ErrCodeEmptyData, "bar file %s contains no rows", s.FilePath)
	}

	sort.Slice(bars, func(i, j int) bool {
		return bars[i].Time.Before(bars[j].Time)
	})

	if err := types.ValidateBars(bars); err != nil {
		return err
	}

	s.cache = bars

	return nil
}
