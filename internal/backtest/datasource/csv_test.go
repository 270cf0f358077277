package datasource

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/tradeforge/tradeforge/pkg/errors"
)

type CSVSourceTestSuite struct {
	suite.Suite
	tempDir string
}

func TestCSVSourceSuite(t *testing.T) {
	suite.Run(t, new(CSVSourceTestSuite))
}

func (suite *CSVSourceTestSuite) SetupTest() {
	tempDir, err := os.MkdirTemp("", "datasource_test")
	suite.NoError(err)
	suite.tempDir = tempDir
}

func (suite *CSVSourceTestSuite) TearDownTest() {
	os.RemoveAll(suite.tempDir)
}

func (suite *CSVSourceTestSuite) writeCSV(name, content string) string {
	path := filepath.Join(suite.tempDir, name)
	suite.NoError(os.WriteFile(path, []byte(content), 0644))

	return path
}

const sampleCSV = `time,open,high,low,close,volume
2024-01-02T00:00:00Z,100,102,99,101,50000
2024-01-03T00:00:00Z,101,104,100,103,61000
2024-01-04T00:00:00Z,103,105,101,102,43000
`

func (suite *CSVSourceTestSuite) TestBars() {
	source := NewCSVSource(suite.writeCSV("bars.csv", sampleCSV))

	bars, err := source.Bars()
	suite.NoError(err)
	suite.Len(bars, 3)
	suite.Equal(101.0, bars[0].Close)
	suite.Equal(50000.0, bars[0].Volume)
	suite.Equal(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), bars[0].Time)
}

func (suite *CSVSourceTestSuite) TestBarsSortedByTime() {
	// Rows out of order in the file are sorted on load.
	shuffled := `time,open,high,low,close,volume
2024-01-04T00:00:00Z,103,105,101,102,43000
2024-01-02T00:00:00Z,100,102,99,101,50000
2024-01-03T00:00:00Z,101,104,100,103,61000
`
	source := NewCSVSource(suite.writeCSV("shuffled.csv", shuffled))

	bars, err := source.Bars()
	suite.NoError(err)
	suite.Len(bars, 3)
	suite.True(bars[0].Time.Before(bars[1].Time))
	suite.True(bars[1].Time.Before(bars[2].Time))
}

func (suite *CSVSourceTestSuite) TestBarsInRange() {
	source := NewCSVSource(suite.writeCSV("bars.csv", sampleCSV))

	bars, err := source.BarsInRange(
		time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC),
	)
	suite.NoError(err)
	suite.Len(bars, 1)
	suite.Equal(103.0, bars[0].Close)
}

func (suite *CSVSourceTestSuite) TestMissingFile() {
	source := NewCSVSource(filepath.Join(suite.tempDir, "missing.csv"))

	_, err := source.Bars()
	suite.True(errors.HasCode(err, errors.ErrCodeDataNotFound))
}

func (suite *CSVSourceTestSuite) TestEmptyFile() {
	source := NewCSVSource(suite.writeCSV("empty.csv", "time,open,high,low,close,volume\n"))

	_, err := source.Bars()
	suite.True(errors.HasCode(err, errors.ErrCodeEmptyData))
}

func (suite *CSVSourceTestSuite) TestNonPositivePriceRejected() {
	bad := `time,open,high,low,close,volume
2024-01-02T00:00:00Z,100,102,-1,101,50000
`
	source := NewCSVSource(suite.writeCSV("bad.csv", bad))

	_, err := source.Bars()
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidParameter))
}

func (suite *CSVSourceTestSuite) TestCacheSurvivesFileRemoval() {
	path := suite.writeCSV("bars.csv", sampleCSV)
	source := NewCSVSource(path)

	_, err := source.Bars()
	suite.NoError(err)

	suite.NoError(os.Remove(path))

	bars, err := source.Bars()
	suite.NoError(err)
	suite.Len(bars, 3)

	source.ClearCache()

	_, err = source.Bars()
	suite.Error(err)
}
