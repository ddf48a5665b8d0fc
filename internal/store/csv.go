package store

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"ChipLens/internal/model"
)

// ImportCSV reads daily bars from a CSV file with columns
// date,open,high,low,close,volume[,turnover_rate]. A header row is skipped
// when the open column of the first row is not numeric. Rows violating the
// bar invariants (low <= open,close <= high, volume >= 0) are rejected:
// the engine relies on the data layer supplying validated bars.
func ImportCSV(path string) ([]model.Bar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("csv %s is empty", path)
	}

	start := 0
	if len(records[0]) >= 2 {
		if _, err := strconv.ParseFloat(strings.TrimSpace(records[0][1]), 64); err != nil {
			start = 1 // header row
		}
	}

	bars := make([]model.Bar, 0, len(records)-start)
	for i := start; i < len(records); i++ {
		bar, err := parseRow(records[i])
		if err != nil {
			return nil, fmt.Errorf("csv %s row %d: %w", path, i+1, err)
		}
		bars = append(bars, bar)
	}
	return bars, nil
}

func parseRow(rec []string) (model.Bar, error) {
	if len(rec) < 6 {
		return model.Bar{}, fmt.Errorf("expected at least 6 columns, got %d", len(rec))
	}
	fields := make([]float64, len(rec)-1)
	for i := 1; i < len(rec) && i < 8; i++ {
		v, err := strconv.ParseFloat(strings.TrimSpace(rec[i]), 64)
		if err != nil {
			return model.Bar{}, fmt.Errorf("column %d: %w", i+1, err)
		}
		fields[i-1] = v
	}

	b := model.Bar{
		Date:   strings.TrimSpace(rec[0]),
		Open:   fields[0],
		High:   fields[1],
		Low:    fields[2],
		Close:  fields[3],
		Volume: fields[4],
	}
	if len(rec) >= 7 {
		b.TurnoverRate = fields[5]
	}

	if b.Low > b.High || b.Open < b.Low || b.Open > b.High || b.Close < b.Low || b.Close > b.High {
		return model.Bar{}, fmt.Errorf("price range invariant violated: low=%g open=%g close=%g high=%g", b.Low, b.Open, b.Close, b.High)
	}
	if b.Volume < 0 {
		return model.Bar{}, fmt.Errorf("negative volume %g", b.Volume)
	}
	return b, nil
}
