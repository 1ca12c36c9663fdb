package timeseries

import (
	"bufio"
	"encoding/csv"
	"errors"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// CSVOptions holds options for CSV loading.
type CSVOptions struct {
	PositionColumn string // Column name for positions (numeric or dated)
	ValueColumn    string // Column name for values (default: "y")
	IDColumn       string // Column name for series ID (optional, for filtering)
	IDFilter       string // Value to filter by ID column
	DateFormat     string // Date format for dated position columns (default: "2006-01-02")
	HasHeader      bool   // Whether CSV has header row (default: true)
	Delimiter      rune   // Field delimiter (default: ',')
	SkipRows       int    // Number of rows to skip at start
}

// DefaultCSVOptions returns default options for CSV loading.
func DefaultCSVOptions() *CSVOptions {
	return &CSVOptions{
		ValueColumn: "y",
		DateFormat:  "2006-01-02",
		HasHeader:   true,
		Delimiter:   ',',
	}
}

// LoadCSVXY loads a (position, value) series from a CSV file. When the
// position column holds dates, positions become seconds since the earliest
// date; when it holds numbers, they are used as-is. With no recognizable
// position column, index positions are assigned.
func LoadCSVXY(filename string, opts *CSVOptions) (*Series, error) {
	if opts == nil {
		opts = DefaultCSVOptions()
	}

	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return LoadCSVXYFromReader(file, opts)
}

// LoadCSVXYFromReader loads a (position, value) series from an io.Reader.
func LoadCSVXYFromReader(r io.Reader, opts *CSVOptions) (*Series, error) {
	if opts == nil {
		opts = DefaultCSVOptions()
	}

	reader := csv.NewReader(r)
	reader.Comma = opts.Delimiter
	reader.TrimLeadingSpace = true

	for i := 0; i < opts.SkipRows; i++ {
		if _, err := reader.Read(); err != nil {
			return nil, err
		}
	}

	var valueIdx, posIdx, idIdx int = -1, -1, -1

	if opts.HasHeader {
		header, err := reader.Read()
		if err != nil {
			return nil, err
		}

		for i, h := range header {
			h = strings.TrimSpace(strings.Trim(h, "\""))
			switch {
			case h == opts.ValueColumn || (opts.ValueColumn == "" && (h == "y" || h == "value" || h == "Value")):
				valueIdx = i
			case opts.PositionColumn != "" && h == opts.PositionColumn:
				posIdx = i
			case h == "ds" || h == "x" || h == "t" || h == "date" || h == "Date" || h == "Month" || h == "Year":
				if posIdx == -1 && opts.PositionColumn == "" {
					posIdx = i
				}
			case opts.IDColumn != "" && h == opts.IDColumn:
				idIdx = i
			case h == "unique_id" || h == "id" || h == "ID":
				if idIdx == -1 && opts.IDColumn == "" {
					idIdx = i
				}
			}
		}

		if valueIdx == -1 {
			// Default to last column if not specified
			valueIdx = len(header) - 1
		}
	} else {
		// No header - assume (position, value) column order
		posIdx = 0
		valueIdx = 1
	}

	var values []float64
	var positions []float64
	var timestamps []time.Time

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		if opts.IDFilter != "" && idIdx >= 0 && idIdx < len(record) {
			id := strings.TrimSpace(strings.Trim(record[idIdx], "\""))
			if id != opts.IDFilter {
				continue
			}
		}

		if valueIdx < 0 || valueIdx >= len(record) {
			continue
		}
		valStr := strings.TrimSpace(strings.Trim(record[valueIdx], "\""))
		if valStr == "" || valStr == "NA" || valStr == "NaN" || valStr == "null" {
			continue
		}
		val, err := strconv.ParseFloat(valStr, 64)
		if err != nil {
			continue // Skip invalid values
		}

		if posIdx >= 0 && posIdx < len(record) {
			posStr := strings.TrimSpace(strings.Trim(record[posIdx], "\""))
			if pos, err := strconv.ParseFloat(posStr, 64); err == nil {
				values = append(values, val)
				positions = append(positions, pos)
				continue
			}
			if ts, err := parseDate(posStr, opts.DateFormat); err == nil {
				values = append(values, val)
				timestamps = append(timestamps, ts)
				continue
			}
			continue // Unparseable position
		}

		values = append(values, val)
	}

	if len(values) == 0 {
		return nil, errors.New("no valid data found in CSV")
	}

	if len(timestamps) == len(values) {
		return FromTimestamps(timestamps, values)
	}
	if len(positions) == len(values) {
		return NewXY(positions, values)
	}
	return New(values), nil
}

// parseDate tries the preferred format first, then common fallbacks.
func parseDate(s, preferred string) (time.Time, error) {
	formats := []string{
		preferred,
		"2006-01-02",
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"2006/01/02",
		"01/02/2006",
		"02-Jan-2006",
		"2006",
	}
	var ts time.Time
	var err error
	for _, format := range formats {
		ts, err = time.Parse(format, s)
		if err == nil {
			return ts, nil
		}
	}
	return time.Time{}, err
}

// SaveCSV saves a series to a CSV file as position,value rows.
// Missing values are written as "NaN".
func SaveCSV(series *Series, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	defer writer.Flush()

	writer.WriteString("x,y\n")
	for i, v := range series.Values {
		writer.WriteString(strconv.FormatFloat(series.Positions[i], 'f', -1, 64))
		writer.WriteString(",")
		if IsMissing(v) {
			writer.WriteString("NaN")
		} else {
			writer.WriteString(strconv.FormatFloat(v, 'f', -1, 64))
		}
		writer.WriteString("\n")
	}

	return nil
}
