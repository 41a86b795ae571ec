package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/admitwise/josaa/internal/domain/model"
	"github.com/admitwise/josaa/pkg/metrics"
)

// Required and optional dataset columns. Header matching is
// case-insensitive; the aliases cover both the raw JoSAA export naming and
// snake_case variants of it.
var columnAliases = map[string]string{
	"institute":             "institute",
	"academic program name": "branch",
	"branch":                "branch",
	"category":              "category",
	"college type":          "college_type",
	"college_type":          "college_type",
	"round":                 "round",
	"round_no":              "round",
	"opening rank":          "opening_rank",
	"opening_rank":          "opening_rank",
	"closing rank":          "closing_rank",
	"closing_rank":          "closing_rank",
	"location":              "location",
}

var requiredColumns = []string{
	"institute", "branch", "category", "college_type",
	"round", "opening_rank", "closing_rank",
}

// Load reads and validates the cutoff CSV at path and builds a Table.
// A missing file or a malformed schema is fatal; individually bad rows are
// rejected and counted in the table's LoadStats.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpenSource, err)
	}
	defer f.Close()
	return LoadFrom(f)
}

// LoadFrom reads the cutoff dataset from r. See Load.
func LoadFrom(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // row width validated against the header below
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, &SchemaError{Reason: fmt.Sprintf("reading header: %v", err)}
	}
	cols, err := mapColumns(header)
	if err != nil {
		return nil, err
	}

	var (
		rows  []model.HistoricalRecord
		stats LoadStats
		seen  = make(map[string]int) // primary key -> index in rows
	)
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &SchemaError{Reason: fmt.Sprintf("reading row %d: %v", stats.TotalRows+2, err)}
		}
		stats.TotalRows++

		row, ok := parseRow(record, cols, &stats)
		if !ok {
			continue
		}
		if prev, dup := seen[row.Key()]; dup {
			// Last row wins on primary-key collisions.
			rows[prev] = row
			stats.Duplicates++
			continue
		}
		seen[row.Key()] = len(rows)
		rows = append(rows, row)
		stats.Loaded++
	}

	if len(rows) == 0 {
		return nil, &SchemaError{Reason: ErrEmptyDataset.Error()}
	}

	t := build(rows, stats)
	metrics.UpdateDatasetRows(t.Len())
	metrics.RecordDatasetRejects(stats.RejectedRanks + stats.RejectedOrder)
	return t, nil
}

// mapColumns resolves the header into canonical column positions and fails
// with a SchemaError if any required column is absent.
func mapColumns(header []string) (map[string]int, error) {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(h))
		if canonical, ok := columnAliases[key]; ok {
			cols[canonical] = i
		}
	}
	for _, required := range requiredColumns {
		if _, ok := cols[required]; !ok {
			return nil, &SchemaError{Reason: fmt.Sprintf("missing required column %q", required)}
		}
	}
	return cols, nil
}

// parseRow converts one CSV record into a HistoricalRecord, rejecting rows
// with malformed cells. Rejections are counted, never silently kept.
func parseRow(record []string, cols map[string]int, stats *LoadStats) (model.HistoricalRecord, bool) {
	cell := func(name string) string {
		i, ok := cols[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	institute := cell("institute")
	branch := cell("branch")
	if institute == "" || branch == "" {
		stats.RejectedRanks++
		return model.HistoricalRecord{}, false
	}

	category, ok := model.ParseCategory(cell("category"))
	if !ok {
		stats.RejectedRanks++
		return model.HistoricalRecord{}, false
	}
	collegeType, ok := model.ParseCollegeType(cell("college_type"))
	if !ok {
		stats.RejectedRanks++
		return model.HistoricalRecord{}, false
	}

	round, err := strconv.Atoi(cell("round"))
	if err != nil || round < 1 {
		stats.RejectedRanks++
		return model.HistoricalRecord{}, false
	}
	opening, ok := parseRank(cell("opening_rank"))
	if !ok {
		stats.RejectedRanks++
		return model.HistoricalRecord{}, false
	}
	closing, ok := parseRank(cell("closing_rank"))
	if !ok {
		stats.RejectedRanks++
		return model.HistoricalRecord{}, false
	}
	if closing < opening {
		stats.RejectedOrder++
		return model.HistoricalRecord{}, false
	}

	return model.HistoricalRecord{
		Institute:   institute,
		Branch:      branch,
		Location:    cell("location"),
		Category:    category,
		CollegeType: collegeType,
		RoundNo:     round,
		OpeningRank: opening,
		ClosingRank: closing,
	}, true
}

// parseRank parses a positive integer rank. The raw export occasionally
// carries thousands separators; those are tolerated.
func parseRank(s string) (int, bool) {
	s = strings.ReplaceAll(s, ",", "")
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}
