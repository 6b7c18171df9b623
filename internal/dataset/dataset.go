// Package dataset reads the labelled patient table used to train the
// classifier and splits it for evaluation.
package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

var (
	ErrEmpty         = errors.New("dataset has no rows")
	ErrMissingColumn = errors.New("column not found")
)

// Options selects the target and feature columns.
type Options struct {
	Target string
	// Drop lists identifier columns that are never features.
	Drop []string
	// Features, when set, is the exact ordered column list to load.
	// Otherwise every column except Target and Drop is used.
	Features []string
}

func DefaultOptions() Options {
	return Options{
		Target: "Diagnosis",
		Drop:   []string{"PatientID", "DoctorInCharge"},
	}
}

// Table is a dense numeric feature matrix with binary labels.
type Table struct {
	Columns []string
	X       [][]float64
	Y       []int
}

func (t *Table) Len() int { return len(t.Y) }

// ClassCounts returns how many rows carry each label.
func (t *Table) ClassCounts() map[int]int {
	counts := make(map[int]int)
	for _, y := range t.Y {
		counts[y]++
	}
	return counts
}

// Subset copies the given rows into a new table.
func (t *Table) Subset(rows []int) *Table {
	out := &Table{
		Columns: t.Columns,
		X:       make([][]float64, len(rows)),
		Y:       make([]int, len(rows)),
	}
	for i, r := range rows {
		out.X[i] = t.X[r]
		out.Y[i] = t.Y[r]
	}
	return out
}

// Load opens path and parses it with Read.
func Load(ctx context.Context, path string, opts Options) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	table, err := Read(ctx, f, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return table, nil
}

// Read parses a header-first CSV. The reader checks ctx between rows.
func Read(ctx context.Context, r io.Reader, opts Options) (*Table, error) {
	if opts.Target == "" {
		opts.Target = DefaultOptions().Target
	}

	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimPrefix(strings.TrimSpace(name), "\ufeff")
		index[name] = i
	}

	targetIdx, ok := index[opts.Target]
	if !ok {
		return nil, fmt.Errorf("target %q: %w", opts.Target, ErrMissingColumn)
	}

	columns, err := selectColumns(header, index, opts)
	if err != nil {
		return nil, err
	}
	colIdx := make([]int, len(columns))
	for i, c := range columns {
		colIdx[i] = index[c]
	}

	table := &Table{Columns: columns}
	line := 1
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}

		row := make([]float64, len(colIdx))
		for i, idx := range colIdx {
			v, err := strconv.ParseFloat(strings.TrimSpace(record[idx]), 64)
			if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("row %d, column %s: %q is not a number", line, columns[i], record[idx])
			}
			row[i] = v
		}

		label, err := parseLabel(record[targetIdx])
		if err != nil {
			return nil, fmt.Errorf("row %d, column %s: %w", line, opts.Target, err)
		}

		table.X = append(table.X, row)
		table.Y = append(table.Y, label)
	}

	if table.Len() == 0 {
		return nil, ErrEmpty
	}
	return table, nil
}

func selectColumns(header []string, index map[string]int, opts Options) ([]string, error) {
	if len(opts.Features) > 0 {
		for _, f := range opts.Features {
			if _, ok := index[f]; !ok {
				return nil, fmt.Errorf("feature %q: %w", f, ErrMissingColumn)
			}
			if f == opts.Target {
				return nil, fmt.Errorf("feature %q is the target column", f)
			}
		}
		return append([]string(nil), opts.Features...), nil
	}

	skip := map[string]bool{opts.Target: true}
	for _, d := range opts.Drop {
		skip[d] = true
	}
	var columns []string
	for _, name := range header {
		name = strings.TrimPrefix(strings.TrimSpace(name), "\ufeff")
		if !skip[name] {
			columns = append(columns, name)
		}
	}
	if len(columns) == 0 {
		return nil, errors.New("no feature columns left after dropping target and identifiers")
	}
	return columns, nil
}

func parseLabel(s string) (int, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not a label", s)
	}
	switch v {
	case 0:
		return 0, nil
	case 1:
		return 1, nil
	default:
		return 0, fmt.Errorf("label %v is not 0 or 1", v)
	}
}
