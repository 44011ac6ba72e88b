// Package importer parses merchant product catalogs uploaded as CSV.
package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Row is one parsed product line.
type Row struct {
	Name     string
	Category string
	Price    float64
	Cost     float64
}

// RowError records why a line was rejected. Line numbers are 1-based and
// count the header.
type RowError struct {
	Line int
	Err  error
}

func (e RowError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

// Result separates good rows from rejected ones so the caller can import the
// former and report the latter.
type Result struct {
	Rows   []Row
	Errors []RowError
}

var ErrMissingHeader = errors.New(`missing header row "name,category,price,cost"`)

// ParseProducts reads a catalog CSV. The header must name the four expected
// columns in order; each data row needs a non-empty name and non-negative
// price and cost. Bad rows are collected, not fatal.
func ParseProducts(r io.Reader) (Result, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return Result{}, ErrMissingHeader
	}
	if len(header) < 4 ||
		!strings.EqualFold(strings.TrimSpace(header[0]), "name") ||
		!strings.EqualFold(strings.TrimSpace(header[1]), "category") ||
		!strings.EqualFold(strings.TrimSpace(header[2]), "price") ||
		!strings.EqualFold(strings.TrimSpace(header[3]), "cost") {
		return Result{}, ErrMissingHeader
	}

	var res Result
	line := 1
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			res.Errors = append(res.Errors, RowError{Line: line, Err: err})
			continue
		}
		row, err := parseRow(rec)
		if err != nil {
			res.Errors = append(res.Errors, RowError{Line: line, Err: err})
			continue
		}
		res.Rows = append(res.Rows, row)
	}
	return res, nil
}

func parseRow(rec []string) (Row, error) {
	if len(rec) < 4 {
		return Row{}, fmt.Errorf("expected 4 fields, got %d", len(rec))
	}
	name := strings.TrimSpace(rec[0])
	if name == "" {
		return Row{}, errors.New("name is required")
	}
	price, err := strconv.ParseFloat(strings.TrimSpace(rec[2]), 64)
	if err != nil {
		return Row{}, fmt.Errorf("bad price %q", rec[2])
	}
	cost, err := strconv.ParseFloat(strings.TrimSpace(rec[3]), 64)
	if err != nil {
		return Row{}, fmt.Errorf("bad cost %q", rec[3])
	}
	if price < 0 || cost < 0 {
		return Row{}, errors.New("price and cost must be non-negative")
	}
	return Row{
		Name:     name,
		Category: strings.TrimSpace(rec[1]),
		Price:    price,
		Cost:     cost,
	}, nil
}
