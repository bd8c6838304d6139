// Package comparables loads and selects comparable sale records, the
// market evidence behind the valuation chapter. The engine only ever sees
// the user-selected subset; searching and pagination happen upstream.
package comparables

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Record is one prior sale transaction.
type Record struct {
	Address  string
	Rooms    float64
	Floor    string
	Area     float64
	Price    float64
	SaleDate string
	Included bool
}

// PricePerArea is the record's price per square meter, or (0, false) when
// the area is not positive.
func (r Record) PricePerArea() (float64, bool) {
	if r.Area <= 0 {
		return 0, false
	}
	return r.Price / r.Area, true
}

// Column headers follow the comparables dataset export.
var csvColumns = map[string]bool{
	"sale_date": true,
	"address":   true,
	"rooms":     true,
	"floor":     true,
	"area":      true,
	"price":     true,
	"included":  true,
}

// ReadCSV decodes a comparables dataset. The first row is headers; column
// order is free, unknown columns are ignored. A row missing the included
// column counts as included, so a plain dataset behaves as fully selected.
func ReadCSV(r io.Reader) ([]Record, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse comparables csv: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	col := make(map[string]int)
	for i, h := range rows[0] {
		name := strings.ToLower(strings.TrimSpace(h))
		if csvColumns[name] {
			col[name] = i
		}
	}
	if _, ok := col["price"]; !ok {
		return nil, fmt.Errorf("comparables csv: missing price column")
	}
	if _, ok := col["area"]; !ok {
		return nil, fmt.Errorf("comparables csv: missing area column")
	}

	cell := func(row []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	records := make([]Record, 0, len(rows)-1)
	for n, row := range rows[1:] {
		rec := Record{
			Address:  cell(row, "address"),
			Floor:    cell(row, "floor"),
			SaleDate: cell(row, "sale_date"),
			Included: true,
		}
		rec.Rooms, _ = strconv.ParseFloat(cell(row, "rooms"), 64)
		if rec.Area, err = parseNumber(cell(row, "area")); err != nil {
			return nil, fmt.Errorf("comparables csv row %d: %w", n+2, err)
		}
		if rec.Price, err = parseNumber(cell(row, "price")); err != nil {
			return nil, fmt.Errorf("comparables csv row %d: %w", n+2, err)
		}
		if v := cell(row, "included"); v != "" {
			rec.Included, _ = strconv.ParseBool(v)
		}
		records = append(records, rec)
	}
	return records, nil
}

func parseNumber(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	s = strings.ReplaceAll(s, ",", "")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("bad number %q", s)
	}
	return f, nil
}

// Included filters to the user-selected subset, preserving order.
func Included(records []Record) []Record {
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if r.Included {
			out = append(out, r)
		}
	}
	return out
}

// PricesPerArea collects the per-area prices of the given records,
// skipping rows whose area makes the ratio not computable.
func PricesPerArea(records []Record) []float64 {
	out := make([]float64, 0, len(records))
	for _, r := range records {
		if p, ok := r.PricePerArea(); ok {
			out = append(out, p)
		}
	}
	return out
}

// ToGraph converts records to the graph form templates and rules see,
// in input order.
func ToGraph(records []Record) []any {
	out := make([]any, 0, len(records))
	for _, r := range records {
		m := map[string]any{
			"address":   r.Address,
			"rooms":     r.Rooms,
			"floor":     r.Floor,
			"area":      r.Area,
			"price":     r.Price,
			"sale_date": r.SaleDate,
		}
		if p, ok := r.PricePerArea(); ok {
			m["price_per_sqm"] = p
		}
		out = append(out, any(m))
	}
	return out
}
