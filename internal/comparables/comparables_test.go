package comparables

import (
	"strings"
	"testing"
)

const sampleCSV = `sale_date,address,rooms,floor,area,price,included
2026-01-15,"רחוב הרצל 125, חיפה",3.5,2,85.5,"2,850,000",true
2026-02-10,"רחוב בן יהודה 50, חיפה",4,3,92.0,3200000,true
2026-03-01,"רחוב הנמל 7, חיפה",3,1,78.0,2600000,false
`

func TestReadCSV(t *testing.T) {
	records, err := ReadCSV(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	first := records[0]
	if first.Address != "רחוב הרצל 125, חיפה" {
		t.Errorf("unexpected address %q", first.Address)
	}
	if first.Rooms != 3.5 || first.Area != 85.5 || first.Price != 2850000 {
		t.Errorf("unexpected numbers: %+v", first)
	}
	if !first.Included || records[2].Included {
		t.Error("included flags not decoded")
	}
}

func TestReadCSV_ColumnOrderFree(t *testing.T) {
	csv := "price,area\n1000000,100\n"
	records, err := ReadCSV(strings.NewReader(csv))
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 || records[0].Price != 1000000 {
		t.Errorf("unexpected records: %+v", records)
	}
	if !records[0].Included {
		t.Error("expected missing included column to default to selected")
	}
}

func TestReadCSV_MissingPriceColumn(t *testing.T) {
	if _, err := ReadCSV(strings.NewReader("area,address\n100,x\n")); err == nil {
		t.Fatal("expected missing price column to fail")
	}
}

func TestReadCSV_BadNumber(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("price,area\nmany,100\n"))
	if err == nil {
		t.Fatal("expected bad number to fail")
	}
	if !strings.Contains(err.Error(), "row 2") {
		t.Errorf("expected error to name the row, got %v", err)
	}
}

func TestReadCSV_Empty(t *testing.T) {
	records, err := ReadCSV(strings.NewReader(""))
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 0 {
		t.Errorf("expected no records, got %d", len(records))
	}
}

func TestIncluded(t *testing.T) {
	records, err := ReadCSV(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatal(err)
	}
	sel := Included(records)
	if len(sel) != 2 {
		t.Fatalf("expected 2 selected records, got %d", len(sel))
	}
	if sel[0].SaleDate != "2026-01-15" || sel[1].SaleDate != "2026-02-10" {
		t.Error("expected selection to preserve input order")
	}
}

func TestPricePerArea(t *testing.T) {
	r := Record{Area: 92, Price: 3200000}
	p, ok := r.PricePerArea()
	if !ok {
		t.Fatal("expected computable ratio")
	}
	if p < 34782 || p > 34783 {
		t.Errorf("unexpected price per area %v", p)
	}
	if _, ok := (Record{Area: 0, Price: 100}).PricePerArea(); ok {
		t.Error("expected zero area to be not computable")
	}
}

func TestPricesPerArea_SkipsNotComputable(t *testing.T) {
	values := PricesPerArea([]Record{
		{Area: 100, Price: 1000000},
		{Area: 0, Price: 999},
	})
	if len(values) != 1 || values[0] != 10000 {
		t.Errorf("unexpected values: %v", values)
	}
}

func TestToGraph(t *testing.T) {
	out := ToGraph([]Record{{Address: "א", Area: 100, Price: 1000000, SaleDate: "2026-01-01"}})
	if len(out) != 1 {
		t.Fatalf("expected 1 element, got %d", len(out))
	}
	m, ok := out[0].(map[string]any)
	if !ok {
		t.Fatal("expected map element")
	}
	if m["price_per_sqm"] != 10000.0 {
		t.Errorf("expected derived price_per_sqm, got %v", m["price_per_sqm"])
	}
}
