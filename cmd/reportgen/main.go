package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/idanr/reportgen/internal/binding"
	"github.com/idanr/reportgen/internal/comparables"
	"github.com/idanr/reportgen/internal/compose"
	"github.com/idanr/reportgen/internal/config"
	"github.com/idanr/reportgen/internal/export"
	"github.com/idanr/reportgen/internal/graph"
	"github.com/idanr/reportgen/internal/tmpl"
	"github.com/idanr/reportgen/internal/validate"
)

func main() {
	casePath := flag.String("case", "", "path to the case graph JSON")
	comparablesPath := flag.String("comparables", "", "optional comparables dataset CSV")
	outPath := flag.String("out", "report.docx", "output file")
	format := flag.String("format", "docx", "output format: md, html or docx")
	checkOnly := flag.Bool("check", false, "validate only and print the report as JSON")
	flag.Parse()

	log := slog.New(slog.NewJSONHandler(os.Stderr, nil))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	if *casePath == "" {
		log.Error("missing -case flag")
		os.Exit(1)
	}

	// Static tables. Any problem here is a configuration error and the
	// engine must not initialize.
	bindings, err := binding.LoadTable(cfg.BindingsPath())
	if err != nil {
		log.Error("loading bindings", "error", err)
		os.Exit(1)
	}
	rules, err := validate.Load(cfg.RulesPath())
	if err != nil {
		log.Error("loading rules", "error", err)
		os.Exit(1)
	}
	if err := rules.Check(bindings); err != nil {
		log.Error("rule set inconsistent with bindings", "error", err)
		os.Exit(1)
	}
	templates, err := tmpl.LoadTable(cfg.TemplatesPath())
	if err != nil {
		log.Error("loading templates", "error", err)
		os.Exit(1)
	}
	outline, err := compose.LoadOutline(cfg.OutlinePath())
	if err != nil {
		log.Error("loading outline", "error", err)
		os.Exit(1)
	}
	composer, err := compose.NewComposer(bindings, templates, outline, cfg.PlaceholderFormat)
	if err != nil {
		log.Error("outline inconsistent with tables", "error", err)
		os.Exit(1)
	}

	g, err := loadCase(*casePath, *comparablesPath)
	if err != nil {
		log.Error("loading case", "error", err)
		os.Exit(1)
	}

	report := validate.Run(g, bindings, rules, time.Now())
	for _, slot := range report.MissingRequired {
		log.Warn("required value missing", "slot", slot)
	}
	for _, di := range report.DateIssues {
		log.Warn("date rule failed", "slot", di.Slot, "kind", di.Kind, "detail", di.Detail)
	}
	for _, li := range report.LengthIssues {
		log.Warn("value too short", "slot", li.Slot, "min", li.Min, "actual", li.Actual)
	}
	for _, ri := range report.RowCountIssues {
		log.Warn("too few rows", "slot", ri.Slot, "min", ri.Min, "actual", ri.Actual)
	}

	if *checkOnly {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			log.Error("writing report", "error", err)
			os.Exit(1)
		}
		if report.ExportBlocked() {
			os.Exit(2)
		}
		return
	}

	// Export refusal is specific: the blocked slots are named, not a
	// generic failure. Non-blocking issues stay visible as placeholders.
	if report.ExportBlocked() {
		log.Error("export refused: blocking values missing", "slots", report.BlockingMissing)
		os.Exit(2)
	}

	computed := compose.Valuation(g, bindings, cfg.BalconyCoefficient, cfg.RoundingStep)
	doc := composer.Compose(compose.Enrich(g, computed))

	if err := writeOut(doc, *format, *outPath); err != nil {
		log.Error("writing output", "error", err)
		os.Exit(1)
	}
	log.Info("report written", "out", *outPath, "format", *format, "chapters", len(doc.Chapters))
}

// loadCase reads the case graph and, when given, overlays the selected
// comparable records under the comparables key.
func loadCase(casePath, comparablesPath string) (graph.Graph, error) {
	data, err := os.ReadFile(casePath)
	if err != nil {
		return nil, fmt.Errorf("read case: %w", err)
	}
	var g graph.Graph
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("parse case: %w", err)
	}

	if comparablesPath != "" {
		f, err := os.Open(comparablesPath)
		if err != nil {
			return nil, fmt.Errorf("open comparables: %w", err)
		}
		defer f.Close()
		records, err := comparables.ReadCSV(f)
		if err != nil {
			return nil, err
		}
		g = graph.Copy(g)
		g["comparables"] = comparables.ToGraph(comparables.Included(records))
	}
	return g, nil
}

func writeOut(doc compose.Document, format, path string) error {
	switch format {
	case "md":
		return os.WriteFile(path, []byte(export.Markdown(doc)), 0o644)
	case "html":
		page, err := export.HTML(doc)
		if err != nil {
			return err
		}
		return os.WriteFile(path, page, 0o644)
	case "docx":
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		if err := export.DOCX(doc, f); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	}
	return fmt.Errorf("unknown format %q", format)
}
