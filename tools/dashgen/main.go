// Command dashgen generates the Grafana dashboard and Prometheus rule
// artifacts for ebay-lister from the metric definitions in this package.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/donaldgifford/ebay-lister/tools/dashgen/dashboards"
	"github.com/donaldgifford/ebay-lister/tools/dashgen/rules"
)

func main() {
	validateOnly := flag.Bool("validate", false, "validate generated artifacts without writing files")
	outputDir := flag.String("output", "", "override output directory")
	flag.Parse()

	cfg := DefaultConfig()
	if *outputDir != "" {
		cfg.OutputDir = *outputDir
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	if err := run(cfg, *validateOnly); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg Config, validateOnly bool) error {
	dash, err := dashboards.BuildOverview().Build()
	if err != nil {
		return fmt.Errorf("building dashboard: %w", err)
	}

	dashJSON, err := json.MarshalIndent(dash, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding dashboard: %w", err)
	}

	recording, err := yaml.Marshal(rules.RecordingRules())
	if err != nil {
		return fmt.Errorf("encoding recording rules: %w", err)
	}
	alerts, err := yaml.Marshal(rules.AlertRules())
	if err != nil {
		return fmt.Errorf("encoding alert rules: %w", err)
	}

	if validateOnly {
		fmt.Println("validation passed")
		return nil
	}

	if err := os.MkdirAll(cfg.OutputDir, 0o750); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}

	artifacts := map[string][]byte{}
	if cfg.DashboardEnabled {
		artifacts["lister-overview.json"] = dashJSON
	}
	if cfg.RulesEnabled {
		artifacts["lister-recording-rules.yaml"] = recording
		artifacts["lister-alerts.yaml"] = alerts
	}

	for name, data := range artifacts {
		path := filepath.Join(cfg.OutputDir, name)
		if err := os.WriteFile(path, data, 0o600); err != nil {
			return fmt.Errorf("writing %s: %w", name, err)
		}
		fmt.Printf("dashgen: wrote %s\n", path)
	}
	return nil
}
