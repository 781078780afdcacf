package main

import (
	"encoding/json"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/buildsim/buildgen/pkg/building"
	"github.com/buildsim/buildgen/pkg/serial"
	"github.com/buildsim/buildgen/pkg/spec"
	"github.com/buildsim/buildgen/pkg/validation"
)

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stderr"}
	return cfg.Build()
}

func runValidate(projectPath string) error {
	s, err := spec.LoadProject(projectPath)
	if err != nil {
		return fmt.Errorf("loading spec: %w", err)
	}

	report := validation.ValidateSpec(s)
	printReport(report)

	if !report.Valid {
		os.Exit(1)
	}
	return nil
}

func runGenerate(projectPath string, idf, verbose bool) error {
	s, err := spec.LoadProject(projectPath)
	if err != nil {
		return fmt.Errorf("loading spec: %w", err)
	}

	log, err := newLogger(verbose)
	if err != nil {
		return err
	}
	defer log.Sync()

	model, genErr := building.New(log).Generate(s)
	if model != nil && model.Report != nil && !model.Report.Valid {
		printReport(model.Report)
	}
	if genErr != nil {
		return fmt.Errorf("generation rejected: %w", genErr)
	}

	if idf {
		return serial.Write(os.Stdout, model)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(map[string]any{
		"phase":      model.Phase,
		"geometry":   model.Geometry,
		"air_loops":  model.Loops,
		"validation": model.Report,
	})
}
