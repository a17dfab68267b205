// Package app wires a run of the aggregator to flattening and the status summary.
package app

import (
	"context"
	"time"

	"po-extractor/internal/aggregate"
	"po-extractor/internal/flatten"
	"po-extractor/internal/models"
	"po-extractor/internal/report"
)

// Runner is implemented by *aggregate.Processor
type Runner interface {
	Run(ctx context.Context, in models.RunInput) (*aggregate.Result, error)
}

// Outcome is everything the presentation layers show for one run
type Outcome struct {
	Rows    []models.FlatRow
	Summary report.Summary
}

type Extractor struct {
	runner  Runner
	timeout time.Duration
}

// NewExtractor bounds every run by timeout; a non-positive timeout disables the bound
func NewExtractor(runner Runner, timeout time.Duration) *Extractor {
	return &Extractor{runner: runner, timeout: timeout}
}

// Extract runs one extraction and flattens its records
func (e *Extractor) Extract(ctx context.Context, in models.RunInput) (*Outcome, error) {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	res, err := e.runner.Run(ctx, in)
	if err != nil {
		return nil, err
	}

	rows := flatten.Flatten(res.Records)
	return &Outcome{
		Rows:    rows,
		Summary: report.NewSummary(res, len(rows)),
	}, nil
}
