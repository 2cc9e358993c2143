// Package service provides the batch inspection workflow for device captures.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"device-inspection/internal/config"
	"device-inspection/internal/model"
)

const defaultTimezone = "Asia/Shanghai"

// Inspection orchestrates a complete batch run: it walks the capture
// directory through the Runner and wraps the reports in a BatchResult.
type Inspection struct {
	runner   *Runner
	timezone *time.Location
	version  string
	logger   zerolog.Logger
}

// InspectionOption is a functional option for configuring an Inspection.
type InspectionOption func(*Inspection)

// NewInspection creates a new Inspection with the given dependencies.
func NewInspection(
	cfg *config.Config,
	runner *Runner,
	logger zerolog.Logger,
	opts ...InspectionOption,
) (*Inspection, error) {
	// Determine timezone from config or use default
	tzName := defaultTimezone
	if cfg != nil && cfg.Report.Timezone != "" {
		tzName = cfg.Report.Timezone
	}

	loc, err := time.LoadLocation(tzName)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone %s: %w", tzName, err)
	}

	i := &Inspection{
		runner:   runner,
		timezone: loc,
		version:  "dev",
		logger:   logger.With().Str("component", "inspection").Logger(),
	}

	for _, opt := range opts {
		opt(i)
	}

	return i, nil
}

// WithVersion sets the tool version to include in the batch result.
func WithVersion(version string) InspectionOption {
	return func(i *Inspection) {
		i.version = version
	}
}

// Timezone returns the location used for run timestamps.
func (i *Inspection) Timezone() *time.Location {
	return i.timezone
}

// Run inspects every capture under root. Reports are sorted by source.
// On cancellation the partial result is returned together with the error.
func (i *Inspection) Run(ctx context.Context, root string) (*model.BatchResult, error) {
	startTime := time.Now().In(i.timezone)
	runID := uuid.NewString()

	logger := i.logger.With().Str("run_id", runID).Logger()
	logger.Info().
		Str("root", root).
		Time("start_time", startTime).
		Str("timezone", i.timezone.String()).
		Msg("starting inspection")

	result := model.NewBatchResult(runID, root, startTime)
	result.Version = i.version

	reports, err := i.runner.Run(ctx, root)
	if reports != nil {
		result.Reports = reports
	}
	result.Finalize(time.Now().In(i.timezone))

	if err != nil {
		if len(reports) == 0 {
			logger.Error().Err(err).Msg("inspection failed")
			return nil, err
		}
		logger.Warn().Err(err).Int("reports", len(reports)).Msg("inspection interrupted")
		return result, err
	}

	logger.Info().
		Int("total_devices", result.Summary.TotalDevices).
		Int("normal_devices", result.Summary.NormalDevices).
		Int("warning_devices", result.Summary.WarningDevices).
		Int("abnormal_devices", result.Summary.AbnormalDevices).
		Int("error_devices", result.Summary.ErrorDevices).
		Dur("duration", result.Duration).
		Msg("inspection completed")

	return result, nil
}
