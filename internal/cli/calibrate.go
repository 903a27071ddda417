package cli

import (
	"fmt"
	"io"
	"math"

	"github.com/aretw0/sirsim/internal/runtime"
	"github.com/aretw0/sirsim/pkg/domain"
)

// CalibrateOptions configures the random-trial calibration checks.
type CalibrateOptions struct {
	Probability float64
	Trials      int
	Size        int
	Seed        uint64
	Format      string
	Out         io.Writer
}

// CalibrationReport compares observed rates with their expectations.
type CalibrationReport struct {
	Probability       float64 `json:"probability"`
	Trials            int     `json:"trials"`
	Successes         int     `json:"successes"`
	Failures          int     `json:"failures"`
	ObservedRate      float64 `json:"observed_rate"`
	Size              int     `json:"size"`
	MeanRecoveries    float64 `json:"mean_recoveries"`
	ExpectedRecovered float64 `json:"expected_recoveries"`
	Seed              uint64  `json:"seed"`
}

// Calibrate runs TrialRate and MeanRecoveries on a seeded engine.
func Calibrate(opts CalibrateOptions) (CalibrationReport, error) {
	if math.IsNaN(opts.Probability) || opts.Probability < 0 || opts.Probability > 1 {
		return CalibrationReport{}, &domain.ValidationError{Field: "probability", Reason: "must be within [0, 1]", Value: opts.Probability}
	}
	if opts.Trials < 1 {
		return CalibrationReport{}, &domain.ValidationError{Field: "trials", Reason: "must be at least 1", Value: opts.Trials}
	}
	if opts.Size < 1 {
		return CalibrationReport{}, &domain.ValidationError{Field: "size", Reason: "must be at least 1", Value: opts.Size}
	}

	seed := opts.Seed
	if seed == 0 {
		seed = runtime.RandomSeed()
	}
	engine := runtime.NewEngine(runtime.NewSource(seed))

	successes, failures := engine.TrialRate(opts.Probability, opts.Trials)
	return CalibrationReport{
		Probability:       opts.Probability,
		Trials:            opts.Trials,
		Successes:         successes,
		Failures:          failures,
		ObservedRate:      float64(successes) / float64(opts.Trials),
		Size:              opts.Size,
		MeanRecoveries:    engine.MeanRecoveries(opts.Size, opts.Probability, opts.Trials),
		ExpectedRecovered: float64(opts.Size) * opts.Probability,
		Seed:              seed,
	}, nil
}

// RunCalibrate prints the calibration report.
func RunCalibrate(opts CalibrateOptions) error {
	rep, err := Calibrate(opts)
	if err != nil {
		return err
	}
	if opts.Format == FormatJSON {
		return writeJSON(opts.Out, rep)
	}
	_, err = fmt.Fprintf(opts.Out,
		"Trials:          %d at p=%g\n"+
			"Successes:       %d (rate %.3f)\n"+
			"Failures:        %d\n"+
			"Mean Recoveries: %.3f of %d (expected %.3f)\n"+
			"Seed:            %d\n",
		rep.Trials, rep.Probability,
		rep.Successes, rep.ObservedRate,
		rep.Failures,
		rep.MeanRecoveries, rep.Size, rep.ExpectedRecovered,
		rep.Seed,
	)
	return err
}
