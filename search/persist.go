package search

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/beewatch/hivetune/errors"
	"github.com/beewatch/hivetune/jsonutil"
)

// Artifact filenames are keyed by backbone so runs for the three
// backbones can live side by side and be compared downstream.

// ResultsCSVPath returns the trial-results artifact path for a backbone.
func ResultsCSVPath(dir, backbone string) string {
	return filepath.Join(dir, fmt.Sprintf("hyperparameter_testing_%s.csv", backbone))
}

// BestParamsPath returns the best-configuration artifact path.
func BestParamsPath(dir, backbone string) string {
	return filepath.Join(dir, fmt.Sprintf("best_params_%s.json", backbone))
}

// TestResultsPath returns the held-out metrics artifact path.
func TestResultsPath(dir, backbone string) string {
	return filepath.Join(dir, fmt.Sprintf("test_results_%s.json", backbone))
}

// WriteResultsCSV persists every trial of a sweep, failed ones included.
func WriteResultsCSV(path string, results []RunResult) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "unable to create %s", path)
	}
	defer errors.Defer(&err, f.Close)

	if err := gocsv.Marshal(&results, f); err != nil {
		return errors.Wrapf(err, "unable to write trial results to %s", path)
	}
	return nil
}

// ReadResultsCSV loads a previously persisted sweep.
func ReadResultsCSV(path string) ([]RunResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to open %s", path)
	}
	defer f.Close()

	var results []RunResult
	if err := gocsv.Unmarshal(f, &results); err != nil {
		return nil, errors.Wrapf(err, "unable to read trial results from %s", path)
	}
	return results, nil
}

// SaveBestParams persists the winning configuration for reuse across
// process restarts.
func SaveBestParams(path string, best RunResult) error {
	if best.Failed() {
		return errors.Errorf("refusing to persist a failed trial as best configuration")
	}
	return jsonutil.EncodeToFile(path, best)
}

// LoadBestParams reads back a configuration persisted by SaveBestParams.
func LoadBestParams(path string) (RunResult, error) {
	var best RunResult
	if err := jsonutil.DecodeFrom(path, &best); err != nil {
		return RunResult{}, err
	}
	return best, nil
}
