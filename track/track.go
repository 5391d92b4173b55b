// Package track reports one record per completed trial to a segment
// sink, for visual comparison across grid points and backbones.
package track

import (
	analytics "gopkg.in/segmentio/analytics-go.v3"

	"github.com/beewatch/hivetune/search"
)

// Sink receives one record per completed trial of a sweep.
type Sink interface {
	TrialDone(backbone string, run int, res search.RunResult) error
	Close() error
}

// Client wraps the segmentio/analytics-go Client.
type Client struct {
	client analytics.Client
	userID string
}

// NewClient returns a Sink that forwards trial records to segment using
// the given write token. userID labels the experiment run.
func NewClient(token, userID string) (*Client, error) {
	client, err := analytics.NewWithConfig(token, analytics.Config{
		Logger: noopLogger{},
	})
	if err != nil {
		return nil, err
	}
	return &Client{client: client, userID: userID}, nil
}

type noopLogger struct{}

func (noopLogger) Logf(string, ...interface{})   {}
func (noopLogger) Errorf(string, ...interface{}) {}

// TrialDone implements Sink.
func (c *Client) TrialDone(backbone string, run int, res search.RunResult) error {
	return c.client.Enqueue(analytics.Track{
		Event:      "hypersearch_trial",
		UserId:     c.userID,
		Properties: trialProperties(backbone, run, res),
	})
}

// trialProperties builds the per-trial record. A failed trial carries NaN
// metrics, which JSON cannot represent and which would poison the whole
// analytics batch at flush time, so only the point and the failure message
// are sent for those.
func trialProperties(backbone string, run int, res search.RunResult) map[string]interface{} {
	props := map[string]interface{}{
		"backbone":   backbone,
		"run":        run,
		"transform":  res.Transform,
		"batch_size": res.BatchSize,
		"epochs":     res.Epochs,
		"lr":         res.LR,
		"error":      res.Error,
	}
	if res.Failed() {
		return props
	}
	props["final_test_loss"] = res.FinalLoss
	props["final_test_ham_acc"] = res.FinalHammingAcc
	props["final_test_zero_one_acc"] = res.FinalZeroOneAcc
	return props
}

// Close implements Sink.
func (c *Client) Close() error {
	return c.client.Close()
}

// Nop is a Sink that drops every record. Used when no token is
// configured.
type Nop struct{}

// TrialDone implements Sink.
func (Nop) TrialDone(string, int, search.RunResult) error { return nil }

// Close implements Sink.
func (Nop) Close() error { return nil }
