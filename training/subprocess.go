package training

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"os/exec"

	"github.com/beewatch/hivetune/dataset"
	"github.com/beewatch/hivetune/errors"
)

// Subprocess bridges to an external training worker over JSON on
// stdin/stdout. A new worker process is launched per call, so model and
// optimizer state can never leak between runs.
type Subprocess struct {
	// Bin is the worker executable, Args its fixed leading arguments.
	Bin  string
	Args []string
	// Dir optionally overrides the worker's working directory.
	Dir string
}

type workerExample struct {
	Path   string    `json:"path"`
	Labels []float64 `json:"labels"`
}

type workerRequest struct {
	Mode         string          `json:"mode"`
	Backbone     string          `json:"backbone"`
	Transform    string          `json:"transform"`
	BatchSize    int             `json:"batch_size"`
	Epochs       int             `json:"epochs"`
	LearningRate float64         `json:"lr"`
	Seed         int64           `json:"seed"`
	Checkpoint   string          `json:"checkpoint,omitempty"`
	Train        []workerExample `json:"train,omitempty"`
	Validate     []workerExample `json:"validate,omitempty"`
	Test         []workerExample `json:"test,omitempty"`
}

type workerResponse struct {
	Error      string         `json:"error,omitempty"`
	Checkpoint string         `json:"checkpoint,omitempty"`
	Epochs     []EpochMetrics `json:"epochs,omitempty"`
	Final      *Metrics       `json:"final,omitempty"`
}

const (
	modeTrain    = "train"
	modeEvaluate = "evaluate"
)

// Train implements Trainer.
func (s Subprocess) Train(ctx context.Context, p Params, train, val []dataset.Example) (Result, error) {
	if err := p.Validate(); err != nil {
		return Result{}, err
	}

	req := newWorkerRequest(modeTrain, p)
	req.Train = toWorkerExamples(train)
	req.Validate = toWorkerExamples(val)

	resp, err := s.invoke(ctx, req)
	if err != nil {
		return Result{}, err
	}
	return trainResult(resp)
}

// Evaluate implements Trainer. The checkpoint names the model a previous
// Train call produced; evaluating without one is a contract violation, not
// an invitation for the worker to rebuild a model from the parameters.
func (s Subprocess) Evaluate(ctx context.Context, p Params, checkpoint string, test []dataset.Example) (Metrics, error) {
	if err := p.Validate(); err != nil {
		return Metrics{}, err
	}
	if checkpoint == "" {
		return Metrics{}, errors.Errorf("no checkpoint to evaluate")
	}

	req := newWorkerRequest(modeEvaluate, p)
	req.Checkpoint = checkpoint
	req.Test = toWorkerExamples(test)

	resp, err := s.invoke(ctx, req)
	if err != nil {
		return Metrics{}, err
	}
	if resp.Final == nil {
		return Metrics{}, errors.Errorf("worker returned no evaluation metrics")
	}
	return *resp.Final, nil
}

func (s Subprocess) invoke(ctx context.Context, req workerRequest) (workerResponse, error) {
	input, err := json.Marshal(req)
	if err != nil {
		return workerResponse{}, errors.Wrapf(err, "unable to encode worker request")
	}

	cmd := exec.CommandContext(ctx, s.Bin, s.Args...)
	cmd.Dir = s.Dir
	cmd.Stdin = bytes.NewReader(input)
	cmd.Stderr = os.Stderr

	out, err := cmd.Output()
	if err != nil {
		return workerResponse{}, errors.Wrapf(err, "worker %s failed", s.Bin)
	}

	resp, err := decodeWorkerResponse(out)
	if err != nil {
		return workerResponse{}, err
	}
	return resp, nil
}

// trainResult validates a train-mode response. The worker must name the
// checkpoint it wrote; without one the trained model is unreachable and a
// later Evaluate would silently score some other model.
func trainResult(resp workerResponse) (Result, error) {
	if len(resp.Epochs) == 0 || resp.Final == nil {
		return Result{}, errors.Errorf("worker returned no training metrics")
	}
	if resp.Checkpoint == "" {
		return Result{}, errors.Errorf("worker returned no checkpoint")
	}
	return Result{Checkpoint: resp.Checkpoint, Epochs: resp.Epochs, Final: *resp.Final}, nil
}

func decodeWorkerResponse(out []byte) (workerResponse, error) {
	var resp workerResponse
	if err := json.Unmarshal(out, &resp); err != nil {
		return workerResponse{}, errors.Wrapf(err, "unable to decode worker response")
	}
	if resp.Error != "" {
		return workerResponse{}, errors.Errorf("worker error: %s", resp.Error)
	}
	return resp, nil
}

func newWorkerRequest(mode string, p Params) workerRequest {
	return workerRequest{
		Mode:         mode,
		Backbone:     string(p.Backbone),
		Transform:    string(p.Transform),
		BatchSize:    p.BatchSize,
		Epochs:       p.Epochs,
		LearningRate: p.LearningRate,
		Seed:         p.Seed,
	}
}

func toWorkerExamples(examples []dataset.Example) []workerExample {
	out := make([]workerExample, 0, len(examples))
	for _, e := range examples {
		out = append(out, workerExample{Path: e.Path, Labels: e.Labels})
	}
	return out
}
