// Package orchestrator drives a generation job from submission through
// polling to its terminal outcome. It owns the single live Job and is the
// only place that mutates it.
package orchestrator

import (
	"context"
	"strings"
	"sync"
	"time"

	"vidgen/internal/backend"
	"vidgen/internal/domain"
	"vidgen/internal/infra"
)

// State identifies where the orchestrator is in the submit/poll lifecycle.
type State string

const (
	StateIdle       State = "idle"
	StateSubmitting State = "submitting"
	StatePolling    State = "polling"
	StateSucceeded  State = "succeeded"
	StateFailed     State = "failed"
)

// API is the slice of the gateway client the orchestrator needs.
type API interface {
	Submit(ctx context.Context, endpoint string, payload backend.Payload) (*Prediction, error)
	Poll(ctx context.Context, id string) (*Prediction, error)
}

// Options configures an Orchestrator.
type Options struct {
	Client API
	// PollInterval is the fixed wait between status fetches.
	PollInterval time.Duration
	// MaxPollTime bounds the total time spent polling one job. Zero
	// leaves the loop unbounded; it then runs until a terminal status
	// or an error.
	MaxPollTime time.Duration
	Logger      *infra.Logger
}

// Result is the terminal outcome of one generation job.
type Result struct {
	Job      domain.Job
	MediaURL string
}

// Orchestrator runs one job at a time. A new Generate call supersedes any
// loop still in flight: the generation counter keeps a stale loop from
// writing into the newer job's state.
type Orchestrator struct {
	api      API
	interval time.Duration
	maxPoll  time.Duration
	logger   *infra.Logger

	mu    sync.Mutex
	gen   uint64
	state State
	job   domain.Job
}

// New constructs an idle orchestrator.
func New(opts Options) *Orchestrator {
	interval := opts.PollInterval
	if interval <= 0 {
		interval = 2 * time.Second
	}
	return &Orchestrator{
		api:      opts.Client,
		interval: interval,
		maxPoll:  opts.MaxPollTime,
		logger:   opts.Logger,
		state:    StateIdle,
	}
}

// State returns the current lifecycle state.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Job returns a copy of the live job.
func (o *Orchestrator) Job() domain.Job {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.job
}

// Generate submits the prompt to the given model and polls until the job
// reaches a terminal status. It blocks the caller; concurrent callers are
// valid but only the most recent one owns the shared state, and superseded
// calls return ErrSuperseded.
func (o *Orchestrator) Generate(ctx context.Context, modelID, prompt string, opts domain.TuningOptions) (*Result, error) {
	if strings.TrimSpace(prompt) == "" {
		// Rejected before any network call.
		return nil, domain.ErrInvalidPrompt
	}
	cfg, err := backend.Resolve(modelID)
	if err != nil {
		return nil, err
	}
	payload, err := backend.BuildPayload(modelID, prompt, opts)
	if err != nil {
		return nil, err
	}

	gen := o.begin(modelID)
	if o.logger != nil {
		o.logger.Info().Str("model", modelID).Msg("orchestrator: submitting")
	}

	pred, err := o.api.Submit(ctx, cfg.Endpoint, payload)
	if err != nil {
		return nil, o.fail(gen, err)
	}
	if !o.update(gen, StatePolling, func(j *domain.Job) {
		j.ID = pred.ID
		j.Status = pred.Status
	}) {
		return nil, domain.ErrSuperseded
	}

	deadline := time.Time{}
	if o.maxPoll > 0 {
		deadline = time.Now().Add(o.maxPoll)
	}

	for !pred.Status.Terminal() {
		select {
		case <-ctx.Done():
			return nil, o.fail(gen, ctx.Err())
		case <-time.After(o.interval):
		}
		if !deadline.IsZero() && time.Now().After(deadline) {
			return nil, o.fail(gen, domain.ErrPollTimeout)
		}
		pred, err = o.api.Poll(ctx, pred.ID)
		if err != nil {
			return nil, o.fail(gen, err)
		}
		if !o.update(gen, StatePolling, func(j *domain.Job) {
			j.Status = pred.Status
		}) {
			return nil, domain.ErrSuperseded
		}
	}

	switch pred.Status {
	case domain.JobStatusSucceeded:
		mediaURL := resolveOutput(pred.Output)
		if mediaURL == "" {
			return nil, o.fail(gen, domain.ErrMissingOutput)
		}
		// The snapshot is taken inside the update so a submission that
		// begins right after it cannot leak its job into this result.
		var finished domain.Job
		if !o.update(gen, StateSucceeded, func(j *domain.Job) {
			j.Status = pred.Status
			j.MediaURL = mediaURL
			finished = *j
		}) {
			return nil, domain.ErrSuperseded
		}
		if o.logger != nil {
			o.logger.Info().Str("id", pred.ID).Str("url", mediaURL).Msg("orchestrator: succeeded")
		}
		return &Result{Job: finished, MediaURL: mediaURL}, nil
	default:
		// failed or canceled: the upstream status is the failure reason.
		return nil, o.fail(gen, &domain.GenerationError{Status: pred.Status, Reason: pred.Error})
	}
}

// begin claims ownership of the shared state for a new job. Any loop holding
// an older generation number is superseded from this point on.
func (o *Orchestrator) begin(modelID string) uint64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.gen++
	o.state = StateSubmitting
	o.job = domain.Job{
		Model:       modelID,
		Status:      domain.JobStatusNotSubmitted,
		SubmittedAt: time.Now(),
	}
	return o.gen
}

// update applies a mutation if the caller still owns the state. It returns
// false when a newer submission has taken over.
func (o *Orchestrator) update(gen uint64, state State, fn func(*domain.Job)) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if gen != o.gen {
		return false
	}
	o.state = state
	o.job.UpdatedAt = time.Now()
	fn(&o.job)
	return true
}

// fail records a terminal failure and returns the error unchanged, or
// ErrSuperseded when the loop no longer owns the state.
func (o *Orchestrator) fail(gen uint64, err error) error {
	if o.logger != nil {
		o.logger.Error().Err(err).Msg("orchestrator: job failed")
	}
	if !o.update(gen, StateFailed, func(j *domain.Job) {
		j.Error = err.Error()
		if !j.Status.Terminal() {
			j.Status = domain.JobStatusFailed
		}
	}) {
		return domain.ErrSuperseded
	}
	return err
}
