// Package pipeline drives the deployment sequence for a single request:
// generate, materialize, publish, notify. Each stage is a hard
// dependency on the previous one and failures carry the stage name.
package pipeline

import (
	"context"
	"encoding/hex"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/jonathan/pagesmith/internal/publish"
	"github.com/jonathan/pagesmith/internal/types"
	"github.com/jonathan/pagesmith/internal/workspace"
)

// Stage names a pipeline step for failure reporting.
type Stage string

// Pipeline stages, in execution order.
const (
	StageGenerate    Stage = "generate"
	StageMaterialize Stage = "materialize"
	StagePublish     Stage = "publish"
)

// StageError wraps a failure with the stage it occurred in, so callers
// can decide per stage how to report it.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Generator produces the application markup for a brief.
type Generator interface {
	GenerateApp(ctx context.Context, brief string) (string, error)
}

// Publisher pushes a materialized project to the hosting provider.
type Publisher interface {
	Publish(ctx context.Context, dir, projectID, task, email string) (publish.Result, error)
}

// Notifier delivers the result to the evaluation callback. It must
// never fail the request; the return value is the attempt count.
type Notifier interface {
	Notify(ctx context.Context, url string, result *types.DeployResult) int
}

// MaterializeFunc writes the project files and returns the project dir.
type MaterializeFunc func(root, projectID, artifact string, req *types.DeployRequest) (string, error)

// Pipeline holds the wired components for deployment runs. All state is
// request-scoped; a Pipeline itself is safe for concurrent use.
type Pipeline struct {
	generator   Generator
	publisher   Publisher
	notifier    Notifier
	materialize MaterializeFunc
	workDir     string
	newTaskID   func() string
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithMaterializer replaces the materialize step, for tests.
func WithMaterializer(fn MaterializeFunc) Option {
	return func(p *Pipeline) { p.materialize = fn }
}

// WithTaskIDFunc replaces the default task identifier generator, for tests.
func WithTaskIDFunc(fn func() string) Option {
	return func(p *Pipeline) { p.newTaskID = fn }
}

// New creates a Pipeline over the given components and working-directory root.
func New(generator Generator, publisher Publisher, notifier Notifier, workDir string, opts ...Option) *Pipeline {
	p := &Pipeline{
		generator:   generator,
		publisher:   publisher,
		notifier:    notifier,
		materialize: workspace.Materialize,
		workDir:     workDir,
		newTaskID:   newTaskID,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// newTaskID generates a short random task identifier for requests that
// omit the task field.
func newTaskID() string {
	u := uuid.New()
	return "task-" + hex.EncodeToString(u[:])[:6]
}

// Run executes the deployment sequence for an authenticated request.
// The request must already have passed the secret check; Run applies
// field defaults, then drives generate → materialize → publish →
// notify. The returned result is the payload for both the synchronous
// response and the callback. Notification failures never surface:
// once publish has succeeded the result is final.
func (p *Pipeline) Run(ctx context.Context, req *types.DeployRequest) (*types.DeployResult, error) {
	req.ApplyDefaults(p.newTaskID)
	projectID := types.ProjectID(req.Task, req.Round)

	log.Printf("Generating code for: %s", req.Task)
	artifact, err := p.generator.GenerateApp(ctx, req.Brief)
	if err != nil {
		return nil, &StageError{Stage: StageGenerate, Err: err}
	}

	dir, err := p.materialize(p.workDir, projectID, artifact, req)
	if err != nil {
		return nil, &StageError{Stage: StageMaterialize, Err: err}
	}

	pub, err := p.publisher.Publish(ctx, dir, projectID, req.Task, req.Email)
	if err != nil {
		return nil, &StageError{Stage: StagePublish, Err: err}
	}

	result := &types.DeployResult{
		Email:     req.Email,
		Task:      req.Task,
		Round:     req.Round,
		Nonce:     req.Nonce,
		RepoURL:   pub.RepoURL,
		CommitSHA: pub.CommitSHA,
		PagesURL:  pub.PagesURL,
	}

	if attempts := p.notifier.Notify(ctx, req.EvaluationURL, result); attempts > 0 {
		log.Printf("Evaluation callback for %s finished after %d attempt(s)", projectID, attempts)
	}

	return result, nil
}
