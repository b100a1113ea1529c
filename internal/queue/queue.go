// Package queue consumes grading requests and grades them with a bounded
// pool of workers.
package queue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/puzpuzpuz/xsync/v3"
	"golang.org/x/sync/errgroup"

	"github.com/seekshiva/codechecker/api"
	"github.com/seekshiva/codechecker/internal"
	"github.com/seekshiva/codechecker/internal/database"
	"github.com/seekshiva/codechecker/internal/tester"
)

// Message is one delivery of a grading request. Ack removes it from the
// queue; Nack makes it available for redelivery.
type Message struct {
	Body []byte
	Ack  func(ctx context.Context) error
	Nack func(ctx context.Context) error
}

// Source delivers grading requests. Receive blocks until a message arrives
// or ctx is done.
type Source interface {
	Receive(ctx context.Context) (Message, error)
}

type Grader interface {
	RunTests(ctx context.Context, subm internal.Submission, problem internal.Problem, gath internal.ResultGatherer) (internal.Verdict, error)
}

// GathererFactory returns the gatherer that observes the grading of req.
type GathererFactory func(req api.GradeReq) internal.ResultGatherer

const receiveRetryDelay = time.Second

type Worker struct {
	store     database.Store
	grader    Grader
	gatherers GathererFactory
	workers   int
	log       *slog.Logger

	inFlight *xsync.MapOf[int64, struct{}]
}

func NewWorker(store database.Store, grader Grader, gatherers GathererFactory, workers int, log *slog.Logger) *Worker {
	if workers < 1 {
		workers = 1
	}
	if gatherers == nil {
		gatherers = func(api.GradeReq) internal.ResultGatherer { return internal.NopGatherer{} }
	}
	return &Worker{
		store:     store,
		grader:    grader,
		gatherers: gatherers,
		workers:   workers,
		log:       log,
		inFlight:  xsync.NewMapOf[int64, struct{}](),
	}
}

// Run grades requests from src until ctx is done or a grading run fails
// because of the judging environment. In the latter case the pending
// requests are left to the queue and the *tester.InfraError is returned.
func (w *Worker) Run(ctx context.Context, src Source) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(w.workers)

	for gctx.Err() == nil {
		msg, err := src.Receive(gctx)
		if err != nil {
			if gctx.Err() != nil {
				break
			}
			w.log.WarnContext(gctx, "failed to receive grading request", "error", err)
			select {
			case <-gctx.Done():
			case <-time.After(receiveRetryDelay):
			}
			continue
		}
		g.Go(func() error { return w.handle(gctx, msg) })
	}

	err := g.Wait()
	if err == nil && ctx.Err() != nil {
		w.log.InfoContext(ctx, "worker stopped", "reason", ctx.Err())
	}
	return err
}

func (w *Worker) handle(ctx context.Context, msg Message) error {
	if ctx.Err() != nil {
		return w.nack(ctx, msg)
	}
	req, err := api.DecodeGradeReq(msg.Body)
	if err != nil {
		w.log.WarnContext(ctx, "dropping malformed grading request", "error", err)
		return w.ack(ctx, msg)
	}
	log := w.log.With("eval_uuid", req.EvalUuid, "submission", req.SubmissionID)

	if _, busy := w.inFlight.LoadOrStore(req.SubmissionID, struct{}{}); busy {
		log.InfoContext(ctx, "submission is already being graded, requeueing")
		return w.nack(ctx, msg)
	}
	defer w.inFlight.Delete(req.SubmissionID)

	subm, err := w.store.SelectSubmission(ctx, req.SubmissionID)
	if errors.Is(err, database.ErrNotFound) {
		log.WarnContext(ctx, "dropping request for unknown submission")
		return w.ack(ctx, msg)
	}
	if err != nil {
		_ = w.nack(ctx, msg)
		return fmt.Errorf("failed to load submission %d: %w", req.SubmissionID, err)
	}

	problem, err := w.store.SelectProblem(ctx, subm.ProblemID)
	if errors.Is(err, database.ErrNotFound) {
		log.WarnContext(ctx, "dropping request for submission of unknown problem", "problem", subm.ProblemID)
		return w.ack(ctx, msg)
	}
	if err != nil {
		_ = w.nack(ctx, msg)
		return fmt.Errorf("failed to load problem %d: %w", subm.ProblemID, err)
	}

	log.InfoContext(ctx, "grading submission", "problem", problem.ID, "tests", problem.TestcaseCount())
	result, err := w.grader.RunTests(ctx, subm, problem, w.gatherers(req))
	if err != nil {
		var infraErr *tester.InfraError
		if errors.As(err, &infraErr) {
			log.ErrorContext(ctx, "stopping worker after judging environment failure", "error", err)
		}
		_ = w.nack(ctx, msg)
		return err
	}
	log.InfoContext(ctx, "graded submission", "result", result)
	return w.ack(ctx, msg)
}

func (w *Worker) ack(ctx context.Context, msg Message) error {
	if msg.Ack == nil {
		return nil
	}
	if err := msg.Ack(context.WithoutCancel(ctx)); err != nil {
		w.log.WarnContext(ctx, "failed to acknowledge grading request", "error", err)
	}
	return nil
}

func (w *Worker) nack(ctx context.Context, msg Message) error {
	if msg.Nack == nil {
		return nil
	}
	if err := msg.Nack(context.WithoutCancel(ctx)); err != nil {
		w.log.WarnContext(ctx, "failed to release grading request", "error", err)
	}
	return nil
}
