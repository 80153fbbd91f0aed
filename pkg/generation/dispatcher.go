// Package generation runs video generation requests in the background.
//
// A submitted video is already stored as pending. The dispatcher queues one
// task per submission; a worker claims the row (pending -> processing), asks
// the completion service for a description, then records a terminal status.
// Every transition is a single guarded UPDATE, so a second task for the same
// video finds the row already claimed and backs off without writing.
package generation

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ASHISH26940/ai-video-studio-api/pkg/db"
	"github.com/ASHISH26940/ai-video-studio-api/pkg/metrics"
	log "github.com/sirupsen/logrus"
)

// DefaultDuration is the length, in seconds, recorded for a generated video.
const DefaultDuration int64 = 30

// terminalWriteTimeout bounds the final status write, which runs even after
// the dispatcher has been told to stop.
const terminalWriteTimeout = 10 * time.Second

var (
	// ErrStopped is returned by Submit once Shutdown has begun.
	ErrStopped = errors.New("generation dispatcher is not accepting work")
	// ErrQueueFull is returned by Submit when every queue slot is taken.
	ErrQueueFull = errors.New("generation queue is full")
)

// AssetURL is the location a completed video is served from.
func AssetURL(videoID int64) string {
	return fmt.Sprintf("/videos/%d_generated.mp4", videoID)
}

// Completer turns a prompt into text. Any error fails the video.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// StatusStore performs the guarded status transitions. Each method returns
// db.ErrStatusConflict when the row is not in the state the transition
// requires.
type StatusStore interface {
	MarkProcessing(ctx context.Context, id int64) error
	MarkCompleted(ctx context.Context, id int64, videoURL string, duration int64) error
	MarkFailed(ctx context.Context, id int64) error
}

type Job struct {
	VideoID int64
	Prompt  string
}

// Outcome reports how a task ended. Status is empty when the task did not
// move the video to a terminal state, for example because another task had
// already claimed it.
type Outcome struct {
	VideoID int64
	Status  db.VideoStatus
	Skipped bool
	Err     error
}

// Task is the handle for one queued job. Callers may wait on it or ignore it.
type Task struct {
	Job     Job
	done    chan struct{}
	outcome Outcome
}

func newTask(job Job) *Task {
	return &Task{Job: job, done: make(chan struct{})}
}

// Done is closed once the task has finished.
func (t *Task) Done() <-chan struct{} { return t.done }

// Wait blocks until the task finishes or ctx is done.
func (t *Task) Wait(ctx context.Context) (Outcome, error) {
	select {
	case <-t.done:
		return t.outcome, nil
	case <-ctx.Done():
		return Outcome{VideoID: t.Job.VideoID}, ctx.Err()
	}
}

func (t *Task) finish(o Outcome) {
	t.outcome = o
	close(t.done)
}

type Options struct {
	Workers   int
	QueueSize int
}

// Dispatcher owns the generation queue and its workers.
type Dispatcher struct {
	store     StatusStore
	completer Completer
	workers   int
	queue     chan *Task

	mu      sync.RWMutex
	started bool
	stopped bool

	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
}

func NewDispatcher(store StatusStore, completer Completer, opts Options) *Dispatcher {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.QueueSize < 0 {
		opts.QueueSize = 0
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Dispatcher{
		store:     store,
		completer: completer,
		workers:   opts.Workers,
		queue:     make(chan *Task, opts.QueueSize),
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Start launches the workers. Calling it more than once has no effect.
func (d *Dispatcher) Start() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.started || d.stopped {
		return
	}
	d.started = true
	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.worker(i)
	}
	log.Infof("Generation dispatcher started with %d worker(s).", d.workers)
}

// Submit queues exactly one task for job and returns without waiting for a
// worker. When the queue is full it fails fast with ErrQueueFull. If the task
// cannot be queued the video is marked failed, since nothing else would ever
// move it out of pending.
func (d *Dispatcher) Submit(ctx context.Context, job Job) (*Task, error) {
	task, err := d.enqueue(ctx, job)
	if err != nil {
		log.WithField("video_id", job.VideoID).Errorf("Could not queue generation: %v", err)
		d.markFailed(job.VideoID)
		return nil, err
	}
	log.WithField("video_id", job.VideoID).Debug("Generation queued.")
	return task, nil
}

func (d *Dispatcher) enqueue(ctx context.Context, job Job) (*Task, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.stopped {
		return nil, ErrStopped
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	task := newTask(job)
	metrics.GenerationQueued()
	select {
	case d.queue <- task:
		return task, nil
	default:
		metrics.GenerationDequeued()
		return nil, ErrQueueFull
	}
}

// Shutdown stops intake and waits for queued and running tasks. When ctx ends
// first, in-flight completion calls are cancelled; their videos still get a
// terminal status.
func (d *Dispatcher) Shutdown(ctx context.Context) error {
	d.mu.Lock()
	if !d.stopped {
		d.stopped = true
		close(d.queue)
	}
	started := d.started
	d.mu.Unlock()

	if !started {
		// Nobody will drain the queue: fail whatever was accepted.
		for task := range d.queue {
			metrics.GenerationDequeued()
			task.finish(Outcome{VideoID: task.Job.VideoID, Status: d.markFailed(task.Job.VideoID), Err: ErrStopped})
		}
		d.cancel()
		return nil
	}

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		d.cancel()
		log.Info("Generation dispatcher drained.")
		return nil
	case <-ctx.Done():
		log.Warn("Generation dispatcher shutdown timed out; cancelling in-flight tasks.")
		d.cancel()
		<-done
		return ctx.Err()
	}
}

func (d *Dispatcher) worker(n int) {
	defer d.wg.Done()
	for task := range d.queue {
		metrics.GenerationDequeued()
		task.finish(d.process(d.ctx, task.Job))
	}
	log.Debugf("Generation worker %d exiting.", n)
}

// process drives one video from pending to a terminal status.
func (d *Dispatcher) process(ctx context.Context, job Job) Outcome {
	logger := log.WithField("video_id", job.VideoID)

	if err := d.store.MarkProcessing(ctx, job.VideoID); err != nil {
		if errors.Is(err, db.ErrStatusConflict) {
			logger.Warn("Video is no longer pending; another task owns it.")
			return Outcome{VideoID: job.VideoID, Skipped: true}
		}
		logger.Errorf("Could not claim video for generation: %v", err)
		return Outcome{VideoID: job.VideoID, Status: d.markFailed(job.VideoID), Err: err}
	}

	start := time.Now()
	metrics.GenerationStarted()

	if _, err := d.completer.Complete(ctx, job.Prompt); err != nil {
		logger.Errorf("Video generation failed: %v", err)
		status := d.markFailed(job.VideoID)
		metrics.GenerationFinished(string(db.VideoStatusFailed), time.Since(start))
		return Outcome{VideoID: job.VideoID, Status: status, Err: err}
	}

	writeCtx, cancel := terminalContext()
	defer cancel()

	err := d.store.MarkCompleted(writeCtx, job.VideoID, AssetURL(job.VideoID), DefaultDuration)
	switch {
	case err == nil:
		metrics.GenerationFinished(string(db.VideoStatusCompleted), time.Since(start))
		logger.Info("Video generation completed.")
		return Outcome{VideoID: job.VideoID, Status: db.VideoStatusCompleted}
	case errors.Is(err, db.ErrStatusConflict):
		// The row left processing underneath us (deleted, or failed at startup
		// by another process). Nothing to record.
		metrics.GenerationFinished("conflict", time.Since(start))
		logger.Warn("Video changed while generating; result discarded.")
		return Outcome{VideoID: job.VideoID, Skipped: true, Err: err}
	default:
		logger.Errorf("Could not record completed video: %v", err)
		status := d.markFailed(job.VideoID)
		metrics.GenerationFinished(string(db.VideoStatusFailed), time.Since(start))
		return Outcome{VideoID: job.VideoID, Status: status, Err: err}
	}
}

// markFailed records the failed status and reports it back, or returns an
// empty status if even that write did not succeed.
func (d *Dispatcher) markFailed(id int64) db.VideoStatus {
	ctx, cancel := terminalContext()
	defer cancel()

	if err := d.store.MarkFailed(ctx, id); err != nil {
		if errors.Is(err, db.ErrStatusConflict) {
			log.WithField("video_id", id).Warn("Video already terminal or gone; not marking failed.")
		} else {
			log.WithField("video_id", id).Errorf("Could not mark video failed: %v", err)
		}
		return ""
	}
	return db.VideoStatusFailed
}

func terminalContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), terminalWriteTimeout)
}
