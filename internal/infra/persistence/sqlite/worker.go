package sqlite

import (
	"context"
	"database/sql"
)

// TxFn runs inside a write transaction owned by the Worker.
type TxFn func(ctx context.Context, tx *sql.Tx) error

type job struct {
	ctx context.Context
	fn  TxFn
	ch  chan error
}

// Worker serialises write transactions on a single goroutine.
type Worker struct {
	db   *sql.DB
	jobs chan job
	done chan struct{}
}

func NewWorker(db *sql.DB) *Worker {
	w := &Worker{
		db:   db,
		jobs: make(chan job, 256),
		done: make(chan struct{}),
	}
	go w.loop()

	return w
}

// Close drains queued jobs and stops the loop. Do must not be called after.
func (w *Worker) Close() {
	close(w.jobs)
	<-w.done
}

// Do queues fn and waits for its transaction to finish. Cancelling ctx only
// abandons a job that has not been queued yet; a queued job runs to commit or
// rollback and Do reports that outcome.
func (w *Worker) Do(ctx context.Context, fn TxFn) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	ch := make(chan error, 1)
	j := job{ctx: context.WithoutCancel(ctx), fn: fn, ch: ch}

	select {
	case w.jobs <- j:
	case <-ctx.Done():
		return ctx.Err()
	}

	return <-ch
}

func (w *Worker) loop() {
	defer close(w.done)

	for j := range w.jobs {
		tx, err := w.db.BeginTx(j.ctx, nil)
		if err != nil {
			j.ch <- err

			continue
		}

		if err := j.fn(j.ctx, tx); err != nil {
			_ = tx.Rollback()
			j.ch <- err

			continue
		}

		j.ch <- tx.Commit()
	}
}
