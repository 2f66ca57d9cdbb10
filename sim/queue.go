package sim

import (
	"context"
	"fmt"

	conq "github.com/enriquebris/goconcurrentqueue"
	"go.uber.org/zap"

	"qgridlab/circuit"
	"qgridlab/quantum"
)

// RunRequest is one editor submission: the circuit to execute and the
// Bloch angles fixing each qubit's initial state.
type RunRequest struct {
	Circuit circuit.Circuit
	Angles  []quantum.BlochAngles
}

type fifo interface {
	Enqueue(*RunRequest) error
	DequeueOrWaitForNextElementContext(ctx context.Context) (*RunRequest, error)
	GetLen() int
}

type conqFIFO struct {
	*conq.FIFO
}

func newConqFIFO() *conqFIFO {
	return &conqFIFO{
		FIFO: conq.NewFIFO(),
	}
}

func (c *conqFIFO) Enqueue(req *RunRequest) error {
	return c.FIFO.Enqueue(req)
}

func (c *conqFIFO) DequeueOrWaitForNextElementContext(ctx context.Context) (*RunRequest, error) {
	tmp, err := c.FIFO.DequeueOrWaitForNextElementContext(ctx)
	if err != nil {
		return nil, err
	}
	return tmp.(*RunRequest), nil
}

func (c *conqFIFO) GetLen() int {
	return c.FIFO.GetLen()
}

// NotifyFunc delivers a finished run, or the error that stopped it, back
// to the submitter. The runner calls it from the worker goroutine.
type NotifyFunc func(*RunRecord, error)

// Runner owns the run queue and the single worker draining it. One
// worker means runs execute strictly one at a time, so the engine never
// sees concurrent access.
type Runner struct {
	sim     *Simulator
	fifo    fifo
	maxSize int
	notify  NotifyFunc
}

// NewRunner creates a runner delivering results through notify.
func NewRunner(sim *Simulator, maxSize int, notify NotifyFunc) *Runner {
	return &Runner{
		sim:     sim,
		fifo:    newConqFIFO(),
		maxSize: maxSize,
		notify:  notify,
	}
}

// Submit queues one run request without blocking. It fails when the
// queue is full.
func (r *Runner) Submit(req *RunRequest) error {
	if r.maxSize <= r.fifo.GetLen() {
		zap.L().Info(fmt.Sprintf("run queue is full with %d requests", r.fifo.GetLen()))
		return fmt.Errorf("run queue is full")
	}
	if err := r.fifo.Enqueue(req); err != nil {
		zap.L().Error(fmt.Sprintf("failed to enqueue run request. Reason:%s", err))
		return err
	}
	zap.L().Debug(fmt.Sprintf("queued run request, %d waiting", r.fifo.GetLen()))
	return nil
}

// Pending returns the number of queued requests.
func (r *Runner) Pending() int {
	return r.fifo.GetLen()
}

// Loop drains the queue until ctx is cancelled, simulating one request
// at a time. Each finished run is cloned before delivery so the receiver
// owns its copy outright.
func (r *Runner) Loop(ctx context.Context) error {
	for {
		req, err := r.fifo.DequeueOrWaitForNextElementContext(ctx)
		if err != nil {
			if ctx.Err() != nil {
				zap.L().Debug("run queue worker stopped")
				return nil
			}
			zap.L().Error(fmt.Sprintf("failed to dequeue run request. Reason:%s", err))
			continue
		}
		initial := quantum.StateFromBlochAngles(req.Circuit.NumQubits, req.Angles)
		rec, err := r.sim.Run(req.Circuit, initial)
		if err != nil {
			zap.L().Error(fmt.Sprintf("run failed. Reason:%s", err))
		} else {
			zap.L().Debug(rec.Summary().String())
			rec = rec.Clone()
		}
		if r.notify != nil {
			r.notify(rec, err)
		}
	}
}
