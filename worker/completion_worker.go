// Package worker runs the periodic completion sweep: active appointments
// whose date and time have passed are marked completed, which also frees
// their slots for new bookings.
package worker

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/avoronov/clinicbot/storage"
)

const appointmentTimeLayout = "02.01.2006 15:04"

// CompletionWorker periodically transitions past appointments from
// active to completed.
type CompletionWorker struct {
	store        storage.Store
	interval     time.Duration
	log          *zap.Logger
	stopCh       chan struct{}
	wg           sync.WaitGroup
	isRunning    bool
	runningMutex sync.Mutex
}

// New creates a completion worker. A non-positive interval falls back to
// 30 minutes.
func New(store storage.Store, interval time.Duration, log *zap.Logger) *CompletionWorker {
	if interval <= 0 {
		interval = 30 * time.Minute
	}
	return &CompletionWorker{
		store:    store,
		interval: interval,
		log:      log,
		stopCh:   make(chan struct{}),
	}
}

// Start launches the sweep loop.
func (w *CompletionWorker) Start() {
	w.runningMutex.Lock()
	defer w.runningMutex.Unlock()

	if w.isRunning {
		return
	}

	w.isRunning = true
	w.wg.Add(1)
	go w.run()
}

// Stop signals the loop to exit and waits for the in-flight sweep.
func (w *CompletionWorker) Stop() {
	w.runningMutex.Lock()
	defer w.runningMutex.Unlock()

	if !w.isRunning {
		return
	}

	close(w.stopCh)
	w.wg.Wait()
	w.isRunning = false
	w.log.Info("Completion worker stopped")
}

func (w *CompletionWorker) run() {
	defer w.wg.Done()

	// Sweep once at startup, then on every tick.
	w.Sweep(time.Now())

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.Sweep(time.Now())
		case <-w.stopCh:
			return
		}
	}
}

// Sweep marks every active appointment scheduled before now as completed.
func (w *CompletionWorker) Sweep(now time.Time) {
	completed := storage.StatusCompleted
	swept := 0

	for _, a := range w.store.GetAppointments(0) {
		at, err := time.ParseInLocation(appointmentTimeLayout, a.Date+" "+a.Time, now.Location())
		if err != nil {
			w.log.Warn("Skipping appointment with unparsable time",
				zap.Int("id", a.ID), zap.String("date", a.Date), zap.String("time", a.Time))
			continue
		}
		if !at.Before(now) {
			continue
		}
		if err := w.store.UpdateAppointment(a.ID, storage.AppointmentUpdate{Status: &completed}); err != nil {
			w.log.Error("Failed to complete appointment", zap.Int("id", a.ID), zap.Error(err))
			continue
		}
		swept++
	}

	if swept > 0 {
		w.log.Info("Marked past appointments completed", zap.Int("count", swept))
	}
}
