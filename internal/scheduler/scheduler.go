package scheduler

import (
	"context"
	"log"
	"sync"

	"github.com/robfig/cron/v3"
)

type Task func(ctx context.Context) error

// RunOnSchedule runs the task immediately, then on every tick of the cron
// expression, until the context is cancelled. Task errors are logged, never
// fatal; the schedule keeps going.
func RunOnSchedule(ctx context.Context, spec, name string, task Task) error {
	run := func() {
		if err := task(ctx); err != nil {
			log.Printf("[%s] error: %v", name, err)
		}
	}

	c := cron.New()
	if _, err := c.AddFunc(spec, run); err != nil {
		return err
	}

	// run immediately
	var first sync.WaitGroup
	first.Add(1)
	go func() {
		defer first.Done()
		run()
	}()

	c.Start()
	log.Printf("[%s] scheduled: %s", name, spec)

	<-ctx.Done()
	stopped := c.Stop()
	<-stopped.Done()
	// Stop only covers cron-started runs; the immediate one is tracked
	// separately.
	first.Wait()
	return nil
}
