package cron

import (
	"context"
	"fmt"
)

// Job represents a scheduled task that runs inside the worker.
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// Registry tracks registered jobs by name, preserving registration order.
type Registry struct {
	jobs   []Job
	byName map[string]Job
}

// NewRegistry builds a registry preloaded with the provided jobs. Nil jobs
// and duplicate names are skipped.
func NewRegistry(jobs ...Job) *Registry {
	registry := &Registry{byName: map[string]Job{}}
	for _, job := range jobs {
		_ = registry.Register(job)
	}
	return registry
}

// Register adds a job. Names must be unique.
func (r *Registry) Register(job Job) error {
	if job == nil {
		return fmt.Errorf("job is nil")
	}
	name := job.Name()
	if name == "" {
		return fmt.Errorf("job name is required")
	}
	if _, exists := r.byName[name]; exists {
		return fmt.Errorf("job %q already registered", name)
	}
	r.byName[name] = job
	r.jobs = append(r.jobs, job)
	return nil
}

// Lookup returns the job registered under name.
func (r *Registry) Lookup(name string) (Job, bool) {
	job, ok := r.byName[name]
	return job, ok
}

// Jobs returns the registered jobs in the order they were added.
func (r *Registry) Jobs() []Job {
	jobs := make([]Job, len(r.jobs))
	copy(jobs, r.jobs)
	return jobs
}
