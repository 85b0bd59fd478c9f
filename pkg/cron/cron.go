// Package cron provides some cron utility functions.
package cron

import (
	cmap "github.com/orcaman/concurrent-map/v2"
	"github.com/robfig/cron/v3"
)

// Cron wraps `cron.Cron` and keys its jobs by name.
type Cron struct {
	inner *cron.Cron
	jobs  cmap.ConcurrentMap[string, cron.EntryID]
}

// FuncJob is alias of `cron.FuncJob`.
type FuncJob = cron.FuncJob

// New returns a started instance of Cron.
func New() *Cron {
	c := cron.New()
	c.Start()
	return &Cron{
		inner: c,
		jobs:  cmap.New[cron.EntryID](),
	}
}

// Jobs returns a map of job names to job.
func (c *Cron) Jobs() map[string]cron.Entry {
	ret := map[string]cron.Entry{}
	for name, id := range c.jobs.Items() {
		entry := c.inner.Entry(id)
		if entry.Valid() {
			ret[name] = entry
		}
	}
	return ret
}

// AddJob removes the job with the same name first and adds a new job.
func (c *Cron) AddJob(name, spec string, cmd FuncJob) error {
	c.RemoveJob(name)
	id, err := c.inner.AddFunc(spec, cmd)
	if err != nil {
		return err
	}
	c.jobs.Set(name, id)
	return nil
}

// RemoveJob remove the job with the given name.
func (c *Cron) RemoveJob(name string) {
	if id, ok := c.jobs.Pop(name); ok {
		c.inner.Remove(id)
	}
}

// Stop stops the scheduler and waits for running jobs to complete.
func (c *Cron) Stop() {
	<-c.inner.Stop().Done()
}
