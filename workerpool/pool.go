package workerpool

import (
	"sync"
)

// Job is a unit of work submitted to a Pool.
type Job func() error

// Pool runs jobs on a fixed number of worker goroutines.
type Pool struct {
	jobs chan Job
	stop chan struct{}
	once sync.Once

	pending sync.WaitGroup

	m   sync.Mutex
	err error
}

// New starts a pool with the given number of workers.
func New(workers int) *Pool {
	if workers < 1 {
		workers = 1
	}
	p := &Pool{
		jobs: make(chan Job),
		stop: make(chan struct{}),
	}
	for i := 0; i < workers; i++ {
		go p.worker()
	}
	return p
}

// Add submits jobs without blocking the caller.
func (p *Pool) Add(jobs []Job) {
	p.pending.Add(len(jobs))
	go p.enqueue(jobs)
}

// AddBlocking submits jobs, blocking until all of them have been
// handed to a worker.
func (p *Pool) AddBlocking(jobs []Job) {
	p.pending.Add(len(jobs))
	p.enqueue(jobs)
}

// Wait blocks until all submitted jobs have completed or the pool was
// stopped, and returns the first job error encountered.
func (p *Pool) Wait() error {
	p.pending.Wait()
	p.m.Lock()
	defer p.m.Unlock()
	return p.err
}

// Stop discards jobs that have not yet been picked up by a worker.
// Jobs already running are allowed to finish.
func (p *Pool) Stop() {
	p.once.Do(func() {
		close(p.stop)
	})
}

func (p *Pool) enqueue(jobs []Job) {
	for _, job := range jobs {
		select {
		case p.jobs <- job:
		case <-p.stop:
			p.pending.Done()
		}
	}
}

func (p *Pool) worker() {
	for {
		select {
		case <-p.stop:
			return
		case job := <-p.jobs:
			if err := job(); err != nil {
				p.m.Lock()
				if p.err == nil {
					p.err = err
				}
				p.m.Unlock()
			}
			p.pending.Done()
		}
	}
}
