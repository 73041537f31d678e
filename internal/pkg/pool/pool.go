package pool

import "sync"

// Pool runs submitted jobs on a fixed number of goroutines.
type Pool struct {
	jobs chan func()
	wg   sync.WaitGroup
	once sync.Once
}

func New(n int) *Pool {
	if n < 1 {
		n = 1
	}
	p := &Pool{
		jobs: make(chan func(), n*2),
	}
	p.wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer p.wg.Done()
			for f := range p.jobs {
				if f != nil {
					f()
				}
			}
		}()
	}
	return p
}

// Submit blocks while the queue is full. It must not be called after Wait.
func (p *Pool) Submit(f func()) {
	p.jobs <- f
}

// Wait stops accepting jobs and blocks until the queued ones finish.
func (p *Pool) Wait() {
	p.once.Do(func() { close(p.jobs) })
	p.wg.Wait()
}
