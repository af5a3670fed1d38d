package main

import (
	"math/rand"
	"runtime"
	"sync"
)

// workerPool fans tasks out to a fixed set of goroutines. Each worker owns
// a private random generator so tasks never contend on a shared stream.
type workerPool struct {
	tasks chan func(*rand.Rand)
	wg    sync.WaitGroup
}

// newWorkerPool starts the workers. A non-positive count uses all CPUs.
func newWorkerPool(workers int, seed int64) *workerPool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	pool := &workerPool{
		tasks: make(chan func(*rand.Rand), workers),
	}
	for i := 0; i < workers; i++ {
		rng := rand.New(rand.NewSource(seed + int64(i)))
		pool.wg.Add(1)
		go pool.run(rng)
	}
	return pool
}

// run is the main worker loop
func (p *workerPool) run(rng *rand.Rand) {
	defer p.wg.Done()

	for task := range p.tasks {
		task(rng)
	}
}

// submit queues a task, blocking once the queue is full
func (p *workerPool) submit(task func(*rand.Rand)) {
	p.tasks <- task
}

// wait closes the queue and blocks until every queued task has run
func (p *workerPool) wait() {
	close(p.tasks)
	p.wg.Wait()
}

// splitSamples divides a sample budget into one chunk per worker. The
// chunks sum to the full budget and never include empty chunks.
func splitSamples(samples, workers int) []int {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > samples {
		workers = samples
	}

	chunks := make([]int, 0, workers)
	for workers > 0 {
		n := samples / workers
		chunks = append(chunks, n)
		samples -= n
		workers--
	}
	return chunks
}
