package worker // import "github.com/Davidnet/BookWise/internal/worker"

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/Davidnet/BookWise/internal/log"
	"github.com/Davidnet/BookWise/internal/model"
)

const defaultQueueSize = 64

type WorkPool interface {
	Push(job model.EmbeddingJob)
}

// Embedder turns text into a vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// EmbeddingStore receives the computed vectors.
type EmbeddingStore interface {
	SetBookEmbedding(ctx context.Context, owner, id string, embedding []float32) error
}

// EmbeddingPool embeds book notes in the background. Jobs are best effort,
// failures are logged and dropped.
type EmbeddingPool struct {
	queue  chan model.EmbeddingJob
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewEmbeddingPool(embedder Embedder, store EmbeddingStore, size int) *EmbeddingPool {
	if size < 1 {
		size = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	pool := &EmbeddingPool{
		queue:  make(chan model.EmbeddingJob, defaultQueueSize),
		ctx:    ctx,
		cancel: cancel,
	}

	for i := 0; i < size; i++ {
		worker := &EmbeddingWorker{id: i, embedder: embedder, store: store}
		pool.wg.Add(1)
		go func() {
			defer pool.wg.Done()
			worker.Run(ctx, pool.queue)
		}()
	}

	return pool
}

// Push blocks until a worker accepts the job or the pool is stopped.
func (p *EmbeddingPool) Push(job model.EmbeddingJob) {
	select {
	case p.queue <- job:
	case <-p.ctx.Done():
		log.Debug("Embedding pool stopped, job dropped", zap.String("book_id", job.BookID))
	}
}

// NotesChanged queues an embedding job without blocking the caller. The job
// is dropped when the queue is full or the pool is stopped.
func (p *EmbeddingPool) NotesChanged(owner, bookID, notes string) {
	job := model.EmbeddingJob{Owner: owner, BookID: bookID, Notes: notes}
	if p.ctx.Err() != nil {
		return
	}
	select {
	case p.queue <- job:
	default:
		log.Warn("Embedding queue full, job dropped", zap.String("book_id", bookID))
	}
}

// Stop signals the workers and waits for them. Queued jobs are dropped.
func (p *EmbeddingPool) Stop() {
	p.cancel()
	p.wg.Wait()
}
