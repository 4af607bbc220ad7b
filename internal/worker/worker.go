package worker

import (
	"context"

	"go.uber.org/zap"

	"github.com/Davidnet/BookWise/internal/log"
	"github.com/Davidnet/BookWise/internal/model"
)

type Worker interface {
	Run(ctx context.Context, c <-chan model.EmbeddingJob)
}

type EmbeddingWorker struct {
	id       int
	embedder Embedder
	store    EmbeddingStore
}

// Run handles embedding jobs until ctx is cancelled.
func (w *EmbeddingWorker) Run(ctx context.Context, c <-chan model.EmbeddingJob) {
	log.Debug("EmbeddingWorker is running", zap.Int("worker_id", w.id))

	for {
		select {
		case <-ctx.Done():
			log.Debug("EmbeddingWorker stopped", zap.Int("worker_id", w.id))
			return
		case job := <-c:
			w.handle(ctx, job)
		}
	}
}

func (w *EmbeddingWorker) handle(ctx context.Context, job model.EmbeddingJob) {
	log.Debug("Job received by worker",
		zap.Int("worker_id", w.id),
		zap.String("owner", job.Owner),
		zap.String("book_id", job.BookID))

	vector, err := w.embedder.Embed(ctx, job.Notes)
	if err != nil {
		log.Error("Error embedding notes", zap.String("book_id", job.BookID), zap.Error(err))
		return
	}
	if err := w.store.SetBookEmbedding(ctx, job.Owner, job.BookID, vector); err != nil {
		log.Error("Error saving embedding", zap.String("book_id", job.BookID), zap.Error(err))
		return
	}
	log.Debug("Notes embedded", zap.String("book_id", job.BookID), zap.Int("dimensions", len(vector)))
}
