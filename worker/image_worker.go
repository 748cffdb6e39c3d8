package worker

import (
	"os"

	"github.com/openshelf/openshelf/log"
	"github.com/openshelf/openshelf/model"
	"github.com/openshelf/openshelf/store"
	"github.com/openshelf/openshelf/util"
	"go.uber.org/zap"
)

const webpQuality = 80

// ImageConvertPool converts uploaded post images to webp off the
// request path.
type ImageConvertPool struct {
	queue chan model.Job
}

func NewImagePool(store *store.Store, size int) *ImageConvertPool {
	pool := &ImageConvertPool{
		queue: make(chan model.Job),
	}

	for i := 0; i < size; i++ {
		worker := &ImageConvertWorker{id: i, store: store}
		go worker.Run(pool.queue)
	}

	return pool
}

func (p *ImageConvertPool) GetQueue() chan model.Job {
	return p.queue
}

// Implement WorkPool interface
func (p *ImageConvertPool) Push(job model.Job) {
	p.queue <- job
}

type ImageConvertWorker struct {
	id    int
	store *store.Store
}

func (w *ImageConvertWorker) Run(c <-chan model.Job) {
	log.Debug("ImageConvertWorker is running", zap.Int("worker_id", w.id))

	for job := range c {
		log.Debug("Job received by worker",
			zap.Int("worker_id", w.id),
			zap.String("path", job.Path),
			zap.Int32("post_id", job.PostID))

		if job.Type != model.JobTypeImageConvert {
			log.Warn("Unexpected job type", zap.String("type", job.Type))
			continue
		}

		converted := util.ImageToWebp(job.Path, webpQuality)
		if converted == "" {
			log.Error("Failed to convert image", zap.String("path", job.Path))
			continue
		}

		if err := w.store.SetPostImagePath(job.PostID, converted); err != nil {
			log.Error("Failed to attach image to post", zap.Error(err))
			os.Remove(converted)
			continue
		}

		// The original upload is no longer needed.
		os.Remove(job.Path)

		log.Debug("Image converted",
			zap.Int("worker_id", w.id),
			zap.String("output", converted))
	}
}
