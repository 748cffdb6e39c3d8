package worker // import "github.com/openshelf/openshelf/worker"

import (
	"github.com/openshelf/openshelf/model"
)

// WorkPool is a queue of background jobs with a fixed set of workers
// draining it.
type WorkPool interface {
	Push(job model.Job)
	GetQueue() chan model.Job
}
