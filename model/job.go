package model //import "github.com/openshelf/openshelf/model"

const (
	JobStatusPending = "pending"
	JobStatusRunning = "running"
	JobStatusDone    = "done"
	JobStatusFailed  = "failed"
)

// JobTypeImageConvert converts an uploaded post image to webp.
const JobTypeImageConvert = "IMAGE_CONVERT"

type Job struct {
	ID     int32
	Type   string
	Status string
	// Path is the source file for image jobs.
	Path string
	// PostID is the target post for image jobs.
	PostID int32
	Item   interface{}
}
