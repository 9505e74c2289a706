package models

// TaskStatus is the lifecycle state of one in-flight upload.
type TaskStatus string

const (
	StatusPending   TaskStatus = "pending"
	StatusUploading TaskStatus = "uploading"
	StatusSuccess   TaskStatus = "success"
	StatusError     TaskStatus = "error"
)

// Terminal reports whether the status admits no further transitions.
func (s TaskStatus) Terminal() bool {
	return s == StatusSuccess || s == StatusError
}

// UploadTask tracks the progress of a single file through the pipeline.
// Tasks are ephemeral: they live in the orchestrator's progress map and are
// pruned shortly after reaching a terminal state. Never persisted.
//
// Progress is 0-100 and non-decreasing within a successful run. On error
// the value observed at the time of failure is retained.
type UploadTask struct {
	ID           string     `json:"id"`
	FileName     string     `json:"file_name"`
	Progress     int        `json:"progress"`
	Status       TaskStatus `json:"status"`
	ErrorMessage string     `json:"error_message,omitempty"`
}
