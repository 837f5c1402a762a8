package model

// TaskStatus represents the state of a sound download task
type TaskStatus string

const (
	// TaskStatusPending means the task is queued behind other downloads
	TaskStatusPending TaskStatus = "Pending"

	// TaskStatusDownloading means the sound is being fetched from the CDN
	TaskStatusDownloading TaskStatus = "Downloading"

	// TaskStatusStopping means a stop was requested and the fetch is unwinding
	TaskStatusStopping TaskStatus = "Stopping"

	// TaskStatusStopped means the task was stopped by the user
	TaskStatusStopped TaskStatus = "Stopped"

	// TaskStatusCompleted means the sound file was written to the game folder
	TaskStatusCompleted TaskStatus = "Completed"

	// TaskStatusError means the task failed with an error
	TaskStatusError TaskStatus = "Error"
)

// String returns the string representation of TaskStatus
func (ts TaskStatus) String() string {
	return string(ts)
}

// IsActive returns true if the task currently holds a download slot
func (ts TaskStatus) IsActive() bool {
	return ts == TaskStatusDownloading || ts == TaskStatusStopping
}

// IsFinished returns true if the task is in a finished state (completed, stopped, or error)
func (ts TaskStatus) IsFinished() bool {
	return ts == TaskStatusCompleted || ts == TaskStatusStopped || ts == TaskStatusError
}
