package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Task states. REJECTED and PROCESSED are terminal by convention only; no
// guard prevents re-entry, matching the unconstrained source model.
const (
	TaskRejected   = -1
	TaskReceived   = 0
	TaskInProgress = 1
	TaskProcessed  = 2
)

var taskStates = map[int]string{
	TaskRejected:   "rejected",
	TaskReceived:   "received",
	TaskInProgress: "in_progress",
	TaskProcessed:  "processed",
}

// Task is a client-initiated request that may later originate a job.
type Task struct {
	Uid      string            `json:"uid" gorm:"primaryKey"`
	ClientID string            `json:"client_id" gorm:"index;not null"`
	State    int               `json:"state"`
	Metadata datatypes.JSONMap `json:"metadata" gorm:"type:jsonb"`

	ContactMentions []*Contact `json:"-" gorm:"many2many:task_mentions"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (task *Task) BeforeCreate(tx *gorm.DB) (err error) {
	// UUID version 4
	if task.Uid == "" {
		task.Uid = uuid.NewString()
	}
	return
}

func (task *Task) BeforeSave(tx *gorm.DB) (err error) {
	if task.Metadata == nil {
		task.Metadata = datatypes.JSONMap{}
	}
	return
}

func GetTask(db *gorm.DB, uid string) (*Task, error) {
	var task Task
	if err := db.Where("uid = ?", uid).First(&task).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, &NotFoundError{Kind: "task", UID: uid}
		}
		return nil, err
	}
	return &task, nil
}

// SetState stores a new task state. Only the value is checked.
func (task *Task) SetState(db *gorm.DB, state int) error {
	if _, ok := taskStates[state]; !ok {
		return &ValidationError{Field: "state", Reason: "unknown task state"}
	}
	task.State = state
	return db.Model(&Task{}).Where("uid = ?", task.Uid).
		Update("state", state).Error
}

// TaskStateName resolves a task state value to its label.
func TaskStateName(state int) string {
	return taskStates[state]
}
