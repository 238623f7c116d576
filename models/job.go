package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Job is a unit of work against a vessel, optionally originated from a task.
// It survives vessel deletion with the link cleared.
type Job struct {
	Uid          string            `json:"uid" gorm:"primaryKey"`
	VesselID     *string           `json:"vessel_id" gorm:"index"`
	OriginTaskID *string           `json:"origin_task_id"`
	OriginTask   *Task             `json:"-" gorm:"foreignKey:OriginTaskID;references:Uid;constraint:OnDelete:SET NULL"`
	Metadata     datatypes.JSONMap `json:"metadata" gorm:"type:jsonb"`

	Invoices []Invoice `json:"-" gorm:"foreignKey:JobID;constraint:OnDelete:SET NULL"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (job *Job) BeforeCreate(tx *gorm.DB) (err error) {
	// UUID version 4
	if job.Uid == "" {
		job.Uid = uuid.NewString()
	}
	return
}

func (job *Job) BeforeSave(tx *gorm.DB) (err error) {
	if job.Metadata == nil {
		job.Metadata = datatypes.JSONMap{}
	}
	return
}

func GetJob(db *gorm.DB, uid string) (*Job, error) {
	var job Job
	if err := db.Where("uid = ?", uid).First(&job).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, &NotFoundError{Kind: "job", UID: uid}
		}
		return nil, err
	}
	return &job, nil
}
