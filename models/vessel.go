package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Vessel belongs to exactly one client and is deleted with it. Mmsi is a
// free-text identifier of up to 9 characters, not validated as a real MMSI.
type Vessel struct {
	Uid      string            `json:"uid" gorm:"primaryKey"`
	Name     string            `json:"name"`
	Mmsi     string            `json:"mmsi" gorm:"size:9"`
	ClientID string            `json:"client_id" gorm:"index;not null"`
	Metadata datatypes.JSONMap `json:"metadata" gorm:"type:jsonb"`

	Jobs []Job `json:"-" gorm:"foreignKey:VesselID;constraint:OnDelete:SET NULL"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (vessel *Vessel) BeforeCreate(tx *gorm.DB) (err error) {
	// UUID version 4
	if vessel.Uid == "" {
		vessel.Uid = uuid.NewString()
	}
	return
}

func (vessel *Vessel) BeforeSave(tx *gorm.DB) (err error) {
	if len(vessel.Mmsi) > 9 {
		return &ValidationError{Field: "mmsi", Reason: "must be at most 9 characters"}
	}
	if vessel.Metadata == nil {
		vessel.Metadata = datatypes.JSONMap{}
	}
	return
}

func GetVessel(db *gorm.DB, uid string) (*Vessel, error) {
	var vessel Vessel
	if err := db.Where("uid = ?", uid).First(&vessel).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, &NotFoundError{Kind: "vessel", UID: uid}
		}
		return nil, err
	}
	return &vessel, nil
}
