package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Client is a billed party. It exclusively owns its vessels and tasks;
// invoices outlive it.
type Client struct {
	Uid       string            `json:"uid" gorm:"primaryKey"`
	Company   string            `json:"company" gorm:"not null"`
	Metadata  datatypes.JSONMap `json:"metadata" gorm:"type:jsonb"`
	ContactID *string           `json:"contact_id"`
	Contact   *Contact          `json:"-" gorm:"foreignKey:ContactID;references:Uid;constraint:OnDelete:SET NULL"`
	ImagePath string            `json:"image_path"`

	Vessels []Vessel `json:"-" gorm:"foreignKey:ClientID;constraint:OnDelete:CASCADE"`
	Tasks   []Task   `json:"-" gorm:"foreignKey:ClientID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (client *Client) BeforeCreate(tx *gorm.DB) (err error) {
	// UUID version 4
	if client.Uid == "" {
		client.Uid = uuid.NewString()
	}
	return
}

func (client *Client) BeforeSave(tx *gorm.DB) (err error) {
	if client.Metadata == nil {
		client.Metadata = datatypes.JSONMap{}
	}
	return
}

func GetClient(db *gorm.DB, uid string) (*Client, error) {
	var client Client
	if err := db.Where("uid = ?", uid).First(&client).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, &NotFoundError{Kind: "client", UID: uid}
		}
		return nil, err
	}
	return &client, nil
}
