package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Attachment is a stored file tied to any registered entity by kind and uid.
type Attachment struct {
	Uid       string            `json:"uid" gorm:"primaryKey"`
	OwnerKind string            `json:"owner_kind" gorm:"index:idx_attachments_owner,priority:1;not null"`
	OwnerUID  string            `json:"owner_uid" gorm:"index:idx_attachments_owner,priority:2;not null"`
	Name      string            `json:"name" gorm:"not null"`
	FilePath  string            `json:"file_path" gorm:"not null"`
	Metadata  datatypes.JSONMap `json:"metadata" gorm:"type:jsonb"`

	CreatedAt time.Time `json:"created_at"`
}

func (attachment *Attachment) BeforeCreate(tx *gorm.DB) (err error) {
	// UUID version 4
	if attachment.Uid == "" {
		attachment.Uid = uuid.NewString()
	}
	return
}

// CreateAttachment stores an attachment row after checking the owner exists.
func CreateAttachment(db *gorm.DB, ownerKind EntityKind, ownerUID, name, filePath string, metadata datatypes.JSONMap) (*Attachment, error) {
	if _, err := LookupEntity(db, EntityRef{Kind: ownerKind, UID: ownerUID}); err != nil {
		return nil, err
	}
	attachment := Attachment{
		OwnerKind: string(ownerKind),
		OwnerUID:  ownerUID,
		Name:      name,
		FilePath:  filePath,
		Metadata:  metadata,
	}
	if err := db.Create(&attachment).Error; err != nil {
		return nil, err
	}
	return &attachment, nil
}

func GetAttachment(db *gorm.DB, uid string) (*Attachment, error) {
	var attachment Attachment
	if err := db.Where("uid = ?", uid).First(&attachment).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, &NotFoundError{Kind: "attachment", UID: uid}
		}
		return nil, err
	}
	return &attachment, nil
}

// AttachmentsFor lists the attachments of one entity.
func AttachmentsFor(db *gorm.DB, ownerKind EntityKind, ownerUID string) ([]Attachment, error) {
	var attachments []Attachment
	err := db.Where("owner_kind = ? AND owner_uid = ?", string(ownerKind), ownerUID).
		Order("created_at").Find(&attachments).Error
	if err != nil {
		return nil, err
	}
	return attachments, nil
}
