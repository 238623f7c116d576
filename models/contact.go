package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Contact is a person reachable about clients, SKUs or credits. Connections
// form a symmetric adjacency set with no cycle guard.
type Contact struct {
	Uid            string            `json:"uid" gorm:"primaryKey"`
	FirstName      string            `json:"first_name"`
	LastName       string            `json:"last_name"`
	Role           string            `json:"role"`
	BillingAddress string            `json:"billing_address"`
	MailingAddress string            `json:"mailing_address"`
	PrimaryEmail   string            `json:"primary_email"`
	PhoneNumber    string            `json:"phone_number"`
	Metadata       datatypes.JSONMap `json:"metadata" gorm:"type:jsonb"`
	ImagePath      string            `json:"image_path"`

	Connections []*Contact `json:"-" gorm:"many2many:contact_connections"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (contact *Contact) BeforeCreate(tx *gorm.DB) (err error) {
	// UUID version 4
	if contact.Uid == "" {
		contact.Uid = uuid.NewString()
	}
	return
}

func (contact *Contact) BeforeSave(tx *gorm.DB) (err error) {
	if contact.Metadata == nil {
		contact.Metadata = datatypes.JSONMap{}
	}
	return
}

// Fullname joins the name fields for display.
func (contact *Contact) Fullname() string {
	if contact.FirstName == "" {
		return contact.LastName
	}
	if contact.LastName == "" {
		return contact.FirstName
	}
	return contact.FirstName + " " + contact.LastName
}

func GetContact(db *gorm.DB, uid string) (*Contact, error) {
	var contact Contact
	if err := db.Where("uid = ?", uid).First(&contact).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, &NotFoundError{Kind: "contact", UID: uid}
		}
		return nil, err
	}
	return &contact, nil
}

// ConnectContacts records a symmetric connection between two contacts.
func ConnectContacts(db *gorm.DB, uid, otherUID string) error {
	contact, err := GetContact(db, uid)
	if err != nil {
		return err
	}
	other, err := GetContact(db, otherUID)
	if err != nil {
		return err
	}
	if err := db.Model(contact).Association("Connections").Append(other); err != nil {
		return err
	}
	return db.Model(other).Association("Connections").Append(contact)
}

// ContactConnections returns the adjacency set of one contact.
func ContactConnections(db *gorm.DB, uid string) ([]*Contact, error) {
	contact, err := GetContact(db, uid)
	if err != nil {
		return nil, err
	}
	var connections []*Contact
	if err := db.Model(contact).Association("Connections").Find(&connections); err != nil {
		return nil, err
	}
	return connections, nil
}
