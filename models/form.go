package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// FormTemplate is an uploaded fillable document. Annotations holds the field
// names parsed out of the template, as a JSON list.
type FormTemplate struct {
	Uid         string         `json:"uid" gorm:"primaryKey"`
	Name        string         `json:"name" gorm:"not null"`
	FilePath    string         `json:"file_path" gorm:"not null"`
	Annotations datatypes.JSON `json:"annotations" gorm:"type:jsonb"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (template *FormTemplate) BeforeCreate(tx *gorm.DB) (err error) {
	// UUID version 4
	if template.Uid == "" {
		template.Uid = uuid.NewString()
	}
	return
}

// RenderedForm records one filling of a template for a client. Fields maps
// annotation names to the values written into the output file.
type RenderedForm struct {
	Uid        string            `json:"uid" gorm:"primaryKey"`
	TemplateID *string           `json:"template_id"`
	Template   *FormTemplate     `json:"-" gorm:"foreignKey:TemplateID;references:Uid;constraint:OnDelete:SET NULL"`
	ClientID   *string           `json:"client_id"`
	Client     *Client           `json:"-" gorm:"foreignKey:ClientID;references:Uid;constraint:OnDelete:SET NULL"`
	Fields     datatypes.JSONMap `json:"fields" gorm:"type:jsonb"`
	OutputPath string            `json:"output_path"`

	CreatedAt time.Time `json:"created_at"`
}

func (form *RenderedForm) BeforeCreate(tx *gorm.DB) (err error) {
	// UUID version 4
	if form.Uid == "" {
		form.Uid = uuid.NewString()
	}
	return
}

func GetFormTemplate(db *gorm.DB, uid string) (*FormTemplate, error) {
	var template FormTemplate
	if err := db.Where("uid = ?", uid).First(&template).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, &NotFoundError{Kind: "form_template", UID: uid}
		}
		return nil, err
	}
	return &template, nil
}

func GetRenderedForm(db *gorm.DB, uid string) (*RenderedForm, error) {
	var form RenderedForm
	if err := db.Where("uid = ?", uid).First(&form).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, &NotFoundError{Kind: "rendered_form", UID: uid}
		}
		return nil, err
	}
	return &form, nil
}

// RenderForm records a rendered form for a client from a template. The output
// file itself is produced by the adapter layer; this persists the record.
func RenderForm(db *gorm.DB, templateUID, clientUID string, fields datatypes.JSONMap, outputPath string) (*RenderedForm, error) {
	template, err := GetFormTemplate(db, templateUID)
	if err != nil {
		return nil, err
	}
	client, err := GetClient(db, clientUID)
	if err != nil {
		return nil, err
	}
	form := RenderedForm{
		TemplateID: &template.Uid,
		ClientID:   &client.Uid,
		Fields:     fields,
		OutputPath: outputPath,
	}
	if err := db.Create(&form).Error; err != nil {
		return nil, err
	}
	return &form, nil
}
