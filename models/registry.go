package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// EntityKind tags an entity type for registry lookups.
type EntityKind string

const (
	KindClientEntity   EntityKind = "client"
	KindContactEntity  EntityKind = "contact"
	KindVesselEntity   EntityKind = "vessel"
	KindTaskEntity     EntityKind = "task"
	KindJobEntity      EntityKind = "job"
	KindSKUEntity      EntityKind = "sku"
	KindInvoiceEntity  EntityKind = "invoice"
	KindLineItemEntity EntityKind = "line_item"
	KindCreditEntity   EntityKind = "credit"
	KindTemplateEntity EntityKind = "form_template"
	KindRenderedEntity EntityKind = "rendered_form"
)

// EntityRef is a typed identifier: the kind travels with the uid, so a lookup
// goes straight to one table instead of probing each model in turn.
type EntityRef struct {
	Kind EntityKind
	UID  string
}

// MetadataMode selects how SetEntityMetadata combines with the stored map.
type MetadataMode string

const (
	MetadataUpdate  MetadataMode = "update"  // shallow merge into existing
	MetadataReplace MetadataMode = "replace" // discard existing entirely
)

type entityOps struct {
	// model is a zero-value instance used for metadata column access;
	// nil means the kind carries no metadata.
	model interface{}
	fetch func(db *gorm.DB, uid string) (interface{}, error)
}

var registry = map[EntityKind]entityOps{
	KindClientEntity: {&Client{}, func(db *gorm.DB, uid string) (interface{}, error) { return GetClient(db, uid) }},
	KindContactEntity: {&Contact{}, func(db *gorm.DB, uid string) (interface{}, error) { return GetContact(db, uid) }},
	KindVesselEntity: {&Vessel{}, func(db *gorm.DB, uid string) (interface{}, error) { return GetVessel(db, uid) }},
	KindTaskEntity: {&Task{}, func(db *gorm.DB, uid string) (interface{}, error) { return GetTask(db, uid) }},
	KindJobEntity: {&Job{}, func(db *gorm.DB, uid string) (interface{}, error) { return GetJob(db, uid) }},
	KindSKUEntity: {&SKU{}, func(db *gorm.DB, uid string) (interface{}, error) { return GetSKU(db, uid) }},
	KindInvoiceEntity: {&Invoice{}, func(db *gorm.DB, uid string) (interface{}, error) { return GetInvoice(db, uid) }},
	KindCreditEntity: {&Credit{}, func(db *gorm.DB, uid string) (interface{}, error) { return getCredit(db, uid) }},
	KindLineItemEntity: {nil, func(db *gorm.DB, uid string) (interface{}, error) { return getLineItem(db, uid) }},
	KindTemplateEntity: {nil, func(db *gorm.DB, uid string) (interface{}, error) { return GetFormTemplate(db, uid) }},
	KindRenderedEntity: {nil, func(db *gorm.DB, uid string) (interface{}, error) { return GetRenderedForm(db, uid) }},
}

func getCredit(db *gorm.DB, uid string) (*Credit, error) {
	var credit Credit
	if err := db.Where("uid = ?", uid).First(&credit).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, &NotFoundError{Kind: "credit", UID: uid}
		}
		return nil, err
	}
	return &credit, nil
}

func getLineItem(db *gorm.DB, uid string) (*LineItem, error) {
	var item LineItem
	if err := db.Where("uid = ?", uid).First(&item).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, &NotFoundError{Kind: "line_item", UID: uid}
		}
		return nil, err
	}
	return &item, nil
}

// ValidEntityKind reports whether kind names a registered entity type.
func ValidEntityKind(kind string) bool {
	_, ok := registry[EntityKind(kind)]
	return ok
}

// LookupEntity fetches the entity a ref points to.
func LookupEntity(db *gorm.DB, ref EntityRef) (interface{}, error) {
	ops, ok := registry[ref.Kind]
	if !ok {
		return nil, &ValidationError{Field: "kind", Reason: "unknown entity kind " + string(ref.Kind)}
	}
	return ops.fetch(db, ref.UID)
}

// SetEntityMetadata writes an entity's metadata map, either merging shallowly
// into the stored map or replacing it, and returns the stored result.
func SetEntityMetadata(db *gorm.DB, ref EntityRef, metadata datatypes.JSONMap, mode MetadataMode) (datatypes.JSONMap, error) {
	ops, ok := registry[ref.Kind]
	if !ok {
		return nil, &ValidationError{Field: "kind", Reason: "unknown entity kind " + string(ref.Kind)}
	}
	if ops.model == nil {
		return nil, &ValidationError{Field: "kind", Reason: string(ref.Kind) + " has no metadata"}
	}
	if _, err := ops.fetch(db, ref.UID); err != nil {
		return nil, err
	}

	var out datatypes.JSONMap
	err := db.Transaction(func(tx *gorm.DB) error {
		switch mode {
		case MetadataReplace:
			out = metadata
			if out == nil {
				out = datatypes.JSONMap{}
			}
		case MetadataUpdate:
			var row struct {
				Metadata datatypes.JSONMap
			}
			if err := tx.Model(ops.model).Where("uid = ?", ref.UID).
				Select("metadata").Take(&row).Error; err != nil {
				return err
			}
			out = row.Metadata
			if out == nil {
				out = datatypes.JSONMap{}
			}
			for k, v := range metadata {
				out[k] = v
			}
		default:
			return &ValidationError{Field: "mode", Reason: "must be update or replace"}
		}
		return tx.Model(ops.model).Where("uid = ?", ref.UID).
			Update("metadata", out).Error
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
