package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SKU is one sellable unit. All kinds share this row; the kind lives in
// Metadata under the "type" key and the typed views filter on it.
type SKU struct {
	Uid      string            `json:"uid" gorm:"primaryKey"`
	Name     string            `json:"name"`
	Metadata datatypes.JSONMap `json:"metadata" gorm:"type:jsonb"`

	DefaultQuantity decimal.Decimal `json:"default_quantity" gorm:"type:numeric(32,2)"`
	DefaultPrice    decimal.Decimal `json:"default_price" gorm:"type:numeric(32,2)"`

	// Declared bounds; no operation enforces them.
	MinimumPrice    *decimal.Decimal `json:"minimum_price" gorm:"type:numeric(32,2)"`
	MaximumPrice    *decimal.Decimal `json:"maximum_price" gorm:"type:numeric(32,2)"`
	MinimumQuantity *decimal.Decimal `json:"minimum_quantity" gorm:"type:numeric(32,2)"`
	MaximumQuantity *decimal.Decimal `json:"maximum_quantity" gorm:"type:numeric(32,2)"`

	Units     string `json:"units"`
	ImagePath string `json:"image_path"`

	Related  []*SKU     `json:"-" gorm:"many2many:sku_relations"`
	Contacts []*Contact `json:"-" gorm:"many2many:sku_contacts"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (sku *SKU) BeforeCreate(tx *gorm.DB) (err error) {
	// UUID version 4
	if sku.Uid == "" {
		sku.Uid = uuid.NewString()
	}
	return
}

// Metadata is never stored as NULL; an empty map is substituted.
func (sku *SKU) BeforeSave(tx *gorm.DB) (err error) {
	if sku.Metadata == nil {
		sku.Metadata = datatypes.JSONMap{}
	}
	return
}

// Kind returns the stored type tag, or misc when the key is absent.
func (sku *SKU) Kind() string {
	v, ok := sku.Metadata[MetadataTypeKey]
	if !ok {
		return KindMisc
	}
	s, _ := v.(string)
	return s
}

// SKUInput carries the common (non-metadata) fields of a new SKU.
type SKUInput struct {
	Name            string           `json:"name"`
	DefaultQuantity *decimal.Decimal `json:"default_quantity"`
	DefaultPrice    *decimal.Decimal `json:"default_price"`
	MinimumPrice    *decimal.Decimal `json:"minimum_price"`
	MaximumPrice    *decimal.Decimal `json:"maximum_price"`
	MinimumQuantity *decimal.Decimal `json:"minimum_quantity"`
	MaximumQuantity *decimal.Decimal `json:"maximum_quantity"`
	Units           string           `json:"units"`
}

// CreateSKU validates typeData against the kind's schema and persists a SKU
// tagged with that kind. Quantity and price default to 1, units default per
// kind unless given explicitly.
func CreateSKU(db *gorm.DB, kind string, typeData map[string]interface{}, common SKUInput) (*SKU, error) {
	kind, err := NormalizeKind(kind)
	if err != nil {
		return nil, err
	}
	metadata, err := NormalizeMetadata(kind, typeData)
	if err != nil {
		return nil, err
	}

	one := decimal.NewFromInt(1)
	sku := SKU{
		Name:            common.Name,
		Metadata:        metadata,
		DefaultQuantity: one,
		DefaultPrice:    one,
		MinimumPrice:    common.MinimumPrice,
		MaximumPrice:    common.MaximumPrice,
		MinimumQuantity: common.MinimumQuantity,
		MaximumQuantity: common.MaximumQuantity,
		Units:           common.Units,
	}
	if common.DefaultQuantity != nil {
		sku.DefaultQuantity = *common.DefaultQuantity
	}
	if common.DefaultPrice != nil {
		sku.DefaultPrice = *common.DefaultPrice
	}
	if sku.Units == "" {
		sku.Units = UnitsForKind(kind)
	}

	if err := db.Create(&sku).Error; err != nil {
		return nil, err
	}
	return &sku, nil
}

// GetSKU fetches one SKU by uid.
func GetSKU(db *gorm.DB, uid string) (*SKU, error) {
	var sku SKU
	if err := db.Where("uid = ?", uid).First(&sku).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, &NotFoundError{Kind: "sku", UID: uid}
		}
		return nil, err
	}
	return &sku, nil
}

// SKUQuery narrows QuerySKUs. Zero values mean "no filter".
type SKUQuery struct {
	Kind         string
	NameContains string
	Tag          string
}

// QuerySKUs lists SKUs, optionally scoped to one typed view and filtered by
// name substring or metadata tag. The kind filter is a JSON-path predicate on
// the metadata column, never a join.
func QuerySKUs(db *gorm.DB, q SKUQuery) ([]SKU, error) {
	query := db.Model(&SKU{})
	if q.Kind != "" {
		kind, err := NormalizeKind(q.Kind)
		if err != nil {
			return nil, err
		}
		query = scopeToKind(db, query, kind)
	}
	if q.NameContains != "" {
		query = query.Where("name LIKE ?", "%"+q.NameContains+"%")
	}
	if q.Tag != "" {
		query = query.Where(datatypes.JSONQuery("metadata").Equals(q.Tag, "tag"))
	}

	var skus []SKU
	if err := query.Order("created_at").Find(&skus).Error; err != nil {
		return nil, err
	}
	return skus, nil
}

// SKUsOfKind returns the typed view for kind: rows whose metadata type tag
// equals it. The misc view additionally admits rows with no type key at all;
// an unrecognized tag value lands in no view.
func SKUsOfKind(db *gorm.DB, kind string) ([]SKU, error) {
	return QuerySKUs(db, SKUQuery{Kind: kind})
}

func scopeToKind(db, query *gorm.DB, kind string) *gorm.DB {
	tagged := datatypes.JSONQuery("metadata").Equals(kind, MetadataTypeKey)
	if kind == KindMisc {
		untagged := db.Session(&gorm.Session{NewDB: true}).
			Not(datatypes.JSONQuery("metadata").HasKey(MetadataTypeKey))
		return query.Where(db.Session(&gorm.Session{NewDB: true}).Where(tagged).Or(untagged))
	}
	return query.Where(tagged)
}

// AddToInvoice materializes this SKU into a line item on the invoice,
// defaulting price and quantity from the SKU, and refreshes the invoice's
// cached balances in the same transaction.
func (sku *SKU) AddToInvoice(db *gorm.DB, invoiceUID string, quantity, price *decimal.Decimal) (*LineItem, error) {
	var item *LineItem
	err := db.Transaction(func(tx *gorm.DB) error {
		invoice, err := GetInvoice(tx, invoiceUID)
		if err != nil {
			return err
		}
		item, err = createLineItem(tx, invoice, sku, quantity, price)
		if err != nil {
			return err
		}
		return invoice.UpdateBalances(tx)
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// AddSKUsToInvoice adds every listed SKU to the invoice in one transaction.
// If any single add fails, none of the line items survive and the invoice's
// cached balances are untouched.
func AddSKUsToInvoice(db *gorm.DB, invoiceUID string, skuUIDs []string) ([]LineItem, error) {
	var items []LineItem
	err := db.Transaction(func(tx *gorm.DB) error {
		invoice, err := GetInvoice(tx, invoiceUID)
		if err != nil {
			return err
		}
		for _, skuUID := range skuUIDs {
			sku, err := GetSKU(tx, skuUID)
			if err != nil {
				return err
			}
			item, err := createLineItem(tx, invoice, sku, nil, nil)
			if err != nil {
				return err
			}
			items = append(items, *item)
		}
		return invoice.UpdateBalances(tx)
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

// LinkSKUs records a symmetric relation between two SKUs. Cycles are allowed;
// traversals over the relation must carry their own visited set.
func LinkSKUs(db *gorm.DB, uid, otherUID string) error {
	sku, err := GetSKU(db, uid)
	if err != nil {
		return err
	}
	other, err := GetSKU(db, otherUID)
	if err != nil {
		return err
	}
	if err := db.Model(sku).Association("Related").Append(other); err != nil {
		return err
	}
	return db.Model(other).Association("Related").Append(sku)
}

// RelatedSKUs returns the adjacency set of one SKU.
func RelatedSKUs(db *gorm.DB, uid string) ([]*SKU, error) {
	sku, err := GetSKU(db, uid)
	if err != nil {
		return nil, err
	}
	var related []*SKU
	if err := db.Model(sku).Association("Related").Find(&related); err != nil {
		return nil, err
	}
	return related, nil
}

// AttachContact links a contact (e.g. a vendor point of contact) to a SKU.
func (sku *SKU) AttachContact(db *gorm.DB, contactUID string) error {
	contact, err := GetContact(db, contactUID)
	if err != nil {
		return err
	}
	return db.Model(sku).Association("Contacts").Append(contact)
}
