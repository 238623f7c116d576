package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Invoice states. Values are stored as-is; no transition table is enforced,
// any declared state may be set at any time.
const (
	InvoiceVoid        = -1
	InvoiceDraft       = 0
	InvoiceOpen        = 1
	InvoicePaidPartial = 2
	InvoicePaidFull    = 3
	InvoiceClosed      = 4
)

var invoiceStates = map[int]string{
	InvoiceVoid:        "void",
	InvoiceDraft:       "draft",
	InvoiceOpen:        "open",
	InvoicePaidPartial: "paid_partial",
	InvoicePaidFull:    "paid_full",
	InvoiceClosed:      "closed",
}

// Invoice aggregates line items and credits. InitialBalance and PaidBalance
// are caches of sum(line_items.subtotal) and sum(credits.amount); the sums
// over the rows stay authoritative and UpdateBalances refreshes the cache.
type Invoice struct {
	Uid      string  `json:"uid" gorm:"primaryKey"`
	ClientID *string `json:"client_id" gorm:"index"`
	Client   *Client `json:"-" gorm:"foreignKey:ClientID;references:Uid;constraint:OnDelete:SET NULL"`
	JobID    *string `json:"job_id" gorm:"index"`
	Job      *Job    `json:"-" gorm:"foreignKey:JobID;references:Uid;constraint:OnDelete:SET NULL"`

	State   int        `json:"state"`
	DueDate *time.Time `json:"due_date"`

	InitialBalance decimal.Decimal `json:"initial_balance" gorm:"type:numeric(32,2)"`
	PaidBalance    decimal.Decimal `json:"paid_balance" gorm:"type:numeric(32,2)"`

	Metadata datatypes.JSONMap `json:"metadata" gorm:"type:jsonb"`

	LineItems []LineItem `json:"line_items" gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE"`
	Credits   []Credit   `json:"credits" gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (invoice *Invoice) BeforeCreate(tx *gorm.DB) (err error) {
	// UUID version 4
	if invoice.Uid == "" {
		invoice.Uid = uuid.NewString()
	}
	return
}

func (invoice *Invoice) BeforeSave(tx *gorm.DB) (err error) {
	if invoice.Metadata == nil {
		invoice.Metadata = datatypes.JSONMap{}
	}
	return
}

// LineItem is one priced quantity of a SKU on an invoice. Subtotal is always
// recomputed from price and quantity on save; callers cannot set it.
type LineItem struct {
	Uid       string  `json:"uid" gorm:"primaryKey"`
	InvoiceID string  `json:"invoice_id" gorm:"index;not null"`
	SkuID     *string `json:"sku_id" gorm:"index"`
	Sku       *SKU    `json:"-" gorm:"foreignKey:SkuID;references:Uid;constraint:OnDelete:SET NULL"`

	Quantity decimal.Decimal `json:"quantity" gorm:"type:numeric(32,2)"`
	Price    decimal.Decimal `json:"price" gorm:"type:numeric(32,2)"`
	Subtotal decimal.Decimal `json:"subtotal" gorm:"type:numeric(32,2)"`

	PostedDate  time.Time `json:"posted_date" gorm:"autoCreateTime"`
	ServiceDate time.Time `json:"service_date" gorm:"autoCreateTime"`
}

func (item *LineItem) BeforeCreate(tx *gorm.DB) (err error) {
	// UUID version 4
	if item.Uid == "" {
		item.Uid = uuid.NewString()
	}
	return
}

func (item *LineItem) BeforeSave(tx *gorm.DB) (err error) {
	item.Subtotal = item.Price.Mul(item.Quantity)
	return
}

// Credit is a manual reduction against an invoice, optionally offsetting one
// line item and optionally attributed to a contact.
type Credit struct {
	Uid        string    `json:"uid" gorm:"primaryKey"`
	InvoiceID  string    `json:"invoice_id" gorm:"index;not null"`
	LineItemID *string   `json:"line_item_id"`
	LineItem   *LineItem `json:"-" gorm:"foreignKey:LineItemID;references:Uid;constraint:OnDelete:SET NULL"`
	ContactID  *string   `json:"contact_id"`
	Contact    *Contact  `json:"-" gorm:"foreignKey:ContactID;references:Uid;constraint:OnDelete:SET NULL"`

	Amount   decimal.Decimal   `json:"amount" gorm:"type:numeric(32,2)"`
	Memo     string            `json:"memo"`
	Metadata datatypes.JSONMap `json:"metadata" gorm:"type:jsonb"`

	CreatedAt time.Time `json:"created_at"`
}

func (credit *Credit) BeforeCreate(tx *gorm.DB) (err error) {
	// UUID version 4
	if credit.Uid == "" {
		credit.Uid = uuid.NewString()
	}
	return
}

// CreateInvoice opens a new invoice in DRAFT with empty balances.
func CreateInvoice(db *gorm.DB, clientUID, jobUID *string, dueDate *time.Time, metadata datatypes.JSONMap) (*Invoice, error) {
	if clientUID != nil {
		if _, err := GetClient(db, *clientUID); err != nil {
			return nil, err
		}
	}
	if jobUID != nil {
		if _, err := GetJob(db, *jobUID); err != nil {
			return nil, err
		}
	}
	invoice := Invoice{
		ClientID: clientUID,
		JobID:    jobUID,
		State:    InvoiceDraft,
		DueDate:  dueDate,
		Metadata: metadata,
	}
	if err := db.Create(&invoice).Error; err != nil {
		return nil, err
	}
	return &invoice, nil
}

// GetInvoice fetches one invoice by uid, without preloading rows.
func GetInvoice(db *gorm.DB, uid string) (*Invoice, error) {
	var invoice Invoice
	if err := db.Where("uid = ?", uid).First(&invoice).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, &NotFoundError{Kind: "invoice", UID: uid}
		}
		return nil, err
	}
	return &invoice, nil
}

// InitialBalanceFromRows sums subtotal over the owned line items. This is the
// authoritative value the InitialBalance cache must track.
func (invoice *Invoice) InitialBalanceFromRows(db *gorm.DB) (decimal.Decimal, error) {
	var items []LineItem
	if err := db.Where("invoice_id = ?", invoice.Uid).Find(&items).Error; err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, item := range items {
		if item.InvoiceID != invoice.Uid {
			return decimal.Zero, &ConsistencyError{InvoiceUID: invoice.Uid, Detail: "line item " + item.Uid + " belongs to invoice " + item.InvoiceID}
		}
		total = total.Add(item.Subtotal)
	}
	return total, nil
}

// PaidBalanceFromRows sums amount over the owned credits, the authoritative
// counterpart of the PaidBalance cache.
func (invoice *Invoice) PaidBalanceFromRows(db *gorm.DB) (decimal.Decimal, error) {
	var credits []Credit
	if err := db.Where("invoice_id = ?", invoice.Uid).Find(&credits).Error; err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, credit := range credits {
		if credit.InvoiceID != invoice.Uid {
			return decimal.Zero, &ConsistencyError{InvoiceUID: invoice.Uid, Detail: "credit " + credit.Uid + " belongs to invoice " + credit.InvoiceID}
		}
		total = total.Add(credit.Amount)
	}
	return total, nil
}

// RemainingBalanceFromRows recomputes the remaining balance from the rows.
func (invoice *Invoice) RemainingBalanceFromRows(db *gorm.DB) (decimal.Decimal, error) {
	initial, err := invoice.InitialBalanceFromRows(db)
	if err != nil {
		return decimal.Zero, err
	}
	paid, err := invoice.PaidBalanceFromRows(db)
	if err != nil {
		return decimal.Zero, err
	}
	return initial.Sub(paid), nil
}

// RemainingBalance derives from the cached balances. It is only as fresh as
// the last UpdateBalances call.
func (invoice *Invoice) RemainingBalance() decimal.Decimal {
	return invoice.InitialBalance.Sub(invoice.PaidBalance)
}

// numeric(32,2) holds 30 integer digits.
const maxBalanceDigits = 30

// UpdateBalances refreshes the cached balances from the authoritative sums
// and persists them. Every operation that creates, updates or deletes a line
// item or credit calls this inside the same transaction.
func (invoice *Invoice) UpdateBalances(tx *gorm.DB) error {
	initial, err := invoice.InitialBalanceFromRows(tx)
	if err != nil {
		return err
	}
	paid, err := invoice.PaidBalanceFromRows(tx)
	if err != nil {
		return err
	}
	for _, sum := range []decimal.Decimal{initial, paid} {
		if len(sum.Abs().Truncate(0).String()) > maxBalanceDigits {
			return &ConsistencyError{InvoiceUID: invoice.Uid, Detail: "balance sum exceeds numeric(32,2)"}
		}
	}
	invoice.InitialBalance = initial
	invoice.PaidBalance = paid
	return tx.Model(&Invoice{}).Where("uid = ?", invoice.Uid).
		Updates(map[string]interface{}{
			"initial_balance": initial,
			"paid_balance":    paid,
		}).Error
}

func createLineItem(tx *gorm.DB, invoice *Invoice, sku *SKU, quantity, price *decimal.Decimal) (*LineItem, error) {
	item := LineItem{
		InvoiceID: invoice.Uid,
		SkuID:     &sku.Uid,
		Quantity:  sku.DefaultQuantity,
		Price:     sku.DefaultPrice,
	}
	if quantity != nil {
		item.Quantity = *quantity
	}
	if price != nil {
		item.Price = *price
	}
	if err := tx.Create(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// AddLineItem attaches a SKU to an invoice as a new line item, price and
// quantity defaulted from the SKU, and refreshes the cached balances in the
// same transaction.
func AddLineItem(db *gorm.DB, invoiceUID, skuUID string, price, quantity *decimal.Decimal) (*LineItem, error) {
	sku, err := GetSKU(db, skuUID)
	if err != nil {
		return nil, err
	}
	return sku.AddToInvoice(db, invoiceUID, quantity, price)
}

// UpdateLineItem changes price and/or quantity in place. Subtotal is
// recomputed by the save hook and the owning invoice is refreshed.
func UpdateLineItem(db *gorm.DB, lineItemUID string, price, quantity *decimal.Decimal) (*LineItem, error) {
	var item LineItem
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("uid = ?", lineItemUID).First(&item).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return &NotFoundError{Kind: "line_item", UID: lineItemUID}
			}
			return err
		}
		if price != nil {
			item.Price = *price
		}
		if quantity != nil {
			item.Quantity = *quantity
		}
		if err := tx.Save(&item).Error; err != nil {
			return err
		}
		invoice, err := GetInvoice(tx, item.InvoiceID)
		if err != nil {
			return err
		}
		return invoice.UpdateBalances(tx)
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// DeleteLineItem removes a line item and returns its invoice with refreshed
// balances.
func DeleteLineItem(db *gorm.DB, lineItemUID string) (*Invoice, error) {
	var invoice *Invoice
	err := db.Transaction(func(tx *gorm.DB) error {
		var item LineItem
		if err := tx.Where("uid = ?", lineItemUID).First(&item).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return &NotFoundError{Kind: "line_item", UID: lineItemUID}
			}
			return err
		}
		if err := tx.Delete(&item).Error; err != nil {
			return err
		}
		var err error
		invoice, err = GetInvoice(tx, item.InvoiceID)
		if err != nil {
			return err
		}
		return invoice.UpdateBalances(tx)
	})
	if err != nil {
		return nil, err
	}
	return invoice, nil
}

// ApplyCredit records a credit against an invoice and refreshes the cached
// balances in the same transaction.
func ApplyCredit(db *gorm.DB, invoiceUID string, amount decimal.Decimal, memo string, metadata datatypes.JSONMap, lineItemUID, contactUID *string) (*Credit, error) {
	var credit *Credit
	err := db.Transaction(func(tx *gorm.DB) error {
		invoice, err := GetInvoice(tx, invoiceUID)
		if err != nil {
			return err
		}
		c := Credit{
			InvoiceID:  invoice.Uid,
			Amount:     amount,
			Memo:       memo,
			Metadata:   metadata,
			LineItemID: lineItemUID,
			ContactID:  contactUID,
		}
		if err := tx.Create(&c).Error; err != nil {
			return err
		}
		credit = &c
		return invoice.UpdateBalances(tx)
	})
	if err != nil {
		return nil, err
	}
	return credit, nil
}

// UpdateCredit changes amount and/or memo in place and refreshes the owning
// invoice.
func UpdateCredit(db *gorm.DB, creditUID string, amount *decimal.Decimal, memo *string) (*Credit, error) {
	var credit Credit
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("uid = ?", creditUID).First(&credit).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return &NotFoundError{Kind: "credit", UID: creditUID}
			}
			return err
		}
		if amount != nil {
			credit.Amount = *amount
		}
		if memo != nil {
			credit.Memo = *memo
		}
		if err := tx.Save(&credit).Error; err != nil {
			return err
		}
		invoice, err := GetInvoice(tx, credit.InvoiceID)
		if err != nil {
			return err
		}
		return invoice.UpdateBalances(tx)
	})
	if err != nil {
		return nil, err
	}
	return &credit, nil
}

// DeleteCredit removes a credit and returns its invoice with refreshed
// balances.
func DeleteCredit(db *gorm.DB, creditUID string) (*Invoice, error) {
	var invoice *Invoice
	err := db.Transaction(func(tx *gorm.DB) error {
		var credit Credit
		if err := tx.Where("uid = ?", creditUID).First(&credit).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return &NotFoundError{Kind: "credit", UID: creditUID}
			}
			return err
		}
		if err := tx.Delete(&credit).Error; err != nil {
			return err
		}
		var err error
		invoice, err = GetInvoice(tx, credit.InvoiceID)
		if err != nil {
			return err
		}
		return invoice.UpdateBalances(tx)
	})
	if err != nil {
		return nil, err
	}
	return invoice, nil
}

// SetState stores a new state. Any declared state is accepted from any
// current state; there is no transition table.
func (invoice *Invoice) SetState(db *gorm.DB, state int) error {
	if _, ok := invoiceStates[state]; !ok {
		return &ValidationError{Field: "state", Reason: "unknown invoice state"}
	}
	invoice.State = state
	return db.Model(&Invoice{}).Where("uid = ?", invoice.Uid).
		Update("state", state).Error
}

// StateName resolves a state value to its label, for API payloads.
func StateName(state int) string {
	return invoiceStates[state]
}
