package models

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestAddToInvoiceComputesSubtotalAndBalances(t *testing.T) {
	db := openTestDB(t)

	sku, err := CreateSKU(db, "item", map[string]interface{}{"name": "shackle"}, SKUInput{
		Name:            "shackle",
		DefaultPrice:    decPtr(t, "10"),
		DefaultQuantity: decPtr(t, "2"),
	})
	if err != nil {
		t.Fatalf("create sku: %v", err)
	}
	invoice, err := CreateInvoice(db, nil, nil, nil, nil)
	if err != nil {
		t.Fatalf("create invoice: %v", err)
	}

	item, err := sku.AddToInvoice(db, invoice.Uid, nil, nil)
	if err != nil {
		t.Fatalf("add to invoice: %v", err)
	}
	mustEqual(t, item.Subtotal, dec(t, "20"), "line item subtotal")

	invoice, err = GetInvoice(db, invoice.Uid)
	if err != nil {
		t.Fatalf("reload invoice: %v", err)
	}
	mustEqual(t, invoice.InitialBalance, dec(t, "20"), "initial balance")
	mustEqual(t, invoice.PaidBalance, decimal.Zero, "paid balance")
	mustEqual(t, invoice.RemainingBalance(), dec(t, "20"), "remaining balance")
}

func TestApplyCreditUpdatesPaidBalance(t *testing.T) {
	db := openTestDB(t)

	sku, err := CreateSKU(db, "item", nil, SKUInput{
		Name:            "rope",
		DefaultPrice:    decPtr(t, "10"),
		DefaultQuantity: decPtr(t, "2"),
	})
	if err != nil {
		t.Fatalf("create sku: %v", err)
	}
	invoice, err := CreateInvoice(db, nil, nil, nil, nil)
	if err != nil {
		t.Fatalf("create invoice: %v", err)
	}
	if _, err := sku.AddToInvoice(db, invoice.Uid, nil, nil); err != nil {
		t.Fatalf("add to invoice: %v", err)
	}

	if _, err := ApplyCredit(db, invoice.Uid, dec(t, "5"), "partial payment", nil, nil, nil); err != nil {
		t.Fatalf("apply credit: %v", err)
	}

	invoice, err = GetInvoice(db, invoice.Uid)
	if err != nil {
		t.Fatalf("reload invoice: %v", err)
	}
	mustEqual(t, invoice.PaidBalance, dec(t, "5"), "paid balance")
	mustEqual(t, invoice.RemainingBalance(), dec(t, "15"), "remaining balance")

	remaining, err := invoice.RemainingBalanceFromRows(db)
	if err != nil {
		t.Fatalf("remaining from rows: %v", err)
	}
	mustEqual(t, remaining, dec(t, "15"), "authoritative remaining balance")
}

func TestDeleteLineItemResetsInitialBalance(t *testing.T) {
	db := openTestDB(t)

	sku, err := CreateSKU(db, "item", nil, SKUInput{
		Name:            "buoy",
		DefaultPrice:    decPtr(t, "10"),
		DefaultQuantity: decPtr(t, "2"),
	})
	if err != nil {
		t.Fatalf("create sku: %v", err)
	}
	invoice, err := CreateInvoice(db, nil, nil, nil, nil)
	if err != nil {
		t.Fatalf("create invoice: %v", err)
	}
	item, err := sku.AddToInvoice(db, invoice.Uid, nil, nil)
	if err != nil {
		t.Fatalf("add to invoice: %v", err)
	}

	invoice, err = DeleteLineItem(db, item.Uid)
	if err != nil {
		t.Fatalf("delete line item: %v", err)
	}
	mustEqual(t, invoice.InitialBalance, decimal.Zero, "initial balance after delete")
	mustEqual(t, invoice.RemainingBalance(), decimal.Zero, "remaining balance after delete")
}

func TestUpdateLineItemRecomputesSubtotal(t *testing.T) {
	db := openTestDB(t)

	sku, err := CreateSKU(db, "item", nil, SKUInput{
		Name:            "fender",
		DefaultPrice:    decPtr(t, "10"),
		DefaultQuantity: decPtr(t, "2"),
	})
	if err != nil {
		t.Fatalf("create sku: %v", err)
	}
	invoice, err := CreateInvoice(db, nil, nil, nil, nil)
	if err != nil {
		t.Fatalf("create invoice: %v", err)
	}
	item, err := sku.AddToInvoice(db, invoice.Uid, nil, nil)
	if err != nil {
		t.Fatalf("add to invoice: %v", err)
	}

	item, err = UpdateLineItem(db, item.Uid, decPtr(t, "7.50"), decPtr(t, "4"))
	if err != nil {
		t.Fatalf("update line item: %v", err)
	}
	mustEqual(t, item.Subtotal, dec(t, "30"), "recomputed subtotal")

	invoice, err = GetInvoice(db, invoice.Uid)
	if err != nil {
		t.Fatalf("reload invoice: %v", err)
	}
	mustEqual(t, invoice.InitialBalance, dec(t, "30"), "initial balance after update")
}

func TestBatchAddIsAllOrNothing(t *testing.T) {
	db := openTestDB(t)

	var uids []string
	for _, name := range []string{"chain", "anchor"} {
		sku, err := CreateSKU(db, "item", nil, SKUInput{
			Name:         name,
			DefaultPrice: decPtr(t, "10"),
		})
		if err != nil {
			t.Fatalf("create sku: %v", err)
		}
		uids = append(uids, sku.Uid)
	}
	invoice, err := CreateInvoice(db, nil, nil, nil, nil)
	if err != nil {
		t.Fatalf("create invoice: %v", err)
	}

	_, err = AddSKUsToInvoice(db, invoice.Uid, append(uids, "no-such-sku"))
	if err == nil {
		t.Fatal("batch add with unknown sku should fail")
	}
	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}

	var count int64
	if err := db.Model(&LineItem{}).Where("invoice_id = ?", invoice.Uid).Count(&count).Error; err != nil {
		t.Fatalf("count line items: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected 0 line items after rollback, got %d", count)
	}

	invoice, err = GetInvoice(db, invoice.Uid)
	if err != nil {
		t.Fatalf("reload invoice: %v", err)
	}
	mustEqual(t, invoice.InitialBalance, decimal.Zero, "initial balance after rollback")

	items, err := AddSKUsToInvoice(db, invoice.Uid, uids)
	if err != nil {
		t.Fatalf("batch add: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 line items, got %d", len(items))
	}
	invoice, err = GetInvoice(db, invoice.Uid)
	if err != nil {
		t.Fatalf("reload invoice: %v", err)
	}
	mustEqual(t, invoice.InitialBalance, dec(t, "20"), "initial balance after batch add")
}

func TestUpdateBalancesIsIdempotent(t *testing.T) {
	db := openTestDB(t)

	sku, err := CreateSKU(db, "item", nil, SKUInput{
		Name:            "line",
		DefaultPrice:    decPtr(t, "3"),
		DefaultQuantity: decPtr(t, "3"),
	})
	if err != nil {
		t.Fatalf("create sku: %v", err)
	}
	invoice, err := CreateInvoice(db, nil, nil, nil, nil)
	if err != nil {
		t.Fatalf("create invoice: %v", err)
	}
	if _, err := sku.AddToInvoice(db, invoice.Uid, nil, nil); err != nil {
		t.Fatalf("add to invoice: %v", err)
	}

	invoice, err = GetInvoice(db, invoice.Uid)
	if err != nil {
		t.Fatalf("reload invoice: %v", err)
	}
	for i := 0; i < 3; i++ {
		if err := invoice.UpdateBalances(db); err != nil {
			t.Fatalf("update balances: %v", err)
		}
	}
	mustEqual(t, invoice.InitialBalance, dec(t, "9"), "initial balance after repeated refresh")
}

func TestUpdateAndDeleteCredit(t *testing.T) {
	db := openTestDB(t)

	sku, err := CreateSKU(db, "item", nil, SKUInput{
		Name:            "pallet",
		DefaultPrice:    decPtr(t, "50"),
		DefaultQuantity: decPtr(t, "1"),
	})
	if err != nil {
		t.Fatalf("create sku: %v", err)
	}
	invoice, err := CreateInvoice(db, nil, nil, nil, nil)
	if err != nil {
		t.Fatalf("create invoice: %v", err)
	}
	if _, err := sku.AddToInvoice(db, invoice.Uid, nil, nil); err != nil {
		t.Fatalf("add to invoice: %v", err)
	}
	credit, err := ApplyCredit(db, invoice.Uid, dec(t, "10"), "", nil, nil, nil)
	if err != nil {
		t.Fatalf("apply credit: %v", err)
	}

	credit, err = UpdateCredit(db, credit.Uid, decPtr(t, "25"), nil)
	if err != nil {
		t.Fatalf("update credit: %v", err)
	}
	invoice, err = GetInvoice(db, invoice.Uid)
	if err != nil {
		t.Fatalf("reload invoice: %v", err)
	}
	mustEqual(t, invoice.PaidBalance, dec(t, "25"), "paid balance after credit update")

	invoice, err = DeleteCredit(db, credit.Uid)
	if err != nil {
		t.Fatalf("delete credit: %v", err)
	}
	mustEqual(t, invoice.PaidBalance, decimal.Zero, "paid balance after credit delete")
	mustEqual(t, invoice.RemainingBalance(), dec(t, "50"), "remaining after credit delete")
}

func TestSetStateAcceptsAnyDeclaredState(t *testing.T) {
	db := openTestDB(t)

	invoice, err := CreateInvoice(db, nil, nil, nil, nil)
	if err != nil {
		t.Fatalf("create invoice: %v", err)
	}
	if invoice.State != InvoiceDraft {
		t.Fatalf("new invoice state = %d, want draft", invoice.State)
	}

	// No transition table: closed straight from draft, then back to open.
	for _, state := range []int{InvoiceClosed, InvoiceOpen, InvoiceVoid} {
		if err := invoice.SetState(db, state); err != nil {
			t.Fatalf("set state %d: %v", state, err)
		}
	}
	invoice, err = GetInvoice(db, invoice.Uid)
	if err != nil {
		t.Fatalf("reload invoice: %v", err)
	}
	if invoice.State != InvoiceVoid {
		t.Fatalf("state = %d, want void", invoice.State)
	}

	err = invoice.SetState(db, 99)
	var invalid *ValidationError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected ValidationError for unknown state, got %v", err)
	}
	if StateName(InvoicePaidPartial) != "paid_partial" {
		t.Fatalf("unexpected state name %q", StateName(InvoicePaidPartial))
	}
}
