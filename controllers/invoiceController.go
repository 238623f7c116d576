package controllers

import (
	"time"

	"harborbill-backend/database"
	"harborbill-backend/middlewares"
	"harborbill-backend/models"
	"harborbill-backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

func parseOptionalMoney(s *string) (*decimal.Decimal, error) {
	if s == nil {
		return nil, nil
	}
	return utils.ParseMoneyPtr(*s)
}

type InvoiceInput struct {
	ClientID *string                `json:"client_id"`
	JobID    *string                `json:"job_id"`
	DueDate  *time.Time             `json:"due_date"`
	Metadata map[string]interface{} `json:"metadata"`
}

func CreateInvoice(c *fiber.Ctx) error {
	var input InvoiceInput
	if err := middlewares.BindAndValidate(c, &input); err != nil {
		return err
	}

	invoice, err := models.CreateInvoice(database.FromCtx(c),
		input.ClientID, input.JobID, input.DueDate, datatypes.JSONMap(input.Metadata))
	if err != nil {
		return err
	}
	return c.Status(201).JSON(invoice)
}

func GetInvoices(c *fiber.Ctx) error {
	db := database.FromCtx(c)

	limit := utils.ParseIntDefault(c.Query("limit"), 100)
	offset := utils.ParseIntDefault(c.Query("offset"), 0)

	query := db.Model(&models.Invoice{})
	if clientID := c.Query("client_id"); clientID != "" {
		query = query.Where("client_id = ?", clientID)
	}
	if state := c.Query("state"); state != "" {
		query = query.Where("state = ?", utils.ParseIntDefault(state, models.InvoiceDraft))
	}

	var invoices []models.Invoice
	if err := query.Order("created_at").Limit(limit).Offset(offset).Find(&invoices).Error; err != nil {
		return err
	}
	return c.JSON(invoices)
}

// GetInvoice returns one invoice with its rows preloaded and both the cached
// and the authoritative balances, so callers can see divergence.
func GetInvoice(c *fiber.Ctx) error {
	db := database.FromCtx(c)

	var invoice models.Invoice
	err := db.Preload("LineItems").Preload("Credits").
		Where("uid = ?", c.Params("id")).First(&invoice).Error
	if err != nil {
		return &models.NotFoundError{Kind: "invoice", UID: c.Params("id")}
	}

	remaining, err := invoice.RemainingBalanceFromRows(db)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"invoice":            invoice,
		"state_name":         models.StateName(invoice.State),
		"remaining_balance":  invoice.RemainingBalance(),
		"authoritative": fiber.Map{
			"remaining_balance": remaining,
		},
	})
}

type LineItemInput struct {
	SkuID    string `json:"sku_id" validate:"required"`
	Price    string `json:"price"`
	Quantity string `json:"quantity"`
}

func AddLineItem(c *fiber.Ctx) error {
	var input LineItemInput
	if err := middlewares.BindAndValidate(c, &input); err != nil {
		return err
	}

	price, err := utils.ParseMoneyPtr(input.Price)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"message": "Invalid price"})
	}
	quantity, err := utils.ParseMoneyPtr(input.Quantity)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"message": "Invalid quantity"})
	}

	item, err := models.AddLineItem(database.FromCtx(c), c.Params("id"), input.SkuID, price, quantity)
	if err != nil {
		return err
	}
	return c.Status(201).JSON(item)
}

type LineItemPatch struct {
	Price    *string `json:"price"`
	Quantity *string `json:"quantity"`
}

func UpdateLineItem(c *fiber.Ctx) error {
	var patch LineItemPatch
	if err := c.BodyParser(&patch); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	pricePtr, err := parseOptionalMoney(patch.Price)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"message": "Invalid price"})
	}
	quantityPtr, err := parseOptionalMoney(patch.Quantity)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"message": "Invalid quantity"})
	}

	item, err := models.UpdateLineItem(database.FromCtx(c), c.Params("id"), pricePtr, quantityPtr)
	if err != nil {
		return err
	}
	return c.JSON(item)
}

func DeleteLineItem(c *fiber.Ctx) error {
	invoice, err := models.DeleteLineItem(database.FromCtx(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(invoice)
}

type CreditInput struct {
	Amount     string                 `json:"amount" validate:"required"`
	Memo       string                 `json:"memo"`
	Metadata   map[string]interface{} `json:"metadata"`
	LineItemID *string                `json:"line_item_id"`
	ContactID  *string                `json:"contact_id"`
}

func ApplyCredit(c *fiber.Ctx) error {
	var input CreditInput
	if err := middlewares.BindAndValidate(c, &input); err != nil {
		return err
	}

	amount, err := utils.ParseMoney(input.Amount)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"message": "Invalid amount"})
	}

	credit, err := models.ApplyCredit(database.FromCtx(c), c.Params("id"),
		amount, input.Memo, datatypes.JSONMap(input.Metadata), input.LineItemID, input.ContactID)
	if err != nil {
		return err
	}
	return c.Status(201).JSON(credit)
}

type CreditPatch struct {
	Amount *string `json:"amount"`
	Memo   *string `json:"memo"`
}

func UpdateCredit(c *fiber.Ctx) error {
	var patch CreditPatch
	if err := c.BodyParser(&patch); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	amount, err := parseOptionalMoney(patch.Amount)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"message": "Invalid amount"})
	}

	credit, err := models.UpdateCredit(database.FromCtx(c), c.Params("id"), amount, patch.Memo)
	if err != nil {
		return err
	}
	return c.JSON(credit)
}

func DeleteCredit(c *fiber.Ctx) error {
	invoice, err := models.DeleteCredit(database.FromCtx(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(invoice)
}

func SetInvoiceState(c *fiber.Ctx) error {
	var data map[string]int
	if err := c.BodyParser(&data); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	state, ok := data["state"]
	if !ok {
		return c.Status(400).JSON(fiber.Map{"message": "state is required"})
	}

	db := database.FromCtx(c)
	invoice, err := models.GetInvoice(db, c.Params("id"))
	if err != nil {
		return err
	}
	if err := invoice.SetState(db, state); err != nil {
		return err
	}
	return c.JSON(invoice)
}

type InvoiceMetadataInput struct {
	Metadata map[string]interface{} `json:"metadata" validate:"required"`
	Mode     string                 `json:"mode" validate:"required,oneof=update replace"`
}

func SetInvoiceMetadata(c *fiber.Ctx) error {
	var input InvoiceMetadataInput
	if err := middlewares.BindAndValidate(c, &input); err != nil {
		return err
	}

	db := database.FromCtx(c)
	out, err := models.SetEntityMetadata(db,
		models.EntityRef{Kind: models.KindInvoiceEntity, UID: c.Params("id")},
		datatypes.JSONMap(input.Metadata), models.MetadataMode(input.Mode))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"uid": c.Params("id"), "metadata": out})
}
