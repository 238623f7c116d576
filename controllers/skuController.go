package controllers

import (
	"harborbill-backend/database"
	"harborbill-backend/middlewares"
	"harborbill-backend/models"
	"harborbill-backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type SKUCreateInput struct {
	Kind     string                 `json:"kind"`
	TypeData map[string]interface{} `json:"type_data"`

	Name            string `json:"name"`
	DefaultQuantity string `json:"default_quantity"`
	DefaultPrice    string `json:"default_price"`
	MinimumPrice    string `json:"minimum_price"`
	MaximumPrice    string `json:"maximum_price"`
	MinimumQuantity string `json:"minimum_quantity"`
	MaximumQuantity string `json:"maximum_quantity"`
	Units           string `json:"units"`
}

func CreateSKU(c *fiber.Ctx) error {
	var input SKUCreateInput
	if err := middlewares.BindAndValidate(c, &input); err != nil {
		return err
	}
	utils.NormalizeDTO(&input)

	common := models.SKUInput{Name: input.Name, Units: input.Units}
	var err error
	fields := []struct {
		raw string
		dst **decimal.Decimal
	}{
		{input.DefaultQuantity, &common.DefaultQuantity},
		{input.DefaultPrice, &common.DefaultPrice},
		{input.MinimumPrice, &common.MinimumPrice},
		{input.MaximumPrice, &common.MaximumPrice},
		{input.MinimumQuantity, &common.MinimumQuantity},
		{input.MaximumQuantity, &common.MaximumQuantity},
	}
	for _, f := range fields {
		if *f.dst, err = utils.ParseMoneyPtr(f.raw); err != nil {
			return c.Status(400).JSON(fiber.Map{"message": "Invalid decimal value: " + f.raw})
		}
	}

	sku, err := models.CreateSKU(database.FromCtx(c), input.Kind, input.TypeData, common)
	if err != nil {
		return err
	}
	return c.Status(201).JSON(sku)
}

func GetSKUs(c *fiber.Ctx) error {
	skus, err := models.QuerySKUs(database.FromCtx(c), models.SKUQuery{
		Kind:         c.Query("kind"),
		NameContains: c.Query("name"),
		Tag:          c.Query("tag"),
	})
	if err != nil {
		return err
	}
	return c.JSON(skus)
}

func GetSKU(c *fiber.Ctx) error {
	sku, err := models.GetSKU(database.FromCtx(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(sku)
}

type SKUPatch struct {
	Name            *string `json:"name"`
	Units           *string `json:"units"`
	DefaultQuantity *string `json:"default_quantity"`
	DefaultPrice    *string `json:"default_price"`
}

func UpdateSKU(c *fiber.Ctx) error {
	var patch SKUPatch
	if err := c.BodyParser(&patch); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	utils.NormalizePtrDTO(&patch)

	db := database.FromCtx(c)
	sku, err := models.GetSKU(db, c.Params("id"))
	if err != nil {
		return err
	}

	updates := map[string]interface{}{}
	if patch.Name != nil {
		updates["name"] = *patch.Name
	}
	if patch.Units != nil {
		updates["units"] = *patch.Units
	}
	if patch.DefaultQuantity != nil {
		d, err := utils.ParseMoney(*patch.DefaultQuantity)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"message": "Invalid default quantity"})
		}
		updates["default_quantity"] = d
	}
	if patch.DefaultPrice != nil {
		d, err := utils.ParseMoney(*patch.DefaultPrice)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"message": "Invalid default price"})
		}
		updates["default_price"] = d
	}
	if len(updates) == 0 {
		return c.JSON(sku)
	}
	if err := db.Model(sku).Updates(updates).Error; err != nil {
		return err
	}
	return c.JSON(sku)
}

// LinkRelatedSKU records a symmetric relation between two SKUs.
func LinkRelatedSKU(c *fiber.Ctx) error {
	if err := models.LinkSKUs(database.FromCtx(c), c.Params("id"), c.Params("other")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "skus linked"})
}

func GetRelatedSKUs(c *fiber.Ctx) error {
	related, err := models.RelatedSKUs(database.FromCtx(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(related)
}

// AttachSKUContact links a contact to a SKU.
func AttachSKUContact(c *fiber.Ctx) error {
	db := database.FromCtx(c)
	sku, err := models.GetSKU(db, c.Params("id"))
	if err != nil {
		return err
	}
	if err := sku.AttachContact(db, c.Params("contact")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "contact attached"})
}

type AddToInvoiceInput struct {
	Quantity string `json:"quantity"`
	Price    string `json:"price"`
}

// AddSKUToInvoice materializes a SKU into a line item, with optional price
// and quantity overrides.
func AddSKUToInvoice(c *fiber.Ctx) error {
	var input AddToInvoiceInput
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&input); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
	}

	quantity, err := utils.ParseMoneyPtr(input.Quantity)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"message": "Invalid quantity"})
	}
	price, err := utils.ParseMoneyPtr(input.Price)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"message": "Invalid price"})
	}

	db := database.FromCtx(c)
	sku, err := models.GetSKU(db, c.Params("id"))
	if err != nil {
		return err
	}
	item, err := sku.AddToInvoice(db, c.Params("invoice"), quantity, price)
	if err != nil {
		return err
	}
	return c.Status(201).JSON(item)
}

type BatchAddInput struct {
	SkuIDs []string `json:"sku_ids" validate:"required,min=1"`
}

// BatchAddSKUs adds every listed SKU to the invoice, all-or-nothing.
func BatchAddSKUs(c *fiber.Ctx) error {
	var input BatchAddInput
	if err := middlewares.BindAndValidate(c, &input); err != nil {
		return err
	}
	items, err := models.AddSKUsToInvoice(database.FromCtx(c), c.Params("id"), input.SkuIDs)
	if err != nil {
		return err
	}
	return c.Status(201).JSON(items)
}
