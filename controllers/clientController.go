package controllers

import (
	"harborbill-backend/database"
	"harborbill-backend/middlewares"
	"harborbill-backend/models"
	"harborbill-backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
)

type ClientInput struct {
	Company   string                 `json:"company" validate:"required"`
	ContactID *string                `json:"contact_id"`
	Metadata  map[string]interface{} `json:"metadata"`
}

func CreateClient(c *fiber.Ctx) error {
	var input ClientInput
	if err := middlewares.BindAndValidate(c, &input); err != nil {
		return err
	}
	utils.NormalizeDTO(&input)

	db := database.FromCtx(c)

	if input.ContactID != nil {
		if _, err := models.GetContact(db, *input.ContactID); err != nil {
			return err
		}
	}

	client := models.Client{
		Company:   input.Company,
		ContactID: input.ContactID,
		Metadata:  datatypes.JSONMap(input.Metadata),
	}
	if err := db.Create(&client).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{
			"message": "Could not create client",
			"error":   err.Error(),
		})
	}

	return c.Status(201).JSON(client)
}

func GetClients(c *fiber.Ctx) error {
	db := database.FromCtx(c)

	limit := utils.ParseIntDefault(c.Query("limit"), 100)
	offset := utils.ParseIntDefault(c.Query("offset"), 0)

	query := db.Model(&models.Client{})
	if company := c.Query("company"); company != "" {
		query = query.Where("company LIKE ?", "%"+company+"%")
	}

	var clients []models.Client
	if err := query.Order("created_at").Limit(limit).Offset(offset).Find(&clients).Error; err != nil {
		return err
	}
	return c.JSON(clients)
}

func GetClient(c *fiber.Ctx) error {
	client, err := models.GetClient(database.FromCtx(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(client)
}

type ClientPatch struct {
	Company   *string `json:"company"`
	ContactID *string `json:"contact_id"`
}

func UpdateClient(c *fiber.Ctx) error {
	var patch ClientPatch
	if err := c.BodyParser(&patch); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	utils.NormalizePtrDTO(&patch)

	db := database.FromCtx(c)
	client, err := models.GetClient(db, c.Params("id"))
	if err != nil {
		return err
	}

	updates := utils.UpdatesFromPtrDTO(&patch, nil)
	if len(updates) == 0 {
		return c.JSON(client)
	}
	if err := db.Model(client).Updates(updates).Error; err != nil {
		return err
	}
	return c.JSON(client)
}

// DeleteClient removes a client; its vessels and tasks go with it, while
// invoices survive with the client link cleared.
func DeleteClient(c *fiber.Ctx) error {
	db := database.FromCtx(c)
	client, err := models.GetClient(db, c.Params("id"))
	if err != nil {
		return err
	}
	if err := db.Select("Vessels", "Tasks").Delete(client).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "client deleted"})
}
