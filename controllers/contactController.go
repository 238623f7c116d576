package controllers

import (
	"harborbill-backend/database"
	"harborbill-backend/middlewares"
	"harborbill-backend/models"
	"harborbill-backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
)

type ContactInput struct {
	FirstName      string                 `json:"first_name"`
	LastName       string                 `json:"last_name"`
	Role           string                 `json:"role"`
	BillingAddress string                 `json:"billing_address"`
	MailingAddress string                 `json:"mailing_address"`
	PrimaryEmail   string                 `json:"primary_email"`
	PhoneNumber    string                 `json:"phone_number"`
	Metadata       map[string]interface{} `json:"metadata"`
}

func CreateContact(c *fiber.Ctx) error {
	var input ContactInput
	if err := middlewares.BindAndValidate(c, &input); err != nil {
		return err
	}
	utils.NormalizeDTO(&input)

	contact := models.Contact{
		FirstName:      input.FirstName,
		LastName:       input.LastName,
		Role:           input.Role,
		BillingAddress: input.BillingAddress,
		MailingAddress: input.MailingAddress,
		PrimaryEmail:   input.PrimaryEmail,
		PhoneNumber:    input.PhoneNumber,
		Metadata:       datatypes.JSONMap(input.Metadata),
	}
	if err := database.FromCtx(c).Create(&contact).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{
			"message": "Could not create contact",
			"error":   err.Error(),
		})
	}
	return c.Status(201).JSON(contact)
}

func GetContacts(c *fiber.Ctx) error {
	db := database.FromCtx(c)

	limit := utils.ParseIntDefault(c.Query("limit"), 100)
	offset := utils.ParseIntDefault(c.Query("offset"), 0)

	query := db.Model(&models.Contact{})
	if name := c.Query("name"); name != "" {
		query = query.Where("first_name LIKE ? OR last_name LIKE ?", "%"+name+"%", "%"+name+"%")
	}
	if role := c.Query("role"); role != "" {
		query = query.Where("role = ?", role)
	}

	var contacts []models.Contact
	if err := query.Order("created_at").Limit(limit).Offset(offset).Find(&contacts).Error; err != nil {
		return err
	}
	return c.JSON(contacts)
}

func GetContact(c *fiber.Ctx) error {
	contact, err := models.GetContact(database.FromCtx(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(contact)
}

type ContactPatch struct {
	FirstName      *string `json:"first_name"`
	LastName       *string `json:"last_name"`
	Role           *string `json:"role"`
	BillingAddress *string `json:"billing_address"`
	MailingAddress *string `json:"mailing_address"`
	PrimaryEmail   *string `json:"primary_email"`
	PhoneNumber    *string `json:"phone_number"`
}

func UpdateContact(c *fiber.Ctx) error {
	var patch ContactPatch
	if err := c.BodyParser(&patch); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	utils.NormalizePtrDTO(&patch)

	db := database.FromCtx(c)
	contact, err := models.GetContact(db, c.Params("id"))
	if err != nil {
		return err
	}

	updates := utils.UpdatesFromPtrDTO(&patch, nil)
	if len(updates) == 0 {
		return c.JSON(contact)
	}
	if err := db.Model(contact).Updates(updates).Error; err != nil {
		return err
	}
	return c.JSON(contact)
}

// ConnectContact records a symmetric connection between two contacts.
func ConnectContact(c *fiber.Ctx) error {
	db := database.FromCtx(c)
	if err := models.ConnectContacts(db, c.Params("id"), c.Params("other")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "contacts connected"})
}

func GetContactConnections(c *fiber.Ctx) error {
	connections, err := models.ContactConnections(database.FromCtx(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(connections)
}
