package controllers

import (
	"harborbill-backend/database"
	"harborbill-backend/middlewares"
	"harborbill-backend/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
)

type MetadataInput struct {
	Metadata map[string]interface{} `json:"metadata" validate:"required"`
	Mode     string                 `json:"mode" validate:"required,oneof=update replace"`
}

// SetEntityMetadata writes the metadata map of any registered entity,
// addressed by kind and uid rather than probing every table.
func SetEntityMetadata(c *fiber.Ctx) error {
	var input MetadataInput
	if err := middlewares.BindAndValidate(c, &input); err != nil {
		return err
	}

	kind := c.Params("kind")
	if !models.ValidEntityKind(kind) {
		return c.Status(400).JSON(fiber.Map{"message": "Unknown entity kind " + kind})
	}

	out, err := models.SetEntityMetadata(database.FromCtx(c),
		models.EntityRef{Kind: models.EntityKind(kind), UID: c.Params("id")},
		datatypes.JSONMap(input.Metadata), models.MetadataMode(input.Mode))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"kind":     kind,
		"uid":      c.Params("id"),
		"metadata": out,
	})
}
