package controllers

import (
	"harborbill-backend/database"
	"harborbill-backend/middlewares"
	"harborbill-backend/models"
	"harborbill-backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
)

type VesselInput struct {
	Name     string                 `json:"name" validate:"required"`
	Mmsi     string                 `json:"mmsi" validate:"max=9"`
	ClientID string                 `json:"client_id" validate:"required"`
	Metadata map[string]interface{} `json:"metadata"`
}

func CreateVessel(c *fiber.Ctx) error {
	var input VesselInput
	if err := middlewares.BindAndValidate(c, &input); err != nil {
		return err
	}
	utils.NormalizeDTO(&input)

	db := database.FromCtx(c)
	if _, err := models.GetClient(db, input.ClientID); err != nil {
		return err
	}

	vessel := models.Vessel{
		Name:     input.Name,
		Mmsi:     input.Mmsi,
		ClientID: input.ClientID,
		Metadata: datatypes.JSONMap(input.Metadata),
	}
	if err := db.Create(&vessel).Error; err != nil {
		return err
	}
	return c.Status(201).JSON(vessel)
}

func GetVessels(c *fiber.Ctx) error {
	db := database.FromCtx(c)

	query := db.Model(&models.Vessel{})
	if clientID := c.Query("client_id"); clientID != "" {
		query = query.Where("client_id = ?", clientID)
	}
	if name := c.Query("name"); name != "" {
		query = query.Where("name LIKE ?", "%"+name+"%")
	}

	var vessels []models.Vessel
	if err := query.Order("created_at").Find(&vessels).Error; err != nil {
		return err
	}
	return c.JSON(vessels)
}

type VesselPatch struct {
	Name *string `json:"name"`
	Mmsi *string `json:"mmsi"`
}

func UpdateVessel(c *fiber.Ctx) error {
	var patch VesselPatch
	if err := c.BodyParser(&patch); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	utils.NormalizePtrDTO(&patch)

	db := database.FromCtx(c)
	vessel, err := models.GetVessel(db, c.Params("id"))
	if err != nil {
		return err
	}
	if patch.Mmsi != nil && len(*patch.Mmsi) > 9 {
		return &models.ValidationError{Field: "mmsi", Reason: "must be at most 9 characters"}
	}

	updates := utils.UpdatesFromPtrDTO(&patch, nil)
	if len(updates) == 0 {
		return c.JSON(vessel)
	}
	if err := db.Model(vessel).Updates(updates).Error; err != nil {
		return err
	}
	return c.JSON(vessel)
}

// DeleteVessel removes a vessel; its jobs survive with the vessel link
// cleared.
func DeleteVessel(c *fiber.Ctx) error {
	db := database.FromCtx(c)
	vessel, err := models.GetVessel(db, c.Params("id"))
	if err != nil {
		return err
	}
	if err := db.Model(&models.Job{}).Where("vessel_id = ?", vessel.Uid).
		Update("vessel_id", nil).Error; err != nil {
		return err
	}
	if err := db.Delete(vessel).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "vessel deleted"})
}
