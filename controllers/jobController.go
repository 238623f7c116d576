package controllers

import (
	"harborbill-backend/database"
	"harborbill-backend/middlewares"
	"harborbill-backend/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
)

type JobInput struct {
	VesselID     *string                `json:"vessel_id"`
	OriginTaskID *string                `json:"origin_task_id"`
	Metadata     map[string]interface{} `json:"metadata"`
}

func CreateJob(c *fiber.Ctx) error {
	var input JobInput
	if err := middlewares.BindAndValidate(c, &input); err != nil {
		return err
	}

	db := database.FromCtx(c)
	if input.VesselID != nil {
		if _, err := models.GetVessel(db, *input.VesselID); err != nil {
			return err
		}
	}
	if input.OriginTaskID != nil {
		if _, err := models.GetTask(db, *input.OriginTaskID); err != nil {
			return err
		}
	}

	job := models.Job{
		VesselID:     input.VesselID,
		OriginTaskID: input.OriginTaskID,
		Metadata:     datatypes.JSONMap(input.Metadata),
	}
	if err := db.Create(&job).Error; err != nil {
		return err
	}
	return c.Status(201).JSON(job)
}

func GetJobs(c *fiber.Ctx) error {
	db := database.FromCtx(c)

	query := db.Model(&models.Job{})
	if vesselID := c.Query("vessel_id"); vesselID != "" {
		query = query.Where("vessel_id = ?", vesselID)
	}

	var jobs []models.Job
	if err := query.Order("created_at").Find(&jobs).Error; err != nil {
		return err
	}
	return c.JSON(jobs)
}

func GetJob(c *fiber.Ctx) error {
	job, err := models.GetJob(database.FromCtx(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(job)
}
