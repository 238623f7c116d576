package controllers

import (
	"strconv"

	"harborbill-backend/database"
	"harborbill-backend/middlewares"
	"harborbill-backend/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
)

type TaskInput struct {
	ClientID        string                 `json:"client_id" validate:"required"`
	Metadata        map[string]interface{} `json:"metadata"`
	ContactMentions []string               `json:"contact_mentions"`
}

func CreateTask(c *fiber.Ctx) error {
	var input TaskInput
	if err := middlewares.BindAndValidate(c, &input); err != nil {
		return err
	}

	db := database.FromCtx(c)
	if _, err := models.GetClient(db, input.ClientID); err != nil {
		return err
	}

	task := models.Task{
		ClientID: input.ClientID,
		State:    models.TaskReceived,
		Metadata: datatypes.JSONMap(input.Metadata),
	}
	if err := db.Create(&task).Error; err != nil {
		return err
	}

	for _, contactUID := range input.ContactMentions {
		contact, err := models.GetContact(db, contactUID)
		if err != nil {
			return err
		}
		if err := db.Model(&task).Association("ContactMentions").Append(contact); err != nil {
			return err
		}
	}

	return c.Status(201).JSON(task)
}

func GetTasks(c *fiber.Ctx) error {
	db := database.FromCtx(c)

	query := db.Model(&models.Task{})
	if clientID := c.Query("client_id"); clientID != "" {
		query = query.Where("client_id = ?", clientID)
	}
	if state := c.Query("state"); state != "" {
		n, err := strconv.Atoi(state)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"message": "Invalid state value"})
		}
		query = query.Where("state = ?", n)
	}

	var tasks []models.Task
	if err := query.Order("created_at").Find(&tasks).Error; err != nil {
		return err
	}
	return c.JSON(tasks)
}

func SetTaskState(c *fiber.Ctx) error {
	var data map[string]int
	if err := c.BodyParser(&data); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	state, ok := data["state"]
	if !ok {
		return c.Status(400).JSON(fiber.Map{"message": "state is required"})
	}

	db := database.FromCtx(c)
	task, err := models.GetTask(db, c.Params("id"))
	if err != nil {
		return err
	}
	if err := task.SetState(db, state); err != nil {
		return err
	}
	return c.JSON(task)
}
