package controllers

import (
	"net/mail"

	"harborbill-backend/database"
	"harborbill-backend/middlewares"
	"harborbill-backend/models"

	"github.com/gofiber/fiber/v2"
)

func Register(c *fiber.Ctx) error {
	var data map[string]string
	if err := c.BodyParser(&data); err != nil {
		return err
	}

	if _, err := mail.ParseAddress(data["email"]); err != nil {
		return c.Status(400).JSON(fiber.Map{"message": "invalid email address"})
	}

	var mailExist models.User
	database.DB.Where("email = ?", data["email"]).First(&mailExist)
	if mailExist.Email != "" {
		return c.Status(400).JSON(fiber.Map{"message": "email already exists"})
	}

	if data["password"] != data["password_confirm"] {
		return c.Status(400).JSON(fiber.Map{"message": "passwords do not match"})
	}

	user := models.User{
		FirstName: data["first_name"],
		LastName:  data["last_name"],
		Email:     data["email"],
	}
	user.SetPassword(data["password"])
	if err := database.DB.Create(&user).Error; err != nil {
		return c.Status(400).JSON(fiber.Map{
			"message": "Could not create user",
			"error":   err.Error(),
		})
	}

	return c.Status(201).JSON(user)
}

func Login(c *fiber.Ctx) error {
	var data map[string]string
	if err := c.BodyParser(&data); err != nil {
		return err
	}

	var user models.User
	database.DB.Where("email = ?", data["email"]).First(&user)
	if user.Id == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "invalid credentials"})
	}

	if err := user.ComparePassword(data["password"]); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "invalid credentials"})
	}

	token, err := middlewares.GenerateJWT(user.Id)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "could not issue token"})
	}

	return c.JSON(fiber.Map{"token": token, "user": user})
}

// Logout is a no-op for Bearer tokens; clients discard the token.
func Logout(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"message": "logged out"})
}
