package controllers

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"

	"harborbill-backend/database"
	"harborbill-backend/middlewares"
	"harborbill-backend/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
)

// UploadFormTemplate stores a fillable document template. The optional
// annotations form field carries a JSON list of fillable field names.
func UploadFormTemplate(c *fiber.Ctx) error {
	file, err := c.FormFile("template_file")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"message": "template_file is required"})
	}
	name := c.FormValue("name", file.Filename)

	var annotations datatypes.JSON
	if raw := c.FormValue("annotations"); raw != "" {
		if !json.Valid([]byte(raw)) {
			return c.Status(400).JSON(fiber.Map{"message": "annotations must be valid JSON"})
		}
		annotations = datatypes.JSON(raw)
	}

	dir := filepath.Join(uploadRoot(), "templates")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	dst := filepath.Join(dir, file.Filename)
	if _, err := os.Stat(dst); err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": "template filename conflict"})
	}
	if err := c.SaveFile(file, dst); err != nil {
		return err
	}

	template := models.FormTemplate{
		Name:        name,
		FilePath:    dst,
		Annotations: annotations,
	}
	if err := database.FromCtx(c).Create(&template).Error; err != nil {
		return err
	}
	return c.Status(201).JSON(template)
}

func GetFormTemplates(c *fiber.Ctx) error {
	var templates []models.FormTemplate
	if err := database.FromCtx(c).Order("created_at").Find(&templates).Error; err != nil {
		return err
	}
	return c.JSON(templates)
}

func GetFormTemplate(c *fiber.Ctx) error {
	template, err := models.GetFormTemplate(database.FromCtx(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(template)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

type RenderFormInput struct {
	ClientID string                 `json:"client_id" validate:"required"`
	Fields   map[string]interface{} `json:"fields"`
}

// RenderForm fills a template for a client and records the rendering.
func RenderForm(c *fiber.Ctx) error {
	var input RenderFormInput
	if err := middlewares.BindAndValidate(c, &input); err != nil {
		return err
	}

	db := database.FromCtx(c)
	template, err := models.GetFormTemplate(db, c.Params("id"))
	if err != nil {
		return err
	}

	dir := filepath.Join(uploadRoot(), "rendered", input.ClientID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	outputPath := filepath.Join(dir, filepath.Base(template.FilePath))
	if err := copyFile(template.FilePath, outputPath); err != nil {
		return err
	}

	form, err := models.RenderForm(db, template.Uid, input.ClientID,
		datatypes.JSONMap(input.Fields), outputPath)
	if err != nil {
		return err
	}
	return c.Status(201).JSON(form)
}

func GetRenderedForms(c *fiber.Ctx) error {
	db := database.FromCtx(c)

	query := db.Model(&models.RenderedForm{})
	if clientID := c.Query("client_id"); clientID != "" {
		query = query.Where("client_id = ?", clientID)
	}
	if templateID := c.Query("template_id"); templateID != "" {
		query = query.Where("template_id = ?", templateID)
	}

	var forms []models.RenderedForm
	if err := query.Order("created_at").Find(&forms).Error; err != nil {
		return err
	}
	return c.JSON(forms)
}
