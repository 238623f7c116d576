package controllers

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"harborbill-backend/database"
	"harborbill-backend/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
)

func uploadRoot() string {
	if dir := os.Getenv("UPLOAD_DIR"); dir != "" {
		return dir
	}
	return "./uploads"
}

// UploadAttachment stores a multipart file against any registered entity.
// Extra form fields (besides filename) land in the attachment's metadata.
func UploadAttachment(c *fiber.Ctx) error {
	kind := c.Params("kind")
	if !models.ValidEntityKind(kind) {
		return c.Status(400).JSON(fiber.Map{"message": "Unknown entity kind " + kind})
	}

	file, err := c.FormFile("attachment_file")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"message": "attachment_file is required"})
	}

	name := c.FormValue("filename", file.Filename)
	metadata := datatypes.JSONMap{}
	if form, err := c.MultipartForm(); err == nil {
		for key, values := range form.Value {
			if key != "filename" && len(values) > 0 {
				metadata[key] = values[0]
			}
		}
	}

	dir := filepath.Join(uploadRoot(), "attachments", kind, c.Params("id"))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	dst := filepath.Join(dir, fmt.Sprintf("%s-%s", time.Now().UTC().Format(time.RFC3339), name))
	if _, err := os.Stat(dst); err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": "filename conflict"})
	}

	attachment, err := models.CreateAttachment(database.FromCtx(c),
		models.EntityKind(kind), c.Params("id"), name, dst, metadata)
	if err != nil {
		return err
	}
	if err := c.SaveFile(file, dst); err != nil {
		return err
	}
	return c.Status(201).JSON(attachment)
}

func ListAttachments(c *fiber.Ctx) error {
	kind := c.Params("kind")
	if !models.ValidEntityKind(kind) {
		return c.Status(400).JSON(fiber.Map{"message": "Unknown entity kind " + kind})
	}
	attachments, err := models.AttachmentsFor(database.FromCtx(c),
		models.EntityKind(kind), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(attachments)
}

func DeleteAttachment(c *fiber.Ctx) error {
	db := database.FromCtx(c)
	attachment, err := models.GetAttachment(db, c.Params("id"))
	if err != nil {
		return err
	}
	if err := db.Delete(attachment).Error; err != nil {
		return err
	}
	// Stored file removal is best effort; the row is the source of truth.
	_ = os.Remove(attachment.FilePath)
	return c.JSON(fiber.Map{"message": "attachment deleted"})
}

// imageTargets maps the entities that carry a display image.
var imageTargets = map[string]models.EntityKind{
	"client":  models.KindClientEntity,
	"contact": models.KindContactEntity,
	"sku":     models.KindSKUEntity,
}

func imageModelFor(kind string) (interface{}, bool) {
	switch kind {
	case "client":
		return &models.Client{}, true
	case "contact":
		return &models.Contact{}, true
	case "sku":
		return &models.SKU{}, true
	}
	return nil, false
}

// SetImage stores an uploaded image for a client, contact or SKU.
func SetImage(c *fiber.Ctx) error {
	kind := c.Params("kind")
	entityKind, ok := imageTargets[kind]
	if !ok {
		return c.Status(400).JSON(fiber.Map{"message": "no image support for " + kind})
	}

	db := database.FromCtx(c)
	if _, err := models.LookupEntity(db, models.EntityRef{Kind: entityKind, UID: c.Params("id")}); err != nil {
		return err
	}

	file, err := c.FormFile("image")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"message": "image is required"})
	}

	dir := filepath.Join(uploadRoot(), "images", kind, c.Params("id"))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	dst := filepath.Join(dir, file.Filename)
	if err := c.SaveFile(file, dst); err != nil {
		return err
	}

	model, _ := imageModelFor(kind)
	if err := db.Model(model).Where("uid = ?", c.Params("id")).
		Update("image_path", dst).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{"image_path": dst})
}

// ClearImage drops the image link; the stored file is left behind.
func ClearImage(c *fiber.Ctx) error {
	kind := c.Params("kind")
	entityKind, ok := imageTargets[kind]
	if !ok {
		return c.Status(400).JSON(fiber.Map{"message": "no image support for " + kind})
	}

	db := database.FromCtx(c)
	if _, err := models.LookupEntity(db, models.EntityRef{Kind: entityKind, UID: c.Params("id")}); err != nil {
		return err
	}

	model, _ := imageModelFor(kind)
	if err := db.Model(model).Where("uid = ?", c.Params("id")).
		Update("image_path", "").Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "image cleared"})
}
