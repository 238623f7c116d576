package routes

import (
	"github.com/gofiber/fiber/v2"

	"harborbill-backend/controllers"
	"harborbill-backend/middlewares"
)

// Register wires all HTTP routes.
func Register(app *fiber.App) {
	api := app.Group("/api")

	// Public auth endpoints
	api.Post("/registration", controllers.Register)
	api.Post("/login", controllers.Login)
	api.Post("/logout", controllers.Logout)

	// Protected endpoints (JWT auth)
	protected := api.Group("")
	protected.Use(middlewares.IsAuthenticatedHeader())

	// Per-request transaction (commits on success, rolls back on error)
	protected.Use(middlewares.RequestTx())

	// Clients
	protected.Post("/client", controllers.CreateClient)
	protected.Get("/clients", controllers.GetClients)
	protected.Get("/client/:id", controllers.GetClient)
	protected.Put("/client/:id", controllers.UpdateClient)
	protected.Delete("/client/:id", controllers.DeleteClient)

	// Contacts
	protected.Post("/contact", controllers.CreateContact)
	protected.Get("/contacts", controllers.GetContacts)
	protected.Get("/contact/:id", controllers.GetContact)
	protected.Put("/contact/:id", controllers.UpdateContact)
	protected.Post("/contact/:id/connect/:other", controllers.ConnectContact)
	protected.Get("/contact/:id/connections", controllers.GetContactConnections)

	// Vessels
	protected.Post("/vessel", controllers.CreateVessel)
	protected.Get("/vessels", controllers.GetVessels)
	protected.Put("/vessel/:id", controllers.UpdateVessel)
	protected.Delete("/vessel/:id", controllers.DeleteVessel)

	// Tasks
	protected.Post("/task", controllers.CreateTask)
	protected.Get("/tasks", controllers.GetTasks)
	protected.Put("/task/:id/state", controllers.SetTaskState)

	// Jobs
	protected.Post("/job", controllers.CreateJob)
	protected.Get("/jobs", controllers.GetJobs)
	protected.Get("/job/:id", controllers.GetJob)

	// SKU catalog
	protected.Post("/sku", controllers.CreateSKU)
	protected.Get("/skus", controllers.GetSKUs)
	protected.Get("/sku/:id", controllers.GetSKU)
	protected.Put("/sku/:id", controllers.UpdateSKU)
	protected.Post("/sku/:id/related/:other", controllers.LinkRelatedSKU)
	protected.Get("/sku/:id/related", controllers.GetRelatedSKUs)
	protected.Post("/sku/:id/contact/:contact", controllers.AttachSKUContact)
	protected.Post("/sku/:id/invoice/:invoice", controllers.AddSKUToInvoice)

	// Invoice ledger
	protected.Post("/invoice", controllers.CreateInvoice)
	protected.Get("/invoices", controllers.GetInvoices)
	protected.Get("/invoice/:id", controllers.GetInvoice)
	protected.Put("/invoice/:id/state", controllers.SetInvoiceState)
	protected.Put("/invoice/:id/metadata", controllers.SetInvoiceMetadata)
	protected.Post("/invoice/:id/items", controllers.AddLineItem)
	protected.Post("/invoice/:id/items/batch", controllers.BatchAddSKUs)
	protected.Put("/items/:id", controllers.UpdateLineItem)
	protected.Delete("/items/:id", controllers.DeleteLineItem)
	protected.Post("/invoice/:id/credits", controllers.ApplyCredit)
	protected.Put("/credits/:id", controllers.UpdateCredit)
	protected.Delete("/credits/:id", controllers.DeleteCredit)

	// Generic metadata writes, addressed by entity kind
	protected.Put("/metadata/:kind/:id", controllers.SetEntityMetadata)

	// Attachments and images
	protected.Post("/attachments/:kind/:id", controllers.UploadAttachment)
	protected.Get("/attachments/:kind/:id", controllers.ListAttachments)
	protected.Delete("/attachment/:id", controllers.DeleteAttachment)
	protected.Put("/image/:kind/:id", controllers.SetImage)
	protected.Delete("/image/:kind/:id", controllers.ClearImage)

	// Form templates and renderings
	protected.Post("/form-template", controllers.UploadFormTemplate)
	protected.Get("/form-templates", controllers.GetFormTemplates)
	protected.Get("/form-template/:id", controllers.GetFormTemplate)
	protected.Post("/form-template/:id/render", controllers.RenderForm)
	protected.Get("/rendered-forms", controllers.GetRenderedForms)
}
