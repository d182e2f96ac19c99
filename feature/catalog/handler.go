package catalog

import (
	"errors"

	"craft-catalog/core/logger"
	corereconcile "craft-catalog/core/reconcile"
	"craft-catalog/feature/catalog/models"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for the catalog.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the catalog routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/catalog")
	group.Post("/ingest", h.HandleIngest)
	group.Get("/stats", h.HandleStats)
	group.Get("/items", h.HandleItems)
	group.Get("/crafts", h.HandleCrafts)
	group.Get("/session", h.HandleSession)
	group.Delete("/session", h.HandleResetSession)
	group.Get("/reconcile", h.HandleReconcile)
}

// HandleIngest merges one extraction batch and returns its report. Per-record problems
// are part of the report; only an unreadable body fails the request.
func (h *Handler) HandleIngest(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	var batch models.Batch
	if err := c.BodyParser(&batch); err != nil {
		l.Warn("Rejected ingestion body", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid batch: " + err.Error(),
		})
	}

	report := h.service.Ingest(c.UserContext(), batch)
	l.Info("Batch ingested",
		zap.Int("itemsAdded", report.Stats.NewItemsAdded),
		zap.Int("craftsAdded", report.Stats.NewCraftsAdded),
		zap.Bool("persisted", report.Stats.Persisted))
	return c.JSON(report)
}

// HandleStats returns catalog totals.
func (h *Handler) HandleStats(c *fiber.Ctx) error {
	return c.JSON(h.service.Summary())
}

// HandleItems lists items, filtered by ?name= when given.
func (h *Handler) HandleItems(c *fiber.Ctx) error {
	items := h.service.Items(c.Query("name"))
	return c.JSON(fiber.Map{"count": len(items), "records": items})
}

// HandleCrafts lists crafts, filtered by base name through ?name= when given.
func (h *Handler) HandleCrafts(c *fiber.Ctx) error {
	crafts := h.service.Crafts(c.Query("name"))
	return c.JSON(fiber.Map{"count": len(crafts), "records": crafts})
}

// HandleSession returns the records touched during this run.
func (h *Handler) HandleSession(c *fiber.Ctx) error {
	return c.JSON(h.service.Session())
}

// HandleResetSession clears the session tracker.
func (h *Handler) HandleResetSession(c *fiber.Ctx) error {
	h.service.ResetSession()
	logger.WithRayID(h.service.logger, c).Info("Session reset")
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleReconcile compares the catalog with the canonical dataset. With ?id= or ?name=
// only the selected record is reconciled.
func (h *Handler) HandleReconcile(c *fiber.Ctx) error {
	ctx := c.UserContext()
	query := corereconcile.Query{ID: c.Query("id"), Name: c.Query("name")}

	var (
		result any
		err    error
	)
	if query.ID != "" || query.Name != "" {
		result, err = h.service.ReconcileOne(ctx, query)
	} else {
		result, err = h.service.Reconcile(ctx)
	}
	if err != nil {
		status := fiber.StatusInternalServerError
		if errors.Is(err, ErrNoStorage) {
			status = fiber.StatusServiceUnavailable
		}
		logger.WithRayID(h.service.logger, c).Error("Reconciliation failed", zap.Error(err))
		return c.Status(status).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(result)
}
