package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/chynybekuuludastan/seo_inspector/internal/models"
	"github.com/chynybekuuludastan/seo_inspector/internal/repository"
)

// WebsiteHandler handles website-related requests
type WebsiteHandler struct {
	Repo *repository.Factory
}

// NewWebsiteHandler creates a new website handler
func NewWebsiteHandler(repo *repository.Factory) *WebsiteHandler {
	return &WebsiteHandler{Repo: repo}
}

// ListWebsites returns all analyzed websites with pagination. A url query
// parameter narrows the result to the single matching website.
func (h *WebsiteHandler) ListWebsites(c *fiber.Ctx) error {
	if url := c.Query("url"); url != "" {
		website, err := h.Repo.WebsiteRepository.FindByURL(url)
		if err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"success": false,
				"error":   "Website not found",
			})
		}
		return c.JSON(fiber.Map{
			"success": true,
			"data": fiber.Map{
				"websites":  []*models.Website{website},
				"total":     1,
				"page":      1,
				"page_size": 1,
			},
		})
	}

	page := c.QueryInt("page", 1)
	pageSize := c.QueryInt("page_size", 20)
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	websites, total, err := h.Repo.WebsiteRepository.FindAll(page, pageSize)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to fetch websites",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"websites":  websites,
			"total":     total,
			"page":      page,
			"page_size": pageSize,
		},
	})
}

// GetWebsite returns a website together with its paginated analysis history
func (h *WebsiteHandler) GetWebsite(c *fiber.Ctx) error {
	websiteID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid website ID",
		})
	}

	page := c.QueryInt("page", 1)
	pageSize := c.QueryInt("page_size", 20)
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	var website models.Website
	if err := h.Repo.WebsiteRepository.FindByID(websiteID, &website); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"error":   "Website not found",
		})
	}

	analyses, total, err := h.Repo.AnalysisRepository.FindByWebsiteID(websiteID, page, pageSize)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to fetch analysis history",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"website":   website,
			"analyses":  analyses,
			"total":     total,
			"page":      page,
			"page_size": pageSize,
		},
	})
}
