package handlers

import (
	"context"
	"encoding/json"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/chynybekuuludastan/seo_inspector/internal/api/websocket"
	"github.com/chynybekuuludastan/seo_inspector/internal/config"
	"github.com/chynybekuuludastan/seo_inspector/internal/models"
	"github.com/chynybekuuludastan/seo_inspector/internal/repository"
	"github.com/chynybekuuludastan/seo_inspector/internal/repository/cache"
	"github.com/chynybekuuludastan/seo_inspector/internal/service/analyzer"
)

// AnalysisHandler handles page analysis requests
type AnalysisHandler struct {
	Repo     *repository.Factory
	Cache    *cache.Repository
	Analyzer *analyzer.Service
	Hub      *websocket.Hub
	Config   *config.Config
}

// NewAnalysisHandler creates a new analysis handler
func NewAnalysisHandler(repo *repository.Factory, cacheRepo *cache.Repository, svc *analyzer.Service, hub *websocket.Hub, cfg *config.Config) *AnalysisHandler {
	return &AnalysisHandler{
		Repo:     repo,
		Cache:    cacheRepo,
		Analyzer: svc,
		Hub:      hub,
		Config:   cfg,
	}
}

// AnalysisRequest represents a request to analyze a page
type AnalysisRequest struct {
	URL string `json:"url" validate:"required,url"`
}

// CreateAnalysis registers an analysis and runs it in the background
func (h *AnalysisHandler) CreateAnalysis(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uuid.UUID)

	req := new(AnalysisRequest)
	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid request body: " + err.Error(),
		})
	}

	website, err := h.Repo.WebsiteRepository.FindOrCreateByURL(req.URL)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to create website record: " + err.Error(),
		})
	}

	analysis := models.Analysis{
		WebsiteID: website.ID,
		UserID:    userID,
		Status:    models.StatusPending,
	}

	if err := h.Repo.AnalysisRepository.Create(&analysis); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to create analysis record: " + err.Error(),
		})
	}

	if err := h.Cache.InvalidateUserAnalyses(userID); err != nil {
		log.Printf("Failed to invalidate cached analyses for user %s: %v", userID, err)
	}

	go h.runAnalysis(analysis.ID, userID, req.URL)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"analysis_id": analysis.ID,
			"status":      analysis.Status,
		},
	})
}

// runAnalysis drives the analyzer pipeline for one stored analysis
func (h *AnalysisHandler) runAnalysis(analysisID, userID uuid.UUID, url string) {
	if err := h.Repo.AnalysisRepository.UpdateStatus(analysisID, models.StatusRunning); err != nil {
		return
	}
	// Every status transition makes the cached per-user list stale
	defer func() {
		if err := h.Cache.InvalidateUserAnalyses(userID); err != nil {
			log.Printf("Failed to invalidate cached analyses for user %s: %v", userID, err)
		}
	}()

	progress := func(stage analyzer.Stage) {
		h.Hub.BroadcastStage(analysisID, string(stage))
	}

	result, err := h.Analyzer.Analyze(context.Background(), url, progress)
	if err != nil {
		if failErr := h.Repo.AnalysisRepository.FailAnalysis(analysisID, err.Error()); failErr != nil {
			log.Printf("Failed to mark analysis %s as failed: %v", analysisID, failErr)
		}
		h.Hub.BroadcastToAnalysis(analysisID, websocket.Message{
			Type: "failed",
			Data: map[string]interface{}{
				"analysis_id": analysisID.String(),
				"error":       err.Error(),
			},
		})
		return
	}

	// Backfill the website record from the extracted metadata
	if result.MetaTags.Title != "" || result.MetaTags.Description != "" {
		if err := h.Repo.WebsiteRepository.UpdateMetadata(url, result.MetaTags.Title, result.MetaTags.Description); err != nil {
			log.Printf("Failed to update website metadata for %s: %v", url, err)
		}
	}

	resultJSON, err := json.Marshal(result)
	if err != nil {
		h.Repo.AnalysisRepository.FailAnalysis(analysisID, "failed to encode result: "+err.Error())
		return
	}

	if err := h.Repo.AnalysisRepository.CompleteAnalysis(
		analysisID,
		datatypes.JSON(resultJSON),
		result.Score.Score,
		result.Score.Issues,
		result.Score.Warnings,
	); err != nil {
		log.Printf("Failed to store analysis %s: %v", analysisID, err)
		return
	}

	if stored, err := h.Repo.AnalysisRepository.FindWithDetails(analysisID); err == nil {
		if err := h.Cache.CacheAnalysis(stored); err != nil {
			log.Printf("Failed to cache analysis %s: %v", analysisID, err)
		}
	}

	h.Hub.BroadcastToAnalysis(analysisID, websocket.Message{
		Type: "completed",
		Data: map[string]interface{}{
			"analysis_id": analysisID.String(),
			"score":       result.Score.Score,
			"issues":      result.Score.Issues,
			"warnings":    result.Score.Warnings,
		},
	})
}

// GetAnalysis returns a single analysis with its result document
func (h *AnalysisHandler) GetAnalysis(c *fiber.Ctx) error {
	analysisID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid analysis ID",
		})
	}

	if cached, err := h.Cache.GetAnalysis(analysisID); err == nil && cached != nil {
		return c.JSON(fiber.Map{
			"success": true,
			"data":    cached,
		})
	}

	analysis, err := h.Repo.AnalysisRepository.FindWithDetails(analysisID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"error":   "Analysis not found",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    analysis,
	})
}

// recentAnalysesLimit bounds the cached per-user dashboard list
const recentAnalysesLimit = 10

// ListRecentAnalyses returns the user's latest analyses, served from the
// cache when a fresh copy exists
func (h *AnalysisHandler) ListRecentAnalyses(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uuid.UUID)

	if cached, err := h.Cache.GetUserAnalyses(userID); err == nil && cached != nil {
		return c.JSON(fiber.Map{
			"success": true,
			"data":    cached,
		})
	}

	analyses, err := h.Repo.AnalysisRepository.FindLatestByUserID(userID, recentAnalysesLimit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to fetch analyses",
		})
	}

	if err := h.Cache.CacheUserAnalyses(userID, analyses); err != nil {
		log.Printf("Failed to cache analyses for user %s: %v", userID, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    analyses,
	})
}

// DeleteAnalysis removes an analysis and drops its cache entries
func (h *AnalysisHandler) DeleteAnalysis(c *fiber.Ctx) error {
	analysisID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid analysis ID",
		})
	}

	analysis, err := h.Repo.AnalysisRepository.FindWithDetails(analysisID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"error":   "Analysis not found",
		})
	}

	if err := h.Repo.AnalysisRepository.Delete(analysis); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to delete analysis",
		})
	}

	if err := h.Cache.InvalidateAnalysis(analysisID); err != nil {
		log.Printf("Failed to invalidate cached analysis %s: %v", analysisID, err)
	}
	if err := h.Cache.InvalidateUserAnalyses(analysis.UserID); err != nil {
		log.Printf("Failed to invalidate cached analyses for user %s: %v", analysis.UserID, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
	})
}

// ListAnalyses returns the current user's analyses with pagination
func (h *AnalysisHandler) ListAnalyses(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uuid.UUID)

	page := c.QueryInt("page", 1)
	pageSize := c.QueryInt("page_size", 20)
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	analyses, total, err := h.Repo.AnalysisRepository.FindByUserID(userID, page, pageSize)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to fetch analyses",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"analyses":  analyses,
			"total":     total,
			"page":      page,
			"page_size": pageSize,
		},
	})
}
