package repository

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/chynybekuuludastan/seo_inspector/internal/models"
)

// AnalysisRepository defines operations for Analysis model
type AnalysisRepository interface {
	Repository
	FindByUserID(userID uuid.UUID, page, pageSize int) ([]*models.Analysis, int64, error)
	FindByWebsiteID(websiteID uuid.UUID, page, pageSize int) ([]*models.Analysis, int64, error)
	FindWithDetails(analysisID uuid.UUID) (*models.Analysis, error)
	UpdateStatus(analysisID uuid.UUID, status string) error
	CompleteAnalysis(analysisID uuid.UUID, result datatypes.JSON, score, issues, warnings int) error
	FailAnalysis(analysisID uuid.UUID, reason string) error
	FindLatestByUserID(userID uuid.UUID, limit int) ([]*models.Analysis, error)
}

// analysisRepository implements AnalysisRepository
type analysisRepository struct {
	*BaseRepository
}

// NewAnalysisRepository creates a new analysis repository
func NewAnalysisRepository(db *gorm.DB) AnalysisRepository {
	return &analysisRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

// FindByUserID finds analyses by user ID with pagination
func (r *analysisRepository) FindByUserID(userID uuid.UUID, page, pageSize int) ([]*models.Analysis, int64, error) {
	var analyses []*models.Analysis
	var count int64

	if err := r.DB.Model(&models.Analysis{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize

	if err := r.DB.Where("user_id = ?", userID).
		Preload("Website").
		Offset(offset).
		Limit(pageSize).
		Order("created_at DESC").
		Find(&analyses).Error; err != nil {
		return nil, 0, err
	}

	return analyses, count, nil
}

// FindByWebsiteID finds analyses by website ID with pagination
func (r *analysisRepository) FindByWebsiteID(websiteID uuid.UUID, page, pageSize int) ([]*models.Analysis, int64, error) {
	var analyses []*models.Analysis
	var count int64

	if err := r.DB.Model(&models.Analysis{}).Where("website_id = ?", websiteID).Count(&count).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize

	if err := r.DB.Where("website_id = ?", websiteID).
		Offset(offset).
		Limit(pageSize).
		Order("created_at DESC").
		Find(&analyses).Error; err != nil {
		return nil, 0, err
	}

	return analyses, count, nil
}

// FindWithDetails finds an analysis with its website and user preloaded
func (r *analysisRepository) FindWithDetails(analysisID uuid.UUID) (*models.Analysis, error) {
	var analysis models.Analysis
	err := r.DB.
		Preload("Website").
		Preload("User").
		First(&analysis, "id = ?", analysisID).Error
	if err != nil {
		return nil, err
	}
	return &analysis, nil
}

// UpdateStatus updates the status of an analysis
func (r *analysisRepository) UpdateStatus(analysisID uuid.UUID, status string) error {
	updates := map[string]interface{}{"status": status}

	switch status {
	case models.StatusRunning:
		updates["started_at"] = time.Now()
	case models.StatusCompleted, models.StatusFailed:
		updates["completed_at"] = time.Now()
	}

	return r.DB.Model(&models.Analysis{}).Where("id = ?", analysisID).Updates(updates).Error
}

// CompleteAnalysis stores the result document and denormalized counters
func (r *analysisRepository) CompleteAnalysis(analysisID uuid.UUID, result datatypes.JSON, score, issues, warnings int) error {
	return r.DB.Model(&models.Analysis{}).Where("id = ?", analysisID).Updates(map[string]interface{}{
		"status":         models.StatusCompleted,
		"completed_at":   time.Now(),
		"result":         result,
		"score":          score,
		"issues_count":   issues,
		"warnings_count": warnings,
	}).Error
}

// FailAnalysis marks an analysis as failed with a reason
func (r *analysisRepository) FailAnalysis(analysisID uuid.UUID, reason string) error {
	return r.DB.Model(&models.Analysis{}).Where("id = ?", analysisID).Updates(map[string]interface{}{
		"status":       models.StatusFailed,
		"completed_at": time.Now(),
		"error":        reason,
	}).Error
}

// FindLatestByUserID finds the latest analyses for a user
func (r *analysisRepository) FindLatestByUserID(userID uuid.UUID, limit int) ([]*models.Analysis, error) {
	var analyses []*models.Analysis
	err := r.DB.Where("user_id = ?", userID).
		Preload("Website").
		Order("created_at DESC").
		Limit(limit).
		Find(&analyses).Error
	if err != nil {
		return nil, err
	}
	return analyses, nil
}
