package repository

import (
	"gorm.io/gorm"

	"github.com/chynybekuuludastan/seo_inspector/internal/models"
)

// WebsiteRepository defines operations for Website model
type WebsiteRepository interface {
	Repository
	FindByURL(url string) (*models.Website, error)
	FindAll(page, pageSize int) ([]*models.Website, int64, error)
	FindOrCreateByURL(url string) (*models.Website, error)
	UpdateMetadata(url, title, description string) error
}

// websiteRepository implements WebsiteRepository
type websiteRepository struct {
	*BaseRepository
}

// NewWebsiteRepository creates a new website repository
func NewWebsiteRepository(db *gorm.DB) WebsiteRepository {
	return &websiteRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

// FindByURL finds a website by URL
func (r *websiteRepository) FindByURL(url string) (*models.Website, error) {
	var website models.Website
	err := r.DB.Where("url = ?", url).First(&website).Error
	if err != nil {
		return nil, err
	}
	return &website, nil
}

// FindAll retrieves all websites with pagination
func (r *websiteRepository) FindAll(page, pageSize int) ([]*models.Website, int64, error) {
	var websites []*models.Website
	var count int64

	if err := r.DB.Model(&models.Website{}).Count(&count).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize

	if err := r.DB.Offset(offset).Limit(pageSize).Order("created_at DESC").Find(&websites).Error; err != nil {
		return nil, 0, err
	}

	return websites, count, nil
}

// FindOrCreateByURL returns the website for the URL, creating it when missing
func (r *websiteRepository) FindOrCreateByURL(url string) (*models.Website, error) {
	website, err := r.FindByURL(url)
	if err == nil {
		return website, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	created := models.Website{URL: url}
	if err := r.DB.Create(&created).Error; err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateMetadata refreshes the stored title and description for a URL
func (r *websiteRepository) UpdateMetadata(url, title, description string) error {
	return r.DB.Model(&models.Website{}).Where("url = ?", url).Updates(map[string]interface{}{
		"title":       title,
		"description": description,
	}).Error
}
