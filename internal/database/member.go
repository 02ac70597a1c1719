package database

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/thereayou/chat-local/internal/models"
	"gorm.io/gorm"
)

type MemberRepository interface {
	Find(id uuid.UUID) (*models.Member, error)
	List() ([]models.Member, error)
	Count() (int64, error)
	Insert(name string) (*models.Member, error)
	DeleteAll() error
}

type memberRepository struct {
	db *gorm.DB
}

func (r *memberRepository) Find(id uuid.UUID) (*models.Member, error) {
	var member models.Member
	err := r.db.First(&member, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("members: find: %w", err)
	}
	return &member, nil
}

func (r *memberRepository) List() ([]models.Member, error) {
	var members []models.Member
	if err := r.db.Find(&members).Error; err != nil {
		return nil, fmt.Errorf("members: list: %w", err)
	}
	return members, nil
}

func (r *memberRepository) Count() (int64, error) {
	var count int64
	if err := r.db.Model(&models.Member{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("members: count: %w", err)
	}
	return count, nil
}

func (r *memberRepository) Insert(name string) (*models.Member, error) {
	member := &models.Member{Name: name}
	if err := r.db.Create(member).Error; err != nil {
		return nil, fmt.Errorf("members: insert: %w", err)
	}
	return member, nil
}

func (r *memberRepository) DeleteAll() error {
	if err := r.db.Where("1 = 1").Delete(&models.Member{}).Error; err != nil {
		return fmt.Errorf("members: delete all: %w", err)
	}
	return nil
}
