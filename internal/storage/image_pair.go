package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/easeaico/project-yeri/internal/types"
)

// ErrNoPairs is returned when the catalog has no pair for a difficulty.
var ErrNoPairs = errors.New("no image pair for difficulty")

type imagePairModel struct {
	PairID      string `gorm:"primaryKey"`
	BeforeURL   string
	AfterURL    string
	Difficulty  string            `gorm:"index"`
	Differences []differenceModel `gorm:"foreignKey:PairID;references:PairID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (imagePairModel) TableName() string {
	return "image_pairs"
}

// ImagePairRepo accesses the image_pairs table.
type ImagePairRepo struct {
	db *gorm.DB
}

// NewImagePairRepo returns an ImagePairRepo.
func NewImagePairRepo(db *gorm.DB) *ImagePairRepo {
	return &ImagePairRepo{db: db}
}

// Select picks a random pair of the difficulty. It implements game.PairProvider.
func (r *ImagePairRepo) Select(ctx context.Context, difficulty types.Difficulty) (types.ImagePair, error) {
	var model imagePairModel
	err := r.db.WithContext(ctx).
		Preload("Differences", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Where("difficulty = ?", string(difficulty)).
		Order("RANDOM()").
		Limit(1).
		Find(&model).Error
	if err != nil {
		return types.ImagePair{}, fmt.Errorf("failed to select image pair: %w", err)
	}
	if model.PairID == "" {
		return types.ImagePair{}, fmt.Errorf("%w: %s", ErrNoPairs, difficulty)
	}
	return pairFromModel(model), nil
}

// Upsert inserts or replaces a pair and its differences. embeddings, when
// given, align with pair.Differences.
func (r *ImagePairRepo) Upsert(ctx context.Context, pair types.ImagePair, embeddings [][]float32) error {
	if pair.PairID == "" {
		return fmt.Errorf("pair id cannot be empty")
	}
	model := pairToModel(pair, embeddings)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "pair_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"before_url", "after_url", "difficulty", "updated_at"}),
		}).Omit("Differences").Create(&model).Error; err != nil {
			return fmt.Errorf("failed to upsert image pair: %w", err)
		}
		if err := tx.Where("pair_id = ?", pair.PairID).Delete(&differenceModel{}).Error; err != nil {
			return fmt.Errorf("failed to clear differences: %w", err)
		}
		if len(model.Differences) == 0 {
			return nil
		}
		if err := tx.Create(&model.Differences).Error; err != nil {
			return fmt.Errorf("failed to insert differences: %w", err)
		}
		return nil
	})
}

// Count returns the number of pairs per difficulty.
func (r *ImagePairRepo) Count(ctx context.Context) (map[types.Difficulty]int64, error) {
	var rows []struct {
		Difficulty string
		N          int64
	}
	if err := r.db.WithContext(ctx).
		Model(&imagePairModel{}).
		Select("difficulty, COUNT(*) AS n").
		Group("difficulty").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to count image pairs: %w", err)
	}
	out := make(map[types.Difficulty]int64, len(rows))
	for _, row := range rows {
		out[types.Difficulty(row.Difficulty)] = row.N
	}
	return out, nil
}

func pairFromModel(model imagePairModel) types.ImagePair {
	differences := make([]string, 0, len(model.Differences))
	for _, d := range model.Differences {
		differences = append(differences, d.Label)
	}
	return types.ImagePair{
		PairID:      model.PairID,
		BeforeURL:   model.BeforeURL,
		AfterURL:    model.AfterURL,
		Differences: differences,
		Difficulty:  types.Difficulty(model.Difficulty),
	}
}

func pairToModel(pair types.ImagePair, embeddings [][]float32) imagePairModel {
	model := imagePairModel{
		PairID:     pair.PairID,
		BeforeURL:  pair.BeforeURL,
		AfterURL:   pair.AfterURL,
		Difficulty: string(pair.Difficulty),
	}
	for i, label := range pair.Differences {
		var embedding []float32
		if i < len(embeddings) {
			embedding = embeddings[i]
		}
		model.Differences = append(model.Differences, newDifferenceModel(pair.PairID, i, label, embedding))
	}
	return model
}
