package storage

import (
	"context"
	"fmt"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

// differenceModel maps to the image_differences table.
type differenceModel struct {
	ID        int
	PairID    string `gorm:"index"`
	Position  int
	Label     string
	Embedding *pgvector.Vector `gorm:"type:vector(768)"`
}

func (differenceModel) TableName() string {
	return "image_differences"
}

func newDifferenceModel(pairID string, position int, label string, embedding []float32) differenceModel {
	var vector *pgvector.Vector
	if len(embedding) > 0 {
		v := pgvector.NewVector(embedding)
		vector = &v
	}
	return differenceModel{
		PairID:    pairID,
		Position:  position,
		Label:     label,
		Embedding: vector,
	}
}

// Match is the closest difference to an answer.
type Match struct {
	Label      string
	Similarity float64
}

// DifferenceRepo searches difference embeddings.
type DifferenceRepo struct {
	db *gorm.DB
}

// NewDifferenceRepo returns a DifferenceRepo.
func NewDifferenceRepo(db *gorm.DB) *DifferenceRepo {
	return &DifferenceRepo{db: db}
}

// Nearest returns the difference of pairID most similar to embedding, or nil
// when the pair has no embedded differences.
func (r *DifferenceRepo) Nearest(ctx context.Context, pairID string, embedding []float32) (*Match, error) {
	if len(embedding) == 0 {
		return nil, nil
	}
	var matches []Match
	if err := r.db.WithContext(ctx).Raw(`
		SELECT label, 1 - (embedding <=> $1) AS similarity
		FROM image_differences
		WHERE pair_id = $2 AND embedding IS NOT NULL
		ORDER BY embedding <=> $1
		LIMIT 1`, pgvector.NewVector(embedding), pairID).
		Scan(&matches).Error; err != nil {
		return nil, fmt.Errorf("failed to search similar differences: %w", err)
	}
	if len(matches) == 0 {
		return nil, nil
	}
	return &matches[0], nil
}
