package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/savoraeats/savora-backend/internal/application/services"
)

func TestRelevanceScore_WeightedBlend(t *testing.T) {
	// 4.5*0.4 + 120*0.3 + (1/(2.5+1))*0.2 + 800*0.1
	score := services.RelevanceScore(4.5, 120, 800, 2.5)
	assert.InDelta(t, 1.8+36+0.2/3.5+80, score, 1e-9)
}

func TestRelevanceScore_ZeroDistanceIsFinite(t *testing.T) {
	score := services.RelevanceScore(4.0, 0, 0, 0)
	assert.InDelta(t, 4.0*0.4+0.2, score, 1e-9)
}

func TestRelevanceScore_CloserScoresHigher(t *testing.T) {
	near := services.RelevanceScore(4.0, 100, 500, 1.0)
	far := services.RelevanceScore(4.0, 100, 500, 9.0)
	assert.Greater(t, near, far)
}

func TestRelevanceScore_MoreReviewsScoreHigher(t *testing.T) {
	few := services.RelevanceScore(4.0, 10, 500, 2.0)
	many := services.RelevanceScore(4.0, 200, 500, 2.0)
	assert.Greater(t, many, few)
}
