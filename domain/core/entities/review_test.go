package entities

import (
	"testing"
	"time"

	"storeadmin/domain/config"
	pkgerrors "storeadmin/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarizeRatings(t *testing.T) {
	assert.Equal(t, RatingSummary{}, SummarizeRatings(nil))

	reviews := []*Review{{Rating: 5}, {Rating: 4}, {Rating: 4}}
	assert.Equal(t, RatingSummary{Average: 4, Count: 3}, SummarizeRatings(reviews))

	reviews = []*Review{{Rating: 1}, {Rating: 2}}
	assert.Equal(t, RatingSummary{Average: 1, Count: 2}, SummarizeRatings(reviews), "mean is floored")
}

func TestReview_Revise(t *testing.T) {
	cfg := config.DefaultDomainConfig()
	now := time.Now()
	r, err := NewReview(cfg, "p", "u", 3, " ok ", now)
	require.NoError(t, err)
	assert.Equal(t, "ok", r.Comment)

	require.NoError(t, r.Revise(cfg, 5, "great", now.Add(time.Minute)))
	assert.Equal(t, 5, r.Rating)
	assert.Equal(t, now, r.CreatedAt)

	err = r.Revise(cfg, 6, "", now)
	assert.True(t, pkgerrors.IsValidation(err))
	assert.Equal(t, 5, r.Rating)
}
