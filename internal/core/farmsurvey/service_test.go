package farmsurvey

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/appshelf/appshelf/internal/core/collection"
	"github.com/appshelf/appshelf/internal/core/validation"
	"github.com/appshelf/appshelf/internal/storage/memory"
)

func newSurvey(t *testing.T, s *Service) Survey {
	t.Helper()
	sv, err := s.Store().Create(context.Background(), map[string]interface{}{
		"userId":     "u1",
		"farmerName": "Pak Darto",
		"status":     StatusVerified,
		"field": map[string]interface{}{
			"name": "Sawah Timur",
			"area": 1.5,
			"location": map[string]interface{}{
				"latitude": -6.9, "longitude": 107.6,
			},
			"soilType": "Aluvial",
		},
		"crops": []interface{}{
			map[string]interface{}{"name": "Padi", "variety": "IR64", "plantingDate": "2024-01-10", "unit": "ton"},
		},
	})
	require.NoError(t, err)
	return sv
}

func TestCreate_StartsAsDraft(t *testing.T) {
	s := NewService(collection.NewStore(Definition(), memory.New(), validation.NewValidator()))

	sv := newSurvey(t, s)
	assert.Equal(t, StatusDraft, sv.Status)
	require.Len(t, sv.Crops, 1)
	assert.Equal(t, "IR64", sv.Crops[0].Variety)

	p := s.Store().Query(collection.Query{Search: "sawah"})
	assert.Equal(t, 1, p.Total)
}

func TestWorkflow(t *testing.T) {
	s := NewService(collection.NewStore(Definition(), memory.New(), validation.NewValidator()))
	ctx := context.Background()
	sv := newSurvey(t, s)

	_, err := s.Verify(ctx, sv.ID)
	assert.True(t, validation.IsValidationError(err), "draft cannot be verified")

	sv, err = s.Submit(ctx, sv.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusSubmitted, sv.Status)

	_, err = s.Submit(ctx, sv.ID)
	assert.True(t, validation.IsValidationError(err))

	sv, err = s.Verify(ctx, sv.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusVerified, sv.Status)

	_, err = s.Submit(ctx, "missing")
	assert.ErrorIs(t, err, collection.ErrNotFound)
}
