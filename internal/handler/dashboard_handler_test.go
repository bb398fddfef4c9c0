package handler

import (
	"errors"
	"net/http"
	"testing"

	"property-service/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStatsSource struct {
	overview    *repository.Overview
	err         error
	lastOwnerID uint
}

func (f *fakeStatsSource) Overview(ownerID uint) (*repository.Overview, error) {
	f.lastOwnerID = ownerID
	return f.overview, f.err
}

func TestDashboardIndex(t *testing.T) {
	t.Run("returns the statistics envelope", func(t *testing.T) {
		stats := &fakeStatsSource{
			overview: &repository.Overview{
				Statistics: repository.Statistics{
					TotalProperties:       2,
					TotalActiveProperties: 2,
					AveragePrice:          150000,
					TotalValue:            300000,
				},
				PropertiesByType: []repository.TypeSummary{{Type: "house", Count: 2, AveragePrice: 150000}},
				RecentProperties: []repository.RecentProperty{},
			},
		}
		h := NewDashboardHandler(stats)

		c, rec := newAuthedContext(t, http.MethodGet, "/api/dashboard", "")
		require.NoError(t, h.Index(c))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, uint(7), stats.lastOwnerID)

		body := decodeBody(t, rec)
		statistics := body["statistics"].(map[string]interface{})
		assert.Equal(t, float64(2), statistics["total_properties"])
		assert.Equal(t, float64(300000), statistics["total_value"])
		assert.Len(t, body["properties_by_type"], 1)
		assert.NotNil(t, body["recent_properties"])
	})

	t.Run("aggregation failure returns 500", func(t *testing.T) {
		h := NewDashboardHandler(&fakeStatsSource{err: errors.New("db down")})

		c, rec := newAuthedContext(t, http.MethodGet, "/api/dashboard", "")
		require.NoError(t, h.Index(c))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}
