package shared_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"fleet/shared"
	"fleet/shared/dto"
)

func TestCalculateTotalPage(t *testing.T) {
	tests := []struct {
		name  string
		total int
		limit int
		want  int
	}{
		{name: "empty result", total: 0, limit: 10, want: 1},
		{name: "exact pages", total: 20, limit: 10, want: 2},
		{name: "partial last page", total: 21, limit: 10, want: 3},
		{name: "zero limit", total: 21, limit: 0, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, shared.CalculateTotalPage(tt.total, tt.limit))
		})
	}
}

func TestRoundCurrency(t *testing.T) {
	assert.Equal(t, 150.0, shared.RoundCurrency(150.000001))
	assert.Equal(t, 33.33, shared.RoundCurrency(33.334))
	assert.Equal(t, 33.34, shared.RoundCurrency(33.335))
}

func TestTransformFields(t *testing.T) {
	type update struct {
		Name  string  `db:"vehicle_name"`
		Price float64 `db:"daily_rent_price"`
		Skip  string
	}

	fields := shared.TransformFields(update{Name: "Avanza"}, "admin-1")

	assert.Equal(t, "Avanza", fields["vehicle_name"])
	assert.NotContains(t, fields, "daily_rent_price")
	assert.Equal(t, "admin-1", fields["modified_by"])
	assert.Contains(t, fields, "modified_at")
}

func TestBuildCacheKeyWithQuery(t *testing.T) {
	filterA := shared.FilterByID("a", "id", "vehicles")
	filterB := shared.FilterByID("b", "id", "vehicles")

	keyA := shared.BuildCacheKeyWithQuery("vehicle:gets", dto.QueryParams{Page: 1, Limit: 10}, filterA)
	keyB := shared.BuildCacheKeyWithQuery("vehicle:gets", dto.QueryParams{Page: 1, Limit: 10}, filterB)
	keyA2 := shared.BuildCacheKeyWithQuery("vehicle:gets", dto.QueryParams{Page: 1, Limit: 10}, filterA)

	assert.NotEqual(t, keyA, keyB)
	assert.Equal(t, keyA, keyA2)
}
