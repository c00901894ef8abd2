package promotion

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPerformanceDeletedPromoSerializesInactive(t *testing.T) {
	// Usage rows survive promo deletion; the report marks them inactive.
	perf := Performance{PromoCode: "GONE10", UsageCount: 3, TotalRevenue: 9000}

	b, err := json.Marshal(perf)

	require.NoError(t, err)
	assert.Contains(t, string(b), `"active":false`)
	assert.NotContains(t, string(b), "promo_id")
}
