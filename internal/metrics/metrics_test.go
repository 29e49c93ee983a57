package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMetrics(t *testing.T) {
	// Register should be safe to call multiple times
	Register()
	Register()

	// Inc helpers should not panic
	assert.NotPanics(t, func() {
		IncHTTP("availability_check")
		IncAvailabilityCheck("slot", true)
		IncAvailabilityCheck("date", false)
		IncBookingCreated("full_day")
		IncBookingConflict("multi_day")
	})
}
