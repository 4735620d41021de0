package locale

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatDateTime(t *testing.T) {
	registered := time.Date(2026, time.March, 5, 18, 7, 9, 0, time.UTC)
	fixed := time.FixedZone("CLT", -3*60*60)

	assert.Equal(t, "05-03-2026, 15:07:09", FormatDateTime(registered, fixed))
	assert.Equal(t, "05-03-2026, 15:07", FormatShortDateTime(registered, fixed))
	assert.Equal(t, "", FormatDateTime(time.Time{}, fixed))
}
