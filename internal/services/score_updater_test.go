package services

import (
	"testing"

	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCronSchedule(t *testing.T) {
	assert.Equal(t, "@every 30m", cronSchedule("30m"))
	assert.Equal(t, "@every 1h30m", cronSchedule("1h30m"))
	assert.Equal(t, "@hourly", cronSchedule("@hourly"))
	assert.Equal(t, "@every 15m", cronSchedule("@every 15m"))
	assert.Equal(t, "0 3 * * *", cronSchedule("0 3 * * *"))
	assert.Equal(t, "@every 30m", cronSchedule("soon"))
}

func TestCronScheduleAccepted(t *testing.T) {
	c := cron.New()
	for _, raw := range []string{"30m", "2h", "@every 5m", "0 3 * * *"} {
		_, err := c.AddFunc(cronSchedule(raw), func() {})
		require.NoError(t, err, "schedule %q", raw)
	}
}
