package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func ptr(t time.Time) *time.Time { return &t }

func TestIsCurrentlyActive_Window(t *testing.T) {
	now := time.Now()

	cases := []struct {
		name     string
		giveaway Giveaway
		want     bool
	}{
		{"inactive flag", Giveaway{IsActive: false}, false},
		{"ended", Giveaway{IsActive: true, EndedAt: ptr(now)}, false},
		{"unbounded", Giveaway{IsActive: true}, true},
		{"inside window", Giveaway{IsActive: true, StartAt: ptr(now.Add(-time.Hour)), EndAt: ptr(now.Add(time.Hour))}, true},
		{"before start", Giveaway{IsActive: true, StartAt: ptr(now.Add(time.Minute))}, false},
		{"after end", Giveaway{IsActive: true, EndAt: ptr(now.Add(-time.Minute))}, false},
		// The interval is closed on both sides.
		{"exactly at start", Giveaway{IsActive: true, StartAt: ptr(now)}, true},
		{"exactly at end", Giveaway{IsActive: true, EndAt: ptr(now)}, true},
		{"only start passed", Giveaway{IsActive: true, StartAt: ptr(now.Add(-time.Minute))}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.giveaway.IsCurrentlyActive(now))
		})
	}
}

func TestAppliesToServer(t *testing.T) {
	global := Giveaway{IsGlobal: true}
	assert.True(t, global.AppliesToServer("anything"))

	scoped := Giveaway{Servers: []string{"ttt", "darkrp"}}
	assert.True(t, scoped.AppliesToServer("ttt"))
	assert.True(t, scoped.AppliesToServer("darkrp"))
	assert.False(t, scoped.AppliesToServer("surf"))

	empty := Giveaway{}
	assert.False(t, empty.AppliesToServer("ttt"))
}

func TestMinPlaytimeSeconds(t *testing.T) {
	assert.Equal(t, int64(7200), (&Giveaway{MinPlaytimeHours: 2}).MinPlaytimeSeconds())
	assert.Equal(t, int64(1800), (&Giveaway{MinPlaytimeHours: 0.5}).MinPlaytimeSeconds())
	assert.Equal(t, int64(0), (&Giveaway{}).MinPlaytimeSeconds())
}
