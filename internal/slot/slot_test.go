package slot

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGridIsTwelveHalfHours(t *testing.T) {
	g := Grid()
	assert.Len(t, g, 12)
	assert.Equal(t, "09:00", g[0])
	assert.Equal(t, "16:30", g[11])
	assert.NotContains(t, g, "12:00")
	assert.NotContains(t, g, "13:30")

	// callers can't mutate the grid through the returned slice
	g[0] = "08:00"
	assert.Equal(t, "09:00", Grid()[0])
}

func TestIsGridTime(t *testing.T) {
	assert.True(t, IsGridTime("10:30"))
	assert.False(t, IsGridTime("10:15"))
	assert.False(t, IsGridTime("9:00"))
	assert.False(t, IsGridTime(""))
}

func TestAvailable(t *testing.T) {
	tests := []struct {
		name  string
		taken []string
		want  []string
	}{
		{"nothing taken", nil, Grid()},
		{"one taken", []string{"10:00"}, []string{
			"09:00", "09:30", "10:30", "11:00", "11:30",
			"14:00", "14:30", "15:00", "15:30", "16:00", "16:30",
		}},
		{"off-grid times ignored", []string{"12:00", "08:15"}, Grid()},
		{"duplicates", []string{"09:00", "09:00", "16:30"}, []string{
			"09:30", "10:00", "10:30", "11:00", "11:30",
			"14:00", "14:30", "15:00", "15:30", "16:00",
		}},
		{"fully booked", Grid(), []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Available(tt.taken)
			assert.NotNil(t, got)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAvailablePartitionsGrid(t *testing.T) {
	g := Grid()
	// sample grid subsets by bitmask
	for mask := 0; mask < 1<<len(g); mask += 37 {
		var taken []string
		for i, s := range g {
			if mask&(1<<i) != 0 {
				taken = append(taken, s)
			}
		}
		free := Available(taken)
		assert.Len(t, free, len(g)-len(taken))
		for _, f := range free {
			assert.NotContains(t, taken, f)
		}
		union := map[string]bool{}
		for _, s := range append(append([]string{}, free...), taken...) {
			union[s] = true
		}
		assert.Len(t, union, len(g))
	}
}
