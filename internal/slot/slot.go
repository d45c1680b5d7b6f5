// Package slot holds the fixed booking grid and the availability computation over it.
package slot

// morning and afternoon blocks, no lunch-hour slots
var grid = [...]string{
	"09:00", "09:30", "10:00", "10:30", "11:00", "11:30",
	"14:00", "14:30", "15:00", "15:30", "16:00", "16:30",
}

// Grid returns a copy of the bookable times in grid order.
func Grid() []string {
	out := make([]string, len(grid))
	copy(out, grid[:])
	return out
}

func IsGridTime(t string) bool {
	for _, g := range grid {
		if g == t {
			return true
		}
	}
	return false
}

// Available returns the grid minus taken, preserving grid order.
// The result is never nil so it encodes as an empty JSON array.
func Available(taken []string) []string {
	booked := make(map[string]struct{}, len(taken))
	for _, t := range taken {
		booked[t] = struct{}{}
	}
	out := make([]string, 0, len(grid))
	for _, g := range grid {
		if _, ok := booked[g]; !ok {
			out = append(out, g)
		}
	}
	return out
}
