// Package relevance converts raw search distances into a
// human-facing percentage. The transform 1/(1+d) is monotonically
// decreasing and bounded in (0, 100]; it is a relative ranking
// signal, not a calibrated probability.
package relevance

import "fmt"

// Score renders a non-negative L2 distance as a percentage with one
// decimal place: 0.0 → "100.0%", 1.0 → "50.0%", d → ∞ tends to "0.0%".
// A negative distance indicates an upstream index misconfiguration
// and is an internal error, never clamped.
func Score(distance float64) (string, error) {
	if distance < 0 {
		return "", fmt.Errorf("negative search distance %g", distance)
	}
	return fmt.Sprintf("%.1f%%", 100/(1+distance)), nil
}
