package session

import "aquaguard.ai/internal/sim/river"

// Badge names shown on the achievements panel.
const (
	BadgeGuardian = "Guardian of the Stream"
	BadgeLongTerm = "Long-Term Manager"
	BadgeCrystal  = "Crystal Clear"
)

// Badges lists the achievements the current run has earned. Badges are
// recomputed from state, not accumulated, so a run that deteriorates can
// lose them again.
func Badges(s river.State) []string {
	var out []string
	if s.Score > 90 && s.Day > 10 {
		out = append(out, BadgeGuardian)
	}
	if s.Day > 30 {
		out = append(out, BadgeLongTerm)
	}
	if s.DissolvedOxygen > 7 && s.Toxins < 0.5 {
		out = append(out, BadgeCrystal)
	}
	return out
}
