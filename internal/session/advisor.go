package session

import "aquaguard.ai/internal/sim/river"

// Advisory thresholds. Deliberately looser than the classifier so the
// guidance fires before the health tier flips.
const (
	advisoryLowDO     = 4.0
	advisoryNitrates  = 7.5
	advisoryToxins    = 3.5
	advisoryTurbidity = 35.0
)

// Advisory picks the most urgent guidance line for the current state,
// checked oxygen-first.
func Advisory(s river.State) string {
	switch {
	case s.DissolvedOxygen < advisoryLowDO:
		return "Critical oxygen levels. Industrial or urban waste is depleting the river's breath. Consider wastewater treatment or emission regulations."
	case s.Nitrates > advisoryNitrates:
		return "Algal bloom imminent. High nitrates from farm runoff detected. Enable organic farming subsidies."
	case s.Toxins > advisoryToxins:
		return "Toxic contamination. Factory leakage is reaching lethal levels. Regulation and a cleanup drive are urgent."
	case s.Turbidity > advisoryTurbidity:
		return "High turbidity. Silt and urban debris are blocking sunlight, killing plants. Start a cleanup drive."
	default:
		return "The river is thriving. Your management is maintaining a healthy balance."
	}
}
