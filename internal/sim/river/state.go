package river

// Health classifies the ecosystem from the current parameter values.
type Health string

const (
	HealthHealthy  Health = "HEALTHY"
	HealthStressed Health = "STRESSED"
	HealthCritical Health = "CRITICAL"
)

// State holds all water-quality parameters for one simulation run.
// It is a value type: the engine never mutates its argument, it returns
// the successor state. All writes happen inside Engine.Step; the session
// layer owns storage and lifecycle.
type State struct {
	DissolvedOxygen float64 // mg/L, [0,12] after bounding
	PH              float64 // [1,14], derived from toxins/nitrates
	Nitrates        float64 // mg/L, >= 0, no ceiling
	Toxins          float64 // >= 0, no ceiling
	Turbidity       float64 // NTU, floor of 5, no ceiling
	Algae           float64 // index, [0,100]
	Plants          float64 // health %, [0,100]

	Score     int // [0,100]
	EcoPoints int // cumulative, never decreases
	Day       int

	Health Health
}

// InitialState returns the day-0 river.
func InitialState() State {
	return State{
		DissolvedOxygen: 8.0,
		PH:              7.0,
		Nitrates:        2.0,
		Toxins:          0.0,
		Turbidity:       5.0,
		Algae:           10.0,
		Plants:          100.0,
		Score:           100,
		EcoPoints:       0,
		Day:             0,
		Health:          HealthHealthy,
	}
}

// PollutionInputs are the per-day source intensities, each expected in [0,10].
// Range enforcement belongs to the caller; the engine applies them as given.
type PollutionInputs struct {
	FactoryOutput  float64 `json:"factory_output"`
	FarmActivity   float64 `json:"farm_activity"`
	UrbanExpansion float64 `json:"urban_expansion"`
}

// PolicyFlags are the per-day interventions.
type PolicyFlags struct {
	WastewaterTreatment bool `json:"wastewater_treatment"`
	OrganicFarming      bool `json:"organic_farming"`
	EmissionRegulation  bool `json:"emission_regulation"`
	CleanupDrive        bool `json:"cleanup_drive"`
}

// HistoryRecord is the per-day trend snapshot appended by the caller.
// It captures the pre-weather values at the day that was current before
// the increment; the engine never reads history back.
type HistoryRecord struct {
	Day             int     `json:"day"`
	DissolvedOxygen float64 `json:"dissolved_oxygen"`
	PH              float64 `json:"ph"`
	Nitrates        float64 `json:"nitrates"`
	Toxins          float64 `json:"toxins"`
	Turbidity       float64 `json:"turbidity"`
	Score           int     `json:"score"`
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
