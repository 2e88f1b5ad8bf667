package river

// Coefficients collects every numeric constant of the daily transition.
// Defaults are the calibrated model values; tuning.yaml may override
// individual entries for experiments.
type Coefficients struct {
	// Natural recovery.
	RecoveryDOTarget float64 `yaml:"recovery_do_target"`
	RecoveryDORate   float64 `yaml:"recovery_do_rate"`
	NitratesDecay    float64 `yaml:"nitrates_decay"`
	ToxinsDecay      float64 `yaml:"toxins_decay"`
	TurbidityTarget  float64 `yaml:"turbidity_target"`
	TurbidityRate    float64 `yaml:"turbidity_rate"`
	TurbidityFloor   float64 `yaml:"turbidity_floor"`

	// Policy modifiers. Treatment and regulation both scale factory toxins
	// and compound multiplicatively.
	TreatmentFactor  float64 `yaml:"treatment_factor"`
	OrganicFactor    float64 `yaml:"organic_factor"`
	RegulationFactor float64 `yaml:"regulation_factor"`
	CleanupEffect    float64 `yaml:"cleanup_effect"`

	// Pollution injection.
	FactoryToxins    float64 `yaml:"factory_toxins"`
	FarmNitrates     float64 `yaml:"farm_nitrates"`
	UrbanTurbidity   float64 `yaml:"urban_turbidity"`
	FactoryTurbidity float64 `yaml:"factory_turbidity"`
	UrbanOxygenDrain float64 `yaml:"urban_oxygen_drain"`

	// Secondary ecology.
	AlgaeNitrateGrowth  float64 `yaml:"algae_nitrate_growth"`
	AlgaeTurbidityDrag  float64 `yaml:"algae_turbidity_drag"`
	AlgaeBloomThreshold float64 `yaml:"algae_bloom_threshold"`
	AlgaeOxygenDrain    float64 `yaml:"algae_oxygen_drain"`
	PlantToxinDamage    float64 `yaml:"plant_toxin_damage"`
	PlantShadeThreshold float64 `yaml:"plant_shade_threshold"`
	PlantShadeDamage    float64 `yaml:"plant_shade_damage"`
	PlantRegrowth       float64 `yaml:"plant_regrowth"`

	// Cleanup drive.
	CleanupToxins    float64 `yaml:"cleanup_toxins"`
	CleanupTurbidity float64 `yaml:"cleanup_turbidity"`

	// Derived pH.
	PHBase         float64 `yaml:"ph_base"`
	PHToxinShift   float64 `yaml:"ph_toxin_shift"`
	PHNitrateShift float64 `yaml:"ph_nitrate_shift"`

	// Classification thresholds, checked critical-first.
	CriticalDO        float64 `yaml:"critical_do"`
	CriticalToxins    float64 `yaml:"critical_toxins"`
	CriticalPlants    float64 `yaml:"critical_plants"`
	StressedDO        float64 `yaml:"stressed_do"`
	StressedNitrates  float64 `yaml:"stressed_nitrates"`
	StressedTurbidity float64 `yaml:"stressed_turbidity"`

	// Scoring. Penalties are subtracted from the bounded score, so a
	// negative penalty lets healthy days claw score back.
	HealthyPoints   int `yaml:"healthy_points"`
	HealthyPenalty  int `yaml:"healthy_penalty"`
	StressedPoints  int `yaml:"stressed_points"`
	StressedPenalty int `yaml:"stressed_penalty"`
	CriticalPoints  int `yaml:"critical_points"`
	CriticalPenalty int `yaml:"critical_penalty"`

	// Weather side effects.
	RainNitrates       float64 `yaml:"rain_nitrates"`
	DroughtToxinFactor float64 `yaml:"drought_toxin_factor"`
	DroughtOxygenDrain float64 `yaml:"drought_oxygen_drain"`
	FloodAeration      float64 `yaml:"flood_aeration"`
	FloodToxins        float64 `yaml:"flood_toxins"`
}

// DefaultCoefficients returns the calibrated model constants.
func DefaultCoefficients() Coefficients {
	return Coefficients{
		RecoveryDOTarget: 8.5,
		RecoveryDORate:   0.15,
		NitratesDecay:    0.92,
		ToxinsDecay:      0.85,
		TurbidityTarget:  5.0,
		TurbidityRate:    0.2,
		TurbidityFloor:   5.0,

		TreatmentFactor:  0.15,
		OrganicFactor:    0.35,
		RegulationFactor: 0.4,
		CleanupEffect:    2.0,

		FactoryToxins:    0.6,
		FarmNitrates:     0.9,
		UrbanTurbidity:   1.5,
		FactoryTurbidity: 0.4,
		UrbanOxygenDrain: 0.4,

		AlgaeNitrateGrowth:  0.5,
		AlgaeTurbidityDrag:  0.1,
		AlgaeBloomThreshold: 40.0,
		AlgaeOxygenDrain:    0.05,
		PlantToxinDamage:    2.0,
		PlantShadeThreshold: 20.0,
		PlantShadeDamage:    0.5,
		PlantRegrowth:       2.0,

		CleanupToxins:    0.5,
		CleanupTurbidity: 2.0,

		PHBase:         7.0,
		PHToxinShift:   0.25,
		PHNitrateShift: 0.15,

		CriticalDO:        2.5,
		CriticalToxins:    4.5,
		CriticalPlants:    20.0,
		StressedDO:        4.5,
		StressedNitrates:  7.5,
		StressedTurbidity: 30.0,

		HealthyPoints:   10,
		HealthyPenalty:  -2,
		StressedPoints:  2,
		StressedPenalty: 5,
		CriticalPoints:  0,
		CriticalPenalty: 15,

		RainNitrates:       2.0,
		DroughtToxinFactor: 1.2,
		DroughtOxygenDrain: 1.0,
		FloodAeration:      1.0,
		FloodToxins:        1.0,
	}
}
