package river

import "math"

// Engine is the stateless daily transition. It holds only coefficients;
// all run state lives in the State values passed through Step.
type Engine struct {
	coef Coefficients
}

func New(coef Coefficients) *Engine {
	return &Engine{coef: coef}
}

// Outcome reports everything a step produced beyond the successor state.
// Record is snapshotted before the weather draw at the pre-increment day,
// which the post-weather return state cannot reproduce.
type Outcome struct {
	Weather      WeatherEvent
	Record       HistoryRecord
	DailyPoints  int
	ScorePenalty int
}

// Step advances the river by one day. It is a total function of its
// arguments: no input is rejected and nothing can fail. Inputs are expected
// pre-clamped to [0,10] by the caller.
//
// Stage order is load-bearing: later stages read earlier stages' outputs,
// and the weather draw lands after the bounding pass without re-clamping.
// The overshoot that permits is absorbed by the next day's bounding pass;
// it is kept as-is pending product-owner clarification.
func (e *Engine) Step(s State, in PollutionInputs, pol PolicyFlags, weather WeatherSource) (State, Outcome) {
	c := e.coef

	// 1. Natural recovery.
	s.DissolvedOxygen += (c.RecoveryDOTarget - s.DissolvedOxygen) * c.RecoveryDORate
	s.Nitrates *= c.NitratesDecay
	s.Toxins *= c.ToxinsDecay
	s.Turbidity += (c.TurbidityTarget - s.Turbidity) * c.TurbidityRate

	// 2. Policy modifiers.
	treat := 1.0
	if pol.WastewaterTreatment {
		treat = c.TreatmentFactor
	}
	organic := 1.0
	if pol.OrganicFarming {
		organic = c.OrganicFactor
	}
	regulation := 1.0
	if pol.EmissionRegulation {
		regulation = c.RegulationFactor
	}
	cleanup := 0.0
	if pol.CleanupDrive {
		cleanup = c.CleanupEffect
	}

	// 3. Pollution injection.
	s.Toxins += in.FactoryOutput * c.FactoryToxins * treat * regulation
	s.Nitrates += in.FarmActivity * c.FarmNitrates * organic
	s.Turbidity += in.UrbanExpansion*c.UrbanTurbidity + in.FactoryOutput*c.FactoryTurbidity*treat
	s.DissolvedOxygen -= in.UrbanExpansion * c.UrbanOxygenDrain

	// 4. Secondary ecology.
	algaeGrowth := s.Nitrates*c.AlgaeNitrateGrowth - s.Turbidity*c.AlgaeTurbidityDrag
	s.Algae = clamp(s.Algae+algaeGrowth, 0, 100)
	if s.Algae > c.AlgaeBloomThreshold {
		// Overgrown algae depletes oxygen overnight.
		s.DissolvedOxygen -= (s.Algae - c.AlgaeBloomThreshold) * c.AlgaeOxygenDrain
	}
	plantDamage := s.Toxins*c.PlantToxinDamage + math.Max(0, s.Turbidity-c.PlantShadeThreshold)*c.PlantShadeDamage
	s.Plants = clamp(s.Plants-plantDamage+c.PlantRegrowth, 0, 100)

	// 5. Cleanup drive.
	s.Toxins = math.Max(0, s.Toxins-cleanup*c.CleanupToxins)
	s.Turbidity = math.Max(c.TurbidityFloor, s.Turbidity-cleanup*c.CleanupTurbidity)

	// 6. Bounding and derived pH.
	s.DissolvedOxygen = clamp(s.DissolvedOxygen, 0, 12)
	s.PH = clamp(c.PHBase-s.Toxins*c.PHToxinShift+s.Nitrates*c.PHNitrateShift, 1, 14)

	// 7. Classification on the post-update values.
	s.Health = e.Classify(s)

	// 8. Scoring.
	points, penalty := e.scoring(s.Health)
	s.EcoPoints += points
	s.Score = clampInt(s.Score-penalty, 0, 100)

	// The trend record captures the pre-weather values at today's index.
	rec := HistoryRecord{
		Day:             s.Day,
		DissolvedOxygen: s.DissolvedOxygen,
		PH:              s.PH,
		Nitrates:        s.Nitrates,
		Toxins:          s.Toxins,
		Turbidity:       s.Turbidity,
		Score:           s.Score,
	}

	// 9. Weather draw: exactly one consultation per step. Side effects are
	// not re-clamped here.
	kind := weather.Draw()
	switch kind {
	case WeatherHeavyRain:
		s.Nitrates += c.RainNitrates
	case WeatherDrought:
		s.Toxins *= c.DroughtToxinFactor
		s.DissolvedOxygen -= c.DroughtOxygenDrain
	case WeatherFlashFlood:
		s.DissolvedOxygen += c.FloodAeration
		s.Toxins += c.FloodToxins
	case WeatherSunny:
	}

	// 10. Day increment.
	s.Day++

	return s, Outcome{
		Weather:      Event(kind),
		Record:       rec,
		DailyPoints:  points,
		ScorePenalty: penalty,
	}
}

// Classify derives the health tier from parameter values, critical-first.
func (e *Engine) Classify(s State) Health {
	c := e.coef
	switch {
	case s.DissolvedOxygen < c.CriticalDO || s.Toxins > c.CriticalToxins || s.Plants < c.CriticalPlants:
		return HealthCritical
	case s.DissolvedOxygen < c.StressedDO || s.Nitrates > c.StressedNitrates || s.Turbidity > c.StressedTurbidity:
		return HealthStressed
	default:
		return HealthHealthy
	}
}

func (e *Engine) scoring(h Health) (dailyPoints, scorePenalty int) {
	c := e.coef
	switch h {
	case HealthHealthy:
		return c.HealthyPoints, c.HealthyPenalty
	case HealthStressed:
		return c.StressedPoints, c.StressedPenalty
	default:
		return c.CriticalPoints, c.CriticalPenalty
	}
}
