package river

import "math/rand"

// Weather enumerates the daily weather draw.
type Weather string

const (
	WeatherSunny      Weather = "SUNNY"
	WeatherHeavyRain  Weather = "HEAVY_RAIN"
	WeatherDrought    Weather = "DROUGHT"
	WeatherFlashFlood Weather = "FLASH_FLOOD"
)

// WeatherEvent is the drawn weather plus its narrative for the caller.
type WeatherEvent struct {
	Kind        Weather `json:"kind"`
	Description string  `json:"description"`
}

var weatherDescriptions = map[Weather]string{
	WeatherSunny:      "Clear skies. The river flows undisturbed.",
	WeatherHeavyRain:  "Heavy rain alert: nutrient runoff has increased.",
	WeatherDrought:    "Drought alert: water levels low, pollutants concentrating.",
	WeatherFlashFlood: "Flash flood: waste tanks overflowed, but the water is aerated.",
}

// Event wraps a weather kind with its description.
func Event(w Weather) WeatherEvent {
	return WeatherEvent{Kind: w, Description: weatherDescriptions[w]}
}

// WeatherSource supplies the weighted weather draw. The engine consults it
// exactly once per Step, strictly after all deterministic stages.
type WeatherSource interface {
	Draw() Weather
}

// Fixed draw weights: sunny days dominate, each hazard is rare.
var weatherWeights = []struct {
	kind   Weather
	weight float64
}{
	{WeatherSunny, 0.7},
	{WeatherHeavyRain, 0.1},
	{WeatherDrought, 0.1},
	{WeatherFlashFlood, 0.1},
}

type weightedSource struct {
	r *rand.Rand
}

// NewWeatherSource returns the weighted random source backing interactive
// play. Pass a seeded *rand.Rand for a reproducible run.
func NewWeatherSource(r *rand.Rand) WeatherSource {
	return &weightedSource{r: r}
}

func (s *weightedSource) Draw() Weather {
	x := s.r.Float64()
	acc := 0.0
	for _, e := range weatherWeights {
		acc += e.weight
		if x < acc {
			return e.kind
		}
	}
	return weatherWeights[len(weatherWeights)-1].kind
}

// ScriptedWeather replays a fixed sequence, wrapping around when exhausted.
// Used by tests and the replay harness.
type ScriptedWeather struct {
	seq []Weather
	i   int
}

func Scripted(seq ...Weather) *ScriptedWeather {
	if len(seq) == 0 {
		seq = []Weather{WeatherSunny}
	}
	return &ScriptedWeather{seq: seq}
}

func (s *ScriptedWeather) Draw() Weather {
	w := s.seq[s.i%len(s.seq)]
	s.i++
	return w
}
