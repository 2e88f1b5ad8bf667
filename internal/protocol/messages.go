package protocol

// HELLO (client -> server)
type HelloMsg struct {
	Type            string     `json:"type"`
	ProtocolVersion string     `json:"protocol_version"`
	PlayerName      string     `json:"player_name"`
	Auth            *HelloAuth `json:"auth,omitempty"`
}

type HelloAuth struct {
	ResumeToken string `json:"resume_token,omitempty"`
}

// WELCOME (server -> client)
type WelcomeMsg struct {
	Type            string    `json:"type"`
	ProtocolVersion string    `json:"protocol_version"`
	SessionID       string    `json:"session_id"`
	ResumeToken     string    `json:"resume_token"`
	SimParams       SimParams `json:"sim_params"`
}

type SimParams struct {
	StoryDays int   `json:"story_days"`
	Seed      int64 `json:"seed"`
}

// ADVANCE (client -> server): simulate the next day. Day must match the
// session's current day so a reconnecting client cannot double-advance.
type AdvanceMsg struct {
	Type            string      `json:"type"`
	ProtocolVersion string      `json:"protocol_version"`
	Day             int         `json:"day"`
	Inputs          InputsMsg   `json:"inputs"`
	Policies        PoliciesMsg `json:"policies"`
}

type InputsMsg struct {
	FactoryOutput  float64 `json:"factory_output"`
	FarmActivity   float64 `json:"farm_activity"`
	UrbanExpansion float64 `json:"urban_expansion"`
}

type PoliciesMsg struct {
	WastewaterTreatment bool `json:"wastewater_treatment"`
	OrganicFarming      bool `json:"organic_farming"`
	EmissionRegulation  bool `json:"emission_regulation"`
	CleanupDrive        bool `json:"cleanup_drive"`
}

// RESET (client -> server): back to day 0.
type ResetMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
}

// STATE (server -> client): the full post-step report.
type StateMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	SessionID       string `json:"session_id"`

	Day       int    `json:"day"`
	Month     int    `json:"month"`
	MonthDay  int    `json:"month_day"`
	Health    string `json:"health"`
	Score     int    `json:"score"`
	EcoPoints int    `json:"eco_points"`

	Params   ParamsMsg      `json:"params"`
	Weather  WeatherMsg     `json:"weather"`
	Advisory string         `json:"advisory"`
	Badges   []string       `json:"badges,omitempty"`
	History  []HistoryPoint `json:"history,omitempty"`
}

type ParamsMsg struct {
	DissolvedOxygen float64 `json:"dissolved_oxygen"`
	PH              float64 `json:"ph"`
	Nitrates        float64 `json:"nitrates"`
	Toxins          float64 `json:"toxins"`
	Turbidity       float64 `json:"turbidity"`
	Algae           float64 `json:"algae"`
	Plants          float64 `json:"plants"`
}

type WeatherMsg struct {
	Kind        string `json:"kind"`
	Description string `json:"description"`
}

type HistoryPoint struct {
	Day             int     `json:"day"`
	DissolvedOxygen float64 `json:"dissolved_oxygen"`
	PH              float64 `json:"ph"`
	Nitrates        float64 `json:"nitrates"`
	Toxins          float64 `json:"toxins"`
	Turbidity       float64 `json:"turbidity"`
	Score           int     `json:"score"`
}

// RESULT (server -> client): outcome for a rejected or acknowledged request.
type ResultMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	For             string `json:"for"`
	Accepted        bool   `json:"accepted"`
	Code            string `json:"code,omitempty"`
	Message         string `json:"message,omitempty"`
	Day             int    `json:"day,omitempty"`
}
