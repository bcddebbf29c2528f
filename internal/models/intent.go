package models

// Intent values the classifier can produce.
const (
	IntentAskIrrigation     = "ASK_IRRIGATION"
	IntentAskWaterAmount    = "ASK_WATER_AMOUNT"
	IntentAskTemperature    = "ASK_TEMPERATURE"
	IntentAskHumidity       = "ASK_HUMIDITY"
	IntentAskWeather        = "ASK_WEATHER"
	IntentAskIrrigationPlan = "ASK_IRRIGATION_ADVICE"
	IntentAskFertilizer     = "ASK_FERTILIZER"
	IntentAskCropHealth     = "ASK_CROP_HEALTH"
	IntentAskAlerts         = "ASK_ALERTS"
	IntentAskSchemes        = "ASK_SCHEMES"
	IntentGreeting          = "GREETING"
	IntentThanks            = "THANKS"
	IntentHelp              = "HELP"
	IntentOpenDashboard     = "OPEN_DASHBOARD"
	IntentOpenIrrigation    = "OPEN_IRRIGATION"
	IntentOpenAlerts        = "OPEN_ALERTS"
	IntentOpenAssistant     = "OPEN_ASSISTANT"
	IntentUnknown           = "UNKNOWN"
)

// Navigation targets for screen-bearing intents. The core only names the
// target; the UI shell owns actual navigation.
const (
	NavDashboard  = "DASHBOARD"
	NavIrrigation = "IRRIGATION"
	NavAlerts     = "ALERTS"
	NavAssistant  = "ASSISTANT"
)

// IntentEntities are the slots extracted alongside an intent.
type IntentEntities struct {
	Crop  string   `json:"crop,omitempty"`
	Stage string   `json:"stage,omitempty"`
	Value *float64 `json:"value,omitempty"`
}

// IntentResult is the classifier's verdict for one utterance. Produced
// fresh per call, never persisted.
type IntentResult struct {
	Intent           string         `json:"intent"`
	Confidence       float64        `json:"confidence"` // 0–1
	Entities         IntentEntities `json:"entities"`
	RawInput         string         `json:"raw_input"`
	NavigationTarget string         `json:"navigation_target,omitempty"`
}
