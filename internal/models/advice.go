package models

import "time"

// Irrigation actions.
const (
	ActionIrrigate = "irrigate"
	ActionStop     = "stop"
	ActionReduce   = "reduce"
	ActionWait     = "wait"
)

// Urgency tiers, shared by verdicts and alerts so the two never disagree
// about what counts as critical.
const (
	UrgencyLow      = "low"
	UrgencyMedium   = "medium"
	UrgencyHigh     = "high"
	UrgencyCritical = "critical"
)

// IrrigationVerdict is one evaluation of the irrigation rules against the
// current snapshot. Never cached; staleness would misinform the farmer.
type IrrigationVerdict struct {
	ShouldAct     bool    `json:"should_act"`
	Action        string  `json:"action"` // irrigate | stop | reduce | wait
	AmountMm      float64 `json:"amount_mm"`
	Urgency       string  `json:"urgency"` // low | medium | high | critical
	ConfidencePct float64 `json:"confidence_pct"`
	Reason        string  `json:"reason"`
	ReasonHindi   string  `json:"reason_hi"`
}

// FertilizerAdvice is one (crop, stage) recommendation row plus any
// health-driven warnings.
type FertilizerAdvice struct {
	Fertilizer  string   `json:"fertilizer"`
	Quantity    string   `json:"quantity"`
	Timing      string   `json:"timing"`
	Reason      string   `json:"reason"`
	ReasonHindi string   `json:"reason_hi"`
	Warnings    []string `json:"warnings,omitempty"`
}

// Alert kinds.
const (
	AlertOverIrrigation  = "over_irrigation"
	AlertUnderIrrigation = "under_irrigation"
	AlertWeatherCancel   = "weather_cancel"
)

// Alert severities.
const (
	SeverityLow    = "low"
	SeverityMedium = "medium"
	SeverityHigh   = "high"
)

// AlertRecord is a single transient alert. A UI collaborator owns
// persisting and dismissing these.
type AlertRecord struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`     // over_irrigation | under_irrigation | weather_cancel
	Severity  string    `json:"severity"` // low | medium | high
	Message   string    `json:"message"`
	MessageHi string    `json:"message_hi"`
	Timestamp time.Time `json:"timestamp"`
}

// BilingualResponse is the single reply shape every path produces, remote
// or local. DataUsed names every snapshot field the answer drew on so a
// caller can audit "why this advice".
type BilingualResponse struct {
	Text             string   `json:"text"`
	TextHindi        string   `json:"text_hi"`
	Action           string   `json:"action,omitempty"`
	Value            *float64 `json:"value,omitempty"`
	Unit             string   `json:"unit,omitempty"`
	ConfidencePct    float64  `json:"confidence_pct"`
	DataUsed         []string `json:"data_used"`
	NavigationTarget string   `json:"navigation_target,omitempty"`
	Offline          bool     `json:"offline"`
}
