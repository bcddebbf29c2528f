package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"krishimitra/internal/models"
	"krishimitra/internal/repository"
)

// AssistantService is the local answer path: classify the utterance, run
// the relevant decision engine and compose one bilingual reply. Everything
// here is synchronous computation over the in-memory snapshot.
type AssistantService struct {
	intent     Intent
	readings   Readings
	irrigation Irrigation
	fertilizer Fertilizer
	alerts     Alerts
	kv         repository.KVRepo
}

func NewAssistantService(intent Intent, readings Readings, irrigation Irrigation, fertilizer Fertilizer, alerts Alerts, kv repository.KVRepo) *AssistantService {
	return &AssistantService{
		intent:     intent,
		readings:   readings,
		irrigation: irrigation,
		fertilizer: fertilizer,
		alerts:     alerts,
		kv:         kv,
	}
}

// AcceptUtterance turns already-transcribed text into a bilingual reply.
// No condition here is fatal: unmatched intents get a clarifying prompt,
// missing readings fall back to defaults inside the engines.
func (s *AssistantService) AcceptUtterance(ctx context.Context, text string) (models.BilingualResponse, error) {
	res := s.intent.Classify(text)

	state, err := s.readings.Get(ctx)
	if err != nil {
		return models.BilingualResponse{}, err
	}

	resp := s.compose(ctx, res, state)
	resp.NavigationTarget = res.NavigationTarget
	return resp, nil
}

// compose selects the engine output relevant to the intent and renders it
// with the urgency-appropriate tone. DataUsed names every snapshot field
// the answer drew on.
func (s *AssistantService) compose(ctx context.Context, res models.IntentResult, state models.FarmState) models.BilingualResponse {
	switch res.Intent {
	case models.IntentAskIrrigation, models.IntentAskWaterAmount, models.IntentAskIrrigationPlan:
		return s.composeIrrigation(state, res)

	case models.IntentAskTemperature:
		t := state.Sensors.TemperatureC
		return models.BilingualResponse{
			Text:          fmt.Sprintf("The field temperature is %.1f°C right now.", t),
			TextHindi:     fmt.Sprintf("अभी खेत का तापमान %.1f°C है।", t),
			Value:         &t,
			Unit:          "°C",
			ConfidencePct: 100,
			DataUsed:      []string{"temperature_c", "last_updated"},
		}

	case models.IntentAskHumidity:
		h := state.Sensors.HumidityPct
		return models.BilingualResponse{
			Text:          fmt.Sprintf("Air humidity is %.0f%%.", h),
			TextHindi:     fmt.Sprintf("हवा में नमी %.0f%% है।", h),
			Value:         &h,
			Unit:          "%",
			ConfidencePct: 100,
			DataUsed:      []string{"humidity_pct", "last_updated"},
		}

	case models.IntentAskWeather:
		w := state.Weather
		text := fmt.Sprintf("It is %s, %.1f°C, with a %.0f%% chance of rain.",
			strings.ReplaceAll(w.Condition, "_", " "), w.CurrentTempC, w.RainProbability)
		if w.ForecastText != "" {
			text += " " + w.ForecastText
		}
		return models.BilingualResponse{
			Text:          text,
			TextHindi:     fmt.Sprintf("मौसम %s है, तापमान %.1f°C, बारिश की संभावना %.0f%% है।", conditionHindi(w.Condition), w.CurrentTempC, w.RainProbability),
			ConfidencePct: 90,
			DataUsed:      []string{"weather.condition", "weather.current_temp_c", "weather.rain_probability_pct"},
		}

	case models.IntentAskFertilizer:
		return s.composeFertilizer(state, res)

	case models.IntentAskCropHealth:
		c := state.Crop
		return models.BilingualResponse{
			Text:          fmt.Sprintf("Your %s is at the %s stage and its health is %s.", cropLabel(c.Type), c.Stage, c.HealthStatus),
			TextHindi:     fmt.Sprintf("आपकी फसल %s अवस्था में है और हालत %s है।", c.Stage, c.HealthStatus),
			ConfidencePct: 90,
			DataUsed:      []string{"crop.type", "crop.stage", "crop.health_status"},
		}

	case models.IntentAskAlerts:
		return s.composeAlerts(ctx)

	case models.IntentAskSchemes:
		return s.composeSchemes(ctx)

	case models.IntentGreeting:
		return models.BilingualResponse{
			Text:          "Hello! Ask me about watering, fertilizer, weather or your crop.",
			TextHindi:     "नमस्ते! पानी, खाद, मौसम या फसल के बारे में पूछिए।",
			ConfidencePct: 100,
			DataUsed:      []string{},
		}

	case models.IntentThanks:
		return models.BilingualResponse{
			Text:          "Happy to help. Good luck with the harvest!",
			TextHindi:     "खुशी हुई मदद करके। फसल अच्छी हो!",
			ConfidencePct: 100,
			DataUsed:      []string{},
		}

	case models.IntentHelp:
		return models.BilingualResponse{
			Text:          "You can ask: should I water today, which fertilizer to use, how is the weather, or say open dashboard.",
			TextHindi:     "आप पूछ सकते हैं: आज पानी दूं क्या, कौनसी खाद डालूं, मौसम कैसा है, या बोलें डैशबोर्ड खोलो।",
			ConfidencePct: 100,
			DataUsed:      []string{},
		}

	case models.IntentOpenDashboard, models.IntentOpenIrrigation, models.IntentOpenAlerts, models.IntentOpenAssistant:
		return models.BilingualResponse{
			Text:          "Opening it now.",
			TextHindi:     "खोल रहा हूं।",
			ConfidencePct: res.Confidence * 100,
			DataUsed:      []string{},
		}

	default:
		// Classification miss: fixed clarifying prompt, never a guess.
		return models.BilingualResponse{
			Text:          "Sorry, I did not understand. You can ask about watering, fertilizer, weather or alerts.",
			TextHindi:     "माफ कीजिए, समझ नहीं पाया। पानी, खाद, मौसम या चेतावनी के बारे में पूछिए।",
			ConfidencePct: 0,
			DataUsed:      []string{},
		}
	}
}

func (s *AssistantService) composeIrrigation(state models.FarmState, res models.IntentResult) models.BilingualResponse {
	v := s.irrigation.EvaluateState(state)

	amount := v.AmountMm
	resp := models.BilingualResponse{
		Text:          tonePrefix(v.Urgency) + v.Reason,
		TextHindi:     tonePrefix(v.Urgency) + v.ReasonHindi,
		Action:        v.Action,
		ConfidencePct: v.ConfidencePct,
		DataUsed: []string{
			"soil_moisture_pct", "is_raining", "temperature_c",
			"crop.type", "crop.stage",
		},
	}
	if v.Action == models.ActionIrrigate {
		resp.Value = &amount
		resp.Unit = "mm"
	}
	return resp
}

func (s *AssistantService) composeFertilizer(state models.FarmState, res models.IntentResult) models.BilingualResponse {
	// A crop named in the utterance overrides the stored profile.
	crop := state.Crop
	if res.Entities.Crop != "" {
		crop.Type = res.Entities.Crop
	}
	if res.Entities.Stage != "" {
		crop.Stage = res.Entities.Stage
	}
	adv := s.fertilizer.RecommendFor(crop)

	text := fmt.Sprintf("For %s at the %s stage: apply %s, %s. %s. %s",
		cropLabel(crop.Type), crop.Stage, adv.Fertilizer, adv.Quantity, adv.Timing, adv.Reason)
	textHi := fmt.Sprintf("%s के लिए %s अवस्था में: %s डालें, %s। %s",
		cropLabel(crop.Type), crop.Stage, adv.Fertilizer, adv.Quantity, adv.ReasonHindi)
	for _, w := range adv.Warnings {
		text += " ⚠️ " + w
	}

	return models.BilingualResponse{
		Text:          text,
		TextHindi:     textHi,
		Action:        "fertilize",
		ConfidencePct: 85,
		DataUsed:      []string{"crop.type", "crop.stage", "crop.health_status"},
	}
}

// schemesPayload is the shape the remote /schemes endpoint returns; the
// gateway caches the raw body under kvKeySchemes whenever a fetch succeeds.
type schemesPayload struct {
	Schemes []string `json:"schemes"`
}

// composeSchemes prefers the last-known remote scheme list from the kv
// cache; without one it falls back to the fixed reply.
func (s *AssistantService) composeSchemes(ctx context.Context) models.BilingualResponse {
	if s.kv != nil {
		if raw, ok, err := s.kv.Get(ctx, kvKeySchemes); err == nil && ok {
			var p schemesPayload
			if json.Unmarshal([]byte(raw), &p) == nil && len(p.Schemes) > 0 {
				names := strings.Join(p.Schemes, ", ")
				return models.BilingualResponse{
					Text:          "Latest government schemes for farmers: " + names + ".",
					TextHindi:     "किसानों के लिए ताज़ा सरकारी योजनाएं: " + names + "।",
					ConfidencePct: 85,
					DataUsed:      []string{"kv.schemes_last"},
				}
			}
		}
	}
	return models.BilingualResponse{
		Text:          "Opening the latest government schemes for farmers. PM-Kisan and crop insurance are the most used.",
		TextHindi:     "किसानों के लिए सरकारी योजनाएं दिखा रहा हूं। पीएम-किसान और फसल बीमा सबसे काम की हैं।",
		ConfidencePct: 80,
		DataUsed:      []string{},
	}
}

func (s *AssistantService) composeAlerts(ctx context.Context) models.BilingualResponse {
	alerts, err := s.alerts.Scan(ctx)
	if err != nil || len(alerts) == 0 {
		return models.BilingualResponse{
			Text:          "✅ No active alerts. Everything looks fine.",
			TextHindi:     "✅ कोई चेतावनी नहीं है। सब ठीक है।",
			ConfidencePct: 90,
			DataUsed:      []string{"soil_moisture_pct", "is_raining"},
		}
	}

	var en, hi []string
	for _, a := range alerts {
		en = append(en, a.Message)
		hi = append(hi, a.MessageHi)
	}
	return models.BilingualResponse{
		Text:          "⚠️ " + strings.Join(en, " "),
		TextHindi:     "⚠️ " + strings.Join(hi, " "),
		ConfidencePct: 90,
		DataUsed:      []string{"soil_moisture_pct", "is_raining", "crop.type"},
	}
}

// tonePrefix maps urgency to phrasing tone: alarmed for critical/high,
// reassuring for low.
func tonePrefix(urgency string) string {
	switch urgency {
	case models.UrgencyCritical:
		return "🚨 "
	case models.UrgencyHigh:
		return "⚠️ "
	case models.UrgencyMedium:
		return ""
	default:
		return "✅ "
	}
}

func conditionHindi(condition string) string {
	switch condition {
	case models.ConditionSunny:
		return "धूप वाला"
	case models.ConditionCloudy:
		return "बादल वाला"
	case models.ConditionRainy:
		return "बारिश वाला"
	case models.ConditionPartlyCloudy:
		return "हल्के बादल वाला"
	default:
		return condition
	}
}
