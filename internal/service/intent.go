package service

import (
	"strconv"
	"strings"
	"unicode"

	"krishimitra/internal/models"
)

// Confidence scoring for pattern matches. Exact phrase beats containment
// beats token overlap; anything under the floor becomes UNKNOWN.
const (
	scoreExact       = 1.0
	scoreContainment = 0.8
	scoreOverlapMax  = 0.6
	confidenceFloor  = 0.3
)

// intentPatterns lists, per intent, all keyword/phrase variants across the
// three scripts (Latin-transliterated, Devanagari, English). One table, one
// matcher; no per-language branches.
var intentPatterns = map[string][]string{
	models.IntentAskIrrigation: {
		"paani dena", "pani dena", "paani dena hai kya", "sinchai karna",
		"paani chahiye", "पानी देना", "सिंचाई करनी है", "पानी चाहिए",
		"should i water", "water the crop", "need watering", "irrigate now",
	},
	models.IntentAskWaterAmount: {
		"kitna paani", "kitna pani dena", "कितना पानी", "कितना पानी देना है",
		"how much water", "water amount", "water quantity",
	},
	models.IntentAskTemperature: {
		"taapman", "tapman kitna", "garmi kitni", "तापमान", "कितनी गर्मी",
		"temperature", "how hot", "current temperature",
	},
	models.IntentAskHumidity: {
		"nami kitni", "hawa me nami", "नमी", "हवा में नमी",
		"humidity", "how humid", "moisture in air",
	},
	models.IntentAskWeather: {
		"mausam kaisa", "mausam ka haal", "baarish hogi", "मौसम कैसा है",
		"बारिश होगी क्या", "weather today", "weather forecast", "will it rain",
	},
	models.IntentAskIrrigationPlan: {
		"sinchai salah", "sinchai ki salah", "paani ki salah", "सिंचाई सलाह",
		"पानी की सलाह", "irrigation advice", "irrigation plan", "watering schedule",
	},
	models.IntentAskFertilizer: {
		"khad kaunsi", "khad dalna", "urvarak", "खाद कौनसी", "खाद डालना",
		"उर्वरक", "fertilizer advice", "which fertilizer", "fertilizer for crop",
	},
	models.IntentAskCropHealth: {
		"fasal kaisi", "fasal ki haalat", "fasal ki sehat", "फसल कैसी है",
		"फसल की हालत", "crop health", "how is my crop", "crop condition",
	},
	models.IntentAskAlerts: {
		"chetavani", "koi samasya", "alert batao", "चेतावनी", "कोई समस्या",
		"any alerts", "show alerts", "warnings",
	},
	models.IntentAskSchemes: {
		"sarkari yojana", "yojana batao", "सरकारी योजना", "योजना",
		"government scheme", "subsidy", "kisan scheme",
	},
	models.IntentGreeting: {
		"namaste", "namaskar", "ram ram", "नमस्ते", "नमस्कार",
		"hello", "hi", "good morning",
	},
	models.IntentThanks: {
		"dhanyavad", "shukriya", "धन्यवाद", "शुक्रिया",
		"thank you", "thanks",
	},
	models.IntentHelp: {
		"madad karo", "kya kar sakte ho", "मदद करो", "क्या कर सकते हो",
		"help", "what can you do", "how to use",
	},
	models.IntentOpenDashboard: {
		"dashboard kholo", "dashboard dikhao", "डैशबोर्ड खोलो",
		"open dashboard", "show dashboard", "go to dashboard", "home screen",
	},
	models.IntentOpenIrrigation: {
		"sinchai kholo", "sinchai screen", "सिंचाई खोलो",
		"open irrigation", "irrigation screen", "go to irrigation",
	},
	models.IntentOpenAlerts: {
		"chetavani kholo", "चेतावनी खोलो",
		"open alerts", "alerts screen", "go to alerts",
	},
	models.IntentOpenAssistant: {
		"sahayak kholo", "baat karni hai", "सहायक खोलो",
		"open assistant", "talk to assistant", "voice assistant",
	},
}

// intentOrder fixes the evaluation order so equal scores always resolve to
// the same intent. Map iteration order would make ties nondeterministic.
var intentOrder = []string{
	models.IntentAskIrrigation,
	models.IntentAskWaterAmount,
	models.IntentAskTemperature,
	models.IntentAskHumidity,
	models.IntentAskWeather,
	models.IntentAskIrrigationPlan,
	models.IntentAskFertilizer,
	models.IntentAskCropHealth,
	models.IntentAskAlerts,
	models.IntentAskSchemes,
	models.IntentGreeting,
	models.IntentThanks,
	models.IntentHelp,
	models.IntentOpenDashboard,
	models.IntentOpenIrrigation,
	models.IntentOpenAlerts,
	models.IntentOpenAssistant,
}

// navigationFor maps screen-bearing intents to their navigation target.
// Informational intents are absent and carry no target.
var navigationFor = map[string]string{
	models.IntentOpenDashboard:     models.NavDashboard,
	models.IntentOpenIrrigation:    models.NavIrrigation,
	models.IntentOpenAlerts:        models.NavAlerts,
	models.IntentOpenAssistant:     models.NavAssistant,
	models.IntentAskIrrigation:     models.NavIrrigation,
	models.IntentAskWaterAmount:    models.NavIrrigation,
	models.IntentAskIrrigationPlan: models.NavIrrigation,
	models.IntentAskAlerts:         models.NavAlerts,
}

// IntentClassifier matches normalized utterances against the pattern table.
// It holds no state beyond the static tables.
type IntentClassifier struct{}

func NewIntentClassifier() *IntentClassifier { return &IntentClassifier{} }

// Classify normalizes the utterance, scores every pattern of every intent
// and keeps the best. Below the floor it returns UNKNOWN with confidence 0.
func (c *IntentClassifier) Classify(text string) models.IntentResult {
	normalized := normalizeUtterance(text)
	tokens := strings.Fields(normalized)

	best := models.IntentResult{
		Intent:   models.IntentUnknown,
		RawInput: text,
	}
	var bestScore float64

	for _, intent := range intentOrder {
		for _, p := range intentPatterns[intent] {
			score := scorePattern(normalized, tokens, p)
			if score > bestScore {
				bestScore = score
				best.Intent = intent
			}
		}
	}

	if bestScore < confidenceFloor {
		return models.IntentResult{
			Intent:     models.IntentUnknown,
			Confidence: 0,
			RawInput:   text,
			Entities:   extractEntities(tokens),
		}
	}

	best.Confidence = bestScore
	best.Entities = extractEntities(tokens)
	best.NavigationTarget = navigationFor[best.Intent]
	return best
}

// normalizeUtterance lowercases, strips punctuation and collapses
// whitespace. Letters from any script survive; only symbols are dropped.
func normalizeUtterance(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range strings.ToLower(text) {
		switch {
		// IsMark keeps Devanagari vowel signs, which are combining marks
		// rather than letters.
		case unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r):
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		case r == '.' || r == ',':
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// scorePattern returns 1.0 for an exact phrase match, 0.8 for substring
// containment in either direction, and up to 0.6 for token overlap.
func scorePattern(normalized string, tokens []string, pattern string) float64 {
	p := normalizeUtterance(pattern)
	if p == "" || normalized == "" {
		return 0
	}
	if normalized == p {
		return scoreExact
	}
	if strings.Contains(normalized, p) || strings.Contains(p, normalized) {
		return scoreContainment
	}

	patTokens := strings.Fields(p)
	if len(patTokens) == 0 {
		return 0
	}
	matched := 0
	for _, pt := range patTokens {
		for _, ut := range tokens {
			if pt == ut {
				matched++
				break
			}
		}
	}
	return scoreOverlapMax * float64(matched) / float64(len(patTokens))
}

// extractEntities scans tokens for crop/stage synonyms and numeric values.
func extractEntities(tokens []string) models.IntentEntities {
	var e models.IntentEntities
	for _, tok := range tokens {
		if e.Crop == "" {
			if crop, ok := cropSynonyms[tok]; ok {
				e.Crop = crop
			}
		}
		if e.Stage == "" {
			if stage, ok := stageSynonyms[tok]; ok {
				e.Stage = stage
			}
		}
		if e.Value == nil {
			if v, err := strconv.ParseFloat(tok, 64); err == nil {
				val := v
				e.Value = &val
			}
		}
	}
	return e
}
