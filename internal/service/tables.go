package service

import "krishimitra/internal/models"

// Static reference tables. Loaded once, never mutated. Unknown keys always
// resolve to the fallback rows so every lookup is total.

// cropCoefficients holds per-crop Kc multipliers per growth phase.
var cropCoefficients = map[string]models.CropCoefficients{
	models.CropWheat:     {Initial: 0.4, Mid: 1.15, End: 0.4},
	models.CropRice:      {Initial: 1.05, Mid: 1.2, End: 0.9},
	models.CropCotton:    {Initial: 0.35, Mid: 1.18, End: 0.6},
	models.CropSugarcane: {Initial: 0.4, Mid: 1.25, End: 0.75},
	models.CropMaize:     {Initial: 0.3, Mid: 1.2, End: 0.5},
}

var defaultCoefficients = models.CropCoefficients{Initial: 0.4, Mid: 1.0, End: 0.5}

// optimalMoisture holds the per-crop soil-moisture window in percent.
var optimalMoisture = map[string]models.MoistureBand{
	models.CropWheat:     {MinPct: 40, MaxPct: 70, CriticalLowPct: 25},
	models.CropRice:      {MinPct: 60, MaxPct: 85, CriticalLowPct: 40},
	models.CropCotton:    {MinPct: 35, MaxPct: 65, CriticalLowPct: 20},
	models.CropSugarcane: {MinPct: 50, MaxPct: 75, CriticalLowPct: 30},
	models.CropMaize:     {MinPct: 40, MaxPct: 70, CriticalLowPct: 25},
}

var defaultMoistureBand = models.MoistureBand{MinPct: 40, MaxPct: 70, CriticalLowPct: 25}

// moistureBandFor returns the optimal band for a crop, defaulting for
// unknown types.
func moistureBandFor(cropType string) models.MoistureBand {
	if band, ok := optimalMoisture[cropType]; ok {
		return band
	}
	return defaultMoistureBand
}

// coefficientsFor returns Kc values for a crop, defaulting for unknown types.
func coefficientsFor(cropType string) models.CropCoefficients {
	if kc, ok := cropCoefficients[cropType]; ok {
		return kc
	}
	return defaultCoefficients
}

// kcFor resolves the coefficient for the crop's current phase: sowing maps
// to the initial Kc, harvesting to the end Kc, everything in between to the
// mid-season Kc. Unknown stages count as mid-season.
func kcFor(c models.CropProfile) float64 {
	kc := coefficientsFor(c.Type)
	switch c.Stage {
	case models.StageSowing:
		return kc.Initial
	case models.StageHarvesting:
		return kc.End
	default:
		return kc.Mid
	}
}

type fertilizerKey struct {
	crop  string
	stage string
}

// fertilizerTable maps (crop, stage) to a recommendation row.
var fertilizerTable = map[fertilizerKey]models.FertilizerAdvice{
	{models.CropWheat, models.StageSowing}: {
		Fertilizer: "DAP", Quantity: "50 kg/acre",
		Timing:      "At sowing, drilled below seed",
		Reason:      "Phosphorus drives early root growth",
		ReasonHindi: "फॉस्फोरस से जड़ों का शुरुआती विकास अच्छा होता है",
	},
	{models.CropWheat, models.StageVegetative}: {
		Fertilizer: "Urea", Quantity: "40 kg/acre",
		Timing:      "At first irrigation, 20-25 days after sowing",
		Reason:      "Nitrogen supports tillering and leaf growth",
		ReasonHindi: "नाइट्रोजन से कल्ले और पत्तियां बढ़ती हैं",
	},
	{models.CropWheat, models.StageFlowering}: {
		Fertilizer: "Urea (second split)", Quantity: "25 kg/acre",
		Timing:      "Before flowering with light irrigation",
		Reason:      "Late nitrogen improves grain filling",
		ReasonHindi: "देर से नाइट्रोजन देने से दाना अच्छा भरता है",
	},
	{models.CropWheat, models.StageHarvesting}: {
		Fertilizer: "None", Quantity: "0",
		Timing:      "No application at harvest",
		Reason:      "Fertilizer at harvest is wasted and delays drying",
		ReasonHindi: "कटाई पर खाद देना बेकार है",
	},
	{models.CropRice, models.StageSowing}: {
		Fertilizer: "DAP + Zinc Sulphate", Quantity: "50 kg + 10 kg/acre",
		Timing:      "At transplanting in puddled field",
		Reason:      "Phosphorus and zinc prevent early stunting in paddy",
		ReasonHindi: "फॉस्फोरस और जिंक से धान की शुरुआती बढ़त रुकती नहीं",
	},
	{models.CropRice, models.StageVegetative}: {
		Fertilizer: "Urea", Quantity: "35 kg/acre",
		Timing:      "At tillering, with standing water drained",
		Reason:      "Nitrogen maximizes tiller count",
		ReasonHindi: "नाइट्रोजन से कल्लों की संख्या बढ़ती है",
	},
	{models.CropRice, models.StageFlowering}: {
		Fertilizer: "MOP (Muriate of Potash)", Quantity: "20 kg/acre",
		Timing:      "At panicle initiation",
		Reason:      "Potassium strengthens stems and improves grain weight",
		ReasonHindi: "पोटाश से तना मजबूत और दाना वजनदार होता है",
	},
	{models.CropRice, models.StageHarvesting}: {
		Fertilizer: "None", Quantity: "0",
		Timing:      "No application at harvest",
		Reason:      "Field should dry out before harvest",
		ReasonHindi: "कटाई से पहले खेत सूखने दें",
	},
	{models.CropCotton, models.StageSowing}: {
		Fertilizer: "SSP", Quantity: "60 kg/acre",
		Timing:      "Basal dose at sowing",
		Reason:      "Sulphur and phosphorus aid boll development later",
		ReasonHindi: "सल्फर और फॉस्फोरस से आगे टिंडे अच्छे बनते हैं",
	},
	{models.CropCotton, models.StageFlowering}: {
		Fertilizer: "Urea + MOP", Quantity: "30 kg + 15 kg/acre",
		Timing:      "At square/flower formation",
		Reason:      "Balanced N and K reduce flower drop",
		ReasonHindi: "संतुलित खाद से फूल कम झड़ते हैं",
	},
	{models.CropMaize, models.StageVegetative}: {
		Fertilizer: "Urea", Quantity: "45 kg/acre",
		Timing:      "At knee-high stage",
		Reason:      "Nitrogen demand peaks before tasseling",
		ReasonHindi: "भुट्टा निकलने से पहले नाइट्रोजन की जरूरत सबसे ज्यादा होती है",
	},
	{models.CropSugarcane, models.StageVegetative}: {
		Fertilizer: "Urea", Quantity: "60 kg/acre",
		Timing:      "At tillering, earthed up",
		Reason:      "Nitrogen drives cane elongation",
		ReasonHindi: "नाइट्रोजन से गन्ना लंबा बढ़ता है",
	},
}

// fallbackFertilizer is returned for any (crop, stage) pair not in the
// table. Totality is a contract: lookups never fail.
var fallbackFertilizer = models.FertilizerAdvice{
	Fertilizer:  "Balanced NPK (10-26-26)",
	Quantity:    "40 kg/acre",
	Timing:      "Split across the season; consult local extension office",
	Reason:      "General-purpose dose when no crop-specific plan is available",
	ReasonHindi: "जब फसल-विशेष योजना न हो तो संतुलित NPK दें",
}

// cropSynonyms maps spoken crop names (Latin-transliterated, Devanagari,
// English) to canonical crop types for entity extraction.
var cropSynonyms = map[string]string{
	"wheat": models.CropWheat, "gehu": models.CropWheat, "gehun": models.CropWheat, "गेहूं": models.CropWheat, "गेहू": models.CropWheat,
	"rice": models.CropRice, "dhaan": models.CropRice, "dhan": models.CropRice, "chawal": models.CropRice, "धान": models.CropRice, "चावल": models.CropRice,
	"cotton": models.CropCotton, "kapas": models.CropCotton, "कपास": models.CropCotton,
	"sugarcane": models.CropSugarcane, "ganna": models.CropSugarcane, "गन्ना": models.CropSugarcane,
	"maize": models.CropMaize, "corn": models.CropMaize, "makka": models.CropMaize, "makai": models.CropMaize, "मक्का": models.CropMaize,
}

// stageSynonyms maps spoken stage names to canonical growth stages.
var stageSynonyms = map[string]string{
	"sowing": models.StageSowing, "buaai": models.StageSowing, "buwai": models.StageSowing, "बुआई": models.StageSowing,
	"vegetative": models.StageVegetative, "badhwar": models.StageVegetative, "बढ़वार": models.StageVegetative,
	"flowering": models.StageFlowering, "phool": models.StageFlowering, "फूल": models.StageFlowering,
	"harvesting": models.StageHarvesting, "katai": models.StageHarvesting, "कटाई": models.StageHarvesting,
}
