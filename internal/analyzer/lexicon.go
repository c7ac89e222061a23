package analyzer

import "github.com/speakeasy-labs/fluency-service/internal/domain"

// Word lists driving the lexical, pronunciation, disfluency and
// communicative analyzers. Entries are matched case-insensitively on
// word boundaries.

// regionalExpressions maps each scenario to the Catalan expressions a
// speaker practicing it is expected to use.
var regionalExpressions = map[domain.Scenario][]string{
	domain.ScenarioGreetings: {"ei", "apa", "home", "buenas", "bon dia", "bona tarda"},
	domain.ScenarioFarewells: {"apa", "adeu", "a reveure", "fins ara", "passi-ho be"},
	domain.ScenarioFamily:    {"nena", "nen", "avi", "iaia", "mama", "papa"},
	domain.ScenarioEmotions:  {"flipar", "molar", "estar rallat", "ostres", "collons"},
	domain.ScenarioPlans:     {"apa va", "va", "fem", "anem", "vinga"},
	domain.ScenarioRequests:  {"si us plau", "home", "escolta", "mira", "escolti"},
	domain.ScenarioApologies: {"perdona", "ho sento", "em sap greu", "disculpa"},
	domain.ScenarioOpinions:  {"trobo que", "em sembla", "la veritat", "ostres"},
	domain.ScenarioSmallTalk: {"ei", "vinga", "home", "va be", "que tal"},
}

// allRegionalExpressions returns the union of every scenario's lexicon.
func allRegionalExpressions() []string {
	seen := map[string]bool{}
	var out []string
	for _, sc := range domain.Scenarios {
		for _, expr := range regionalExpressions[sc] {
			if !seen[expr] {
				seen[expr] = true
				out = append(out, expr)
			}
		}
	}
	return out
}

var spanishSlang = map[string][]string{
	"common":       {"tio", "tia", "mola", "guay", "curro", "pasta", "flipar", "vale"},
	"intensifiers": {"hostia", "joder", "cono", "ostras"},
	"fillers":      {"pues", "bueno", "hombre", "mujer", "vamos"},
}

var discourseMarkers = map[string][]string{
	"connectors":  {"bueno", "pues", "entonces", "asi que", "por eso"},
	"hedges":      {"creo que", "me parece", "digamos", "en cierto modo"},
	"emphatics":   {"la verdad", "en serio", "de verdad", "sin duda"},
	"turn_taking": {"mira", "oye", "escucha", "sabes"},
}

var filledPauseWords = map[string][]string{
	"spanish": {"eh", "um", "ah", "este", "esto", "pues", "bueno"},
	"catalan": {"eh", "mmm", "doncs", "o sigui"},
}

// targetRates gives the acceptable words-per-minute band per claimed
// level. The band tightens as proficiency rises.
var targetRates = map[domain.Level][2]float64{
	domain.LevelA1: {80, 120},
	domain.LevelA2: {100, 140},
	domain.LevelB1: {120, 160},
	domain.LevelB2: {140, 180},
	domain.LevelC1: {150, 190},
	domain.LevelC2: {160, 200},
}

// scenarioEmotions lists the emotions that sound congruent in each
// scenario. The sentinel "varied" accepts anything.
var scenarioEmotions = map[domain.Scenario][]string{
	domain.ScenarioGreetings: {"neutral", "happy", "excited"},
	domain.ScenarioFarewells: {"neutral", "sad", "warm"},
	domain.ScenarioFamily:    {"warm", "nostalgic", "neutral"},
	domain.ScenarioEmotions:  {"varied"},
	domain.ScenarioPlans:     {"neutral", "excited", "hopeful"},
	domain.ScenarioRequests:  {"polite", "neutral"},
	domain.ScenarioApologies: {"neutral", "sad"},
	domain.ScenarioOpinions:  {"neutral", "happy"},
	domain.ScenarioSmallTalk: {"neutral", "happy", "excited"},
}

type register string

const (
	registerFlexible register = "flexible"
	registerPolite   register = "polite"
	registerInformal register = "informal"
)

var scenarioRegister = map[domain.Scenario]register{
	domain.ScenarioGreetings: registerFlexible,
	domain.ScenarioFarewells: registerFlexible,
	domain.ScenarioFamily:    registerInformal,
	domain.ScenarioEmotions:  registerInformal,
	domain.ScenarioPlans:     registerFlexible,
	domain.ScenarioRequests:  registerPolite,
	domain.ScenarioApologies: registerPolite,
	domain.ScenarioOpinions:  registerFlexible,
	domain.ScenarioSmallTalk: registerInformal,
}

var formalMarkers = [][]string{
	{"usted", "ustedes"},
	{"podría", "sería", "quisiera", "desearía"},
	{"disculpe", "perdone", "con su permiso", "le agradezco"},
	{"buenos días", "buenas tardes", "buenas noches"},
}

var informalMarkers = [][]string{
	{"tú", "vosotros"},
	{"puedes", "quieres", "mola", "flipas"},
	{"oye", "mira", "tío", "tía", "colega", "chaval"},
	{"hola", "qué tal", "qué pasa", "hey"},
	{"nen", "nena", "home", "ostres", "vinga"},
}
