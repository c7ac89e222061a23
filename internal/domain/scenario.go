package domain

// Scenario identifies the conversational situation being practiced.
type Scenario string

const (
	ScenarioGreetings Scenario = "greetings"
	ScenarioFarewells Scenario = "farewells"
	ScenarioFamily    Scenario = "family"
	ScenarioEmotions  Scenario = "emotions"
	ScenarioPlans     Scenario = "plans"
	ScenarioRequests  Scenario = "requests"
	ScenarioApologies Scenario = "apologies"
	ScenarioOpinions  Scenario = "opinions"
	ScenarioSmallTalk Scenario = "small_talk"
)

// Scenarios lists every supported scenario.
var Scenarios = []Scenario{
	ScenarioGreetings, ScenarioFarewells, ScenarioFamily,
	ScenarioEmotions, ScenarioPlans, ScenarioRequests,
	ScenarioApologies, ScenarioOpinions, ScenarioSmallTalk,
}

// Valid reports whether s is a known scenario.
func (s Scenario) Valid() bool {
	for _, known := range Scenarios {
		if s == known {
			return true
		}
	}
	return false
}
