package models

// Intent is the classified purpose of a user utterance, drawn from a fixed
// enumeration. Classification is total: every utterance maps to exactly one
// intent, with IntentChat as the fallback.
type Intent string

const (
	IntentImage      Intent = "image"
	IntentYouTube    Intent = "youtube"
	IntentWeather    Intent = "weather"
	IntentSearch     Intent = "search"
	IntentDictionary Intent = "dictionary"
	IntentCalculate  Intent = "calculate"
	IntentTranslate  Intent = "translate"
	IntentHealth     Intent = "health"
	IntentOpen       Intent = "open"
	IntentChat       Intent = "chat"
)

// AllIntents lists every member of the closed set.
func AllIntents() []Intent {
	return []Intent{
		IntentImage, IntentYouTube, IntentWeather, IntentSearch,
		IntentDictionary, IntentCalculate, IntentTranslate, IntentHealth,
		IntentOpen, IntentChat,
	}
}

func (i Intent) String() string { return string(i) }

// Valid reports whether i belongs to the closed set.
func (i Intent) Valid() bool {
	switch i {
	case IntentImage, IntentYouTube, IntentWeather, IntentSearch,
		IntentDictionary, IntentCalculate, IntentTranslate, IntentHealth,
		IntentOpen, IntentChat:
		return true
	}
	return false
}

// TemperatureUnit selects the unit system for weather lookups.
type TemperatureUnit string

const (
	UnitMetric   TemperatureUnit = "metric"
	UnitImperial TemperatureUnit = "imperial"
)
