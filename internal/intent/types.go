package intent

// Intent is a fixed chat query label.
type Intent string

const (
	Greeting     Intent = "greeting"
	BestDeal     Intent = "best_deal"
	Shipping     Intent = "shipping"
	HowToUse     Intent = "how_to_use"
	Student      Intent = "student"
	Stacking     Intent = "stacking"
	Expiry       Intent = "expiry"
	SpecificCode Intent = "specific_code"
	Availability Intent = "availability"
	NotWorking   Intent = "not_working"
	GeneralHelp  Intent = "general_help"
)

// All lists intents in declaration order, which is also evaluation order.
var All = []Intent{
	Greeting, BestDeal, Shipping, HowToUse, Student, Stacking,
	Expiry, SpecificCode, Availability, NotWorking, GeneralHelp,
}

// Valid reports whether s names a known intent.
func Valid(s string) bool {
	for _, i := range All {
		if string(i) == s {
			return true
		}
	}
	return false
}

// How a classification was reached.
const (
	SourcePattern       = "pattern"
	SourceKeyword       = "keyword"
	SourceInterrogative = "interrogative"
	SourceFallback      = "fallback"
)

// Classification is the detailed result of Classify.
type Classification struct {
	Intent  Intent
	Source  string
	Score   int      // keyword score; 0 for pattern matches
	Signals []string // matched pattern or keywords
}
