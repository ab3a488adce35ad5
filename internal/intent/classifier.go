// Package intent classifies chat queries into a fixed set of labels.
//
// Patterns take absolute priority: the first intent (in declaration order)
// with a matching pattern wins. Without a pattern hit, intents are scored by
// the total length of their keywords found in the query, and the strictly
// highest score wins. Queries that match nothing fall back to GeneralHelp.
package intent

import (
	"regexp"
	"strings"
)

var interrogative = regexp.MustCompile(`(?i)^(what|where|when|why|who|how|is|are|can|do|does)\b`)

// Classify returns the intent label for query. It is a pure function of query.
func Classify(query string) Intent {
	return ClassifyDetailed(query).Intent
}

// ClassifyDetailed is Classify with the matching signals attached.
func ClassifyDetailed(query string) Classification {
	for _, r := range rules {
		for _, p := range r.patterns {
			if p.MatchString(query) {
				return Classification{
					Intent:  r.intent,
					Source:  SourcePattern,
					Signals: []string{p.String()},
				}
			}
		}
	}

	lower := strings.ToLower(query)
	best := GeneralHelp
	bestScore := 0
	var bestSignals []string

	for _, r := range rules {
		score := 0
		var signals []string
		for _, kw := range r.keywords {
			if strings.Contains(lower, kw) {
				score += len(kw)
				signals = append(signals, kw)
			}
		}
		if score > bestScore {
			best = r.intent
			bestScore = score
			bestSignals = signals
		}
	}

	if bestScore == 0 {
		if strings.Contains(query, "?") || interrogative.MatchString(strings.TrimSpace(query)) {
			return Classification{Intent: GeneralHelp, Source: SourceInterrogative}
		}
		return Classification{Intent: GeneralHelp, Source: SourceFallback}
	}

	return Classification{
		Intent:  best,
		Source:  SourceKeyword,
		Score:   bestScore,
		Signals: bestSignals,
	}
}
