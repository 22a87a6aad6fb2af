package pipeline

import (
	"math/rand"
	"strings"
)

// reasoningModel reports whether model should carry a reasoning-token
// computation and summary: o1/o3/o4-prefixed models, models with an -o1/-o3
// suffix, and the gpt-5 family.
func reasoningModel(model string) bool {
	m := strings.ToLower(model)

	for _, prefix := range []string{"o1", "o3", "o4"} {
		if strings.HasPrefix(m, prefix) {
			return true
		}
	}

	if strings.Contains(m, "-o1") || strings.Contains(m, "-o3") {
		return true
	}

	return strings.HasPrefix(m, "gpt-5")
}

// effortMultiplier maps a reasoning.effort value to the reasoning-token
// multiplier; unrecognized/empty values default to medium.
func effortMultiplier(effort string) float64 {
	switch strings.ToLower(effort) {
	case "none":
		return 0.0
	case "minimal":
		return 0.5
	case "low":
		return 1.5
	case "high":
		return 6.0
	case "xhigh":
		return 10.0
	default:
		return 3.0
	}
}

func reasoningTokens(completionTokens int, effort string) int {
	m := effortMultiplier(effort)
	return int(float64(completionTokens)*m + 0.5)
}

var summaryPhrases = []string{
	"considering the request", "weighing the available options", "checking for edge cases",
	"working through the constraints", "evaluating the best approach", "breaking the problem into steps",
	"double-checking the assumptions", "narrowing down the possibilities", "mapping out the solution",
	"reviewing the relevant details", "comparing alternative approaches", "verifying the expected outcome",
}

var summaryFiller = []string{
	"this", "requires", "careful", "thought", "about", "the", "structure", "and", "intent",
	"of", "the", "input", "before", "settling", "on", "a", "final", "response", "that",
	"addresses", "every", "part", "of", "what", "was", "asked",
}

// summaryWordTarget returns the minimum word count for a reasoning summary
// at the given detail mode and reasoning-token count.
func summaryWordTarget(mode string, reasoningTokens int) int {
	var ratio, min float64

	switch strings.ToLower(mode) {
	case "concise":
		ratio, min = 0.05, 8
	case "detailed":
		ratio, min = 0.15, 15
	default: // auto
		ratio, min = 0.10, 10
	}

	target := float64(reasoningTokens) * ratio
	if target < min {
		target = min
	}

	return int(target)
}

// generateSummary produces a plausible reasoning summary string: a phrase
// drawn from summaryPhrases followed by filler words until the target word
// count is reached, capitalized and period-terminated.
func generateSummary(mode string, reasoningTokens int) string {
	target := summaryWordTarget(mode, reasoningTokens)

	words := strings.Fields(summaryPhrases[rand.Intn(len(summaryPhrases))])

	for len(words) < target {
		words = append(words, summaryFiller[rand.Intn(len(summaryFiller))])
	}

	if len(words) == 0 {
		return ""
	}

	words[0] = strings.ToUpper(words[0][:1]) + words[0][1:]

	return strings.Join(words, " ") + "."
}
