package tagging

import (
	"strings"

	"legacybook/pkg/logger"
)

// Result is the outcome of classifying one memory text. Tags is never empty
// and TopTag is always a member of Tags.
type Result struct {
	Tags       []string       `json:"tags"`
	TopTag     string         `json:"top_tag"`
	Scores     map[string]int `json:"scores"`
	Confidence float64        `json:"confidence"`
	NeedsReview bool          `json:"needs_review"`
	// MinScore is the length-scaled threshold (1 below 20 tokens, 2 below 40,
	// 3 otherwise). Reported for observability; it does not gate acceptance.
	MinScore int `json:"min_score"`
}

const lowConfidenceThreshold = 0.15

// Classify maps free text onto the theme taxonomy. It is deterministic,
// stateless, and fail-open: it never returns an error and never rejects.
// Any internal panic degrades to the fallback result.
func Classify(text string) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			if l := logger.GetGlobalLogger(); l != nil {
				l.Errorf("tagging panicked, using fallback: %v", r)
			}
			res = fallbackResult()
		}
	}()

	normalized := strings.TrimSpace(strings.ToLower(text))
	words := strings.Fields(normalized)
	tokenCount := len(words)

	tokens := make(map[string]struct{}, tokenCount)
	for _, w := range words {
		tokens[w] = struct{}{}
	}

	res = Result{
		Scores:   map[string]int{},
		MinScore: minScoreFor(tokenCount),
	}

	topScore := 0
	for _, cat := range taxonomy {
		phraseMatches := 0
		for _, phrase := range cat.Phrases {
			if strings.Contains(normalized, phrase) {
				phraseMatches++
			}
		}

		keywordMatches := 0
		for _, keyword := range cat.Keywords {
			if _, ok := tokens[keyword]; ok || strings.Contains(normalized, keyword) {
				keywordMatches++
			}
		}

		// Phrases weigh double; the raw score maps onto a 1..5 band.
		rawScore := phraseMatches*2 + keywordMatches
		if rawScore == 0 {
			continue
		}
		score := rawScore + 1
		if score > 5 {
			score = 5
		}
		res.Tags = append(res.Tags, cat.ID)
		res.Scores[cat.ID] = score
		if score > topScore {
			topScore = score
			res.TopTag = cat.ID
		}
	}

	if res.TopTag == "" || len(res.Tags) == 0 {
		res.TopTag = FallbackTag
		res.Tags = append(res.Tags, FallbackTag)
		res.Scores[FallbackTag] = 1
		res.NeedsReview = true
	}

	res.Confidence = float64(topScore) / float64(tokenCount+3)
	if res.Confidence < lowConfidenceThreshold && !res.NeedsReview {
		res.NeedsReview = true
	}

	return res
}

func minScoreFor(tokenCount int) int {
	switch {
	case tokenCount < 20:
		return 1
	case tokenCount < 40:
		return 2
	default:
		return 3
	}
}

func fallbackResult() Result {
	return Result{
		Tags:        []string{FallbackTag},
		TopTag:      FallbackTag,
		Scores:      map[string]int{FallbackTag: 1},
		Confidence:  0,
		NeedsReview: true,
		MinScore:    1,
	}
}
