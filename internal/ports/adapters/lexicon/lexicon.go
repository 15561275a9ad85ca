// Package lexicon is a deterministic stand-in for the sentiment-analysis
// collaborator. A real deployment swaps in a model-backed implementation of
// the same port; the pipeline only consumes label + confidence.
package lexicon

import (
	"strings"

	"github.com/vcutpro/vcut/internal/ports"
	"github.com/vcutpro/vcut/internal/types"
)

var (
	positiveWords = []string{
		"great", "love", "amazing", "best", "excellent", "awesome",
		"fantastic", "wonderful", "perfect", "success", "win", "happy",
	}
	negativeWords = []string{
		"bad", "hate", "terrible", "worst", "awful", "horrible",
		"fail", "failure", "problem", "wrong", "sad", "angry",
	}
)

type Analyzer struct{}

func New() *Analyzer { return &Analyzer{} }

// Analyze counts lexicon hits and maps the dominant polarity onto a label
// with a confidence scaled by how lopsided the counts are.
func (a *Analyzer) Analyze(text string) types.Sentiment {
	lower := strings.ToLower(text)
	var pos, neg int
	for _, w := range positiveWords {
		pos += strings.Count(lower, w)
	}
	for _, w := range negativeWords {
		neg += strings.Count(lower, w)
	}

	total := pos + neg
	if total == 0 {
		return types.Sentiment{Label: "neutral", Confidence: 0.5}
	}
	if pos >= neg {
		return types.Sentiment{Label: types.SentimentPositive, Confidence: scale(pos, total)}
	}
	return types.Sentiment{Label: "negative", Confidence: scale(neg, total)}
}

// scale maps a hit ratio into [0.6, 0.95]: one weak hit is a lean, a
// unanimous count is a confident call, never certainty.
func scale(hits, total int) float64 {
	ratio := float64(hits) / float64(total)
	conf := 0.6 + 0.35*ratio
	if conf > 0.95 {
		conf = 0.95
	}
	return conf
}

var _ ports.SentimentAnalyzer = (*Analyzer)(nil)
