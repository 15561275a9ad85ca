package segments

import (
	"sort"
	"strings"
	"unicode"

	"github.com/vcutpro/vcut/internal/types"
)

// Impact-score weights for ranking transcript segments.
const (
	keywordWeight   = 10
	sentimentWeight = 15
	questionWeight  = 8
	digitWeight     = 5

	sentimentConfidenceFloor = 0.8

	// Window padding around a high-impact segment: a little lead-in before
	// the phrase and room for its payoff after.
	leadInSeconds  = 5.0
	payoffSeconds  = 25.0
)

// ContentScorer ranks transcript segments by impact and turns the top ones
// into candidate windows. Requires signals; returns nil without them.
type ContentScorer struct {
	targetClips int
	bounds      Bounds
	keywords    []string
}

func NewContentScorer(targetClips int, bounds Bounds, impactKeywords []string) *ContentScorer {
	lowered := make([]string, 0, len(impactKeywords))
	for _, kw := range impactKeywords {
		if kw = strings.ToLower(strings.TrimSpace(kw)); kw != "" {
			lowered = append(lowered, kw)
		}
	}
	return &ContentScorer{targetClips: targetClips, bounds: bounds, keywords: lowered}
}

// Score ranks transcript segments by ImpactScore, takes the top targetClips
// (ties broken by earlier start), and widens each into a clip window.
func (s *ContentScorer) Score(videoDuration float64, signals *types.ContentSignals) []types.Candidate {
	if signals == nil || len(signals.Transcript.Segments) == 0 {
		return nil
	}

	type ranked struct {
		seg    types.TranscriptSegment
		impact float64
	}
	rankedSegs := make([]ranked, 0, len(signals.Transcript.Segments))
	for i, seg := range signals.Transcript.Segments {
		var sentiment types.Sentiment
		if i < len(signals.Sentiments) {
			sentiment = signals.Sentiments[i]
		}
		rankedSegs = append(rankedSegs, ranked{seg: seg, impact: s.ImpactScore(seg.Text, sentiment)})
	}

	sort.SliceStable(rankedSegs, func(i, j int) bool {
		if rankedSegs[i].impact != rankedSegs[j].impact {
			return rankedSegs[i].impact > rankedSegs[j].impact
		}
		return rankedSegs[i].seg.Start < rankedSegs[j].seg.Start
	})

	n := s.targetClips
	if n > len(rankedSegs) {
		n = len(rankedSegs)
	}

	cands := make([]types.Candidate, 0, n)
	for i := 0; i < n; i++ {
		seg := rankedSegs[i].seg

		start := seg.Start - leadInSeconds
		if start < 0 {
			start = 0
		}
		end := seg.End + payoffSeconds
		if end-start > s.bounds.Max {
			end = start + s.bounds.Max
		}
		if end-start < s.bounds.Min {
			end = start + s.bounds.Min
		}

		cands = append(cands, types.Candidate{
			Start:       start,
			Duration:    end - start,
			Score:       rankedSegs[i].impact,
			Title:       "Highlight",
			Description: seg.Text,
			Provenance:  types.ProvenanceContent,
		})
	}
	return cands
}

// ImpactScore computes a segment's relevance: keywordWeight per occurrence
// of each impact keyword (case-insensitive substring), sentimentWeight for a
// confident positive sentiment, questionWeight for rhetorical questions and
// digitWeight for numbers or statistics.
func (s *ContentScorer) ImpactScore(text string, sentiment types.Sentiment) float64 {
	lower := strings.ToLower(text)

	score := 0.0
	for _, kw := range s.keywords {
		score += float64(strings.Count(lower, kw) * keywordWeight)
	}
	if sentiment.Label == types.SentimentPositive && sentiment.Confidence > sentimentConfidenceFloor {
		score += sentimentWeight
	}
	if strings.Contains(text, "?") {
		score += questionWeight
	}
	if strings.ContainsFunc(text, unicode.IsDigit) {
		score += digitWeight
	}
	return score
}

var _ Scorer = (*ContentScorer)(nil)
