package types

// Transcript is the structured output of the transcription collaborator.
type Transcript struct {
	Text     string              `json:"text"`
	Language string              `json:"language,omitempty"`
	Segments []TranscriptSegment `json:"segments"`
}

// TranscriptSegment is one timed span of transcribed speech. Segments are
// non-overlapping and ascending by Start.
type TranscriptSegment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Sentiment is the label + confidence pair returned by the sentiment
// collaborator for one text span. Confidence is in [0,1].
type Sentiment struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

const SentimentPositive = "positive"

// SceneChange marks an abrupt visual cut, ordered ascending by Timestamp.
type SceneChange struct {
	Timestamp float64 `json:"timestamp"`
	Intensity float64 `json:"intensity"`
}

// SilenceInterval is a detected silent span longer than one second.
// Intervals are non-overlapping and ascending by Start.
type SilenceInterval struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// ContentSignals bundles everything the analysis collaborators produced for
// one video. Any field may be empty. Sentiments is parallel to
// Transcript.Segments when present.
type ContentSignals struct {
	Transcript Transcript        `json:"transcript"`
	Sentiments []Sentiment       `json:"sentiments,omitempty"`
	Scenes     []SceneChange     `json:"scenes,omitempty"`
	Silences   []SilenceInterval `json:"silences,omitempty"`
}

// Provenance values record which scorer produced a candidate, so a manifest
// can be honest about whether real content analysis backed it.
const (
	ProvenanceHeuristic = "heuristic"
	ProvenanceContent   = "content"
)

// Candidate is a proposed clip window before boundary refinement. Start and
// Duration are seconds; Start+Duration may still exceed the video duration
// at this point.
type Candidate struct {
	Start       float64
	Duration    float64
	Score       float64
	Title       string
	Description string
	Platform    string
	Provenance  string
}

// Refined is a candidate whose boundaries have been corrected: duration is
// within the configured clip bounds and the window fits inside the video.
type Refined struct {
	Candidate
}

// ClipResult describes one successfully rendered clip. Write-once: the
// pipeline creates it and nothing mutates it afterwards.
type ClipResult struct {
	ID            string  `json:"id"`
	Filename      string  `json:"filename"`
	FilePath      string  `json:"file_path"`
	StartTime     float64 `json:"start_time"`
	Duration      float64 `json:"duration"`
	Score         float64 `json:"score"`
	Title         string  `json:"title"`
	Description   string  `json:"description"`
	Platform      string  `json:"platform"`
	Provenance    string  `json:"provenance"`
	FileSizeBytes int64   `json:"file_size_bytes"`
}

// Manifest is the terminal artifact of one pipeline run: rendered clips
// ordered by score descending, ties broken by ascending start time. An empty
// Clips slice is a valid completed run.
type Manifest struct {
	Input string       `json:"input"`
	Clips []ClipResult `json:"clips"`
}
