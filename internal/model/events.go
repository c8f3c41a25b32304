package model

import "time"

// Sentiment of a chat turn as supplied by the analyzer.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

// ChatTurn is one user message after signal extraction.
type ChatTurn struct {
	Topics           []string              `json:"topics,omitempty"`
	Sentiment        Sentiment             `json:"sentiment,omitempty"`
	Engagement       float64               `json:"engagement"`
	DimensionSignals map[Dimension]float64 `json:"dimension_signals,omitempty"`
	Timestamp        time.Time             `json:"timestamp"`
}

// TopicEngagement reports how strongly the user engaged with one or more topics.
type TopicEngagement struct {
	Topics          []string  `json:"topics"`
	EngagementScore float64   `json:"engagement_score"`
	Dismissed       bool      `json:"dismissed,omitempty"`
	Timestamp       time.Time `json:"timestamp"`
}

// VideoAction is what the user did with a recommended video.
type VideoAction string

const (
	VideoLike     VideoAction = "like"
	VideoDislike  VideoAction = "dislike"
	VideoSkip     VideoAction = "skip"
	VideoComplete VideoAction = "complete"
	VideoView     VideoAction = "view"
)

// ValidVideoActions are the allowed video interaction types.
var ValidVideoActions = map[VideoAction]bool{
	VideoLike:     true,
	VideoDislike:  true,
	VideoSkip:     true,
	VideoComplete: true,
	VideoView:     true,
}

// VideoInteraction is a user action on a video returned by the search collaborator.
type VideoInteraction struct {
	VideoID      string      `json:"video_id"`
	Title        string      `json:"title"`
	Channel      string      `json:"channel,omitempty"`
	Type         VideoAction `json:"type"`
	WatchSeconds float64     `json:"watch_seconds,omitempty"`
	TotalSeconds float64     `json:"total_seconds,omitempty"`
	Timestamp    time.Time   `json:"timestamp"`
}

// Interaction kinds, used in engagement records and the interaction log.
const (
	KindChat  = "chat"
	KindTopic = "topic"
	KindVideo = "video"
)

// EngagementRecord is a compact trace of one interaction kept on the profile
// for the recommendation mixer.
type EngagementRecord struct {
	Kind    string    `json:"kind"`
	Topics  []string  `json:"topics,omitempty"`
	Channel string    `json:"channel,omitempty"`
	Score   float64   `json:"score"`
	At      time.Time `json:"at"`
}
