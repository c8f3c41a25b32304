// Package model defines the personalization profile, assessment answers,
// interaction events and session summaries.
package model

import (
	"strings"
	"time"
)

// SchemaVersion is stamped on every normalized profile.
const SchemaVersion = 2

// TypeCode is a 4-letter personality tag, one letter per axis.
type TypeCode string

// Has reports whether the code contains letter (case-insensitive).
func (t TypeCode) Has(letter string) bool {
	return letter != "" && strings.Contains(strings.ToUpper(string(t)), strings.ToUpper(letter))
}

// CommunicationStyle is how the companion should talk to the user.
type CommunicationStyle string

const (
	StyleSupportive CommunicationStyle = "supportive"
	StyleDirect     CommunicationStyle = "direct"
	StyleAnalytical CommunicationStyle = "analytical"
	StylePlayful    CommunicationStyle = "playful"
)

// ValidStyles are the allowed communication styles.
var ValidStyles = map[CommunicationStyle]bool{
	StyleSupportive: true,
	StyleDirect:     true,
	StyleAnalytical: true,
	StylePlayful:    true,
}

// Level is a three-bucket categorical value.
type Level string

const (
	LevelLow    Level = "low"
	LevelMedium Level = "medium"
	LevelHigh   Level = "high"
)

// SocialPreference is whether the user recharges alone or with others.
type SocialPreference string

const (
	SocialSolo   SocialPreference = "solo"
	SocialSocial SocialPreference = "social"
	SocialMixed  SocialPreference = "mixed"
)

// TopicScore is one entry of a ranked topic list.
type TopicScore struct {
	Topic     string    `json:"topic"`
	Dimension Dimension `json:"dimension,omitempty"`
	Score     float64   `json:"score"`
}

// ChatPersona drives the chat assistant's tone.
type ChatPersona struct {
	TypeCode           TypeCode           `json:"type_code"`
	CommunicationStyle CommunicationStyle `json:"communication_style"`
	PreferredTopics    []TopicScore       `json:"preferred_topics"`
	EmotionalSupport   Level              `json:"emotional_support"`
}

// ContentPreferences holds interest tiers and topic scores.
type ContentPreferences struct {
	DimensionTopicMap  map[Dimension][]string `json:"dimension_topic_map"`
	PrimaryInterests   []string               `json:"primary_interests"`
	AvoidTopics        []string               `json:"avoid_topics"`
	EmergingInterests  []string               `json:"emerging_interests"`
	DecliningInterests []string               `json:"declining_interests"`
	TopicScores        map[string]float64     `json:"topic_scores"`
}

// WellnessProfile is the evolving score picture.
type WellnessProfile struct {
	CurrentScores    Scores           `json:"current_scores"`
	FocusAreas       []Dimension      `json:"focus_areas"`
	Strengths        []Dimension      `json:"strengths"`
	ChallengeLevel   Level            `json:"challenge_level"`
	SocialPreference SocialPreference `json:"social_preference"`
}

// ServicePersonalization is computed once at assessment time.
type ServicePersonalization struct {
	ServiceTypes       []string `json:"service_types"`
	DeliveryPreference string   `json:"delivery_preference"`
	SessionLength      string   `json:"session_length"`
	Frequency          string   `json:"frequency"`
	AvoidancePatterns  []string `json:"avoidance_patterns"`
}

// ChatMetrics are running chat counters.
type ChatMetrics struct {
	TotalMessages        int          `json:"total_messages"`
	PositiveInteractions int          `json:"positive_interactions"`
	EngagementStreak     int          `json:"engagement_streak"`
	PreferredTopics      []TopicScore `json:"preferred_topics"`
	LastActiveTime       time.Time    `json:"last_active_time"`
}

// ActivityTracking groups interaction counters.
type ActivityTracking struct {
	ChatMetrics ChatMetrics `json:"chat_metrics"`
}

// Behavior is the state the recommendation mixer reads: how much evidence
// exists and how well the stated profile predicts it.
type Behavior struct {
	TotalInteractions int                `json:"total_interactions"`
	ProfileAccuracy   float64            `json:"profile_accuracy"`
	ExplorationRate   float64            `json:"exploration_rate"`
	RecentEngagements []EngagementRecord `json:"recent_engagements"`
}

// Computed is a derived read-model refreshed on every update.
type Computed struct {
	OverallHappiness   float64 `json:"overall_happiness"`
	EngagementLevel    Level   `json:"engagement_level"`
	LastEngagementType string  `json:"last_engagement_type,omitempty"`
}

// Profile is the personalization profile owned by a single user.
type Profile struct {
	UserID                 string                 `json:"user_id"`
	ChatPersona            ChatPersona            `json:"chat_persona"`
	ContentPreferences     ContentPreferences     `json:"content_preferences"`
	WellnessProfile        WellnessProfile        `json:"wellness_profile"`
	ServicePersonalization ServicePersonalization `json:"service_personalization"`
	ActivityTracking       ActivityTracking       `json:"activity_tracking"`
	Behavior               Behavior               `json:"behavior"`
	Computed               Computed               `json:"computed"`
	UpdateCount            int                    `json:"update_count"`
	LastUpdated            time.Time              `json:"last_updated"`
	Version                int                    `json:"version"`
}

// Defaults applied by Normalize when the stored record lacks them.
const (
	DefaultProfileAccuracy = 0.5
	DefaultExplorationRate = 0.2
	neutralScore           = 5
)

// Normalize fills every missing nested field with its default, clamps
// every score and recomputes the fields derived from the current scores, so
// the rest of the engine can assume a total structure.
// It returns p for chaining. A nil receiver yields a fresh profile.
func (p *Profile) Normalize() *Profile {
	if p == nil {
		p = &Profile{}
	}
	cp := &p.ContentPreferences
	if cp.DimensionTopicMap == nil {
		cp.DimensionTopicMap = map[Dimension][]string{}
	}
	if cp.TopicScores == nil {
		cp.TopicScores = map[string]float64{}
	}
	for k, v := range cp.TopicScores {
		cp.TopicScores[k] = ClampFloat(v, 0, 10)
	}
	cp.PrimaryInterests = nonNil(cp.PrimaryInterests)
	cp.AvoidTopics = nonNil(cp.AvoidTopics)
	cp.EmergingInterests = nonNil(cp.EmergingInterests)
	cp.DecliningInterests = nonNil(cp.DecliningInterests)

	if p.ChatPersona.PreferredTopics == nil {
		p.ChatPersona.PreferredTopics = []TopicScore{}
	}
	if !ValidStyles[p.ChatPersona.CommunicationStyle] {
		p.ChatPersona.CommunicationStyle = StyleSupportive
	}
	if p.ChatPersona.EmotionalSupport == "" {
		p.ChatPersona.EmotionalSupport = LevelMedium
	}

	cm := &p.ActivityTracking.ChatMetrics
	if cm.PreferredTopics == nil {
		cm.PreferredTopics = []TopicScore{}
	}
	clampTopics(cm.PreferredTopics)
	clampTopics(p.ChatPersona.PreferredTopics)

	wp := &p.WellnessProfile
	if wp.CurrentScores.IsZero() {
		wp.CurrentScores = Scores{neutralScore, neutralScore, neutralScore, neutralScore, neutralScore}
	}
	wp.CurrentScores.Clamp(1, 10)
	wp.FocusAreas, wp.Strengths = wp.CurrentScores.FocusAndStrengths()
	if wp.ChallengeLevel == "" {
		wp.ChallengeLevel = LevelMedium
	}
	if wp.SocialPreference == "" {
		wp.SocialPreference = SocialMixed
	}

	sp := &p.ServicePersonalization
	sp.ServiceTypes = nonNil(sp.ServiceTypes)
	sp.AvoidancePatterns = nonNil(sp.AvoidancePatterns)

	b := &p.Behavior
	if b.RecentEngagements == nil {
		b.RecentEngagements = []EngagementRecord{}
	}
	if b.ProfileAccuracy == 0 {
		b.ProfileAccuracy = DefaultProfileAccuracy
	}
	if b.ExplorationRate == 0 {
		b.ExplorationRate = DefaultExplorationRate
	}
	b.ProfileAccuracy = ClampFloat(b.ProfileAccuracy, 0, 1)
	b.ExplorationRate = ClampFloat(b.ExplorationRate, 0, 1)

	p.Computed.OverallHappiness = wp.CurrentScores.Mean()
	if p.Computed.EngagementLevel == "" {
		p.Computed.EngagementLevel = LevelMedium
	}
	p.Version = SchemaVersion
	return p
}

// RefreshDerived recomputes focus areas, strengths and overall happiness
// from the current scores.
func (p *Profile) RefreshDerived() {
	wp := &p.WellnessProfile
	wp.CurrentScores.Clamp(1, 10)
	wp.FocusAreas, wp.Strengths = wp.CurrentScores.FocusAndStrengths()
	p.Computed.OverallHappiness = wp.CurrentScores.Mean()
}

// Clone returns a deep copy of p.
func (p *Profile) Clone() *Profile {
	if p == nil {
		return nil
	}
	c := *p
	c.ChatPersona.PreferredTopics = cloneTopics(p.ChatPersona.PreferredTopics)

	cp := p.ContentPreferences
	c.ContentPreferences = ContentPreferences{
		PrimaryInterests:   cloneStrings(cp.PrimaryInterests),
		AvoidTopics:        cloneStrings(cp.AvoidTopics),
		EmergingInterests:  cloneStrings(cp.EmergingInterests),
		DecliningInterests: cloneStrings(cp.DecliningInterests),
	}
	if cp.DimensionTopicMap != nil {
		c.ContentPreferences.DimensionTopicMap = make(map[Dimension][]string, len(cp.DimensionTopicMap))
		for d, topics := range cp.DimensionTopicMap {
			c.ContentPreferences.DimensionTopicMap[d] = cloneStrings(topics)
		}
	}
	if cp.TopicScores != nil {
		c.ContentPreferences.TopicScores = make(map[string]float64, len(cp.TopicScores))
		for k, v := range cp.TopicScores {
			c.ContentPreferences.TopicScores[k] = v
		}
	}

	c.WellnessProfile.FocusAreas = append([]Dimension(nil), p.WellnessProfile.FocusAreas...)
	c.WellnessProfile.Strengths = append([]Dimension(nil), p.WellnessProfile.Strengths...)
	c.ServicePersonalization.ServiceTypes = cloneStrings(p.ServicePersonalization.ServiceTypes)
	c.ServicePersonalization.AvoidancePatterns = cloneStrings(p.ServicePersonalization.AvoidancePatterns)
	c.ActivityTracking.ChatMetrics.PreferredTopics = cloneTopics(p.ActivityTracking.ChatMetrics.PreferredTopics)

	if p.Behavior.RecentEngagements != nil {
		recs := make([]EngagementRecord, len(p.Behavior.RecentEngagements))
		for i, r := range p.Behavior.RecentEngagements {
			r.Topics = cloneStrings(r.Topics)
			recs[i] = r
		}
		c.Behavior.RecentEngagements = recs
	}
	return &c
}

func clampTopics(list []TopicScore) {
	for i := range list {
		list[i].Score = ClampFloat(list[i].Score, 0, 10)
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return append([]string{}, s...)
}

func cloneTopics(s []TopicScore) []TopicScore {
	if s == nil {
		return nil
	}
	return append([]TopicScore{}, s...)
}
