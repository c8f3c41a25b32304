package recommend

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rcliao/wellness-profile/internal/model"
)

const (
	profileInterests  = 3
	profileFocusAreas = 2
	behaviorItems     = 5
	behaviorMinScore  = 7
	explorationCount  = 5
)

var interestTemplates = []string{"%s tutorial guide", "%s tips beginner"}

var focusPhrases = map[model.Dimension][]string{
	model.PositiveEmotion: {"uplifting feel good stories", "clean comedy clips"},
	model.Engagement:      {"learn a new skill in 10 minutes", "flow state activities"},
	model.Relationships:   {"how to deepen friendships", "building meaningful connections"},
	model.Meaning:         {"finding purpose in everyday life", "guided gratitude practice"},
	model.Accomplishment:  {"small wins goal setting", "habit building tips"},
}

var explorationPool = []string{
	"beginner watercolor painting",
	"urban gardening ideas",
	"science of happiness",
	"street food around the world",
	"bird watching for beginners",
	"learn basic sign language",
	"stargazing guide",
	"history mysteries explained",
	"easy home workouts",
	"improv comedy games",
	"documentary short films",
	"journaling prompts",
}

// QuerySet groups search queries by source.
type QuerySet struct {
	Profile     []string `json:"profile"`
	Behavior    []string `json:"behavior"`
	Exploration []string `json:"exploration"`
}

// Plan is the mixing ratio together with the queries it will be applied to.
type Plan struct {
	Ratio   Ratio    `json:"ratio"`
	Queries QuerySet `json:"queries"`
}

// Plan computes the ratio and queries for p.
func (m *Mixer) Plan(p *model.Profile) Plan {
	p = p.Clone().Normalize()
	b := p.Behavior
	return Plan{
		Ratio:   m.Ratio(b.TotalInteractions, b.ProfileAccuracy, b.ExplorationRate),
		Queries: m.GenerateQueries(p, b.RecentEngagements),
	}
}

// GenerateQueries expands the profile and recent behavior into search
// queries. Queries mentioning an avoid topic are dropped.
func (m *Mixer) GenerateQueries(p *model.Profile, recent []model.EngagementRecord) QuerySet {
	p = p.Clone().Normalize()
	cp := p.ContentPreferences
	limit := m.tuning.MaxQueries
	avoid := cp.AvoidTopics

	prof := newQueryList(limit, avoid)
	for i, interest := range cp.PrimaryInterests {
		if i == profileInterests {
			break
		}
		for _, tmpl := range interestTemplates {
			prof.add(fmt.Sprintf(tmpl, interest))
		}
	}
	for i, d := range p.WellnessProfile.FocusAreas {
		if i == profileFocusAreas {
			break
		}
		if topics := cp.DimensionTopicMap[d]; len(topics) > 0 {
			prof.add(topics[0] + " tips beginner")
		}
		if phrases := focusPhrases[d]; len(phrases) > 0 {
			prof.add(phrases[0])
		}
	}

	beh := newQueryList(min(limit, behaviorItems), avoid)
	for _, item := range behaviorSignals(recent) {
		beh.add(item)
	}

	exp := newQueryList(min(limit, explorationCount), avoid)
	offset := p.Behavior.TotalInteractions % len(explorationPool)
	for i := range explorationPool {
		exp.add(explorationPool[(offset+i)%len(explorationPool)])
	}

	return QuerySet{Profile: prof.items, Behavior: beh.items, Exploration: exp.items}
}

// behaviorSignals returns query strings for the strongest recent records,
// strongest first and newest first among equals.
func behaviorSignals(recent []model.EngagementRecord) []string {
	type scored struct {
		rec   model.EngagementRecord
		order int
	}
	var strong []scored
	for i, r := range recent {
		if r.Score > behaviorMinScore {
			strong = append(strong, scored{rec: r, order: i})
		}
	}
	sort.SliceStable(strong, func(i, j int) bool {
		if strong[i].rec.Score != strong[j].rec.Score {
			return strong[i].rec.Score > strong[j].rec.Score
		}
		return strong[i].order > strong[j].order
	})

	var out []string
	for _, s := range strong {
		for _, topic := range s.rec.Topics {
			out = append(out, "best "+topic+" videos")
		}
		if s.rec.Channel != "" {
			out = append(out, s.rec.Channel+" latest videos")
		}
	}
	return out
}

type queryList struct {
	limit int
	avoid []string
	items []string
}

func newQueryList(limit int, avoid []string) *queryList {
	return &queryList{limit: limit, avoid: avoid, items: []string{}}
}

func (q *queryList) add(s string) {
	s = strings.TrimSpace(s)
	if s == "" || len(q.items) >= q.limit {
		return
	}
	lower := strings.ToLower(s)
	for _, a := range q.avoid {
		if a != "" && strings.Contains(lower, strings.ToLower(a)) {
			return
		}
	}
	for _, existing := range q.items {
		if strings.EqualFold(existing, s) {
			return
		}
	}
	q.items = append(q.items, s)
}
