package learner

import (
	"strings"

	"github.com/rcliao/wellness-profile/internal/model"
)

// ApplyTopicEngagement records how the user reacted to a set of topics.
// Strong reactions accumulate in the emerging buffer and weak ones or
// dismissals in the declining buffer; a full buffer flushes its oldest
// entries into primary interests or avoid topics.
func (l *Learner) ApplyTopicEngagement(p *model.Profile, ev model.TopicEngagement) *model.Profile {
	t := l.tuning
	out := begin(p)
	e := model.ClampFloat(ev.EngagementScore, 0, 10)
	topics := normalizeTopics(ev.Topics)

	for _, topic := range topics {
		switch {
		case ev.Dismissed || e <= t.LowEngagement:
			l.markDeclining(out, topic)
		case e >= t.HighEngagement:
			l.markEmerging(out, topic)
		}
	}

	boostWith := e
	if ev.Dismissed {
		boostWith = 0
	}
	cp := &out.ContentPreferences
	cp.TopicScores = DecayThenBoostMap(cp.TopicScores, topics, boostWith, t)
	out.Computed.EngagementLevel = engagementLevel(boostWith)

	return finish(out, model.KindTopic, ev.Timestamp)
}

// markEmerging moves topic toward primary interests. A strong reaction
// lifts the topic out of avoid topics right away.
func (l *Learner) markEmerging(p *model.Profile, topic string) {
	cp := &p.ContentPreferences
	cp.DecliningInterests = removeFold(cp.DecliningInterests, topic)
	cp.AvoidTopics = removeFold(cp.AvoidTopics, topic)
	if indexFold(cp.PrimaryInterests, topic) >= 0 || indexFold(cp.EmergingInterests, topic) >= 0 {
		return
	}
	cp.EmergingInterests = append(cp.EmergingInterests, topic)
	for len(cp.EmergingInterests) >= l.tuning.PromotionTrigger {
		n := l.tuning.PromotionCount
		flushed := append([]string(nil), cp.EmergingInterests[:n]...)
		cp.EmergingInterests = append([]string{}, cp.EmergingInterests[n:]...)
		cp.PrimaryInterests = prependFold(cp.PrimaryInterests, flushed, l.tuning.MaxPrimary)
		for _, f := range flushed {
			cp.AvoidTopics = removeFold(cp.AvoidTopics, f)
		}
	}
}

// markDeclining moves topic toward avoid topics.
func (l *Learner) markDeclining(p *model.Profile, topic string) {
	cp := &p.ContentPreferences
	cp.EmergingInterests = removeFold(cp.EmergingInterests, topic)
	if indexFold(cp.AvoidTopics, topic) >= 0 || indexFold(cp.DecliningInterests, topic) >= 0 {
		return
	}
	cp.DecliningInterests = append(cp.DecliningInterests, topic)
	for len(cp.DecliningInterests) >= l.tuning.PromotionTrigger {
		n := l.tuning.PromotionCount
		flushed := append([]string(nil), cp.DecliningInterests[:n]...)
		cp.DecliningInterests = append([]string{}, cp.DecliningInterests[n:]...)
		cp.AvoidTopics = prependFold(cp.AvoidTopics, flushed, l.tuning.MaxAvoid)
		for _, f := range flushed {
			cp.PrimaryInterests = removeFold(cp.PrimaryInterests, f)
		}
	}
}

// TopicRecord summarizes a topic engagement for the behavior history.
func TopicRecord(ev model.TopicEngagement) model.EngagementRecord {
	score := model.ClampFloat(ev.EngagementScore, 0, 10)
	if ev.Dismissed {
		score = 0
	}
	return model.EngagementRecord{
		Kind:   model.KindTopic,
		Topics: normalizeTopics(ev.Topics),
		Score:  score,
		At:     ev.Timestamp,
	}
}

func indexFold(list []string, s string) int {
	for i, v := range list {
		if strings.EqualFold(v, s) {
			return i
		}
	}
	return -1
}

func removeFold(list []string, s string) []string {
	out := make([]string, 0, len(list))
	for _, v := range list {
		if !strings.EqualFold(v, s) {
			out = append(out, v)
		}
	}
	return out
}

// prependFold puts head in front of list, dropping case-insensitive
// duplicates, and truncates to limit.
func prependFold(list, head []string, limit int) []string {
	out := make([]string, 0, len(list)+len(head))
	for _, v := range append(append([]string{}, head...), list...) {
		if indexFold(out, v) < 0 {
			out = append(out, v)
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
