package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rcliao/wellness-profile/internal/learner"
	"github.com/rcliao/wellness-profile/internal/model"
	"github.com/rcliao/wellness-profile/internal/store"
)

// ApplyChatTurn folds one analyzed chat message into the user's profile.
func (e *Engine) ApplyChatTurn(ctx context.Context, userID string, turn model.ChatTurn) (*Update, error) {
	if turn.Timestamp.IsZero() {
		turn.Timestamp = e.now().UTC()
	}
	return e.apply(ctx, userID, learner.ChatRecord(turn), turn, func(p *model.Profile) *model.Profile {
		return e.learner.ApplyChatTurn(p, turn)
	})
}

// ApplyTopicEngagement folds explicit topic feedback into the user's profile.
func (e *Engine) ApplyTopicEngagement(ctx context.Context, userID string, ev model.TopicEngagement) (*Update, error) {
	if len(ev.Topics) == 0 {
		return nil, fmt.Errorf("%w: at least one topic is required", ErrInvalidInput)
	}
	if ev.Timestamp.IsZero() {
		ev.Timestamp = e.now().UTC()
	}
	return e.apply(ctx, userID, learner.TopicRecord(ev), ev, func(p *model.Profile) *model.Profile {
		return e.learner.ApplyTopicEngagement(p, ev)
	})
}

// ApplyVideoInteraction folds a video action into the user's profile.
func (e *Engine) ApplyVideoInteraction(ctx context.Context, userID string, v model.VideoInteraction) (*Update, error) {
	if !model.ValidVideoActions[v.Type] {
		return nil, fmt.Errorf("%w: video action %q", ErrInvalidInput, v.Type)
	}
	if v.Timestamp.IsZero() {
		v.Timestamp = e.now().UTC()
	}
	return e.apply(ctx, userID, e.learner.VideoRecord(v), v, func(p *model.Profile) *model.Profile {
		return e.learner.ApplyVideoInteraction(p, v)
	})
}

// apply runs one load, fold, observe, store cycle under the user's lock.
// A user without a stored profile starts from an empty one.
func (e *Engine) apply(ctx context.Context, userID string, rec model.EngagementRecord, payload any, fold func(*model.Profile) *model.Profile) (*Update, error) {
	userID, err := requireUser(userID)
	if err != nil {
		return nil, err
	}
	unlock := e.locks.lock(userID)
	defer unlock()

	before, err := e.load(ctx, userID)
	switch {
	case errors.Is(err, store.ErrNotFound):
		before = (&model.Profile{UserID: userID}).Normalize()
		e.log.Debug("no profile yet, starting empty", "user_id", userID)
	case err != nil:
		return nil, err
	}

	after := fold(before)
	after.UserID = userID
	after.Behavior = e.mixer.Observe(after.Behavior, rec, after.ContentPreferences.PrimaryInterests)

	saved, err := e.save(ctx, userID, after)
	if err != nil {
		return nil, err
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode %s event: %w", rec.Kind, err)
	}
	if _, err := e.store.LogInteraction(ctx, store.Interaction{
		UserID:    userID,
		Kind:      rec.Kind,
		Score:     rec.Score,
		Topics:    rec.Topics,
		Payload:   raw,
		CreatedAt: rec.At,
	}); err != nil {
		// The profile is already stored.
		e.metrics.StoreError("log_interaction")
		e.log.Warn("log interaction failed", "user_id", userID, "kind", rec.Kind, "error", err)
	}

	delta := learner.Diff(before, saved.Profile)
	e.metrics.Event(rec.Kind)
	e.metrics.Transitions(len(delta.Promoted), len(delta.Demoted))
	log := e.log.With("user_id", userID, "kind", rec.Kind, "version", saved.Version)
	if !delta.Empty() {
		log.Info("interests changed", "promoted", delta.Promoted, "demoted", delta.Demoted)
	} else {
		log.Debug("event applied", "score", rec.Score, "topics", rec.Topics)
	}
	return &Update{Record: saved, Delta: delta}, nil
}
