package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rcliao/wellness-profile/internal/model"
	"github.com/rcliao/wellness-profile/internal/store"
)

type assessReq struct {
	Answers  model.Answers `json:"answers" binding:"required"`
	TypeCode string        `json:"type_code"`
}

// POST /v1/users/:id/assessment
func (s *Server) assess(c *gin.Context) {
	var req assessReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	rec, err := s.engine.Assess(c.Request.Context(), c.Param("id"), req.Answers, req.TypeCode)
	if err != nil {
		s.respondEngineError(c, "assess_failed", err)
		return
	}
	c.JSON(http.StatusCreated, rec)
}

// GET /v1/users/:id/profile
func (s *Server) getProfile(c *gin.Context) {
	p, err := s.engine.Profile(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.respondEngineError(c, "get_profile_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": p})
}

// DELETE /v1/users/:id/profile?all=true&hard=true
func (s *Server) deleteProfile(c *gin.Context) {
	var q struct {
		All  bool `form:"all"`
		Hard bool `form:"hard"`
	}
	if err := c.ShouldBindQuery(&q); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	err := s.engine.Forget(c.Request.Context(), store.RmProfileParams{
		UserID:      c.Param("id"),
		AllVersions: q.All,
		Hard:        q.Hard,
	})
	if err != nil {
		s.respondEngineError(c, "delete_profile_failed", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// POST /v1/users/:id/events/chat
func (s *Server) chatEvent(c *gin.Context) {
	var turn model.ChatTurn
	if err := c.ShouldBindJSON(&turn); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	up, err := s.engine.ApplyChatTurn(c.Request.Context(), c.Param("id"), turn)
	if err != nil {
		s.respondEngineError(c, "apply_failed", err)
		return
	}
	c.JSON(http.StatusOK, up)
}

// POST /v1/users/:id/events/topic
func (s *Server) topicEvent(c *gin.Context) {
	var ev model.TopicEngagement
	if err := c.ShouldBindJSON(&ev); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	up, err := s.engine.ApplyTopicEngagement(c.Request.Context(), c.Param("id"), ev)
	if err != nil {
		s.respondEngineError(c, "apply_failed", err)
		return
	}
	c.JSON(http.StatusOK, up)
}

// POST /v1/users/:id/events/video
func (s *Server) videoEvent(c *gin.Context) {
	var v model.VideoInteraction
	if err := c.ShouldBindJSON(&v); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	up, err := s.engine.ApplyVideoInteraction(c.Request.Context(), c.Param("id"), v)
	if err != nil {
		s.respondEngineError(c, "apply_failed", err)
		return
	}
	c.JSON(http.StatusOK, up)
}

// GET /v1/users/:id/recommendations
func (s *Server) recommendations(c *gin.Context) {
	plan, err := s.engine.Recommend(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.respondEngineError(c, "recommend_failed", err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

// GET /v1/users/:id/feed
func (s *Server) feed(c *gin.Context) {
	feed, err := s.engine.Feed(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.respondEngineError(c, "feed_failed", err)
		return
	}
	c.JSON(http.StatusOK, feed)
}

// GET /v1/users/:id/context
func (s *Server) sessionContext(c *gin.Context) {
	cc, err := s.engine.SessionContext(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.respondEngineError(c, "context_failed", err)
		return
	}
	c.JSON(http.StatusOK, cc)
}

// POST /v1/users/:id/sessions
func (s *Server) addSession(c *gin.Context) {
	var sum model.SessionSummary
	if err := c.ShouldBindJSON(&sum); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	sum.UserID = c.Param("id")
	saved, err := s.engine.AddSession(c.Request.Context(), sum)
	if err != nil {
		s.respondEngineError(c, "add_session_failed", err)
		return
	}
	c.JSON(http.StatusCreated, saved)
}
