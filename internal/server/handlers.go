package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/smartest/internal/dispatch"
	"github.com/abhisek/smartest/internal/grading"
	"github.com/abhisek/smartest/internal/problemgen"
	"github.com/abhisek/smartest/internal/similarity"
)

type gradeRequest struct {
	Payload *problemgen.Payload `json:"payload"`
	Answer  string              `json:"answer"`
}

type gradeResponse struct {
	grading.Result
	Solution problemgen.Solution `json:"solution"`
}

type askRequest struct {
	Question string `json:"question"`
	TopicID  string `json:"topic_id,omitempty"`
}

type chatResponse struct {
	dispatch.Reply
	SessionID string `json:"session_id"`
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// seedParam reads the optional seed query parameter.
func seedParam(c *gin.Context) (*uint64, error) {
	raw := c.Query("seed")
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return nil, &problemgen.ParamError{Param: "seed", Value: raw, Reason: "must be a non-negative integer", Err: err}
	}
	return &v, nil
}

func (s *Server) generate(domain problemgen.Domain) gin.HandlerFunc {
	return func(c *gin.Context) {
		seed, err := seedParam(c)
		if err != nil {
			respondDomainError(c, err)
			return
		}
		params := problemgen.Params{}
		for k, v := range c.Request.URL.Query() {
			if k != "seed" && len(v) > 0 {
				params[k] = v[0]
			}
		}
		p, err := s.deps.Registry.Generate(domain, params, seed)
		if err != nil {
			respondDomainError(c, err)
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

func (s *Server) grade(domain problemgen.Domain) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req gradeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, "invalid_body", err)
			return
		}
		if req.Payload == nil {
			respondError(c, http.StatusBadRequest, "invalid_body", errors.New("payload is required"))
			return
		}
		if req.Payload.Domain == "" {
			req.Payload.Domain = domain
		}
		if req.Payload.Domain != domain {
			respondError(c, http.StatusBadRequest, "domain_mismatch",
				fmt.Errorf("payload domain %q does not match %q", req.Payload.Domain, domain))
			return
		}
		// The shipped solution is never trusted, so only the shape is checked.
		if err := problemgen.Check(req.Payload, &problemgen.StructuralValidator{}); err != nil {
			respondError(c, http.StatusBadRequest, "invalid_payload", err)
			return
		}

		res := s.deps.Grader.Grade(c.Request.Context(), req.Payload, req.Answer)
		c.JSON(http.StatusOK, gradeResponse{Result: res, Solution: req.Payload.Recompute()})
	}
}

func (s *Server) theoryTopics(c *gin.Context) {
	if s.deps.Bank == nil {
		c.JSON(http.StatusOK, gin.H{"topics": []any{}})
		return
	}
	c.JSON(http.StatusOK, gin.H{"topics": s.deps.Bank.Topics()})
}

func (s *Server) theoryGenerate(c *gin.Context) {
	if s.deps.Bank == nil {
		respondError(c, http.StatusServiceUnavailable, "no_theory", errors.New("no theory dataset loaded"))
		return
	}
	seed, err := seedParam(c)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	p, err := s.deps.Bank.Generate(c.Query("topic_id"), c.Query("question_type"), seed)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (s *Server) nlpStatus(c *gin.Context) {
	if s.deps.Oracle == nil {
		c.JSON(http.StatusOK, similarity.Lexical().Status())
		return
	}
	c.JSON(http.StatusOK, s.deps.Oracle.Status())
}

func (s *Server) chatAsk(c *gin.Context) {
	if s.deps.Chat == nil {
		respondError(c, http.StatusServiceUnavailable, "no_chat", errors.New("chat is not configured"))
		return
	}
	var req askRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	id := c.GetString(sessionKey)
	reply, err := s.deps.Chat.HandleTopic(c.Request.Context(), id, req.Question, req.TopicID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "chat_failed", err)
		return
	}
	c.JSON(http.StatusOK, chatResponse{Reply: reply, SessionID: id})
}
