// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/alvinbaena/cybershield/pkg/hibp"
	"github.com/alvinbaena/cybershield/pkg/strength"
	"github.com/gin-gonic/gin"
	"github.com/nbutton23/zxcvbn-go"
	"github.com/rs/zerolog/log"
)

const msgBreachRetry = "Failed to check password. Please try again."

type checkApi struct {
	breach  *hibp.Client
	timeout time.Duration
}

func (q *checkApi) checkPassword(c *gin.Context) {
	var req passwordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp := passwordResponse{Result: strength.Evaluate(req.Password)}
	if req.Password != "" {
		entropy := zxcvbn.PasswordStrength(req.Password, nil)
		resp.Entropy = &passwordEntropy{
			Entropy:          entropy.Entropy,
			CrackTime:        entropy.CrackTime,
			CrackTimeDisplay: entropy.CrackTimeDisplay,
			Score:            entropy.Score,
		}
	}

	if req.Breach {
		res, err := q.lookup(c, func(ctx context.Context) (hibp.Result, error) {
			return q.breach.Check(ctx, req.Password)
		})
		if err != nil {
			log.Warn().Err(err).Msg("breach lookup failed")
			resp.BreachError = msgBreachRetry
		} else {
			resp.Breach = &res
		}
	}

	c.JSON(http.StatusOK, resp)
}

func (q *checkApi) checkBreach(c *gin.Context) {
	var req breachRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := q.lookup(c, func(ctx context.Context) (hibp.Result, error) {
		return q.breach.Check(ctx, req.Password)
	})
	if err != nil {
		log.Warn().Err(err).Msg("breach lookup failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": msgBreachRetry})
		return
	}

	c.JSON(http.StatusOK, breachResponse{Breached: res.Breached, Count: res.Count})
}

func (q *checkApi) checkHash(c *gin.Context) {
	var req hashRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := q.lookup(c, func(ctx context.Context) (hibp.Result, error) {
		return q.breach.CheckHash(ctx, req.Hash)
	})
	if errors.Is(err, hibp.ErrInvalidHash) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "input is not a valid SHA1 Hexadecimal hash"})
		return
	}
	if err != nil {
		log.Warn().Err(err).Msg("breach lookup failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": msgBreachRetry})
		return
	}

	c.JSON(http.StatusOK, breachResponse{Breached: res.Breached, Count: res.Count})
}

func (q *checkApi) lookup(c *gin.Context, fn func(ctx context.Context) (hibp.Result, error)) (hibp.Result, error) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), q.timeout)
	defer cancel()
	return fn(ctx)
}

// RegisterCheckApi mounts the password, breach and hash checks. timeout bounds each breach lookup.
func RegisterCheckApi(group *gin.RouterGroup, breach *hibp.Client, timeout time.Duration) {
	q := &checkApi{breach: breach, timeout: timeout}

	group.POST("/password", q.checkPassword)
	group.POST("/breach", q.checkBreach)
	group.POST("/hash", q.checkHash)
}
