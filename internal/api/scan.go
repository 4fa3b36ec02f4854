package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/alvinbaena/cybershield/internal/auth"
	"github.com/alvinbaena/cybershield/internal/store"
	"github.com/alvinbaena/cybershield/internal/urlscan"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type scanApi struct {
	scanner *urlscan.Scanner
	store   store.Store
}

func (s *scanApi) scanURL(c *gin.Context) {
	var req scanRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.URL) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "URL is required"})
		return
	}

	log.Info().Msgf("scanning URL: %s", req.URL)
	res, err := s.scanner.Scan(c.Request.Context(), req.URL)
	if errors.Is(err, urlscan.ErrInvalidURL) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid URL format",
			"verdict": urlscan.Invalid,
			"details": "Please enter a valid URL (e.g., https://example.com)",
		})
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("error scanning URL")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to scan URL at this time"})
		return
	}

	check := store.SecurityCheck{
		UserID:  auth.UserID(c),
		URL:     &res.URL,
		Verdict: string(res.Verdict),
		Type:    store.TypeURLScan,
	}
	if err = s.store.CreateSecurityCheck(c.Request.Context(), &check); err != nil {
		log.Error().Err(err).Msg("error saving URL scan")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to scan URL at this time"})
		return
	}

	c.JSON(http.StatusOK, scanResponse{
		SecurityCheck:     check,
		Details:           res.Details,
		VirusTotalResults: res.Reputation,
		ScannedURL:        res.URL,
		Domain:            res.Domain,
	})
}

// RegisterScanApi mounts the URL scanner. Every scan is recorded in the user's history.
func RegisterScanApi(group *gin.RouterGroup, scanner *urlscan.Scanner, s store.Store) {
	a := &scanApi{scanner: scanner, store: s}

	group.POST("/scan-url", a.scanURL)
}
