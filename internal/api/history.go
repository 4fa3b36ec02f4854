package api

import (
	"net/http"

	"github.com/alvinbaena/cybershield/internal/auth"
	"github.com/alvinbaena/cybershield/internal/store"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type historyApi struct {
	store store.Store
}

func (h *historyApi) createSecurityCheck(c *gin.Context) {
	var req securityCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	check := store.SecurityCheck{
		UserID:  auth.UserID(c),
		Verdict: req.Result,
		Type:    req.Type,
	}
	if req.URL != "" {
		check.URL = &req.URL
	}

	if err := h.store.CreateSecurityCheck(c.Request.Context(), &check); err != nil {
		log.Error().Err(err).Msg("error saving security check")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save security check"})
		return
	}

	c.JSON(http.StatusOK, check)
}

func (h *historyApi) listSecurityChecks(c *gin.Context) {
	checks, err := h.store.ListSecurityChecks(c.Request.Context(), auth.UserID(c))
	if err != nil {
		log.Error().Err(err).Msg("error listing security checks")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch security checks"})
		return
	}
	if checks == nil {
		checks = []store.SecurityCheck{}
	}

	c.JSON(http.StatusOK, checks)
}

func (h *historyApi) createScamReport(c *gin.Context) {
	var req scamReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report := store.ScamReport{
		UserID: auth.UserID(c),
		Report: req.Description,
		Type:   req.Type,
	}
	if err := h.store.CreateScamReport(c.Request.Context(), &report); err != nil {
		log.Error().Err(err).Msg("error saving scam report")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit scam report"})
		return
	}

	c.JSON(http.StatusOK, report)
}

func (h *historyApi) listScamReports(c *gin.Context) {
	reports, err := h.store.ListScamReports(c.Request.Context(), auth.UserID(c))
	if err != nil {
		log.Error().Err(err).Msg("error listing scam reports")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch scam reports"})
		return
	}
	if reports == nil {
		reports = []store.ScamReport{}
	}

	c.JSON(http.StatusOK, reports)
}

// RegisterHistoryApi mounts the per user security history and scam reports. The group must
// already require an authenticated user.
func RegisterHistoryApi(group *gin.RouterGroup, s store.Store) {
	h := &historyApi{store: s}

	group.POST("/security-checks", h.createSecurityCheck)
	group.GET("/security-checks", h.listSecurityChecks)
	group.POST("/scam-reports", h.createScamReport)
	group.GET("/scam-reports", h.listScamReports)
}
