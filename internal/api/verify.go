package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/alvinbaena/cybershield/internal/auth"
	"github.com/alvinbaena/cybershield/internal/store"
	"github.com/alvinbaena/cybershield/internal/verify"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const verdictVerificationRequested = "verification_requested"

type verifyApi struct {
	verifier verify.IdentityVerifier
	store    store.Store
}

func (v *verifyApi) verifyIndividual(c *gin.Context) {
	var req verify.IndividualRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Required fields missing: firstName, lastName, phoneNumber"})
		return
	}

	v.respond(c, store.TypeIdentityVerification, func(ctx context.Context) (*verify.Result, error) {
		return v.verifier.VerifyIndividual(ctx, req)
	})
}

func (v *verifyApi) verifyBusiness(c *gin.Context) {
	var req verify.BusinessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Required fields missing: businessName, phoneNumber"})
		return
	}

	v.respond(c, store.TypeBusinessVerification, func(ctx context.Context) (*verify.Result, error) {
		return v.verifier.VerifyBusiness(ctx, req)
	})
}

func (v *verifyApi) respond(c *gin.Context, checkType string, fn func(ctx context.Context) (*verify.Result, error)) {
	res, err := fn(c.Request.Context())
	if errors.Is(err, verify.ErrNotConfigured) {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":   "Identity verification service not configured",
			"details": "Dojah API key is required for verification services",
		})
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("verification failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Verification service temporarily unavailable"})
		return
	}

	check := store.SecurityCheck{
		UserID:  auth.UserID(c),
		Verdict: verdictVerificationRequested,
		Type:    checkType,
	}
	if err = v.store.CreateSecurityCheck(c.Request.Context(), &check); err != nil {
		log.Error().Err(err).Msg("error saving verification check")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Verification service temporarily unavailable"})
		return
	}

	c.JSON(http.StatusOK, res)
}

// RegisterVerifyApi mounts the KYC and KYB endpoints.
func RegisterVerifyApi(group *gin.RouterGroup, verifier verify.IdentityVerifier, s store.Store) {
	v := &verifyApi{verifier: verifier, store: s}

	group.POST("/individual", v.verifyIndividual)
	group.POST("/business", v.verifyBusiness)
}
