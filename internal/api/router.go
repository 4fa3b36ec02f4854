package api

import (
	"time"

	"github.com/alvinbaena/cybershield/internal/advisor"
	"github.com/alvinbaena/cybershield/internal/auth"
	"github.com/alvinbaena/cybershield/internal/store"
	"github.com/alvinbaena/cybershield/internal/urlscan"
	"github.com/alvinbaena/cybershield/internal/verify"
	"github.com/alvinbaena/cybershield/pkg/hibp"
	"github.com/gin-contrib/logger"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Services are the collaborators behind the API. Tips and Assistant may be nil.
type Services struct {
	Breach        *hibp.Client
	LookupTimeout time.Duration
	Store         store.Store
	Auth          auth.Authenticator
	Scanner       *urlscan.Scanner
	Tips          advisor.TipGenerator
	Assistant     advisor.Assistant
	Verifier      verify.IdentityVerifier
}

func NewRouter(s Services) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(logger.SetLogger(logger.WithLogger(func(c *gin.Context, z zerolog.Logger) zerolog.Logger {
		return zerolog.New(gin.DefaultWriter).With().Timestamp().Logger()
	})))

	v1 := router.Group("/v1")
	RegisterCheckApi(v1.Group("/check"), s.Breach, s.LookupTimeout)

	user := v1.Group("", auth.RequireUser(s.Auth))
	RegisterHistoryApi(user, s.Store)
	RegisterScanApi(user, s.Scanner, s.Store)
	RegisterAdvisorApi(user.Group("/advisor"), s.Tips, s.Assistant)
	RegisterVerifyApi(user.Group("/verify"), s.Verifier, s.Store)

	return router
}
