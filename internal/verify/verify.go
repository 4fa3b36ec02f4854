package verify

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

var ErrNotConfigured = errors.New("verification service not configured")

type Kind string

const (
	Individual Kind = "individual"
	Business   Kind = "business"
)

const StatusPending = "pending"

type IndividualRequest struct {
	FirstName   string `json:"firstName" binding:"required"`
	LastName    string `json:"lastName" binding:"required"`
	PhoneNumber string `json:"phoneNumber" binding:"required"`
	NIN         string `json:"nin"`
	BVN         string `json:"bvn"`
}

type BusinessRequest struct {
	BusinessName string `json:"businessName" binding:"required"`
	RCNumber     string `json:"rcNumber"`
	TIN          string `json:"tin"`
	PhoneNumber  string `json:"phoneNumber" binding:"required"`
	Email        string `json:"email"`
	Address      string `json:"address"`
}

type Result struct {
	ID        string    `json:"id"`
	Type      Kind      `json:"type"`
	Status    string    `json:"status"`
	Data      Data      `json:"data"`
	CreatedAt time.Time `json:"createdAt"`
}

type Data struct {
	Message       string      `json:"message"`
	SubmittedData interface{} `json:"submittedData"`
}

// submittedIndividual never echoes the NIN or BVN, only whether they were given.
type submittedIndividual struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	PhoneNumber string `json:"phoneNumber"`
	HasNIN      bool   `json:"hasNin"`
	HasBVN      bool   `json:"hasBvn"`
}

// IdentityVerifier runs KYC/KYB checks.
type IdentityVerifier interface {
	VerifyIndividual(ctx context.Context, req IndividualRequest) (*Result, error)
	VerifyBusiness(ctx context.Context, req BusinessRequest) (*Result, error)
}

// Dojah accepts requests once an API key is configured. The Dojah API itself is not called
// yet, every accepted request stays pending.
type Dojah struct {
	apiKey string
	now    func() time.Time
}

func NewDojah(apiKey string) *Dojah {
	return &Dojah{apiKey: apiKey, now: time.Now}
}

// VerifyIndividual accepts a KYC request. The Dojah KYC endpoints are not called yet, the request
// stays pending.
func (d *Dojah) VerifyIndividual(_ context.Context, req IndividualRequest) (*Result, error) {
	log.Info().
		Str("firstName", req.FirstName).
		Str("lastName", req.LastName).
		Str("nin", mask(req.NIN)).
		Str("bvn", mask(req.BVN)).
		Msg("individual verification request")

	if d.apiKey == "" {
		return nil, ErrNotConfigured
	}

	return &Result{
		ID:     newID(),
		Type:   Individual,
		Status: StatusPending,
		Data: Data{
			Message: "Verification service will be available after deployment with Dojah API integration",
			SubmittedData: submittedIndividual{
				FirstName:   req.FirstName,
				LastName:    req.LastName,
				PhoneNumber: req.PhoneNumber,
				HasNIN:      req.NIN != "",
				HasBVN:      req.BVN != "",
			},
		},
		CreatedAt: d.now().UTC(),
	}, nil
}

func (d *Dojah) VerifyBusiness(_ context.Context, req BusinessRequest) (*Result, error) {
	log.Info().
		Str("businessName", req.BusinessName).
		Str("rcNumber", req.RCNumber).
		Msg("business verification request")

	if d.apiKey == "" {
		return nil, ErrNotConfigured
	}

	return &Result{
		ID:     newID(),
		Type:   Business,
		Status: StatusPending,
		Data: Data{
			Message:       "Business verification service will be available after deployment with Dojah API integration",
			SubmittedData: req,
		},
		CreatedAt: d.now().UTC(),
	}, nil
}

func newID() string {
	return "ver_" + uuid.NewString()
}

func mask(s string) string {
	if s == "" {
		return ""
	}
	return "***masked***"
}
