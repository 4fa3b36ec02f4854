package api

import (
	"github.com/alvinbaena/cybershield/internal/store"
	"github.com/alvinbaena/cybershield/internal/urlscan"
	"github.com/alvinbaena/cybershield/pkg/hibp"
	"github.com/alvinbaena/cybershield/pkg/strength"
)

type passwordRequest struct {
	Password string `json:"password" binding:"max=256"`
	Breach   bool   `json:"breach"`
}

type passwordResponse struct {
	strength.Result
	Entropy     *passwordEntropy `json:"entropy,omitempty"`
	Breach      *hibp.Result     `json:"breach,omitempty"`
	BreachError string           `json:"breachError,omitempty"`
}

type passwordEntropy struct {
	Entropy          float64 `json:"entropy"`
	CrackTime        float64 `json:"crackTime"`
	CrackTimeDisplay string  `json:"crackTimeDisplay"`
	Score            int     `json:"score"`
}

type breachRequest struct {
	Password string `json:"password" binding:"required,max=256"`
}

type hashRequest struct {
	Hash string `json:"hash" binding:"required"`
}

type breachResponse struct {
	Breached bool  `json:"breached"`
	Count    int64 `json:"count"`
}

type securityCheckRequest struct {
	Type   string `json:"type"`
	Result string `json:"result" binding:"required"`
	URL    string `json:"url"`
}

type scamReportRequest struct {
	Description string `json:"description" binding:"required"`
	Type        string `json:"type"`
}

type scanRequest struct {
	URL string `json:"url"`
}

type scanResponse struct {
	store.SecurityCheck
	Details           string          `json:"details"`
	VirusTotalResults *urlscan.Report `json:"virusTotalResults"`
	ScannedURL        string          `json:"scannedUrl"`
	Domain            string          `json:"domain"`
}

type tipRequest struct {
	Topic string `json:"topic"`
}

type chatRequest struct {
	Question string `json:"question" binding:"required"`
}
