// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package cli

import "time"

var (
	// root
	verbose bool
	// root
	profile bool
	// root
	pprofPort uint16
	// serve, token
	envFile string
	// mirror
	outDir string
	// mirror
	ranges int
	// mirror
	threads int
	// mirror
	overwrite bool
	// check, mirror
	apiURL string
	// check
	padding bool
	// check
	offlineDir string
	// check
	interactive bool
	// check
	hashed bool
	// check
	strengthOnly bool
	// serve
	selfTLS bool
	// serve
	tlsCert string
	// serve
	tlsKey string
	// serve
	port uint16
	// token
	userID int64
	// token
	tokenTTL time.Duration
	// token
	jwtSecret string
)
