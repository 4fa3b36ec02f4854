// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package hibp

import (
	"crypto/sha1"
	"encoding/binary"
	"encoding/hex"
	"regexp"
	"strings"
)

const (
	prefixLen = 5
	hashLen   = 40
)

var (
	hashPattern   = regexp.MustCompile(`^[a-fA-F\d]{40}$`)
	prefixPattern = regexp.MustCompile(`^[a-fA-F\d]{5}$`)
)

// Query splits a SHA1 hash for a k-anonymity lookup. Only Prefix is ever sent to a range source,
// Suffix is kept to find the match locally.
type Query struct {
	Prefix string
	Suffix string
}

// NewQuery hashes the UTF-8 bytes of the password.
func NewQuery(password string) Query {
	sum := sha1.Sum([]byte(password))
	return splitHash(hex.EncodeToString(sum[:]))
}

// QueryFromHash builds a Query from an already hashed password.
func QueryFromHash(hash string) (Query, error) {
	hash = strings.TrimSpace(hash)
	if !hashPattern.MatchString(hash) {
		return Query{}, ErrInvalidHash
	}
	return splitHash(hash), nil
}

func splitHash(hash string) Query {
	// The range API and its records are uppercase
	hash = strings.ToUpper(hash)
	return Query{Prefix: hash[:prefixLen], Suffix: hash[prefixLen:]}
}

func validPrefix(prefix string) bool {
	return prefixPattern.MatchString(prefix)
}

// rangePrefix returns the i-th range prefix, 00000 to FFFFF.
func rangePrefix(i int) string {
	buf := make([]byte, 4)
	binary.BigEndian.PutUint32(buf, uint32(i))
	// First 5 characters, k-anonymity needs the hash like this
	return strings.ToUpper(hex.EncodeToString(buf)[3:])
}
