// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package strength

import (
	"strings"
	"unicode/utf8"
)

// MaxScore is the upper bound of Result.Score. The predicates add up to 110.
const MaxScore = 100

const symbols = "!@#$%^&*(),.?\":{}|<>[]\\;'`~_+=-"

var commonPatterns = []string{"123", "abc", "password", "qwerty", "admin"}

const (
	msgLength   = "Use at least 8 characters (12+ recommended)"
	msgLower    = "Include lowercase letters"
	msgUpper    = "Include uppercase letters"
	msgNumber   = "Include numbers"
	msgSymbol   = "Include special characters (!@#$%^&* etc.)"
	msgRepeat   = "Avoid repeating characters"
	msgPatterns = "Avoid common patterns and words"
)

// Result is the outcome of a single evaluation. It is never shared between calls.
type Result struct {
	Score    int      `json:"score"`
	Level    Level    `json:"level"`
	Feedback []string `json:"feedback"`
	Color    string   `json:"color"`
}

// Evaluate scores a password from 0 to 100 and lists what it is missing, in a fixed order.
func Evaluate(password string) Result {
	score := 0
	feedback := make([]string, 0, 7)

	switch length := utf8.RuneCountInString(password); {
	case length >= 12:
		score += 25
	case length >= 8:
		score += 15
	default:
		feedback = append(feedback, msgLength)
	}

	var hasLower, hasUpper, hasDigit, hasSymbol bool
	for _, r := range password {
		switch {
		case r >= 'a' && r <= 'z':
			hasLower = true
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		case r >= '0' && r <= '9':
			hasDigit = true
		case strings.ContainsRune(symbols, r):
			hasSymbol = true
		}
	}

	score, feedback = credit(score, feedback, hasLower, 15, msgLower)
	score, feedback = credit(score, feedback, hasUpper, 15, msgUpper)
	score, feedback = credit(score, feedback, hasDigit, 15, msgNumber)
	score, feedback = credit(score, feedback, hasSymbol, 20, msgSymbol)
	score, feedback = credit(score, feedback, !hasRepeatRun(password, 3), 10, msgRepeat)
	score, feedback = credit(score, feedback, !hasCommonPattern(password), 10, msgPatterns)

	if score > MaxScore {
		score = MaxScore
	}

	level := LevelFor(score)
	return Result{
		Score:    score,
		Level:    level,
		Feedback: feedback,
		Color:    level.Color(),
	}
}

func credit(score int, feedback []string, ok bool, points int, msg string) (int, []string) {
	if ok {
		return score + points, feedback
	}
	return score, append(feedback, msg)
}

// hasRepeatRun reports whether the same character appears n or more times in a row.
// Line terminators never start or extend a run.
func hasRepeatRun(password string, n int) bool {
	var prev rune = -1
	run := 0
	for _, r := range password {
		if isLineTerminator(r) {
			prev, run = -1, 0
			continue
		}

		if r == prev {
			run++
		} else {
			prev, run = r, 1
		}

		if run >= n {
			return true
		}
	}
	return false
}

func isLineTerminator(r rune) bool {
	return r == '\n' || r == '\r' || r == '\u2028' || r == '\u2029'
}

func hasCommonPattern(password string) bool {
	lower := strings.ToLower(password)
	for _, p := range commonPatterns {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}
