package hibp

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

// TotalRanges is the number of distinct 5 character hexadecimal prefixes.
const TotalRanges = 1 << 20

// RangeSource returns the body of a range query: newline separated SUFFIX:COUNT records for every
// known hash starting with prefix.
type RangeSource interface {
	Range(ctx context.Context, prefix string) ([]byte, error)
}

// findSuffix scans every record and stops at the first one matching suffix.
func findSuffix(body []byte, suffix string) Result {
	scanner := bufio.NewScanner(bytes.NewReader(body))
	for scanner.Scan() {
		hashSuffix, count, _ := strings.Cut(scanner.Text(), ":")
		if strings.EqualFold(strings.TrimSpace(hashSuffix), suffix) {
			return Result{Breached: true, Count: parseCount(count)}
		}
	}

	return Result{}
}

// parseCount fails closed: anything that is not a non-negative integer counts as 0. Counts past
// the int64 range saturate at math.MaxInt64.
func parseCount(s string) int64 {
	count, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if errors.Is(err, strconv.ErrRange) && count > 0 {
		return math.MaxInt64
	}
	if err != nil || count < 0 {
		log.Warn().Msgf("malformed breach count %q, using 0", s)
		return 0
	}
	return count
}
