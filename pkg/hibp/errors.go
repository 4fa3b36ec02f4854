package hibp

import "errors"

var (
	// ErrNetwork is the only error a breach lookup returns. The wrapped message says what the
	// range source reported, the caller only needs to offer a retry.
	ErrNetwork = errors.New("breach range query failed")
	// ErrInvalidHash is returned for inputs that are not a 40 character hexadecimal SHA1 hash.
	ErrInvalidHash = errors.New("input is not a valid SHA1 Hexadecimal hash")
	// ErrInvalidPrefix is returned by range sources for anything that is not 5 hexadecimal characters.
	ErrInvalidPrefix = errors.New("range prefix must be 5 hexadecimal characters")
)
