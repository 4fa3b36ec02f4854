// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package hibp

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"
)

// Result of a breach lookup. Count is how many times the exact password appears in the corpus.
type Result struct {
	Breached bool  `json:"breached"`
	Count    int64 `json:"count"`
}

// Client checks passwords against a range source using k-anonymity.
type Client struct {
	source  RangeSource
	timeout time.Duration
	// concurrent lookups for the same prefix share the range query
	group singleflight.Group
}

type ClientOption func(*Client)

// WithLookupTimeout bounds a shared range query. Callers still give up on their own context.
func WithLookupTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

func NewClient(source RangeSource, opts ...ClientOption) *Client {
	c := &Client{source: source, timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Check looks up a plain text password. The empty password is never looked up.
func (c *Client) Check(ctx context.Context, password string) (Result, error) {
	if password == "" {
		return Result{}, nil
	}

	return c.CheckQuery(ctx, NewQuery(password))
}

// CheckHash looks up a SHA1 hex hash. Invalid hashes return ErrInvalidHash.
func (c *Client) CheckHash(ctx context.Context, hash string) (Result, error) {
	q, err := QueryFromHash(hash)
	if err != nil {
		return Result{}, err
	}

	return c.CheckQuery(ctx, q)
}

// CheckQuery shares the range query with concurrent lookups of the same prefix. The query runs
// detached from ctx, so one caller giving up never fails the others.
func (c *Client) CheckQuery(ctx context.Context, q Query) (Result, error) {
	ch := c.group.DoChan(q.Prefix, func() (interface{}, error) {
		shared, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
		defer cancel()
		return c.source.Range(shared, q.Prefix)
	})

	select {
	case <-ctx.Done():
		return Result{}, fmt.Errorf("%w: %v", ErrNetwork, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return Result{}, fmt.Errorf("%w: %v", ErrNetwork, res.Err)
		}
		return findSuffix(res.Val.([]byte), q.Suffix), nil
	}
}
