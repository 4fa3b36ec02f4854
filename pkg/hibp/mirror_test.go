// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package hibp

import (
	"context"
	"net/http"
	"os"
	"testing"
)

func TestMirror(t *testing.T) {
	q := NewQuery("password")
	bodies := map[string]string{
		"00000":  "0005AD76BD555C1D6D771DE417A4B87E4B4:10\r\n000A8DAE4228F821FB418F59826079BF368:4\r\n",
		"00001":  "0000B7C7D5F6F5C3B3D3C3B3A3938373635:2\r\n",
		"00002":  "",
		q.Prefix: q.Suffix + ":99\r\n",
	}
	_, srv := newRangeServer(t, bodies)

	dir := t.TempDir()
	mirror := NewMirror(dir, 2, false, NewRemoteSource(WithBaseURL(srv.URL)))
	if err := mirror.ProcessRanges(context.Background(), 3); err != nil {
		t.Fatalf("Should not fail mirroring: %s", err)
	}

	for _, prefix := range []string{"00000", "00001", "00002"} {
		data, err := os.ReadFile(rangeFile(dir, prefix))
		if err != nil {
			t.Errorf("Range %s should be mirrored: %s", prefix, err)
			continue
		}
		if string(data) != bodies[prefix] {
			t.Errorf("Range %s content: %q, want: %q", prefix, data, bodies[prefix])
		}
	}

	if got := mirror.stat.hashesDownloaded.Load(); got != 3 {
		t.Errorf("Should count 3 hashes, got %d", got)
	}

	// a single range mirrored by hand is readable by the dir source
	mirror.ProcessRange(context.Background(), q.Prefix)
	res, err := NewClient(NewDirSource(dir)).Check(context.Background(), "password")
	if err != nil {
		t.Fatalf("Should not fail: %s", err)
	}
	if !res.Breached || res.Count != 99 {
		t.Errorf("Password should be breached 99 times, got %+v", res)
	}
}

func TestMirror_Failure(t *testing.T) {
	rs, srv := newRangeServer(t, map[string]string{})
	rs.status = http.StatusInternalServerError

	mirror := NewMirror(t.TempDir(), 1, false, NewRemoteSource(WithBaseURL(srv.URL)))
	if err := mirror.ProcessRanges(context.Background(), 2); err == nil {
		t.Errorf("Should fail when ranges can't be downloaded")
	}
}

func TestMirror_InvalidRanges(t *testing.T) {
	mirror := NewMirror(t.TempDir(), 1, false, NewRemoteSource())
	for _, n := range []int{0, -1, TotalRanges + 1} {
		if err := mirror.ProcessRanges(context.Background(), n); err == nil {
			t.Errorf("ProcessRanges(%d) should fail", n)
		}
	}
}
