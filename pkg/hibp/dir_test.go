package hibp

import (
	"context"
	"errors"
	"os"
	"testing"
)

func TestDirSource(t *testing.T) {
	dir := t.TempDir()
	q := NewQuery("password")
	if err := os.WriteFile(rangeFile(dir, q.Prefix), []byte(q.Suffix+":12\n"), 0o644); err != nil {
		t.Fatalf("Should not fail writing range: %s", err)
	}

	client := NewClient(NewDirSource(dir))
	res, err := client.Check(context.Background(), "password")
	if err != nil {
		t.Fatalf("Should not fail: %s", err)
	}
	if !res.Breached || res.Count != 12 {
		t.Errorf("Password should be breached 12 times, got %+v", res)
	}

	// range never mirrored
	if _, err = client.Check(context.Background(), "Str0ng!Passw0rd"); !errors.Is(err, ErrNetwork) {
		t.Errorf("Missing range should fail with ErrNetwork, got %v", err)
	}
}

func TestDirSource_InvalidPrefix(t *testing.T) {
	source := NewDirSource(t.TempDir())
	for _, prefix := range []string{"../..", "", "ABCDEF", "GGGGG"} {
		if _, err := source.Range(context.Background(), prefix); !errors.Is(err, ErrInvalidPrefix) {
			t.Errorf("Range(%q) should fail with ErrInvalidPrefix, got %v", prefix, err)
		}
	}
}
