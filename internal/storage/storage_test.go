package storage

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestProbeCachePutGet(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "tbprobe-cache-test-*")
	if err != nil {
		t.Fatalf("MkdirTemp failed: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	cache, err := OpenProbeCacheAt(filepath.Join(tmpDir, "db"))
	if err != nil {
		t.Fatalf("OpenProbeCacheAt failed: %v", err)
	}
	defer cache.Close()

	const key uint64 = 0xC0FFEE
	want := []byte(`{"found":true,"wdl":2,"dtz":7}`)

	if _, found, err := cache.Get(key); err != nil {
		t.Fatalf("Get before Put failed: %v", err)
	} else if found {
		t.Error("expected miss before Put")
	}

	if err := cache.Put(key, want); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, found, err := cache.Get(key)
	if err != nil {
		t.Fatalf("Get after Put failed: %v", err)
	}
	if !found {
		t.Fatal("expected hit after Put")
	}
	if !bytes.Equal(got, want) {
		t.Errorf("Get returned %q, want %q", got, want)
	}
}

func TestProbeCacheLen(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "tbprobe-cache-test-*")
	if err != nil {
		t.Fatalf("MkdirTemp failed: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	cache, err := OpenProbeCacheAt(filepath.Join(tmpDir, "db"))
	if err != nil {
		t.Fatalf("OpenProbeCacheAt failed: %v", err)
	}
	defer cache.Close()

	for i := uint64(0); i < 5; i++ {
		if err := cache.Put(i, []byte("v")); err != nil {
			t.Fatalf("Put(%d) failed: %v", i, err)
		}
	}

	n, err := cache.Len()
	if err != nil {
		t.Fatalf("Len failed: %v", err)
	}
	if n != 5 {
		t.Errorf("Len() = %d, want 5", n)
	}
}

func TestDataPaths(t *testing.T) {
	dataDir, err := GetDataDir()
	if err != nil {
		t.Fatalf("GetDataDir failed: %v", err)
	}
	if dataDir == "" {
		t.Error("GetDataDir returned empty path")
	}

	if _, err := os.Stat(dataDir); os.IsNotExist(err) {
		t.Errorf("data directory was not created: %s", dataDir)
	}
}
