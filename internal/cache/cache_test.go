package cache

import (
	"strings"
	"testing"
	"time"
)

func TestSearchKey(t *testing.T) {
	k1 := SearchKey("what is laksa", "web", "en_GB", 1)
	k2 := SearchKey("what is laksa", "web", "en_GB", 1)
	if k1 != k2 {
		t.Error("Expected identical inputs to produce identical keys")
	}

	if !strings.HasPrefix(k1, "hayhai:v1:") {
		t.Errorf("Expected versioned key prefix, got %s", k1)
	}

	// Any parameter change must change the key
	variants := []string{
		SearchKey("what is laksa", "news", "en_GB", 1),
		SearchKey("what is laksa", "web", "fr_FR", 1),
		SearchKey("what is laksa", "web", "en_GB", 0),
		SearchKey("what is curry", "web", "en_GB", 1),
	}
	for i, v := range variants {
		if v == k1 {
			t.Errorf("Expected variant %d to differ from base key", i)
		}
	}
}

func TestContentKey(t *testing.T) {
	k1 := ContentKey("https://example.com/page", false)
	k2 := ContentKey("https://example.com/page", true)
	if k1 == k2 {
		t.Error("Expected video flag to change the key")
	}

	if ContentKey("https://example.com/page", false) != k1 {
		t.Error("Expected deterministic content key")
	}
}

func TestMemoryCache(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	if _, found := c.Get("missing"); found {
		t.Error("Expected miss for unknown key")
	}

	if err := c.Set("k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	val, found := c.Get("k")
	if !found {
		t.Fatal("Expected hit after Set")
	}
	if string(val) != "v" {
		t.Errorf("Expected 'v', got %q", val)
	}

	if err := c.Delete("k"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, found := c.Get("k"); found {
		t.Error("Expected miss after Delete")
	}
}

func TestMemoryCache_TTL(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	if err := c.Set("short", []byte("x"), 20*time.Millisecond); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	time.Sleep(50 * time.Millisecond)
	if _, found := c.Get("short"); found {
		t.Error("Expected entry to expire")
	}
}

func TestMemoryCache_Clear(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	_ = c.Set("a", []byte("1"), time.Minute)
	_ = c.Set("b", []byte("2"), time.Minute)
	if c.Len() != 2 {
		t.Errorf("Expected 2 entries, got %d", c.Len())
	}

	if err := c.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if c.Len() != 0 {
		t.Errorf("Expected empty cache, got %d entries", c.Len())
	}
}
