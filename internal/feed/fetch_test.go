package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestFetchWritesAndSkipsUnchanged(t *testing.T) {
	body := "<venues></venues>"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(body))
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "feeds", "venues.xml")
	f := NewFetcher()

	updated, err := f.Fetch(context.Background(), srv.URL, dest)
	if err != nil {
		t.Fatalf("first fetch: %v", err)
	}
	if !updated {
		t.Error("first fetch should write the file")
	}
	got, err := os.ReadFile(dest)
	if err != nil || string(got) != body {
		t.Fatalf("cached file = %q, %v", got, err)
	}

	updated, err = f.Fetch(context.Background(), srv.URL, dest)
	if err != nil {
		t.Fatalf("second fetch: %v", err)
	}
	if updated {
		t.Error("unchanged body should not rewrite the file")
	}

	body = "<venues><venue id=\"1\"/></venues>"
	updated, err = f.Fetch(context.Background(), srv.URL, dest)
	if err != nil {
		t.Fatalf("third fetch: %v", err)
	}
	if !updated {
		t.Error("changed body should rewrite the file")
	}
}

func TestFetchBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "venues.xml")
	if _, err := NewFetcher().Fetch(context.Background(), srv.URL, dest); err == nil {
		t.Fatal("expected error on 500")
	}
	if _, err := os.Stat(dest); !os.IsNotExist(err) {
		t.Error("failed fetch must not touch the cache file")
	}
}

func TestFetchUnreachable(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "venues.xml")
	if _, err := NewFetcher().Fetch(context.Background(), "http://127.0.0.1:1/feed", dest); err == nil {
		t.Fatal("expected connection error")
	}
}
