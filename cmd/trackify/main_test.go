package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"trackify/internal/domain/sighting"
)

func testAPI(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]sighting.Sighting{
			{ID: "a", PlateText: "DL01AB1234", CameraID: "cam-1", Location: `28°36'50.2"N 77°12'30.0"E`},
			{ID: "b", PlateText: "DL01AB1234", CameraID: "cam-2", Location: "unknown"},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestMarkersCommand(t *testing.T) {
	srv := testAPI(t)

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"markers", "--api-url", srv.URL, "--plate", "DL01AB1234"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}

	got := out.String()
	if !strings.Contains(got, "28.613944") || !strings.Contains(got, "77.208333") {
		t.Fatalf("expected decimal coordinates, got:\n%s", got)
	}
	if !strings.Contains(got, "skipped b:") {
		t.Fatalf("expected skipped record to be reported, got:\n%s", got)
	}
}

func TestSearchCommand(t *testing.T) {
	srv := testAPI(t)

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"search", "--api-url", srv.URL})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if strings.Count(out.String(), "DL01AB1234") != 2 {
		t.Fatalf("expected both sightings in the table, got:\n%s", out.String())
	}
}
