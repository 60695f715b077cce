package http

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/rs/zerolog"

	"trackify/internal/domain/sighting"
	"trackify/internal/geo"
	"trackify/internal/service"
)

type memoryStore struct {
	sightings []sighting.Sighting
	err       error
}

func (m *memoryStore) FindSightings(_ context.Context, filter sighting.Filter) ([]sighting.Sighting, error) {
	if m.err != nil {
		return nil, m.err
	}
	plate, ok := filter.Plate()
	out := make([]sighting.Sighting, 0)
	for _, s := range m.sightings {
		if !ok || s.PlateText == plate {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *memoryStore) Ping(context.Context) error { return m.err }

func seededSightings() []sighting.Sighting {
	ts := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	return []sighting.Sighting{
		{
			ID:              "65e1a0000000000000000001",
			FrameNumber:     120,
			CarID:           7,
			PlateText:       "DL01AB1234",
			CameraID:        "cam-1",
			ConfidenceScore: 0.93,
			Location:        `28°36'50.2"N 77°12'30.0"E`,
			Timestamp:       ts,
		},
		{
			ID:              "65e1a0000000000000000002",
			FrameNumber:     121,
			CarID:           8,
			PlateText:       "MH12XY0001",
			CameraID:        "cam-2",
			ConfidenceScore: 0.71,
			Location:        "n/a",
			Timestamp:       ts,
		},
	}
}

func newTestRouter(store service.SightingStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	svc := service.NewSightingService(store, zerolog.Nop())
	return NewRouter(NewHandler(svc, zerolog.Nop()), []string{"*"}, zerolog.Nop())
}

func doGet(r http.Handler, target string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for k, v := range header {
		req.Header[k] = v
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestListVehicles_FilteredEndToEnd(t *testing.T) {
	r := newTestRouter(&memoryStore{sightings: seededSightings()})

	w := doGet(r, "/api/vehicles?numberPlate=DL01AB1234", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var got []map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected exactly one record, got %d", len(got))
	}
	for _, field := range []string{"_id", "frame_nmr", "car_id", "license_plate_text", "camera_number", "license_number_score", "location", "timestamp"} {
		if _, ok := got[0][field]; !ok {
			t.Fatalf("missing field %q in %v", field, got[0])
		}
	}

	loc, _ := got[0]["location"].(string)
	pos, err := geo.ParseLocation(loc)
	if err != nil {
		t.Fatalf("parse returned location: %v", err)
	}
	if math.Abs(pos.Lat-28.61) > 0.01 || math.Abs(pos.Lng-77.21) > 0.01 {
		t.Fatalf("expected marker near (28.61, 77.21), got (%f, %f)", pos.Lat, pos.Lng)
	}
}

func TestListVehicles_Unfiltered(t *testing.T) {
	r := newTestRouter(&memoryStore{sightings: seededSightings()})

	for _, target := range []string{"/api/vehicles", "/api/vehicles?numberPlate="} {
		w := doGet(r, target, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", target, w.Code)
		}
		var got []sighting.Sighting
		if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("%s: expected all records, got %d", target, len(got))
		}
	}
}

func TestListVehicles_NoMatchReturnsEmptyArray(t *testing.T) {
	r := newTestRouter(&memoryStore{sightings: seededSightings()})

	w := doGet(r, "/api/vehicles?numberPlate=dl01ab1234", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if body := strings.TrimSpace(w.Body.String()); body != "[]" {
		t.Fatalf("expected empty array, got %s", body)
	}
}

func TestListVehicles_StorageFailure(t *testing.T) {
	r := newTestRouter(&memoryStore{err: errors.New("server selection timeout")})

	w := doGet(r, "/api/vehicles", nil)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if !strings.Contains(body["message"], "server selection timeout") {
		t.Fatalf("expected underlying message, got %v", body)
	}
}

func TestListVehicles_EchoesRequestSeq(t *testing.T) {
	r := newTestRouter(&memoryStore{sightings: seededSightings()})

	w := doGet(r, "/api/vehicles", http.Header{"X-Request-Seq": {"42"}})
	if got := w.Header().Get("X-Request-Seq"); got != "42" {
		t.Fatalf("expected seq header 42, got %q", got)
	}

	w = doGet(r, "/api/vehicles?seq=7", nil)
	if got := w.Header().Get("X-Request-Seq"); got != "7" {
		t.Fatalf("expected seq header 7, got %q", got)
	}

	if w.Header().Get("X-Request-ID") == "" {
		t.Fatal("expected generated request id")
	}
}

func TestListMarkers(t *testing.T) {
	r := newTestRouter(&memoryStore{sightings: seededSightings()})

	w := doGet(r, "/api/vehicles/markers", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if got := w.Header().Get("X-Skipped-Locations"); got != "1" {
		t.Fatalf("expected 1 skipped location, got %q", got)
	}

	fc, err := geojson.UnmarshalFeatureCollection(w.Body.Bytes())
	if err != nil {
		t.Fatalf("decode geojson: %v", err)
	}
	if len(fc.Features) != 1 {
		t.Fatalf("expected 1 feature, got %d", len(fc.Features))
	}
	pt := fc.Features[0].Geometry.(orb.Point)
	if math.Abs(pt.Lat()-28.61) > 0.01 || math.Abs(pt.Lon()-77.21) > 0.01 {
		t.Fatalf("unexpected marker position %v", pt)
	}
}

func TestHealth(t *testing.T) {
	if w := doGet(newTestRouter(&memoryStore{}), "/health", nil); w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if w := doGet(newTestRouter(&memoryStore{err: errors.New("down")}), "/health", nil); w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", w.Code)
	}
}

func TestSearchSocket(t *testing.T) {
	srv := httptest.NewServer(newTestRouter(&memoryStore{sightings: seededSightings()}))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/search"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	for seq, plate := range []string{"DL01AB1234", "", "NOPE"} {
		if err := conn.WriteJSON(searchRequest{Seq: uint64(seq + 1), NumberPlate: plate}); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	want := []int{1, 2, 0}
	for i, n := range want {
		var resp searchResponse
		if err := conn.ReadJSON(&resp); err != nil {
			t.Fatalf("read: %v", err)
		}
		if resp.Seq != uint64(i+1) {
			t.Fatalf("expected seq %d, got %d", i+1, resp.Seq)
		}
		if len(resp.Vehicles) != n || resp.Message != "" {
			t.Fatalf("seq %d: expected %d vehicles, got %+v", resp.Seq, n, resp)
		}
	}

	if err := conn.WriteMessage(websocket.TextMessage, []byte("{")); err != nil {
		t.Fatalf("write: %v", err)
	}
	var resp searchResponse
	if err := conn.ReadJSON(&resp); err != nil {
		t.Fatalf("read: %v", err)
	}
	if resp.Message == "" {
		t.Fatal("expected error message for malformed request")
	}
}
