package weather

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

type fakeGeocoder struct {
	lat, lon float64
	found    bool
	err      error
	calls    int
}

func (g *fakeGeocoder) Geocode(context.Context, string) (float64, float64, bool, error) {
	g.calls++
	return g.lat, g.lon, g.found, g.err
}

type fakeClimate struct {
	temp    float64
	present bool
	err     error
	calls   int
}

func (c *fakeClimate) MeanTemperature(context.Context, float64, float64, int) (float64, bool, error) {
	c.calls++
	return c.temp, c.present, c.err
}

func fixedClock(month time.Month) func() time.Time {
	return func() time.Time {
		return time.Date(2026, month, 15, 0, 0, 0, 0, time.UTC)
	}
}

func TestToolReportsTemperature(t *testing.T) {
	geo := &fakeGeocoder{lat: 35.68, lon: 139.69, found: true}
	climate := &fakeClimate{temp: 27.4, present: true}
	tool := NewTool(geo, climate)
	tool.now = fixedClock(time.August)

	env, err := tool.Answer(context.Background(), "what is the weather in tokyo")
	if err != nil {
		t.Fatalf("Answer: %v", err)
	}
	want := "The average temperature in Tokyo in month 8 is around 27.4°C."
	if env.Body != want {
		t.Errorf("body = %q, want %q", env.Body, want)
	}
	if len(env.ReferenceURLs) != 0 {
		t.Errorf("unexpected references: %v", env.ReferenceURLs)
	}
}

func TestToolUnknownCitySkipsClimate(t *testing.T) {
	geo := &fakeGeocoder{found: false}
	climate := &fakeClimate{temp: 20, present: true}
	tool := NewTool(geo, climate)
	tool.now = fixedClock(time.January)

	env, err := tool.Answer(context.Background(), "weather in Atlantis")
	if err != nil {
		t.Fatalf("Answer: %v", err)
	}
	if env.Body != "Sorry, I couldn't find Atlantis." {
		t.Errorf("body = %q", env.Body)
	}
	if climate.calls != 0 {
		t.Errorf("climate queried %d times for unknown city", climate.calls)
	}
}

func TestToolClimateDataAbsent(t *testing.T) {
	geo := &fakeGeocoder{lat: 1, lon: 2, found: true}
	climate := &fakeClimate{present: false}
	tool := NewTool(geo, climate)
	tool.now = fixedClock(time.March)

	env, err := tool.Answer(context.Background(), "weather in Nowhere")
	if err != nil {
		t.Fatalf("Answer: %v", err)
	}
	if env.Body != "Weather data unavailable." {
		t.Errorf("body = %q", env.Body)
	}
}

func TestToolFallsBackToWholeQuery(t *testing.T) {
	geo := &fakeGeocoder{found: false}
	tool := NewTool(geo, &fakeClimate{})
	tool.now = fixedClock(time.March)

	env, err := tool.Answer(context.Background(), "Singapore")
	if err != nil {
		t.Fatalf("Answer: %v", err)
	}
	if env.Body != "Sorry, I couldn't find Singapore." {
		t.Errorf("body = %q", env.Body)
	}
}

func TestOpenMeteoGeocoder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("name"); got != "Kuala Lumpur" {
			t.Errorf("name = %q", got)
		}
		fmt.Fprint(w, `{"results":[{"latitude":3.14,"longitude":101.69}]}`)
	}))
	defer srv.Close()

	geo := NewOpenMeteoGeocoder(srv.URL, time.Second)
	lat, lon, ok, err := geo.Geocode(context.Background(), "Kuala Lumpur")
	if err != nil {
		t.Fatalf("Geocode: %v", err)
	}
	if !ok || lat != 3.14 || lon != 101.69 {
		t.Errorf("got (%v, %v, %v)", lat, lon, ok)
	}
}

func TestOpenMeteoGeocoderNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"generationtime_ms":0.5}`)
	}))
	defer srv.Close()

	geo := NewOpenMeteoGeocoder(srv.URL, time.Second)
	_, _, ok, err := geo.Geocode(context.Background(), "Atlantis")
	if err != nil {
		t.Fatalf("Geocode: %v", err)
	}
	if ok {
		t.Error("expected not-found for empty results")
	}
}

func TestOpenMeteoClimate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("latitude") != "3.14" || q.Get("longitude") != "101.69" || q.Get("month") != "8" {
			t.Errorf("unexpected query: %s", r.URL.RawQuery)
		}
		fmt.Fprint(w, `{"data":{"temperature_2m_mean":27.9}}`)
	}))
	defer srv.Close()

	c := NewOpenMeteoClimate(srv.URL, time.Second)
	temp, ok, err := c.MeanTemperature(context.Background(), 3.14, 101.69, 8)
	if err != nil {
		t.Fatalf("MeanTemperature: %v", err)
	}
	if !ok || temp != 27.9 {
		t.Errorf("got (%v, %v)", temp, ok)
	}
}

func TestOpenMeteoClimateAbsent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data":{}}`)
	}))
	defer srv.Close()

	c := NewOpenMeteoClimate(srv.URL, time.Second)
	_, ok, err := c.MeanTemperature(context.Background(), 0, 0, 1)
	if err != nil {
		t.Fatalf("MeanTemperature: %v", err)
	}
	if ok {
		t.Error("expected absent temperature")
	}
}

func TestOpenMeteoErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	geo := NewOpenMeteoGeocoder(srv.URL, time.Second)
	if _, _, _, err := geo.Geocode(context.Background(), "Tokyo"); err == nil {
		t.Error("expected error for non-200 status")
	}
}
