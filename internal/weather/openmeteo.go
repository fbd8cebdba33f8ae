package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// OpenMeteoGeocoder resolves city names via an open-meteo style
// geocoding endpoint (GET {endpoint}?name={city}).
type OpenMeteoGeocoder struct {
	endpoint string
	client   *http.Client
}

func NewOpenMeteoGeocoder(endpoint string, timeout time.Duration) *OpenMeteoGeocoder {
	return &OpenMeteoGeocoder{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

type geocodeResponse struct {
	Results []struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	} `json:"results"`
}

func (g *OpenMeteoGeocoder) Geocode(ctx context.Context, city string) (float64, float64, bool, error) {
	reqURL := fmt.Sprintf("%s?name=%s", g.endpoint, url.QueryEscape(city))
	body, err := getJSON(ctx, g.client, reqURL)
	if err != nil {
		return 0, 0, false, fmt.Errorf("geocoding request failed: %w", err)
	}

	var resp geocodeResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return 0, 0, false, fmt.Errorf("failed to decode geocoding response: %w", err)
	}
	if len(resp.Results) == 0 {
		return 0, 0, false, nil
	}
	return resp.Results[0].Latitude, resp.Results[0].Longitude, true, nil
}

// OpenMeteoClimate queries climate normals from an open-meteo style
// endpoint (GET {endpoint}?latitude=..&longitude=..&month=..).
type OpenMeteoClimate struct {
	endpoint string
	client   *http.Client
}

func NewOpenMeteoClimate(endpoint string, timeout time.Duration) *OpenMeteoClimate {
	return &OpenMeteoClimate{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

type climateResponse struct {
	Data struct {
		TemperatureMean *float64 `json:"temperature_2m_mean"`
	} `json:"data"`
}

func (c *OpenMeteoClimate) MeanTemperature(ctx context.Context, lat, lon float64, month int) (float64, bool, error) {
	query := url.Values{}
	query.Set("latitude", strconv.FormatFloat(lat, 'f', -1, 64))
	query.Set("longitude", strconv.FormatFloat(lon, 'f', -1, 64))
	query.Set("month", strconv.Itoa(month))
	reqURL := fmt.Sprintf("%s?%s", c.endpoint, query.Encode())

	body, err := getJSON(ctx, c.client, reqURL)
	if err != nil {
		return 0, false, fmt.Errorf("climate request failed: %w", err)
	}

	var resp climateResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return 0, false, fmt.Errorf("failed to decode climate response: %w", err)
	}
	if resp.Data.TemperatureMean == nil {
		return 0, false, nil
	}
	return *resp.Data.TemperatureMean, true, nil
}

func getJSON(ctx context.Context, client *http.Client, reqURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
