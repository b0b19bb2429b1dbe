package solar

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// =============================================================================
// NOAA SWPC FETCHER
// =============================================================================

const (
	// DefaultBaseURL is the public SWPC services root.
	DefaultBaseURL = "https://services.swpc.noaa.gov"

	kpPath   = "/products/noaa-planetary-k-index.json"
	xrayPath = "/json/goes/primary/xrays-1-day.json"

	longBand   = "0.1-0.8nm"
	timeLayout = "2006-01-02 15:04:05.000"
)

// Fetcher retrieves the latest space-weather observation.
type Fetcher interface {
	Fetch(ctx context.Context) (Observation, error)
}

// SWPCFetcher reads the planetary K index and GOES X-ray feeds.
type SWPCFetcher struct {
	baseURL string
	client  *http.Client
}

// NewSWPCFetcher creates a fetcher. An empty baseURL uses DefaultBaseURL and
// a non-positive timeout uses 10s.
func NewSWPCFetcher(baseURL string, timeout time.Duration) *SWPCFetcher {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &SWPCFetcher{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// Fetch returns the latest Kp and long-band X-ray flux.
func (f *SWPCFetcher) Fetch(ctx context.Context) (Observation, error) {
	kp, at, err := f.fetchKp(ctx)
	if err != nil {
		return Observation{}, err
	}
	flux, err := f.fetchFlux(ctx)
	if err != nil {
		return Observation{}, err
	}
	return Observation{Kp: kp, Flux: flux, ObservedAt: at, Source: SourceSWPC}, nil
}

func (f *SWPCFetcher) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("swpc request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("swpc returned status %d: %s", resp.StatusCode, string(body))
	}
	return body, nil
}

// fetchKp accepts both feed shapes: a header row followed by string rows,
// and a list of objects.
func (f *SWPCFetcher) fetchKp(ctx context.Context) (float64, time.Time, error) {
	body, err := f.get(ctx, kpPath)
	if err != nil {
		return 0, time.Time{}, err
	}
	var rows []json.RawMessage
	if err := json.Unmarshal(body, &rows); err != nil {
		return 0, time.Time{}, fmt.Errorf("failed to decode kp feed: %w", err)
	}

	for i := len(rows) - 1; i >= 0; i-- {
		kp, at, ok := parseKpRow(rows[i])
		if ok {
			return kp, at, nil
		}
	}
	return 0, time.Time{}, fmt.Errorf("kp feed has no data rows")
}

func parseKpRow(raw json.RawMessage) (float64, time.Time, bool) {
	var arr []any
	if err := json.Unmarshal(raw, &arr); err == nil {
		if len(arr) < 2 {
			return 0, time.Time{}, false
		}
		kp, ok := toFloat(arr[1])
		if !ok {
			return 0, time.Time{}, false
		}
		ts, _ := arr[0].(string)
		return kp, parseTime(ts), true
	}

	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err != nil {
		return 0, time.Time{}, false
	}
	for _, key := range []string{"Kp", "kp", "kp_index"} {
		if v, ok := obj[key]; ok {
			kp, ok := toFloat(v)
			if !ok {
				return 0, time.Time{}, false
			}
			ts, _ := obj["time_tag"].(string)
			return kp, parseTime(ts), true
		}
	}
	return 0, time.Time{}, false
}

type xrayRow struct {
	TimeTag string  `json:"time_tag"`
	Flux    float64 `json:"flux"`
	Energy  string  `json:"energy"`
}

func (f *SWPCFetcher) fetchFlux(ctx context.Context) (float64, error) {
	body, err := f.get(ctx, xrayPath)
	if err != nil {
		return 0, err
	}
	var rows []xrayRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return 0, fmt.Errorf("failed to decode xray feed: %w", err)
	}
	for i := len(rows) - 1; i >= 0; i-- {
		if rows[i].Energy == longBand && rows[i].Flux > 0 {
			return rows[i].Flux, nil
		}
	}
	return 0, fmt.Errorf("xray feed has no %s samples", longBand)
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func parseTime(s string) time.Time {
	for _, layout := range []string{timeLayout, "2006-01-02 15:04:05", "2006-01-02T15:04:05Z", "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
