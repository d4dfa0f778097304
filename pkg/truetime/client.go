// Package truetime is a client for the TrueTime real-time bus API
// (bustime v3 getpredictions).
package truetime

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const stampLayout = "20060102 15:04"

// Prediction is one live arrival estimate for a stop.
type Prediction struct {
	TripID        string
	LogTime       string // poll timestamp, 2006-01-02T15:04
	StopName      string
	StopID        string
	RouteID       string
	Direction     string // OUTBOUND or INBOUND
	StartDate     string // scheduled trip start date, 2006-01-02
	StartSeconds  int    // scheduled trip start, seconds past midnight
	PredictedTime string // predicted arrival clock, 15:04
}

type Client struct {
	baseURL    string
	apiKey     string
	feed       string // rtpidatafeed name
	stopIDs    []string
	httpClient *http.Client
}

func New(baseURL, apiKey, feed string, stopIDs []string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		feed:    feed,
		stopIDs: stopIDs,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

type apiResponse struct {
	BustimeResponse struct {
		Predictions []apiPrediction `json:"prd"`
		Errors      []apiError      `json:"error"`
	} `json:"bustime-response"`
}

type apiError struct {
	Message string `json:"msg"`
}

type apiPrediction struct {
	TripID        string `json:"tatripid"`
	Timestamp     string `json:"tmstmp"` // 20060102 15:04
	StopName      string `json:"stpnm"`
	StopID        string `json:"stpid"`
	Route         string `json:"rt"`
	RouteDir      string `json:"rtdir"`
	StartDate     string `json:"stsd"` // 2006-01-02
	StartSeconds  int    `json:"stst"`
	PredictedTime string `json:"prdtm"` // 20060102 15:04
}

// Predictions fetches the current arrival estimates for the client's stops.
// An empty result is normal (no buses due at the stops right now); the API
// reports that as an error entry instead of a prd list, with minute time
// resolution requested via tmres.
func (c *Client) Predictions(ctx context.Context) ([]Prediction, error) {
	params := url.Values{}
	params.Set("format", "json")
	params.Set("key", c.apiKey)
	params.Set("rtpidatafeed", c.feed)
	params.Set("stpid", strings.Join(c.stopIDs, ","))
	params.Set("tmres", "m")

	reqURL := fmt.Sprintf("%s?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var apiResp apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	return c.toPredictions(apiResp.BustimeResponse.Predictions), nil
}

func (c *Client) toPredictions(entries []apiPrediction) []Prediction {
	result := make([]Prediction, 0, len(entries))

	for _, e := range entries {
		if e.TripID == "" {
			continue
		}
		logTime, err := time.Parse(stampLayout, e.Timestamp)
		if err != nil {
			continue
		}
		// prdtm carries "YYYYMMDD HH:MM"; only the clock is logged
		_, predicted, found := strings.Cut(e.PredictedTime, " ")
		if !found {
			continue
		}

		result = append(result, Prediction{
			TripID:        e.TripID,
			LogTime:       logTime.Format("2006-01-02T15:04"),
			StopName:      e.StopName,
			StopID:        e.StopID,
			RouteID:       e.Route,
			Direction:     e.RouteDir,
			StartDate:     e.StartDate,
			StartSeconds:  e.StartSeconds,
			PredictedTime: predicted,
		})
	}

	return result
}
