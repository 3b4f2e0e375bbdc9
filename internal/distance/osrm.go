// Package distance talks to an OSRM-compatible table service to fetch an
// N x N travel-time matrix for a set of geographic points.
package distance

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/opticore/optirider/internal/model"
)

// Provider fetches a travel-time matrix in seconds for an ordered set of
// points; points[0] is always the depot.
type Provider interface {
	Matrix(ctx context.Context, points []model.Point) ([][]int, error)
}

// OSRMClient is the external-collaborator distance provider of spec.md §6:
// a GET against {baseURL}/table/v1/driving/lon,lat;lon,lat;....
type OSRMClient struct {
	BaseURL string
	HTTP    *http.Client
}

// NewOSRMClient builds a client bound to baseURL with the given request
// timeout.
func NewOSRMClient(baseURL string, timeout time.Duration) *OSRMClient {
	return &OSRMClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: timeout},
	}
}

type tableResponse struct {
	Durations [][]float64 `json:"durations"`
	Code      string      `json:"code"`
	Message   string      `json:"message"`
}

// Matrix fetches the travel-time matrix for points, rounding every entry
// to the nearest integer second.
func (c *OSRMClient) Matrix(ctx context.Context, points []model.Point) ([][]int, error) {
	if len(points) == 0 {
		return [][]int{}, nil
	}

	coords := make([]string, len(points))
	for i, p := range points {
		coords[i] = fmt.Sprintf("%s,%s",
			strconv.FormatFloat(p.Longitude, 'f', -1, 64),
			strconv.FormatFloat(p.Latitude, 'f', -1, 64),
		)
	}

	// OSRM's table path needs its semicolons and commas unescaped, so this
	// is built directly rather than through url.PathEscape.
	reqURL := fmt.Sprintf("%s/table/v1/driving/%s", c.BaseURL, strings.Join(coords, ";"))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("distance: build request: %w", err)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("distance: table request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("distance: read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("distance: table request returned status %d: %s", resp.StatusCode, string(body))
	}

	var table tableResponse
	if err := json.Unmarshal(body, &table); err != nil {
		return nil, fmt.Errorf("distance: decode response: %w", err)
	}
	if table.Code != "" && table.Code != "Ok" {
		return nil, fmt.Errorf("distance: osrm error %q: %s", table.Code, table.Message)
	}
	if len(table.Durations) != len(points) {
		return nil, fmt.Errorf("distance: expected %d rows, got %d", len(points), len(table.Durations))
	}

	matrix := make([][]int, len(table.Durations))
	for i, row := range table.Durations {
		if len(row) != len(points) {
			return nil, fmt.Errorf("distance: row %d has %d columns, want %d", i, len(row), len(points))
		}
		matrix[i] = make([]int, len(row))
		for j, v := range row {
			matrix[i][j] = int(v + 0.5)
		}
		matrix[i][i] = 0
	}

	return matrix, nil
}
