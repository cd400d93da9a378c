package geo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/paulmach/orb/geojson"
)

// DefaultWorldURL serves country boundaries keyed by alpha-3 feature id.
const DefaultWorldURL = "https://raw.githubusercontent.com/johan/world.geo.json/master/countries.geo.json"

const maxWorldBytes = 32 << 20

func init() {
	geojson.CustomJSONMarshaler = sonic.ConfigStd
	geojson.CustomJSONUnmarshaler = sonic.ConfigStd
}

// WorldSource yields the world boundaries the choropleth is drawn on.
type WorldSource interface {
	World(ctx context.Context) (*geojson.FeatureCollection, error)
}

// HTTPWorld downloads boundaries from a URL on every call.
type HTTPWorld struct {
	URL     string
	Client  *http.Client
	Timeout time.Duration
}

// World implements WorldSource.
func (w *HTTPWorld) World(ctx context.Context) (*geojson.FeatureCollection, error) {
	url := w.URL
	if url == "" {
		url = DefaultWorldURL
	}
	client := w.Client
	if client == nil {
		client = http.DefaultClient
	}
	if w.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build world request: %w", err)
	}
	req.Header.Set("Accept", "application/geo+json, application/json")
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch world boundaries: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch world boundaries: unexpected status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxWorldBytes))
	if err != nil {
		return nil, fmt.Errorf("read world boundaries: %w", err)
	}
	return DecodeWorld(body)
}

// DecodeWorld parses a GeoJSON feature collection.
func DecodeWorld(body []byte) (*geojson.FeatureCollection, error) {
	fc, err := geojson.UnmarshalFeatureCollection(body)
	if err != nil {
		return nil, fmt.Errorf("decode world boundaries: %w", err)
	}
	if len(fc.Features) == 0 {
		return nil, errors.New("decode world boundaries: no features")
	}
	return fc, nil
}
