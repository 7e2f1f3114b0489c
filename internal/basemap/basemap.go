// Package basemap fetches and decodes the world land and country geometry the
// scene is drawn over. TopoJSON topologies and GeoJSON documents are both
// accepted; everything is converted to go.geojson geometries.
package basemap

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	geojson "github.com/paulmach/go.geojson"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrFetch reports a transport failure or a non-2xx response.
	ErrFetch = errors.New("basemap: fetch failed")
	// ErrDecode reports a document that is not usable geometry.
	ErrDecode = errors.New("basemap: decode failed")
)

const (
	// DefaultCountriesURL is the Natural Earth 1:110m countries topology
	// from the world-atlas package, used for borders.
	DefaultCountriesURL = "https://unpkg.com/world-atlas@2/countries-110m.json"

	// DefaultLandURL is the matching 1:110m land topology, used for the
	// coastline and the land mask.
	DefaultLandURL = "https://unpkg.com/world-atlas@2/land-110m.json"

	landObject      = "land"
	countriesObject = "countries"
	maxDocument     = 64 << 20
)

// Source names where the two basemap documents come from. Each entry is an
// http(s) URL or a local file path.
type Source struct {
	Countries string
	Land      string
}

// DefaultSource points at the 1:110m world atlas.
func DefaultSource() Source {
	return Source{Countries: DefaultCountriesURL, Land: DefaultLandURL}
}

// Basemap is decoded land and border geometry in lon/lat degrees.
type Basemap struct {
	// Land holds land polygons for containment tests and coastlines.
	Land []*geojson.Geometry
	// Borders holds the lines separating neighbouring countries.
	Borders []*geojson.Geometry
}

// Loader fetches basemap documents.
type Loader struct {
	Client *http.Client
}

// NewLoader returns a loader with a bounded request timeout.
func NewLoader() *Loader {
	return &Loader{Client: &http.Client{Timeout: 30 * time.Second}}
}

// Load fetches both documents concurrently and decodes them. Either failure
// fails the whole load.
func (l *Loader) Load(ctx context.Context, src Source) (*Basemap, error) {
	var countries, land []byte
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		countries, err = l.Fetch(gctx, src.Countries)
		return err
	})
	g.Go(func() error {
		var err error
		land, err = l.Fetch(gctx, src.Land)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return Decode(countries, land)
}

// Fetch reads one document from a URL or file path.
func (l *Loader) Fetch(ctx context.Context, src string) ([]byte, error) {
	if src == "" {
		return nil, fmt.Errorf("%w: empty source", ErrFetch)
	}
	if !strings.HasPrefix(src, "http://") && !strings.HasPrefix(src, "https://") {
		data, err := os.ReadFile(src)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrFetch, err)
		}
		return data, nil
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	client := l.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s: %s", ErrFetch, src, resp.Status)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDocument))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrFetch, src, err)
	}
	return data, nil
}

// Decode builds a Basemap from a countries document and a land document.
// Land comes from the land document; borders are the country edges shared by
// two different countries. When a GeoJSON countries document is given every
// country outline is used, since shared edges are not recorded there.
func Decode(countries, land []byte) (*Basemap, error) {
	landGeoms, err := DecodeLand(land)
	if err != nil {
		return nil, fmt.Errorf("land: %w", err)
	}
	borders, err := DecodeBorders(countries)
	if err != nil {
		return nil, fmt.Errorf("countries: %w", err)
	}
	return &Basemap{Land: landGeoms, Borders: borders}, nil
}

// DecodeLand extracts land polygons. A topology without a land object falls
// back to its countries object.
func DecodeLand(data []byte) ([]*geojson.Geometry, error) {
	if isTopology(data) {
		t, err := decodeTopology(data)
		if err != nil {
			return nil, err
		}
		name := landObject
		if _, ok := t.Objects[name]; !ok {
			name = countriesObject
		}
		obj, err := t.object(name)
		if err != nil {
			return nil, err
		}
		g, err := t.feature(obj)
		if err != nil {
			return nil, err
		}
		return []*geojson.Geometry{g}, nil
	}
	return decodeGeoJSON(data)
}

// DecodeBorders extracts country border lines.
func DecodeBorders(data []byte) ([]*geojson.Geometry, error) {
	if isTopology(data) {
		t, err := decodeTopology(data)
		if err != nil {
			return nil, err
		}
		obj, err := t.object(countriesObject)
		if err != nil {
			return nil, err
		}
		m, err := t.mesh(obj)
		if err != nil {
			return nil, err
		}
		return []*geojson.Geometry{m}, nil
	}
	return decodeGeoJSON(data)
}

func isTopology(data []byte) bool {
	var head struct {
		Type string `json:"type"`
	}
	return json.Unmarshal(data, &head) == nil && head.Type == "Topology"
}

// decodeGeoJSON accepts a FeatureCollection, a Feature or a bare geometry.
func decodeGeoJSON(data []byte) ([]*geojson.Geometry, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(bytes.TrimSpace(data), &head); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	switch head.Type {
	case "FeatureCollection":
		fc, err := geojson.UnmarshalFeatureCollection(data)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDecode, err)
		}
		out := make([]*geojson.Geometry, 0, len(fc.Features))
		for _, f := range fc.Features {
			if f != nil && f.Geometry != nil {
				out = append(out, f.Geometry)
			}
		}
		return out, nil
	case "Feature":
		f, err := geojson.UnmarshalFeature(data)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDecode, err)
		}
		if f.Geometry == nil {
			return nil, nil
		}
		return []*geojson.Geometry{f.Geometry}, nil
	case "":
		return nil, fmt.Errorf("%w: missing type", ErrDecode)
	}
	g, err := geojson.UnmarshalGeometry(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return []*geojson.Geometry{g}, nil
}
