package geo

import (
	"context"
	"fmt"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"
)

// Property keys written onto every feature.
const (
	PropName = "name"
	PropFrom = "from"
)

// Choropleth is the world map with each country flagged by membership in
// the countries list.
type Choropleth struct {
	Features  *geojson.FeatureCollection
	Center    orb.Point // lon, lat
	Countries []Country
	Matched   int
}

// Lat and Lon expose the centre in the order map libraries expect.
func (c *Choropleth) Lat() float64 { return c.Center.Lat() }
func (c *Choropleth) Lon() float64 { return c.Center.Lon() }

// GeoJSON encodes the marked feature collection.
func (c *Choropleth) GeoJSON() ([]byte, error) {
	return c.Features.MarshalJSON()
}

// Mark sets the from property to 1 on features whose id is in countries and
// 0 on every other feature. Properties other than the name are dropped.
func Mark(fc *geojson.FeatureCollection, countries []Country) *Choropleth {
	codes := Codes(countries)
	out := geojson.NewFeatureCollection()
	matched := 0
	for _, f := range fc.Features {
		if f == nil || f.Geometry == nil {
			continue
		}
		nf := geojson.NewFeature(f.Geometry)
		nf.ID = f.ID
		nf.Properties[PropName] = f.Properties.MustString(PropName, featureCode(f))
		from := 0
		if _, ok := codes[featureCode(f)]; ok {
			from = 1
			matched++
		}
		nf.Properties[PropFrom] = from
		out.Append(nf)
	}
	return &Choropleth{
		Features:  out,
		Center:    Center(out),
		Countries: countries,
		Matched:   matched,
	}
}

// Center returns the mean of the planar centroids of all features.
func Center(fc *geojson.FeatureCollection) orb.Point {
	var sx, sy float64
	n := 0
	for _, f := range fc.Features {
		if f == nil || f.Geometry == nil {
			continue
		}
		c, _ := planar.CentroidArea(f.Geometry)
		sx += c.X()
		sy += c.Y()
		n++
	}
	if n == 0 {
		return orb.Point{}
	}
	return orb.Point{sx / float64(n), sy / float64(n)}
}

func featureCode(f *geojson.Feature) string {
	switch id := f.ID.(type) {
	case string:
		return strings.ToUpper(id)
	case nil:
		return strings.ToUpper(f.Properties.MustString("id", ""))
	default:
		return strings.ToUpper(fmt.Sprint(id))
	}
}

// Service builds choropleths from a countries file and a world source.
type Service struct {
	CountriesFile string
	World         WorldSource
}

// Build loads both inputs and marks the map.
func (s *Service) Build(ctx context.Context) (*Choropleth, error) {
	countries, err := LoadCountries(s.CountriesFile)
	if err != nil {
		return nil, err
	}
	fc, err := s.World.World(ctx)
	if err != nil {
		return nil, err
	}
	return Mark(fc, countries), nil
}
