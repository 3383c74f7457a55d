package models

import "github.com/twpayne/go-polyline"

type CoordinatePoint struct {
	Lat float64
	Lon float64
}

// Polyline is a path encoded with the Google polyline algorithm
type Polyline struct {
	Length int    `json:"length"`
	Levels string `json:"levels"`
	Points string `json:"points"`
}

func NewPolyline(points []CoordinatePoint) Polyline {
	coords := make([][]float64, 0, len(points))
	for _, p := range points {
		coords = append(coords, []float64{p.Lat, p.Lon})
	}
	return Polyline{
		Length: len(points),
		Points: string(polyline.EncodeCoords(coords)),
	}
}

// Coordinates decodes the polyline back into coordinates
func (p Polyline) Coordinates() ([]CoordinatePoint, error) {
	coords, _, err := polyline.DecodeCoords([]byte(p.Points))
	if err != nil {
		return nil, err
	}
	points := make([]CoordinatePoint, 0, len(coords))
	for _, c := range coords {
		points = append(points, CoordinatePoint{Lat: c[0], Lon: c[1]})
	}
	return points, nil
}
