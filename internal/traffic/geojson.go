package traffic

import (
	geojson "github.com/paulmach/go.geojson"
)

// GeoJSON exports the renderer geometry: one LineString per street and one
// Point per parking binding, positioned along the bound street.
func (w *World) GeoJSON() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, s := range w.streets {
		pl := s.Placement()
		f := geojson.NewLineStringFeature([][]float64{{pl.X1, pl.Y1}, {pl.X2, pl.Y2}})
		f.ID = s.ID()
		f.SetProperty("kind", "street")
		f.SetProperty("length", s.Length())
		f.SetProperty("lanes", s.Lanes())
		f.SetProperty("head", s.Head().String())
		f.SetProperty("tail", s.Tail().String())
		f.SetProperty("gen_probability", s.GenProbability())
		f.SetProperty("vehicles", s.Vehicles())
		fc.AddFeature(f)
	}
	for _, p := range w.parkings {
		for _, b := range p.bindings {
			s := w.streetByID[b.Street]
			if s == nil {
				continue
			}
			x, y := s.Placement().PointAt(b.Index, s.Length())
			f := geojson.NewPointFeature([]float64{x, y})
			f.SetProperty("kind", "parking")
			f.SetProperty("parking", p.id)
			f.SetProperty("role", b.Role.String())
			f.SetProperty("street", b.Street)
			f.SetProperty("lane", b.Lane)
			f.SetProperty("index", b.Index)
			f.SetProperty("occupancy", p.occupancy)
			f.SetProperty("capacity", p.capacity)
			fc.AddFeature(f)
		}
	}
	return fc
}
