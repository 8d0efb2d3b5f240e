// Package models defines the tables and records produced by the scraper.
package models

import (
	"fmt"
)

// Brightest-stars column names.
const (
	ColVisualMagnitude  = "V Mag. (mV)"
	ColProperName       = "Proper name"
	ColBayerDesignation = "Bayer designation"
	ColDistance         = "Distance (ly)"
	ColSpectralClass    = "Spectral class"
)

// Brown-dwarf column names. ColDistance is shared with the stars table.
const (
	ColBrownDwarf     = "Brown dwarf"
	ColConstellation  = "Constellation"
	ColRightAscension = "Right ascension"
	ColDeclination    = "Declination"
	ColAppMagnitude   = "App. mag."
	ColSpectralType   = "Spectral Type"
	ColMass           = "Mass (MJ)"
	ColRadius         = "Radius (RJ)"
	ColDiscoveryYear  = "Discovery Year"
)

// Qualified distance columns used once both datasets share a table.
const (
	ColStarsDistance      = "Brightest Stars Distance (ly)"
	ColBrownDwarfDistance = "Brown Dwarf Distance (ly)"
)

// StarColumns returns the brightest-stars header.
func StarColumns() []string {
	return []string{ColVisualMagnitude, ColProperName, ColBayerDesignation, ColDistance, ColSpectralClass}
}

// BrownDwarfColumns returns the brown-dwarfs header.
func BrownDwarfColumns() []string {
	return []string{
		ColBrownDwarf, ColConstellation, ColRightAscension, ColDeclination, ColAppMagnitude,
		ColDistance, ColSpectralType, ColMass, ColRadius, ColDiscoveryYear,
	}
}

// StarRecord is one row of the brightest-stars table. Every field is kept
// as scraped text.
type StarRecord struct {
	VisualMagnitude  string `json:"v_mag"`
	ProperName       string `json:"proper_name"`
	BayerDesignation string `json:"bayer_designation"`
	DistanceLY       string `json:"distance_ly"`
	SpectralClass    string `json:"spectral_class"`
}

// Fields returns the record in StarColumns order.
func (r StarRecord) Fields() []string {
	return []string{r.VisualMagnitude, r.ProperName, r.BayerDesignation, r.DistanceLY, r.SpectralClass}
}

// BrownDwarfRecord is one cleaned brown-dwarf row. Mass and radius are in
// solar units.
type BrownDwarfRecord struct {
	Name              string  `json:"name"`
	Constellation     string  `json:"constellation"`
	RightAscension    string  `json:"right_ascension"`
	Declination       string  `json:"declination"`
	ApparentMagnitude string  `json:"app_mag"`
	DistanceLY        string  `json:"distance_ly"`
	SpectralType      string  `json:"spectral_type"`
	Mass              float64 `json:"mass"`
	Radius            float64 `json:"radius"`
	DiscoveryYear     string  `json:"discovery_year"`
}

// DecodeBrownDwarfs reads typed records out of a cleaned brown-dwarf table.
func DecodeBrownDwarfs(t *Table) ([]BrownDwarfRecord, error) {
	idx := make(map[string]int, 10)
	for _, name := range BrownDwarfColumns() {
		i, err := t.MustColumn(name)
		if err != nil {
			return nil, err
		}
		idx[name] = i
	}

	out := make([]BrownDwarfRecord, 0, t.Len())
	for n, row := range t.Rows {
		mass, ok := row[idx[ColMass]].Number()
		if !ok {
			return nil, fmt.Errorf("decode %s row %d: mass is %s", t.Name, n, row[idx[ColMass]].Kind())
		}
		radius, ok := row[idx[ColRadius]].Number()
		if !ok {
			return nil, fmt.Errorf("decode %s row %d: radius is %s", t.Name, n, row[idx[ColRadius]].Kind())
		}
		out = append(out, BrownDwarfRecord{
			Name:              row[idx[ColBrownDwarf]].String(),
			Constellation:     row[idx[ColConstellation]].String(),
			RightAscension:    row[idx[ColRightAscension]].String(),
			Declination:       row[idx[ColDeclination]].String(),
			ApparentMagnitude: row[idx[ColAppMagnitude]].String(),
			DistanceLY:        row[idx[ColDistance]].String(),
			SpectralType:      row[idx[ColSpectralType]].String(),
			Mass:              mass,
			Radius:            radius,
			DiscoveryYear:     row[idx[ColDiscoveryYear]].String(),
		})
	}
	return out, nil
}
