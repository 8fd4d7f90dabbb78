package domain

import "strings"

// Body identifies a body covered by a VSOP87D data file.
type Body struct {
	Abbr string // E.g., "ear", "mar".
	Name string // E.g., "Earth".
	File string // Data file name, e.g. "VSOP87D.ear".
}

// StandardBodies lists the bodies published in the VSOP87D series.
var StandardBodies = []Body{
	{Abbr: "mer", Name: "Mercury", File: "VSOP87D.mer"},
	{Abbr: "ven", Name: "Venus", File: "VSOP87D.ven"},
	{Abbr: "ear", Name: "Earth", File: "VSOP87D.ear"},
	{Abbr: "mar", Name: "Mars", File: "VSOP87D.mar"},
	{Abbr: "jup", Name: "Jupiter", File: "VSOP87D.jup"},
	{Abbr: "sat", Name: "Saturn", File: "VSOP87D.sat"},
	{Abbr: "ura", Name: "Uranus", File: "VSOP87D.ura"},
	{Abbr: "nep", Name: "Neptune", File: "VSOP87D.nep"},
}

// NormalizeBodyAbbr folds a user supplied abbreviation to catalog form.
func NormalizeBodyAbbr(abbr string) string {
	return strings.ToLower(strings.TrimSpace(abbr))
}
