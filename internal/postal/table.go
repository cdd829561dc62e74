package postal

import (
	"context"
	"maps"
)

// cityByCode is the built-in code -> city table used when the remote lookup
// is unavailable.
var cityByCode = map[string]string{
	"10115": "Berlin",
	"80331": "München",
	"50667": "Köln",
	"60311": "Frankfurt am Main",
	"20095": "Hamburg",
	"70173": "Stuttgart",
	"40213": "Düsseldorf",
	"44135": "Dortmund",
	"45127": "Essen",
	"66111": "Saarbrücken",
	"01067": "Dresden",
	"04103": "Leipzig",
	"30159": "Hannover",
	"99084": "Erfurt",
	"55116": "Mainz",
	"66117": "Saarbrücken",
	"97070": "Würzburg",
	"93047": "Regensburg",
	"86150": "Augsburg",
	"94032": "Passau",
	"88212": "Ravensburg",
	"88339": "Bad Waldsee",
}

// codesByCity lists known codes for the largest cities, keyed by normalized name.
var codesByCity = map[string][]string{
	"berlin":            {"10115", "10178", "10243", "10318", "10405", "10551", "10623", "10707", "10825", "10961"},
	"münchen":           {"80331", "80335", "80469", "80538", "80634", "80796", "80801", "80802", "80803", "80804"},
	"hamburg":           {"20095", "20097", "20099", "20144", "20146", "20249", "20251", "20253", "20255", "20354"},
	"köln":              {"50667", "50668", "50670", "50672", "50674", "50676", "50677", "50678", "50679", "50733"},
	"frankfurt am main": {"60311", "60313", "60314", "60316", "60318", "60320", "60322", "60323", "60325", "60326"},
}

// CodeTable returns a copy of the built-in code -> city table.
func CodeTable() map[string]string {
	return maps.Clone(cityByCode)
}

// CityCodeTable returns a copy of the built-in city -> codes table.
func CityCodeTable() map[string][]string {
	out := make(map[string][]string, len(codesByCity))
	for city, codes := range codesByCity {
		out[city] = append([]string(nil), codes...)
	}
	return out
}

// StaticGazetteer serves lookups from the built-in tables.
type StaticGazetteer struct {
	cities map[string]string
	codes  map[string][]string
}

var _ Gazetteer = (*StaticGazetteer)(nil)

func NewStaticGazetteer() *StaticGazetteer {
	return &StaticGazetteer{cities: CodeTable(), codes: CityCodeTable()}
}

func (g *StaticGazetteer) LookupCode(_ context.Context, code string) (Place, bool, error) {
	city, ok := g.cities[code]
	if !ok {
		return Place{}, false, nil
	}
	return Place{Code: code, City: city}, true, nil
}

func (g *StaticGazetteer) CodesForCity(_ context.Context, cityKey string) ([]string, error) {
	codes, ok := g.codes[cityKey]
	if !ok {
		return nil, nil
	}
	return append([]string(nil), codes...), nil
}
