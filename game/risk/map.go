package risk

import (
	"sort"

	"ismcts/game"
)

type Canton struct {
	ID           int    // Unique identifier for the canton
	Name         string // Full name of the canton
	Abbreviation string
	Pos          game.Pos // Rough grid position, Geneva at the origin
	AdjacentIDs  []int    // Sorted IDs of adjacent cantons
}

// Region is a group of cantons granting bonus troops to a sole owner.
type Region struct {
	Name      string
	CantonIDs []int
	Bonus     int
}

// Map represents the game map, containing all the cantons. It is shared by
// every state copy and never mutated after CreateMap.
type Map struct {
	Cantons []*Canton
	Regions []*Region
}

func (m *Map) addBorder(id1, id2 int) {
	if !contains(m.Cantons[id1].AdjacentIDs, id2) {
		m.Cantons[id1].AdjacentIDs = append(m.Cantons[id1].AdjacentIDs, id2)
	}
	if !contains(m.Cantons[id2].AdjacentIDs, id1) {
		m.Cantons[id2].AdjacentIDs = append(m.Cantons[id2].AdjacentIDs, id1)
	}
}

func contains(slice []int, item int) bool {
	for _, v := range slice {
		if v == item {
			return true
		}
	}
	return false
}

// CreateMap builds the Swiss canton map.
func CreateMap() *Map {
	m := &Map{Cantons: make([]*Canton, len(cantonAbbreviations))}
	for id, abbrev := range cantonAbbreviations {
		m.Cantons[id] = &Canton{
			ID:           id,
			Name:         cantonNames[id],
			Abbreviation: abbrev,
			Pos:          cantonPositions[abbrev],
		}
	}

	for id, abbrev := range cantonAbbreviations {
		for _, neighbor := range adjacencyData[abbrev] {
			m.addBorder(id, cantonIDMap[neighbor])
		}
	}
	for _, c := range m.Cantons {
		sort.Ints(c.AdjacentIDs)
	}

	for _, r := range regionData {
		region := &Region{Name: r.name, Bonus: r.bonus}
		for _, abbrev := range r.cantons {
			region.CantonIDs = append(region.CantonIDs, cantonIDMap[abbrev])
		}
		m.Regions = append(m.Regions, region)
	}
	return m
}

func (m *Map) AreAdjacent(id1, id2 int) bool {
	return contains(m.Cantons[id1].AdjacentIDs, id2)
}

var cantonAbbreviations = []string{
	"AG", "AI", "AR", "BE", "BL", "BS", "FR", "GE", "GL", "GR",
	"JU", "LU", "NE", "NW", "OW", "SG", "SH", "SO", "SZ", "TG",
	"TI", "UR", "VD", "VS", "ZG", "ZH",
}

var cantonNames = []string{
	"Aargau", "Appenzell Innerrhoden", "Appenzell Ausserrhoden", "Bern",
	"Basel-Landschaft", "Basel-Stadt", "Fribourg", "Geneva", "Glarus",
	"Graubünden", "Jura", "Lucerne", "Neuchâtel", "Nidwalden", "Obwalden",
	"St. Gallen", "Schaffhausen", "Solothurn", "Schwyz", "Thurgau",
	"Ticino", "Uri", "Vaud", "Valais", "Zug", "Zürich",
}

var cantonIDMap = map[string]int{
	"AG": 0, "AI": 1, "AR": 2, "BE": 3, "BL": 4, "BS": 5,
	"FR": 6, "GE": 7, "GL": 8, "GR": 9, "JU": 10, "LU": 11,
	"NE": 12, "NW": 13, "OW": 14, "SG": 15, "SH": 16, "SO": 17,
	"SZ": 18, "TG": 19, "TI": 20, "UR": 21, "VD": 22, "VS": 23,
	"ZG": 24, "ZH": 25,
}

var cantonPositions = map[string]game.Pos{
	"GE": {X: 0, Y: 0}, "VD": {X: 1, Y: 1}, "VS": {X: 3, Y: 0}, "FR": {X: 2, Y: 2},
	"NE": {X: 1, Y: 3}, "JU": {X: 2, Y: 4}, "BE": {X: 3, Y: 2}, "SO": {X: 3, Y: 4},
	"BL": {X: 3, Y: 5}, "BS": {X: 3, Y: 6}, "AG": {X: 5, Y: 5}, "LU": {X: 5, Y: 3},
	"OW": {X: 5, Y: 2}, "NW": {X: 6, Y: 2}, "UR": {X: 6, Y: 1}, "TI": {X: 6, Y: 0},
	"ZG": {X: 6, Y: 4}, "SZ": {X: 7, Y: 3}, "ZH": {X: 7, Y: 5}, "SH": {X: 7, Y: 6},
	"TG": {X: 8, Y: 6}, "GL": {X: 8, Y: 3}, "SG": {X: 9, Y: 5}, "AR": {X: 10, Y: 5},
	"AI": {X: 10, Y: 4}, "GR": {X: 9, Y: 1},
}

var adjacencyData = map[string][]string{
	"AG": {"BL", "LU", "ZG", "ZH", "SO"},
	"AI": {"AR", "SG"},
	"AR": {"AI", "SG"},
	"BE": {"FR", "JU", "NE", "SO", "VD", "VS", "LU"},
	"BL": {"AG", "BS", "SO", "JU"},
	"BS": {"BL"},
	"FR": {"BE", "VD", "NE"},
	"GE": {"VD"},
	"GL": {"SG", "SZ", "GR"},
	"GR": {"SG", "TI", "GL", "UR"},
	"JU": {"BE", "SO", "BL"},
	"LU": {"AG", "BE", "NW", "OW", "ZG"},
	"NE": {"BE", "FR", "VD"},
	"NW": {"OW", "LU", "UR"},
	"OW": {"NW", "UR", "LU"},
	"SG": {"AI", "AR", "GL", "TG", "ZH", "GR"},
	"SH": {"ZH", "TG"},
	"SO": {"BE", "BL", "JU", "AG"},
	"SZ": {"ZG", "UR", "GL"},
	"TG": {"SH", "SG", "ZH"},
	"TI": {"GR", "VS", "UR"},
	"UR": {"SZ", "OW", "GR", "TI", "NW"},
	"VD": {"GE", "FR", "VS", "NE", "BE"},
	"VS": {"VD", "BE", "TI", "UR"},
	"ZG": {"AG", "SZ", "LU", "ZH"},
	"ZH": {"AG", "SG", "TG", "SH", "ZG"},
}

var regionData = []struct {
	name    string
	cantons []string
	bonus   int
}{
	{"Romandy", []string{"GE", "VD", "NE", "FR", "JU"}, 3},
	{"Mittelland", []string{"BE", "SO", "BL", "BS", "AG"}, 3},
	{"Central", []string{"LU", "ZG", "SZ", "UR", "OW", "NW"}, 3},
	{"East", []string{"ZH", "SH", "TG", "SG", "AR", "AI", "GL"}, 4},
	{"Alps", []string{"VS", "TI", "GR"}, 2},
}
