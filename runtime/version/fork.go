package version

const (
	Phase0 = iota
	Altair
	Bellatrix
	Capella
)

var versionToString = map[int]string{
	Phase0:    "phase0",
	Altair:    "altair",
	Bellatrix: "bellatrix",
	Capella:   "capella",
}

// String returns the human readable name of a fork version.
func String(version int) string {
	name, ok := versionToString[version]
	if !ok {
		return "unknown version"
	}
	return name
}

// All returns every known fork version in ascending order.
func All() []int {
	return []int{Phase0, Altair, Bellatrix, Capella}
}
