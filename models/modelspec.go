package models

// ModelSpec names one transcription model size.
type ModelSpec string

// Model sizes, weakest to strongest.
const (
	ModelTiny   ModelSpec = "tiny"
	ModelSmall  ModelSpec = "small"
	ModelMedium ModelSpec = "medium"
	ModelLarge  ModelSpec = "large"
)

// ModelSpecs lists all valid sizes in capability order.
var ModelSpecs = []ModelSpec{ModelTiny, ModelSmall, ModelMedium, ModelLarge}

var modelRank = map[ModelSpec]int{
	ModelTiny:   0,
	ModelSmall:  1,
	ModelMedium: 2,
	ModelLarge:  3,
}

// Valid reports whether m is a known model size.
func (m ModelSpec) Valid() bool {
	_, ok := modelRank[m]
	return ok
}

// WeakerThan reports whether m ranks below other.
func (m ModelSpec) WeakerThan(other ModelSpec) bool {
	return modelRank[m] < modelRank[other]
}
