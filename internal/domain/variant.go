package domain

// Variant identifies one of the two products sharing the submission pipeline.
type Variant string

const (
	VariantYearbook   Variant = "yearbook"
	VariantAdventurer Variant = "adventurer"
)

// AdventurerGenders lists the accepted gender values for adventurer submissions.
// Yearbook accepts any non-empty string.
var AdventurerGenders = []string{"Homme", "Femme", "Autre"}
