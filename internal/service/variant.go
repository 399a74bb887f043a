package service

import (
	"github.com/mci-lab/avatarforge/internal/domain"
	"github.com/mci-lab/avatarforge/internal/prompts"
)

// GenerationMode selects how the generation service is invoked.
type GenerationMode string

const (
	// ModeEdit transforms the supplied image with the edit endpoint.
	ModeEdit GenerationMode = "edit"

	// ModeGenerate synthesizes purely from the rendered prompt, then fetches
	// and re-uploads the hosted result.
	ModeGenerate GenerationMode = "generate"
)

// VariantSpec describes one product variant's behavior in the shared
// submission pipeline.
type VariantSpec struct {
	Name domain.Variant

	// Mode selects the generation-call shape.
	Mode GenerationMode

	// RequiresAnswers requires exactly AnswerCount quiz answers at submission
	// and maps them into the prompt variables.
	RequiresAnswers bool

	// AllowedGenders restricts the gender field; nil accepts any non-empty
	// string.
	AllowedGenders []string

	// DefaultConfig, when non-nil, is materialized on first configuration
	// read. When nil a missing configuration is a hard error.
	DefaultConfig func() *domain.Config

	// QuestionCount is the number of quiz questions an administrator must
	// configure (adventurer only).
	QuestionCount int

	// SuccessMessage is returned to the caller on a completed submission.
	SuccessMessage string
}

// AnswerCount is the number of answers every adventurer submission carries,
// regardless of the configured question count.
const AnswerCount = 5

// YearbookVariant returns the yearbook descriptor. The generation mode is
// deployment-configurable; ModeGenerate matches the live product.
func YearbookVariant(mode GenerationMode) VariantSpec {
	return VariantSpec{
		Name:           domain.VariantYearbook,
		Mode:           mode,
		SuccessMessage: "Image yearbook générée avec succès",
	}
}

// AdventurerVariant returns the adventurer descriptor: quiz answers required,
// gender enumerated, defaults materialized on first read, edit-mode
// generation.
func AdventurerVariant() VariantSpec {
	return VariantSpec{
		Name:            domain.VariantAdventurer,
		Mode:            ModeEdit,
		RequiresAnswers: true,
		AllowedGenders:  domain.AdventurerGenders,
		DefaultConfig:   prompts.DefaultAdventurerConfig,
		QuestionCount:   AnswerCount,
		SuccessMessage:  "Avatar d'aventurier généré avec succès",
	}
}
