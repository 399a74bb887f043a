// Package prompts holds the built-in prompt templates and the default
// adventurer quiz shipped with the product.
package prompts

import "github.com/mci-lab/avatarforge/internal/domain"

// UnknownAnswerLabel is substituted when a submitted answer code matches no
// configured option.
const UnknownAnswerLabel = "Réponse inconnue"

// DefaultAdventurerCode is the access code installed with the default
// adventurer configuration.
const DefaultAdventurerCode = "Mci"

// DefaultAdventurerTemplate drives the adventurer avatar edit call. Variables:
// name, gender, answer1..answer5.
const DefaultAdventurerTemplate = `Create a premium-quality profile image of an adventurer named {{name}}, of gender {{gender}}, based on the provided reference image for facial resemblance.

Their style and context should be inspired by the following answers:
- Type of adventurer: {{answer1}}
- Companion: {{answer2}}
- Signature item: {{answer3}}
- Setting: {{answer4}}
- Clothing style: {{answer5}}

Use the reference image to ensure that the face, gender, and key physical features of the user are accurately represented. Do not significantly alter the person's apparent age or identity. The rest of the body, outfit, and background can be generated according to the answers to reflect an adventurous, colorful, and cinematic style.

The final image should evoke the spirit of adventure and discovery. Do not include any text in the image.`

// DefaultYearbookTemplate is the template installed by the seed command when
// the administrator does not supply one. Variables: name, gender.
const DefaultYearbookTemplate = "Transform this portrait photo of {{name}} ({{gender}}) into a classic American high school yearbook style photo from the 1980s-1990s. Create a nostalgic prom night yearbook aesthetic with soft lighting, formal pose, clean background, and that timeless yearbook look. Maintain {{name}}'s facial features while giving them a youthful, student-like appearance suitable for a prom night yearbook page."

// DefaultAdventurerQuestions returns the built-in five-question quiz.
func DefaultAdventurerQuestions() domain.QuestionList {
	return domain.QuestionList{
		{
			Text: "Si tu étais un type d’aventurier, tu serais…",
			Options: []domain.AnswerOption{
				{Label: "Un explorateur polaire en quête de terres inconnues", Value: "A"},
				{Label: "Un archéologue intrépide à la Indiana Jones", Value: "B"},
				{Label: "Un navigateur des mers à la recherche de trésors", Value: "C"},
				{Label: "Un astronaute en mission vers une planète lointaine", Value: "D"},
			},
		},
		{
			Text: "Ton compagnon de route idéal serait…",
			Options: []domain.AnswerOption{
				{Label: "Un loup fidèle et protecteur", Value: "A"},
				{Label: "Un perroquet bavard et malin", Value: "B"},
				{Label: "Un singe agile et farceur", Value: "C"},
				{Label: "Un robot multifonction ultra-connecté", Value: "D"},
			},
		},
		{
			Text: "Ton objet fétiche pour partir à l’aventure ?",
			Options: []domain.AnswerOption{
				{Label: "Une boussole ancienne transmise de génération en génération", Value: "A"},
				{Label: "Un carnet de croquis rempli de cartes et de notes", Value: "B"},
				{Label: "Un sabre ou une machette pour ouvrir la voie", Value: "C"},
				{Label: "Un drone high-tech pour explorer à distance", Value: "D"},
			},
		},
		{
			Text: "Ton terrain de jeu favori ?",
			Options: []domain.AnswerOption{
				{Label: "Une jungle luxuriante pleine de mystères", Value: "A"},
				{Label: "Un désert brûlant et infini", Value: "B"},
				{Label: "Une cité perdue enfouie sous la glace", Value: "C"},
				{Label: "Une station spatiale abandonnée en orbite", Value: "D"},
			},
		},
		{
			Text: "Ton style vestimentaire d’aventurier ?",
			Options: []domain.AnswerOption{
				{Label: "Manteau en cuir usé et chapeau à large bord", Value: "A"},
				{Label: "Tenue camouflage avec sac à dos militaire", Value: "B"},
				{Label: "Combinaison spatiale futuriste", Value: "C"},
				{Label: "Vêtements légers et foulard coloré façon globe-trotter", Value: "D"},
			},
		},
	}
}

// DefaultAdventurerConfig returns the configuration materialized on first read
// when no adventurer configuration exists.
func DefaultAdventurerConfig() *domain.Config {
	return &domain.Config{
		Variant:        domain.VariantAdventurer,
		Code:           DefaultAdventurerCode,
		PromptTemplate: DefaultAdventurerTemplate,
		Questions:      DefaultAdventurerQuestions(),
	}
}
