package synth

import "lingualive/internal/domain"

// genderKeywords maps language codes to lowercase substrings that commonly
// appear in the display names of gendered voices for that language. Voice
// names carry no structured gender metadata, so matching is best effort; the
// generic english keywords apply to every language.
var genderKeywords = map[string]map[domain.Gender][]string{
	"": {
		domain.GenderMale:   {"male", "man"},
		domain.GenderFemale: {"female", "woman"},
	},
	"tr": {
		domain.GenderMale:   {"erkek"},
		domain.GenderFemale: {"kadın", "kadin"},
	},
	"es": {
		domain.GenderMale:   {"hombre", "masculino"},
		domain.GenderFemale: {"mujer", "femenina"},
	},
	"fr": {
		domain.GenderMale:   {"homme", "masculin"},
		domain.GenderFemale: {"femme", "féminin"},
	},
	"de": {
		domain.GenderMale:   {"mann", "männlich"},
		domain.GenderFemale: {"frau", "weiblich"},
	},
	"it": {
		domain.GenderMale:   {"uomo", "maschile"},
		domain.GenderFemale: {"donna", "femminile"},
	},
	"pt": {
		domain.GenderMale:   {"homem", "masculino"},
		domain.GenderFemale: {"mulher", "feminina"},
	},
	"ru": {
		domain.GenderMale:   {"мужской"},
		domain.GenderFemale: {"женский"},
	},
	"ja": {
		domain.GenderMale:   {"男性"},
		domain.GenderFemale: {"女性"},
	},
	"ko": {
		domain.GenderMale:   {"남성"},
		domain.GenderFemale: {"여성"},
	},
	"zh": {
		domain.GenderMale:   {"男"},
		domain.GenderFemale: {"女"},
	},
	"ar": {
		domain.GenderMale:   {"ذكر"},
		domain.GenderFemale: {"أنثى"},
	},
	"hi": {
		domain.GenderMale:   {"पुरुष"},
		domain.GenderFemale: {"महिला"},
	},
}

// keywordsFor returns language-specific keywords followed by the generic
// fallbacks, for the given preference. Neutral and any have no keywords.
func keywordsFor(lang string, gender domain.Gender) []string {
	if gender != domain.GenderMale && gender != domain.GenderFemale {
		return nil
	}
	var out []string
	if table, ok := genderKeywords[lang]; ok {
		out = append(out, table[gender]...)
	}
	out = append(out, genderKeywords[""][gender]...)
	return out
}
