package models

import "strings"

// SourceLanguages is the fixed catalog of codes accepted as the language of
// the uploaded media.
var SourceLanguages = []string{
	"AR", "BG", "CS", "DA", "DE", "EL", "EN", "ES", "ET", "FI",
	"FR", "HU", "ID", "IT", "JA", "KO", "LT", "LV", "NB", "NL",
	"PL", "PT", "RO", "RU", "SK", "SL", "SV", "TR", "UK", "ZH",
}

// TargetLanguages is the fixed catalog of codes accepted as translation
// targets. It is a superset of SourceLanguages: regional variants such as
// EN-GB exist only as targets.
var TargetLanguages = []string{
	"AR", "BG", "CS", "DA", "DE", "EL", "EN", "EN-GB", "ES", "ET",
	"FI", "FR", "HU", "ID", "IT", "JA", "KO", "LT", "LV", "NB",
	"NL", "PL", "PT", "RO", "RU", "SK", "SL", "SV", "TR", "UK", "ZH",
}

var (
	sourceLanguageSet = toSet(SourceLanguages)
	targetLanguageSet = toSet(TargetLanguages)
)

func toSet(codes []string) map[string]bool {
	set := make(map[string]bool, len(codes))
	for _, c := range codes {
		set[c] = true
	}
	return set
}

// IsSourceLanguage reports whether code belongs to the source catalog.
func IsSourceLanguage(code string) bool {
	return sourceLanguageSet[strings.ToUpper(code)]
}

// IsTargetLanguage reports whether code belongs to the target catalog.
func IsTargetLanguage(code string) bool {
	return targetLanguageSet[strings.ToUpper(code)]
}

// NormalizeLanguage upper-cases a catalog code for comparison and service
// calls.
func NormalizeLanguage(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// LanguageHint converts a catalog code into the lowercase ISO-639-1 style
// hint the transcription engine expects. Regional suffixes are dropped.
func LanguageHint(code string) string {
	hint := strings.ToLower(strings.TrimSpace(code))
	if i := strings.IndexByte(hint, '-'); i > 0 {
		hint = hint[:i]
	}
	return hint
}
