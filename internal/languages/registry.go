// Package languages holds the static registry of supported conversation
// languages.
package languages

// Language maps an ISO 639-1 style code to its display name.
type Language struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

var registry = []Language{
	{Code: "en", Name: "English"},
	{Code: "es", Name: "Spanish"},
	{Code: "fr", Name: "French"},
	{Code: "de", Name: "German"},
	{Code: "it", Name: "Italian"},
	{Code: "pt", Name: "Portuguese"},
	{Code: "ja", Name: "Japanese"},
	{Code: "ko", Name: "Korean"},
	{Code: "zh", Name: "Chinese (Simplified)"},
	{Code: "ru", Name: "Russian"},
	{Code: "ar", Name: "Arabic"},
	{Code: "hi", Name: "Hindi"},
	{Code: "tr", Name: "Turkish"},
}

var byCode = func() map[string]string {
	m := make(map[string]string, len(registry))
	for _, l := range registry {
		m[l.Code] = l.Name
	}
	return m
}()

// All returns the registry in display order.
func All() []Language {
	out := make([]Language, len(registry))
	copy(out, registry)
	return out
}

// Known reports whether the code is in the registry.
func Known(code string) bool {
	_, ok := byCode[code]
	return ok
}

// Name returns the display name for a code. Unknown codes degrade to the
// code itself; an empty code degrades to "Unknown".
func Name(code string) string {
	if code == "" {
		return "Unknown"
	}
	if name, ok := byCode[code]; ok {
		return name
	}
	return code
}
