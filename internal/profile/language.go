// ABOUTME: Canonical English names for the language labels users type
// ABOUTME: Unmapped labels pass through unchanged

package profile

// canonicalNames maps the zh-TW labels users actually type to the English
// names the rewrite provider is instructed with.
var canonicalNames = map[string]string{
	"英文":   "English",
	"英語":   "English",
	"日文":   "Japanese",
	"日語":   "Japanese",
	"韓文":   "Korean",
	"韓語":   "Korean",
	"泰文":   "Thai",
	"越南文":  "Vietnamese",
	"印尼文":  "Indonesian",
	"印尼語":  "Indonesian",
	"菲律賓文": "Filipino",
	"馬來文":  "Malay",
	"繁體中文": "Traditional Chinese",
	"簡體中文": "Simplified Chinese",
	"中文":   "Traditional Chinese",
	"西班牙文": "Spanish",
	"法文":   "French",
	"德文":   "German",
	"葡萄牙文": "Portuguese",
	"俄文":   "Russian",
}

// CanonicalLanguage returns the canonical English name for a language
// label, or the label itself when no mapping exists. Total, never fails.
func CanonicalLanguage(label string) string {
	if name, ok := canonicalNames[label]; ok {
		return name
	}
	return label
}
