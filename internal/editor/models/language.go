package models

// ============================================================
// Languages
// ============================================================

type LanguageCode string

const (
	LangZhCN LanguageCode = "zh-CN"
	LangEnUS LanguageCode = "en-US"
	LangJaJP LanguageCode = "ja-JP"
	LangKoKR LanguageCode = "ko-KR"
	LangEsES LanguageCode = "es-ES"
	LangFrFR LanguageCode = "fr-FR"
	LangDeDE LanguageCode = "de-DE"
)

// Language is a static descriptor; the set is fixed at compile time.
type Language struct {
	Code       LanguageCode `json:"code"`
	Name       string       `json:"name"`
	NativeName string       `json:"nativeName"`
	Flag       string       `json:"flag"`
}

var SupportedLanguages = []Language{
	{Code: LangZhCN, Name: "Chinese (Simplified)", NativeName: "简体中文", Flag: "🇨🇳"},
	{Code: LangEnUS, Name: "English (US)", NativeName: "English", Flag: "🇺🇸"},
	{Code: LangJaJP, Name: "Japanese", NativeName: "日本語", Flag: "🇯🇵"},
	{Code: LangKoKR, Name: "Korean", NativeName: "한국어", Flag: "🇰🇷"},
	{Code: LangEsES, Name: "Spanish", NativeName: "Español", Flag: "🇪🇸"},
	{Code: LangFrFR, Name: "French", NativeName: "Français", Flag: "🇫🇷"},
	{Code: LangDeDE, Name: "German", NativeName: "Deutsch", Flag: "🇩🇪"},
}

// IsSupported reports whether the code is in the fixed supported set.
func IsSupported(code LanguageCode) bool {
	for _, l := range SupportedLanguages {
		if l.Code == code {
			return true
		}
	}
	return false
}
