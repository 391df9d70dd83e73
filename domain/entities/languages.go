package entities

// SupportedLanguages lists the BCP-47 language tags the provider accepts in
// speech metadata and as an explicit transcription language.
var SupportedLanguages = []string{
	"af-ZA", "sq-AL", "am-ET", "ar-DZ", "ar-BH", "ar-EG", "ar-IQ", "ar-IL",
	"ar-JO", "ar-KW", "ar-LB", "ar-MA", "ar-OM", "ar-QA", "ar-SA", "ar-PS",
	"ar-TN", "ar-AE", "ar-YE", "hy-AM", "az-AZ", "eu-ES", "bn-BD", "bn-IN",
	"bs-BA", "bg-BG", "my-MM", "ca-ES", "zh-CN", "zh-TW", "hr-HR", "cs-CZ",
	"da-DK", "nl-BE", "nl-NL", "en-AU", "en-CA", "en-GH", "en-HK", "en-IN",
	"en-IE", "en-KE", "en-NZ", "en-NG", "en-PK", "en-PH", "en-SG", "en-ZA",
	"en-TZ", "en-GB", "en-US", "et-EE", "fil-PH", "fi-FI", "fr-BE", "fr-CA",
	"fr-FR", "fr-CH", "gl-ES", "ka-GE", "de-AT", "de-DE", "de-CH", "el-GR",
	"gu-IN", "iw-IL", "hi-IN", "hu-HU", "is-IS", "id-ID", "it-IT", "it-CH",
	"ja-JP", "jv-ID", "kn-IN", "kk-KZ", "km-KH", "ko-KR", "lo-LA", "lv-LV",
	"lt-LT", "mk-MK", "ms-MY", "ml-IN", "mr-IN", "mn-MN", "ne-NP", "no-NO",
	"fa-IR", "pl-PL", "pt-BR", "pt-PT", "ro-RO", "ru-RU", "sr-RS", "si-LK",
	"sk-SK", "sl-SI", "es-AR", "es-BO", "es-CL", "es-CO", "es-CR", "es-DO",
	"es-EC", "es-SV", "es-GT", "es-HN", "es-MX", "es-NI", "es-PA", "es-PY",
	"es-PE", "es-PR", "es-ES", "es-US", "es-UY", "es-VE", "su-ID", "sw-KE",
	"sw-TZ", "sv-SE", "ta-IN", "ta-MY", "ta-SG", "ta-LK", "te-IN", "th-TH",
	"tr-TR", "uk-UA", "ur-IN", "ur-PK", "uz-UZ", "vi-VN", "zu-ZA",
}

var supportedLanguageSet = func() map[string]struct{} {
	set := make(map[string]struct{}, len(SupportedLanguages))
	for _, lang := range SupportedLanguages {
		set[lang] = struct{}{}
	}
	return set
}()

// IsSupportedLanguage reports whether lang is one of SupportedLanguages.
func IsSupportedLanguage(lang string) bool {
	_, ok := supportedLanguageSet[lang]
	return ok
}
