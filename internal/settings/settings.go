package settings

import "strings"

// BrandSettings holds the free-text brand guidance that gets folded into
// every generation prompt. All fields are optional.
type BrandSettings struct {
	BrandVoice           string `json:"brand_voice,omitempty"`
	StyleGuidelines      string `json:"style_guidelines,omitempty"`
	PreferredVocabulary  string `json:"preferred_vocabulary,omitempty"`
	AvoidWords           string `json:"avoid_words,omitempty"`
	TargetDemographics   string `json:"target_demographics,omitempty"`
	AudiencePainPoints   string `json:"audience_pain_points,omitempty"`
	MessagingPreferences string `json:"messaging_preferences,omitempty"`
	FocusKeywords        string `json:"focus_keywords,omitempty"`
	ContentPillars       string `json:"content_pillars,omitempty"`
	RestrictedLanguage   string `json:"restricted_language,omitempty"`
}

// IsEmpty reports whether no field carries content.
func (s BrandSettings) IsEmpty() bool {
	return s.PromptBlock() == ""
}

// PromptBlock renders the non-empty fields as labeled lines in a fixed
// order for inclusion in the generation prompt. Returns "" when every
// field is empty.
func (s BrandSettings) PromptBlock() string {
	fields := []struct {
		label string
		value string
	}{
		{"Brand Voice", s.BrandVoice},
		{"Style Guidelines", s.StyleGuidelines},
		{"Preferred Vocabulary", s.PreferredVocabulary},
		{"Avoid These Words", s.AvoidWords},
		{"Target Demographics", s.TargetDemographics},
		{"Audience Pain Points", s.AudiencePainPoints},
		{"Messaging Preferences", s.MessagingPreferences},
		{"Focus Keywords", s.FocusKeywords},
		{"Content Pillars", s.ContentPillars},
		{"Restricted Language", s.RestrictedLanguage},
	}

	var b strings.Builder
	for _, f := range fields {
		value := strings.TrimSpace(f.value)
		if value == "" {
			continue
		}
		b.WriteString(f.label)
		b.WriteString(": ")
		b.WriteString(value)
		b.WriteString("\n")
	}
	return b.String()
}
