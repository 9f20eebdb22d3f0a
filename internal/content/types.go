package content

// Supported target platforms.
const (
	PlatformTwitter       = "Twitter"
	PlatformInstagram     = "Instagram"
	PlatformYouTubeShorts = "YouTube Shorts"
	PlatformFanvue        = "Fanvue"
)

// Platforms returns the supported publishing platforms in display order.
func Platforms() []string {
	return []string{PlatformTwitter, PlatformInstagram, PlatformYouTubeShorts, PlatformFanvue}
}

// Supported content types.
const (
	TypePost               = "post"
	TypeCaption            = "caption"
	TypeShortScript        = "short script"
	TypeProductDescription = "product description"
)

// ContentTypes returns the supported content types in display order.
func ContentTypes() []string {
	return []string{TypePost, TypeCaption, TypeShortScript, TypeProductDescription}
}

// GeneratedContent is the structured output of the generation stage. Every
// field is optional; an empty platform field means that platform received
// no content.
type GeneratedContent struct {
	SEOKeywords          []string `json:"seo_keywords,omitempty"`
	TrendingTopics       []string `json:"trending_topics,omitempty"`
	OptimizationStrategy string   `json:"optimization_strategy,omitempty"`
	RecommendedHashtags  []string `json:"recommended_hashtags,omitempty"`
	TwitterPost          string   `json:"twitter_post,omitempty"`
	InstagramCaption     string   `json:"instagram_caption,omitempty"`
	YouTubeShortsScript  string   `json:"youtube_shorts_script,omitempty"`
	FanvuePost           string   `json:"fanvue_post,omitempty"`
	SEOTitle             string   `json:"seo_title,omitempty"`
	MetaDescription      string   `json:"meta_description,omitempty"`
	ContentSummary       string   `json:"content_summary,omitempty"`
}

// ForPlatform returns the generated copy for a platform, or "" when the
// generation stage produced none.
func (g GeneratedContent) ForPlatform(platform string) string {
	switch platform {
	case PlatformTwitter:
		return g.TwitterPost
	case PlatformInstagram:
		return g.InstagramCaption
	case PlatformYouTubeShorts:
		return g.YouTubeShortsScript
	case PlatformFanvue:
		return g.FanvuePost
	default:
		return ""
	}
}

// PublishOutcome is the structured output of the publish stage, mirroring
// the publisher agent's result object. Platform status strings are free-form
// text from the publisher; use ClassifyStatus to interpret them. An empty
// status means "not attempted". The publisher only returns a canonical URL
// for Twitter.
type PublishOutcome struct {
	TwitterStatus   string   `json:"twitter_status,omitempty"`
	TwitterURL      string   `json:"twitter_url,omitempty"`
	InstagramStatus string   `json:"instagram_status,omitempty"`
	YouTubeStatus   string   `json:"youtube_status,omitempty"`
	FanvueStatus    string   `json:"fanvue_status,omitempty"`
	OverallStatus   string   `json:"overall_status,omitempty"`
	Errors          []string `json:"errors,omitempty"`
}

// StatusForPlatform returns the raw publish status for a platform.
func (p PublishOutcome) StatusForPlatform(platform string) string {
	switch platform {
	case PlatformTwitter:
		return p.TwitterStatus
	case PlatformInstagram:
		return p.InstagramStatus
	case PlatformYouTubeShorts:
		return p.YouTubeStatus
	case PlatformFanvue:
		return p.FanvueStatus
	default:
		return ""
	}
}

// URLForPlatform returns the canonical published URL for a platform, if any.
func (p PublishOutcome) URLForPlatform(platform string) string {
	if platform == PlatformTwitter {
		return p.TwitterURL
	}
	return ""
}
