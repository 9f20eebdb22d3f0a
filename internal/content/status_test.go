package content

import (
	"encoding/json"
	"testing"
)

func TestClassifyStatus(t *testing.T) {
	cases := []struct {
		status string
		want   Severity
	}{
		{"success", SeveritySuccess},
		{"Posted to timeline", SeveritySuccess},
		{"Published", SeveritySuccess},
		{"FAILED", SeverityFailed},
		{"upstream error (503)", SeverityFailed},
		{"pending review", SeverityPending},
		{"will retry shortly", SeverityPending},
		{"rate limited", SeverityPending},
		{"", SeverityUnknown},
		{"queued", SeverityUnknown},
	}

	for _, tc := range cases {
		if got := ClassifyStatus(tc.status); got != tc.want {
			t.Errorf("ClassifyStatus(%q) = %q, want %q", tc.status, got, tc.want)
		}
	}
}

func TestForPlatform(t *testing.T) {
	g := GeneratedContent{TwitterPost: "hello", FanvuePost: "exclusive"}
	if got := g.ForPlatform(PlatformTwitter); got != "hello" {
		t.Errorf("unexpected twitter content: %q", got)
	}
	if got := g.ForPlatform(PlatformInstagram); got != "" {
		t.Errorf("expected empty instagram content, got %q", got)
	}
	if got := g.ForPlatform("MySpace"); got != "" {
		t.Errorf("expected empty content for unknown platform, got %q", got)
	}
}

func TestStatusForPlatform(t *testing.T) {
	p := PublishOutcome{TwitterStatus: "success", InstagramStatus: "failed"}
	if got := p.StatusForPlatform(PlatformInstagram); got != "failed" {
		t.Errorf("unexpected status: %q", got)
	}
	if got := p.StatusForPlatform(PlatformFanvue); got != "" {
		t.Errorf("expected empty status, got %q", got)
	}
}

func TestPublishOutcomeDecodesPublisherKeys(t *testing.T) {
	raw := `{"youtube_status":"pending","twitter_status":"success","twitter_url":"https://twitter.com/example/status/1"}`

	var p PublishOutcome
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		t.Fatalf("failed to unmarshal outcome: %v", err)
	}

	if got := p.StatusForPlatform(PlatformYouTubeShorts); got != "pending" {
		t.Errorf("unexpected youtube status: %q", got)
	}
	if got := p.URLForPlatform(PlatformTwitter); got != "https://twitter.com/example/status/1" {
		t.Errorf("unexpected twitter url: %q", got)
	}
	if got := p.URLForPlatform(PlatformYouTubeShorts); got != "" {
		t.Errorf("expected no url for youtube, got %q", got)
	}
}
