package pipeline

import (
	"strings"

	"contentstudio/internal/content"
)

// noContentFallback is the literal placeholder sent to the publisher for
// platforms the generation stage produced nothing for.
const noContentFallback = "N/A"

// buildGenerationMessage composes the outbound message for the generation
// stage: request fields first, then the brand-guidelines block when any
// brand field is set.
func buildGenerationMessage(req Request, brandBlock string) string {
	var b strings.Builder
	b.WriteString("Create content for the following:\n\n")
	b.WriteString("Topic/Brief: ")
	b.WriteString(strings.TrimSpace(req.Topic))
	b.WriteString("\nTarget Platforms: ")
	b.WriteString(strings.Join(req.Platforms, ", "))
	b.WriteString("\nContent Type: ")
	b.WriteString(req.ContentType)
	if instructions := strings.TrimSpace(req.Instructions); instructions != "" {
		b.WriteString("\nAdditional Instructions: ")
		b.WriteString(instructions)
	}
	if brandBlock != "" {
		b.WriteString("\n\n--- Brand Guidelines ---\n")
		b.WriteString(brandBlock)
	}
	return b.String()
}

// buildPublishMessage lists every platform's generated copy (with the
// fallback placeholder where none exists) plus the requested target list.
func buildPublishMessage(generated content.GeneratedContent, platforms []string) string {
	var b strings.Builder
	b.WriteString("Publish the following content:\n")
	for _, platform := range content.Platforms() {
		copyText := generated.ForPlatform(platform)
		if copyText == "" {
			copyText = noContentFallback
		}
		b.WriteString(platform)
		b.WriteString(": ")
		b.WriteString(copyText)
		b.WriteString("\n")
	}
	b.WriteString("Target Platforms: ")
	b.WriteString(strings.Join(platforms, ", "))
	return b.String()
}
