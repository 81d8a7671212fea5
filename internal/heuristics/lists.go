package heuristics

import (
	"regexp"
	"strings"
)

// MaxAchievements caps achievements kept per experience entry.
const MaxAchievements = 3

var (
	bulletPrefix   = regexp.MustCompile(`^(?:[•·▪▫◦‣⁃●○■□➢➤►\-*–]\s*|\d+[.)]\s+)`)
	inlineBullets  = regexp.MustCompile(`[•·▪▫◦‣⁃●■]`)
	numberedInline = regexp.MustCompile(`(?:^|\s)\d+\.\s+`)
)

// isBulletLine reports whether line starts with a bullet glyph or a list number.
func isBulletLine(line string) bool {
	return bulletPrefix.MatchString(strings.TrimSpace(line))
}

// stripBullet removes a leading bullet glyph or list number.
func stripBullet(line string) string {
	return strings.TrimSpace(bulletPrefix.ReplaceAllString(strings.TrimSpace(line), ""))
}

// SplitList splits text into list items on bullet glyphs, numbered markers and
// line breaks, returning at most limit items (all when limit <= 0).
func SplitList(text string, limit int) []string {
	var items []string
	for _, line := range nonEmptyLines(text) {
		if !isBulletLine(line) {
			continue
		}
		line = stripBullet(line)
		for _, part := range inlineBullets.Split(line, -1) {
			for _, item := range numberedInline.Split(part, -1) {
				if item = strings.TrimSpace(item); item != "" {
					items = append(items, item)
				}
			}
		}
	}
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items
}
