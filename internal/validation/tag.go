package validation

import (
	"fmt"
	"regexp"
	"strings"
)

var tagRegex = regexp.MustCompile(`^[a-z0-9-]{2,24}$`)

const maxTagsPerStory = 10

// ValidateTags validates a story's tag list: lowercase slugs, no leading or
// trailing hyphens, at most ten per story.
func ValidateTags(tags []string) error {
	if len(tags) > maxTagsPerStory {
		return fmt.Errorf("at most %d tags are allowed", maxTagsPerStory)
	}
	for _, tag := range tags {
		if !tagRegex.MatchString(tag) {
			return fmt.Errorf("tag %q must be 2-24 characters and contain only lowercase letters, numbers, and hyphens", tag)
		}
		if strings.HasPrefix(tag, "-") || strings.HasSuffix(tag, "-") {
			return fmt.Errorf("tag %q cannot start or end with a hyphen", tag)
		}
	}
	return nil
}
