package phases

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateRawReview(t *testing.T) {
	long := strings.Repeat("The handler drops the lock before the map write. ", 10)

	assert.Empty(t, validateRawReview(long), "a real review passes")
	assert.Equal(t, "too short", validateRawReview("LGTM"))

	reason := validateRawReview("I'm sorry, but I am unable to access this repository. " + long)
	assert.Contains(t, reason, "error message detected")

	reason = validateRawReview("You need to approve one of the pending requests first. " + long)
	assert.Contains(t, reason, "error message detected")
}

func TestDetectCheating(t *testing.T) {
	clean := strings.Repeat("This change looks incorrect around the retry loop. ", 5)
	assert.Empty(t, detectCheating(clean))

	tests := []string{
		"Note that this was reverted in #41290 shortly after merge.",
		"The issue was fixed by #52001 in a follow-up.",
		"Looking at the current master branch, this code no longer exists.",
		"This approach was subsequently replaced with a channel-based design.",
		"As far as I can tell this PR was reverted.",
	}
	for _, text := range tests {
		assert.NotEmpty(t, detectCheating(text+" "+clean), "should flag: %s", text)
	}
}

func TestPRNumber(t *testing.T) {
	assert.Equal(t, "33820", prNumber("https://github.com/golang/go/pull/33820"))
	assert.Equal(t, "7", prNumber("https://example.com/org/repo/pull/7/"))
}
