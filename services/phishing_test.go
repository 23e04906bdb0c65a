package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectPhishingKeywordsAnyCase(t *testing.T) {
	for _, k := range phishingKeywords {
		assert.True(t, DetectPhishing("hey "+k+" now"), k)
		assert.True(t, DetectPhishing(strings.ToUpper(k)), k)
	}
}

func TestDetectPhishingShortenersAndLinks(t *testing.T) {
	cases := map[string]bool{
		"see bit.ly/abc":                      true,
		"TINYURL.com/x":                       true,
		"goo.gl/maps":                         true,
		"mail me@site.com via http://x.org":   true,
		"http://example.org only":             false,
		"write to me@example.org":             false,
		"are we still on for football at 5?":  false,
		"":                                    false,
		"Grandma says hi, dinner is at seven": false,
	}
	for text, want := range cases {
		assert.Equal(t, want, DetectPhishing(text), text)
	}
}
