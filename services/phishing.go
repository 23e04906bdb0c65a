package services

import "strings"

var phishingKeywords = []string{
	"click here",
	"login",
	"verify",
	"password",
	"bank",
	"account",
	"urgent",
	"verify your",
	"update your",
	"confirm your",
}

var shortenedDomains = []string{
	"bit.ly",
	"tinyurl",
	"t.co",
	"goo.gl",
}

// DetectPhishing flags text that looks like a phishing attempt. It is a cheap
// advisory heuristic: false positives are expected.
func DetectPhishing(text string) bool {
	lower := strings.ToLower(text)
	for _, k := range phishingKeywords {
		if strings.Contains(lower, k) {
			return true
		}
	}
	for _, d := range shortenedDomains {
		if strings.Contains(lower, d) {
			return true
		}
	}
	return strings.Contains(lower, "http") && strings.Contains(lower, "@")
}
