package services

import (
	"HaloBackend/apperrors"
	"HaloBackend/models"
	"HaloBackend/repositories"
	"context"
	"math"
	"sort"
	"strings"
	"time"
)

// UsageWindow is how far back the usage summary looks.
const UsageWindow = 24 * time.Hour

const usageBarWidth = 20

type UsageService struct {
	TelemetryRepo repositories.TelemetryRepository
	now           func() time.Time
}

func NewUsageService(telemetryRepo repositories.TelemetryRepository) *UsageService {
	return &UsageService{TelemetryRepo: telemetryRepo, now: time.Now}
}

// Summary aggregates the child's app usage of the last 24 hours.
func (s *UsageService) Summary(ctx context.Context, uid string) (models.UsageSummary, error) {
	since := s.now().UTC().Add(-UsageWindow)
	records, err := s.TelemetryRepo.AppUsageSince(ctx, uid, since)
	if err != nil {
		return models.UsageSummary{}, apperrors.Internal("Failed to load app usage", err)
	}
	return BuildUsageSummary(records), nil
}

// BuildUsageSummary totals seconds per package, busiest package first.
func BuildUsageSummary(records []models.AppUsageRecord) models.UsageSummary {
	perPackage := make(map[string]int64)
	var total int64
	for _, rec := range records {
		perPackage[rec.Package] += rec.DurationSeconds
		total += rec.DurationSeconds
	}

	entries := make([]models.UsageSummaryEntry, 0, len(perPackage))
	for pkg, seconds := range perPackage {
		var fraction float64
		if total > 0 {
			fraction = float64(seconds) / float64(total)
		}
		entries = append(entries, models.UsageSummaryEntry{
			Package:  pkg,
			Seconds:  seconds,
			Fraction: fraction,
			Bar:      UsageBar(fraction),
			Emoji:    UsageEmoji(fraction),
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Seconds != entries[j].Seconds {
			return entries[i].Seconds > entries[j].Seconds
		}
		return entries[i].Package < entries[j].Package
	})

	return models.UsageSummary{TotalSeconds: total, Entries: entries}
}

func UsageBar(fraction float64) string {
	n := int(math.Floor(fraction * usageBarWidth))
	if n < 0 {
		n = 0
	}
	return strings.Repeat("█", n)
}

// UsageEmoji maps a share of screen time to a mood: below 0.25 happy, below 0.5
// neutral, otherwise worried. 0.25 itself is neutral.
func UsageEmoji(fraction float64) string {
	switch {
	case fraction < 0.25:
		return "😃"
	case fraction < 0.5:
		return "😐"
	default:
		return "😟"
	}
}
