package services

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"whop-automation/models"
	"whop-automation/store"
	"whop-automation/utils"
)

func newRunID() string { return uuid.NewString() }

// summarySampleSize caps how many listings the performance summary
// fetches analytics for; the rest are extrapolated.
const summarySampleSize = 10

// Reporter produces the daily performance report and the on-demand
// console summary from marketplace data.
type Reporter struct {
	market     Marketplace
	store      *store.Store
	reportsDir string
	logger     *utils.Logger
	now        func() time.Time
}

// NewReporter wires the reporter.
func NewReporter(market Marketplace, st *store.Store, reportsDir string, logger *utils.Logger) *Reporter {
	return &Reporter{
		market:     market,
		store:      st,
		reportsDir: reportsDir,
		logger:     logger,
		now:        time.Now,
	}
}

// Daily builds today's report over all auto-generated listings and
// writes it to one file per calendar day. Revenue comes back from the
// marketplace in minor units and is converted to whole units here.
func (r *Reporter) Daily() (*models.DailyReport, error) {
	r.logger.Info("[reporter] Generating daily report")

	now := r.now()
	tracked := 0
	totalSales := 0
	totalRevenueCents := 0

	for _, listing := range r.market.ListListings() {
		if !listing.Metadata.AutoGenerated {
			continue
		}
		tracked++

		analytics, err := r.market.Analytics(listing.ID)
		if err != nil || analytics == nil {
			continue
		}
		totalSales += analytics.Purchases
		totalRevenueCents += analytics.Revenue
	}

	report := &models.DailyReport{
		Date:           now.Format("2006-01-02"),
		TotalProducts:  tracked,
		TotalSales:     totalSales,
		TotalRevenue:   float64(totalRevenueCents) / 100,
		GeneratedToday: r.store.CountCreatedOn(now),
	}
	if totalSales > 0 {
		report.AveragePrice = float64(totalRevenueCents) / float64(totalSales) / 100
	}

	if err := r.write(report, now); err != nil {
		return nil, err
	}

	r.logger.Info("[reporter] Report saved — $%.2f revenue, %d sales",
		report.TotalRevenue, report.TotalSales)
	return report, nil
}

func (r *Reporter) write(report *models.DailyReport, now time.Time) error {
	if err := os.MkdirAll(r.reportsDir, 0755); err != nil {
		return fmt.Errorf("reporter: create reports dir: %w", err)
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("reporter: marshal report: %w", err)
	}

	path := filepath.Join(r.reportsDir, fmt.Sprintf("daily_report_%s.json", now.Format("20060102")))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("reporter: write %q: %w", path, err)
	}
	return nil
}

// Summary samples analytics from the first listings and extrapolates
// account-wide estimates for the console summary.
func (r *Reporter) Summary() (*models.PerformanceSummary, error) {
	var tracked []models.Listing
	for _, listing := range r.market.ListListings() {
		if listing.Metadata.AutoGenerated {
			tracked = append(tracked, listing)
		}
	}

	summary := &models.PerformanceSummary{
		TotalProducts: len(tracked),
		LastUpdated:   r.now(),
	}
	if len(tracked) == 0 {
		return summary, nil
	}

	sample := tracked
	if len(sample) > summarySampleSize {
		sample = sample[:summarySampleSize]
	}

	sampleSales := 0
	sampleRevenueCents := 0
	for _, listing := range sample {
		analytics, err := r.market.Analytics(listing.ID)
		if err != nil || analytics == nil {
			continue
		}
		sampleSales += analytics.Purchases
		sampleRevenueCents += analytics.Revenue
	}

	scale := float64(len(tracked)) / float64(len(sample))
	summary.EstimatedSales = float64(sampleSales) * scale
	summary.EstimatedRevenue = float64(sampleRevenueCents) / 100 * scale
	return summary, nil
}
