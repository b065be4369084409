package automation

import (
	"context"
	"fmt"
	"time"

	"whop-automation/config"
	"whop-automation/models"
	"whop-automation/scheduler"
	"whop-automation/utils"
)

// ProductGenerator is the slice of the content generator the launcher
// drives.
type ProductGenerator interface {
	GenerateEbook(ctx context.Context, topic, audience string) (*models.ProductDocument, error)
	GenerateNotionTemplate(ctx context.Context, templateType, useCase string) (*models.ProductDocument, error)
	GeneratePlanner(ctx context.Context, plannerType, period string) (*models.ProductDocument, error)
	GenerateEmailTemplates(ctx context.Context, industry string, count int) (*models.ProductDocument, error)
}

// Uploader runs one batch upload over the product store.
type Uploader interface {
	UploadPending() *models.BatchResult
}

// Optimizer runs one price-optimization pass.
type Optimizer interface {
	Run() int
}

// ReportService produces the daily report and the console summary.
type ReportService interface {
	Daily() (*models.DailyReport, error)
	Summary() (*models.PerformanceSummary, error)
}

// WebhookRegistrar registers marketplace webhooks.
type WebhookRegistrar interface {
	RegisterWebhook(url string, events []string) (string, error)
}

// Niche is one (topic, audience, category) generation target.
type Niche struct {
	Topic    string
	Audience string
	Category string
}

// niches is the fixed rotation of generation targets. Selection is a
// deterministic round-robin indexed by the launcher's running counter,
// so a given counter start value always reproduces the same sequence.
var niches = []Niche{
	{"Social Media Marketing Mastery", "entrepreneurs", "business"},
	{"Dropshipping Empire Blueprint", "ecommerce beginners", "business"},
	{"Real Estate Investment Guide", "investors", "finance"},
	{"Affiliate Marketing Secrets", "online marketers", "business"},
	{"Email Marketing Templates", "business owners", "marketing"},
	{"Ultimate Productivity Planner", "professionals", "productivity"},
	{"Digital Detox Challenge", "wellness seekers", "wellness"},
	{"Goal Setting Workbook", "achievers", "productivity"},
	{"Time Management Mastery", "busy professionals", "productivity"},
	{"Habit Tracker Templates", "self-improvement", "wellness"},
	{"30-Day Fitness Planner", "fitness enthusiasts", "wellness"},
	{"Meal Prep Made Simple", "health conscious", "wellness"},
	{"Mental Health Journal", "wellness seekers", "wellness"},
	{"Stress Management Guide", "professionals", "wellness"},
	{"Sleep Optimization Blueprint", "health optimizers", "wellness"},
	{"Personal Finance Tracker", "young adults", "finance"},
	{"Cryptocurrency Basics", "crypto beginners", "finance"},
	{"Retirement Planning Guide", "adults 30+", "finance"},
	{"Side Hustle Starter Kit", "income seekers", "business"},
	{"Budgeting Templates Bundle", "savers", "finance"},
}

var notionTemplateTypes = []string{
	"productivity dashboard", "project tracker", "content calendar", "business planner",
}

var plannerPeriods = []string{"daily", "weekly", "monthly"}

// webhookEvents are the marketplace notifications the system subscribes to.
var webhookEvents = []string{
	"purchase.created",
	"membership.created",
	"subscription.created",
	"payment.succeeded",
}

// dailyTarget is one slot of the daily generation quota.
type dailyTarget struct {
	kind  models.ProductType
	count int
}

// dailyTargets is the per-type generation quota for one daily cycle,
// capped overall by the max_daily_products setting.
var dailyTargets = []dailyTarget{
	{models.TypeEbook, 2},
	{models.TypeNotionTemplate, 3},
	{models.TypeDigitalPlanner, 1},
	{models.TypeEmailTemplates, 1},
}

const (
	miniCycleInterval   = 2 * time.Hour
	uploadCycleInterval = 3 * time.Hour
	pollInterval        = time.Minute
	errorCooldown       = 5 * time.Minute
)

// Launcher ties generation, upload, price optimization, and reporting
// into cycles, and runs them on the scheduler in continuous mode.
type Launcher struct {
	cfg       *config.Config
	logger    *utils.Logger
	generator ProductGenerator
	uploader  Uploader
	optimizer Optimizer
	reporter  ReportService
	webhooks  WebhookRegistrar
	pacer     *utils.Pacer

	// nicheCounter is the round-robin index over niches; it only ever
	// advances.
	nicheCounter int
}

// NewLauncher wires the orchestrator.
func NewLauncher(cfg *config.Config, logger *utils.Logger, gen ProductGenerator,
	uploader Uploader, optimizer Optimizer, reporter ReportService,
	webhooks WebhookRegistrar) *Launcher {
	return &Launcher{
		cfg:       cfg,
		logger:    logger,
		generator: gen,
		uploader:  uploader,
		optimizer: optimizer,
		reporter:  reporter,
		webhooks:  webhooks,
		pacer:     utils.NewPacer(cfg.GenerateDelayMs),
	}
}

// RunDailyCycle runs one generate → upload → optimize → report cycle.
// Each stage runs only if enabled in configuration; a stage failure is
// logged and does not block the stages after it.
func (l *Launcher) RunDailyCycle(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("[launcher] Daily cycle panicked: %v", r)
		}
	}()

	l.logger.Info("[launcher] Starting daily automation cycle")

	if l.cfg.Settings.AutoGenerate {
		generated := l.generateDailyProducts(ctx)
		l.logger.Info("[launcher] Generated %d products", generated)
	}

	if l.cfg.Settings.AutoUpload {
		result := l.uploader.UploadPending()
		l.logger.Info("[launcher] Upload results: %d success, %d failed",
			result.Success, result.Failed)
	}

	if l.cfg.Settings.PriceOptimization {
		l.optimizer.Run()
	}

	if _, err := l.reporter.Daily(); err != nil {
		l.logger.Error("[launcher] Report generation failed: %v", err)
	}

	l.logger.Info("[launcher] Daily automation cycle completed")
}

// generateDailyProducts works through the per-type quota, rotating the
// niche list with the running counter. Individual failures are logged
// and skipped.
func (l *Launcher) generateDailyProducts(ctx context.Context) int {
	generated := 0
	maxDaily := l.cfg.Settings.MaxDailyProducts

	for _, target := range dailyTargets {
		for i := 0; i < target.count; i++ {
			if maxDaily > 0 && generated >= maxDaily {
				l.logger.Warn("[launcher] Daily product cap (%d) reached", maxDaily)
				return generated
			}

			l.pacer.Wait()
			niche := l.nextNiche()

			var doc *models.ProductDocument
			var err error
			switch target.kind {
			case models.TypeEbook:
				doc, err = l.generator.GenerateEbook(ctx, niche.Topic, niche.Audience)
			case models.TypeNotionTemplate:
				templateType := notionTemplateTypes[i%len(notionTemplateTypes)]
				doc, err = l.generator.GenerateNotionTemplate(ctx, templateType, niche.Topic)
			case models.TypeDigitalPlanner:
				period := plannerPeriods[i%len(plannerPeriods)]
				doc, err = l.generator.GeneratePlanner(ctx, niche.Category, period)
			case models.TypeEmailTemplates:
				doc, err = l.generator.GenerateEmailTemplates(ctx, niche.Category, 5)
			}

			if err != nil {
				l.logger.Error("[launcher] Failed to generate %s: %v", target.kind, err)
				continue
			}
			generated++
			l.logger.Info("[launcher] Generated %s: %s", target.kind, doc.Title)
		}
	}
	return generated
}

// MiniCycle generates a single product, alternating between ebooks and
// Notion templates as the counter advances.
func (l *Launcher) MiniCycle(ctx context.Context) {
	l.logger.Info("[launcher] Running mini generation cycle")

	counter := l.nicheCounter
	niche := l.nextNiche()

	var doc *models.ProductDocument
	var err error
	if counter%2 == 0 {
		doc, err = l.generator.GenerateEbook(ctx, niche.Topic, niche.Audience)
	} else {
		doc, err = l.generator.GenerateNotionTemplate(ctx, "productivity template", niche.Topic)
	}

	if err != nil {
		l.logger.Error("[launcher] Mini cycle failed: %v", err)
		return
	}
	l.logger.Info("[launcher] Mini cycle generated: %s", doc.Title)
}

// RunContinuous registers the recurring cycles and polls the scheduler
// until the context is cancelled. An error escaping a poll is logged
// and followed by a cooldown pause; the loop itself never exits on its
// own.
func (l *Launcher) RunContinuous(ctx context.Context) error {
	l.logger.Info("[launcher] Starting continuous automation")

	sched := scheduler.New(l.logger)
	if err := sched.DailyAt("daily cycle", "09:00", func() { l.RunDailyCycle(ctx) }); err != nil {
		return err
	}
	sched.Every("mini cycle", miniCycleInterval, func() { l.MiniCycle(ctx) })
	if err := sched.DailyAt("price optimization", "15:00", func() { l.optimizer.Run() }); err != nil {
		return err
	}
	sched.Every("upload cycle", uploadCycleInterval, func() { l.uploader.UploadPending() })

	l.logger.Info("[launcher] Automation schedules set up")

	l.RunDailyCycle(ctx)

	for {
		select {
		case <-ctx.Done():
			l.logger.Info("[launcher] Automation stopped")
			return nil
		case <-time.After(pollInterval):
			if err := l.poll(sched); err != nil {
				l.logger.Error("[launcher] Automation error: %v, cooling down for %s", err, errorCooldown)
				select {
				case <-ctx.Done():
					l.logger.Info("[launcher] Automation stopped")
					return nil
				case <-time.After(errorCooldown):
				}
			}
		}
	}
}

// poll runs one scheduler pass, converting a panic into an error so the
// continuous loop can cool down and resume instead of crashing.
func (l *Launcher) poll(sched *scheduler.Scheduler) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("recovered panic: %v", r)
		}
	}()
	sched.RunPending()
	return nil
}

// SetupWebhooks registers the marketplace webhooks for real-time
// notifications.
func (l *Launcher) SetupWebhooks() {
	if l.cfg.WebhookURL == "" {
		l.logger.Error("[launcher] WEBHOOK_URL not configured, skipping webhook setup")
		return
	}

	id, err := l.webhooks.RegisterWebhook(l.cfg.WebhookURL, webhookEvents)
	if err != nil {
		l.logger.Error("[launcher] Failed to set up webhooks: %v", err)
		return
	}
	l.logger.Info("[launcher] Webhooks configured: %s", id)
}

// PerformanceSummary returns the extrapolated account summary.
func (l *Launcher) PerformanceSummary() (*models.PerformanceSummary, error) {
	return l.reporter.Summary()
}

func (l *Launcher) nextNiche() Niche {
	niche := niches[l.nicheCounter%len(niches)]
	l.nicheCounter++
	return niche
}
