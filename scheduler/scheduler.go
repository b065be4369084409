package scheduler

import (
	"fmt"
	"time"

	"whop-automation/utils"
)

// Job is one scheduled unit of work. Jobs run inline on the caller's
// goroutine when RunPending finds them due; a slow job delays every
// other scheduled job, which is the intended single-threaded model.
type Job struct {
	name     string
	interval time.Duration // zero for daily-at jobs
	atHour   int
	atMinute int
	daily    bool
	next     time.Time
	fn       func()
}

// Name returns the job's registered name.
func (j *Job) Name() string { return j.name }

// NextRun returns when the job is next due.
func (j *Job) NextRun() time.Time { return j.next }

// Scheduler holds fixed-interval and fixed-time jobs and runs whichever
// are due each time RunPending is polled.
type Scheduler struct {
	jobs   []*Job
	logger *utils.Logger
	now    func() time.Time
}

// New creates an empty Scheduler.
func New(logger *utils.Logger) *Scheduler {
	return &Scheduler{logger: logger, now: time.Now}
}

// Every registers fn to run once per interval, starting one interval
// from now.
func (s *Scheduler) Every(name string, interval time.Duration, fn func()) {
	job := &Job{
		name:     name,
		interval: interval,
		next:     s.now().Add(interval),
		fn:       fn,
	}
	s.jobs = append(s.jobs, job)
	s.logger.Info("[scheduler] Registered %q every %s — next run %s",
		name, interval, job.next.Format("15:04:05"))
}

// DailyAt registers fn to run once per day at the given wall-clock time
// ("15:04", local time).
func (s *Scheduler) DailyAt(name, clock string, fn func()) error {
	parsed, err := time.Parse("15:04", clock)
	if err != nil {
		return fmt.Errorf("scheduler: bad time %q for %q: %w", clock, name, err)
	}

	job := &Job{
		name:     name,
		daily:    true,
		atHour:   parsed.Hour(),
		atMinute: parsed.Minute(),
		fn:       fn,
	}
	job.next = s.nextDaily(job, s.now())
	s.jobs = append(s.jobs, job)
	s.logger.Info("[scheduler] Registered %q daily at %s — next run %s",
		name, clock, job.next.Format("Jan 2 15:04"))
	return nil
}

// RunPending runs every due job inline and reschedules it. Returns the
// number of jobs that ran.
func (s *Scheduler) RunPending() int {
	ran := 0
	for _, job := range s.jobs {
		now := s.now()
		if now.Before(job.next) {
			continue
		}

		s.logger.Info("[scheduler] Running job %q", job.name)
		job.fn()
		ran++

		if job.daily {
			job.next = s.nextDaily(job, s.now())
		} else {
			job.next = s.now().Add(job.interval)
		}
	}
	return ran
}

// Jobs returns the registered jobs, in registration order.
func (s *Scheduler) Jobs() []*Job { return s.jobs }

func (s *Scheduler) nextDaily(job *Job, now time.Time) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), job.atHour, job.atMinute, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}
