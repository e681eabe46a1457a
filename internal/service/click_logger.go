package service

import (
	"context"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"shorturl-go/internal/geoip"
	"shorturl-go/internal/model"
	"shorturl-go/internal/repository"
)

// Sentinels recorded when a click arrives without the corresponding data.
const (
	ReferrerDirect   = "Direct"
	UserAgentUnknown = "Unknown"
	CountryUndefined = "Undefined"
)

// ClickJob carries what the resolution path knows about one click.
type ClickJob struct {
	ShortCode  string
	ClientAddr string
	Referrer   string
	UserAgent  string
}

// ClickLogger records one ClickEvent per successful resolution, off the
// response path. Enqueue never blocks: when the queue is full the click is
// dropped and counted. Workers absorb every failure; nothing here is ever
// surfaced to the redirecting request.
type ClickLogger struct {
	jobs    chan ClickJob
	links   repository.LinkRepository
	clicks  repository.ClickRepository
	geo     geoip.Resolver
	log       *zap.Logger
	wg        sync.WaitGroup
	closeOnce sync.Once
	dropped   atomic.Int64
}

func NewClickLogger(links repository.LinkRepository, clicks repository.ClickRepository,
	geo geoip.Resolver, log *zap.Logger, queueSize, workers int) *ClickLogger {
	if queueSize <= 0 {
		queueSize = 256
	}
	if workers <= 0 {
		workers = 4
	}

	l := &ClickLogger{
		jobs:   make(chan ClickJob, queueSize),
		links:  links,
		clicks: clicks,
		geo:    geo,
		log:    log,
	}
	for i := 0; i < workers; i++ {
		l.wg.Add(1)
		go l.worker()
	}
	return l
}

// Enqueue hands a click to the worker pool and returns immediately.
func (l *ClickLogger) Enqueue(job ClickJob) {
	select {
	case l.jobs <- job:
	default:
		n := l.dropped.Add(1)
		l.log.Warn("click queue full, dropping event",
			zap.String("short_code", job.ShortCode), zap.Int64("dropped_total", n))
	}
}

// Close stops accepting jobs and waits for in-flight ones to finish. It is
// safe to call more than once.
func (l *ClickLogger) Close() {
	l.closeOnce.Do(func() { close(l.jobs) })
	l.wg.Wait()
}

// Dropped reports how many clicks were discarded because the queue was full.
func (l *ClickLogger) Dropped() int64 {
	return l.dropped.Load()
}

func (l *ClickLogger) worker() {
	defer l.wg.Done()
	for job := range l.jobs {
		l.record(job)
	}
}

func (l *ClickLogger) record(job ClickJob) {
	// Detached from the originating request; the redirect has already
	// been served by the time this runs.
	ctx := context.Background()

	link, err := l.links.FindByShortCode(ctx, job.ShortCode)
	if err != nil || link == nil {
		// The link vanished between resolve and record, or the store is
		// down. Click accounting is best-effort either way.
		l.log.Debug("skipping click for unresolvable code",
			zap.String("short_code", job.ShortCode), zap.Error(err))
		return
	}

	country, err := l.geo.Country(ctx, job.ClientAddr)
	if err != nil {
		country = CountryUndefined
	}

	referrer := job.Referrer
	if referrer == "" {
		referrer = ReferrerDirect
	}
	userAgent := job.UserAgent
	if userAgent == "" {
		userAgent = UserAgentUnknown
	}

	event := &model.ClickEvent{
		URLID:     link.ID,
		IPAddress: job.ClientAddr,
		Referrer:  referrer,
		UserAgent: userAgent,
		Country:   country,
	}
	if err := l.clicks.Create(ctx, event); err != nil {
		l.log.Warn("failed to record click",
			zap.String("short_code", job.ShortCode), zap.Error(err))
	}
}
