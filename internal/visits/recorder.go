// Package visits records one row per public request. Recording runs beside
// the request and can never fail, slow down or alter it.
package visits

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/aTrapDeer/portfolio-backend/internal/logger"
	"github.com/aTrapDeer/portfolio-backend/internal/models"
	"github.com/aTrapDeer/portfolio-backend/internal/utils"
)

const writeTimeout = 5 * time.Second

type Writer interface {
	Record(ctx context.Context, v *models.Visit) error
}

const defaultQueueSize = 256

type Options struct {
	ExcludedPrefixes []string // matched against the path without its leading "/"
	CountryHeader    string
	TrustProxy       bool
	QueueSize        int // pending visits before new ones are dropped
}

// Recorder writes visits from a bounded queue with a single writer. Visits
// arriving while the queue is full are dropped.
type Recorder struct {
	w     Writer
	opts  Options
	log   logger.Logger
	queue chan *models.Visit
	wg    sync.WaitGroup
}

func New(w Writer, opts Options, log logger.Logger) *Recorder {
	if opts.QueueSize <= 0 {
		opts.QueueSize = defaultQueueSize
	}
	r := &Recorder{w: w, opts: opts, log: log, queue: make(chan *models.Visit, opts.QueueSize)}
	go r.run()
	return r
}

// Excluded reports whether path belongs to an area that is never recorded.
func (r *Recorder) Excluded(path string) bool {
	p := strings.TrimPrefix(path, "/")
	for _, prefix := range r.opts.ExcludedPrefixes {
		if prefix != "" && strings.HasPrefix(p, prefix) {
			return true
		}
	}
	return false
}

// Middleware queues the visit and calls next straight away.
func (r *Recorder) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if !r.Excluded(req.URL.Path) {
			r.enqueue(r.visit(req))
		}
		next.ServeHTTP(w, req)
	})
}

func (r *Recorder) visit(req *http.Request) *models.Visit {
	v := &models.Visit{
		IPAddress: utils.ClientIP(req, r.opts.TrustProxy),
		URL:       utils.RequestURL(req, r.opts.TrustProxy),
		UserAgent: req.UserAgent(),
	}
	if r.opts.CountryHeader != "" {
		if cc := strings.TrimSpace(req.Header.Get(r.opts.CountryHeader)); cc != "" {
			v.CountryCode = &cc
		}
	}
	return v
}

func (r *Recorder) enqueue(v *models.Visit) {
	r.wg.Add(1)
	select {
	case r.queue <- v:
	default:
		r.wg.Done()
		r.log.Debug("visit queue full, dropping visit", logger.String("url", v.URL))
	}
}

func (r *Recorder) run() {
	for v := range r.queue {
		r.write(v)
		r.wg.Done()
	}
}

func (r *Recorder) write(v *models.Visit) {
	defer func() {
		if p := recover(); p != nil {
			r.log.Debug("visit recorder panicked", logger.Any("panic", p))
		}
	}()
	// Detached from the request context, which ends with the response.
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	if err := r.w.Record(ctx, v); err != nil {
		r.log.Debug("failed to record visit", logger.String("url", v.URL), logger.Error(err))
	}
}

// Wait blocks until queued visits are written.
func (r *Recorder) Wait() {
	r.wg.Wait()
}
