package hibp

import (
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

type status struct {
	rangesDownloaded           atomic.Uint64
	rangesFailed               atomic.Uint64
	hashesDownloaded           atomic.Uint64
	cloudflareRequests         atomic.Uint64
	cloudflareHits             atomic.Uint64
	cloudflareMisses           atomic.Uint64
	cloudflareRequestTimeTotal atomic.Uint64
	start                      time.Time
	ticker                     *time.Ticker
	progress                   chan struct{}
	once                       sync.Once
	totalRanges                int
}

func newStatus(totalRanges int) *status {
	return &status{
		start:       time.Now(),
		ticker:      time.NewTicker(10 * time.Second),
		progress:    make(chan struct{}),
		totalRanges: totalRanges,
	}
}

// BeginProgress reports the progress of the mirror every 10 seconds.
func (s *status) BeginProgress() {
	go func() {
		for {
			select {
			case <-s.progress:
				return
			case <-s.ticker.C:
				done := float64(s.rangesDownloaded.Load()+s.rangesFailed.Load()) * 100
				log.Info().Msgf("%.2f%% ranges processed. %.0f hashes/s", done/float64(s.totalRanges), s.hashesPerSecond())
			}
		}
	}()
}

func (s *status) RangeDownloaded() {
	s.rangesDownloaded.Add(1)
}

func (s *status) RangeFailed() {
	s.rangesFailed.Add(1)
}

func (s *status) HashesDownloaded(n uint64) {
	s.hashesDownloaded.Add(n)
}

func (s *status) RequestComplete(header http.Header, millis int64) {
	s.cloudflareRequestTimeTotal.Add(uint64(millis))
	s.cloudflareRequests.Add(1)

	if header.Get("CF-Cache-Status") == "HIT" {
		s.cloudflareHits.Add(1)
	} else {
		s.cloudflareMisses.Add(1)
	}
}

func (s *status) failed() uint64 {
	return s.rangesFailed.Load()
}

func (s *status) hashesPerSecond() float64 {
	elapsed := time.Since(s.start)
	if elapsed.Nanoseconds() > 0 {
		return float64(s.hashesDownloaded.Load()) / elapsed.Seconds()
	}
	return float64(s.hashesDownloaded.Load())
}

func (s *status) Done() {
	s.once.Do(func() {
		s.ticker.Stop()
		close(s.progress)
	})

	p := message.NewPrinter(language.English)
	log.Info().Msgf("finished mirroring %s ranges in %v. %.0f hashes/s",
		p.Sprintf("%d", s.rangesDownloaded.Load()), time.Since(s.start), s.hashesPerSecond())

	requests := s.cloudflareRequests.Load()
	if requests == 0 {
		return
	}

	hits, misses := s.cloudflareHits.Load(), s.cloudflareMisses.Load()
	requestAverage := float64(s.cloudflareRequestTimeTotal.Load()) / float64(requests)
	log.Debug().Msgf("made %s Cloudflare requests. Average response time %.2f ms", p.Sprintf("%d", requests), requestAverage)
	log.Debug().Msgf("cloudflare cache hits: %s (%.2f%%), misses: %s (%.2f%%)",
		p.Sprintf("%d", hits), float64(hits*100)/float64(requests), p.Sprintf("%d", misses), float64(misses*100)/float64(requests))
}
