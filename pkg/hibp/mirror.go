// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package hibp

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/alvinbaena/cybershield/internal/util"
	"github.com/rs/zerolog/log"
	"github.com/thinhdanggroup/executor"
)

// averageRangeSize is what a range file weighs on disk, give or take.
const averageRangeSize = 40 * 1024

// Mirror copies ranges from the remote API into a directory readable by DirSource.
type Mirror struct {
	parallelism int
	dir         string
	overwrite   bool
	source      *RemoteSource
	stat        *status
}

// NewMirror downloads into dir with the given number of workers. Less than 1 worker defaults
// to eight times the number of logical processors.
func NewMirror(dir string, parallelism int, overwrite bool, source *RemoteSource) *Mirror {
	return &Mirror{
		parallelism: parallelism,
		dir:         dir,
		overwrite:   overwrite,
		source:      source,
	}
}

// ProcessRanges mirrors the first n ranges. Failed ranges are logged and reported together at the end.
func (m *Mirror) ProcessRanges(ctx context.Context, ranges int) error {
	if ranges <= 0 || ranges > TotalRanges {
		return fmt.Errorf("ranges must be between 1 and %d", TotalRanges)
	}

	if err := os.MkdirAll(m.dir, 0o755); err != nil {
		return err
	}

	if err := util.CheckDiskSpace(m.dir, uint64(ranges)*averageRangeSize); err != nil {
		return err
	}

	s := util.Stats()
	defer s()

	threads := m.parallelism
	if threads < 1 {
		// About 8 times nets a sustained download of about 150 Mbit/s
		threads = runtime.NumCPU() * 8
	}

	// Bounded worker pool
	tasks, err := executor.New(executor.Config{
		ReqPerSeconds: 0,
		QueueSize:     2 * threads,
		NumWorkers:    threads,
	})
	if err != nil {
		return err
	}
	defer tasks.Close()

	log.Info().Msgf("mirroring %d Pwned Passwords ranges into %s with %d threads, ^C to stop the process", ranges, m.dir, threads)
	m.stat = newStatus(ranges)
	m.stat.BeginProgress()

	for i := 0; i < ranges; i++ {
		if err = tasks.Publish(m.ProcessRange, ctx, rangePrefix(i)); err != nil {
			log.Panic().Err(err).Msgf("there is a programming error here.")
		}
	}

	tasks.Wait()
	m.stat.Done()

	if failed := m.stat.failed(); failed > 0 {
		return fmt.Errorf("%d of %d ranges failed to mirror", failed, ranges)
	}
	return nil
}

// ProcessRange downloads and stores a single range.
func (m *Mirror) ProcessRange(ctx context.Context, prefix string) {
	if ctx.Err() != nil {
		m.stat.RangeFailed()
		return
	}

	file := rangeFile(m.dir, prefix)
	if !m.overwrite {
		if _, err := os.Stat(file); err == nil {
			log.Debug().Msgf("range %s already mirrored, skipping", prefix)
			m.stat.RangeDownloaded()
			return
		}
	}

	timer := time.Now()
	body, header, err := m.source.fetch(ctx, prefix)
	if err != nil {
		log.Error().Err(err).Msgf("error downloading range %s", prefix)
		m.stat.RangeFailed()
		return
	}
	m.stat.RequestComplete(header, time.Since(timer).Milliseconds())

	if err = writeRange(file, body); err != nil {
		log.Error().Err(err).Msgf("error writing range %s", prefix)
		m.stat.RangeFailed()
		return
	}

	m.stat.HashesDownloaded(countRecords(body))
	m.stat.RangeDownloaded()
}

// writeRange writes next to the target and renames, readers never see half a range.
func writeRange(file string, body []byte) error {
	tmp := file + ".part"
	if err := os.WriteFile(tmp, body, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, file)
}

func countRecords(body []byte) uint64 {
	n := bytes.Count(body, []byte("\n"))
	if len(body) > 0 && body[len(body)-1] != '\n' {
		n++
	}
	return uint64(n)
}
