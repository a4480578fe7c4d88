// Package replay runs recorded customer transcripts through the chat router
// and summarizes how they were classified.
package replay

import (
	"bufio"
	"context"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/go-faster/errors"
	"github.com/klauspost/pgzip"
	"golang.org/x/sync/errgroup"

	"github.com/xenking/shop-assistant/internal/domain/chat"
	"github.com/xenking/shop-assistant/internal/domain/user"
)

const (
	// DefaultExpected sizes the duplicate filter when Options.Expected is unset.
	DefaultExpected = 1_000_000
	// DefaultFalsePositiveRate of the duplicate filter.
	DefaultFalsePositiveRate = 0.001

	maxLineSize = 1 << 20
)

// Options tune a Replayer.
type Options struct {
	// Workers bounds concurrent classifications; defaults to 1.
	Workers int
	// Expected is the anticipated number of distinct utterances.
	Expected uint
	// FalsePositiveRate of the duplicate filter. A false positive drops a
	// line that was never seen before.
	FalsePositiveRate float64
	// KeepDuplicates disables duplicate suppression.
	KeepDuplicates bool
}

// Replayer classifies transcript lines of the form "user_id<TAB>message".
type Replayer struct {
	router *chat.Router
	users  user.Repository
	opts   Options
}

// New creates a Replayer.
func New(router *chat.Router, users user.Repository, opts Options) *Replayer {
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if opts.Expected == 0 {
		opts.Expected = DefaultExpected
	}
	if opts.FalsePositiveRate <= 0 || opts.FalsePositiveRate >= 1 {
		opts.FalsePositiveRate = DefaultFalsePositiveRate
	}
	return &Replayer{router: router, users: users, opts: opts}
}

// Run reads r to the end and classifies every distinct utterance.
// Blank lines are ignored. A line without a tab is counted as malformed.
func (rp *Replayer) Run(ctx context.Context, r io.Reader) (*Report, error) {
	report := newReport()
	var mu sync.Mutex

	var seen *bloom.BloomFilter
	if !rp.opts.KeepDuplicates {
		seen = bloom.NewWithEstimates(rp.opts.Expected, rp.opts.FalsePositiveRate)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(rp.opts.Workers)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64<<10), maxLineSize)
	for scanner.Scan() {
		if err := gctx.Err(); err != nil {
			break
		}
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		report.Lines++

		userID, message, ok := strings.Cut(line, "\t")
		if !ok {
			report.Malformed++
			continue
		}
		userID = strings.TrimSpace(userID)

		if seen != nil && seen.TestAndAddString(userID+"\x00"+strings.ToLower(message)) {
			report.Duplicates++
			continue
		}

		g.Go(func() error {
			u, err := rp.users.UserByID(userID)
			if err != nil {
				if !errors.Is(err, user.ErrNotFound) {
					return errors.Wrapf(err, "resolve user %q", userID)
				}
				mu.Lock()
				report.Unauthenticated++
				mu.Unlock()
				return nil
			}

			res := rp.router.Classify(message, u)

			mu.Lock()
			report.add(res)
			mu.Unlock()
			return nil
		})
	}
	scanErr := scanner.Err()

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if scanErr != nil {
		return nil, errors.Wrap(scanErr, "read transcript")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return report, nil
}

// OpenTranscript opens path for reading. Files ending in ".gz" are
// decompressed with pgzip.
func OpenTranscript(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open transcript")
	}
	if !strings.HasSuffix(path, ".gz") {
		return f, nil
	}
	gz, err := pgzip.NewReader(f)
	if err != nil {
		_ = f.Close()
		return nil, errors.Wrapf(err, "create gzip reader for %s", path)
	}
	return &gzipTranscript{Reader: gz, file: f}, nil
}

type gzipTranscript struct {
	*pgzip.Reader
	file *os.File
}

func (g *gzipTranscript) Close() error {
	err := g.Reader.Close()
	if cerr := g.file.Close(); err == nil {
		err = cerr
	}
	return err
}
