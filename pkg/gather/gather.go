// Package gather implements the second of the two xrep pipelines: it
// reads the test stream starting where the reference stream left off,
// probes each shingle's fingerprints against a map file scatter
// produced, and reports runs of consecutive hits long enough to imply
// a common substring of at least LP bytes.
package gather

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/kargakis/xrep/pkg/affinity"
	"github.com/kargakis/xrep/pkg/bitmap"
	"github.com/kargakis/xrep/pkg/demo"
	"github.com/kargakis/xrep/pkg/hashengine"
	"github.com/kargakis/xrep/pkg/params"
	"github.com/kargakis/xrep/pkg/pipeline"
	"github.com/kargakis/xrep/pkg/shuffle"
	"github.com/kargakis/xrep/pkg/worker"
)

// Result is the outcome of a completed gather run: the shingle
// positions in the test stream that survive filtering, the longest
// hit run observed, and the per-worker timing breakdown.
type Result struct {
	Residue  []uint64
	MaxCount int
	Stats    pipeline.Stats
}

// Run executes the gather pipeline: it loads cfg.MapPath (which also
// carries the setup time scatter used to build its shuffle table),
// seeks cfg.MasterPath to offset cfg.Ns, and probes the map with every
// shingle of the following cfg.NS bytes.
func Run(fs afero.Fs, cfg params.Config, pin bool, log *zap.Logger) (Result, error) {
	if err := cfg.Validate(); err != nil {
		return Result{}, err
	}

	setupTime, m, err := bitmap.Load(fs, cfg.MapPath, cfg)
	if err != nil {
		code := pipeline.ExitMapFileShort
		if errors.Is(err, bitmap.ErrMapFileOpen) {
			code = pipeline.ExitMapFileOpen
		}
		return Result{}, &pipeline.FatalError{Code: code, Err: err}
	}

	table, err := shuffle.Generate(setupTime)
	if err != nil {
		return Result{}, &pipeline.FatalError{Code: pipeline.ExitShuffleNotBijection, Err: err}
	}

	f, err := fs.Open(cfg.MasterPath)
	if err != nil {
		return Result{}, fmt.Errorf("cannot open master file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return Result{}, fmt.Errorf("cannot stat master file: %w", err)
	}
	if uint64(info.Size()) < cfg.Ns+cfg.NS {
		return Result{}, &pipeline.FatalError{
			Code: pipeline.ExitMasterTooShort,
			Err:  fmt.Errorf("master file has %d bytes, need %d", info.Size(), cfg.Ns+cfg.NS),
		}
	}
	if _, err := f.Seek(int64(cfg.Ns), io.SeekStart); err != nil {
		return Result{}, fmt.Errorf("cannot seek master file to test stream: %w", err)
	}

	batchCount, err := cfg.BatchCount(cfg.NS)
	if err != nil {
		return Result{}, &pipeline.FatalError{Code: pipeline.ExitBatchCountTooSmall, Err: err}
	}

	var injectFn func(int, []byte)
	if cfg.DemoInjection {
		injectFn = demo.GatherFunc(batchCount)
	}

	rdr := worker.NewReader(f, table, cfg.LC(), injectFn)
	hsr := worker.NewHasher(hashengine.New(cfg))
	mw := worker.NewGatherMapWorker(m, cfg)

	coord := pipeline.New(cfg)
	if pin {
		coord = coord.WithAffinity(func(w, cpu int) error {
			if err := affinity.Pin(cpu); err != nil {
				log.Warn("cpu pin failed", zap.Int("worker", w), zap.Int("cpu", cpu), zap.Error(err))
			}
			return nil
		})
	}

	log.Info("gather starting",
		zap.String("master", cfg.MasterPath),
		zap.String("map", cfg.MapPath),
		zap.Uint64("test_bytes", cfg.NS),
		zap.Int("batch_count", batchCount),
	)

	stats, err := coord.Run(cfg.NS, rdr, hsr, mw)
	if err != nil {
		log.Error("gather failed", zap.Error(err))
		return Result{}, err
	}

	log.Info("gather complete",
		zap.Int("residue", len(mw.Residue())),
		zap.Int("max_count", mw.MaxCount()),
		zap.Duration("w1_process", stats.W1.Process),
		zap.Duration("w2_process", stats.W2.Process),
		zap.Duration("w3_process", stats.W3.Process),
	)

	return Result{Residue: mw.Residue(), MaxCount: mw.MaxCount(), Stats: stats}, nil
}
