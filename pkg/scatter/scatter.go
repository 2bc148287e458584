// Package scatter implements the first of the two xrep pipelines: it
// reads the reference stream once, diversified-hashes every shingle,
// and clears the corresponding bits of a fresh bit-sliced map, which
// it then writes out as a map file for one or more later gather runs
// to consume.
package scatter

import (
	"fmt"

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

// Result is the outcome of a completed scatter run.
type Result struct {
	SetupTime int64
	Stats     pipeline.Stats
}

// Run executes the scatter pipeline: it opens cfg.MasterPath on fs,
// builds a byte-shuffle table from setupTime, clears map bits for
// every reference shingle, and writes the map out to cfg.MapPath.
// setupTime is also the map file's embedded header, so a gather run
// can reproduce the identical shuffle table.
func Run(fs afero.Fs, cfg params.Config, setupTime int64, pin bool, log *zap.Logger) (Result, error) {
	if err := cfg.Validate(); err != nil {
		return Result{}, err
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
	if uint64(info.Size()) < cfg.Ns {
		return Result{}, &pipeline.FatalError{
			Code: pipeline.ExitMasterTooShort,
			Err:  fmt.Errorf("master file has %d bytes, need %d", info.Size(), cfg.Ns),
		}
	}

	table, err := shuffle.Generate(setupTime)
	if err != nil {
		return Result{}, &pipeline.FatalError{Code: pipeline.ExitShuffleNotBijection, Err: err}
	}

	m := bitmap.New(cfg)

	batchCount, err := cfg.BatchCount(cfg.Ns)
	if err != nil {
		return Result{}, &pipeline.FatalError{Code: pipeline.ExitBatchCountTooSmall, Err: err}
	}

	var injectFn func(int, []byte)
	if cfg.DemoInjection {
		injectFn = demo.ScatterFunc(batchCount)
	}

	rdr := worker.NewReader(f, table, cfg.LC(), injectFn)
	hsr := worker.NewHasher(hashengine.New(cfg))
	mw := worker.NewScatterMapWorker(m)

	coord := pipeline.New(cfg)
	if pin {
		coord = coord.WithAffinity(func(w, cpu int) error {
			if err := affinity.Pin(cpu); err != nil {
				log.Warn("cpu pin failed", zap.Int("worker", w), zap.Int("cpu", cpu), zap.Error(err))
			}
			return nil
		})
	}

	log.Info("scatter starting",
		zap.String("master", cfg.MasterPath),
		zap.Uint64("reference_bytes", cfg.Ns),
		zap.Int("batch_count", batchCount),
	)

	stats, err := coord.Run(cfg.Ns, rdr, hsr, mw)
	if err != nil {
		log.Error("scatter failed", zap.Error(err))
		return Result{}, err
	}

	if err := bitmap.Save(fs, cfg.MapPath, setupTime, m); err != nil {
		return Result{}, fmt.Errorf("cannot save map file: %w", err)
	}

	log.Info("scatter complete",
		zap.String("map", cfg.MapPath),
		zap.Duration("w1_process", stats.W1.Process),
		zap.Duration("w2_process", stats.W2.Process),
		zap.Duration("w3_process", stats.W3.Process),
	)

	return Result{SetupTime: setupTime, Stats: stats}, nil
}
