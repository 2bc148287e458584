package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/kargakis/xrep/pkg/fsutil"
	"github.com/kargakis/xrep/pkg/params"
	"github.com/kargakis/xrep/pkg/pipeline"
	"github.com/kargakis/xrep/pkg/scatter"
)

var (
	masterPath = flag.String("master", "master.dat", "Path to the master file (reference stream followed by test stream)")
	mapPath    = flag.String("map", "map.dat", "Path to write the fingerprint map file to")

	referenceLength = flag.Uint64("reference-length", 0, "Reference stream length in bytes (ns). Required.")

	shingleLength    = flag.Int("shingle-length", params.Default().L, "Shingle length L")
	prefixLength     = flag.Int("prefix-length", params.Default().LP, "Minimum reported common-substring length LP")
	commonModulus    = flag.Uint64("common-modulus", params.Default().MCom, "Common-hash modulus M_COM")
	diversityModulus = flag.Uint64("diversity-modulus", params.Default().MDiv, "Diversified-hash modulus M_DIV")
	batchSize        = flag.Int("batch-size", params.Default().BatchSize, "Shingles per container batch")

	pin  = flag.Bool("pin", false, "Pin each pipeline worker to its own CPU")
	demo = flag.Bool("demo", false, "Inject a guaranteed-detectable demo substring")
)

func main() {
	flag.Parse()

	if *referenceLength == 0 {
		fmt.Println("reference-length is required and must be nonzero")
		os.Exit(1)
	}

	cfg := params.Default()
	cfg.L = *shingleLength
	cfg.LP = *prefixLength
	cfg.MCom = *commonModulus
	cfg.MDiv = *diversityModulus
	cfg.BatchSize = *batchSize
	cfg.Ns = *referenceLength
	cfg.MasterPath = *masterPath
	cfg.MapPath = *mapPath
	cfg.DemoInjection = *demo

	log, err := zap.NewProduction()
	if err != nil {
		fmt.Printf("cannot set up logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	fs, err := fsutil.Get(fsutil.OsType)
	if err != nil {
		fmt.Printf("cannot set up filesystem: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Scattering %d reference bytes from %s into %s\n", cfg.Ns, cfg.MasterPath, cfg.MapPath)
	start := time.Now()
	result, err := scatter.Run(fs, cfg, time.Now().UnixNano(), *pin, log)
	if err != nil {
		fmt.Printf("scatter failed: %v\n", err)
		if fe, ok := asFatal(err); ok {
			os.Exit(fe.Code)
		}
		os.Exit(1)
	}

	fmt.Printf("Scatter: OK (%v)\n", time.Since(start))
	fmt.Printf("  worker1 (reader) process time:     %v\n", result.Stats.W1.Process)
	fmt.Printf("  worker2 (hasher) process time:     %v\n", result.Stats.W2.Process)
	fmt.Printf("  worker3 (map writer) process time: %v\n", result.Stats.W3.Process)
}

func asFatal(err error) (*pipeline.FatalError, bool) {
	fe, ok := err.(*pipeline.FatalError)
	return fe, ok
}
