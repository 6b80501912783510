// Command spscbench runs the producer/consumer harness over every queue
// implementation in this module and reports throughput.
//
// Usage:
//
//	go run ./cmd/spscbench -n 10000000 -size 1024
package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"

	"github.com/hotpath/spscq"
	"github.com/hotpath/spscq/internal/baseline"
	"github.com/hotpath/spscq/internal/harness"
)

type queueInfo struct {
	name   string
	create func(size int) (spscq.Queue[int], error)
}

func main() {
	items := flag.Int("n", 10_000_000, "number of items to transfer")
	size := flag.Int("size", 1024, "queue capacity")
	flag.Parse()

	queues := []queueInfo{
		{"IndexPair", func(size int) (spscq.Queue[int], error) {
			return spscq.NewIndexPair[int](size)
		}},
		{"SlotSequence", func(size int) (spscq.Queue[int], error) {
			return spscq.NewSlotSequence[int](size)
		}},
		{"Mutex", func(int) (spscq.Queue[int], error) {
			return baseline.NewMutex[int](), nil
		}},
		{"Channel", func(size int) (spscq.Queue[int], error) {
			return baseline.NewChannel[int](size), nil
		}},
	}

	fmt.Printf("SPSC transfer benchmark (%d items, capacity=%d)\n", *items, *size)
	fmt.Printf("Architecture: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	fmt.Println("─────────────────────────────────────────────────")

	results := make([]harness.Result, len(queues))
	for i, info := range queues {
		q, err := info.create(*size)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", info.name, err)
			os.Exit(1)
		}
		res, err := harness.Run(q, *items)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", info.name, err)
			os.Exit(1)
		}
		results[i] = res
		fmt.Printf("  %-14s %12v  %8.2f ns/op  %8.2f M items/sec\n",
			info.name, res.Elapsed, res.NsPerOp(), res.Throughput())
	}

	best := 0
	for i := range results {
		if results[i].Elapsed < results[best].Elapsed {
			best = i
		}
	}
	fmt.Printf("\nFastest: %s\n", queues[best].name)
	for i := range results {
		if i == best {
			continue
		}
		fmt.Printf("  %-14s %.2fx slower\n",
			queues[i].name, float64(results[i].Elapsed)/float64(results[best].Elapsed))
	}
}
