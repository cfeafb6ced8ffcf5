// Command reusetrace reads a stream of "id address" pairs from stdin, one
// per line, and reports reuse-distance histograms for both engines plus a
// conventional LRU hit rate for comparison.
//
// Usage:
//
//	reusetrace -capacity 1024 -bin-individual 32 < trace.txt
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2/simplelru"

	"github.com/mlaurenzano/ReuseDistance"
)

func main() {
	capacity := flag.Uint64("capacity", 0, "window capacity (0 = unbounded)")
	binIndividual := flag.Uint64("bin-individual", reusedistance.DefaultBinIndividual, "exact-engine bucketing threshold (0 = never bucket)")
	flag.Parse()

	if err := run(os.Stdin, os.Stdout, *capacity, *binIndividual); err != nil {
		log.Fatal(err)
	}
}

func run(in io.Reader, out io.Writer, capacity, binIndividual uint64) error {
	exact := reusedistance.NewExactEngine(capacity, binIndividual)
	approx := reusedistance.NewApproxEngine(capacity)

	lruCapacity := int(capacity)
	if capacity == 0 {
		lruCapacity = 1 << 20
	}
	cache, err := lru.NewLRU[uint64, struct{}](lruCapacity, nil)
	if err != nil {
		return fmt.Errorf("reusetrace: building comparison LRU: %w", err)
	}

	var hits, total int

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 2 {
			return fmt.Errorf("reusetrace: malformed line %q: want \"id address\"", line)
		}
		id, err := strconv.ParseUint(fields[0], 10, 64)
		if err != nil {
			return fmt.Errorf("reusetrace: parsing id in %q: %w", line, err)
		}
		addr, err := strconv.ParseUint(fields[1], 10, 64)
		if err != nil {
			return fmt.Errorf("reusetrace: parsing address in %q: %w", line, err)
		}

		r := reusedistance.Record{ID: id, Address: addr}
		exact.Process(r)
		approx.Process(r)

		total++
		if cache.Contains(addr) {
			hits++
			cache.Get(addr)
		} else {
			cache.Add(addr, struct{}{})
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reusetrace: reading input: %w", err)
	}

	if err := exact.Fprint(out); err != nil {
		return fmt.Errorf("reusetrace: writing exact-engine report: %w", err)
	}
	if err := approx.Fprint(out); err != nil {
		return fmt.Errorf("reusetrace: writing approx-engine report: %w", err)
	}

	hitRate := 0.0
	if total > 0 {
		hitRate = float64(hits) / float64(total)
	}
	if _, err := fmt.Fprintf(out, "LRUBASELINE\t%d\t%d\t%d\t%.4f\n", lruCapacity, total, hits, hitRate); err != nil {
		return fmt.Errorf("reusetrace: writing LRU baseline: %w", err)
	}
	return nil
}
