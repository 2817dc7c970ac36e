// Command measure runs the classical scenarios on every engine, then
// benchmarks them against reference ordered maps and prints a table.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"strings"
	"testing"

	"github.com/emirpasic/gods/trees/avltree"
	"github.com/emirpasic/gods/trees/redblacktree"
	"github.com/emirpasic/gods/utils"
	"github.com/g-m-twostay/sortedmaps"
	"github.com/g-m-twostay/sortedmaps/Invariants"
	"github.com/g-m-twostay/sortedmaps/Lists"
	"github.com/g-m-twostay/sortedmaps/Trees"
	"github.com/google/btree"
	"github.com/olekukonko/tablewriter"
	"github.com/petar/GoLLRB/llrb"
)

var (
	nFlag           = flag.Int("n", 100000, "number of keys each benchmark inserts, queries and deletes.")
	seedFlag        = flag.Uint64("seed", 1, "seed of the key generator and of the skip list levels.")
	logLevelFlag    = flag.String("log_level", "info", "The log level to use. Can be one of debug, info, warn, error.")
	handlerTypeFlag = flag.String("log_handler_type", "text", "The log handler type to use. Can be one of json, text.")
)

func initLogging(handlerType, logLevel string) {
	slogLevel := slog.LevelInfo
	switch logLevel {
	case "debug":
		slogLevel = slog.LevelDebug
	case "info":
		slogLevel = slog.LevelInfo
	case "warn":
		slogLevel = slog.LevelWarn
	case "error":
		slogLevel = slog.LevelError
	default:
		Invariants.Raise("log", "unsupported_log_level", fmt.Errorf("unsupported log level %q", logLevel))
	}

	handlerOptions := slog.HandlerOptions{Level: slogLevel}
	var handler slog.Handler
	switch handlerType {
	case "json":
		handler = slog.NewJSONHandler(os.Stderr, &handlerOptions)
	case "text":
		handler = slog.NewTextHandler(os.Stderr, &handlerOptions)
	default:
		Invariants.Raise("log", "unsupported_handler_type", fmt.Errorf("unsupported handler type %q", handlerType))
	}
	slog.SetDefault(slog.New(handler))
	slog.Debug("Log handler configured.", "type", handlerType, "logLevel", logLevel)
}

// target is what a benchmark needs from an ordered map of int32.
type target interface {
	insert(int32)
	has(int32) bool
	remove(int32)
	check() error
}

type engine struct {
	m sortedmaps.Map[int32, uint32]
}

func self(k int32) int32 {
	return k
}

func (e engine) insert(k int32)   { e.m.Insert(k) }
func (e engine) has(k int32) bool { return e.m.Has(k) }
func (e engine) remove(k int32)   { e.m.Delete(k) }
func (e engine) check() error     { return e.m.Verify() }

// godsTree is the part shared by the gods avl and red-black trees.
type godsTree interface {
	Put(key, value interface{})
	Get(key interface{}) (interface{}, bool)
	Remove(key interface{})
}

type gods struct {
	t godsTree
}

func (g gods) insert(k int32) { g.t.Put(k, struct{}{}) }
func (g gods) has(k int32) bool {
	_, found := g.t.Get(k)
	return found
}
func (g gods) remove(k int32) { g.t.Remove(k) }
func (g gods) check() error   { return nil }

type bTree struct {
	t *btree.BTreeG[int32]
}

func (b bTree) insert(k int32)   { b.t.ReplaceOrInsert(k) }
func (b bTree) has(k int32) bool { return b.t.Has(k) }
func (b bTree) remove(k int32)   { b.t.Delete(k) }
func (b bTree) check() error     { return nil }

type llrbTree struct {
	t *llrb.LLRB
}

func (l llrbTree) insert(k int32)   { l.t.ReplaceOrInsert(llrb.Int(k)) }
func (l llrbTree) has(k int32) bool { return l.t.Has(llrb.Int(k)) }
func (l llrbTree) remove(k int32)   { l.t.Delete(llrb.Int(k)) }
func (l llrbTree) check() error     { return nil }

type subject struct {
	name   string
	create func() target
}

func subjects(hint uint32, seed uint64) []subject {
	return []subject{
		{"avl", func() target {
			t, _ := Trees.NewAVLTree[int32, uint32](self, hint)
			return engine{t}
		}},
		{"rb", func() target {
			t, _ := Trees.NewRBTree[int32, uint32](self, hint)
			return engine{t}
		}},
		{"skiplist", func() target {
			l, _ := Lists.NewSkipList[int32, uint32](self, seed)
			return engine{l}
		}},
		{"gods avl", func() target { return gods{avltree.NewWith(utils.Int32Comparator)} }},
		{"gods rb", func() target { return gods{redblacktree.NewWith(utils.Int32Comparator)} }},
		{"btree", func() target { return bTree{btree.NewOrderedG[int32](32)} }},
		{"llrb", func() target { return llrbTree{llrb.New()} }},
	}
}

// scenario fills and drains m in a fixed order and reports the first
// disagreement with the expected contents.
type scenario struct {
	name string
	run  func(m sortedmaps.Map[int32, uint32]) error
}

var errSize = errors.New("unexpected size")

var scenarios = []scenario{
	{"(i+35461)%400000", func(m sortedmaps.Map[int32, uint32]) error {
		for i := int32(35461); i != 0; i = (i + 35461) % 400000 {
			m.Insert(i)
		}
		if m.Size() != 399999 {
			return fmt.Errorf("%w: %d after inserts", errSize, m.Size())
		}
		if minV, _ := m.Minimum(); minV != 1 {
			return fmt.Errorf("minimum is %d", minV)
		}
		for k := int32(1); k < 400000; k++ {
			if !m.Has(k) {
				return fmt.Errorf("missing key %d", k)
			}
		}
		return m.Verify()
	}},
	{"(i+37)%10000, drop odd", func(m sortedmaps.Map[int32, uint32]) error {
		for i := int32(37); i != 0; i = (i + 37) % 10000 {
			m.Insert(i)
		}
		for k := int32(1); k < 10000; k += 2 {
			if !m.Delete(k) {
				return fmt.Errorf("missing key %d", k)
			}
		}
		if m.Size() != 4999 {
			return fmt.Errorf("%w: %d after deletes", errSize, m.Size())
		}
		if minV, _ := m.Minimum(); minV != 2 {
			return fmt.Errorf("minimum is %d", minV)
		}
		for k := int32(1); k < 10000; k++ {
			if m.Has(k) != (k%2 == 0) {
				return fmt.Errorf("key %d has wrong membership", k)
			}
		}
		return m.Verify()
	}},
	{"stride 10 passes", func(m sortedmaps.Map[int32, uint32]) error {
		const n = 100000
		for pass := int32(0); pass < 10; pass++ {
			for k := pass; k < n; k += 10 {
				before := m.Size()
				if m.Insert(k); m.Size() != before+1 {
					return fmt.Errorf("%w: %d after inserting %d", errSize, m.Size(), k)
				}
			}
		}
		for k := int32(0); k < n; k++ {
			m.Insert(k)
		}
		if m.Size() != n {
			return fmt.Errorf("%w: %d after re-inserts", errSize, m.Size())
		}
		return m.Verify()
	}},
}

func runScenarios(seed uint64) bool {
	ok := true
	for _, sc := range scenarios {
		for _, s := range subjects(0, seed)[:3] {
			err := sc.run(s.create().(engine).m)
			if err != nil {
				ok = false
				slog.Error("Scenario failed.", "scenario", sc.name, "engine", s.name, "err", err)
			} else {
				slog.Info("Scenario passed.", "scenario", sc.name, "engine", s.name)
			}
		}
	}
	return ok
}

func measure(s subject, keys []int32, rnd *rand.Rand) []string {
	fill := func() target {
		t := s.create()
		for _, k := range keys {
			t.insert(k)
		}
		return t
	}
	ins := testing.Benchmark(func(b *testing.B) {
		for range b.N {
			fill()
		}
	})
	var sink bool
	var last target
	qry := testing.Benchmark(func(b *testing.B) {
		t := fill()
		b.ResetTimer()
		for range b.N {
			for _, k := range keys[:len(keys)/2] {
				sink = t.has(k)
			}
			for range len(keys) - len(keys)/2 {
				sink = t.has(rnd.Int32())
			}
		}
		last = t
	})
	del := testing.Benchmark(func(b *testing.B) {
		for range b.N {
			b.StopTimer()
			t := fill()
			b.StartTimer()
			for _, k := range keys {
				t.remove(k)
			}
		}
	})
	slog.Debug("Benchmarked.", "impl", s.name, "sink", sink)
	verified := "yes"
	if err := last.check(); err != nil {
		verified = err.Error()
	}
	ms := func(r testing.BenchmarkResult) string {
		return fmt.Sprintf("%.3f", float64(r.NsPerOp())/1e6)
	}
	return []string{s.name, ms(ins), ms(qry), ms(del), verified}
}

func main() {
	testing.Init()
	flag.Parse()
	initLogging(strings.ToLower(*handlerTypeFlag), strings.ToLower(*logLevelFlag))
	if *nFlag <= 0 {
		slog.Error("n must be positive.", "n", *nFlag)
		os.Exit(2)
	}

	if !runScenarios(*seedFlag) {
		os.Exit(1)
	}

	rnd := rand.New(rand.NewPCG(*seedFlag, 0))
	keys := make([]int32, *nFlag)
	for i := range keys {
		keys[i] = rnd.Int32()
	}
	var rows [][]string
	for _, s := range subjects(uint32(*nFlag), *seedFlag) {
		slog.Info("Benchmarking.", "impl", s.name, "n", *nFlag)
		rows = append(rows, measure(s, keys, rnd))
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Impl", "Insert(ms)", "Query(ms)", "Delete(ms)", "Verified"})
	table.SetAlignment(tablewriter.ALIGN_CENTER)
	table.SetAutoWrapText(false)
	table.AppendBulk(rows)
	table.Render()
}
