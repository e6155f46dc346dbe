// Command gencounterexamples is the CLI surface documented in spec.md §6:
//
//	generate_counterexamples -d <file> {-i failures.json | -I index} \
//	                         -f graph -P … -S <spec-name> [-o out] \
//	                         [-s summary.json] [-k top_k] [--filter spec-names…]
//
// -d names a single network-change file; a directory is not read.
//
// Grounded on scripts/generate_counterexamples.py for the summarization
// contract, and on projectdiscovery/alterx's CLI idiom for
// goflags/gologger wiring.
package main

import (
	"encoding/json"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/projectdiscovery/goflags"
	"github.com/projectdiscovery/gologger"
	"github.com/projectdiscovery/gologger/levels"

	"rela/counterexample"
	"rela/network"
	"rela/specs"
)

type options struct {
	Data        string
	Failures    string
	Index       string
	Format      string
	Precision   string
	Mapping     string
	SpecName    string
	Output      string
	Summary     string
	TopK        int
	Filter      goflags.StringSlice
	Verbose     bool
	Silent      bool
}

func parseFlags() *options {
	opts := &options{}
	flagSet := goflags.NewFlagSet()
	flagSet.SetDescription(`Generates concrete witness paths explaining why a named spec fails on a network change.`)

	flagSet.CreateGroup("input", "Input",
		flagSet.StringVarP(&opts.Data, "data", "d", "", "network-change file to generate counterexamples for (a directory is not read)"),
		flagSet.StringVarP(&opts.Failures, "failures", "i", "", "prior verify result JSON naming the failing FEC indices"),
		flagSet.StringVarP(&opts.Index, "index", "I", "", "single FEC index to generate a counterexample for, instead of -i"),
		flagSet.StringVarP(&opts.Format, "format", "f", "graph", "network-change format (currently only 'graph')"),
		flagSet.StringVarP(&opts.Precision, "precision", "P", "interface", "forwarding graph precision: interface, device, or devicegroup"),
		flagSet.StringVarP(&opts.Mapping, "mapping", "m", "", "device-to-group mapping file (required for -P devicegroup)"),
		flagSet.StringVarP(&opts.SpecName, "spec", "S", "", "name of the spec to generate counterexamples for, from: "+strings.Join(specs.Names(), ", ")),
		flagSet.StringSliceVarP(&opts.Filter, "filter", "fl", nil, "only output and summarize counterexamples whose spec string equals one of these (comma-separated)", goflags.FileCommaSeparatedStringSliceOptions),
	)

	flagSet.CreateGroup("output", "Output",
		flagSet.StringVarP(&opts.Output, "output", "o", "", "counterexample records JSON output file (default stdout)"),
		flagSet.StringVarP(&opts.Summary, "summary", "s", "", "summary JSON output file: top-K most frequent counterexample shapes"),
		flagSet.IntVarP(&opts.TopK, "top-k", "k", 10, "number of most frequent counterexample shapes to summarize"),
		flagSet.BoolVarP(&opts.Verbose, "verbose", "v", false, "display verbose output"),
		flagSet.BoolVar(&opts.Silent, "silent", false, "display results only"),
	)

	if err := flagSet.Parse(); err != nil {
		gologger.Fatal().Msgf("could not read flags: %s", err)
	}

	if opts.Silent {
		gologger.DefaultLogger.SetMaxLevel(levels.LevelSilent)
	} else if opts.Verbose {
		gologger.DefaultLogger.SetMaxLevel(levels.LevelVerbose)
	}

	return opts
}

func main() {
	opts := parseFlags()

	if opts.Data == "" {
		gologger.Fatal().Msgf("-d/--data is required")
	}
	if opts.Failures == "" && opts.Index == "" {
		gologger.Fatal().Msgf("one of -i/--failures or -I/--index is required")
	}
	if opts.Format != "graph" {
		gologger.Fatal().Msgf("unsupported format %q, only 'graph' is supported", opts.Format)
	}
	precision := network.Precision(opts.Precision)
	if precision == network.PrecisionDeviceGroup && opts.Mapping == "" {
		gologger.Fatal().Msgf("-m/--mapping is required for -P devicegroup")
	}
	if opts.SpecName == "" {
		gologger.Fatal().Msgf("-S/--spec is required")
	}
	spec, err := specs.Get(opts.SpecName)
	if err != nil {
		gologger.Fatal().Msgf("%v", err)
	}

	nc, err := network.LoadRelaGraphNC(opts.Data, precision, opts.Mapping)
	if err != nil {
		gologger.Fatal().Msgf("loading %s: %v", opts.Data, err)
	}

	failing, err := failingFECs(nc, opts.Failures, opts.Index)
	if err != nil {
		gologger.Fatal().Msgf("%v", err)
	}

	results, errs := counterexample.Generate(spec, failing)
	for id, err := range errs {
		gologger.Warning().Msgf("FEC %s: %v", id, err)
	}

	if opts.Filter != nil && len(opts.Filter) > 0 {
		results = filterBySpec(results, opts.Filter)
	}

	writeJSON(opts.Output, results)

	if opts.Summary != "" {
		writeJSON(opts.Summary, summarize(results, opts.TopK))
	}
}

// failingFECs resolves either -i (a prior verify result JSON: the array of
// per-file Results that verify writes, whose Failed indices for the entry
// named like nc name the FECs to generate counterexamples for) or -I (a
// single literal index), mirroring generate_counterexamples.py's two input
// modes.
func failingFECs(nc *network.RelaGraphNC, failuresFile, index string) ([]counterexample.FailingFEC, error) {
	var indices []int
	if index != "" {
		i, err := strconv.Atoi(index)
		if err != nil {
			return nil, err
		}
		indices = []int{i}
	} else {
		data, err := os.ReadFile(failuresFile)
		if err != nil {
			return nil, err
		}
		var prev []struct {
			Data   string `json:"Data"`
			Failed []int  `json:"Failed"`
		}
		if err := json.Unmarshal(data, &prev); err != nil {
			return nil, err
		}
		for _, r := range prev {
			if r.Data == nc.Name() {
				indices = append(indices, r.Failed...)
			}
		}
	}

	out := make([]counterexample.FailingFEC, 0, len(indices))
	for _, i := range indices {
		if i < 0 || i >= len(nc.Slices) {
			continue
		}
		var fec network.FEC
		if nc.Slices[i] != nil {
			fec = nc.Slices[i]
		}
		out = append(out, counterexample.FailingFEC{ID: strconv.Itoa(i), FEC: fec})
	}
	return out, nil
}

func filterBySpec(results []counterexample.CounterExample, names goflags.StringSlice) []counterexample.CounterExample {
	wanted := make(map[string]struct{}, len(names))
	for _, n := range names {
		wanted[n] = struct{}{}
	}
	var out []counterexample.CounterExample
	for _, r := range results {
		if _, ok := wanted[r.Spec]; ok {
			out = append(out, r)
		}
	}
	return out
}

// shapeKey identifies a counterexample's (before,after,left,right,spec)
// shape for deduplication, mirroring generate_counterexamples.py's
// frequency-rank summarization.
type shapeKey struct {
	Before, After, Left, Right, Spec string
}

type shapeCount struct {
	Shape shapeKey
	Count int
}

// summarize dedups results by shape and returns the topK most frequent
// shapes, descending by count, grounded on generate_counterexamples.py's
// dedup-and-rank-by-frequency summarization.
func summarize(results []counterexample.CounterExample, topK int) []shapeCount {
	counts := map[shapeKey]int{}
	for _, r := range results {
		key := shapeKey{
			Before: joinPaths(r.BeforePaths),
			After:  joinPaths(r.AfterPaths),
			Left:   joinPaths(r.LeftPaths),
			Right:  joinPaths(r.RightPaths),
			Spec:   r.Spec,
		}
		counts[key]++
	}

	shapes := make([]shapeCount, 0, len(counts))
	for k, c := range counts {
		shapes = append(shapes, shapeCount{Shape: k, Count: c})
	}
	sort.Slice(shapes, func(i, j int) bool {
		if shapes[i].Count != shapes[j].Count {
			return shapes[i].Count > shapes[j].Count
		}
		return shapes[i].Shape.Spec < shapes[j].Shape.Spec
	})
	if topK > 0 && len(shapes) > topK {
		shapes = shapes[:topK]
	}
	return shapes
}

func joinPaths(paths [][]string) string {
	parts := make([]string, len(paths))
	for i, p := range paths {
		parts[i] = strings.Join(p, ".")
	}
	return strings.Join(parts, "|")
}

func writeJSON(path string, v any) {
	out := os.Stdout
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			gologger.Fatal().Msgf("creating %s: %v", path, err)
		}
		defer f.Close()
		out = f
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		gologger.Fatal().Msgf("writing output: %v", err)
	}
}
