// Command verify is the CLI surface documented in spec.md §6:
//
//	verify -d <file|dir> -f graph -P {interface|device|devicegroup} \
//	       [-m mapping.json] -S <spec-name> [-o result.json] \
//	       [--previous-result prev.json] [-n cpus]
//
// Grounded on scripts/verify_network_change.py for the overall contract and
// on projectdiscovery/alterx's internal/runner/runner.go +
// cmd/alterx/main.go for the goflags/gologger CLI idiom.
package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/projectdiscovery/goflags"
	"github.com/projectdiscovery/gologger"
	"github.com/projectdiscovery/gologger/levels"

	"rela/network"
	"rela/rir"
	"rela/specs"
	"rela/verifier"
)

type options struct {
	Data            string
	Format          string
	Precision       string
	Mapping         string
	SpecName        string
	Output          string
	PreviousResult  string
	Concurrency     int
	Verbose         bool
	Silent          bool
}

func parseFlags() *options {
	opts := &options{}
	flagSet := goflags.NewFlagSet()
	flagSet.SetDescription(`Decides whether a network change preserves (or violates) a named forwarding-equivalence spec.`)

	flagSet.CreateGroup("input", "Input",
		flagSet.StringVarP(&opts.Data, "data", "d", "", "network-change file or directory to verify"),
		flagSet.StringVarP(&opts.Format, "format", "f", "graph", "network-change format (currently only 'graph')"),
		flagSet.StringVarP(&opts.Precision, "precision", "P", "interface", "forwarding graph precision: interface, device, or devicegroup"),
		flagSet.StringVarP(&opts.Mapping, "mapping", "m", "", "device-to-group mapping file (required for -P devicegroup)"),
		flagSet.StringVarP(&opts.SpecName, "spec", "S", "", "name of the spec to verify, from: "+strings.Join(specs.Names(), ", ")),
		flagSet.StringVar(&opts.PreviousResult, "previous-result", "", "prior result JSON; FECs that passed there are skipped"),
	)

	flagSet.CreateGroup("output", "Output",
		flagSet.StringVarP(&opts.Output, "output", "o", "", "result JSON output file (default stdout)"),
		flagSet.IntVarP(&opts.Concurrency, "concurrency", "n", 1, "number of files to verify concurrently, when -d is a directory"),
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
	if opts.Format != "graph" {
		gologger.Fatal().Msgf("unsupported format %q, only 'graph' is supported", opts.Format)
	}
	precision := network.Precision(opts.Precision)
	switch precision {
	case network.PrecisionInterface, network.PrecisionDevice:
	case network.PrecisionDeviceGroup:
		if opts.Mapping == "" {
			gologger.Fatal().Msgf("-m/--mapping is required for -P devicegroup")
		}
	default:
		gologger.Fatal().Msgf("unknown precision %q, should be 'interface', 'device' or 'devicegroup'", opts.Precision)
	}
	if opts.SpecName == "" {
		gologger.Fatal().Msgf("-S/--spec is required")
	}
	spec, err := specs.Get(opts.SpecName)
	if err != nil {
		gologger.Fatal().Msgf("%v", err)
	}

	files, err := inputFiles(opts.Data)
	if err != nil {
		gologger.Fatal().Msgf("%v", err)
	}

	var prior map[string]verifier.Result
	if opts.PreviousResult != "" {
		prior, err = loadPreviousResults(opts.PreviousResult)
		if err != nil {
			gologger.Fatal().Msgf("reading --previous-result: %v", err)
		}
	}

	results := verifyFiles(files, precision, opts.Mapping, spec, prior, opts.Concurrency)

	out := os.Stdout
	if opts.Output != "" {
		f, err := os.Create(opts.Output)
		if err != nil {
			gologger.Fatal().Msgf("creating %s: %v", opts.Output, err)
		}
		defer f.Close()
		out = f
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(results); err != nil {
		gologger.Fatal().Msgf("writing result: %v", err)
	}

	for _, r := range results {
		if r.OK() {
			gologger.Info().Msgf("%s: %s", r.Data, r.String())
		} else {
			gologger.Error().Msgf("%s: %s", r.Data, r.String())
		}
	}
}

// inputFiles resolves -d into the sorted list of files to verify: itself,
// if it names a file, or every entry in the directory it names.
func inputFiles(data string) ([]string, error) {
	info, err := os.Stat(data)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{data}, nil
	}
	entries, err := os.ReadDir(data)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		files = append(files, filepath.Join(data, e.Name()))
	}
	return files, nil
}

func loadPreviousResults(path string) (map[string]verifier.Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var results []verifier.Result
	if err := json.Unmarshal(data, &results); err != nil {
		return nil, err
	}
	byName := make(map[string]verifier.Result, len(results))
	for _, r := range results {
		byName[r.Data] = r
	}
	return byName, nil
}

// previousSelection builds the Selection excluding indices that passed in
// a prior run, mirroring verify_network_change.py's --previous-result
// skip-passed-cases behavior: once an FEC passes, later runs don't need to
// re-decide it.
func previousSelection(prior map[string]verifier.Result, name string, total int) verifier.Selection {
	prev, ok := prior[name]
	if !ok {
		return nil
	}
	passed := make(map[int]struct{}, len(prev.Passed))
	for _, idx := range prev.Passed {
		passed[idx] = struct{}{}
	}
	sel := verifier.Selection{}
	for i := 0; i < total; i++ {
		if _, wasPassed := passed[i]; !wasPassed {
			sel[i] = struct{}{}
		}
	}
	return sel
}

// verifyFiles runs verifier.Verify across files, fanning out over a fixed
// worker pool sized by concurrency. Each worker owns its own result slot so
// no shared state needs locking, mirroring the value-semantics contract
// spec.md §5 places on process-level work distribution.
func verifyFiles(files []string, precision network.Precision, mapping string, spec *rir.Spec, prior map[string]verifier.Result, concurrency int) []verifier.Result {
	if concurrency < 1 {
		concurrency = 1
	}
	results := make([]verifier.Result, len(files))
	jobs := make(chan int, len(files))
	for i := range files {
		jobs <- i
	}
	close(jobs)

	done := make(chan struct{}, concurrency)
	for w := 0; w < concurrency; w++ {
		go func() {
			for i := range jobs {
				results[i] = verifyOne(files[i], precision, mapping, spec, prior)
			}
			done <- struct{}{}
		}()
	}
	for w := 0; w < concurrency; w++ {
		<-done
	}
	return results
}

func verifyOne(file string, precision network.Precision, mapping string, spec *rir.Spec, prior map[string]verifier.Result) verifier.Result {
	nc, err := network.LoadRelaGraphNC(file, precision, mapping)
	if err != nil {
		gologger.Error().Msgf("loading %s: %v", file, err)
		return verifier.Result{Data: filepath.Base(file), Spec: spec.String()}
	}
	sel := previousSelection(prior, nc.Name(), nc.CountFEC())
	return verifier.Verify(spec, nc, sel)
}
