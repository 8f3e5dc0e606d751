// rnacofold reads a (possibly two-strand) RNA sequence and reports the
// cofold ensemble free energies, grounded on cmd/bio-pileup/main.go's
// flag layout and grailbio/base/grail startup idiom. It is ambient
// plumbing only, explicitly out of scope for correctness testing.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"
	"github.com/viennafold/cofold"
	"github.com/viennafold/cofold/energy"
	"github.com/viennafold/cofold/seqio"
)

var (
	inPath  = flag.String("in", "", "Input sequence path: a single 'SEQA&SEQB' or bare line, or a two-record FASTA file; '-' and .gz both supported")
	temp    = flag.Float64("temperature", 37.0, "Folding temperature in degrees Celsius")
	pfScale = flag.Float64("pf-scale", 1.07, "Partition-function rescaling constant (pf_scale)")
	bpp     = flag.Bool("bpp", false, "Compute base-pair probabilities and print a dot-bracket line")
)

func usage() {
	fmt.Printf("Usage: %s -in <path> [options]\n", os.Args[0])
	flag.PrintDefaults()
}

// kT converts a Celsius temperature to kcal/mol via the Boltzmann constant
// the original ViennaRNA code uses (gasConst = 1.98717 cal/(mol*K)).
func kT(celsius float64) float64 {
	const gasConst = 1.98717e-3 // kcal/(mol*K)
	return gasConst * (celsius + 273.15)
}

func main() {
	flag.Usage = usage
	shutdown := grail.Init()
	defer shutdown()

	if *inPath == "" {
		log.Fatalf("rnacofold: -in is required")
	}

	ctx := vcontext.Background()
	seq, cutPoint, err := seqio.ReadSequence(ctx, *inPath)
	if err != nil {
		log.Fatalf("rnacofold: %v", err)
	}

	params := &energy.Params{
		Oracle:        energy.NewTurnerLite(kT(*temp)),
		KT:            kT(*temp),
		PFScale:       *pfScale,
		ExpMLClosing:  1,
		ExpDuplexInit: 1,
	}

	var opts cofold.Options
	if *bpp {
		opts |= cofold.ComputeBPP
	}

	result, err := cofold.Cofold(seq, cutPoint, params, opts)
	if err != nil {
		log.Fatalf("rnacofold: %v", err)
	}

	fmt.Printf("FA\t%g\n", result.FA)
	fmt.Printf("FB\t%g\n", result.FB)
	fmt.Printf("FAB\t%g\n", result.FAB)
	fmt.Printf("F0AB\t%g\n", result.F0AB)
	fmt.Printf("FcAB\t%g\n", result.FcAB)

	if *bpp {
		fmt.Println(result.DotBracket)
		for _, p := range result.Probs {
			fmt.Printf("%d\t%d\t%g\n", p.I, p.J, p.P)
		}
	}
}
