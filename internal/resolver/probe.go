package resolver

import (
	"iter"

	"github.com/nulln0ne/casper-swap-estimator/pkg/keycodec"
)

// Probe is one (slot index, key layout) candidate.
type Probe struct {
	Index   uint32
	Variant keycodec.Variant
}

// Probes yields every candidate in trial order: index ascending from 0 to
// maxIndex inclusive, and within an index the variants in the given order.
// The sequence is finite and can be ranged over any number of times.
func Probes(maxIndex uint32, variants []keycodec.Variant) iter.Seq[Probe] {
	return func(yield func(Probe) bool) {
		if len(variants) == 0 {
			return
		}
		for i := uint32(0); ; i++ {
			for _, v := range variants {
				if !yield(Probe{Index: i, Variant: v}) {
					return
				}
			}
			if i == maxIndex {
				return
			}
		}
	}
}
