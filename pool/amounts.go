package pool

import "github.com/holiman/uint256"

// weiPerEther is 10^18, the wei scale factor.
var weiPerEther = uint256.NewInt(1_000_000_000_000_000_000)

// Ether returns n whole ether expressed in wei.
// Example payload: Ether(5) for the funding KYC threshold.
func Ether(n uint64) *uint256.Int {
	return new(uint256.Int).Mul(uint256.NewInt(n), weiPerEther)
}

// feeCut computes value*bps/10000 rounded down.
func feeCut(value *uint256.Int, bps uint64) *uint256.Int {
	cut := new(uint256.Int).Mul(value, uint256.NewInt(bps))
	return cut.Div(cut, uint256.NewInt(bpsDenominator))
}

// splitFee halves a fee between treasury and platform; the odd wei, if
// any, goes to the platform side.
func splitFee(fee *uint256.Int) (treasury, platform *uint256.Int) {
	treasury = new(uint256.Int).Div(fee, uint256.NewInt(2))
	platform = new(uint256.Int).Sub(fee, treasury)
	return treasury, platform
}

// sumAmounts adds a slice of wei amounts; nil entries count as zero.
func sumAmounts(amounts []*uint256.Int) *uint256.Int {
	total := new(uint256.Int)
	for _, a := range amounts {
		if a != nil {
			total.Add(total, a)
		}
	}
	return total
}

// cloneAmount copies a wei amount, treating nil as zero so callers can
// hand snapshots out without aliasing pool state.
func cloneAmount(a *uint256.Int) *uint256.Int {
	if a == nil {
		return new(uint256.Int)
	}
	return a.Clone()
}
