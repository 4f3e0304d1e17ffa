package amm

import (
	"errors"
	"math/big"
	"testing"
)

func mustInt(t testing.TB, s string) *big.Int {
	t.Helper()
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		t.Fatalf("bad integer literal %q", s)
	}
	return v
}

func e18(n int64) *big.Int {
	v := new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)
	return v.Mul(v, big.NewInt(n))
}

func TestGetAmountOut(t *testing.T) {
	// Example: reserves 1000000 : 1000000, amountIn 1000
	rIn := big.NewInt(1_000_000)
	rOut := big.NewInt(1_000_000)
	amountIn := big.NewInt(1_000)

	out, err := GetAmountOut(amountIn, rIn, rOut, DefaultFeeBps)
	if err != nil {
		t.Fatalf("GetAmountOut error: %v", err)
	}

	// compute expected using same formula to assert determinism and non-zero
	amountInWithFee := new(big.Int).Mul(amountIn, big.NewInt(9970))
	numerator := new(big.Int).Mul(amountInWithFee, rOut)
	denominator := new(big.Int).Mul(rIn, big.NewInt(10000))
	denominator.Add(denominator, amountInWithFee)
	expected := new(big.Int).Div(numerator, denominator)

	if out.Cmp(expected) != 0 {
		t.Fatalf("unexpected: got %s want %s", out, expected)
	}
	if out.Int64() != 996 {
		t.Fatalf("amountOut: got %s want 996", out)
	}
}

func TestGetAmountOut_LargeReserves(t *testing.T) {
	out, err := GetAmountOut(e18(1000), e18(1_000_000), e18(500_000), 30)
	if err != nil {
		t.Fatalf("GetAmountOut error: %v", err)
	}
	if want := mustInt(t, "498003490519951608246"); out.Cmp(want) != 0 {
		t.Fatalf("unexpected: got %s want %s", out, want)
	}
}

func TestGetAmountOut_FullWidth(t *testing.T) {
	maxU256 := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))

	out, err := GetAmountOut(maxU256, maxU256, maxU256, 0)
	if err != nil {
		t.Fatalf("GetAmountOut error: %v", err)
	}
	// maxU256*maxU256 / (maxU256*10000 + maxU256*10000) = maxU256/2
	want := new(big.Int).Rsh(maxU256, 1)
	if out.Cmp(want) != 0 {
		t.Fatalf("unexpected: got %s want %s", out, want)
	}

	over := new(big.Int).Lsh(big.NewInt(1), 256)
	if _, err := GetAmountOut(over, maxU256, maxU256, 30); !errors.Is(err, ErrValueOverflow) {
		t.Fatalf("expected ErrValueOverflow, got %v", err)
	}
}

func TestGetAmountOut_ZeroAmount(t *testing.T) {
	out, err := GetAmountOut(big.NewInt(0), big.NewInt(5), big.NewInt(7), DefaultFeeBps)
	if err != nil {
		t.Fatalf("GetAmountOut error: %v", err)
	}
	if out.Sign() != 0 {
		t.Fatalf("zero input should give zero output, got %s", out)
	}
}

func TestGetAmountOut_ZeroReserves(t *testing.T) {
	cases := []struct {
		name      string
		rIn, rOut *big.Int
	}{
		{"reserve_in", big.NewInt(0), big.NewInt(10)},
		{"reserve_out", big.NewInt(10), big.NewInt(0)},
		{"both", big.NewInt(0), big.NewInt(0)},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if _, err := GetAmountOut(big.NewInt(100), tc.rIn, tc.rOut, DefaultFeeBps); !errors.Is(err, ErrInsufficientLiquidity) {
				t.Fatalf("expected ErrInsufficientLiquidity, got %v", err)
			}
		})
	}
}

func TestGetAmountOut_InvalidInput(t *testing.T) {
	if _, err := GetAmountOut(big.NewInt(1), big.NewInt(1), big.NewInt(1), 10_000); !errors.Is(err, ErrInvalidFee) {
		t.Fatalf("expected ErrInvalidFee, got %v", err)
	}
	if _, err := GetAmountOut(big.NewInt(-1), big.NewInt(1), big.NewInt(1), 30); !errors.Is(err, ErrNegativeValue) {
		t.Fatalf("expected ErrNegativeValue, got %v", err)
	}
	if _, err := GetAmountOut(nil, big.NewInt(1), big.NewInt(1), 30); !errors.Is(err, ErrNegativeValue) {
		t.Fatalf("expected ErrNegativeValue for nil, got %v", err)
	}
}

func TestGetAmountOut_Monotonic(t *testing.T) {
	rIn := big.NewInt(7_777_777)
	rOut := big.NewInt(3_333_333)
	prev := big.NewInt(0)
	for in := int64(0); in <= 50_000; in += 37 {
		out, err := GetAmountOut(big.NewInt(in), rIn, rOut, DefaultFeeBps)
		if err != nil {
			t.Fatalf("GetAmountOut(%d) error: %v", in, err)
		}
		if out.Cmp(prev) < 0 {
			t.Fatalf("output decreased at in=%d: %s < %s", in, out, prev)
		}
		if out.Cmp(rOut) >= 0 {
			t.Fatalf("output drained pool at in=%d", in)
		}
		prev = out
	}
}

func TestGetAmountOutInto_ReusesDst(t *testing.T) {
	var dst, t1, t2 big.Int
	out, err := GetAmountOutInto(&dst, &t1, &t2, big.NewInt(1_000), big.NewInt(1_000_000), big.NewInt(1_000_000), DefaultFeeBps)
	if err != nil {
		t.Fatalf("GetAmountOutInto error: %v", err)
	}
	if out != &dst {
		t.Fatalf("result should be written into dst")
	}
}

func TestMinimumReceived(t *testing.T) {
	amounts := []*big.Int{big.NewInt(1), big.NewInt(996), e18(12345), mustInt(t, "498003490519951608246")}
	for _, amt := range amounts {
		for _, bps := range []uint16{0, 1, 50, 100, 5000, 9999} {
			got, err := MinimumReceived(amt, bps)
			if err != nil {
				t.Fatalf("MinimumReceived(%s, %d) error: %v", amt, bps, err)
			}
			if got.Cmp(amt) > 0 {
				t.Fatalf("minimum %s exceeds amount %s", got, amt)
			}
			if bps == 0 && got.Cmp(amt) != 0 {
				t.Fatalf("zero slippage should keep amount, got %s", got)
			}
			if bps > 0 && got.Cmp(amt) == 0 {
				t.Fatalf("non-zero slippage %d should reduce %s", bps, amt)
			}
		}
	}

	got, _ := MinimumReceived(big.NewInt(996), 50)
	if got.Int64() != 991 {
		t.Fatalf("MinimumReceived(996, 50): got %s want 991", got)
	}
}

func TestMinimumReceived_InvalidSlippage(t *testing.T) {
	for _, bps := range []uint16{10_000, 10_001, 65_535} {
		if _, err := MinimumReceived(big.NewInt(100), bps); !errors.Is(err, ErrInvalidSlippage) {
			t.Fatalf("bps %d: expected ErrInvalidSlippage, got %v", bps, err)
		}
	}
}
