// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package utils

import (
	"errors"
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/hashing"
	"github.com/ava-labs/avalanchego/utils/perms"
	"github.com/holiman/uint256"

	formatter "github.com/onsi/ginkgo/v2/formatter"
)

// NativeDecimals is the number of decimals every asset in the engine uses.
const NativeDecimals = 18

var (
	ErrOverflow     = errors.New("overflow")
	ErrUnderflow    = errors.New("underflow")
	ErrDivideByZero = errors.New("divide by zero")
	ErrInvalidValue = errors.New("invalid value")

	unit = new(uint256.Int).Exp(uint256.NewInt(10), uint256.NewInt(NativeDecimals))
)

func ToID(bytes []byte) ids.ID {
	return ids.ID(hashing.ComputeHash256Array(bytes))
}

// Outf prints [format] to stdout, expanding color tags such as {{green}}
// and {{/}}.
func Outf(format string, args ...interface{}) {
	s := formatter.F(format, args...)
	fmt.Fprint(formatter.ColorableStdOut, s)
}

func InitSubDirectory(rootPath string, name string) (string, error) {
	p := path.Join(rootPath, name)
	return p, os.MkdirAll(p, perms.ReadWriteExecute)
}

// Unit returns 10^NativeDecimals, one whole token.
func Unit() *uint256.Int {
	return new(uint256.Int).Set(unit)
}

// Units returns [n] whole tokens.
func Units(n uint64) *uint256.Int {
	return new(uint256.Int).Mul(uint256.NewInt(n), unit)
}

// Add returns x+y or [ErrOverflow].
func Add(x, y *uint256.Int) (*uint256.Int, error) {
	z, overflow := new(uint256.Int).AddOverflow(x, y)
	if overflow {
		return nil, ErrOverflow
	}
	return z, nil
}

// Sub returns x-y or [ErrUnderflow].
func Sub(x, y *uint256.Int) (*uint256.Int, error) {
	z, underflow := new(uint256.Int).SubOverflow(x, y)
	if underflow {
		return nil, ErrUnderflow
	}
	return z, nil
}

// Mul returns x*y or [ErrOverflow].
func Mul(x, y *uint256.Int) (*uint256.Int, error) {
	z, overflow := new(uint256.Int).MulOverflow(x, y)
	if overflow {
		return nil, ErrOverflow
	}
	return z, nil
}

// MulDiv returns floor(x*y/d) using a 512-bit intermediate.
func MulDiv(x, y, d *uint256.Int) (*uint256.Int, error) {
	if d.IsZero() {
		return nil, ErrDivideByZero
	}
	z, overflow := new(uint256.Int).MulDivOverflow(x, y, d)
	if overflow {
		return nil, ErrOverflow
	}
	return z, nil
}

// Min returns the smaller of x and y.
func Min(x, y *uint256.Int) *uint256.Int {
	if x.Lt(y) {
		return x
	}
	return y
}

// Sqrt returns floor(sqrt(y)) by the babylonian method.
// https://github.com/Uniswap/v2-core/blob/ee547b17853e71ed4e0101ccfd52e70d5acded58/contracts/libraries/Math.sol#L10
func Sqrt(y *uint256.Int) *uint256.Int {
	three := uint256.NewInt(3)
	if y.Gt(three) {
		z := new(uint256.Int).Set(y)
		x := new(uint256.Int).Rsh(y, 1)
		x.AddUint64(x, 1)
		for x.Lt(z) {
			z.Set(x)
			t := new(uint256.Int).Div(y, x)
			x.Add(t, x)
			x.Rsh(x, 1)
		}
		return z
	}
	if !y.IsZero() {
		return uint256.NewInt(1)
	}
	return new(uint256.Int)
}

// ParseAmount parses a decimal amount with up to NativeDecimals fractional
// digits ("1.5" -> 1.5e18).
func ParseAmount(s string) (*uint256.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, ErrInvalidValue
	}
	whole, frac, _ := strings.Cut(s, ".")
	if len(frac) > NativeDecimals {
		return nil, fmt.Errorf("%w: too many decimals in %q", ErrInvalidValue, s)
	}
	frac += strings.Repeat("0", NativeDecimals-len(frac))
	digits := strings.TrimLeft(whole+frac, "0")
	if digits == "" {
		return new(uint256.Int), nil
	}
	v, err := uint256.FromDecimal(digits)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidValue, err)
	}
	return v, nil
}

// FormatAmount renders [v] with NativeDecimals decimals, trimming trailing
// zeros.
func FormatAmount(v *uint256.Int) string {
	if v == nil {
		return "0"
	}
	whole := new(uint256.Int).Div(v, unit)
	frac := new(uint256.Int).Mod(v, unit)
	if frac.IsZero() {
		return whole.Dec()
	}
	fs := frac.Dec()
	fs = strings.Repeat("0", NativeDecimals-len(fs)) + fs
	return whole.Dec() + "." + strings.TrimRight(fs, "0")
}
