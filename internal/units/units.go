// Package units converts numeric text between the display unit (ether) and
// the smallest unit (wei), a fixed factor of 10^18 apart.
package units

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/holiman/uint256"
)

// Decimals is the scale between the two units.
const Decimals = 18

var (
	ErrMalformed = errors.New("malformed number")
	ErrOverflow  = errors.New("value exceeds 256 bits")

	scale = new(big.Int).Exp(big.NewInt(10), big.NewInt(Decimals), nil)
)

// ToSmallestUnit rewrites a decimal quantity such as "1.5" as an integer
// string scaled by 10^18. Fractional digits beyond the 18th are truncated.
func ToSmallestUnit(s string) (string, error) {
	neg, body := splitSign(strings.TrimSpace(s))

	whole, frac, found := strings.Cut(body, ".")
	if found && strings.Contains(frac, ".") {
		return "", fmt.Errorf("%w: %q", ErrMalformed, s)
	}
	if whole == "" && frac == "" {
		return "", fmt.Errorf("%w: %q", ErrMalformed, s)
	}
	if !allDigits(whole) || !allDigits(frac) {
		return "", fmt.Errorf("%w: %q", ErrMalformed, s)
	}

	if len(frac) > Decimals {
		frac = frac[:Decimals]
	}
	frac += strings.Repeat("0", Decimals-len(frac))

	n, ok := new(big.Int).SetString(whole+frac, 10)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrMalformed, s)
	}
	if err := checkRange(n); err != nil {
		return "", err
	}
	if neg {
		n.Neg(n)
	}
	return n.String(), nil
}

// ToDisplayUnit rewrites an integer string (decimal or 0x hex) in the
// smallest unit as a decimal quantity divided by 10^18, with trailing
// fractional zeros removed.
func ToDisplayUnit(s string) (string, error) {
	neg, body := splitSign(strings.TrimSpace(s))

	var (
		n  *big.Int
		ok bool
	)
	switch {
	case strings.HasPrefix(body, "0x"), strings.HasPrefix(body, "0X"):
		n, ok = new(big.Int).SetString(body[2:], 16)
		ok = ok && body[2:] != "" && !strings.ContainsAny(body[2:], "+-_")
	default:
		n, ok = new(big.Int).SetString(body, 10)
		ok = ok && allDigits(body)
	}
	if !ok || body == "" {
		return "", fmt.Errorf("%w: %q", ErrMalformed, s)
	}
	if err := checkRange(n); err != nil {
		return "", err
	}

	whole, rem := new(big.Int).QuoRem(n, scale, new(big.Int))

	out := whole.String()
	if rem.Sign() != 0 {
		frac := rem.String()
		frac = strings.Repeat("0", Decimals-len(frac)) + frac
		out += "." + strings.TrimRight(frac, "0")
	}
	if neg && n.Sign() != 0 {
		out = "-" + out
	}
	return out, nil
}

func splitSign(s string) (bool, string) {
	switch {
	case strings.HasPrefix(s, "-"):
		return true, s[1:]
	case strings.HasPrefix(s, "+"):
		return false, s[1:]
	default:
		return false, s
	}
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// checkRange rejects magnitudes that no 256-bit word can hold.
func checkRange(n *big.Int) error {
	if _, overflow := uint256.FromBig(n); overflow {
		return ErrOverflow
	}
	return nil
}
