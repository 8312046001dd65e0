package utils

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

func TruncateString(str string, num int) string {
	if len(str) <= num {
		return str
	}
	if num <= 3 {
		return str[:num]
	}
	return str[0:num-3] + "..."
}

// ShortAddress keeps the head and tail of a hex address, e.g. 0x831d...2d99.
func ShortAddress(addr string) string {
	if len(addr) <= 13 {
		return addr
	}
	return addr[:6] + "..." + addr[len(addr)-4:]
}

func AddCommas(s string) string {
	if len(s) == 0 {
		return s
	}
	parts := strings.Split(s, ".")
	integerPart := parts[0]
	sign := ""
	if strings.HasPrefix(integerPart, "-") {
		sign = "-"
		integerPart = integerPart[1:]
	}

	n := len(integerPart)
	if n <= 3 {
		return s
	}

	var result strings.Builder
	result.WriteString(sign)
	remainder := n % 3
	if remainder > 0 {
		result.WriteString(integerPart[:remainder])
		result.WriteString(",")
	}
	for i := remainder; i < n; i += 3 {
		if i > remainder {
			result.WriteString(",")
		}
		result.WriteString(integerPart[i : i+3])
	}

	if len(parts) > 1 {
		result.WriteString(".")
		result.WriteString(parts[1])
	}
	return result.String()
}

func FormatBigFloat(f *big.Float, decimals int) string {
	if f == nil {
		return "0"
	}
	return AddCommas(f.Text('f', decimals))
}

func BigFloatToFloat64(f *big.Float) float64 {
	if f == nil {
		return 0
	}
	val, _ := f.Float64()
	return val
}

// ScaleBalance turns an integer balance string into token units using the
// contract's decimals. It returns nil when raw is not an integer.
func ScaleBalance(raw string, decimals int) *big.Float {
	n, ok := new(big.Int).SetString(raw, 10)
	if !ok {
		return nil
	}
	f := new(big.Float).SetInt(n)
	if decimals > 0 {
		divisor := new(big.Float).SetInt(new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil))
		f.Quo(f, divisor)
	}
	return f
}

// IsValidTokenID reports whether s is the canonical base-10 form of an
// integer: parsing and re-formatting must give back s unchanged.
func IsValidTokenID(s string) bool {
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return false
	}
	return n.String() == s
}

// NormalizeAddress trims the input and prefixes 0x when it is missing.
// Empty input stays empty.
func NormalizeAddress(s string) string {
	s = strings.TrimSpace(s)
	if s == "" || strings.HasPrefix(s, "0x") {
		return s
	}
	return "0x" + s
}

// ChecksumAddress returns the EIP-55 form of a hex address, or s unchanged
// when it is not one.
func ChecksumAddress(s string) string {
	if !common.IsHexAddress(s) {
		return s
	}
	return common.HexToAddress(s).Hex()
}
