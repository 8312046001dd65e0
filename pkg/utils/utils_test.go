package utils

import (
	"math/big"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTruncateString(t *testing.T) {
	tests := []struct {
		input    string
		length   int
		expected string
	}{
		{"hello world", 5, "he..."},
		{"short", 10, "short"},
		{"exact", 5, "exact"},
		{"", 5, ""},
		{"abc", 2, "ab"},
		{"abc", 3, "abc"},
	}

	for _, tt := range tests {
		result := TruncateString(tt.input, tt.length)
		if result != tt.expected {
			t.Errorf("TruncateString(%q, %d) = %q; want %q", tt.input, tt.length, result, tt.expected)
		}
	}
}

func TestAddCommas(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"123", "123"},
		{"1234", "1,234"},
		{"123456", "123,456"},
		{"1234567", "1,234,567"},
		{"1234.56", "1,234.56"},
		{"-1234", "-1,234"},
		{"", ""},
	}

	for _, tt := range tests {
		result := AddCommas(tt.input)
		if result != tt.expected {
			t.Errorf("AddCommas(%q) = %q; want %q", tt.input, result, tt.expected)
		}
	}
}

func TestFormatBigFloat(t *testing.T) {
	tests := []struct {
		input    *big.Float
		decimals int
		expected string
	}{
		{big.NewFloat(1234.5678), 2, "1,234.57"},
		{nil, 2, "0"},
	}

	for _, tt := range tests {
		result := FormatBigFloat(tt.input, tt.decimals)
		if result != tt.expected {
			t.Errorf("FormatBigFloat(%v, %d) = %q; want %q", tt.input, tt.decimals, result, tt.expected)
		}
	}
}

func TestShortAddress(t *testing.T) {
	assert.Equal(t, "0x831d...2d99", ShortAddress("0x831dE831A64405aF965C67d6E0De2F9876fa2d99"))
	assert.Equal(t, "0xabc", ShortAddress("0xabc"))
}

func TestScaleBalance(t *testing.T) {
	f := ScaleBalance("1500000", 6)
	require.NotNil(t, f)
	assert.Equal(t, "1.50", FormatBigFloat(f, 2))

	f = ScaleBalance("1234567", 0)
	require.NotNil(t, f)
	assert.Equal(t, "1,234,567", FormatBigFloat(f, 0))

	assert.Nil(t, ScaleBalance("not-a-number", 18))
}

func TestIsValidTokenID(t *testing.T) {
	tests := []struct {
		input string
		valid bool
	}{
		{"0", true},
		{"65590", true},
		{"-1", true},
		{"115792089237316195423570985008687907853269984665640564039457584007913129639935", true},
		{"", false},
		{"01", false},
		{"00", false},
		{"-0", false},
		{"+1", false},
		{" 1", false},
		{"1 ", false},
		{"12.3", false},
		{"1e3", false},
		{"0x10", false},
		{"1_000", false},
		{"abc", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.valid, IsValidTokenID(tt.input), "IsValidTokenID(%q)", tt.input)
	}
}

func TestNormalizeAddress(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"", ""},
		{"   ", ""},
		{"0xabc", "0xabc"},
		{"abc", "0xabc"},
		{"  abc  ", "0xabc"},
		{" 0xabc\t", "0xabc"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, NormalizeAddress(tt.input), "NormalizeAddress(%q)", tt.input)
	}
}

func TestChecksumAddress(t *testing.T) {
	lower := "0x831de831a64405af965c67d6e0de2f9876fa2d99"
	sum := ChecksumAddress(lower)
	assert.True(t, strings.EqualFold(lower, sum))
	assert.NotEqual(t, lower, sum)
	assert.Equal(t, sum, ChecksumAddress(strings.ToUpper(lower[2:])))
	assert.Equal(t, "0xAAA", ChecksumAddress("0xAAA"))
	assert.Equal(t, "", ChecksumAddress(""))
}
