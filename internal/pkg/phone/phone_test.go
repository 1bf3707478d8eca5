package phone

import (
	"errors"
	"testing"

	"github.com/phone-verify-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_Accepted(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"mobile plain", "01012345678", "010-1234-5678"},
		{"mobile dashed", "010-1234-5678", "010-1234-5678"},
		{"mobile dots and spaces", "010.1234 5678", "010-1234-5678"},
		{"mobile parens", "(010) 1234-5678", "010-1234-5678"},
		{"legacy mobile 011", "01112345678", "011-1234-5678"},
		{"seoul 9 digits", "021234567", "02-123-4567"},
		{"seoul 10 digits", "0212345678", "02-1234-5678"},
		{"seoul dashed", "02-1234-5678", "02-1234-5678"},
		{"regional 10 digits", "0311234567", "031-123-4567"},
		{"regional 11 digits", "03112345678", "031-1234-5678"},
		{"regional dashed", "031-1234-5678", "031-1234-5678"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Normalize(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestNormalize_Rejected(t *testing.T) {
	cases := []struct {
		name string
		in   string
	}{
		{"empty", ""},
		{"no digits", "abc-defg"},
		{"mobile too short", "0101234567"},
		{"mobile too long", "010123456789"},
		{"seoul too short", "02123456"},
		{"seoul too long", "02123456789"},
		{"regional too short", "031123456"},
		{"regional too long", "031123456789"},
		{"no leading zero", "1012345678"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Normalize(tc.in)
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrInvalidPhoneFormat))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{"01012345678", "021234567", "0311234567", "03112345678"}
	for _, in := range inputs {
		once, err := Normalize(in)
		require.NoError(t, err)
		twice, err := Normalize(once)
		require.NoError(t, err)
		assert.Equal(t, once, twice)
	}
}

func TestNormalize_DigitEquivalentVariantsMatch(t *testing.T) {
	variants := []string{"01012345678", "010-1234-5678", "010 1234 5678", "+01012345678"}
	want, err := Normalize(variants[0])
	require.NoError(t, err)
	for _, v := range variants[1:] {
		got, err := Normalize(v)
		require.NoError(t, err)
		assert.Equal(t, want, got, "variant %q", v)
	}
}
