package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRoleCodes(t *testing.T) {
	t.Parallel()

	for _, role := range []AuthRole{RoleAdmin, RoleManager, RoleServer} {
		got, err := RoleFromCode(role.Code())
		require.NoError(t, err)
		require.Equal(t, role, got)
	}
	_, err := RoleFromCode(0)
	require.Error(t, err, "code 0 is reserved, not a role")
	_, err = RoleFromCode(42)
	require.Error(t, err)
}

func TestStatusCodes(t *testing.T) {
	t.Parallel()

	for _, st := range []AuthStatus{StatusNotActivated, StatusActivated, StatusBlocked} {
		got, err := StatusFromCode(st.Code())
		require.NoError(t, err)
		require.Equal(t, st, got)
	}
	_, err := StatusFromCode(9)
	require.Error(t, err)
}

func TestValidityMonths(t *testing.T) {
	t.Parallel()

	require.Equal(t, 1, ValidityOneMonth.Months())
	require.Equal(t, 3, ValidityThreeMonths.Months())
	require.Equal(t, 6, ValiditySixMonths.Months())
	require.Equal(t, 12, ValidityYear.Months())
}

func TestValidityStringRoundTrip(t *testing.T) {
	t.Parallel()

	for _, v := range []AbonnementValidity{ValidityOneMonth, ValidityThreeMonths, ValiditySixMonths, ValidityYear} {
		parsed, err := ParseValidity(v.String())
		require.NoError(t, err)
		require.Equal(t, v, parsed)
	}
	_, err := ParseValidity("FOREVER")
	require.Error(t, err)
}

func TestDiscountFraction(t *testing.T) {
	t.Parallel()

	require.Equal(t, float32(0), DiscountD0.Fraction())
	require.Equal(t, float32(0.25), DiscountD25.Fraction())
	require.Equal(t, float32(0.9), DiscountD90.Fraction())

	// Discount codes double as the percent value.
	d, err := DiscountFromCode(15)
	require.NoError(t, err)
	require.Equal(t, DiscountD15, d)
	_, err = DiscountFromCode(33)
	require.Error(t, err)
}

func TestParseRole(t *testing.T) {
	t.Parallel()

	for _, role := range []AuthRole{RoleAdmin, RoleManager, RoleServer} {
		parsed, err := ParseRole(role.String())
		require.NoError(t, err)
		require.Equal(t, role, parsed)
	}
	_, err := ParseRole("ROOT")
	require.Error(t, err)
}
