package currency

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// Тесты pkg/currency.
//
// Точный вывод x/text может меняться между версиями (узкий/широкий символ),
// поэтому проверяем устойчивые свойства: наличие символа/кода и разрядность.

func TestFormat_USD(t *testing.T) {
	t.Parallel()

	got := Format(12500, "USD")
	require.Contains(t, got, "$")
	require.Contains(t, got, "12,500")
}

func TestFormat_EuroSymbolAlias(t *testing.T) {
	t.Parallel()

	got := Format(1000, "€")
	require.Contains(t, got, "€")
	require.Contains(t, got, "1,000")
}

func TestFormat_UnknownCode_FallsBackToSuffix(t *testing.T) {
	t.Parallel()

	got := Format(12500, "XYZ")
	require.Contains(t, got, "XYZ")
	require.Contains(t, got, "12,500.00")
}

func TestFormatRaised(t *testing.T) {
	t.Parallel()

	require.Contains(t, FormatRaised(50, "USD"), "raised")
}
