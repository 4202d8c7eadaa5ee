// currency — форматирование денежных сумм для выдачи наружу.
// Локаль фиксирована (en-US), как и у фронтового Intl.NumberFormat:
// "$12,500.00", "€1,000.00" и т.д.
package currency

import (
	"fmt"

	xcurrency "golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var printer = message.NewPrinter(language.AmericanEnglish)

// Format возвращает сумму с символом валюты и двумя знаками после запятой.
//
// Правила:
//   - code — ISO-4217 ("USD", "EUR"); символ "€" принимается как синоним EUR;
//   - неизвестный код не считается ошибкой: сумма форматируется с кодом
//     в качестве суффикса ("12,500.00 XYZ").
func Format(amount float64, code string) string {
	if code == "€" {
		code = "EUR"
	}

	unit, err := xcurrency.ParseISO(code)
	if err != nil {
		return printer.Sprintf("%v %s", number.Decimal(amount, number.MinFractionDigits(2), number.MaxFractionDigits(2)), code)
	}

	return printer.Sprint(xcurrency.Symbol(unit.Amount(amount)))
}

// FormatRaised — подпись прогресса сбора ("$12,500.00 raised").
func FormatRaised(amount float64, code string) string {
	return fmt.Sprintf("%s raised", Format(amount, code))
}
