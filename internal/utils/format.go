package utils

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Separador de milhar com vírgula (12586 -> "12,586").
var thousands = message.NewPrinter(language.English)

func FormatThousands(n int) string {
	return thousands.Sprintf("%d", n)
}
