package notify

import (
	"fmt"
	"strconv"
	"strings"

	"pumpdetector/internal/pump"
)

// knownQuotes are tried in order when pair metadata is missing.
var knownQuotes = []string{"BTC", "BUSD", "USDT", "BNB", "EUR", "TRY", "ETH"}

// PairSplitter resolves a symbol into base and quote assets.
type PairSplitter interface {
	Split(symbol string) (base, quote string, ok bool)
}

// Formatter renders alerts as Telegram HTML messages.
type Formatter struct {
	Pairs           PairSplitter // optional
	EmphasisPercent float64      // alerts above this get a siren prefix
}

func (f Formatter) Format(a pump.Alert) string {
	var b strings.Builder

	if a.PercentDiff > f.EmphasisPercent {
		b.WriteString("🚨 ")
	}
	b.WriteString(f.symbol(a.Symbol))
	b.WriteString("\n\n")

	lead := a.MinutesElapsed
	if lead == 0 {
		lead = a.SecondsElapsed
	}
	var span string
	if a.MinutesElapsed != 0 {
		span = fmt.Sprintf("%d %s ", a.MinutesElapsed, declension(a.MinutesElapsed, minuteForms))
	}
	span += fmt.Sprintf("%d %s", a.SecondsElapsed, declension(a.SecondsElapsed, secondForms))

	fmt.Fprintf(&b, "📈 <b>Подорожала</b> на <b>%s%%</b> за %s <b>%s</b>\n\n",
		formatFloat(a.PercentDiff, 2), declension(lead, lastForms), span)
	fmt.Fprintf(&b, "<b>Было:</b> <code>%s</code>\n", formatFloat(a.PriceFrom, 15))
	fmt.Fprintf(&b, "<b>Стало:</b> <code>%s</code>\n\n", formatFloat(a.PriceTo, 15))
	fmt.Fprintf(&b, "<b>Минимум за сутки:</b> <code>%s</code>\n", formatFloat(a.DayLow, 15))
	fmt.Fprintf(&b, "<b>Максимум за сутки:</b> <code>%s</code>\n\n", formatFloat(a.DayHigh, 15))
	fmt.Fprintf(&b, "<b>Изменение за сутки:</b> <code>%s%%</code>", formatFloat(a.DayChangePercent, 2))

	return b.String()
}

// symbol renders "ETHBTC" as "<b>ETH</b>/BTC".
func (f Formatter) symbol(symbol string) string {
	if f.Pairs != nil {
		if base, quote, ok := f.Pairs.Split(symbol); ok {
			return fmt.Sprintf("<b>%s</b>/%s", base, quote)
		}
	}
	for _, quote := range knownQuotes {
		if strings.HasSuffix(symbol, quote) {
			return fmt.Sprintf("<b>%s</b>/%s", strings.TrimSuffix(symbol, quote), quote)
		}
	}
	return symbol
}

var (
	lastForms   = [3]string{"последнюю", "последние", "последние"}
	minuteForms = [3]string{"минуту", "минуты", "минут"}
	secondForms = [3]string{"секунду", "секунды", "секунд"}
)

// declension picks the Russian plural form for n: 1 минуту, 2 минуты, 5 минут.
func declension(n int, forms [3]string) string {
	cases := [6]int{2, 0, 1, 1, 1, 2}
	if n < 0 {
		n = -n
	}
	if n%100 > 4 && n%100 < 20 {
		return forms[2]
	}
	if n%10 < 5 {
		return forms[cases[n%10]]
	}
	return forms[cases[5]]
}

// formatFloat prints n with fixed precision and strips trailing zeros.
func formatFloat(n float64, precision int) string {
	s := strconv.FormatFloat(n, 'f', precision, 64)
	if strings.Contains(s, ".") {
		s = strings.TrimRight(s, "0")
		s = strings.TrimSuffix(s, ".")
	}
	return s
}
