package documents

import (
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/ledgerline-erp/ledgerline/internal/masterdata/bankaccounts"
)

var noteMatcher = language.NewMatcher([]language.Tag{
	language.Spanish,
	language.English,
})

func init() {
	for _, entry := range []struct{ key, es string }{
		{
			key: "%s: payment by bank transfer to %s (%s) before %s.",
			es:  "%s: pago por transferencia bancaria a %s (%s) antes del %s.",
		},
		{
			key: "%s: payment before %s.",
			es:  "%s: pago antes del %s.",
		},
	} {
		_ = message.SetString(language.Spanish, entry.key, entry.es)
		_ = message.SetString(language.English, entry.key, entry.key)
	}
}

// paymentNote renders the localized payment instruction shown on
// customer-facing documents. The deadline already accounts for the
// counter-party's payment terms.
func paymentNote(lang, counterparty string, deadline time.Time, account *bankaccounts.BankAccount) string {
	tag, _ := language.MatchStrings(noteMatcher, lang)
	p := message.NewPrinter(tag)
	date := deadline.Format("02/01/2006")
	if account == nil {
		return p.Sprintf("%s: payment before %s.", counterparty, date)
	}
	return p.Sprintf("%s: payment by bank transfer to %s (%s) before %s.",
		counterparty, account.IBAN, account.Bank, date)
}
