package documents

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ledgerline-erp/ledgerline/internal/masterdata/bankaccounts"
)

func TestPaymentNoteLocalization(t *testing.T) {
	deadline := time.Date(2026, 4, 9, 0, 0, 0, 0, time.UTC)
	account := &bankaccounts.BankAccount{Bank: "Banco Uno", IBAN: "ES9121000418450200051332"}

	es := paymentNote("es", "Acme SL", deadline, account)
	require.Contains(t, es, "transferencia bancaria")
	require.Contains(t, es, "ES9121000418450200051332")
	require.Contains(t, es, "09/04/2026")

	en := paymentNote("en", "Acme SL", deadline, account)
	require.Contains(t, en, "bank transfer")
	require.Contains(t, en, "Banco Uno")

	// Unknown languages fall back to the first supported one.
	unknown := paymentNote("fr", "Acme SL", deadline, account)
	require.NotEmpty(t, unknown)
}

func TestPaymentNoteWithoutAccount(t *testing.T) {
	deadline := time.Date(2026, 4, 9, 0, 0, 0, 0, time.UTC)

	es := paymentNote("es", "Acme SL", deadline, nil)
	require.Contains(t, es, "Acme SL")
	require.Contains(t, es, "09/04/2026")
	require.NotContains(t, es, "transferencia")
}
