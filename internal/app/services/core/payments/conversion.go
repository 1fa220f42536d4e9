package payments

import (
	"mentorship-service/internal/app/contracts"
	"mentorship-service/internal/pkg/utils"
	"strings"

	"github.com/shopspring/decimal"
)

// toProviderAmount converts a session-currency amount into the provider's currency.
func toProviderAmount(provider contracts.PaymentProvider, amount decimal.Decimal) decimal.Decimal {
	return utils.RoundMoney(amount.Mul(provider.ConversionRate()))
}

func fromProviderAmount(provider contracts.PaymentProvider, amount decimal.Decimal) decimal.Decimal {
	rate := provider.ConversionRate()
	if rate.IsZero() {
		return amount
	}
	return utils.RoundMoney(amount.Div(rate))
}

func providerCurrency(provider contracts.PaymentProvider, sessionCurrency string) string {
	if currency := provider.Currency(); currency != "" {
		return currency
	}
	return sessionCurrency
}

// capturedMatches reports whether a provider-reported capture pays exactly price.
// An empty reported currency is accepted since not every provider echoes it back.
func capturedMatches(provider contracts.PaymentProvider, amount decimal.Decimal, currency string, price decimal.Decimal, sessionCurrency string) bool {
	if currency != "" && !strings.EqualFold(currency, providerCurrency(provider, sessionCurrency)) {
		return false
	}
	return fromProviderAmount(provider, amount).Equal(utils.RoundMoney(price))
}
