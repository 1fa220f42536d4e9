package paymentprovider

import (
	"mentorship-service/internal/app/config"
	"mentorship-service/internal/app/contracts"
	"mentorship-service/internal/app/models"
	"mentorship-service/internal/pkg/exceptions"

	"go.uber.org/zap"
)

type registry struct {
	providers map[models.PaymentProvider]contracts.PaymentProvider
}

func NewRegistry(providers ...contracts.PaymentProvider) contracts.PaymentProviderRegistry {
	r := &registry{providers: make(map[models.PaymentProvider]contracts.PaymentProvider, len(providers))}
	for _, provider := range providers {
		r.providers[provider.Name()] = provider
	}
	return r
}

// NewRegistryFromConfig builds every enabled provider adapter.
func NewRegistryFromConfig(internalConfig *config.InternalConfig, logger *zap.Logger) contracts.PaymentProviderRegistry {
	var providers []contracts.PaymentProvider
	if internalConfig.Payment.Card.Enabled {
		providers = append(providers, NewCardProvider(internalConfig.Payment.Card, logger))
	}
	if internalConfig.Payment.Wallet.Enabled {
		providers = append(providers, NewWalletProvider(internalConfig.Payment.Wallet, logger))
	}
	return NewRegistry(providers...)
}

func (r *registry) Get(provider models.PaymentProvider) (contracts.PaymentProvider, error) {
	p, ok := r.providers[provider]
	if !ok {
		return nil, exceptions.ErrUnknownProvider(string(provider))
	}
	return p, nil
}
