package snapshot

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakmont/vantage/internal/clients"
	"github.com/oakmont/vantage/internal/clients/demo"
	"github.com/oakmont/vantage/internal/domain"
	"github.com/oakmont/vantage/internal/reliability"
)

// brokenProvider fails every call.
type brokenProvider struct{}

func (brokenProvider) Name() string { return "broken" }

func (brokenProvider) Quote(ctx context.Context, symbol string) (*clients.Quote, error) {
	return nil, errors.New("unreachable")
}

func (brokenProvider) Profile(ctx context.Context, symbol string) (*clients.Profile, error) {
	return nil, errors.New("unreachable")
}

func (brokenProvider) Fundamentals(ctx context.Context, symbol string) (*clients.FundamentalsPayload, error) {
	return nil, errors.New("unreachable")
}

func (brokenProvider) Sentiment(ctx context.Context, symbol string) (*clients.SentimentPayload, error) {
	return nil, errors.New("unreachable")
}

func (brokenProvider) Options(ctx context.Context, symbol string) (*clients.OptionsPayload, error) {
	return nil, errors.New("unreachable")
}

func (brokenProvider) Candles(ctx context.Context, symbol string, days int) ([]clients.Candle, error) {
	return nil, errors.New("unreachable")
}

func (brokenProvider) Macro(ctx context.Context) (*clients.MacroPayload, error) {
	return nil, errors.New("unreachable")
}

func TestBuildFromDemoProvider(t *testing.T) {
	b := NewBuilder([]clients.Provider{demo.NewProvider()}, reliability.NewRegistry(zerolog.Nop()), zerolog.Nop())

	snap, err := b.Build(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, "AAPL", snap.Symbol)
	assert.Greater(t, snap.Price, 0.0)
	assert.NotEmpty(t, snap.Sector)
	assert.NotEmpty(t, snap.HistoricalPrices)
	assert.True(t, snap.Meta.IsDemoData)
	assert.Contains(t, snap.Meta.ProvidersUsed, "demo")
	assert.Equal(t, domain.ConfidenceHigh, snap.Meta.Confidence)
}

func TestBuildFallsBackToSecondProvider(t *testing.T) {
	providers := []clients.Provider{brokenProvider{}, demo.NewProvider()}
	b := NewBuilder(providers, reliability.NewRegistry(zerolog.Nop()), zerolog.Nop())

	snap, err := b.Build(context.Background(), "MSFT")
	require.NoError(t, err)
	assert.Contains(t, snap.Meta.ProvidersUsed, "demo")
	assert.Contains(t, snap.Meta.ProvidersFailed, "broken")
}

func TestBuildFailsWithoutQuote(t *testing.T) {
	b := NewBuilder([]clients.Provider{brokenProvider{}}, reliability.NewRegistry(zerolog.Nop()), zerolog.Nop())

	_, err := b.Build(context.Background(), "AAPL")
	require.Error(t, err)
}

func TestBuildDeterministicForSameSymbol(t *testing.T) {
	b := NewBuilder([]clients.Provider{demo.NewProvider()}, reliability.NewRegistry(zerolog.Nop()), zerolog.Nop())

	first, err := b.Build(context.Background(), "NVDA")
	require.NoError(t, err)
	second, err := b.Build(context.Background(), "NVDA")
	require.NoError(t, err)

	assert.Equal(t, first.Price, second.Price)
	assert.Equal(t, first.Technicals, second.Technicals)
	assert.Equal(t, first.Fundamentals, second.Fundamentals)
}

func TestBuildNoProviders(t *testing.T) {
	b := NewBuilder(nil, reliability.NewRegistry(zerolog.Nop()), zerolog.Nop())
	_, err := b.Build(context.Background(), "AAPL")
	require.Error(t, err)
}
