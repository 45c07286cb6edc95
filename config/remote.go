package config

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/tidemark/tradecore/config/encoding"
	"github.com/tidemark/tradecore/markets"
	"github.com/tidemark/tradecore/num"
)

// remoteConfig is the management API's deployment document. Decimal fields
// arrive as JSON numbers or strings; json.Number keeps them exact either way.
type remoteConfig struct {
	Exchange string `json:"exchange"`
	Instance string `json:"instance"`
	Algo     string `json:"algo"`
	Data     struct {
		Markets []struct {
			CommonSymbol    string      `json:"common_symbol"`
			BaseAsset       string      `json:"base_asset"`
			QuoteAsset      string      `json:"quote_asset"`
			PriceIncrement  json.Number `json:"price_increment"`
			AmountIncrement json.Number `json:"amount_increment"`
		} `json:"markets"`
		AssetsLabels []struct {
			Common string `json:"common"`
		} `json:"assets_labels"`
		Configs struct {
			CoreConfig struct {
				SimpleCore struct {
					MinDealAmounts map[string]json.Number `json:"min_deal_amounts"`
					Ratio          struct {
						Sell json.Number `json:"sell"`
						Buy  json.Number `json:"buy"`
					} `json:"ratio"`
					BoundRatio struct {
						Lower json.Number `json:"lower"`
						Upper json.Number `json:"upper"`
					} `json:"bound_ratio"`
					ResetClientID struct {
						First  int64 `json:"first"`
						Second int64 `json:"second"`
					} `json:"reset_client_id"`
				} `json:"simple_core"`
			} `json:"core_config"`
		} `json:"configs"`
	} `json:"data"`
}

// FetchRemote retrieves the deployment document from the management API and
// overlays it onto the defaults. Everything the document does not carry, the
// TOML defaults keep.
func FetchRemote(ctx context.Context, url string) (*Config, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build config request: %w", err)
	}

	client := http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch configuration: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("configuration endpoint returned %s", resp.Status)
	}

	var remote remoteConfig
	if err := json.NewDecoder(resp.Body).Decode(&remote); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}

	cfg := NewDefaultConfig()
	if err := applyRemote(&cfg, remote); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyRemote(cfg *Config, remote remoteConfig) error {
	cfg.Gateway.Exchange = remote.Exchange
	if remote.Instance != "" {
		cfg.Gateway.Instance = remote.Instance
	}
	if remote.Algo != "" {
		cfg.Gateway.Algo = remote.Algo
	}

	cfg.Markets.Instruments = cfg.Markets.Instruments[:0]
	for _, m := range remote.Data.Markets {
		price, err := parseDecimal("price_increment", m.PriceIncrement)
		if err != nil {
			return err
		}
		amount, err := parseDecimal("amount_increment", m.AmountIncrement)
		if err != nil {
			return err
		}
		cfg.Markets.Instruments = append(cfg.Markets.Instruments, markets.InstrumentConfig{
			Symbol:          m.CommonSymbol,
			BaseAsset:       m.BaseAsset,
			QuoteAsset:      m.QuoteAsset,
			PriceIncrement:  price,
			AmountIncrement: amount,
		})
	}

	core := remote.Data.Configs.CoreConfig.SimpleCore

	if len(core.MinDealAmounts) > 0 {
		amounts := make(map[string]num.Decimal, len(core.MinDealAmounts))
		for asset, raw := range core.MinDealAmounts {
			d, err := parseDecimal("min_deal_amounts."+asset, raw)
			if err != nil {
				return err
			}
			amounts[asset] = d
		}
		cfg.Execution.MinDealAmounts = amounts
	}

	for _, f := range []struct {
		name string
		raw  json.Number
		dst  *num.Decimal
	}{
		{"ratio.sell", core.Ratio.Sell, &cfg.Pricing.SellRatio},
		{"ratio.buy", core.Ratio.Buy, &cfg.Pricing.BuyRatio},
		{"bound_ratio.lower", core.BoundRatio.Lower, &cfg.Pricing.LowerBoundRatio},
		{"bound_ratio.upper", core.BoundRatio.Upper, &cfg.Pricing.UpperBoundRatio},
	} {
		if f.raw == "" {
			continue
		}
		d, err := parseDecimal(f.name, f.raw)
		if err != nil {
			return err
		}
		*f.dst = d
	}

	if core.ResetClientID.First > 0 {
		cfg.Execution.FirstTimeout = encoding.Duration{Duration: time.Duration(core.ResetClientID.First) * time.Second}
	}
	if core.ResetClientID.Second > 0 {
		cfg.Execution.SecondTimeout = encoding.Duration{Duration: time.Duration(core.ResetClientID.Second) * time.Second}
	}
	return nil
}

func parseDecimal(name string, raw json.Number) (num.Decimal, error) {
	d, err := num.DecimalFromString(raw.String())
	if err != nil {
		return d, fmt.Errorf("invalid %s %q: %w", name, raw.String(), err)
	}
	return d, nil
}
