package gasreport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/soulbond/warpets-deployer/configs"
)

const (
	coinmarketcapQuotesURL = "https://pro-api.coinmarketcap.com/v1/cryptocurrency/quotes/latest"
	requestTimeout         = 10 * time.Second
)

var ErrNoPriceAPIKey = errors.New("no CoinMarketCap API key configured")

type (
	// Prices convert gas into token and fiat costs. A zero TokenPrice means
	// fiat costs are unknown.
	Prices struct {
		GasPrice   *big.Int
		TokenPrice float64
		Token      string
		Currency   string
	}

	// PriceSource queries the Etherscan gas price proxy and CoinMarketCap.
	PriceSource struct {
		httpClient   *http.Client
		gasPriceAPI  string
		etherscanKey string
		quotesURL    string
		cmcKey       string
		token        string
		currency     string
	}

	etherscanProxyResponse struct {
		Result string `json:"result"`
	}

	cmcQuotesResponse struct {
		Status struct {
			ErrorCode    int    `json:"error_code"`
			ErrorMessage string `json:"error_message"`
		} `json:"status"`
		Data map[string]struct {
			Quote map[string]struct {
				Price float64 `json:"price"`
			} `json:"quote"`
		} `json:"data"`
	}
)

func NewPriceSource(cfg configs.GasReporter, etherscanKey string) *PriceSource {
	return &PriceSource{
		httpClient:   &http.Client{Timeout: requestTimeout},
		gasPriceAPI:  cfg.GasPriceAPI,
		etherscanKey: etherscanKey,
		quotesURL:    coinmarketcapQuotesURL,
		cmcKey:       cfg.CoinmarketcapAPIKey,
		token:        cfg.Token,
		currency:     cfg.Currency,
	}
}

// GasPrice returns the current gas price in wei from the Etherscan proxy.
func (p *PriceSource) GasPrice(ctx context.Context) (*big.Int, error) {
	params := url.Values{}
	if p.etherscanKey != "" {
		params.Set("apikey", p.etherscanKey)
	}

	body, err := p.get(ctx, p.gasPriceAPI, params, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch gas price: %w", err)
	}

	var response etherscanProxyResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to parse gas price response: %w", err)
	}

	gasPrice, err := hexutil.DecodeBig(response.Result)
	if err != nil {
		return nil, fmt.Errorf("unexpected gas price %q: %w", response.Result, err)
	}

	return gasPrice, nil
}

// TokenPrice returns the price of one token in the configured currency.
func (p *PriceSource) TokenPrice(ctx context.Context) (float64, error) {
	if p.cmcKey == "" {
		return 0, ErrNoPriceAPIKey
	}

	params := url.Values{}
	params.Set("symbol", p.token)
	params.Set("convert", p.currency)

	body, err := p.get(ctx, p.quotesURL, params, map[string]string{"X-CMC_PRO_API_KEY": p.cmcKey})
	if err != nil {
		return 0, fmt.Errorf("failed to fetch %s price: %w", p.token, err)
	}

	var response cmcQuotesResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return 0, fmt.Errorf("failed to parse price response: %w", err)
	}
	if response.Status.ErrorCode != 0 {
		return 0, fmt.Errorf("coinmarketcap error %d: %s", response.Status.ErrorCode, response.Status.ErrorMessage)
	}

	quote, ok := response.Data[p.token].Quote[p.currency]
	if !ok {
		return 0, fmt.Errorf("no %s quote for %s", p.currency, p.token)
	}

	return quote.Price, nil
}

// Prices fetches both prices. fallbackGasPrice is used when the gas price
// API fails, and fiat costs are omitted when the quote is unavailable.
func (p *PriceSource) Prices(ctx context.Context, fallbackGasPrice *big.Int) Prices {
	prices := Prices{GasPrice: fallbackGasPrice, Token: p.token, Currency: p.currency}

	if gasPrice, err := p.GasPrice(ctx); err == nil {
		prices.GasPrice = gasPrice
	}
	if tokenPrice, err := p.TokenPrice(ctx); err == nil {
		prices.TokenPrice = tokenPrice
	}

	return prices
}

func (p *PriceSource) get(ctx context.Context, rawURL string, params url.Values, headers map[string]string) ([]byte, error) {
	if len(params) > 0 {
		separator := "?"
		if strings.Contains(rawURL, "?") {
			separator = "&"
		}
		rawURL += separator + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	return body, nil
}
