package gateway

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/quantfi/tokenrisk/internal/token"
)

const defaultMarketBaseURL = "https://api.coingecko.com/api/v3"

// MarketClient fetches project and market facts from a CoinGecko-style
// coins/{platform}/contract/{address} endpoint.
type MarketClient struct {
	fetcher
	baseURL string
	apiKey  string
}

func NewMarketClient(f fetcher, baseURL, apiKey string) *MarketClient {
	if baseURL == "" {
		baseURL = defaultMarketBaseURL
	}
	f.source = "market"
	return &MarketClient{fetcher: f, baseURL: baseURL, apiKey: apiKey}
}

type coinResponse struct {
	Symbol      string `json:"symbol"`
	Description struct {
		En string `json:"en"`
	} `json:"description"`
	GenesisDate string `json:"genesis_date"`
	Links       struct {
		Homepage                 []string `json:"homepage"`
		Whitepaper               string   `json:"whitepaper"`
		TwitterScreenName        string   `json:"twitter_screen_name"`
		TelegramChannelID        string   `json:"telegram_channel_identifier"`
		SubredditURL             string   `json:"subreddit_url"`
		ChatURL                  []string `json:"chat_url"`
		AnnouncementURL          []string `json:"announcement_url"`
		OfficialForumURL         []string `json:"official_forum_url"`
		ReposURL                 struct {
			GitHub []string `json:"github"`
		} `json:"repos_url"`
	} `json:"links"`
	MarketData struct {
		CurrentPrice             map[string]float64 `json:"current_price"`
		MarketCap                map[string]float64 `json:"market_cap"`
		TotalVolume              map[string]float64 `json:"total_volume"`
		PriceChangePercentage24h float64            `json:"price_change_percentage_24h"`
		PriceChangePercentage30d float64            `json:"price_change_percentage_30d"`
	} `json:"market_data"`
	CommunityScore float64 `json:"community_score"`
	DeveloperScore float64 `json:"developer_score"`
	TrustScore     float64 `json:"coingecko_score"`
	Tickers        []struct {
		Market struct {
			Name string `json:"name"`
		} `json:"market"`
	} `json:"tickers"`
}

// Populate fills the market section of facts.
func (c *MarketClient) Populate(ctx context.Context, facts *token.FactRecord) error {
	cfg := token.Chains[facts.Chain]
	url := fmt.Sprintf("%s/coins/%s/contract/%s", c.baseURL, cfg.CoinGeckoPlatform, facts.Address)

	params := map[string]string{}
	if c.apiKey != "" {
		params["x_cg_api_key"] = c.apiKey
	}

	var coin coinResponse
	if err := c.getJSON(ctx, url, params, &coin); err != nil {
		return err
	}
	if coin.Symbol == "" {
		return fmt.Errorf("market: no data for token")
	}

	m := &facts.Market
	m.Symbol = strings.ToUpper(coin.Symbol)
	m.Description = coin.Description.En
	m.PriceUSD = coin.MarketData.CurrentPrice["usd"]
	m.MarketCapUSD = coin.MarketData.MarketCap["usd"]
	m.Volume24hUSD = coin.MarketData.TotalVolume["usd"]
	m.PriceChange24hPct = coin.MarketData.PriceChangePercentage24h
	m.PriceChange30dPct = coin.MarketData.PriceChangePercentage30d
	m.CommunityScore = coin.CommunityScore
	m.DeveloperScore = coin.DeveloperScore
	m.TrustScore = coin.TrustScore

	if coin.GenesisDate != "" {
		if t, err := time.Parse("2006-01-02", coin.GenesisDate); err == nil {
			m.GenesisAgeDays = int(time.Since(t).Hours() / 24)
		}
	}

	links := &m.Links
	if len(coin.Links.Homepage) > 0 {
		links.Homepage = coin.Links.Homepage[0]
	}
	links.Whitepaper = coin.Links.Whitepaper
	if len(coin.Links.ReposURL.GitHub) > 0 {
		links.GitHub = coin.Links.ReposURL.GitHub[0]
	}
	if coin.Links.TwitterScreenName != "" {
		links.Twitter = "https://twitter.com/" + coin.Links.TwitterScreenName
	}
	if coin.Links.TelegramChannelID != "" {
		links.Telegram = "https://t.me/" + coin.Links.TelegramChannelID
	}
	links.Subreddit = coin.Links.SubredditURL
	for _, chat := range coin.Links.ChatURL {
		lower := strings.ToLower(chat)
		switch {
		case strings.Contains(lower, "discord"):
			links.Discord = chat
		case strings.Contains(lower, "linkedin"):
			links.LinkedIn = chat
		}
	}
	for _, ann := range coin.Links.AnnouncementURL {
		if strings.Contains(strings.ToLower(ann), "medium") {
			links.Medium = ann
		} else if links.Blog == "" {
			links.Blog = ann
		}
	}
	if len(coin.Links.OfficialForumURL) > 0 && coin.Links.OfficialForumURL[0] != "" {
		links.Forum = coin.Links.OfficialForumURL[0]
	}

	seen := make(map[string]struct{})
	for _, t := range coin.Tickers {
		name := t.Market.Name
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		m.Exchanges = append(m.Exchanges, name)
	}

	// A LinkedIn presence is the best company signal this provider gives.
	m.HasCompany = links.LinkedIn != ""

	return nil
}
