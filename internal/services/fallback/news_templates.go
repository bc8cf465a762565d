package fallback

type newsTemplate struct {
	title  string
	source string
	url    string
}

// Headlines used when the live news feed is unavailable. Generic templates
// take the asset symbol as their only argument.
var assetNews = map[string][]newsTemplate{
	"BTC": {
		{"Bitcoin Holds Key Support as Long-Term Holders Keep Accumulating", "CoinDesk", "https://www.coindesk.com/markets"},
		{"Spot Bitcoin ETF Flows Stay in Focus for Institutional Desks", "The Block", "https://www.theblock.co/category/markets"},
		{"Bitcoin Hashrate Hits Fresh High After Difficulty Adjustment", "Bitcoin Magazine", "https://bitcoinmagazine.com/markets"},
		{"Analysts Watch Bitcoin Funding Rates as Volatility Compresses", "Decrypt", "https://decrypt.co/news"},
	},
	"ETH": {
		{"Ethereum Layer-2 Activity Climbs to Record Transaction Counts", "The Block", "https://www.theblock.co/category/defi"},
		{"Staked ETH Supply Keeps Growing Ahead of Next Network Upgrade", "CoinDesk", "https://www.coindesk.com/tech"},
		{"Ethereum Gas Fees Stay Low as Rollups Absorb Demand", "Decrypt", "https://decrypt.co/news"},
	},
	"SOL": {
		{"Solana DEX Volumes Rival Ethereum Mainnet for Another Week", "The Block", "https://www.theblock.co/category/defi"},
		{"Solana Validators Roll Out Client Update Focused on Throughput", "CoinDesk", "https://www.coindesk.com/tech"},
		{"Memecoin Mania Keeps Solana Fees Near Yearly Highs", "Decrypt", "https://decrypt.co/news"},
	},
	"ADA": {
		{"Cardano Governance Vote Draws Record Delegate Turnout", "CoinDesk", "https://www.coindesk.com/policy"},
		{"Cardano DeFi TVL Edges Higher as New Stablecoin Launches", "The Block", "https://www.theblock.co/category/defi"},
	},
	"XRP": {
		{"XRP Ledger Adds Native AMM Pools as Liquidity Deepens", "CoinDesk", "https://www.coindesk.com/markets"},
		{"Cross-Border Payment Pilots Put XRP Back in the Headlines", "Decrypt", "https://decrypt.co/news"},
	},
	"DOGE": {
		{"Dogecoin Social Volume Spikes as Community Eyes Payments Push", "Decrypt", "https://decrypt.co/news"},
		{"Dogecoin Whales Move Coins Off Exchanges, On-Chain Data Shows", "CoinDesk", "https://www.coindesk.com/markets"},
	},
	"BNB": {
		{"BNB Chain Burns Another Quarterly Batch of Tokens", "The Block", "https://www.theblock.co/category/markets"},
		{"BNB Chain Gas Limit Raised to Ease Peak-Hour Congestion", "CoinDesk", "https://www.coindesk.com/tech"},
	},
}

var genericNews = []newsTemplate{
	{"%s Sees Renewed Interest as Traders Reposition", "CryptoDash Desk", "https://www.coingecko.com/en/news"},
	{"On-Chain Metrics Point to Growing %s Adoption", "CryptoDash Desk", "https://www.coingecko.com/en/news"},
	{"What Analysts Are Watching Next for %s", "CryptoDash Desk", "https://www.coingecko.com/en/news"},
	{"%s Developers Ship Roadmap Update to the Community", "CryptoDash Desk", "https://www.coingecko.com/en/news"},
	{"Liquidity for %s Improves Across Major Exchanges", "CryptoDash Desk", "https://www.coingecko.com/en/news"},
}
