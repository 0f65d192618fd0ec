package bitquery

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// tradesQuery selects successful buy-side DEX trades for one mint address,
// newest first. Pagination uses the block time of the last trade of the
// previous page as a "before" cursor.
const tradesQuery = `
query GetBatch {
  Solana(dataset: realtime) {
    DEXTradeByTokens(
      where: {
        Trade: {
          Currency: {
            MintAddress: {is: "%s"}
          }
          Side: {
            Type: {is: buy}
          }
        }
        Transaction: {Result: {Success: true}}
        Block: {
          %s
        }
      }
      orderBy: {descendingByField: "Block_Time"}
      limit: {count: %d}
    ) {
      Block {
        Time
      }
      Transaction {
        Signature
        Signer
      }
      Trade {
        Account {
          Address
        }
        Amount
        Price
        PriceInUSD
        Side {
          Amount
          AmountInUSD
          Currency {
            Symbol
            MintAddress
          }
        }
      }
    }
  }
}`

// probeQuery is a minimal limit-1 query used to validate the API key and the
// token address before anything is written locally.
const probeQuery = `
query GetTotalBuys {
  Solana(dataset: realtime) {
    DEXTradeByTokens(
      where: {
        Trade: {
          Currency: {
            MintAddress: {is: "%s"}
          }
          Side: {
            Type: {is: buy}
          }
        }
        Transaction: {Result: {Success: true}}
      }
      limit: {count: 1}
    ) {
      Block {
        Time
      }
    }
  }
}`

// blockTimeLayout is the timestamp format Bitquery returns in Block.Time.
const blockTimeLayout = "2006-01-02T15:04:05Z"

func buildTradesQuery(token string, cursor time.Time, limit int) string {
	timeFilter := ""
	if !cursor.IsZero() {
		timeFilter = fmt.Sprintf(`Time: {before: "%s"}`, cursor.UTC().Format(blockTimeLayout))
	}
	return fmt.Sprintf(tradesQuery, token, timeFilter, limit)
}

func buildProbeQuery(token string) string {
	return fmt.Sprintf(probeQuery, token)
}

type graphQLRequest struct {
	Query string `json:"query"`
}

type graphQLError struct {
	Message string `json:"message"`
}

// tradesResponse mirrors the provider's JSON response shape.
type tradesResponse struct {
	Data *struct {
		Solana struct {
			DEXTradeByTokens []tradeRecord `json:"DEXTradeByTokens"`
		} `json:"Solana"`
	} `json:"data"`
	Errors []graphQLError `json:"errors"`
}

type tradeRecord struct {
	Block struct {
		Time string `json:"Time"`
	} `json:"Block"`
	Transaction struct {
		Signature string `json:"Signature"`
		Signer    string `json:"Signer"`
	} `json:"Transaction"`
	Trade struct {
		Account struct {
			Address string `json:"Address"`
		} `json:"Account"`
		Amount     flexFloat `json:"Amount"`
		Price      flexFloat `json:"Price"`
		PriceInUSD flexFloat `json:"PriceInUSD"`
		Side       struct {
			Amount      flexFloat `json:"Amount"`
			AmountInUSD flexFloat `json:"AmountInUSD"`
			Currency    struct {
				Symbol      string `json:"Symbol"`
				MintAddress string `json:"MintAddress"`
			} `json:"Currency"`
		} `json:"Side"`
	} `json:"Trade"`
}

// flexFloat tolerates the provider returning amounts either as JSON numbers
// or as decimal strings. Null and empty values decode to zero.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" || s == `""` {
		*f = 0
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var unquoted string
		if err := json.Unmarshal(data, &unquoted); err != nil {
			return err
		}
		v, err := strconv.ParseFloat(unquoted, 64)
		if err != nil {
			return fmt.Errorf("parsing %q as float: %w", unquoted, err)
		}
		*f = flexFloat(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*f = flexFloat(v)
	return nil
}

func (f flexFloat) Float64() float64 {
	return float64(f)
}

func (e graphQLError) isAuthError() bool {
	msg := strings.ToLower(e.Message)
	return strings.Contains(msg, "unauthorized") ||
		strings.Contains(msg, "api key") ||
		strings.Contains(msg, "access denied") ||
		strings.Contains(msg, "token is invalid")
}

func joinErrorMessages(errs []graphQLError) string {
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Message
	}
	return strings.Join(msgs, "; ")
}
