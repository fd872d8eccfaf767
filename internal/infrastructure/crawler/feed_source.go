package crawler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/tradesphere/antiscam/internal/domain/scamcheck"
	"go.uber.org/zap"
)

const defaultFeedURL = "https://feeds.chongluadao.vn/checkmisc"

// FeedSource queries the chongluadao.vn aggregation feed over plain HTTP.
// The feed replies with a JSON array of tagged envelopes; each envelope's
// tag decides how its payload maps to a record.
type FeedSource struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

// NewFeedSource creates the feed source. An empty baseURL uses the public
// endpoint.
func NewFeedSource(baseURL string, timeout time.Duration, logger *zap.Logger) *FeedSource {
	if baseURL == "" {
		baseURL = defaultFeedURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FeedSource{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		logger:  logger.Named(scamcheck.SourceChongLuaDao),
	}
}

// ID returns the source identifier.
func (s *FeedSource) ID() string {
	return scamcheck.SourceChongLuaDao
}

type feedEnvelope struct {
	Source string          `json:"source"`
	Data   json.RawMessage `json:"data"`
}

type feedScamVNPayload struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Account string `json:"account"`
	Bank    string `json:"bank"`
	Amount  string `json:"amount"`
	Date    string `json:"date"`
	Link    string `json:"link"`
}

type feedICallMePayload struct {
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	ReportTime string `json:"report_time"`
	Link       string `json:"link"`
}

// Search queries the feed for a keyword. Every non-empty envelope counts
// toward the total even when its tag is unknown; only known tags produce
// records.
func (s *FeedSource) Search(ctx context.Context, keyword string) scamcheck.SourceResult {
	reqURL := s.baseURL + "?q=" + url.QueryEscape(keyword)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return scamcheck.FailedResult(s.ID(), err.Error())
	}

	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.Warn("feed request failed", zap.String("keyword", keyword), zap.Error(err))
		return scamcheck.FailedResult(s.ID(), err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		reason := fmt.Sprintf("feed returned status %d", resp.StatusCode)
		s.logger.Warn("feed request rejected", zap.String("keyword", keyword), zap.Int("status", resp.StatusCode))
		return scamcheck.FailedResult(s.ID(), reason)
	}

	var envelopes []feedEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelopes); err != nil {
		s.logger.Warn("feed payload malformed", zap.String("keyword", keyword), zap.Error(err))
		return scamcheck.FailedResult(s.ID(), err.Error())
	}

	total := 0
	var records []scamcheck.SourceRecord
	for _, env := range envelopes {
		if len(env.Data) == 0 || string(env.Data) == "null" {
			continue
		}
		total++

		switch env.Source {
		case "scamvn":
			var p feedScamVNPayload
			if err := json.Unmarshal(env.Data, &p); err != nil {
				continue
			}
			records = append(records, scamcheck.SourceRecord{
				Name:        p.Name,
				Phone:       p.Phone,
				BankAccount: p.Account,
				BankName:    p.Bank,
				Amount:      p.Amount,
				ReportDate:  p.Date,
				DetailLink:  p.Link,
			})
		case "icallme":
			var p feedICallMePayload
			if err := json.Unmarshal(env.Data, &p); err != nil {
				continue
			}
			records = append(records, scamcheck.SourceRecord{
				Name:       p.Name,
				Phone:      p.Phone,
				ReportDate: p.ReportTime,
				DetailLink: p.Link,
			})
		}
	}

	return scamcheck.SourceResult{
		Source:  s.ID(),
		Success: true,
		Total:   strconv.Itoa(total),
		Records: records,
	}
}

// Ensure FeedSource implements Source
var _ scamcheck.Source = (*FeedSource)(nil)
