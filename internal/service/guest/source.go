package guest

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Source yields the raw rows of one guest spreadsheet.
type Source interface {
	Name() string
	Fetch(ctx context.Context) ([]Row, error)
}

// CSVSource downloads a spreadsheet that was published to the web as CSV.
type CSVSource struct {
	url        string
	hasHeader  bool
	httpClient *http.Client
}

func NewCSVSource(url string, hasHeader bool, httpClient *http.Client) *CSVSource {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &CSVSource{url: url, hasHeader: hasHeader, httpClient: httpClient}
}

func (s *CSVSource) Name() string {
	return "csv:" + s.url
}

func (s *CSVSource) Fetch(ctx context.Context) ([]Row, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/csv")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch guest csv: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch guest csv: unexpected status %d", resp.StatusCode)
	}

	return ParseCSV(resp.Body, s.hasHeader)
}

type SheetsConfig struct {
	SpreadsheetID      string
	Range              string
	APIKey             string
	ServiceAccountFile string
	HasHeader          bool
	// ClientOptions are appended last; tests use them to point at a fake endpoint.
	ClientOptions []option.ClientOption
}

// SheetsSource reads guest rows through the Google Sheets API. A service
// account is needed for private sheets; public ones work with an API key.
type SheetsSource struct {
	service       *sheets.Service
	spreadsheetID string
	readRange     string
	hasHeader     bool
}

func NewSheetsSource(ctx context.Context, cfg SheetsConfig) (*SheetsSource, error) {
	if cfg.SpreadsheetID == "" {
		return nil, fmt.Errorf("spreadsheet id is required")
	}

	var opts []option.ClientOption
	switch {
	case cfg.ServiceAccountFile != "":
		credBytes, err := os.ReadFile(cfg.ServiceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("unable to read service account file: %w", err)
		}
		jwtConfig, err := google.JWTConfigFromJSON(credBytes, sheets.SpreadsheetsReadonlyScope)
		if err != nil {
			return nil, fmt.Errorf("unable to parse service account: %w", err)
		}
		opts = append(opts, option.WithTokenSource(jwtConfig.TokenSource(ctx)))
	case cfg.APIKey != "":
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	default:
		return nil, fmt.Errorf("sheets source needs an API key or a service account file")
	}
	opts = append(opts, cfg.ClientOptions...)

	service, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Sheets service: %w", err)
	}

	readRange := cfg.Range
	if readRange == "" {
		readRange = "A:B"
	}

	return &SheetsSource{
		service:       service,
		spreadsheetID: cfg.SpreadsheetID,
		readRange:     readRange,
		hasHeader:     cfg.HasHeader,
	}, nil
}

func (s *SheetsSource) Name() string {
	return "sheets:" + s.spreadsheetID
}

func (s *SheetsSource) Fetch(ctx context.Context) ([]Row, error) {
	resp, err := s.service.Spreadsheets.Values.Get(s.spreadsheetID, s.readRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read spreadsheet values: %w", err)
	}
	return ParseRows(cellsToRecords(resp.Values), s.hasHeader), nil
}

func cellsToRecords(values [][]interface{}) [][]string {
	records := make([][]string, 0, len(values))
	for _, row := range values {
		record := make([]string, len(row))
		for i, cell := range row {
			if cell != nil {
				record[i] = fmt.Sprint(cell)
			}
		}
		records = append(records, record)
	}
	return records
}
