// Package sheets implements the submission ledger on top of the Google
// Sheets API.
package sheets

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"waitlist/config"

	"github.com/pkg/errors"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"
)

// Ledger appends one row per submission to a spreadsheet tab. Concurrent
// appends are serialized by the store, not here.
type Ledger struct {
	values        *sheetsapi.SpreadsheetsValuesService
	spreadsheetID string
	sheetName     string
	logger        *slog.Logger
}

// NewLedger builds the Sheets client from service-account credentials
// assembled out of configuration.
func NewLedger(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Ledger, error) {
	creds, err := credentialsJSON(&cfg.Sheets)
	if err != nil {
		return nil, err
	}

	jwtConfig, err := google.JWTConfigFromJSON(creds, sheetsapi.SpreadsheetsScope)
	if err != nil {
		return nil, errors.Wrap(err, "parse service account credentials")
	}

	svc, err := sheetsapi.NewService(ctx, option.WithHTTPClient(jwtConfig.Client(ctx)))
	if err != nil {
		return nil, errors.Wrap(err, "create sheets service")
	}

	return &Ledger{
		values:        svc.Spreadsheets.Values,
		spreadsheetID: cfg.Sheets.SpreadsheetID,
		sheetName:     cfg.Sheets.SheetName,
		logger:        logger,
	}, nil
}

// credentialsJSON assembles a service_account key file from the discrete
// config fields. Private keys arriving through env vars carry literal \n
// sequences that must become real newlines.
func credentialsJSON(cfg *config.SheetsConfig) ([]byte, error) {
	key := struct {
		Type        string `json:"type"`
		ProjectID   string `json:"project_id"`
		PrivateKey  string `json:"private_key"`
		ClientEmail string `json:"client_email"`
	}{
		Type:        "service_account",
		ProjectID:   cfg.ProjectID,
		PrivateKey:  strings.ReplaceAll(cfg.PrivateKey, `\n`, "\n"),
		ClientEmail: cfg.ClientEmail,
	}

	raw, err := json.Marshal(key)
	if err != nil {
		return nil, errors.Wrap(err, "encode credentials")
	}

	return raw, nil
}

// EnsureHeaders writes the header row when the tab's first row is empty.
// A non-empty first row is treated as already-correct headers and left
// alone, accepting header drift over accidental overwrites.
func (l *Ledger) EnsureHeaders(ctx context.Context, headers []string) error {
	resp, err := l.values.Get(l.spreadsheetID, l.sheetName+"!A1:Z1").Context(ctx).Do()
	if err != nil {
		return errors.Wrap(err, "read header row")
	}

	if len(resp.Values) > 0 && len(resp.Values[0]) > 0 && resp.Values[0][0] != "" {
		return nil
	}

	row := make([]any, len(headers))
	for i, h := range headers {
		row[i] = h
	}

	_, err = l.values.Update(l.spreadsheetID, l.sheetName+"!A1", &sheetsapi.ValueRange{
		Values: [][]any{row},
	}).ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return errors.Wrap(err, "write header row")
	}

	l.logger.Info("Created ledger header row", slog.String("sheet", l.sheetName))

	return nil
}

// AppendRow appends one row with insert-rows semantics so concurrent
// appends never overwrite each other.
func (l *Ledger) AppendRow(ctx context.Context, row []string) error {
	values := make([]any, len(row))
	for i, cell := range row {
		values[i] = cell
	}

	_, err := l.values.Append(l.spreadsheetID, l.sheetName+"!A:Z", &sheetsapi.ValueRange{
		Values: [][]any{values},
	}).ValueInputOption("USER_ENTERED").InsertDataOption("INSERT_ROWS").Context(ctx).Do()
	if err != nil {
		return errors.Wrap(err, "append ledger row")
	}

	return nil
}
