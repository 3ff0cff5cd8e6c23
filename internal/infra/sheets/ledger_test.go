package sheets

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"
)

// sheetsServer fakes the two value endpoints the ledger touches.
type sheetsServer struct {
	*httptest.Server

	headerRow []any

	updates [][]any
	appends [][]any
}

func newSheetsServer(t *testing.T) *sheetsServer {
	t.Helper()

	ss := &sheetsServer{}
	mux := http.NewServeMux()

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet:
			values := [][]any{}
			if len(ss.headerRow) > 0 {
				values = append(values, ss.headerRow)
			}
			_ = json.NewEncoder(w).Encode(sheetsapi.ValueRange{Values: values})
		case strings.Contains(r.URL.Path, ":append"):
			var vr sheetsapi.ValueRange
			require.NoError(t, json.NewDecoder(r.Body).Decode(&vr))
			ss.appends = append(ss.appends, vr.Values...)
			_ = json.NewEncoder(w).Encode(sheetsapi.AppendValuesResponse{})
		default:
			var vr sheetsapi.ValueRange
			require.NoError(t, json.NewDecoder(r.Body).Decode(&vr))
			ss.updates = append(ss.updates, vr.Values...)
			_ = json.NewEncoder(w).Encode(sheetsapi.UpdateValuesResponse{})
		}
	})

	ss.Server = httptest.NewServer(mux)
	t.Cleanup(ss.Close)

	return ss
}

func testLedger(t *testing.T, server *sheetsServer) *Ledger {
	t.Helper()

	svc, err := sheetsapi.NewService(context.Background(),
		option.WithEndpoint(server.URL),
		option.WithHTTPClient(server.Client()))
	require.NoError(t, err)

	return &Ledger{
		values:        svc.Spreadsheets.Values,
		spreadsheetID: "sheet-id",
		sheetName:     "Sheet1",
		logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestLedger_EnsureHeaders_WritesWhenEmpty(t *testing.T) {
	server := newSheetsServer(t)
	ledger := testLedger(t, server)

	require.NoError(t, ledger.EnsureHeaders(context.Background(), []string{"Timestamp", "Name"}))

	require.Len(t, server.updates, 1)
	assert.Equal(t, []any{"Timestamp", "Name"}, server.updates[0])
}

func TestLedger_EnsureHeaders_Idempotent(t *testing.T) {
	server := newSheetsServer(t)
	server.headerRow = []any{"Timestamp", "Name"}
	ledger := testLedger(t, server)

	require.NoError(t, ledger.EnsureHeaders(context.Background(), []string{"Timestamp", "Name"}))
	require.NoError(t, ledger.EnsureHeaders(context.Background(), []string{"Timestamp", "Name"}))

	// A populated first row is never overwritten.
	assert.Empty(t, server.updates)
}

func TestLedger_AppendRow(t *testing.T) {
	server := newSheetsServer(t)
	ledger := testLedger(t, server)

	require.NoError(t, ledger.AppendRow(context.Background(), []string{"2026-01-15T10:30:00Z", "Test Person"}))

	require.Len(t, server.appends, 1)
	assert.Equal(t, []any{"2026-01-15T10:30:00Z", "Test Person"}, server.appends[0])
}
