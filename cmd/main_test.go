package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sbilibin2017/gw-price-converter/internal/facades"
	"github.com/sbilibin2017/gw-price-converter/internal/models"
	"github.com/sbilibin2017/gw-price-converter/internal/repositories"
	"github.com/sbilibin2017/gw-price-converter/internal/services"
)

// resetFlags resets the global flag.CommandLine to avoid "flag redefined" panic
func resetFlags() {
	flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.ExitOnError)
}

// unsetEnv clears keys for the duration of the test
func unsetEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestParseFlags_Default(t *testing.T) {
	resetFlags()
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()

	os.Args = []string{"cmd"}
	configPath, dev, prod, source, list, id, args := parseFlags()

	assert.Equal(t, "config.env", configPath)
	assert.False(t, dev)
	assert.False(t, prod)
	assert.Empty(t, source)
	assert.False(t, list)
	assert.Equal(t, int64(0), id)
	assert.Empty(t, args)
}

func TestParseFlags_Custom(t *testing.T) {
	resetFlags()
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()

	os.Args = []string{"cmd", "-c", "myconfig.env", "-dev", "-s", "local", "eur", "105"}
	configPath, dev, prod, source, _, _, args := parseFlags()

	assert.Equal(t, "myconfig.env", configPath)
	assert.True(t, dev)
	assert.False(t, prod)
	assert.Equal(t, "local", source)
	assert.Equal(t, []string{"eur", "105"}, args)
}

func TestParseFlags_ReadSide(t *testing.T) {
	resetFlags()
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()

	os.Args = []string{"cmd", "-prod", "-source", "API", "-list", "-id", "3"}
	_, _, prod, source, list, id, _ := parseFlags()

	assert.True(t, prod)
	assert.Equal(t, "API", source)
	assert.True(t, list)
	assert.Equal(t, int64(3), id)
}

func TestPrintBuildInfo_Output(t *testing.T) {
	// Capture stdout
	oldStdout := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	buildVersion = "v1.0.0"
	buildCommit = "abcd1234"
	buildDate = "2025-09-26"

	printBuildInfo()

	w.Close()
	var buf bytes.Buffer
	_, _ = buf.ReadFrom(r)
	os.Stdout = oldStdout

	assert.Equal(t, "Starting converter version v1.0.0, commit abcd1234, build 2025-09-26\n", buf.String())
}

func TestParseConfig_Defaults(t *testing.T) {
	unsetEnv(t,
		"APP_LOG_LEVEL", "APP_LOG_FILE", "APP_MODE", "APP_SOURCE",
		"RATES_API_URL", "RATES_HTTP_TIMEOUT_SECOND", "RATES_SNAPSHOT_PATH",
		"ISO_CODES_PATH", "JSON_DB_PATH", "SQL_DRIVER", "SQL_DSN",
	)

	logLevel, logFile, mode, source,
		ratesURL, ratesTimeout, snapshotPath,
		isoCodesPath, jsonDBPath,
		sqlDriver, sqlDSN,
		err := parseConfig("nonexistent.env")
	require.NoError(t, err)

	assert.Equal(t, "info", logLevel)
	assert.Equal(t, "logfile.log", logFile)
	assert.Equal(t, "PROD", mode)
	assert.Equal(t, "API", source)
	assert.Equal(t, facades.NBPBaseURL, ratesURL)
	assert.Equal(t, 10, ratesTimeout)
	assert.Equal(t, "example_currency_rates.json", snapshotPath)
	assert.Equal(t, "currency_iso_codes.json", isoCodesPath)
	assert.Equal(t, "database.json", jsonDBPath)
	assert.Equal(t, repositories.DriverSQLite, sqlDriver)
	assert.Equal(t, "sqlite3.db", sqlDSN)
}

func TestParseConfig_EnvFile(t *testing.T) {
	unsetEnv(t, "APP_MODE", "APP_SOURCE", "SQL_DRIVER", "RATES_HTTP_TIMEOUT_SECOND")
	t.Setenv("APP_LOG_LEVEL", "debug")

	path := filepath.Join(t.TempDir(), "config.env")
	content := "APP_MODE=DEV\nAPP_SOURCE=LOCAL\nSQL_DRIVER=pgx\nRATES_HTTP_TIMEOUT_SECOND=3\nAPP_LOG_LEVEL=error\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	logLevel, _, mode, source, _, ratesTimeout, _, _, _, sqlDriver, _, err := parseConfig(path)
	require.NoError(t, err)

	// Variables already set in the environment win over the file
	assert.Equal(t, "debug", logLevel)
	assert.Equal(t, "DEV", mode)
	assert.Equal(t, "LOCAL", source)
	assert.Equal(t, "pgx", sqlDriver)
	assert.Equal(t, 3, ratesTimeout)
}

func TestParseConfig_InvalidTimeout(t *testing.T) {
	t.Setenv("RATES_HTTP_TIMEOUT_SECOND", "soon")

	_, _, _, _, _, _, _, _, _, _, _, err := parseConfig("nonexistent.env")
	assert.Error(t, err)
}

func TestModeFromFlags(t *testing.T) {
	mode, err := modeFromFlags("PROD", true, false)
	assert.NoError(t, err)
	assert.Equal(t, "DEV", mode)

	mode, err = modeFromFlags("DEV", false, true)
	assert.NoError(t, err)
	assert.Equal(t, "PROD", mode)

	mode, err = modeFromFlags("dev", false, false)
	assert.NoError(t, err)
	assert.Equal(t, "dev", mode)

	_, err = modeFromFlags("PROD", true, true)
	assert.ErrorIs(t, err, models.ErrInvalidConfig)
}

// ------------------ run ------------------

type fixture struct {
	dir          string
	logFile      string
	snapshotPath string
	isoCodesPath string
	jsonDBPath   string
	sqlDSN       string
}

func newFixture(t *testing.T, rate string) fixture {
	t.Helper()
	dir := t.TempDir()
	today := time.Now().Format(services.DateLayout)

	f := fixture{
		dir:          dir,
		logFile:      filepath.Join(dir, "logfile.log"),
		snapshotPath: filepath.Join(dir, "example_currency_rates.json"),
		isoCodesPath: filepath.Join(dir, "currency_iso_codes.json"),
		jsonDBPath:   filepath.Join(dir, "database.json"),
		sqlDSN:       filepath.Join(dir, "sqlite3.db"),
	}

	snapshot := fmt.Sprintf(`{
		"EUR": [{"date": %q, "rate": %s}, {"date": "2000-01-01", "rate": 1.0}],
		"USD": [{"date": "2000-01-01", "rate": 3.5}]
	}`, today, rate)
	require.NoError(t, os.WriteFile(f.snapshotPath, []byte(snapshot), 0o644))

	codes := `[
		{"Symbol waluty (kod ISO)": "EUR"},
		{"Symbol waluty (kod ISO)": "USD"}
	]`
	require.NoError(t, os.WriteFile(f.isoCodesPath, []byte(codes), 0o644))

	return f
}

func (f fixture) run(t *testing.T, mode, source, ratesURL string, list bool, id int64, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := run(context.Background(), &out,
		"info", f.logFile,
		mode, source,
		ratesURL, 5, f.snapshotPath,
		f.isoCodesPath, f.jsonDBPath,
		repositories.DriverSQLite, f.sqlDSN,
		list, id, args,
	)
	return out.String(), err
}

func TestRun_LocalSourceDevMode(t *testing.T) {
	f := newFixture(t, "4.15")

	out, err := f.run(t, "DEV", "LOCAL", "", false, 0, "eur", "105")
	require.NoError(t, err)
	assert.Equal(t, "105 EUR --> 435.75 PLN\n", out)
	assert.FileExists(t, f.jsonDBPath)
	assert.NoFileExists(t, f.sqlDSN)

	_, err = f.run(t, "DEV", "LOCAL", "", false, 0, "EUR", "10")
	require.NoError(t, err)

	out, err = f.run(t, "DEV", "LOCAL", "", true, 0)
	require.NoError(t, err)
	assert.Contains(t, out, "105 EUR --> 435.75 PLN")
	assert.Contains(t, out, "10 EUR --> 41.5 PLN")

	out, err = f.run(t, "DEV", "LOCAL", "", false, 2)
	require.NoError(t, err)
	assert.Contains(t, out, "10 EUR --> 41.5 PLN (rate 4.15, ")

	_, err = f.run(t, "DEV", "LOCAL", "", false, 9)
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	logData, err := os.ReadFile(f.logFile)
	require.NoError(t, err)
	assert.Contains(t, string(logData), "run_id")
	assert.Contains(t, string(logData), "price converted")
}

func TestRun_APISourceProdMode(t *testing.T) {
	f := newFixture(t, "4.15")

	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"table":"A","code":"USD","rates":[{"mid":3.9871}]}`)
	}))
	defer srv.Close()

	out, err := f.run(t, "PROD", "API", srv.URL, false, 0, "usd", "10")
	require.NoError(t, err)
	assert.Equal(t, "10 USD --> 39.871 PLN\n", out)
	assert.Equal(t, "/rates/a/usd/today/", gotPath)
	assert.FileExists(t, f.sqlDSN)
	assert.NoFileExists(t, f.jsonDBPath)

	out, err = f.run(t, "PROD", "API", srv.URL, false, 1)
	require.NoError(t, err)
	assert.Contains(t, out, "10 USD --> 39.871 PLN")
}

func TestRun_APIError(t *testing.T) {
	f := newFixture(t, "4.15")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Not Found", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := f.run(t, "DEV", "API", srv.URL, false, 0, "EUR", "1")

	var httpErr *facades.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusNotFound, httpErr.StatusCode)
	assert.NoFileExists(t, f.jsonDBPath)
}

func TestRun_Errors(t *testing.T) {
	tests := []struct {
		name    string
		mode    string
		source  string
		id      int64
		args    []string
		wantErr error
	}{
		{name: "invalid mode", mode: "TEST", source: "LOCAL", args: []string{"EUR", "1"}, wantErr: models.ErrInvalidConfig},
		{name: "invalid source", mode: "DEV", source: "FTP", args: []string{"EUR", "1"}, wantErr: models.ErrInvalidConfig},
		{name: "missing price", mode: "DEV", source: "LOCAL", args: []string{"EUR"}, wantErr: ErrUsage},
		{name: "unsupported currency", mode: "DEV", source: "LOCAL", args: []string{"XYZ", "1"}, wantErr: ErrUnsupportedCurrency},
		{name: "non numeric price", mode: "DEV", source: "LOCAL", args: []string{"EUR", "abc"}},
		{name: "no rate for today", mode: "DEV", source: "LOCAL", args: []string{"USD", "1"}, wantErr: facades.ErrRateNotFound},
		{name: "negative id", mode: "DEV", source: "LOCAL", id: -1, args: []string{"EUR", "1"}, wantErr: ErrUsage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, "4.15")

			out, err := f.run(t, tt.mode, tt.source, "", false, tt.id, tt.args...)

			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			assert.Empty(t, out)
			assert.NoFileExists(t, f.jsonDBPath)
		})
	}
}

func TestRun_NullSnapshotRateIsNotStored(t *testing.T) {
	f := newFixture(t, "null")

	_, err := f.run(t, "DEV", "LOCAL", "", false, 0, "EUR", "105")
	assert.ErrorIs(t, err, facades.ErrInvalidResponse)
	assert.NoFileExists(t, f.jsonDBPath)

	out, err := f.run(t, "DEV", "LOCAL", "", true, 0)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestRun_NegativeIDFailsBeforeIO(t *testing.T) {
	f := newFixture(t, "4.15")

	_, err := f.run(t, "DEV", "LOCAL", "", false, -3)

	assert.ErrorIs(t, err, ErrUsage)
	assert.NoFileExists(t, f.logFile)
	assert.NoFileExists(t, f.jsonDBPath)
}

func TestRun_InvalidConfigFailsBeforeIO(t *testing.T) {
	f := newFixture(t, "4.15")

	_, err := f.run(t, "STAGING", "LOCAL", "", false, 0, "EUR", "1")

	assert.ErrorIs(t, err, models.ErrInvalidConfig)
	assert.NoFileExists(t, f.logFile)
}
