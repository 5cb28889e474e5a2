package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/sbilibin2017/gw-price-converter/internal/facades"
	"github.com/sbilibin2017/gw-price-converter/internal/logger"
	"github.com/sbilibin2017/gw-price-converter/internal/models"
	"github.com/sbilibin2017/gw-price-converter/internal/money"
	"github.com/sbilibin2017/gw-price-converter/internal/repositories"
	"github.com/sbilibin2017/gw-price-converter/internal/services"
)

// Build info variables, set via ldflags at build time.
var (
	buildVersion = "N/A" // Version of the tool
	buildDate    = "N/A" // Build date
	buildCommit  = "N/A" // Git commit hash
)

var (
	// ErrUnsupportedCurrency is returned for a currency outside the ISO allow-list.
	ErrUnsupportedCurrency = errors.New("unsupported currency")
	// ErrUsage is returned when the positional arguments are missing or malformed.
	ErrUsage = errors.New("usage: converter [flags] <currency> <price>")
)

// recordStore is the persistence backend selected by run mode.
type recordStore interface {
	services.ConvertedPriceWriter
	services.ConvertedPriceReader
}

func main() {
	printBuildInfo()
	configPath, dev, prod, sourceFlag, list, id, args := parseFlags()

	logLevel, logFile,
		mode, source,
		ratesURL, ratesTimeout, snapshotPath,
		isoCodesPath, jsonDBPath,
		sqlDriver, sqlDSN,
		err := parseConfig(configPath)
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}

	mode, err = modeFromFlags(mode, dev, prod)
	if err != nil {
		log.Fatalf("invalid flags: %v", err)
	}
	if sourceFlag != "" {
		source = sourceFlag
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Stdout,
		logLevel, logFile,
		mode, source,
		ratesURL, ratesTimeout, snapshotPath,
		isoCodesPath, jsonDBPath,
		sqlDriver, sqlDSN,
		list, id, args,
	); err != nil {
		logger.Log.Errorw("conversion failed", "error", err)
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}

// printBuildInfo prints the build version, commit hash, and build date.
func printBuildInfo() {
	fmt.Printf("Starting converter version %s, commit %s, build %s\n", buildVersion, buildCommit, buildDate)
}

// parseFlags parses command-line flags and returns them with the positional arguments.
func parseFlags() (configPath string, dev, prod bool, source string, list bool, id int64, args []string) {
	flag.StringVar(&configPath, "c", "config.env", "Path to configuration file")
	flag.BoolVar(&dev, "dev", false, "Development mode: store records in a JSON file")
	flag.BoolVar(&prod, "prod", false, "Production mode: store records in the SQL database (default)")
	flag.StringVar(&source, "s", "", "Rate source: API or LOCAL")
	flag.StringVar(&source, "source", "", "Rate source: API or LOCAL")
	flag.BoolVar(&list, "list", false, "Print every stored conversion")
	flag.Int64Var(&id, "id", 0, "Print the stored conversion with this id")
	flag.Parse()
	return configPath, dev, prod, source, list, id, flag.Args()
}

// modeFromFlags applies -dev/-prod over the configured mode.
func modeFromFlags(mode string, dev, prod bool) (string, error) {
	switch {
	case dev && prod:
		return "", fmt.Errorf("%w: -dev and -prod are mutually exclusive", models.ErrInvalidConfig)
	case dev:
		return string(models.ModeDev), nil
	case prod:
		return string(models.ModeProd), nil
	}
	return mode, nil
}

// parseConfig loads environment variables from a file and returns
// logging, run mode, rate source and storage configuration.
func parseConfig(path string) (
	logLevel, logFile string,
	mode, source string,
	ratesURL string, ratesTimeoutSecond int, snapshotPath string,
	isoCodesPath, jsonDBPath string,
	sqlDriver, sqlDSN string,
	err error,
) {
	_ = godotenv.Load(path)

	getEnv := func(key, defaultValue string) string {
		if val, ok := os.LookupEnv(key); ok && val != "" {
			return val
		}
		return defaultValue
	}

	// Application config
	logLevel = getEnv("APP_LOG_LEVEL", "info")
	logFile = getEnv("APP_LOG_FILE", "logfile.log")
	mode = getEnv("APP_MODE", string(models.ModeProd))
	source = getEnv("APP_SOURCE", string(models.SourceAPI))

	// Rate sources
	ratesURL = getEnv("RATES_API_URL", facades.NBPBaseURL)
	if ratesTimeoutSecond, err = strconv.Atoi(getEnv("RATES_HTTP_TIMEOUT_SECOND", "10")); err != nil {
		return
	}
	snapshotPath = getEnv("RATES_SNAPSHOT_PATH", "example_currency_rates.json")
	isoCodesPath = getEnv("ISO_CODES_PATH", "currency_iso_codes.json")

	// Storage
	jsonDBPath = getEnv("JSON_DB_PATH", "database.json")
	sqlDriver = getEnv("SQL_DRIVER", repositories.DriverSQLite)
	sqlDSN = getEnv("SQL_DSN", "sqlite3.db")

	return
}

// run validates the run configuration, wires the rate source and store selected by it,
// and performs one conversion or one read-side query.
func run(ctx context.Context, out io.Writer,
	logLevel, logFile string,
	modeValue, sourceValue string,
	ratesURL string, ratesTimeoutSecond int, snapshotPath string,
	isoCodesPath, jsonDBPath string,
	sqlDriver, sqlDSN string,
	list bool, id int64, args []string,
) error {
	// Fail closed before any I/O
	mode, err := models.ParseMode(modeValue)
	if err != nil {
		return err
	}
	source, err := models.ParseSource(sourceValue)
	if err != nil {
		return err
	}
	if id < 0 {
		return fmt.Errorf("%w: -id must be positive, got %d", ErrUsage, id)
	}

	var outputs []string
	if logFile != "" {
		outputs = append(outputs, logFile)
	}
	if err := logger.Initialize(logLevel, outputs...); err != nil {
		return fmt.Errorf("initialize logger: %w", err)
	}
	defer logger.Log.Sync()
	logger.With("run_id", uuid.NewString())
	logger.Log.Infow("run configured", "mode", mode, "source", source, "version", buildVersion)

	store, err := newStore(mode, jsonDBPath, sqlDriver, sqlDSN)
	if err != nil {
		return err
	}

	switch {
	case list:
		svc := services.NewConversionService(nil, store, store)
		records, err := svc.ListRecords(ctx)
		if err != nil {
			return err
		}
		for _, record := range records {
			fmt.Fprintf(out, "%s (rate %s, %s)\n", record, record.Rate, record.RateDate)
		}
		return nil

	case id > 0:
		svc := services.NewConversionService(nil, store, store)
		record, err := svc.GetRecord(ctx, id)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s (rate %s, %s)\n", record, record.Rate, record.RateDate)
		return nil
	}

	currency, price, err := parseArgs(ctx, args, isoCodesPath)
	if err != nil {
		return err
	}

	rates, err := newRateReader(source, ratesURL, time.Duration(ratesTimeoutSecond)*time.Second, snapshotPath)
	if err != nil {
		return err
	}

	svc := services.NewConversionService(rates, store, store)
	record, recordID, err := svc.ConvertToPLN(ctx, currency, price)
	if err != nil {
		return err
	}

	logger.Log.Infow("conversion stored", "id", recordID, "record", record.String())
	fmt.Fprintln(out, record)
	return nil
}

// parseArgs validates the positional currency against the ISO allow-list and parses the price.
func parseArgs(ctx context.Context, args []string, isoCodesPath string) (string, decimal.Decimal, error) {
	if len(args) != 2 {
		return "", decimal.Zero, fmt.Errorf("%w: got %d arguments", ErrUsage, len(args))
	}

	currency := strings.ToUpper(strings.TrimSpace(args[0]))
	codes, err := repositories.NewCurrencyCodeFileRepository(isoCodesPath).GetCodes(ctx)
	if err != nil {
		return "", decimal.Zero, err
	}
	if !slices.Contains(codes, currency) {
		return "", decimal.Zero, fmt.Errorf("%w: %q", ErrUnsupportedCurrency, args[0])
	}

	price, err := money.ToDecimal(args[1])
	if err != nil {
		return "", decimal.Zero, fmt.Errorf("%w: price %q", err, args[1])
	}
	return currency, price, nil
}

// newRateReader builds the rate source selected by source.
func newRateReader(source models.Source, ratesURL string, timeout time.Duration, snapshotPath string) (services.ExchangeRateReader, error) {
	switch source {
	case models.SourceLocal:
		snapshot, err := facades.LoadSnapshot(snapshotPath)
		if err != nil {
			return nil, err
		}
		return facades.NewExchangeRatesFileFacade(snapshot), nil
	case models.SourceAPI:
		client := &http.Client{
			Timeout:   timeout,
			Transport: facades.NewLoggingTransport(nil, logger.Log),
		}
		return facades.NewExchangeRatesHTTPFacade(ratesURL, client), nil
	}
	return nil, fmt.Errorf("%w: SOURCE=%q", models.ErrInvalidConfig, source)
}

// newStore builds the persistence backend selected by mode.
func newStore(mode models.Mode, jsonDBPath, sqlDriver, sqlDSN string) (recordStore, error) {
	switch mode {
	case models.ModeDev:
		return repositories.NewJSONFileRepository(jsonDBPath, models.ConversionRecordMapper), nil
	case models.ModeProd:
		repo, err := repositories.NewSQLRepository(sqlDriver, sqlDSN, models.ConversionRecordMapper)
		if err != nil {
			return nil, err
		}
		return repo, nil
	}
	return nil, fmt.Errorf("%w: MODE=%q", models.ErrInvalidConfig, mode)
}
