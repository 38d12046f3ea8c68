package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.opentelemetry.io/collector/pdata/plog"
	"go.uber.org/zap"

	"github.com/mslogs/mslogs-sdk-go/api/logs"
	"github.com/mslogs/mslogs-sdk-go/config"
	"github.com/mslogs/mslogs-sdk-go/model"
	"github.com/mslogs/mslogs-sdk-go/utils/translator"
)

// sendOptions are the flag values of the root command.
type sendOptions struct {
	configFilename string
	endpoint       string
	objectID       string
	objectType     string
	dataFilename   string
	statusCode     int
	result         string
	otlpFilename   string
}

var errMissingData = errors.New("request data file is required")

func newRootCmd() *cobra.Command {
	opts := &sendOptions{}

	cmd := &cobra.Command{
		Use:   "mslogs-send --object-id ID --object-type TYPE --data FILE",
		Short: "Send one request/response log record to the logs service.",
		Long: `mslogs-send builds a log record from a JSON file holding the request
snapshot and from flags describing the response, validates it and posts it to
the logs service configured in the config file or MSLOGS_* variables.
The parsed reply of the service is printed to stdout.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), opts, cmd.OutOrStdout())
		},
	}

	bindFlags(cmd.Flags(), opts)
	return cmd
}

func bindFlags(flags *pflag.FlagSet, opts *sendOptions) {
	flags.StringVarP(&opts.configFilename, "config", "c", "",
		fmt.Sprintf("path to the configuration file (default is '%s')", config.DefaultConfigFilename))
	flags.StringVar(&opts.endpoint, "endpoint", "", "base URL of the logs service, overrides the config")
	flags.StringVar(&opts.objectID, "object-id", "", "24 character hex id of the logged object")
	flags.StringVar(&opts.objectType, "object-type", "", "type of the logged object")
	flags.StringVarP(&opts.dataFilename, "data", "d", "", "JSON file with the request snapshot")
	flags.IntVar(&opts.statusCode, "status-code", 0, "response status code (default 200)")
	flags.StringVar(&opts.result, "result", "", "response result, parsed as JSON when possible")
	flags.StringVar(&opts.otlpFilename, "otlp-out", "", "also write the record as OTLP JSON logs to this file")
}

// Execute executes the root command.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, opts *sendOptions, out io.Writer) error {
	ingestOpts := []logs.Option{}
	if opts.endpoint != "" {
		ingestOpts = append(ingestOpts, logs.WithEndpoint(opts.endpoint))
	}

	logLevel := zap.InfoLevel
	if opts.endpoint == "" || opts.configFilename != "" {
		cfg, err := config.LoadConfig(opts.configFilename)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		logLevel = cfg.ParsedLogLevel
		ingestOpts = append(ingestOpts, logs.WithConfig(cfg))
	}

	logger, err := zap.NewDevelopment(zap.IncreaseLevel(logLevel))
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()
	ingestOpts = append(ingestOpts, logs.WithLogger(logger))

	lli, err := logs.NewLogIngest(ctx, ingestOpts...)
	if err != nil {
		return err
	}

	record, err := buildRecord(opts)
	if err != nil {
		return err
	}

	if opts.otlpFilename != "" {
		if err = writeOTLP(record, opts.otlpFilename); err != nil {
			return err
		}
	}

	logger.Debug("Sending log record", zap.String("object_id", record.ObjectID), zap.String("object_type", record.ObjectType))

	resp, err := lli.Export(ctx, record)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}

func buildRecord(opts *sendOptions) (*model.LogRecord, error) {
	if opts.dataFilename == "" {
		return nil, errMissingData
	}

	raw, err := os.ReadFile(opts.dataFilename)
	if err != nil {
		return nil, fmt.Errorf("failed to read request data: %w", err)
	}
	data := &model.RequestData{}
	if err = json.Unmarshal(raw, data); err != nil {
		return nil, fmt.Errorf("failed to parse request data: %w", err)
	}

	return &model.LogRecord{
		ObjectID:   opts.objectID,
		ObjectType: opts.objectType,
		Data:       data,
		Response: logs.BuildResponseData(&model.Response{
			StatusCode: opts.statusCode,
			Result:     parseResult(opts.result),
		}),
	}, nil
}

// parseResult keeps the flag as a plain string unless it is valid JSON.
func parseResult(result string) interface{} {
	if result == "" {
		return nil
	}
	var parsed interface{}
	if err := json.Unmarshal([]byte(result), &parsed); err != nil {
		return result
	}
	return parsed
}

func writeOTLP(record *model.LogRecord, filename string) error {
	ld, err := translator.ConvertToPLogs(record, time.Now())
	if err != nil {
		return err
	}
	marshaler := &plog.JSONMarshaler{}
	body, err := marshaler.MarshalLogs(ld)
	if err != nil {
		return fmt.Errorf("failed to marshal OTLP logs: %w", err)
	}
	if err = os.WriteFile(filename, body, 0o600); err != nil {
		return fmt.Errorf("failed to write OTLP logs: %w", err)
	}
	return nil
}
