package clickhouse

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/ClickHouse/clickhouse-go/v2/lib/proto"
	"hermannm.dev/devlog/log"
	"hermannm.dev/wikicharts/config"
	"hermannm.dev/wikicharts/query"
	"hermannm.dev/wrap"
)

// Implements query.Source for ClickHouse. Widget queries are plain SQL.
type ClickHouseSource struct {
	conn driver.Conn
}

func NewClickHouseSource(config config.Config) (ClickHouseSource, error) {
	// Options docs: https://clickhouse.com/docs/en/integrations/go#connection-settings
	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{config.ClickHouse.Address},
		Auth: clickhouse.Auth{
			Database: config.ClickHouse.DatabaseName,
			Username: config.ClickHouse.Username,
			Password: config.ClickHouse.Password,
		},
		Debug: config.ClickHouse.Debug,
		Debugf: func(format string, v ...any) {
			log.Debugf(format, v...)
		},
		Compression: &clickhouse.Compression{Method: clickhouse.CompressionLZ4},
	})
	if err != nil {
		return ClickHouseSource{}, wrap.Error(err, "failed to connect to ClickHouse")
	}

	if err := conn.Ping(context.Background()); err != nil {
		return ClickHouseSource{}, wrap.Error(
			formatClickHouseError(err),
			"failed to ping ClickHouse connection",
		)
	}

	return ClickHouseSource{conn: conn}, nil
}

func (source ClickHouseSource) Select(
	ctx context.Context,
	queryString string,
	options query.Options,
) (query.Rows, error) {
	if options.Inference || options.HistoricData {
		log.Debug(
			"ignoring inference/historic data options, which ClickHouse does not support",
			slog.Bool("inference", options.Inference),
			slog.Bool("historicData", options.HistoricData),
		)
	}

	log.Debug("running ClickHouse widget query", slog.String("query", queryString))

	rows, err := source.conn.Query(ctx, queryString)
	if err != nil {
		return nil, wrap.Error(formatClickHouseError(err), "ClickHouse query failed")
	}

	return newResultRows(rows), nil
}

func (source ClickHouseSource) Close() error {
	return source.conn.Close()
}

func formatClickHouseError(err error) error {
	exception, ok := err.(*proto.Exception)
	if !ok {
		return err
	}
	// See https://github.com/ClickHouse/ClickHouse/blob/master/src/Common/ErrorCodes.cpp
	return fmt.Errorf("%s (%s, code %d)", exception.Message, exception.Name, exception.Code)
}
