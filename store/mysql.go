package store

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/signalsfoundry/contact-scheduler/internal/logging"
	"github.com/signalsfoundry/contact-scheduler/model"
)

var (
	ErrMissingHost = errors.New("TiDB host is not configured")
	ErrBadCACert   = errors.New("cannot load TiDB CA certificate")
)

// tlsKey is the name under which the CA-backed TLS config is registered
// with the MySQL driver.
const tlsKey = "tidb"

const connectTimeout = 8 * time.Second

// TiDBConfig carries the connection parameters for the TiDB backend.
type TiDBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	// CAPath points at the PEM bundle used to verify the server
	// certificate. TLS is enabled whenever it is set.
	CAPath string
}

// TiDBConfigFromEnv reads the TIDB_* environment variables. Port defaults
// to 4000 and the database name to "satellite_sim".
func TiDBConfigFromEnv() TiDBConfig {
	cfg := TiDBConfig{
		Host:     os.Getenv("TIDB_HOST"),
		Port:     4000,
		User:     os.Getenv("TIDB_USER"),
		Password: os.Getenv("TIDB_PASSWORD"),
		Database: os.Getenv("TIDB_DATABASE"),
		CAPath:   os.Getenv("TIDB_CA_PATH"),
	}
	if v := os.Getenv("TIDB_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil && p > 0 {
			cfg.Port = p
		}
	}
	if cfg.Database == "" {
		cfg.Database = "satellite_sim"
	}
	return cfg
}

// driverConfig translates the TiDB settings into a MySQL driver config,
// registering the CA-backed TLS profile when a CA path is set.
func (c TiDBConfig) driverConfig() (*mysql.Config, error) {
	if c.Host == "" {
		return nil, ErrMissingHost
	}

	port := c.Port
	if port <= 0 {
		port = 4000
	}
	database := c.Database
	if database == "" {
		database = "satellite_sim"
	}

	mc := mysql.NewConfig()
	mc.Net = "tcp"
	mc.Addr = fmt.Sprintf("%s:%d", c.Host, port)
	mc.User = c.User
	mc.Passwd = c.Password
	mc.DBName = database
	mc.ParseTime = true
	mc.Timeout = connectTimeout
	mc.Loc = time.UTC

	if c.CAPath != "" {
		pem, err := os.ReadFile(c.CAPath)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadCACert, err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(pem) {
			return nil, fmt.Errorf("%w: no certificates in %q", ErrBadCACert, c.CAPath)
		}
		if err := mysql.RegisterTLSConfig(tlsKey, &tls.Config{RootCAs: pool}); err != nil {
			return nil, fmt.Errorf("register TLS config: %w", err)
		}
		mc.TLSConfig = tlsKey
	}

	return mc, nil
}

// TiDBStore persists contact windows and telemetry to a TiDB (MySQL
// compatible) database.
type TiDBStore struct {
	db  *sql.DB
	log logging.Logger
}

// NewTiDBStore opens a connection pool for the given config. The database
// is not contacted until the first operation; call EnsureSchema early to
// surface connectivity problems.
func NewTiDBStore(cfg TiDBConfig, log logging.Logger) (*TiDBStore, error) {
	if log == nil {
		log = logging.Noop()
	}

	mc, err := cfg.driverConfig()
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("mysql", mc.FormatDSN())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(3 * time.Minute)

	return &TiDBStore{db: db, log: log}, nil
}

const createContactWindowsTable = `
CREATE TABLE IF NOT EXISTS contact_windows (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	satellite_id VARCHAR(32) NOT NULL,
	ground_station_id VARCHAR(32) NOT NULL,
	start_time DATETIME(6) NOT NULL,
	end_time DATETIME(6) NOT NULL,
	timestamp DATETIME(6) NOT NULL,
	distance DOUBLE NOT NULL,
	datavolume INT NOT NULL,
	priority INT NOT NULL,
	assigned BOOLEAN NOT NULL,
	KEY idx_contact_windows_end_time (end_time)
)`

const createTelemetryTable = `
CREATE TABLE IF NOT EXISTS telemetry (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	satellite_id VARCHAR(32) NOT NULL,
	ground_station_id VARCHAR(32) NOT NULL,
	timestamp DATETIME(6) NOT NULL,
	battery_level DOUBLE NOT NULL,
	temperature DOUBLE NOT NULL,
	position_lat DOUBLE NOT NULL,
	position_lon DOUBLE NOT NULL,
	status VARCHAR(16) NOT NULL
)`

// EnsureSchema creates the contact_windows and telemetry tables if they do
// not exist yet.
func (s *TiDBStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, createContactWindowsTable); err != nil {
		return fmt.Errorf("create contact_windows table: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, createTelemetryTable); err != nil {
		return fmt.Errorf("create telemetry table: %w", err)
	}
	return nil
}

const insertContactWindow = `
INSERT INTO contact_windows
(satellite_id, ground_station_id, start_time, end_time, timestamp, distance, datavolume, priority, assigned)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

// SaveContactWindows inserts the batch inside a single transaction.
func (s *TiDBStore) SaveContactWindows(ctx context.Context, windows []model.ContactWindow) error {
	if len(windows) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, insertContactWindow)
	if err != nil {
		return fmt.Errorf("prepare contact window insert: %w", err)
	}
	defer stmt.Close()

	for _, w := range windows {
		_, err := stmt.ExecContext(ctx,
			w.SatelliteID, w.GroundStationID,
			w.StartTime, w.EndTime, w.Timestamp,
			w.DistanceKm, w.DataVolume, w.Priority,
			w.Assigned(),
		)
		if err != nil {
			return fmt.Errorf("insert contact window %s->%s: %w", w.SatelliteID, w.GroundStationID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit contact windows: %w", err)
	}
	s.log.Debug(ctx, "persisted contact windows", logging.Int("count", len(windows)))
	return nil
}

const insertTelemetry = `
INSERT INTO telemetry
(satellite_id, ground_station_id, timestamp, battery_level, temperature, position_lat, position_lon, status)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

// SaveTelemetry inserts the batch inside a single transaction.
func (s *TiDBStore) SaveTelemetry(ctx context.Context, records []model.Telemetry) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, insertTelemetry)
	if err != nil {
		return fmt.Errorf("prepare telemetry insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		_, err := stmt.ExecContext(ctx,
			rec.SatelliteID, rec.GroundStationID, rec.Timestamp,
			rec.BatteryLevel, rec.TemperatureC,
			rec.PositionLat, rec.PositionLon,
			string(rec.Status),
		)
		if err != nil {
			return fmt.Errorf("insert telemetry for %s: %w", rec.SatelliteID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit telemetry: %w", err)
	}
	s.log.Debug(ctx, "persisted telemetry", logging.Int("count", len(records)))
	return nil
}

// PurgeExpiredWindows deletes windows that ended strictly before the cutoff.
func (s *TiDBStore) PurgeExpiredWindows(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM contact_windows WHERE end_time < ?", before)
	if err != nil {
		return 0, fmt.Errorf("purge expired windows: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("purge expired windows: %w", err)
	}
	return n, nil
}

// Close shuts down the connection pool.
func (s *TiDBStore) Close() error {
	return s.db.Close()
}
