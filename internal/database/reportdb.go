package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// FileName is the name of the SQLite file created inside the database directory.
const FileName = "depobs.db"

// timestampLayout is the layout timestamps are stored with. All stored times
// are UTC so lexical order matches chronological order.
const timestampLayout = "2006-01-02 15:04:05"

// ReportDB provides SQLite-based storage for scans and package reports.
type ReportDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures ReportDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a ReportDB in the specified directory.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*ReportDB, error) {
	dbPath := filepath.Join(dbDir, FileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// mode=rw refuses to create a missing file, mode=rwc allows it.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	rdb := &ReportDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := rdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return rdb, nil
}

// Path returns the path of the SQLite database file.
func (rdb *ReportDB) Path() string {
	return rdb.dbPath
}

// Close closes the database connection.
func (rdb *ReportDB) Close() error {
	return rdb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (rdb *ReportDB) createTables() error {
	schema := `
	-- Scans are jobs queued through the scans API
	CREATE TABLE IF NOT EXISTS scans (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		args TEXT NOT NULL,
		status TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_scans_status ON scans(status);

	-- Package reports hold the scored result for one package version
	CREATE TABLE IF NOT EXISTS package_reports (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		package TEXT NOT NULL,
		version TEXT NOT NULL,
		scored_at TEXT NOT NULL,
		score REAL,
		score_code TEXT,
		immediate_deps INTEGER DEFAULT 0,
		all_deps INTEGER DEFAULT 0,
		authors INTEGER DEFAULT 0,
		contributors INTEGER DEFAULT 0,
		direct_vulns INTEGER DEFAULT 0,
		indirect_vulns INTEGER DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_reports_package ON package_reports(package, version);
	CREATE INDEX IF NOT EXISTS idx_reports_scored_at ON package_reports(scored_at);
	`

	_, err := rdb.db.ExecContext(context.Background(), schema)
	return err
}

// ScanStatus is the lifecycle state of a scan.
// Transitions go queued -> started -> {succeeded, failed} and queued -> canceled.
type ScanStatus string

const (
	ScanQueued    ScanStatus = "queued"
	ScanStarted   ScanStatus = "started"
	ScanFailed    ScanStatus = "failed"
	ScanSucceeded ScanStatus = "succeeded"
	ScanCanceled  ScanStatus = "canceled"
)

// Scan represents a stored scan job.
type Scan struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	Args      []string   `json:"args"`
	Status    ScanStatus `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// CreateScan inserts a new queued scan and returns it.
func (rdb *ReportDB) CreateScan(ctx context.Context, name string, args []string) (*Scan, error) {
	if args == nil {
		args = []string{}
	}
	argsJSON, err := json.Marshal(args)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize scan args: %w", err)
	}

	now := time.Now().UTC().Truncate(time.Second)
	query := `
	INSERT INTO scans (name, args, status, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?)
	`

	result, err := rdb.db.ExecContext(ctx, query,
		name,
		string(argsJSON),
		string(ScanQueued),
		now.Format(timestampLayout),
		now.Format(timestampLayout),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert scan: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get scan id: %w", err)
	}

	return &Scan{
		ID:        id,
		Name:      name,
		Args:      args,
		Status:    ScanQueued,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// GetScan retrieves a scan by ID. It returns nil, nil when no scan exists.
func (rdb *ReportDB) GetScan(ctx context.Context, id int64) (*Scan, error) {
	query := `
	SELECT id, name, args, status, created_at, updated_at
	FROM scans
	WHERE id = ?
	`

	var scan Scan
	var argsJSON, status, createdAt, updatedAt string

	err := rdb.db.QueryRowContext(ctx, query, id).Scan(
		&scan.ID,
		&scan.Name,
		&argsJSON,
		&status,
		&createdAt,
		&updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get scan: %w", err)
	}

	if err := json.Unmarshal([]byte(argsJSON), &scan.Args); err != nil {
		return nil, fmt.Errorf("failed to parse scan args: %w", err)
	}
	scan.Status = ScanStatus(status)
	scan.CreatedAt = parseTimestamp(createdAt)
	scan.UpdatedAt = parseTimestamp(updatedAt)

	return &scan, nil
}

// PackageReport represents a scored report for one package version.
type PackageReport struct {
	ID            int64
	Package       string
	Version       string
	ScoredAt      time.Time
	Score         float64
	ScoreCode     string
	ImmediateDeps int
	AllDeps       int
	Authors       int
	Contributors  int
	DirectVulns   int
	IndirectVulns int
}

// SaveReport stores a package report and returns its database ID.
// A zero ScoredAt is replaced with the current time.
func (rdb *ReportDB) SaveReport(ctx context.Context, report *PackageReport) (int64, error) {
	if report.ScoredAt.IsZero() {
		report.ScoredAt = time.Now()
	}
	report.ScoredAt = report.ScoredAt.UTC().Truncate(time.Second)

	query := `
	INSERT INTO package_reports (package, version, scored_at, score, score_code,
		immediate_deps, all_deps, authors, contributors, direct_vulns, indirect_vulns)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := rdb.db.ExecContext(ctx, query,
		report.Package,
		report.Version,
		report.ScoredAt.Format(timestampLayout),
		report.Score,
		report.ScoreCode,
		report.ImmediateDeps,
		report.AllDeps,
		report.Authors,
		report.Contributors,
		report.DirectVulns,
		report.IndirectVulns,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to save package report: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get package report id: %w", err)
	}
	report.ID = id
	return id, nil
}

// LatestReport returns the most recently scored report for name@version that
// was scored after the given time. It returns nil, nil when none exists.
func (rdb *ReportDB) LatestReport(ctx context.Context, name, version string, scoredAfter time.Time) (*PackageReport, error) {
	query := `
	SELECT id, package, version, scored_at, score, score_code,
		immediate_deps, all_deps, authors, contributors, direct_vulns, indirect_vulns
	FROM package_reports
	WHERE package = ? AND version = ? AND scored_at > ?
	ORDER BY scored_at DESC, id DESC
	LIMIT 1
	`

	var report PackageReport
	var scoredAt string
	var score sql.NullFloat64
	var scoreCode sql.NullString

	err := rdb.db.QueryRowContext(ctx, query, name, version, scoredAfter.UTC().Format(timestampLayout)).Scan(
		&report.ID,
		&report.Package,
		&report.Version,
		&scoredAt,
		&score,
		&scoreCode,
		&report.ImmediateDeps,
		&report.AllDeps,
		&report.Authors,
		&report.Contributors,
		&report.DirectVulns,
		&report.IndirectVulns,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get package report: %w", err)
	}

	report.ScoredAt = parseTimestamp(scoredAt)
	report.Score = score.Float64
	report.ScoreCode = scoreCode.String

	return &report, nil
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	timestampLayout,
	"2006-01-02T15:04:05Z",
	"2006-01-02T15:04:05",
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999",
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
