package articles

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

// Custom errors for article storage
var (
	ErrArticleNotFound   = errors.New("article not found")
	ErrUnsupportedDriver = errors.New("database driver must be sqlite3 or mysql")
	ErrMissingArticleURL = errors.New("article url is empty")
)

// Supported database drivers.
const (
	DriverSQLite = "sqlite3"
	DriverMySQL  = "mysql"
)

// dialect holds the statements that differ between drivers.
type dialect struct {
	createTable string
}

var dialects = map[string]dialect{
	DriverSQLite: {
		createTable: `
		CREATE TABLE articles (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			title TEXT,
			author TEXT,
			date TEXT,
			url TEXT UNIQUE,
			content TEXT,
			run_id TEXT,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
		`,
	},
	DriverMySQL: {
		createTable: `
		CREATE TABLE articles (
			id INT NOT NULL AUTO_INCREMENT PRIMARY KEY,
			title TEXT,
			author VARCHAR(64),
			date VARCHAR(16),
			url VARCHAR(255) UNIQUE,
			content MEDIUMTEXT,
			run_id VARCHAR(36),
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		) DEFAULT CHARSET=utf8mb4;
		`,
	},
}

// Both SQLite and MySQL accept REPLACE INTO, which deletes any row holding the
// same url before inserting.
const upsertQuery = `
	REPLACE INTO articles (title, author, date, url, content, run_id)
	VALUES (?, ?, ?, ?, ?, ?)
`

const selectColumns = "title, author, date, url, content, run_id, created_at"

// Store persists articles keyed by url.
type Store struct {
	db      *sql.DB
	dialect dialect
	logger  *zap.Logger
}

// NewStore opens a store using the given driver and DSN. For SQLite the DSN
// is a file path. A nil logger is replaced with a no-op logger.
func NewStore(driver, dsn string, logger *zap.Logger) (*Store, error) {
	d, ok := dialects[driver]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, driver)
	}

	if driver == DriverMySQL {
		var err error
		dsn, err = mysqlDSN(dsn)
		if err != nil {
			return nil, err
		}
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return &Store{db: db, dialect: d, logger: logger}, nil
}

// mysqlDSN forces parseTime so created_at scans into time.Time.
func mysqlDSN(dsn string) (string, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", fmt.Errorf("invalid mysql dsn: %w", err)
	}
	cfg.ParseTime = true
	return cfg.FormatDSN(), nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Reset drops the articles table and creates it again. Storage does not carry
// over between runs.
func (s *Store) Reset(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DROP TABLE IF EXISTS articles"); err != nil {
		return fmt.Errorf("failed to drop articles table: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, s.dialect.createTable); err != nil {
		return fmt.Errorf("failed to create articles table: %w", err)
	}

	s.logger.Info("articles table initialized")
	return nil
}

// Save upserts every article with content in a single transaction. Either the
// whole batch commits or none of it does.
func (s *Store) Save(ctx context.Context, runID string, items []Article) error {
	items = WithContent(items)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, upsertQuery)
	if err != nil {
		return fmt.Errorf("failed to prepare upsert: %w", err)
	}
	defer stmt.Close()

	for _, item := range items {
		if item.URL == "" {
			return fmt.Errorf("%w: %q", ErrMissingArticleURL, item.Title)
		}
		_, err := stmt.ExecContext(ctx,
			item.Title,
			item.Author,
			item.Date,
			item.URL,
			item.Content,
			runID,
		)
		if err != nil {
			return fmt.Errorf("failed to save article %s: %w", item.URL, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit articles: %w", err)
	}

	s.logger.Info("saved articles",
		zap.Int("count", len(items)),
		zap.String("run_id", runID),
	)
	return nil
}

// Get retrieves the article stored under url.
func (s *Store) Get(ctx context.Context, url string) (*Article, error) {
	query := "SELECT " + selectColumns + " FROM articles WHERE url = ?"

	item, err := scanArticle(s.db.QueryRowContext(ctx, query, url))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrArticleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query article: %w", err)
	}

	return item, nil
}

// List returns every stored article in insertion order.
func (s *Store) List(ctx context.Context) ([]Article, error) {
	query := "SELECT " + selectColumns + " FROM articles ORDER BY id"

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query articles: %w", err)
	}
	defer rows.Close()

	var items []Article
	for rows.Next() {
		item, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan article: %w", err)
		}
		items = append(items, *item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate articles: %w", err)
	}

	return items, nil
}

// Count returns the number of stored articles.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM articles").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count articles: %w", err)
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanArticle(row rowScanner) (*Article, error) {
	var (
		item      Article
		runID     sql.NullString
		createdAt sql.NullTime
	)

	err := row.Scan(
		&item.Title,
		&item.Author,
		&item.Date,
		&item.URL,
		&item.Content,
		&runID,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	item.RunID = runID.String
	if createdAt.Valid {
		item.CreatedAt = createdAt.Time
	}

	return &item, nil
}
