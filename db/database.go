package db

import (
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql" // MySQL driver

	"github.com/mojtabanasehzadeh/music-distribution-service/config"
	"github.com/mojtabanasehzadeh/music-distribution-service/logger"
)

var DB *sql.DB

// ConnectDB establishes a connection to the database.
func ConnectDB(cfg *config.Config) error {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true",
		cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName)

	var err error
	DB, err = sql.Open("mysql", dsn)
	if err != nil {
		return fmt.Errorf("failed to open database connection: %w", err)
	}

	if err = DB.Ping(); err != nil {
		DB.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("successfully connected to the database")
	return nil
}

// InitDB initializes the database schema, creating tables if they don't
// exist.
func InitDB() error {
	statements := []struct {
		name  string
		query string
	}{
		{"labels", `
	CREATE TABLE IF NOT EXISTS labels (
		id CHAR(36) PRIMARY KEY,
		name VARCHAR(255) NOT NULL UNIQUE
	);`},
		{"artists", `
	CREATE TABLE IF NOT EXISTS artists (
		id CHAR(36) PRIMARY KEY,
		name VARCHAR(255) NOT NULL UNIQUE,
		label_id CHAR(36) NOT NULL,
		CONSTRAINT fk_artist_label FOREIGN KEY (label_id) REFERENCES labels(id)
	);`},
		{"songs", `
	CREATE TABLE IF NOT EXISTS songs (
		id CHAR(36) PRIMARY KEY,
		title VARCHAR(255) NOT NULL,
		artist_id CHAR(36) NOT NULL,
		duration_seconds BIGINT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		CONSTRAINT fk_song_artist FOREIGN KEY (artist_id) REFERENCES artists(id)
	);`},
		{"releases", `
	CREATE TABLE IF NOT EXISTS releases (
		id CHAR(36) PRIMARY KEY,
		title VARCHAR(255) NOT NULL,
		artist_id CHAR(36) NOT NULL,
		proposed_date DATE NULL,
		approved_date DATE NULL,
		published_date DATE NULL,
		status VARCHAR(16) NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		CONSTRAINT fk_release_artist FOREIGN KEY (artist_id) REFERENCES artists(id)
	);`},
		{"release_songs", `
	CREATE TABLE IF NOT EXISTS release_songs (
		release_id CHAR(36) NOT NULL,
		song_id CHAR(36) NOT NULL,
		PRIMARY KEY (release_id, song_id),
		CONSTRAINT fk_rs_release FOREIGN KEY (release_id) REFERENCES releases(id),
		CONSTRAINT fk_rs_song FOREIGN KEY (song_id) REFERENCES songs(id)
	);`},
	}

	for _, stmt := range statements {
		if _, err := DB.Exec(stmt.query); err != nil {
			return fmt.Errorf("failed to create %s table: %w", stmt.name, err)
		}
	}

	logger.Info("database schema initialized")
	return nil
}
