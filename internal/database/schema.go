package database

import (
	"context"
	"database/sql"
)

// schema lists idempotent DDL statements executed at startup, in dependency
// order.  Events reference locations so that pruning a location can cascade
// to its events.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		username      VARCHAR(64)  NOT NULL UNIQUE,
		email         VARCHAR(255) NOT NULL DEFAULT '',
		password_hash VARCHAR(100) NOT NULL,
		role          VARCHAR(16)  NOT NULL DEFAULT 'user',
		created_at    TIMESTAMP    NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at    TIMESTAMP    NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS locations (
		id             BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		venue_id       VARCHAR(32)  NOT NULL UNIQUE,
		name           VARCHAR(255) NOT NULL,
		description    TEXT,
		latitude       DOUBLE       NOT NULL,
		longitude      DOUBLE       NOT NULL,
		event_count    INT          NOT NULL DEFAULT 0,
		favorite_count INT          NOT NULL DEFAULT 0,
		last_updated   TIMESTAMP    NOT NULL DEFAULT CURRENT_TIMESTAMP,
		created_at     TIMESTAMP    NOT NULL DEFAULT CURRENT_TIMESTAMP,
		INDEX idx_locations_name (name),
		INDEX idx_locations_coords (latitude, longitude)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS events (
		id          BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		location_id BIGINT UNSIGNED NOT NULL,
		event_id    VARCHAR(32)  NOT NULL,
		title       VARCHAR(512) NOT NULL,
		date        VARCHAR(255) NOT NULL,
		description TEXT,
		presenter   VARCHAR(512) NOT NULL DEFAULT '',
		price       VARCHAR(255) NOT NULL DEFAULT 'Free',
		age_limit   VARCHAR(255) NOT NULL DEFAULT 'All ages',
		url         VARCHAR(1024) NOT NULL DEFAULT '',
		created_at  TIMESTAMP    NOT NULL DEFAULT CURRENT_TIMESTAMP,
		INDEX idx_events_event_id (event_id),
		INDEX idx_events_location (location_id),
		CONSTRAINT fk_events_location FOREIGN KEY (location_id)
			REFERENCES locations (id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS likes (
		id          BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		user_id     BIGINT UNSIGNED NOT NULL,
		location_id BIGINT UNSIGNED NOT NULL,
		created_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE KEY uk_likes_user_location (user_id, location_id),
		CONSTRAINT fk_likes_user FOREIGN KEY (user_id)
			REFERENCES users (id) ON DELETE CASCADE,
		CONSTRAINT fk_likes_location FOREIGN KEY (location_id)
			REFERENCES locations (id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// EnsureSchema creates the application tables when they do not exist yet.
// It is safe to run on every startup.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
