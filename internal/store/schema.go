package store

const Schema = `
CREATE TABLE IF NOT EXISTS songs (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	artist TEXT NOT NULL DEFAULT '',
	album TEXT NOT NULL DEFAULT '',
	duration INTEGER NOT NULL DEFAULT 0,
	file_path TEXT NOT NULL,
	folder_path TEXT NOT NULL,
	format TEXT NOT NULL DEFAULT '',
	size INTEGER NOT NULL DEFAULT 0,
	artwork TEXT NOT NULL DEFAULT '',
	genre TEXT NOT NULL DEFAULT '',
	year INTEGER NOT NULL DEFAULT 0,
	lyrics TEXT NOT NULL DEFAULT '',
	added_date DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_songs_folder_path ON songs(folder_path);

CREATE TABLE IF NOT EXISTS favorites (
	id TEXT PRIMARY KEY,
	song_id TEXT UNIQUE NOT NULL,
	added_date DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS playlists (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	song_ids TEXT NOT NULL DEFAULT '[]',  -- JSON array
	created_date DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_date DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Single merged row, last writer wins
CREATE TABLE IF NOT EXISTS settings (
	id INTEGER PRIMARY KEY CHECK (id = 1),
	data TEXT NOT NULL,  -- JSON blob
	updated_date DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS play_history (
	id TEXT PRIMARY KEY,
	song_id TEXT NOT NULL,
	song_json TEXT NOT NULL DEFAULT '',
	played_date DATETIME DEFAULT CURRENT_TIMESTAMP,
	play_duration INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_play_history_played_date ON play_history(played_date);

CREATE TABLE IF NOT EXISTS status_checks (
	id TEXT PRIMARY KEY,
	client_name TEXT NOT NULL,
	timestamp DATETIME DEFAULT CURRENT_TIMESTAMP
);
`
