package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS simulation_cache (
	cache_key  TEXT PRIMARY KEY,
	payload    BLOB NOT NULL,
	stored_at  INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_simulation_cache_stored_at ON simulation_cache(stored_at);
`
