package sqlite

// Schema DDL. Tables are created on first attach and kept across runs.
const (
	createSymbols = `CREATE TABLE IF NOT EXISTS symbols (
    name TEXT PRIMARY KEY,
    address INTEGER NOT NULL,
    updated_at TEXT NOT NULL
);`

	createOutcomes = `CREATE TABLE IF NOT EXISTS outcomes (
    outcome_id TEXT PRIMARY KEY,
    recorded_at TEXT NOT NULL,
    action INTEGER NOT NULL,
    class INTEGER NOT NULL,
    address INTEGER NOT NULL,
    data_value INTEGER NOT NULL,
    bytes_processed INTEGER NOT NULL,
    file_name TEXT NOT NULL DEFAULT ''
);`

	createBanks = `CREATE TABLE IF NOT EXISTS banks (
    bank INTEGER PRIMARY KEY,
    enabled INTEGER NOT NULL,
    updated_at TEXT NOT NULL
);`

	createOutcomesIndex = `CREATE INDEX IF NOT EXISTS idx_outcomes_recorded_at ON outcomes(recorded_at);`
)

var schema = []string{
	createSymbols,
	createOutcomes,
	createOutcomesIndex,
	createBanks,
}
