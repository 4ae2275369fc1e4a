package storage

// Schema creates the result table and its indexes.
const Schema = `
CREATE TABLE IF NOT EXISTS performance_results (
	id              INTEGER PRIMARY KEY AUTOINCREMENT,
	calculation_id  TEXT    NOT NULL DEFAULT '',
	timestamp       TEXT    NOT NULL,
	lower_bound     INTEGER NOT NULL,
	upper_bound     INTEGER NOT NULL,
	processing_mode TEXT    NOT NULL,
	execution_time  REAL    NOT NULL,
	cpu_time        REAL    NOT NULL,
	memory_usage    REAL    NOT NULL,
	cpu_utilization REAL    NOT NULL,
	result_value    REAL    NOT NULL,
	cores_used      INTEGER NOT NULL DEFAULT 1,
	created_at      TEXT    NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_results_timestamp ON performance_results(timestamp);
CREATE INDEX IF NOT EXISTS idx_results_lower ON performance_results(lower_bound);
CREATE INDEX IF NOT EXISTS idx_results_upper ON performance_results(upper_bound);
CREATE INDEX IF NOT EXISTS idx_results_mode ON performance_results(processing_mode);
`
