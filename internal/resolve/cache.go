package resolve

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"time"
)

// sourceHash returns the SHA-256 hex digest of the annotated source text.
func sourceHash(annotated string) string {
	sum := sha256.Sum256([]byte(annotated))
	return hex.EncodeToString(sum[:])
}

// cacheGet returns a cached report, or nil on cache miss.
func cacheGet(db *sql.DB, hash, model string) (*Report, error) {
	var response string
	err := db.QueryRow(
		"SELECT response FROM resolutions WHERE source_hash = ? AND model = ? AND prompt_version = ?",
		hash, model, promptVersion,
	).Scan(&response)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var report Report
	if err := json.Unmarshal([]byte(response), &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// cachePut stores a report, replacing any previous entry for the key.
func cachePut(db *sql.DB, hash, model string, report *Report) error {
	response, err := json.Marshal(report)
	if err != nil {
		return err
	}
	_, err = db.Exec(
		"INSERT OR REPLACE INTO resolutions (source_hash, model, prompt_version, response, created_at) VALUES (?, ?, ?, ?, ?)",
		hash, model, promptVersion, string(response), time.Now().Unix(),
	)
	return err
}
