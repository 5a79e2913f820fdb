// Package store persists scraped opposition records to SQLite so repeated
// runs against the same proceedings can reuse earlier results.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/joelkehle/opposition-research/internal/opposition"
)

// Archive stores opposition records and batch analyses keyed by their
// identifiers. Writes use INSERT OR REPLACE so a re-scrape overwrites the
// earlier snapshot.
type Archive struct {
	db *sqlx.DB
}

const archiveSchema = `
CREATE TABLE IF NOT EXISTS oppositions (
	opposition_number TEXT PRIMARY KEY,
	plaintiff         TEXT NOT NULL DEFAULT '',
	defendant         TEXT NOT NULL DEFAULT '',
	outcome           TEXT NOT NULL DEFAULT '',
	filing_date       TEXT NOT NULL DEFAULT '',
	termination_date  TEXT NOT NULL DEFAULT '',
	record            TEXT NOT NULL,
	scraped_at        TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS analyses (
	opposition_number TEXT NOT NULL,
	company_name      TEXT NOT NULL,
	gvkey             TEXT NOT NULL DEFAULT '',
	analysis          TEXT NOT NULL,
	scraped_at        TEXT NOT NULL,
	PRIMARY KEY (opposition_number, company_name)
);
`

func Open(dbPath string) (*Archive, error) {
	db, err := sqlx.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(archiveSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Archive{db: db}, nil
}

func (a *Archive) Close() error {
	return a.db.Close()
}

// SaveRecord stores one scraped opposition, replacing any earlier snapshot
// for the same proceeding number.
func (a *Archive) SaveRecord(rec opposition.Record) error {
	body, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}
	_, err = a.db.Exec(`INSERT OR REPLACE INTO oppositions
		(opposition_number, plaintiff, defendant, outcome, filing_date, termination_date, record, scraped_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.OppositionNumber,
		rec.PlaintiffName,
		rec.DefendantName,
		rec.Outcome,
		rec.FilingDate,
		rec.TerminationDate,
		string(body),
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	return err
}

// LoadRecord retrieves a previously stored opposition. The second return is
// false when the proceeding has not been scraped yet.
func (a *Archive) LoadRecord(number string) (opposition.Record, bool, error) {
	var body string
	err := a.db.QueryRow(`SELECT record FROM oppositions WHERE opposition_number = ?`, number).Scan(&body)
	if err == sql.ErrNoRows {
		return opposition.Record{}, false, nil
	}
	if err != nil {
		return opposition.Record{}, false, err
	}
	var rec opposition.Record
	if err := json.Unmarshal([]byte(body), &rec); err != nil {
		return opposition.Record{}, false, fmt.Errorf("unmarshal record %s: %w", number, err)
	}
	return rec, true, nil
}

// ListRecords returns every stored opposition, newest scrape first.
func (a *Archive) ListRecords() ([]opposition.Record, error) {
	rows, err := a.db.Query(`SELECT record FROM oppositions ORDER BY scraped_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []opposition.Record
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, err
		}
		var rec opposition.Record
		if err := json.Unmarshal([]byte(body), &rec); err != nil {
			return nil, fmt.Errorf("unmarshal record: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// SaveAnalysis stores one company-level analysis row.
func (a *Archive) SaveAnalysis(an opposition.Analysis) error {
	body, err := json.Marshal(an)
	if err != nil {
		return fmt.Errorf("marshal analysis: %w", err)
	}
	_, err = a.db.Exec(`INSERT OR REPLACE INTO analyses
		(opposition_number, company_name, gvkey, analysis, scraped_at)
		VALUES (?, ?, ?, ?, ?)`,
		an.OppositionNumber,
		an.CompanyName,
		an.GVKey,
		string(body),
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	return err
}

// ListAnalyses returns every stored analysis row for a company.
func (a *Archive) ListAnalyses(companyName string) ([]opposition.Analysis, error) {
	rows, err := a.db.Query(`SELECT analysis FROM analyses WHERE company_name = ? ORDER BY opposition_number`, companyName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []opposition.Analysis
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, err
		}
		var an opposition.Analysis
		if err := json.Unmarshal([]byte(body), &an); err != nil {
			return nil, fmt.Errorf("unmarshal analysis: %w", err)
		}
		out = append(out, an)
	}
	return out, rows.Err()
}
