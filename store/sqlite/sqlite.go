/*
Package sqlite provides a SQLite-backed roster.Store.

PURPOSE:
  Same contract as store.Memory, with the roster and run history held in
  SQLite tables so they can be inspected with SQL while the process runs.

IN-MEMORY ONLY:
  The database is always opened as ":memory:" with a single pooled
  connection (every new :memory: connection would be a fresh, empty
  database). Nothing outlives the process.

KEY TABLES:
  employees:       the last fetched roster, keyed by employee id
  runs:            one row per calculation run
  derived_records: derived output per run, in feed order

NUMBERS:
  Derived amounts are stored as TEXT via strconv so NaN and ±Inf round-trip;
  SQLite REAL would turn NaN into NULL.

USAGE:
  store, err := sqlite.New()
  if err != nil {
      return err
  }
  defer store.Close()

SEE ALSO:
  - roster/store.go: interface definition
  - store/memory.go: map-backed implementation
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"strconv"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/warp/pvf-engine/pvf"
	"github.com/warp/pvf-engine/roster"
)

// Store implements roster.Store on an in-memory SQLite database.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

var _ roster.Store = (*Store)(nil)

// New opens a private in-memory database and creates the schema.
func New() (*Store, error) {
	db, err := sql.Open("sqlite3", ":memory:?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection, discarding its contents.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS employees (
		employee_id INTEGER PRIMARY KEY,
		first_name TEXT NOT NULL,
		last_name TEXT NOT NULL,
		birth_date TEXT NOT NULL,
		start_date TEXT NOT NULL,
		employee_type TEXT NOT NULL,
		salary TEXT NOT NULL,
		pvf_rate TEXT
	);

	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		seq INTEGER NOT NULL UNIQUE,
		as_of TEXT NOT NULL,
		min_months INTEGER NOT NULL,
		bond_rate_percent TEXT NOT NULL,
		computed INTEGER NOT NULL,
		skipped INTEGER NOT NULL,
		warnings INTEGER NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS derived_records (
		run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		employee_id INTEGER NOT NULL,
		first_name TEXT NOT NULL,
		last_name TEXT NOT NULL,
		birth_date TEXT NOT NULL,
		start_date TEXT NOT NULL,
		employee_type TEXT NOT NULL,
		salary TEXT NOT NULL,
		pvf_rate TEXT,
		age INTEGER NOT NULL,
		working_years TEXT NOT NULL,
		company_contribution TEXT NOT NULL,
		company_contribution_after_left TEXT NOT NULL,
		pvf_accumulated TEXT NOT NULL,
		income_grov_bound TEXT NOT NULL,
		PRIMARY KEY (run_id, position)
	);

	CREATE INDEX IF NOT EXISTS idx_derived_run_employee
		ON derived_records(run_id, employee_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// EMPLOYEES
// =============================================================================

// SaveEmployees replaces the roster atomically.
func (s *Store) SaveEmployees(ctx context.Context, records []pvf.EmployeeRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM employees"); err != nil {
		return fmt.Errorf("failed to clear employees: %w", err)
	}

	query := `
		INSERT INTO employees
		(employee_id, first_name, last_name, birth_date, start_date, employee_type, salary, pvf_rate)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(employee_id) DO UPDATE SET
			first_name = excluded.first_name,
			last_name = excluded.last_name,
			birth_date = excluded.birth_date,
			start_date = excluded.start_date,
			employee_type = excluded.employee_type,
			salary = excluded.salary,
			pvf_rate = excluded.pvf_rate
	`
	for _, r := range records {
		if !r.IsValid() {
			continue
		}
		_, err := tx.ExecContext(ctx, query,
			r.EmployeeID, r.FirstName, r.LastName, r.BirthDate, r.StartDate, r.EmployeeType,
			formatFloat(r.Salary), nullFloat(r.PvfRate),
		)
		if err != nil {
			return fmt.Errorf("failed to save employee %d: %w", r.EmployeeID, err)
		}
	}

	return tx.Commit()
}

// ListEmployees returns the roster ordered by id.
func (s *Store) ListEmployees(ctx context.Context) ([]pvf.EmployeeRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT employee_id, first_name, last_name, birth_date, start_date, employee_type, salary, pvf_rate
		FROM employees ORDER BY employee_id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query employees: %w", err)
	}
	defer rows.Close()

	var records []pvf.EmployeeRecord
	for rows.Next() {
		r, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// GetEmployee retrieves one roster entry.
func (s *Store) GetEmployee(ctx context.Context, id int64) (*pvf.EmployeeRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT employee_id, first_name, last_name, birth_date, start_date, employee_type, salary, pvf_rate
		FROM employees WHERE employee_id = ?
	`, id)

	r, err := scanEmployee(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEmployee(row scanner) (pvf.EmployeeRecord, error) {
	var (
		r       pvf.EmployeeRecord
		salary  string
		pvfRate sql.NullString
	)
	err := row.Scan(&r.EmployeeID, &r.FirstName, &r.LastName, &r.BirthDate, &r.StartDate,
		&r.EmployeeType, &salary, &pvfRate)
	if err != nil {
		if err == sql.ErrNoRows {
			return r, err
		}
		return r, fmt.Errorf("failed to scan employee: %w", err)
	}
	r.Salary = parseFloat(salary)
	r.PvfRate = parseNullFloat(pvfRate)
	return r, nil
}

// =============================================================================
// RUNS
// =============================================================================

// SaveRun stores a run and its non-empty derived records in one transaction.
func (s *Store) SaveRun(ctx context.Context, run roster.Run, derived []pvf.DerivedRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs
		(id, seq, as_of, min_months, bond_rate_percent, computed, skipped, warnings, created_at)
		VALUES (?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM runs), ?, ?, ?, ?, ?, ?, ?)
	`,
		run.ID,
		run.AsOf.Format(time.RFC3339),
		run.MinMonths,
		formatFloat(run.BondRatePercent),
		run.Computed, run.Skipped, run.Warnings,
		run.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}

	query := `
		INSERT INTO derived_records
		(run_id, position, employee_id, first_name, last_name, birth_date, start_date, employee_type,
		 salary, pvf_rate, age, working_years, company_contribution, company_contribution_after_left,
		 pvf_accumulated, income_grov_bound)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	position := 0
	for _, d := range derived {
		if d.IsEmpty() {
			continue
		}
		_, err := tx.ExecContext(ctx, query,
			run.ID, position, d.EmployeeID, d.FirstName, d.LastName, d.BirthDate, d.StartDate, d.EmployeeType,
			formatFloat(d.Salary), nullFloat(d.PvfRate), d.Age,
			formatNumber(d.WorkingYearAccumulated),
			formatNumber(d.CompanyContribution),
			formatNumber(d.CompanyContributionAfterLeft),
			formatNumber(d.PvfAccumulated),
			formatNumber(d.IncomeGrovBound),
		)
		if err != nil {
			return fmt.Errorf("failed to save derived record %d: %w", d.EmployeeID, err)
		}
		position++
	}

	return tx.Commit()
}

const runColumns = `id, as_of, min_months, bond_rate_percent, computed, skipped, warnings, created_at`

// LatestRun returns the most recent run, or nil when none exists.
func (s *Store) LatestRun(ctx context.Context) (*roster.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	runs, err := s.queryRuns(ctx, "SELECT "+runColumns+" FROM runs ORDER BY seq DESC LIMIT 1")
	if err != nil || len(runs) == 0 {
		return nil, err
	}
	return &runs[0], nil
}

// ListRuns returns runs, newest first.
func (s *Store) ListRuns(ctx context.Context) ([]roster.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.queryRuns(ctx, "SELECT "+runColumns+" FROM runs ORDER BY seq DESC")
}

func (s *Store) queryRuns(ctx context.Context, query string, args ...any) ([]roster.Run, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []roster.Run
	for rows.Next() {
		var (
			run                      roster.Run
			asOf, bondRate, createdAt string
		)
		if err := rows.Scan(&run.ID, &asOf, &run.MinMonths, &bondRate,
			&run.Computed, &run.Skipped, &run.Warnings, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		run.AsOf, _ = time.Parse(time.RFC3339, asOf)
		run.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		run.BondRatePercent = parseFloat(bondRate)
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// =============================================================================
// DERIVED RECORDS
// =============================================================================

const derivedColumns = `
	employee_id, first_name, last_name, birth_date, start_date, employee_type, salary, pvf_rate,
	age, working_years, company_contribution, company_contribution_after_left,
	pvf_accumulated, income_grov_bound
`

// ListDerived returns a run's derived records in feed order.
func (s *Store) ListDerived(ctx context.Context, runID string) ([]pvf.DerivedRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT "+derivedColumns+" FROM derived_records WHERE run_id = ? ORDER BY position",
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query derived records: %w", err)
	}
	defer rows.Close()

	records := []pvf.DerivedRecord{}
	for rows.Next() {
		d, err := scanDerived(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, d)
	}
	return records, rows.Err()
}

// GetDerived returns one employee's derived record, or nil.
func (s *Store) GetDerived(ctx context.Context, runID string, employeeID int64) (*pvf.DerivedRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		"SELECT "+derivedColumns+" FROM derived_records WHERE run_id = ? AND employee_id = ? ORDER BY position LIMIT 1",
		runID, employeeID,
	)
	d, err := scanDerived(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func scanDerived(row scanner) (pvf.DerivedRecord, error) {
	var (
		d                                            pvf.DerivedRecord
		salary                                       string
		pvfRate                                      sql.NullString
		years, contribution, afterLeft, accrued, inc string
	)
	err := row.Scan(
		&d.EmployeeID, &d.FirstName, &d.LastName, &d.BirthDate, &d.StartDate, &d.EmployeeType,
		&salary, &pvfRate, &d.Age, &years, &contribution, &afterLeft, &accrued, &inc,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return d, err
		}
		return d, fmt.Errorf("failed to scan derived record: %w", err)
	}

	d.Salary = parseFloat(salary)
	d.PvfRate = parseNullFloat(pvfRate)
	d.WorkingYearAccumulated = pvf.Number(parseFloat(years))
	d.CompanyContribution = pvf.Number(parseFloat(contribution))
	d.CompanyContributionAfterLeft = pvf.Number(parseFloat(afterLeft))
	d.PvfAccumulated = pvf.Number(parseFloat(accrued))
	d.IncomeGrovBound = pvf.Number(parseFloat(inc))
	return d, nil
}

// =============================================================================
// UTILITIES
// =============================================================================

// Reset clears all data.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tables := []string{"derived_records", "runs", "employees"}
	for _, table := range tables {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func formatNumber(n pvf.Number) string {
	return formatFloat(float64(n))
}

// parseFloat accepts what formatFloat writes, including NaN and ±Inf.
func parseFloat(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return f
}

func nullFloat(f *float64) sql.NullString {
	if f == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: formatFloat(*f), Valid: true}
}

func parseNullFloat(s sql.NullString) *float64 {
	if !s.Valid {
		return nil
	}
	f := parseFloat(s.String)
	return &f
}
