package repos

import (
	"github.com/architeacher/records/services/svc-records/internal/domain/model"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
)

type (
	// Scanner turns result rows into records keyed by column name.
	Scanner interface {
		ScanRecords(rows pgx.Rows, relations []string) ([]model.Record, error)
		ScanRecord(rows pgx.Rows, relations []string) (model.Record, error)
		IsNotFound(err error) bool
	}

	// PgxScanner implements Scanner using pgxscan.
	PgxScanner struct{}
)

func NewPgxScanner() *PgxScanner {
	return &PgxScanner{}
}

// ScanRecords scans every row and nests joined relation columns.
func (s *PgxScanner) ScanRecords(rows pgx.Rows, relations []string) ([]model.Record, error) {
	var raw []map[string]any
	if err := pgxscan.ScanAll(&raw, rows); err != nil {
		return nil, err
	}

	records := make([]model.Record, 0, len(raw))
	for _, row := range raw {
		records = append(records, model.NestRelations(row, relations))
	}

	return records, nil
}

// ScanRecord scans exactly one row; zero rows yields an error satisfying IsNotFound.
func (s *PgxScanner) ScanRecord(rows pgx.Rows, relations []string) (model.Record, error) {
	var raw map[string]any
	if err := pgxscan.ScanOne(&raw, rows); err != nil {
		return nil, err
	}

	return model.NestRelations(raw, relations), nil
}

func (s *PgxScanner) IsNotFound(err error) bool {
	return pgxscan.NotFound(err)
}
