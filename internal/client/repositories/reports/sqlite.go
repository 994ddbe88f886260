package reports

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/alcancesol/internal/client/models"
	"github.com/dmitrijs2005/alcancesol/internal/common"
	"github.com/dmitrijs2005/alcancesol/internal/dbx"
)

// SQLiteRepository implements Repository on the reports table.
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

const reportColumns = `id, timestamp, nome, motivo, contato_alternativo, mensagem, content, status`

// Put upserts a report by id.
func (r *SQLiteRepository) Put(ctx context.Context, rep *models.Report) error {
	query := `INSERT INTO reports (` + reportColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			timestamp = excluded.timestamp,
			nome = excluded.nome,
			motivo = excluded.motivo,
			contato_alternativo = excluded.contato_alternativo,
			mensagem = excluded.mensagem,
			content = excluded.content,
			status = excluded.status`

	_, err := r.db.ExecContext(ctx, query,
		rep.ID, rep.Timestamp, rep.ReporterName, rep.ReasonLabel,
		rep.AlternateContact, rep.Message, rep.Content, string(rep.Status))
	if err != nil {
		return fmt.Errorf("failed to upsert report: %w", err)
	}
	return nil
}

// Get returns a single report.
func (r *SQLiteRepository) Get(ctx context.Context, id string) (*models.Report, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+reportColumns+` FROM reports WHERE id = ?`, id)

	rep, err := scanReport(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("report %s: %w", id, common.ErrorNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query row scan failed: %w", err)
	}
	return rep, nil
}

// ListByTimestamp scans the timestamp index in ascending order.
func (r *SQLiteRepository) ListByTimestamp(ctx context.Context) ([]*models.Report, error) {
	query := `SELECT ` + reportColumns + ` FROM reports ORDER BY timestamp ASC, id ASC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select reports: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Report, 0)
	for rows.Next() {
		rep, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, rep)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Delete removes a report. Zero affected rows is fine.
func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM reports WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete report: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanReport(s scanner) (*models.Report, error) {
	var (
		rep    models.Report
		status string
	)
	err := s.Scan(&rep.ID, &rep.Timestamp, &rep.ReporterName, &rep.ReasonLabel,
		&rep.AlternateContact, &rep.Message, &rep.Content, &status)
	if err != nil {
		return nil, err
	}
	rep.Status = models.ReportStatus(status)
	return &rep, nil
}
