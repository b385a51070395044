package storage

import (
	"context"
	"database/sql"
)

type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

// Row values are stored as decimal strings.
type QuarterRow struct {
	ID         int64
	QuarterKey string
	Measure    string
	Values     [3]string
}

const upsertTotais = `
INSERT INTO quarter_totais (quarter_key, measure, total_local, total_fora, total_importado)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(quarter_key) DO UPDATE SET
    measure = excluded.measure,
    total_local = excluded.total_local,
    total_fora = excluded.total_fora,
    total_importado = excluded.total_importado,
    updated_at = CURRENT_TIMESTAMP
`

const upsertDetalhes = `
INSERT INTO quarter_detalhes (quarter_key, measure, total_sucata, total_beneficiamento, total_geral)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(quarter_key) DO UPDATE SET
    measure = excluded.measure,
    total_sucata = excluded.total_sucata,
    total_beneficiamento = excluded.total_beneficiamento,
    total_geral = excluded.total_geral,
    updated_at = CURRENT_TIMESTAMP
`

const getTotais = `
SELECT id, quarter_key, measure, total_local, total_fora, total_importado
FROM quarter_totais WHERE quarter_key = ?
`

const getDetalhes = `
SELECT id, quarter_key, measure, total_sucata, total_beneficiamento, total_geral
FROM quarter_detalhes WHERE quarter_key = ?
`

const insertSyncLog = `INSERT INTO sync_log (run_id, quarter_key) VALUES (?, ?)`

const countSyncLog = `SELECT COUNT(*) FROM sync_log WHERE quarter_key = ?`

func (q *Queries) UpsertTotais(ctx context.Context, r QuarterRow) error {
	_, err := q.db.ExecContext(ctx, upsertTotais, r.QuarterKey, r.Measure, r.Values[0], r.Values[1], r.Values[2])
	return err
}

func (q *Queries) UpsertDetalhes(ctx context.Context, r QuarterRow) error {
	_, err := q.db.ExecContext(ctx, upsertDetalhes, r.QuarterKey, r.Measure, r.Values[0], r.Values[1], r.Values[2])
	return err
}

func (q *Queries) GetTotais(ctx context.Context, key string) (QuarterRow, error) {
	return q.getRow(ctx, getTotais, key)
}

func (q *Queries) GetDetalhes(ctx context.Context, key string) (QuarterRow, error) {
	return q.getRow(ctx, getDetalhes, key)
}

func (q *Queries) getRow(ctx context.Context, query, key string) (QuarterRow, error) {
	var r QuarterRow
	err := q.db.QueryRowContext(ctx, query, key).Scan(&r.ID, &r.QuarterKey, &r.Measure, &r.Values[0], &r.Values[1], &r.Values[2])
	return r, err
}

func (q *Queries) InsertSyncLog(ctx context.Context, runID, key string) error {
	_, err := q.db.ExecContext(ctx, insertSyncLog, runID, key)
	return err
}

func (q *Queries) CountSyncLog(ctx context.Context, key string) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, countSyncLog, key).Scan(&n)
	return n, err
}
