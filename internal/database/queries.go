package database

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
)

// DBTX is the interface for database operations.
// Satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// Querier is the set of statements the importer runs.
type Querier interface {
	GetReleaseID(ctx context.Context, arg GetReleaseIDParams) (int64, error)
	InsertTransmission(ctx context.Context, arg InsertTransmissionParams) error
	InsertPermission(ctx context.Context, arg InsertPermissionParams) error
}

// New returns Queries bound to db.
func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// Queries runs the importer's statements against a pool or transaction.
type Queries struct {
	db DBTX
}

var _ Querier = (*Queries)(nil)

const getReleaseID = `-- name: GetReleaseID :one
SELECT r.id
FROM releases r
JOIN apps a ON a.id = r.app_id
WHERE a.package_name = $1 AND r.version_code = $2
`

type GetReleaseIDParams struct {
	PackageName string
	VersionCode int64
}

// GetReleaseID returns pgx.ErrNoRows when the release was never registered.
func (q *Queries) GetReleaseID(ctx context.Context, arg GetReleaseIDParams) (int64, error) {
	row := q.db.QueryRow(ctx, getReleaseID, arg.PackageName, arg.VersionCode)
	var id int64
	err := row.Scan(&id)
	return id, err
}

const insertTransmission = `-- name: InsertTransmission :exec
INSERT INTO transmissions (
    release_id,
    data_type,
    timestamp,
    domain,
    tls_sni,
    ip_address,
    port,
    is_tls,
    payload
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
`

type InsertTransmissionParams struct {
	ReleaseID int64
	DataType  string
	Timestamp int64 // seconds since the Unix epoch
	Domain    string
	TlsSni    pgtype.Text
	IPAddress string
	Port      int32
	IsTls     bool
	Payload   string
}

func (q *Queries) InsertTransmission(ctx context.Context, arg InsertTransmissionParams) error {
	_, err := q.db.Exec(ctx, insertTransmission,
		arg.ReleaseID,
		arg.DataType,
		arg.Timestamp,
		arg.Domain,
		arg.TlsSni,
		arg.IPAddress,
		arg.Port,
		arg.IsTls,
		arg.Payload,
	)
	return err
}

const insertPermission = `-- name: InsertPermission :exec
INSERT INTO permissions (
    release_id,
    permission,
    timestamp,
    is_used
) VALUES ($1, $2, $3, $4)
`

type InsertPermissionParams struct {
	ReleaseID  int64
	Permission string
	Timestamp  int64 // 0 when the permission was never used
	IsUsed     bool
}

func (q *Queries) InsertPermission(ctx context.Context, arg InsertPermissionParams) error {
	_, err := q.db.Exec(ctx, insertPermission,
		arg.ReleaseID,
		arg.Permission,
		arg.Timestamp,
		arg.IsUsed,
	)
	return err
}
