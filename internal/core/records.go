package core

import (
	"context"
	"log/slog"
	"time"

	"github.com/JonMunkholm/resultstodb/internal/database"
)

// TransmissionRecord is one observed network exchange of an app release.
type TransmissionRecord struct {
	PackageName string
	VersionCode int64
	ReleaseID   int64

	Domain    string
	TLSSNI    string // may be empty
	IPAddress string
	Port      int32
	IsTLS     bool
	DataType  string
	Payload   string
	Timestamp time.Time
}

// Persist inserts the record.
func (r TransmissionRecord) Persist(ctx context.Context, q database.Querier) error {
	return q.InsertTransmission(ctx, database.InsertTransmissionParams{
		ReleaseID: r.ReleaseID,
		DataType:  r.DataType,
		Timestamp: r.Timestamp.Unix(),
		Domain:    r.Domain,
		TlsSni:    ToPgText(r.TLSSNI),
		IPAddress: r.IPAddress,
		Port:      r.Port,
		IsTls:     r.IsTLS,
		Payload:   r.Payload,
	})
}

// LogValue implements slog.LogValuer. The payload is summarised by length.
func (r TransmissionRecord) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("package_name", r.PackageName),
		slog.Int64("version_code", r.VersionCode),
		slog.String("domain", r.Domain),
		slog.String("tls_sni", r.TLSSNI),
		slog.String("ip_address", r.IPAddress),
		slog.Int("port", int(r.Port)),
		slog.Bool("is_tls", r.IsTLS),
		slog.String("data_type", r.DataType),
		slog.Int("payload_len", len(r.Payload)),
		slog.Int64("timestamp", r.Timestamp.Unix()),
	)
}

// PermissionRecord is one permission fact of an app release.
type PermissionRecord struct {
	PackageName string
	VersionCode int64
	ReleaseID   int64

	Permission string
	IsUsed     bool
	Timestamp  time.Time // UnsetTimestamp when IsUsed is false
}

// Persist inserts the record.
func (r PermissionRecord) Persist(ctx context.Context, q database.Querier) error {
	return q.InsertPermission(ctx, database.InsertPermissionParams{
		ReleaseID:  r.ReleaseID,
		Permission: r.Permission,
		Timestamp:  r.Timestamp.Unix(),
		IsUsed:     r.IsUsed,
	})
}

// LogValue implements slog.LogValuer.
func (r PermissionRecord) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("package_name", r.PackageName),
		slog.Int64("version_code", r.VersionCode),
		slog.String("permission", r.Permission),
		slog.Bool("is_used", r.IsUsed),
		slog.Int64("timestamp", r.Timestamp.Unix()),
	)
}
