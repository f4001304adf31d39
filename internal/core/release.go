package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/JonMunkholm/resultstodb/internal/database"
	"github.com/jackc/pgx/v5"
)

// ReleaseLookup finds the id of a registered release.
// Implementations return pgx.ErrNoRows when the release does not exist.
type ReleaseLookup interface {
	GetReleaseID(ctx context.Context, arg database.GetReleaseIDParams) (int64, error)
}

// ReleaseKey identifies one app build.
type ReleaseKey struct {
	PackageName string
	VersionCode int64
}

func (k ReleaseKey) String() string {
	return fmt.Sprintf("%s-%d", k.PackageName, k.VersionCode)
}

// ReleaseResolver maps app/version pairs to release ids, remembering only the
// most recent successful lookup. Input files are grouped by app/version, so a
// run of rows for the same release costs one query; interleaved input gets
// no benefit.
//
// A ReleaseResolver is not safe for concurrent use. Create one per file.
type ReleaseResolver struct {
	lookup ReleaseLookup

	last    ReleaseKey
	lastID  int64
	cached  bool
	lookups int
}

// NewReleaseResolver returns a resolver with an empty cache.
func NewReleaseResolver(lookup ReleaseLookup) *ReleaseResolver {
	return &ReleaseResolver{lookup: lookup}
}

// Resolve returns the release id for the package and version code.
//
// A release that does not exist yields an ErrReleaseNotFound error: the
// releases must be registered before their results are imported, so the
// caller should stop. Other lookup failures are returned wrapped. A failed
// lookup leaves the cache empty.
func (r *ReleaseResolver) Resolve(ctx context.Context, packageName string, versionCode int64) (int64, error) {
	key := ReleaseKey{PackageName: packageName, VersionCode: versionCode}
	if r.cached && key == r.last {
		return r.lastID, nil
	}

	r.cached = false
	r.lookups++

	id, err := r.lookup.GetReleaseID(ctx, database.GetReleaseIDParams{
		PackageName: packageName,
		VersionCode: versionCode,
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("%w: app-version %s was not found in the database", ErrReleaseNotFound, key)
	}
	if err != nil {
		return 0, fmt.Errorf("release lookup for %s: %w", key, err)
	}

	r.last, r.lastID, r.cached = key, id, true
	slog.Info("resolved release", "app_version", key.String(), "release_id", id)

	return id, nil
}

// Lookups returns how many times the external lookup was called.
func (r *ReleaseResolver) Lookups() int {
	return r.lookups
}
