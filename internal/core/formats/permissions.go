package formats

import (
	"context"

	"github.com/JonMunkholm/resultstodb/internal/core"
)

// Column positions in a permission file row.
const (
	permPackageName = iota
	permVersionCode
	permPermission
	permIsUsed
	permTimestamp
)

var permissionFields = []core.FieldSpec{
	permPackageName: {Name: "packageName", Type: core.FieldText},
	permVersionCode: {Name: "versionCode", Type: core.FieldCount},
	permPermission:  {Name: "permission", Type: core.FieldText},
	permIsUsed:      {Name: "isUsed", Type: core.FieldFlag},
	permTimestamp:   {Name: "timestamp", Type: core.FieldLogTime},
}

// Permissions returns the permission file format.
func Permissions() core.Format {
	return core.Format{
		Info: core.FormatInfo{
			Kind:        KindPermissions,
			Label:       "Permissions",
			Description: "Permission usage per app release (--permfile)",
		},
		FieldSpecs: permissionFields,
		Parse:      parsePermission,
	}
}

// parsePermission reads the timestamp column only for used permissions.
// Unused permissions carry a placeholder there and get UnsetTimestamp.
func parsePermission(ctx context.Context, row []string, st *core.RunState) (core.RowResult, error) {
	if err := core.CheckColumns(row, permissionFields); err != nil {
		return core.RowResult{}, err
	}

	fr := core.NewFieldReader(row, permissionFields, st.Now)
	rec := core.PermissionRecord{
		PackageName: fr.Text(permPackageName),
		VersionCode: fr.Count(permVersionCode),
		Permission:  fr.Text(permPermission),
		IsUsed:      fr.Flag(permIsUsed),
		Timestamp:   core.UnsetTimestamp,
	}
	if rec.IsUsed {
		rec.Timestamp = fr.LogTime(permTimestamp)
	}
	if verr := fr.Err(); verr != nil {
		return core.Skip(verr), nil
	}

	id, err := st.Releases.Resolve(ctx, rec.PackageName, rec.VersionCode)
	if err != nil {
		return core.RowResult{}, err
	}
	rec.ReleaseID = id

	return core.Accept(rec), nil
}
