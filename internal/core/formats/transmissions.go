package formats

import (
	"context"

	"github.com/JonMunkholm/resultstodb/internal/core"
)

// Column positions in a packet file row.
const (
	txPackageName = iota
	txVersionCode
	txDomain
	txTLSSNI
	txIPAddress
	txPort
	txIsTLS
	txDataType
	txPayload
	txTimestamp
)

var transmissionFields = []core.FieldSpec{
	txPackageName: {Name: "packageName", Type: core.FieldText},
	txVersionCode: {Name: "versionCode", Type: core.FieldCount},
	txDomain:      {Name: "domain", Type: core.FieldText},
	txTLSSNI:      {Name: "tlsSni", Type: core.FieldText},
	txIPAddress:   {Name: "ipAddress", Type: core.FieldText},
	txPort:        {Name: "port", Type: core.FieldPort},
	txIsTLS:       {Name: "isTls", Type: core.FieldFlag},
	txDataType:    {Name: "dataType", Type: core.FieldText},
	txPayload:     {Name: "blob", Type: core.FieldText},
	txTimestamp:   {Name: "timestamp", Type: core.FieldLogTime},
}

// Transmissions returns the packet file format.
func Transmissions() core.Format {
	return core.Format{
		Info: core.FormatInfo{
			Kind:        KindTransmissions,
			Label:       "Transmissions",
			Description: "Network packets observed per app release (--packetfile)",
		},
		FieldSpecs: transmissionFields,
		Parse:      parseTransmission,
	}
}

func parseTransmission(ctx context.Context, row []string, st *core.RunState) (core.RowResult, error) {
	if err := core.CheckColumns(row, transmissionFields); err != nil {
		return core.RowResult{}, err
	}

	fr := core.NewFieldReader(row, transmissionFields, st.Now)
	rec := core.TransmissionRecord{
		PackageName: fr.Text(txPackageName),
		VersionCode: fr.Count(txVersionCode),
		Domain:      fr.Text(txDomain),
		TLSSNI:      fr.Text(txTLSSNI),
		IPAddress:   fr.Text(txIPAddress),
		Port:        fr.Port(txPort),
		IsTLS:       fr.Flag(txIsTLS),
		DataType:    fr.Text(txDataType),
		Payload:     fr.Text(txPayload),
		Timestamp:   fr.LogTime(txTimestamp),
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
