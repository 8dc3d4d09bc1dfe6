package dcmio

import (
	"bytes"
	"encoding/binary"
	"math"
	"os"
	"path/filepath"

	"github.com/GoogleCloudPlatform/go-dicom-parser/dicom"

	"dicomresidue/internal/models"
)

// PersistOptions control how the residue output file is written.
type PersistOptions struct {
	// Overwrite replaces an existing output file. When false, a
	// pre-existing file at the destination is a WriteError. The default
	// configuration overwrites so that reruns are idempotent.
	Overwrite bool

	// RedactPatientTags blanks identifying tags in the output metadata
	RedactPatientTags bool
}

// Persist writes the residue volume as a DICOM file named name inside
// dir, creating dir if it does not exist. The output metadata is derived
// from the volume's source dataset; pixel values are clamped to the
// signed 16-bit range and stored as two's complement little-endian words.
//
// The file is fully encoded in memory before anything touches the
// filesystem, so a failed run never leaves a partial output behind.
// Persist returns the path of the written file.
func Persist(r *models.ResidueVolume, dir, name string, opts PersistOptions) (string, error) {
	path := filepath.Join(dir, name)

	if r.Source == nil || r.Source.Meta == nil {
		return "", &WriteError{Path: path, Reason: "residue volume has no source metadata"}
	}
	if len(r.Data) != r.Rows*r.Cols {
		return "", &WriteError{Path: path, Reason: "pixel data length does not match Rows*Columns"}
	}
	if !opts.Overwrite {
		if _, err := os.Stat(path); err == nil {
			return "", &WriteError{Path: path, Reason: "output already exists and overwrite is disabled"}
		}
	}

	out := DeriveMetadata(r.Source.Meta, Overrides{
		Rows:              r.Rows,
		Cols:              r.Cols,
		RedactPatientTags: opts.RedactPatientTags,
	})

	raw := encodePixels(r.Data)
	out.Elements[dicom.PixelDataTag] = &dicom.DataElement{
		Tag:         dicom.PixelDataTag,
		VR:          dicom.OWVR,
		ValueField:  dicom.NewBulkDataBuffer(raw),
		ValueLength: uint32(len(raw)),
	}

	var buf bytes.Buffer
	if err := dicom.Construct(&buf, out); err != nil {
		return "", &WriteError{Path: path, Reason: "encoding DICOM stream", Err: err}
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", &WriteError{Path: path, Reason: "creating output directory", Err: err}
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return "", &WriteError{Path: path, Reason: "writing output file", Err: err}
	}
	return path, nil
}

// encodePixels clamps the signed residue values into int16 range and
// packs them little-endian. Clamping only bites when the inputs differ
// by more than the full 16-bit dynamic range.
func encodePixels(data []int32) []byte {
	raw := make([]byte, 2*len(data))
	for i, v := range data {
		if v > math.MaxInt16 {
			v = math.MaxInt16
		} else if v < math.MinInt16 {
			v = math.MinInt16
		}
		binary.LittleEndian.PutUint16(raw[2*i:], uint16(int16(v)))
	}
	return raw
}
