// Package dcmio reads DICOM images into in-memory datasets and writes
// computed residue volumes back out as structurally valid DICOM files.
// Parsing and serialization are delegated to the go-dicom-parser library;
// this package adds the pixel decoding, geometry extraction and metadata
// derivation the residue pipeline needs on top of it.
package dcmio

import (
	"encoding/binary"
	"os"
	"strconv"
	"strings"

	"github.com/GoogleCloudPlatform/go-dicom-parser/dicom"

	"dicomresidue/internal/models"
)

// Load reads the DICOM file at path into a models.Dataset. The source
// file is opened read-only and never modified. Any condition that leaves
// the file unusable for residue computation is reported as an
// *UnreadableFileError: an unparseable stream, a compressed transfer
// syntax, missing or zero image dimensions, an unsupported bit depth,
// or pixel data shorter than the declared shape.
func Load(path string) (*models.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &UnreadableFileError{Path: path, Reason: "opening file", Err: err}
	}
	defer f.Close()

	parsed, err := dicom.Parse(f)
	if err != nil {
		return nil, &UnreadableFileError{Path: path, Reason: "not a valid DICOM object", Err: err}
	}

	if err := checkTransferSyntax(parsed); err != nil {
		return nil, &UnreadableFileError{Path: path, Reason: err.Error()}
	}

	rows, ok := intValue(parsed, dicom.RowsTag)
	if !ok || rows <= 0 {
		return nil, &UnreadableFileError{Path: path, Reason: "missing or zero Rows (0028,0010)"}
	}
	cols, ok := intValue(parsed, dicom.ColumnsTag)
	if !ok || cols <= 0 {
		return nil, &UnreadableFileError{Path: path, Reason: "missing or zero Columns (0028,0011)"}
	}

	// BitsAllocated defaults to 16: most CT/MR storage objects use it and
	// the tag is technically type 1, so a missing value is already suspect.
	bits := 16
	if v, ok := intValue(parsed, dicom.BitsAllocatedTag); ok {
		bits = v
	}
	if bits != 8 && bits != 16 {
		return nil, &UnreadableFileError{Path: path, Reason: "unsupported BitsAllocated " + strconv.Itoa(bits)}
	}

	pixelRep := 0
	if v, ok := intValue(parsed, dicom.PixelRepresentationTag); ok {
		pixelRep = v
	}

	raw, err := pixelBytes(parsed)
	if err != nil {
		return nil, &UnreadableFileError{Path: path, Reason: "no decodable pixel data", Err: err}
	}

	pixels, err := decodePixels(raw, rows, cols, bits, pixelRep)
	if err != nil {
		return nil, &UnreadableFileError{Path: path, Reason: "decoding pixel data", Err: err}
	}

	return &models.Dataset{
		Path:                path,
		Pixels:              pixels,
		Rows:                rows,
		Cols:                cols,
		BitsAllocated:       bits,
		PixelRepresentation: pixelRep,
		Position:            imagePosition(parsed),
		Meta:                parsed,
	}, nil
}

// checkTransferSyntax rejects files whose pixel data is not stored as
// native little-endian words. Compressed (encapsulated) syntaxes would
// need a codec this pipeline does not carry.
func checkTransferSyntax(ds *dicom.DataSet) error {
	elem, ok := ds.Elements[dicom.TransferSyntaxUIDTag]
	if !ok {
		// No meta header; the parser already assumed implicit little endian.
		return nil
	}
	uid, err := elem.StringValue()
	if err != nil {
		return errString("unreadable TransferSyntaxUID")
	}
	switch uid {
	case dicom.ImplicitVRLittleEndianUID,
		dicom.ExplicitVRLittleEndianUID,
		dicom.DeflatedExplicitVRLittleEndianUID:
		return nil
	}
	return errString("unsupported transfer syntax " + uid)
}

type errString string

func (e errString) Error() string { return string(e) }

// intValue extracts a single integer tag value, tolerating the handful
// of numeric carrier types the parser may produce for it.
func intValue(ds *dicom.DataSet, tag dicom.DataElementTag) (int, bool) {
	elem, ok := ds.Elements[tag]
	if !ok {
		return 0, false
	}
	switch v := elem.ValueField.(type) {
	case []uint16:
		if len(v) > 0 {
			return int(v[0]), true
		}
	case []int16:
		if len(v) > 0 {
			return int(v[0]), true
		}
	case []uint32:
		if len(v) > 0 {
			return int(v[0]), true
		}
	case []int32:
		if len(v) > 0 {
			return int(v[0]), true
		}
	case []string:
		if len(v) > 0 {
			if n, err := strconv.Atoi(strings.TrimSpace(v[0])); err == nil {
				return n, true
			}
		}
	}
	return 0, false
}

// pixelBytes returns the raw PixelData bytes. The parser buffers OW/OB
// value fields into a BulkDataBuffer whose fragments are concatenated
// here; native (non-encapsulated) files carry a single fragment.
func pixelBytes(ds *dicom.DataSet) ([]byte, error) {
	elem, ok := ds.Elements[dicom.PixelDataTag]
	if !ok {
		return nil, errString("missing PixelData (7FE0,0010)")
	}
	switch v := elem.ValueField.(type) {
	case dicom.BulkDataBuffer:
		var raw []byte
		for _, fragment := range v.Data() {
			raw = append(raw, fragment...)
		}
		return raw, nil
	case [][]byte:
		var raw []byte
		for _, fragment := range v {
			raw = append(raw, fragment...)
		}
		return raw, nil
	case []byte:
		return v, nil
	case []uint16:
		raw := make([]byte, 2*len(v))
		for i, w := range v {
			binary.LittleEndian.PutUint16(raw[2*i:], w)
		}
		return raw, nil
	}
	return nil, errString("unexpected PixelData value type")
}

// decodePixels widens the stored voxel values into int32, honouring the
// declared bit depth and signedness. Trailing padding bytes beyond
// rows*cols voxels are ignored; a short buffer is an error.
func decodePixels(raw []byte, rows, cols, bits, pixelRep int) ([]int32, error) {
	n := rows * cols
	bytesPerVoxel := bits / 8
	if len(raw) < n*bytesPerVoxel {
		return nil, errString("pixel buffer shorter than Rows*Columns")
	}

	pixels := make([]int32, n)
	switch bits {
	case 8:
		for i := 0; i < n; i++ {
			if pixelRep == 1 {
				pixels[i] = int32(int8(raw[i]))
			} else {
				pixels[i] = int32(raw[i])
			}
		}
	case 16:
		for i := 0; i < n; i++ {
			w := binary.LittleEndian.Uint16(raw[2*i:])
			if pixelRep == 1 {
				pixels[i] = int32(int16(w))
			} else {
				pixels[i] = int32(w)
			}
		}
	}
	return pixels, nil
}

// imagePosition parses ImagePositionPatient (0020,0032) into a float
// triple. A missing or malformed tag yields nil rather than an error:
// position is only consulted by the optional same-acquisition guard.
func imagePosition(ds *dicom.DataSet) []float64 {
	elem, ok := ds.Elements[dicom.ImagePositionPatientTag]
	if !ok {
		return nil
	}
	strs, ok := elem.ValueField.([]string)
	if !ok {
		return nil
	}
	var pos []float64
	for _, s := range strs {
		for _, part := range strings.Split(s, "\\") {
			f, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
			if err != nil {
				return nil
			}
			pos = append(pos, f)
		}
	}
	return pos
}
