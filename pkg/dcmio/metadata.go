package dcmio

import (
	"math/big"

	"github.com/GoogleCloudPlatform/go-dicom-parser/dicom"
	"github.com/google/uuid"
)

// Overrides lists the fields the derived output replaces in the source
// metadata. Everything not named here is carried over unchanged.
type Overrides struct {
	// Rows and Cols describe the residue grid being written
	Rows int
	Cols int

	// RedactPatientTags blanks PatientName and PatientID in the output.
	// By default identifying tags are retained so the derived object
	// stays attached to its study.
	RedactPatientTags bool
}

// DeriveMetadata builds the tag map for the residue output file from a
// source dataset. It is a shallow copy with explicit overrides: the
// source DataSet is never mutated. The derived object gets a freshly
// minted SOP Instance UID, is marked DERIVED\SECONDARY, and declares
// signed 16-bit pixel storage to match the residue encoding.
func DeriveMetadata(src *dicom.DataSet, o Overrides) *dicom.DataSet {
	out := &dicom.DataSet{
		Elements: map[dicom.DataElementTag]*dicom.DataElement{},
		Length:   dicom.UndefinedLength,
	}
	for tag, elem := range src.Elements {
		// The meta header is rebuilt below and pixel data is supplied by
		// the persister.
		if tag.GroupNumber() == 0x0002 || tag == dicom.PixelDataTag {
			continue
		}
		out.Elements[tag] = elem
	}

	instanceUID := NewUID()
	overrides := map[dicom.DataElementTag]interface{}{
		dicom.TransferSyntaxUIDTag:          []string{dicom.ExplicitVRLittleEndianUID},
		dicom.MediaStorageSOPInstanceUIDTag: []string{instanceUID},
		dicom.SOPInstanceUIDTag:             []string{instanceUID},
		dicom.ImageTypeTag:                  []string{"DERIVED", "SECONDARY"},
		dicom.SeriesDescriptionTag:          []string{"RESIDUE"},
		dicom.RowsTag:                       []uint16{uint16(o.Rows)},
		dicom.ColumnsTag:                    []uint16{uint16(o.Cols)},
		dicom.SamplesPerPixelTag:            []uint16{1},
		dicom.PhotometricInterpretationTag:  []string{"MONOCHROME2"},
		dicom.BitsAllocatedTag:              []uint16{16},
		dicom.BitsStoredTag:                 []uint16{16},
		dicom.HighBitTag:                    []uint16{15},
		dicom.PixelRepresentationTag:        []uint16{1},
	}
	if classElem, ok := src.Elements[dicom.SOPClassUIDTag]; ok {
		if class, err := classElem.StringValue(); err == nil {
			overrides[dicom.MediaStorageSOPClassUIDTag] = []string{class}
		}
	}
	if o.RedactPatientTags {
		overrides[dicom.PatientNameTag] = []string{""}
		overrides[dicom.PatientIDTag] = []string{""}
	}

	return out.Merge(dicom.NewDataSet(overrides))
}

// NewUID mints a DICOM unique identifier under the UUID-derived 2.25
// root (ISO/IEC 9834-8), which requires no registered org root.
func NewUID() string {
	u := uuid.New()
	return "2.25." + new(big.Int).SetBytes(u[:]).String()
}
