package search

// Preview is the display-ready encoding of an accepted image. It is either
// absent or holds an encoded string; the zero value is absent.
type Preview struct {
	data string
	ok   bool
}

// Absent returns an empty preview.
func Absent() Preview { return Preview{} }

// Encoded wraps an encoded preview string.
func Encoded(data string) Preview { return Preview{data: data, ok: true} }

// Data returns the encoded preview and whether one is present.
func (p Preview) Data() (string, bool) { return p.data, p.ok }

// Present reports whether the preview holds an encoded string.
func (p Preview) Present() bool { return p.ok }

// Candidate is a file offered to the intake pipeline by a file picker.
type Candidate struct {
	Name string
	// Type is the MIME type declared by the picker. When empty the type is
	// sniffed from Data.
	Type string
	// Size is the declared size in bytes. A payload longer than Size is
	// measured by its length instead.
	Size int64
	// Data is the raw payload. Ownership passes to the widget on acceptance.
	Data []byte
}

// size is the larger of the declared size and the payload length.
func (c Candidate) size() int64 {
	return max(c.Size, int64(len(c.Data)))
}

// upload is the widget's single held image.
type upload struct {
	name      string
	mediaType string
	file      []byte
	preview   Preview
	status    Status
}

// Snapshot is a point-in-time copy of the widget state.
type Snapshot struct {
	Mode       Mode
	Query      string
	Status     Status
	FileName   string
	MediaType  string
	Size       int
	Preview    Preview
	Generation uint64
}
