package models

// Source tells which entry point produced a FileDescriptor.
type Source string

const (
	SourceDirect  Source = "direct"
	SourceArchive Source = "archive"
)

// GeoMeta is the optional geolocation hint carried by every uploaded image.
type GeoMeta struct {
	Address *string
	Lat     *float64
	Lon     *float64
	Angle   float64
	Height  float64
}

// HasCoordinates reports whether both lat and lon are known.
func (m GeoMeta) HasCoordinates() bool {
	return m.Lat != nil && m.Lon != nil
}

// GeoDefaults is the camera pose applied when none is supplied.
type GeoDefaults struct {
	Angle  float64
	Height float64
}

func (d GeoDefaults) Meta() GeoMeta {
	return GeoMeta{
		Angle:  d.Angle,
		Height: d.Height,
	}
}

// FileDescriptor is a validated, storage-ready file. Both direct uploads and
// archive entries are described with it.
type FileDescriptor struct {
	Source       Source
	Key          string
	OriginalName string
	ContentType  string
	Index        int
	Content      []byte
	Meta         GeoMeta
}

// UploadedFile is a descriptor whose content reached the object store.
type UploadedFile struct {
	Key          string
	OriginalName string
	Index        int
	URL          string
}

// FileError describes why the file at Index was rejected.
type FileError struct {
	Index    int    `json:"file_index"`
	Filename string `json:"filename"`
	Error    string `json:"error"`
}
