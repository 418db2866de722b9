package models

// CreatureRecord is one caught species in a user's collection. Identity is
// the species ID; a collection never holds the same ID twice. Type and
// ImageURL may be absent on older records and are backfilled lazily from the
// species lookup.
type CreatureRecord struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	ImageURL string `json:"imageUrl,omitempty"`
	Type     string `json:"type,omitempty"`
}

// CaptureRequest defines the request body for recording a capture.
// PhotoPath is the device-local path of the camera shot; it is logged only,
// the server never touches the image content.
type CaptureRequest struct {
	ID        int    `json:"id" validate:"required,min=1,max=1025"`
	Name      string `json:"name" validate:"required,min=1,max=50"`
	ImageURL  string `json:"imageUrl,omitempty" validate:"omitempty,url"`
	PhotoPath string `json:"photoPath,omitempty"`
}
