package photoprism

// Photo represents a PhotoPrism photo.
type Photo struct {
	UID          string `json:"UID"`
	Title        string `json:"Title"`
	TakenAt      string `json:"TakenAt"`
	Type         string `json:"Type"`
	Hash         string `json:"Hash"`
	Width        int    `json:"Width"`
	Height       int    `json:"Height"`
	OriginalName string `json:"OriginalName"` // Original filename when uploaded
	FileName     string `json:"FileName"`     // Current filename
}

// PhotoLabel represents a label/tag that can be added to a photo.
type PhotoLabel struct {
	Name        string `json:"Name"`
	LabelSrc    string `json:"LabelSrc,omitempty"`
	Uncertainty int    `json:"Uncertainty,omitempty"`
}
