package photoprism

import "fmt"

// AddPhotoLabel adds a label/tag to a photo. PhotoPrism upserts by name:
// an unknown name creates the label, an existing one is reused, and
// attaching a label that is already on the photo is a no-op. That makes
// this call safe to repeat.
func (pp *PhotoPrism) AddPhotoLabel(photoUID string, label PhotoLabel) (*Photo, error) {
	return doPostJSON[Photo](pp, fmt.Sprintf("photos/%s/label", photoUID), label)
}
