package photoprism

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// GetPhotos retrieves photos from PhotoPrism with an optional search query.
// Query examples: "person:jan-novak", "album:abc123", "year:2024".
func (pp *PhotoPrism) GetPhotos(count int, offset int, query string) ([]Photo, error) {
	endpoint := fmt.Sprintf("photos?count=%d&offset=%d", count, offset)
	if query != "" {
		endpoint += "&q=" + url.QueryEscape(query)
	}

	result, err := doGetJSON[[]Photo](pp, endpoint)
	if err != nil {
		return nil, err
	}
	return *result, nil
}

// GetPhotoDetails retrieves full photo details including files and labels.
func (pp *PhotoPrism) GetPhotoDetails(photoUID string) (map[string]any, error) {
	result, err := doGetJSON[map[string]any](pp, "photos/"+photoUID)
	if err != nil {
		return nil, err
	}
	return *result, nil
}

// GetPhotoLabels returns the names of all labels currently attached to a
// photo. Tag state is read through the photo details endpoint because the
// photo search response does not include labels.
func (pp *PhotoPrism) GetPhotoLabels(photoUID string) ([]string, error) {
	details, err := pp.GetPhotoDetails(photoUID)
	if err != nil {
		return nil, fmt.Errorf("could not get photo details: %w", err)
	}

	labels, ok := details["Labels"].([]any)
	if !ok {
		return nil, nil
	}

	var names []string
	for _, entry := range labels {
		item, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		// Labels are nested as {Label: {Name: ...}} in details responses
		// but some endpoints inline the name at the top level.
		if label, ok := item["Label"].(map[string]any); ok {
			if name := mapString(label, "Name"); name != "" {
				names = append(names, name)
				continue
			}
		}
		if name := mapString(item, "Name"); name != "" {
			names = append(names, name)
		}
	}
	return names, nil
}

// GetPhotoDownload downloads the primary file content for a photo.
// Face coordinates reported downstream are relative to the primary file,
// so only that file is ever exported.
func (pp *PhotoPrism) GetPhotoDownload(photoUID string) ([]byte, string, error) {
	details, err := pp.GetPhotoDetails(photoUID)
	if err != nil {
		return nil, "", fmt.Errorf("could not get photo details: %w", err)
	}

	fileHash := findPrimaryFileHash(details)
	if fileHash == "" {
		return nil, "", errors.New("could not find file hash for photo")
	}

	return pp.GetFileDownload(fileHash)
}

// GetFileDownload downloads a file by hash via the /dl/{hash} endpoint.
// The endpoint authenticates through the download token in the URL.
func (pp *PhotoPrism) GetFileDownload(fileHash string) ([]byte, string, error) {
	url := fmt.Sprintf("%s/dl/%s?t=%s", pp.Url, fileHash, pp.downloadToken)
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, url, nil)
	if err != nil {
		return nil, "", fmt.Errorf("could not create request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("could not send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("request failed with status %d: %s", resp.StatusCode, readErrorBody(resp.Body))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("could not read response body: %w", err)
	}

	return data, resp.Header.Get("Content-Type"), nil
}

// findPrimaryFileHash extracts the hash of the primary file from photo details.
func findPrimaryFileHash(details map[string]any) string {
	files, ok := details["Files"].([]any)
	if !ok || len(files) == 0 {
		return ""
	}

	var first map[string]any
	for _, f := range files {
		file, ok := f.(map[string]any)
		if !ok {
			continue
		}
		if first == nil {
			first = file
		}
		if primary, ok := file["Primary"].(bool); ok && primary {
			return mapString(file, "Hash")
		}
	}
	return mapString(first, "Hash")
}

func mapString(m map[string]any, key string) string {
	if m == nil {
		return ""
	}
	if s, ok := m[key].(string); ok {
		return s
	}
	return ""
}
