package mariadb

import (
	"context"
	"fmt"
)

// PhotoLabels returns the names of all labels attached to a photo,
// matching what the API's photo details endpoint reports. A photo with no
// labels (or an unknown UID) yields an empty slice, not an error.
func (p *Pool) PhotoLabels(ctx context.Context, photoUID string) ([]string, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT l.label_name
		FROM photos p
		JOIN photos_labels pl ON pl.photo_id = p.id
		JOIN labels l ON l.id = pl.label_id
		WHERE p.photo_uid = ?`, photoUID)
	if err != nil {
		return nil, fmt.Errorf("failed to query photo labels: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan label name: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read label rows: %w", err)
	}

	return names, nil
}
