package state

import (
	"database/sql"
	"errors"

	dbutil "github.com/jvautrin/fermata/internal/db"
)

// QueueTrack represents a track in the saved queue.
type QueueTrack struct {
	TrackID     int64
	Path        string
	Title       string
	Artist      string
	Album       string
	TrackNumber int
}

// QueueState represents the saved queue state.
type QueueState struct {
	CurrentIndex int
	Tracks       []QueueTrack
}

func getQueue(db *sql.DB) (*QueueState, error) {
	var currentIndex int
	row := db.QueryRow(`SELECT current_index FROM queue_state WHERE id = 1`)
	err := row.Scan(&currentIndex)
	if errors.Is(err, sql.ErrNoRows) {
		return &QueueState{CurrentIndex: -1}, nil
	}
	if err != nil {
		return nil, err
	}

	rows, err := db.Query(`
		SELECT track_id, path, title, artist, album, track_number
		FROM queue_tracks
		ORDER BY position
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tracks []QueueTrack
	for rows.Next() {
		var t QueueTrack
		var trackID sql.NullInt64
		var artist, album sql.NullString
		var trackNumber sql.NullInt64

		err := rows.Scan(&trackID, &t.Path, &t.Title, &artist, &album, &trackNumber)
		if err != nil {
			return nil, err
		}

		t.TrackID = dbutil.NullInt64Value(trackID)
		t.Artist = dbutil.NullStringValue(artist)
		t.Album = dbutil.NullStringValue(album)
		t.TrackNumber = int(dbutil.NullInt64Value(trackNumber))
		tracks = append(tracks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &QueueState{
		CurrentIndex: currentIndex,
		Tracks:       tracks,
	}, nil
}

func saveQueue(sqlDB *sql.DB, state QueueState) error {
	return dbutil.WithTx(sqlDB, func(tx *sql.Tx) error {
		// Clear existing queue
		_, err := tx.Exec(`DELETE FROM queue_tracks`)
		if err != nil {
			return err
		}

		_, err = tx.Exec(`
			INSERT INTO queue_state (id, current_index)
			VALUES (1, ?)
			ON CONFLICT(id) DO UPDATE SET
				current_index = excluded.current_index
		`, state.CurrentIndex)
		if err != nil {
			return err
		}

		stmt, err := tx.Prepare(`
			INSERT INTO queue_tracks (position, track_id, path, title, artist, album, track_number)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for i, t := range state.Tracks {
			var trackID any
			if t.TrackID > 0 {
				trackID = t.TrackID
			}
			_, err = stmt.Exec(i, trackID, t.Path, t.Title, t.Artist, t.Album, t.TrackNumber)
			if err != nil {
				return err
			}
		}
		return nil
	})
}
