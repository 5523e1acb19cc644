package model

type BandMember struct {
	ID         string  `json:"_id,omitempty" bson:"_id,omitempty"`
	Name       string  `json:"name" bson:"name"`
	Role       string  `json:"role" bson:"role"`
	Instrument *string `json:"instrument,omitempty" bson:"instrument,omitempty"`
	Bio        *string `json:"bio,omitempty" bson:"bio,omitempty"`
	PhotoURL   *string `json:"photo_url,omitempty" bson:"photo_url,omitempty"`
}

type Song struct {
	ID          string  `json:"_id,omitempty" bson:"_id,omitempty"`
	Title       string  `json:"title" bson:"title"`
	DurationSec *int64  `json:"duration_sec,omitempty" bson:"duration_sec,omitempty"`
	AlbumID     *string `json:"album_id,omitempty" bson:"album_id,omitempty"`
	StreamURL   *string `json:"stream_url,omitempty" bson:"stream_url,omitempty"`
}

type Album struct {
	ID       string   `json:"_id,omitempty" bson:"_id,omitempty"`
	Title    string   `json:"title" bson:"title"`
	Year     *int64   `json:"year,omitempty" bson:"year,omitempty"`
	CoverURL *string  `json:"cover_url,omitempty" bson:"cover_url,omitempty"`
	Tracks   []string `json:"tracks,omitempty" bson:"tracks,omitempty"`
}
