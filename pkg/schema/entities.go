package schema

const (
	EntityUser           = "User"
	EntityProduct        = "Product"
	EntityBandMember     = "BandMember"
	EntitySong           = "Song"
	EntityAlbum          = "Album"
	EntityBookingRequest = "BookingRequest"
)

var User = &Schema{
	Entity: EntityUser,
	Fields: []Field{
		{Name: "name", Kind: KindString, Required: true},
		{Name: "email", Kind: KindString, Required: true, Rules: "email"},
		{Name: "address", Kind: KindString, Required: true},
		{Name: "age", Kind: KindInteger, Rules: "gte=0,lte=120"},
		{Name: "is_active", Kind: KindBoolean, Default: true},
	},
}

var Product = &Schema{
	Entity: EntityProduct,
	Fields: []Field{
		{Name: "title", Kind: KindString, Required: true},
		{Name: "description", Kind: KindString},
		{Name: "price", Kind: KindNumber, Required: true, Rules: "gte=0"},
		{Name: "category", Kind: KindString, Required: true},
		{Name: "in_stock", Kind: KindBoolean, Default: true},
	},
}

var BandMember = &Schema{
	Entity: EntityBandMember,
	Fields: []Field{
		{Name: "name", Kind: KindString, Required: true},
		{Name: "role", Kind: KindString, Required: true},
		{Name: "instrument", Kind: KindString},
		{Name: "bio", Kind: KindString},
		{Name: "photo_url", Kind: KindString, Rules: "http_url"},
	},
}

var Song = &Schema{
	Entity: EntitySong,
	Fields: []Field{
		{Name: "title", Kind: KindString, Required: true},
		{Name: "duration_sec", Kind: KindInteger, Rules: "gte=0"},
		{Name: "album_id", Kind: KindString},
		{Name: "stream_url", Kind: KindString, Rules: "http_url"},
	},
}

var Album = &Schema{
	Entity: EntityAlbum,
	Fields: []Field{
		{Name: "title", Kind: KindString, Required: true},
		{Name: "year", Kind: KindInteger, Rules: "gte=1900,lte=2100"},
		{Name: "cover_url", Kind: KindString, Rules: "http_url"},
		{Name: "tracks", Kind: KindStringList},
	},
}

var BookingRequest = &Schema{
	Entity: EntityBookingRequest,
	Fields: []Field{
		{Name: "name", Kind: KindString, Required: true, Rules: "min=2"},
		{Name: "email", Kind: KindString, Required: true, Rules: "email"},
		{Name: "message", Kind: KindString, Required: true, Rules: "min=10,max=2000"},
		{Name: "event_date", Kind: KindString},
		{Name: "event_location", Kind: KindString},
	},
}

// Default builds the registry of every entity this site stores.
func Default() (*Registry, error) {
	return NewRegistry(DefaultNaming,
		User,
		Product,
		BandMember,
		Song,
		Album,
		BookingRequest,
	)
}
