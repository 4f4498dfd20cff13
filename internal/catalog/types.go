package catalog

// Anime is a single catalog record as served by the upstream API. Records
// are read-only; nothing in this application mutates or stores them.
type Anime struct {
	ID            int     `json:"mal_id"`
	URL           string  `json:"url"`
	Title         string  `json:"title"`
	TitleJapanese string  `json:"title_japanese"`
	Images        Images  `json:"images"`
	Trailer       Trailer `json:"trailer"`
	Score         float64 `json:"score"`
	Year          int     `json:"year"`
	Status        string  `json:"status"`
	Rating        string  `json:"rating"`
	Synopsis      string  `json:"synopsis"`
	Genres        []Genre `json:"genres"`
}

// Images carries the poster variants for an anime.
type Images struct {
	JPG ImageSet `json:"jpg"`
}

// ImageSet holds the URLs for one image format.
type ImageSet struct {
	ImageURL      string `json:"image_url"`
	LargeImageURL string `json:"large_image_url"`
}

// Trailer references the promotional video for an anime, when one exists.
type Trailer struct {
	EmbedURL string `json:"embed_url"`
}

// Genre is a catalog genre tag.
type Genre struct {
	ID   int    `json:"mal_id"`
	Name string `json:"name"`
}

// Pagination mirrors the upstream pagination envelope.
type Pagination struct {
	CurrentPage     int  `json:"current_page"`
	LastVisiblePage int  `json:"last_visible_page"`
	HasNextPage     bool `json:"has_next_page"`
}

// Result is one page of catalog items plus its pagination metadata.
type Result struct {
	Items      []Anime
	Pagination Pagination
}

// FilterOption is a selectable value for the genre and rating filters.
type FilterOption struct {
	Value string
	Label string
}

// GenreOptions lists the genre filter choices offered on the browse page.
// Values are upstream genre identifiers.
var GenreOptions = []FilterOption{
	{Value: "1", Label: "Action"},
	{Value: "2", Label: "Adventure"},
	{Value: "4", Label: "Comedy"},
	{Value: "8", Label: "Drama"},
	{Value: "10", Label: "Fantasy"},
	{Value: "14", Label: "Horror"},
	{Value: "7", Label: "Mystery"},
	{Value: "22", Label: "Romance"},
	{Value: "24", Label: "Sci-Fi"},
	{Value: "36", Label: "Slice of Life"},
	{Value: "30", Label: "Sports"},
	{Value: "37", Label: "Supernatural"},
}

// RatingOptions lists the audience-rating filter choices. Values are the
// upstream rating codes.
var RatingOptions = []FilterOption{
	{Value: "g", Label: "G - All Ages"},
	{Value: "pg", Label: "PG - Children"},
	{Value: "pg13", Label: "PG-13 - Teens 13+"},
	{Value: "r17", Label: "R - 17+"},
}
