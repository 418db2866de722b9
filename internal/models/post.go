package models

// Post represents an entry in the global social feed. The JSON field names
// match the payloads the mobile client already stores, so previously written
// feed data decodes without migration. This is the superset of the two shapes
// the client used: the composer feed (handle/trainerClass/comments) and the
// minimal capture announcement (pokemonId).
type Post struct {
	ID           string   `json:"id"`
	Username     string   `json:"username"`
	Handle       string   `json:"handle,omitempty"`
	TrainerClass string   `json:"trainerClass,omitempty"`
	Content      string   `json:"content"`
	Timestamp    int64    `json:"timestamp"` // epoch millis
	ImageURL     string   `json:"imageUrl,omitempty"`
	PokemonID    int      `json:"pokemonId,omitempty"`
	Likes        int      `json:"likes"`
	Comments     []string `json:"comments"`
	IsStatic     bool     `json:"isStatic,omitempty"`
	IsGif        bool     `json:"isGif,omitempty"`
}

// Normalize applies the schema defaults for fields older payloads may omit.
func (p *Post) Normalize() {
	if p.Likes < 0 {
		p.Likes = 0
	}
	if p.Comments == nil {
		p.Comments = []string{}
	}
}

// CreatePostRequest defines the request body for composing a feed post.
// At least one of content or imageUrl must be set; the handler enforces that
// since validator tags cannot express the either-or.
type CreatePostRequest struct {
	Content  string `json:"content" validate:"omitempty,max=280"`
	ImageURL string `json:"imageUrl,omitempty" validate:"omitempty,url"`
}

// CreateCommentRequest defines the request body for commenting on a post
type CreateCommentRequest struct {
	Text string `json:"text" validate:"required,min=1,max=500"`
}
