// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package preview derives lightweight post summaries for feed and listing
// views without materializing the full post body. Previews are recomputed
// per query; any caching of them is an optimization, never a correctness
// requirement.
package preview

import (
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"inkpress/internal/models"
)

// excerptLimit is the maximum excerpt length in runes; longer paragraph
// text is truncated and marked with an ellipsis.
const excerptLimit = 150

// Preview is the derived summary of a post for listing contexts.
type Preview struct {
	PostID        uuid.UUID `json:"id"`
	Title         string    `json:"title"`
	CreatedAt     time.Time `json:"created_at"`
	CoverImageURL *string   `json:"cover_image_url,omitempty"`
	Published     bool      `json:"published"`
	Excerpt       string    `json:"excerpt"`
	AuthorName    string    `json:"author"`
	// AuthorImage is either an absolute avatar URL or uppercase initials
	// derived from the author's display name. Empty when the display name
	// is empty; consumers render a neutral placeholder then.
	AuthorImage string `json:"author_image"`
}

// Project builds a preview from post metadata, the post's first paragraph
// block (nil when the post has none), and its author identity.
func Project(post *models.Post, firstParagraph *models.ContentBlock, author models.Author) Preview {
	return Preview{
		PostID:        post.ID,
		Title:         post.Title,
		CreatedAt:     post.CreatedAt,
		CoverImageURL: post.CoverImageURL,
		Published:     post.Published,
		Excerpt:       Excerpt(firstParagraph),
		AuthorName:    author.DisplayName,
		AuthorImage:   AuthorImage(author),
	}
}

// Excerpt extracts preview text from the first paragraph block: up to 150
// runes of its text, with "..." appended only when truncation actually
// occurred. A post without any paragraph block gets an empty excerpt;
// that is a normal outcome, not an error.
func Excerpt(firstParagraph *models.ContentBlock) string {
	if firstParagraph == nil || firstParagraph.Type != models.BlockParagraph {
		return ""
	}
	text := firstParagraph.TextPayload().Text
	runes := []rune(text)
	if len(runes) <= excerptLimit {
		return text
	}
	return string(runes[:excerptLimit]) + "..."
}

// AuthorImage resolves the author's display image: the avatar ref as-is
// when it is an absolute http(s) URL, otherwise initials computed from
// the display name.
func AuthorImage(author models.Author) string {
	if isAbsoluteURL(author.AvatarRef) {
		return author.AvatarRef
	}
	return Initials(author.DisplayName)
}

// Initials derives a short display code from a name: the first character
// of each whitespace-separated token, uppercased, truncated to two
// characters. An empty name yields an empty string.
func Initials(name string) string {
	var initials []rune
	for _, token := range strings.Fields(name) {
		initials = append(initials, []rune(token)[0])
		if len(initials) == 2 {
			break
		}
	}
	return strings.ToUpper(string(initials))
}

func isAbsoluteURL(ref string) bool {
	u, err := url.Parse(ref)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
