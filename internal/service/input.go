package service

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"pressroom/internal/models"
)

// Length limits for user-supplied text.
const (
	maxTitleLength   = 200
	maxContentLength = 100_000
	maxCommentLength = 5_000
)

// CreateArticleInput carries the fields of a new article. PhotoURL is set
// by the caller after a successful upload.
type CreateArticleInput struct {
	Title    string           `json:"title"`
	Content  string           `json:"content"`
	PhotoURL *string          `json:"photo_url,omitempty"`
	Category *models.Category `json:"category,omitempty"`
}

// Validate checks the required fields and the category.
func (in CreateArticleInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Title, validation.Required.Error("title is required"), validation.Length(1, maxTitleLength)),
		validation.Field(&in.Content, validation.Required.Error("content is required"), validation.Length(1, maxContentLength)),
		validation.Field(&in.Category, validation.By(validCategory)),
	)
}

// UpdateArticleInput lists the fields an owner may change. Nil fields are
// left untouched.
type UpdateArticleInput struct {
	Title    *string          `json:"title,omitempty"`
	Content  *string          `json:"content,omitempty"`
	PhotoURL *string          `json:"photo_url,omitempty"`
	Category *models.Category `json:"category,omitempty"`
}

// Validate rejects fields that are present but empty, and unknown
// categories.
func (in UpdateArticleInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Title, validation.NilOrNotEmpty.Error("title cannot be blank"), validation.Length(1, maxTitleLength)),
		validation.Field(&in.Content, validation.NilOrNotEmpty.Error("content cannot be blank"), validation.Length(1, maxContentLength)),
		validation.Field(&in.Category, validation.By(validCategory)),
	)
}

// Patch converts the input into a repository patch.
func (in UpdateArticleInput) Patch() models.ArticlePatch {
	return models.ArticlePatch{
		Title:    in.Title,
		Content:  in.Content,
		PhotoURL: in.PhotoURL,
		Category: in.Category,
	}
}

// commentInput is validated before a comment is appended.
type commentInput struct {
	Content string
}

func (in commentInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Content, validation.Required.Error("content is required"), validation.Length(1, maxCommentLength)),
	)
}

var errUnknownCategory = errors.New("must be one of tech, food, travel, science, culture, sports, lifestyle")

func validCategory(value any) error {
	c, ok := value.(*models.Category)
	if !ok || c == nil {
		return nil
	}
	if !c.Valid() {
		return errUnknownCategory
	}
	return nil
}
