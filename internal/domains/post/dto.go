package post

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// SaveInput carries everything a post save can set. Authors is the
// explicit attribution list; nil means the caller did not send one, which
// is a different thing from sending an empty list.
type SaveInput struct {
	Type     string   `json:"type"`
	Status   Status   `json:"status"`
	Title    string   `json:"title"`
	Slug     string   `json:"slug"`
	AuthorID int64    `json:"author"`
	Authors  *[]int64 `json:"authorship"`

	// TaxInputAuthors writes the attribution relation directly, bypassing
	// the default attribution on save.
	TaxInputAuthors []int64 `json:"-"`
}

// Validate checks the input with the request-level rules.
func (i SaveInput) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.Type, validation.Required),
		validation.Field(&i.Title, validation.Required, validation.Length(1, 255)),
		validation.Field(&i.Status, validation.In(
			StatusPublish, StatusFuture, StatusDraft,
			StatusPending, StatusPrivate, StatusTrash,
		)),
	)
}

// UpdateInput is a partial save. Unset fields leave the post unchanged.
type UpdateInput struct {
	Status  *Status  `json:"status"`
	Title   *string  `json:"title"`
	Slug    *string  `json:"slug"`
	Authors *[]int64 `json:"authorship"`
}

// Validate checks the partial update rules.
func (i UpdateInput) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.Title, validation.NilOrNotEmpty, validation.Length(1, 255)),
		validation.Field(&i.Status, validation.By(func(value interface{}) error {
			s, ok := value.(*Status)
			if !ok || s == nil {
				return nil
			}
			return validation.Validate(*s, validation.In(
				StatusPublish, StatusFuture, StatusDraft,
				StatusPending, StatusPrivate, StatusTrash,
			))
		})),
	)
}
