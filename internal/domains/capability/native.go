package capability

import (
	"github.com/humanmade/authorship/internal/domains/post"
)

// Action is the post operation being capability-checked.
type Action string

const (
	ActionEdit   Action = "edit"
	ActionDelete Action = "delete"
	ActionRead   Action = "read"
)

// MapMetaCap resolves a post action into the primitive capabilities the
// host requires before any authorship rewriting. Ownership is judged on
// the post's native owner column only.
func MapMetaCap(action Action, userID int64, p *post.Post, t post.Type) []string {
	isOwner := p.AuthorID == userID

	switch action {
	case ActionEdit:
		return mapEditDelete(t.Cap.EditPosts, t.Cap.EditOthersPosts, t.Cap.EditPublishedPosts, t.Cap.EditPrivatePosts, isOwner, p)
	case ActionDelete:
		return mapEditDelete(t.Cap.DeletePosts, t.Cap.DeleteOthersPosts, t.Cap.DeletePublishedPosts, t.Cap.DeletePrivatePosts, isOwner, p)
	case ActionRead:
		if p.Status == post.StatusPrivate && !isOwner {
			return []string{t.Cap.ReadPrivatePosts}
		}
		return []string{t.Cap.Read}
	}

	return []string{"do_not_allow"}
}

func mapEditDelete(base, others, published, private string, isOwner bool, p *post.Post) []string {
	if isOwner {
		if effectiveStatus(p).IsPublished() {
			return []string{published}
		}
		return []string{base}
	}

	caps := []string{others}
	if effectiveStatus(p).IsPublished() {
		caps = append(caps, published)
	} else if p.Status == post.StatusPrivate {
		caps = append(caps, private)
	}
	return caps
}

// effectiveStatus is the status used for published checks. Trashed posts
// are judged on the status they held before trashing.
func effectiveStatus(p *post.Post) post.Status {
	if p.Status == post.StatusTrash {
		return p.TrashMetaStatus
	}
	return p.Status
}
