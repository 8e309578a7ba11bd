package capability

import (
	"github.com/humanmade/authorship/internal/domains/post"
)

// RewritePostCaps adjusts the primitive capabilities required for a post
// action when the acting user is an attributed author of the post. The
// host only grants the owner path to the owner column; this re-grants it
// to every attributed author by stripping the others'/published/private
// variants and substituting the caps an owner would need.
//
// Callers must only invoke this for users who are attributed authors of
// the post. The input slice is not modified.
func RewritePostCaps(action Action, t post.Type, p *post.Post, caps []string) []string {
	switch action {
	case ActionEdit:
		return rewriteEditDelete(t.Cap.EditPosts, t.Cap.EditOthersPosts, t.Cap.EditPublishedPosts, t.Cap.EditPrivatePosts, p, caps)
	case ActionDelete:
		return rewriteEditDelete(t.Cap.DeletePosts, t.Cap.DeleteOthersPosts, t.Cap.DeletePublishedPosts, t.Cap.DeletePrivatePosts, p, caps)
	case ActionRead:
		out := removeCaps(caps, t.Cap.ReadPrivatePosts)
		return appendCap(out, t.Cap.Read)
	}

	return caps
}

func rewriteEditDelete(base, others, published, private string, p *post.Post, caps []string) []string {
	out := removeCaps(caps, others, published, private)

	if effectiveStatus(p).IsPublished() {
		return appendCap(out, published)
	}
	return appendCap(out, base)
}

func removeCaps(caps []string, drop ...string) []string {
	dropSet := make(map[string]bool, len(drop))
	for _, cap := range drop {
		dropSet[cap] = true
	}

	out := make([]string, 0, len(caps))
	for _, cap := range caps {
		if !dropSet[cap] {
			out = append(out, cap)
		}
	}
	return out
}

func appendCap(caps []string, cap string) []string {
	for _, existing := range caps {
		if existing == cap {
			return caps
		}
	}
	return append(caps, cap)
}
