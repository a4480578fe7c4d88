package handler

import (
	"net/http"
	"strings"

	"github.com/xenking/shop-assistant/internal/domain/user"
)

// UserIDHeader may carry the caller id when the user_id query parameter is
// absent.
const UserIDHeader = "X-User-ID"

// authenticate resolves the calling user from the user_id query parameter,
// falling back to the X-User-ID header. It returns user.ErrNotFound for
// missing or unknown ids.
func (h *Handler) authenticate(r *http.Request) (user.User, error) {
	id := strings.TrimSpace(r.URL.Query().Get("user_id"))
	if id == "" {
		id = strings.TrimSpace(r.Header.Get(UserIDHeader))
	}
	if id == "" {
		return user.User{}, user.ErrNotFound
	}
	return h.users.UserByID(id)
}
