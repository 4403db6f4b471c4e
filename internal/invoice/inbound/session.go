package inbound

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gorilla/sessions"

	"github.com/phoenixsheppard28/vendorcafe-csv/internal/pkg/pkgrouter"
	"github.com/phoenixsheppard28/vendorcafe-csv/internal/pkg/pkguid"
)

// CookieSession names the signed cookie that ties a browser to its widget state.
const CookieSession = "vendorcafe_session"

const sessionValueID = "sid"

type sessionKey struct{}

func withSessionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, sessionKey{}, id)
}

func sessionID(ctx context.Context) string {
	id, _ := ctx.Value(sessionKey{}).(string)
	return id
}

// Sessions issues and reads the session cookie. The cookie only carries an
// opaque ID; the widget state stays on the server.
type Sessions struct {
	store *sessions.CookieStore
	ids   pkguid.StringID
}

// NewSessions signs cookies with keys (see securecookie key pairs).
func NewSessions(ids pkguid.StringID, keys ...[]byte) *Sessions {
	store := sessions.NewCookieStore(keys...)
	store.Options = &sessions.Options{
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}

	return &Sessions{store: store, ids: ids}
}

// Middleware puts the session ID into the request context, issuing a new
// cookie when the request has none or its signature does not verify.
func (s *Sessions) Middleware() pkgrouter.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, err := s.store.Get(r, CookieSession)
			if err != nil {
				slog.DebugContext(r.Context(), "session cookie rejected, issuing a new one", "error", err)
			}

			id, _ := sess.Values[sessionValueID].(string)
			if id == "" {
				id = s.ids.Generate()
				sess.Values[sessionValueID] = id
				sess.Options.Secure = r.TLS != nil
				if err := sess.Save(r, w); err != nil {
					slog.ErrorContext(r.Context(), "failed to save session cookie", "error", err)
				}
			}

			next.ServeHTTP(w, r.WithContext(withSessionID(r.Context(), id)))
		})
	}
}
