// internal/app/system/auth/auth.go
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/dalemusser/collabhub/internal/domain/models"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

/*─────────────────────────────────────────────────────────────────────────────*
| Session constants & globals                                                 |
*─────────────────────────────────────────────────────────────────────────────*/

const (
	isAuthKey     = "is_authenticated"
	userIDKey     = "user_id"
	userNameKey   = "user_name"
	userEmailKey  = "user_email"
	userRolesKey  = "user_roles" // comma-joined
	departmentKey = "user_department"
)

// SessionName is the cookie name; set by InitSessionStore.
var SessionName = "collabhub-session"

// Store is initialised once via InitSessionStore.
var Store *sessions.CookieStore

/*─────────────────────────────────────────────────────────────────────────────*
| Current-User helper                                                         |
*─────────────────────────────────────────────────────────────────────────────*/

// SessionUser is what we cache in the session & inject into r.Context().
type SessionUser struct {
	ID         string
	Name       string
	Email      string
	Roles      []string
	Department string
}

// Actor converts the session user into the domain user shape the
// service layer evaluates policies against. The returned user carries
// only what the session knows; fetch the full record when more than
// identity, roles, and department is needed.
func (u *SessionUser) Actor() (models.User, error) {
	oid, err := primitive.ObjectIDFromHex(u.ID)
	if err != nil {
		return models.User{}, fmt.Errorf("malformed session user id %q: %w", u.ID, err)
	}
	return models.User{
		ID:         oid,
		FullName:   u.Name,
		Email:      u.Email,
		Roles:      u.Roles,
		Department: u.Department,
	}, nil
}

// HasRole reports whether the session user holds the given role.
func (u *SessionUser) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

type ctxKey string

const currentUserKey ctxKey = "currentUser"

// CurrentUser returns the user & "found?" flag.
func CurrentUser(r *http.Request) (*SessionUser, bool) {
	u, ok := r.Context().Value(currentUserKey).(*SessionUser)
	return u, ok
}

// ContextWithUser returns ctx carrying the given session user. Exposed
// for handler tests; request handling goes through LoadSessionUser.
func ContextWithUser(ctx context.Context, u *SessionUser) context.Context {
	return context.WithValue(ctx, currentUserKey, u)
}

// LoadSessionUser injects the user into context if they are logged in.
// If the session store has not been initialized yet, it is a no-op.
func LoadSessionUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if Store == nil {
			next.ServeHTTP(w, r)
			return
		}

		sess, _ := Store.Get(r, SessionName)

		if isAuth, _ := sess.Values[isAuthKey].(bool); isAuth {
			u := &SessionUser{
				ID:         getString(sess, userIDKey),
				Name:       getString(sess, userNameKey),
				Email:      getString(sess, userEmailKey),
				Department: getString(sess, departmentKey),
			}
			if roles := getString(sess, userRolesKey); roles != "" {
				u.Roles = strings.Split(roles, ",")
			}
			r = r.WithContext(ContextWithUser(r.Context(), u))
		}
		next.ServeHTTP(w, r)
	})
}

// SignIn writes the user into the session cookie.
func SignIn(w http.ResponseWriter, r *http.Request, u models.User) error {
	sess, _ := Store.Get(r, SessionName)
	sess.Values[isAuthKey] = true
	sess.Values[userIDKey] = u.ID.Hex()
	sess.Values[userNameKey] = u.FullName
	sess.Values[userEmailKey] = u.Email
	sess.Values[userRolesKey] = strings.Join(u.Roles, ",")
	sess.Values[departmentKey] = u.Department
	return sess.Save(r, w)
}

// SignOut clears the session cookie.
func SignOut(w http.ResponseWriter, r *http.Request) error {
	sess, _ := Store.Get(r, SessionName)
	sess.Values = map[interface{}]interface{}{}
	sess.Options.MaxAge = -1
	return sess.Save(r, w)
}

/*─────────────────────────────────────────────────────────────────────────────*
| Middleware                                                                  |
*─────────────────────────────────────────────────────────────────────────────*/

// RequireSignedIn ensures there is a user in context (set by
// LoadSessionUser). API callers get a plain 401 JSON body.
func RequireSignedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentUser(r); ok {
			next.ServeHTTP(w, r)
			return
		}
		writeJSONError(w, http.StatusUnauthorized, "unauthorized")
	})
}

// RequireAnyRole ensures the signed-in user holds at least one of the
// given roles. 401 when not signed in, 403 otherwise.
func RequireAnyRole(allowed ...string) func(http.Handler) http.Handler {
	set := make(map[string]struct{}, len(allowed))
	for _, role := range allowed {
		set[strings.ToLower(strings.TrimSpace(role))] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, ok := CurrentUser(r)
			if !ok {
				writeJSONError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			for _, role := range u.Roles {
				if _, has := set[strings.ToLower(role)]; has {
					next.ServeHTTP(w, r)
					return
				}
			}
			writeJSONError(w, http.StatusForbidden, "forbidden")
		})
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| Store initialisation                                                        |
*─────────────────────────────────────────────────────────────────────────────*/

// InitSessionStore initializes the global session Store using the
// provided session key and domain. The `secure` flag controls whether
// cookies are marked Secure and which SameSite mode is used.
//
// An empty key is tolerated outside production: a random key is
// generated, which invalidates sessions on every restart.
func InitSessionStore(sessionKey, sessionName, domain string, secure bool, logger *zap.Logger) error {
	if sessionName != "" {
		SessionName = sessionName
	}

	key := []byte(sessionKey)
	if len(key) == 0 {
		if secure {
			return fmt.Errorf("session key is empty; provide ≥32 random chars")
		}
		key = securecookie.GenerateRandomKey(32)
		logger.Warn("session key not configured; generated a volatile dev key")
	} else if len(key) < 32 {
		logger.Warn("session key is short; 32+ chars recommended",
			zap.Int("length", len(key)))
	}

	store := sessions.NewCookieStore(key)
	opts := &sessions.Options{
		Domain:   domain,
		Path:     "/",
		Secure:   secure,
		HttpOnly: true,
	}
	if secure {
		opts.SameSite = http.SameSiteNoneMode
	} else {
		opts.SameSite = http.SameSiteLaxMode
	}
	store.Options = opts
	Store = store

	logger.Info("session store initialized",
		zap.Bool("secure", secure),
		zap.String("domain", domain))

	return nil
}

// helpers

// getString safely extracts a string from a session value.
func getString(s *sessions.Session, key string) string {
	if v, ok := s.Values[key].(string); ok {
		return v
	}
	return ""
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
