package httpx

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/jcmexdev/maison-storefront/internal/pkg/interceptors/constants"
)

const browserCookieTTL = 365 * 24 * time.Hour

// AttachRequestMetadata copies chi's request id and the idempotency key into
// the context under the shared keys.
func AttachRequestMetadata(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), constants.ContextKeyRequestID, middleware.GetReqID(r.Context()))
		ctx = context.WithValue(ctx, constants.ContextKeyIdempotencyKey, r.Header.Get(constants.HeaderXIdempotencyKey))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// BrowserSession identifies the browser by header, then cookie. A browser
// seen for the first time gets a new id in both a cookie and the response
// header.
func BrowserSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(constants.HeaderXBrowserId)
		if id == "" {
			if c, err := r.Cookie(constants.CookieBrowserID); err == nil {
				id = c.Value
			}
		}
		if id == "" {
			id = uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     constants.CookieBrowserID,
				Value:    id,
				Path:     "/",
				Expires:  time.Now().Add(browserCookieTTL),
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}
		w.Header().Set(constants.HeaderXBrowserId, id)

		ctx := context.WithValue(r.Context(), constants.ContextKeyBrowserID, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func browserID(ctx context.Context) string {
	id, _ := ctx.Value(constants.ContextKeyBrowserID).(string)
	return id
}

func idempotencyKey(ctx context.Context) string {
	key, _ := ctx.Value(constants.ContextKeyIdempotencyKey).(string)
	return key
}
