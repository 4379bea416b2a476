package auth

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/clerk/clerk-sdk-go/v2"
	"github.com/clerk/clerk-sdk-go/v2/jwt"
	"github.com/clerk/clerk-sdk-go/v2/user"
	"github.com/rs/zerolog/log"

	"github.com/casaluxe/stay/internal/api/authz"
)

// clerkInitialized indicates whether the Clerk SDK has been initialized
var clerkInitialized bool

// InitClerk initializes Clerk SDK with the secret key
func InitClerk(secretKey string) {
	if secretKey == "" {
		log.Warn().Msg("Clerk secret key not configured")
		return
	}
	clerk.SetKey(secretKey)
	clerkInitialized = true
	log.Info().Msg("Clerk SDK initialized")
}

// HandleClerkCallback handles the redirect after Clerk sign-in. The Clerk
// user must carry role "admin" in its public metadata.
func HandleClerkCallback(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	if !clerkInitialized {
		logger.Error().Msg("Clerk not configured")
		http.Error(w, "Authentication service not available", http.StatusServiceUnavailable)
		return
	}

	claims, ok := clerk.SessionClaimsFromContext(r.Context())
	if !ok {
		logger.Warn().Msg("No Clerk session claims in context")
		http.Redirect(w, r, "/admin/login", http.StatusFound)
		return
	}

	clerkUser, err := user.Get(r.Context(), claims.Subject)
	if err != nil {
		logger.Error().Err(err).Str("clerk_user_id", claims.Subject).Msg("Failed to get Clerk user")
		http.Error(w, "Failed to verify user", http.StatusInternalServerError)
		return
	}

	authUser := authUserFromClerk(clerkUser)
	if !authz.IsAdmin(authUser) {
		logger.Warn().Str("clerk_user_id", claims.Subject).Msg("Clerk user is not an admin")
		http.Error(w, MsgNotAdmin, http.StatusForbidden)
		return
	}

	if err := SetAuthCookie(w, authUser); err != nil {
		logger.Error().Err(err).Msg("Failed to set auth cookie")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

func authUserFromClerk(u *clerk.User) *authz.AuthUser {
	out := &authz.AuthUser{ID: u.ID, Provider: "clerk", Role: clerkRole(u.PublicMetadata)}
	for _, address := range u.EmailAddresses {
		if address == nil {
			continue
		}
		if out.Email == "" || (u.PrimaryEmailAddressID != nil && address.ID == *u.PrimaryEmailAddressID) {
			out.Email = address.EmailAddress
		}
	}
	return out
}

func clerkRole(metadata []byte) string {
	if len(metadata) == 0 {
		return ""
	}
	var fields struct {
		Role string `json:"role"`
	}
	if err := json.Unmarshal(metadata, &fields); err != nil {
		return ""
	}
	return strings.TrimSpace(fields.Role)
}

// WithClerkSession is middleware that validates Clerk session tokens
// and adds session claims to the request context
func WithClerkSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !clerkInitialized {
			next.ServeHTTP(w, r)
			return
		}

		sessionToken, err := r.Cookie(clerkCookieName)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		claims, err := jwt.Verify(r.Context(), &jwt.VerifyParams{
			Token: sessionToken.Value,
		})
		if err != nil {
			log.Ctx(r.Context()).Debug().Err(err).Msg("Invalid Clerk session token")
			next.ServeHTTP(w, r)
			return
		}

		ctx := clerk.ContextWithSessionClaims(r.Context(), claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
