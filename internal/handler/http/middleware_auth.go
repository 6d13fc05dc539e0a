package http

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/MKhiriev/go-institute-sync/internal/app"
	"github.com/MKhiriev/go-institute-sync/internal/logger"
	"github.com/MKhiriev/go-institute-sync/internal/utils"
)

// accessTokenParam carries the session token for websocket clients that
// cannot set request headers.
const accessTokenParam = "access_token"

// auth is an HTTP middleware that enforces session authentication.
//
// The session token is read from the "Authorization: Bearer <token>" header
// or, when the header is absent, from the access_token query parameter. It is
// verified with the provider secret and the resulting [models.Session] is
// stored in the request context via [utils.WithSession]. The request logger
// is enriched with the user id and role.
//
// Requests without a valid token are rejected with 401 Unauthorized.
func (h *Handler) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)

		tokenString := r.URL.Query().Get(accessTokenParam)
		if authHeader := r.Header.Get("Authorization"); authHeader != "" {
			var err error
			tokenString, err = utils.ParseBearerToken(authHeader)
			if err != nil {
				log.Err(err).Str("func", "*Handler.auth").Send()
				utils.WriteError(w, http.StatusUnauthorized, err.Error(), nil)
				return
			}
		}
		if tokenString == "" {
			log.Err(ErrEmptyAuthorizationHeader).Str("func", "*Handler.auth").Send()
			utils.WriteError(w, http.StatusUnauthorized, ErrEmptyAuthorizationHeader.Error(), nil)
			return
		}

		session, err := utils.ParseSessionToken(tokenString, h.jwtSecret)
		if err != nil {
			log.Err(err).Str("func", "*Handler.auth").Msg("error occurred during parsing token")
			utils.WriteError(w, http.StatusUnauthorized, app.MsgTokenIsExpiredOrInvalid, nil)
			return
		}

		ctx := utils.WithSession(r.Context(), session)

		l := log.GetChildLogger()
		l.UpdateContext(func(c zerolog.Context) zerolog.Context {
			return c.Str("user_id", session.UserID).Str("user_role", session.Role.String())
		})

		next.ServeHTTP(w, r.WithContext(l.WithContext(ctx)))
	})
}
