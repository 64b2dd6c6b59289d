// Package auth provides account credentials, signed tokens and the gin
// middleware that guards the library and proxy routes.
//
// Credentials are bcrypt hashes kept in the accounts table. Tokens are
// stateless HS256 JWTs carrying the account id as the subject; nothing is
// stored server-side, so logout only clears the client cookie.
//
// # Configuration
//
//	JWT_SECRET=<random string>     # required
//	JWT_ISSUER=reader-sync         # optional, checked on verify when set
//	AUTH_TOKEN_EXPIRY=720h         # token lifetime (30 days default)
//	AUTH_BCRYPT_COST=10            # bcrypt cost factor
//	AUTH_SECURE_COOKIES=true       # HTTPS-only cookies
//	AUTH_COOKIE_SAMESITE=strict    # strict, lax or none
//
// # Usage
//
//	tokens := auth.NewTokenService(cfg.Auth)
//	mw := auth.NewMiddleware(tokens)
//	protected := router.Group("/", mw.RequireToken())
//
// Extract the account in handlers:
//
//	accountID := auth.GetAccountID(c)
//
// A token is read from "Authorization: Bearer <token>" first and from the
// "token" cookie otherwise.
package auth
