/*
Package auth provides API key authentication for operator endpoints.

Keys come from the security section of the configuration. A key marked
disabled stays in the file but is rejected with 403; an unknown or missing
key is rejected with 401.

# Basic Usage

	validator := auth.FromConfig(cfg.Security)
	mw := auth.NewAPIKeyMiddleware(validator, nil)
	mux.Handle("POST /v1/retention/sweep", mw.Handle(sweepHandler))

With no sources the middleware reads the key from

	Authorization: Bearer <key>
	X-API-Key: <key>

in that order.

# Reload

On a configuration reload the key set is swapped in place:

	validator.Replace(auth.KeysFromConfig(newCfg.Security))

# Context

The authenticated key's name is stored in the request context and picked up
by the logging handler as the "operator" attribute:

	info, ok := auth.GetAPIKeyInfo(r.Context())
*/
package auth
