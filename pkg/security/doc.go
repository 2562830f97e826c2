/*
Package security groups the operator-facing access controls of the back
office.

# API Key Authentication

Operator endpoints such as the manual retention sweep require an API key,
sent as "Authorization: Bearer <key>" or "X-API-Key: <key>":

	keys, err := auth.LoadKeys(ctx, cfg.Security, secretManager)
	validator := auth.NewAPIKeyValidator(keys)
	middleware := auth.NewAPIKeyMiddleware(validator, nil)

	mux.Handle("POST /v1/retention/sweep", middleware.Handle(handler))

# Secrets

Keys in the configuration file may be ${secret:name} references, resolved
from a mounted secrets directory or the environment:

	secretManager, err := secrets.FromConfig(cfg.Security.Secrets)
*/
package security
