// Package secrets resolves ${secret:name} references in configuration.
//
// Providers are consulted in order: a mounted secrets directory (one file
// per secret, mode 0600 or 0400) when configured, then environment
// variables named after the secret with a prefix:
//
//	${secret:ops-key} -> <dir>/ops-key, then $BACKOFFICE_SECRET_OPS_KEY
//
// Resolved values are cached for a TTL. Refresh drops the cache and any
// values a provider holds, which the service does on configuration reload
// so rotated API keys take effect without a restart.
//
//	m, err := secrets.FromConfig(cfg.Security.Secrets)
//	if err != nil {
//	    return err
//	}
//	defer m.Close()
//
//	key, err := m.ResolveReferences(ctx, "${secret:ops-key}")
package secrets
