package redis

import "strings"

// Every storefront key lives under this prefix.
const namespace = "comicstore"

// IdempotencyKey addresses a stored response, e.g. comicstore:replay:checkout:<key>.
func (c *Client) IdempotencyKey(scope, id string) string {
	return buildKey("replay", scope, id)
}

// AccessSessionKey addresses the refresh record of one login, keyed by the
// access token's jti.
func (c *Client) AccessSessionKey(accessID string) string {
	return buildKey("session", accessID)
}

// LockKey addresses the lease a cron job holds while it runs.
func (c *Client) LockKey(job string) string {
	return buildKey("cron", job)
}

func buildKey(kind string, parts ...string) string {
	var b strings.Builder
	b.WriteString(namespace)
	b.WriteByte(':')
	b.WriteString(kind)
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		b.WriteByte(':')
		b.WriteString(part)
	}
	return b.String()
}
