// Package common contains shared constants and sentinel errors used across
// jobassist components.
package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the
// session token on inbound and outbound requests.
const AccessTokenHeaderName = "access_token"

// BearerPrefix is the scheme prefix of the HTTP Authorization header.
const BearerPrefix = "Bearer "
