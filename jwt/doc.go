// Package jwt issues and verifies the HS256 session tokens handed out by the
// sandbox account service.
package jwt
