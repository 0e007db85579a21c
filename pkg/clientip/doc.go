// Package clientip extracts the client address from HTTP requests.
//
// Headers are checked in this order, first valid address wins:
//  1. CF-Connecting-IP (Cloudflare)
//  2. DO-Connecting-IP (DigitalOcean)
//  3. X-Forwarded-For (leftmost entry)
//  4. X-Real-IP
//  5. RemoteAddr
//
// Addresses are normalized with net.IP.String. 0.0.0.0 and :: are rejected.
// GetIP never fails: when nothing parses, the raw RemoteAddr is returned.
//
// Only trust these headers behind a proxy that overwrites them.
package clientip
