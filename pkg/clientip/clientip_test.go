package clientip_test

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/routekit/pkg/clientip"
)

func TestGetIP(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		headers    map[string]string
		remoteAddr string
		want       string
	}{
		{name: "remote addr", remoteAddr: "10.0.0.1:1234", want: "10.0.0.1"},
		{name: "cloudflare wins", headers: map[string]string{"CF-Connecting-IP": "1.1.1.1", "X-Real-IP": "2.2.2.2"}, remoteAddr: "10.0.0.1:1", want: "1.1.1.1"},
		{name: "forwarded for leftmost", headers: map[string]string{"X-Forwarded-For": "3.3.3.3, 10.0.0.2"}, remoteAddr: "10.0.0.1:1", want: "3.3.3.3"},
		{name: "invalid header skipped", headers: map[string]string{"X-Forwarded-For": "garbage", "X-Real-IP": "4.4.4.4"}, remoteAddr: "10.0.0.1:1", want: "4.4.4.4"},
		{name: "unspecified rejected", headers: map[string]string{"X-Real-IP": "0.0.0.0"}, remoteAddr: "10.0.0.1:1", want: "10.0.0.1"},
		{name: "ipv6", headers: map[string]string{"X-Real-IP": "2001:db8:0::1"}, remoteAddr: "10.0.0.1:1", want: "2001:db8::1"},
		{name: "raw remote addr fallback", remoteAddr: "not-an-ip", want: "not-an-ip"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r := httptest.NewRequest("GET", "/", nil)
			r.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, clientip.GetIP(r))
		})
	}
}
