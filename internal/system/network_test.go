package system

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPreviewURL(t *testing.T) {
	cases := []struct {
		listen, ip, want string
	}{
		{":8080", "192.168.1.20", "http://192.168.1.20:8080/"},
		{":8080", "", "http://localhost:8080/"},
		{"0.0.0.0:80", "10.0.0.2", "http://10.0.0.2/"},
		{"display.local:9000", "10.0.0.2", "http://display.local:9000/"},
		{"display.local", "", "http://display.local/"},
	}
	for _, tc := range cases {
		t.Run(tc.listen, func(t *testing.T) {
			assert.Equal(t, tc.want, PreviewURL(tc.listen, tc.ip))
		})
	}
}
