package response

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	tests := []struct {
		name               string
		status             Status
		expectedStatusLine string
		expectedBodyPart   string
	}{
		{
			name:               "OK",
			status:             StatusOK,
			expectedStatusLine: "HTTP/1.1 200 OK",
			expectedBodyPart:   "Hello, World!",
		},
		{
			name:               "Bad Request",
			status:             StatusBadRequest,
			expectedStatusLine: "HTTP/1.1 400 Bad Request",
			expectedBodyPart:   "400 Bad Request",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := string(Render(tt.status))

			head, body, found := strings.Cut(raw, "\r\n\r\n")
			require.True(t, found, "Response has no header/body separator")

			lines := strings.Split(head, "\r\n")
			assert.Equal(t, tt.expectedStatusLine, lines[0], "Unexpected status line")
			assert.Contains(t, lines, "Content-Type: text/html; charset=utf-8", "Missing Content-Type header")
			assert.Contains(t, lines, "Connection: close", "Missing Connection header")
			assert.Contains(t, lines, "Content-Length: "+strconv.Itoa(len(body)), "Content-Length does not match body length")
			assert.Contains(t, body, tt.expectedBodyPart, "Unexpected body")
		})
	}
}

func TestRenderIsPure(t *testing.T) {
	for _, status := range []Status{StatusOK, StatusBadRequest} {
		assert.Equal(t, Render(status), Render(status), "Repeated renders differ")
	}
}
