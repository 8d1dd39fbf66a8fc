// Package response renders the fixed HTTP/1.1 responses the server can send.
package response

import "fmt"

type Status int

const (
	StatusOK Status = iota
	StatusBadRequest
)

const okBody = `<!DOCTYPE html>
<html>
<head>
    <title>Hello World</title>
</head>
<body>
    <h1>Hello, World!</h1>
</body>
</html>`

const badRequestBody = `<!DOCTYPE html>
<html>
<head>
    <title>Bad Request</title>
</head>
<body>
    <h1>400 Bad Request</h1>
</body>
</html>`

// Render produces the complete response bytes for a status. Content-Length
// is the byte length of the body, not its rune count. Any status other than
// StatusOK renders as 400; the protocol surface has no finer distinction.
func Render(status Status) []byte {
	statusLine, body := "400 Bad Request", badRequestBody
	if status == StatusOK {
		statusLine, body = "200 OK", okBody
	}

	return []byte(fmt.Sprintf(
		"HTTP/1.1 %s\r\nContent-Type: text/html; charset=utf-8\r\nConnection: close\r\nContent-Length: %d\r\n\r\n%s",
		statusLine, len(body), body))
}
