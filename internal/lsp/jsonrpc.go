package lsp

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/textproto"
	"strconv"
	"strings"
)

// maxContentLength bounds a single frame.
const maxContentLength = 64 << 20

var (
	errMissingContentLength = errors.New("missing Content-Length header")
	errFrameTooLarge        = errors.New("frame exceeds size limit")
)

// readMessage reads one base-protocol frame: MIME-style headers, an empty
// line, then Content-Length bytes of JSON. Only utf-8 payloads are accepted.
func readMessage(r *bufio.Reader) ([]byte, error) {
	header, err := textproto.NewReader(r).ReadMIMEHeader()
	if err != nil {
		if errors.Is(err, io.EOF) && len(header) == 0 {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("read frame header: %w", err)
	}

	raw := header.Get("Content-Length")
	if raw == "" {
		return nil, errMissingContentLength
	}
	length, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || length < 0 {
		return nil, fmt.Errorf("invalid Content-Length %q", raw)
	}
	if length > maxContentLength {
		return nil, fmt.Errorf("Content-Length %d: %w", length, errFrameTooLarge)
	}
	if ct := header.Get("Content-Type"); ct != "" {
		if _, params, err := mime.ParseMediaType(ct); err == nil {
			// старые клиенты пишут utf8 без дефиса
			if cs := strings.ToLower(params["charset"]); cs != "" && cs != "utf-8" && cs != "utf8" {
				return nil, fmt.Errorf("unsupported charset %q", cs)
			}
		}
	}

	payload := make([]byte, length)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, fmt.Errorf("read frame body: %w", err)
	}
	return payload, nil
}

// writeMessage frames payload with a Content-Length header.
func writeMessage(w io.Writer, payload []byte) error {
	if _, err := fmt.Fprintf(w, "Content-Length: %d\r\n\r\n", len(payload)); err != nil {
		return err
	}
	_, err := w.Write(payload)
	return err
}
