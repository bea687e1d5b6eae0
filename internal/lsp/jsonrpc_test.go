package lsp

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"testing"
)

func TestJSONRPCFramingMultipleMessages(t *testing.T) {
	var buf bytes.Buffer
	msg1 := []byte(`{"jsonrpc":"2.0","method":"one"}`)
	msg2 := []byte(`{"jsonrpc":"2.0","method":"two"}`)

	if err := writeMessage(&buf, msg1); err != nil {
		t.Fatalf("write message 1: %v", err)
	}
	if err := writeMessage(&buf, msg2); err != nil {
		t.Fatalf("write message 2: %v", err)
	}

	reader := bufio.NewReader(bytes.NewReader(buf.Bytes()))
	got1, err := readMessage(reader)
	if err != nil {
		t.Fatalf("read message 1: %v", err)
	}
	got2, err := readMessage(reader)
	if err != nil {
		t.Fatalf("read message 2: %v", err)
	}

	if string(got1) != string(msg1) {
		t.Fatalf("unexpected message 1: %s", string(got1))
	}
	if string(got2) != string(msg2) {
		t.Fatalf("unexpected message 2: %s", string(got2))
	}
}

func TestJSONRPCFramingErrors(t *testing.T) {
	cases := map[string]string{
		"missing length": "Content-Type: x\r\n\r\n{}",
		"bad length":     "Content-Length: abc\r\n\r\n{}",
		"huge length":    "Content-Length: 999999999999\r\n\r\n{}",
		"short body":     "Content-Length: 10\r\n\r\n{}",
		"bad charset":    "Content-Length: 2\r\nContent-Type: application/vscode-jsonrpc; charset=latin1\r\n\r\n{}",
	}
	for name, raw := range cases {
		if _, err := readMessage(bufio.NewReader(bytes.NewReader([]byte(raw)))); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestJSONRPCFramingHeaders(t *testing.T) {
	raw := "content-length: 2\r\nContent-Type: application/vscode-jsonrpc; charset=utf8\r\n\r\n{}"
	got, err := readMessage(bufio.NewReader(bytes.NewReader([]byte(raw))))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(got) != "{}" {
		t.Fatalf("unexpected payload %q", got)
	}

	_, err = readMessage(bufio.NewReader(bytes.NewReader(nil)))
	if !errors.Is(err, io.EOF) {
		t.Fatalf("expected io.EOF at end of input, got %v", err)
	}
}
