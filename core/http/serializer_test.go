package http

import (
	"bytes"
	"testing"
)

func joinVectors(s *Serializer) []byte {
	var out []byte
	for _, v := range s.Vectors() {
		out = append(out, v...)
	}
	return out
}

func TestSerializeOK(t *testing.T) {
	body := []byte("hello")
	h := ResponseHeader{
		Status:      200,
		Version:     11,
		KeepAlive:   true,
		ContentType: ContentTypeLine([]byte("/index.html")),
		Body:        body,
	}

	var s Serializer
	s.Reset(&h)

	want := "HTTP/1.1 200 OK\r\n" +
		"Server: FastBeast\r\n" +
		"Content-Type: text/html\r\n" +
		"Connection: keep-alive\r\n" +
		"Content-Length: 5\r\n" +
		"\r\n" +
		"hello"
	if got := string(joinVectors(&s)); got != want {
		t.Errorf("Response mismatch:\ngot:  %q\nwant: %q", got, want)
	}
	if s.Size() != len(want) {
		t.Errorf("Expected size %d, got %d", len(want), s.Size())
	}
}

func TestSerializeEightVectors(t *testing.T) {
	h := ResponseHeader{
		Status:      200,
		Version:     11,
		KeepAlive:   true,
		ContentType: ContentTypeLine([]byte("/a.txt")),
		Body:        []byte("x"),
	}

	var s Serializer
	s.Reset(&h)

	vecs := s.Vectors()
	if len(vecs) != 8 {
		t.Fatalf("Expected exactly 8 vectors, got %d", len(vecs))
	}
	if string(vecs[1]) != "Server: FastBeast\r\n" {
		t.Errorf("Vector 1 should be the server line, got %q", vecs[1])
	}
	if string(vecs[4]) != "Content-Length: " {
		t.Errorf("Vector 4 should be the length prefix, got %q", vecs[4])
	}
	if string(vecs[6]) != "\r\n\r\n" {
		t.Errorf("Vector 6 should terminate the head, got %q", vecs[6])
	}
}

func TestSerializeNotFound(t *testing.T) {
	h := ResponseHeader{
		Status:      404,
		Version:     11,
		KeepAlive:   true,
		ContentType: ErrorContentTypeLine(),
		Body:        []byte("File not found\r\n"),
	}

	var s Serializer
	s.Reset(&h)

	want := "HTTP/1.1 404 Not Found\r\n" +
		"Server: FastBeast\r\n" +
		"Content-Type: application/text\r\n" +
		"Connection: keep-alive\r\n" +
		"Content-Length: 16\r\n" +
		"\r\n" +
		"File not found\r\n"
	if got := string(joinVectors(&s)); got != want {
		t.Errorf("Response mismatch:\ngot:  %q\nwant: %q", got, want)
	}
}

func TestSerializeHTTP10Close(t *testing.T) {
	h := ResponseHeader{
		Status:      200,
		Version:     10,
		KeepAlive:   false,
		ContentType: ContentTypeLine([]byte("/c.css")),
		Body:        []byte("body{}"),
	}

	var s Serializer
	s.Reset(&h)

	out := joinVectors(&s)
	if !bytes.HasPrefix(out, []byte("HTTP/1.0 200 OK\r\n")) {
		t.Errorf("Expected HTTP/1.0 status line, got %q", out[:20])
	}
	if !bytes.Contains(out, []byte("Connection: close\r\n")) {
		t.Error("Expected Connection: close")
	}
	if !bytes.Contains(out, []byte("Content-Type: text/css\r\n")) {
		t.Error("Expected text/css content type")
	}
}

func TestSerializeEmptyBody(t *testing.T) {
	h := ResponseHeader{
		Status:      200,
		Version:     11,
		KeepAlive:   true,
		ContentType: ErrorContentTypeLine(),
	}

	var s Serializer
	s.Reset(&h)

	out := joinVectors(&s)
	if !bytes.Contains(out, []byte("Content-Length: 0\r\n")) {
		t.Error("Expected Content-Length: 0 for an empty body")
	}
	if !bytes.HasSuffix(out, []byte("\r\n\r\n")) {
		t.Error("Expected the response to end at the head terminator")
	}
}

func TestSerializeReuse(t *testing.T) {
	var s Serializer

	h1 := ResponseHeader{Status: 200, Version: 11, KeepAlive: true,
		ContentType: ErrorContentTypeLine(), Body: []byte("first")}
	s.Reset(&h1)
	first := string(joinVectors(&s))

	h2 := ResponseHeader{Status: 404, Version: 10, KeepAlive: false,
		ContentType: ErrorContentTypeLine(), Body: []byte("second!")}
	s.Reset(&h2)
	second := string(joinVectors(&s))

	if !bytes.HasPrefix([]byte(first), []byte("HTTP/1.1 200 OK")) {
		t.Errorf("First response corrupted: %q", first)
	}
	if !bytes.HasPrefix([]byte(second), []byte("HTTP/1.0 404 Not Found")) {
		t.Errorf("Second response wrong: %q", second)
	}
	if !bytes.HasSuffix([]byte(second), []byte("second!")) {
		t.Errorf("Second body wrong: %q", second)
	}
}

func TestAppendInt(t *testing.T) {
	cases := []struct {
		n    int
		want string
	}{
		{0, "0"},
		{5, "5"},
		{42, "42"},
		{200, "200"},
		{16384, "16384"},
		{1 << 30, "1073741824"},
	}
	for _, tc := range cases {
		if got := string(appendInt(nil, tc.n)); got != tc.want {
			t.Errorf("appendInt(%d) = %q, want %q", tc.n, got, tc.want)
		}
	}
}

func BenchmarkSerialize(b *testing.B) {
	body := bytes.Repeat([]byte("x"), 4096)
	h := ResponseHeader{
		Status:      200,
		Version:     11,
		KeepAlive:   true,
		ContentType: ContentTypeLine([]byte("/app.js")),
		Body:        body,
	}

	var s Serializer
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.Reset(&h)
	}
}
