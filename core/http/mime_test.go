package http

import "testing"

func TestContentTypeLine(t *testing.T) {
	cases := []struct {
		target string
		mime   string
	}{
		{"/index.htm", "text/html"},
		{"/index.html", "text/html"},
		{"/legacy.php", "text/html"},
		{"/site.css", "text/css"},
		{"/readme.txt", "text/plain"},
		{"/app.js", "application/javascript"},
		{"/data.json", "application/json"},
		{"/feed.xml", "application/xml"},
		{"/game.swf", "application/x-shockwave-flash"},
		{"/clip.flv", "video/x-flv"},
		{"/logo.png", "image/png"},
		{"/pic.jpe", "image/jpeg"},
		{"/pic.jpeg", "image/jpeg"},
		{"/pic.jpg", "image/jpeg"},
		{"/anim.gif", "image/gif"},
		{"/old.bmp", "image/bmp"},
		{"/favicon.ico", "image/vnd.microsoft.icon"},
		{"/scan.tiff", "image/tiff"},
		{"/scan.tif", "image/tiff"},
		{"/art.svg", "image/svg+xml"},
		{"/art.svgz", "image/svg+xml"},
		// Unknown or missing extensions fall back.
		{"/archive.tar", "application/text"},
		{"/noext", "application/text"},
		{"/", "application/text"},
	}

	for _, tc := range cases {
		want := "Content-Type: " + tc.mime + "\r\n"
		if got := string(ContentTypeLine([]byte(tc.target))); got != want {
			t.Errorf("%s: got %q, want %q", tc.target, got, want)
		}
	}
}

func TestContentTypeLineCaseInsensitive(t *testing.T) {
	for _, target := range []string{"/INDEX.HTML", "/index.Html", "/PIC.JpG"} {
		line := string(ContentTypeLine([]byte(target)))
		if line != "Content-Type: text/html\r\n" && line != "Content-Type: image/jpeg\r\n" {
			t.Errorf("%s: unexpected content type %q", target, line)
		}
	}
}

func TestContentTypeLineLastDotWins(t *testing.T) {
	// The extension is the substring from the final dot.
	if got := string(ContentTypeLine([]byte("/app.min.js"))); got != "Content-Type: application/javascript\r\n" {
		t.Errorf("Expected javascript for .min.js, got %q", got)
	}
	if got := string(ContentTypeLine([]byte("/weird.html.bak"))); got != "Content-Type: application/text\r\n" {
		t.Errorf("Expected fallback for .bak, got %q", got)
	}
}

func TestErrorContentTypeLine(t *testing.T) {
	if got := string(ErrorContentTypeLine()); got != "Content-Type: application/text\r\n" {
		t.Errorf("Expected application/text, got %q", got)
	}
}
