package http

import (
	"bytes"

	"github.com/djarek/fastbeast/core/optimize"
)

// The content-type table. Values are complete header lines so the
// serializer can emit each as a single gathered slice. Order matters:
// lookup walks the table front to back.
type mimeEntry struct {
	ext  []byte
	line []byte
}

func ctLine(mime string) []byte {
	return []byte("Content-Type: " + mime + "\r\n")
}

var (
	ctHTML    = ctLine("text/html")
	ctCSS     = ctLine("text/css")
	ctPlain   = ctLine("text/plain")
	ctJS      = ctLine("application/javascript")
	ctJSON    = ctLine("application/json")
	ctXML     = ctLine("application/xml")
	ctSWF     = ctLine("application/x-shockwave-flash")
	ctFLV     = ctLine("video/x-flv")
	ctPNG     = ctLine("image/png")
	ctJPEG    = ctLine("image/jpeg")
	ctGIF     = ctLine("image/gif")
	ctBMP     = ctLine("image/bmp")
	ctICO     = ctLine("image/vnd.microsoft.icon")
	ctTIFF    = ctLine("image/tiff")
	ctSVG     = ctLine("image/svg+xml")
	ctDefault = ctLine("application/text")
)

var mimeTable = []mimeEntry{
	{[]byte(".htm"), ctHTML},
	{[]byte(".html"), ctHTML},
	{[]byte(".php"), ctHTML},
	{[]byte(".css"), ctCSS},
	{[]byte(".txt"), ctPlain},
	{[]byte(".js"), ctJS},
	{[]byte(".json"), ctJSON},
	{[]byte(".xml"), ctXML},
	{[]byte(".swf"), ctSWF},
	{[]byte(".flv"), ctFLV},
	{[]byte(".png"), ctPNG},
	{[]byte(".jpe"), ctJPEG},
	{[]byte(".jpeg"), ctJPEG},
	{[]byte(".jpg"), ctJPEG},
	{[]byte(".gif"), ctGIF},
	{[]byte(".bmp"), ctBMP},
	{[]byte(".ico"), ctICO},
	{[]byte(".tiff"), ctTIFF},
	{[]byte(".tif"), ctTIFF},
	{[]byte(".svg"), ctSVG},
	{[]byte(".svgz"), ctSVG},
}

// ContentTypeLine returns the content-type header line for a request
// target, chosen by case-insensitive match on the extension (the
// substring from the final '.' to the end). Unknown or missing
// extensions get application/text.
func ContentTypeLine(target []byte) []byte {
	dot := bytes.LastIndexByte(target, '.')
	if dot == -1 {
		return ctDefault
	}
	ext := target[dot:]
	for i := range mimeTable {
		if optimize.EqualFoldASCII(ext, mimeTable[i].ext) {
			return mimeTable[i].line
		}
	}
	return ctDefault
}

// ErrorContentTypeLine is the content-type carried by the synthesized
// 404/400 bodies.
func ErrorContentTypeLine() []byte {
	return ctDefault
}
