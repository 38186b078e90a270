package ingest

import (
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// decoders is the fallback chain for log files of unknown encoding. UTF-8 is
// accepted only when the bytes validate; the single-byte charmaps never fail,
// so the chain always terminates. Windows-1252 sits before Latin-1 because it
// is a superset on the printable range these testers emit.
var decoders = []struct {
	name string
	enc  encoding.Encoding
}{
	{"windows-1252", charmap.Windows1252},
	{"iso-8859-1", charmap.ISO8859_1},
}

// ReadLines reads a log file, decoding with the first encoding that accepts
// its bytes, replacing undecodable sequences rather than failing. Line
// endings are normalized; trailing carriage returns are stripped.
func ReadLines(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}
	var text string
	if utf8.Valid(data) {
		text = string(data)
	} else {
		text = decodeFallback(data)
	}
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines, nil
}

func decodeFallback(data []byte) string {
	for _, d := range decoders {
		out, err := d.enc.NewDecoder().Bytes(data)
		if err == nil {
			return string(out)
		}
	}
	// Lossy last resort: replace invalid UTF-8 sequences.
	return strings.ToValidUTF8(string(data), string(utf8.RuneError))
}
