package termimg

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Load returns the image bytes for src: decoded content when src is valid
// standard base64, otherwise the content of the file at src.
func Load(src string) ([]byte, error) {
	if b, err := base64.StdEncoding.Strict().DecodeString(src); err == nil && len(b) > 0 {
		return b, nil
	}
	b, err := os.ReadFile(src)
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	return b, nil
}

// IsMultiplexed reports whether term names a screen or tmux session.
func IsMultiplexed(term string) bool {
	return strings.HasPrefix(term, "screen")
}

// Encode wraps content in the iTerm2 inline image escape sequence, followed by
// a newline. Inside a multiplexer the sequence is passed through DCS.
func Encode(content []byte, inline, multiplexed bool) []byte {
	osc, st := "\033]", "\a"
	if multiplexed {
		osc, st = "\033Ptmux;\033\033]", "\a\033\\"
	}

	flag := 0
	if inline {
		flag = 1
	}

	var buf bytes.Buffer
	buf.WriteString(osc)
	buf.WriteString("1337;File=size=")
	buf.WriteString(strconv.Itoa(len(content)))
	buf.WriteString(";inline=")
	buf.WriteString(strconv.Itoa(flag))
	buf.WriteByte(':')
	buf.WriteString(base64.StdEncoding.EncodeToString(content))
	buf.WriteString(st)
	buf.WriteByte('\n')
	return buf.Bytes()
}
