package utils

import (
	"bytes"

	"github.com/mogaika/fbxdoc/config"

	"golang.org/x/text/transform"
)

// BytesToString decodes 8-bit text up to first zero byte with configured charmap
func BytesToString(bs []byte) string {
	n := bytes.IndexByte(bs, 0)
	if n < 0 {
		n = len(bs)
	}

	s, _, err := transform.Bytes(config.GetEncoding().NewDecoder(), bs[0:n])
	if err != nil {
		return string(bs[0:n])
	}

	return string(s)
}

// DisplayString makes printable string from raw fbx name bytes.
// Valid utf8 is returned as is, anything else goes through charmap
func DisplayString(s string) string {
	if isPrintableUTF8(s) {
		return s
	}
	return BytesToString([]byte(s))
}

func isPrintableUTF8(s string) bool {
	for _, r := range s {
		if r == 0xfffd || r < 0x20 {
			return false
		}
	}
	return true
}
