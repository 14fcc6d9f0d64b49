package auth

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"math/big"
	"strings"

	"WarrantyDesk/internal/config"
)

// Ambiguous characters (0, O, I) are left out of the challenge alphabet.
const captchaCharset = "ABCDEFGHJKLMNPQRSTUVWXYZ123456789"

const (
	captchaWidth  = 500
	captchaHeight = 150
)

// GenerateCaptcha returns the challenge text and a self-contained SVG data
// URI the login page can drop into an img tag. Verification happens client
// side against the returned text.
func GenerateCaptcha() (string, string) {
	chars := make([]byte, config.CaptchaLength)
	for i := range chars {
		chars[i] = captchaCharset[randBelow(len(captchaCharset))]
	}
	text := string(chars)

	var svg strings.Builder
	fmt.Fprintf(&svg, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d">`, captchaWidth, captchaHeight)
	fmt.Fprintf(&svg, `<rect width="%d" height="%d" fill="white"/>`, captchaWidth, captchaHeight)
	for i := 0; i < 5; i++ {
		fmt.Fprintf(&svg, `<line x1="%d" y1="%d" x2="%d" y2="%d" stroke="lightgray" stroke-width="1"/>`,
			randBelow(captchaWidth), randBelow(captchaHeight), randBelow(captchaWidth), randBelow(captchaHeight))
	}
	for i, ch := range text {
		fmt.Fprintf(&svg, `<text x="%d" y="%d" fill="#FF8C00" font-size="80" font-family="Arial, sans-serif" font-weight="bold">%c</text>`,
			15+i*70, 80+randBelow(36), ch)
	}
	for i := 0; i < 50; i++ {
		fmt.Fprintf(&svg, `<circle cx="%d" cy="%d" r="1" fill="#FFD699"/>`,
			randBelow(captchaWidth), randBelow(captchaHeight))
	}
	svg.WriteString(`</svg>`)

	uri := "data:image/svg+xml;base64," + base64.StdEncoding.EncodeToString([]byte(svg.String()))
	return text, uri
}

func randBelow(n int) int {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0
	}
	return int(v.Int64())
}
