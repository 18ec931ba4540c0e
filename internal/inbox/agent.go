package inbox

import (
	"strings"

	"github.com/mssola/useragent"
)

// describeAgent condenses a User-Agent header to "Browser on OS".
func describeAgent(header string) string {
	if header == "" {
		return ""
	}
	ua := useragent.New(header)
	if ua.Bot() {
		return "bot"
	}

	browser, _ := ua.Browser()
	os := ua.OS()
	switch {
	case browser != "" && os != "":
		return browser + " on " + os
	case browser != "":
		return browser
	case os != "":
		return os
	}
	return strings.TrimSpace(header)
}
