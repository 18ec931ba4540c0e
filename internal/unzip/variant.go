package unzip

import "strings"

// DefaultToken is used when no rule matches the page.
const DefaultToken = "data.tar.gz"

// Rule maps a page to a filename token when Match reports true.
type Rule struct {
	Match func(title, path string) bool
	Token string
}

// Rules are evaluated in order; several may match the same page because
// they use substring checks, so the order is part of the contract.
var Rules = []Rule{
	{
		Match: func(title, path string) bool {
			return strings.Contains(title, "Home") || path == "/" || path == "/index"
		},
		Token: "system.tar.gz",
	},
	{Match: titleOrPath("whoami", "/whoami"), Token: "profile.tar.gz"},
	{Match: titleOrPath("workhistory", "/work"), Token: "workhistory.tar.gz"},
	{Match: titleOrPath("studies", "/studies"), Token: "studies.tar.gz"},
	{Match: titleOrPath("projects", "/ls"), Token: "projects.tar.gz"},
}

func titleOrPath(titleWord, pathPart string) func(string, string) bool {
	return func(title, path string) bool {
		return strings.Contains(title, titleWord) || strings.Contains(path, pathPart)
	}
}

// Select returns the token of the first rule matching title and path, or
// fallback when none does.
func Select(rules []Rule, title, path, fallback string) string {
	for _, r := range rules {
		if r.Match(title, path) {
			return r.Token
		}
	}
	return fallback
}

// SelectVariant picks the archive name shown on the page.
func SelectVariant(title, path string) string {
	return Select(Rules, title, path, DefaultToken)
}

// textFile is the name shown in the closing "cat" command.
func textFile(token string) string {
	return strings.Replace(token, ".tar.gz", ".txt", 1)
}
