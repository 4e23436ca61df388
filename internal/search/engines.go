package search

import "net/http"

// GoogleConfig is the HTML result page layout of www.google.com.
// Result anchors sit under h3 headings and point at /url?q=<target>.
func GoogleConfig(userAgent string, client *http.Client) HTMLConfig {
	return HTMLConfig{
		Name:        "google",
		URLTemplate: "https://www.google.com/search?q=" + QueryPlaceholder,
		Selector:    "h3 > a",
		Unwrap:      UnwrapQueryParam("q", "url"),
		UserAgent:   userAgent,
		Client:      client,
	}
}

// DuckDuckGoConfig is the layout of the html.duckduckgo.com endpoint, whose
// anchors redirect through /l/?uddg=<target>.
func DuckDuckGoConfig(userAgent string, client *http.Client) HTMLConfig {
	return HTMLConfig{
		Name:        "duckduckgo",
		URLTemplate: "https://html.duckduckgo.com/html/?q=" + QueryPlaceholder,
		Selector:    "a.result__a",
		Unwrap:      UnwrapQueryParam("uddg"),
		UserAgent:   userAgent,
		Client:      client,
	}
}

// Builtin returns the engine layouts the bot ships with, in registration order.
func Builtin(userAgent string, client *http.Client) []HTMLConfig {
	return []HTMLConfig{
		GoogleConfig(userAgent, client),
		DuckDuckGoConfig(userAgent, client),
	}
}
