package offline

import (
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/dmitrijs2005/alcancesol/internal/common"
)

// Kind is the caching policy class of a request.
type Kind int

const (
	KindPassthrough Kind = iota
	KindNavigation
	KindAsset
	KindDefault
)

func (k Kind) String() string {
	switch k {
	case KindPassthrough:
		return "passthrough"
	case KindNavigation:
		return "navigation"
	case KindAsset:
		return "asset"
	default:
		return "default"
	}
}

// assetDestinations are the Sec-Fetch-Dest values served stale-while-revalidate.
var assetDestinations = map[string]bool{
	"script": true,
	"style":  true,
	"image":  true,
	"font":   true,
}

// assetExtensions stand in for Sec-Fetch-Dest when a client does not send it.
var assetExtensions = map[string]bool{
	".js": true, ".mjs": true,
	".css": true,
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".svg": true,
	".webp": true, ".avif": true, ".ico": true,
	".woff": true, ".woff2": true, ".ttf": true, ".otf": true, ".eot": true,
}

// Classify picks the policy for req. origin is the controlled origin; a
// request without a host is taken as same-origin.
func Classify(req *http.Request, origin *url.URL) Kind {
	if !sameOrigin(req.URL, origin) {
		return KindPassthrough
	}
	if req.Method != http.MethodGet && req.Method != "" {
		return KindPassthrough
	}
	if strings.HasPrefix(req.URL.Path, common.APIPathPrefix) {
		return KindPassthrough
	}

	if mode := req.Header.Get("Sec-Fetch-Mode"); mode != "" {
		if mode == "navigate" {
			return KindNavigation
		}
	} else if strings.Contains(req.Header.Get("Accept"), "text/html") {
		return KindNavigation
	}

	if dest := req.Header.Get("Sec-Fetch-Dest"); dest != "" {
		if assetDestinations[dest] {
			return KindAsset
		}
		return KindDefault
	}
	if assetExtensions[strings.ToLower(path.Ext(req.URL.Path))] {
		return KindAsset
	}
	return KindDefault
}

func sameOrigin(u, origin *url.URL) bool {
	if u.Host == "" || origin == nil {
		return true
	}
	return strings.EqualFold(u.Scheme, origin.Scheme) && strings.EqualFold(u.Host, origin.Host)
}

// CacheKey is the entry key of u: its path and query.
func CacheKey(u *url.URL) string {
	return u.RequestURI()
}
