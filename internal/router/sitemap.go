package router

import (
	"encoding/xml"
	"net/http"
	"os"
)

type sitemapURL struct {
	Loc        string  `xml:"loc"`
	ChangeFreq string  `xml:"changefreq,omitempty"`
	Priority   float64 `xml:"priority,omitempty"`
}

type sitemap struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

// serveSitemap lists the public pages. SITE_BASE_URL sets the host; the
// default matches local dev.
func serveSitemap(w http.ResponseWriter, _ *http.Request) {
	base := os.Getenv("SITE_BASE_URL")
	if base == "" {
		base = "http://localhost:3000"
	}

	sm := sitemap{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs: []sitemapURL{
			{Loc: base + "/", ChangeFreq: "daily", Priority: 1.0},
			{Loc: base + "/posts", ChangeFreq: "hourly", Priority: 0.9},
			{Loc: base + "/shelters", ChangeFreq: "daily", Priority: 0.7},
			{Loc: base + "/login", ChangeFreq: "monthly", Priority: 0.3},
			{Loc: base + "/signup", ChangeFreq: "monthly", Priority: 0.3},
		},
	}

	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(xml.Header))
	_ = xml.NewEncoder(w).Encode(sm)
}
