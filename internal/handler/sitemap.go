// Package handler — sitemap.go implements GET /sitemap.xml.
// The sitemap is generated from the same aggregation pipeline as the home
// and city listings, so every city URL it emits is a URL the city handler
// will actually resolve.
package handler

import (
	"encoding/xml"
	"net/http"
	"time"
)

// urlSet is the root element of the sitemap protocol.
type urlSet struct {
	XMLName xml.Name   `xml:"urlset"`
	Xmlns   string     `xml:"xmlns,attr"`
	URLs    []urlEntry `xml:"url"`
}

type urlEntry struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq,omitempty"`
	Priority   string `xml:"priority,omitempty"`
}

// GetSitemap handles GET /sitemap.xml.
// It emits the home page, one URL per city, and one URL per business with a
// slug. City lastmod is the newest updated_at among the city's members.
func (s *Server) GetSitemap(w http.ResponseWriter, r *http.Request) {
	idx, err := s.directory.Sitemap(r.Context())
	if err != nil {
		s.respondError(w, r, err, "")
		return
	}

	now := time.Now().UTC()
	set := urlSet{
		Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs: []urlEntry{
			{Loc: s.baseURL, LastMod: lastMod(now, now), ChangeFreq: "daily", Priority: "1.0"},
		},
	}

	for _, c := range idx.Cities {
		set.URLs = append(set.URLs, urlEntry{
			Loc:        s.baseURL + "/" + c.Slug,
			LastMod:    lastMod(c.LastModified, now),
			ChangeFreq: "weekly",
			Priority:   "0.9",
		})
	}
	for _, b := range idx.Businesses {
		set.URLs = append(set.URLs, urlEntry{
			Loc:        s.baseURL + "/business/" + b.Slug,
			LastMod:    lastMod(b.LastModified, now),
			ChangeFreq: "monthly",
			Priority:   "0.8",
		})
	}

	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	//nolint:errcheck — nothing useful to do if the client went away mid-write.
	w.Write([]byte(xml.Header))
	if err := xml.NewEncoder(w).Encode(set); err != nil {
		s.log.ErrorContext(r.Context(), "encode sitemap", "error", err)
	}
}

// lastMod formats t for a <lastmod> element, falling back to now when the
// source row had no usable timestamp.
func lastMod(t, now time.Time) string {
	if t.IsZero() {
		t = now
	}
	return t.UTC().Format("2006-01-02")
}
