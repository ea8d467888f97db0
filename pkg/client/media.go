// Copyright (c) 2026 Vadali. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package client

import (
	"net/url"
	"strings"
)

// MediaRewriter moves image references onto a public media host.
//
// Relative paths and URLs on one of StoreHosts are rewritten onto Base,
// keeping their path and query. Everything else is returned unchanged.
type MediaRewriter struct {
	Base string

	// StoreHosts lists hosts that serve raw uploads. A leading "*." matches
	// any subdomain.
	StoreHosts []string
}

// RewriteImageURL rewrites raw onto base when it is relative or lives on
// one of storeHosts.
func RewriteImageURL(raw, base string, storeHosts ...string) string {
	return MediaRewriter{Base: base, StoreHosts: storeHosts}.Rewrite(raw)
}

// Rewrite applies the rewriter to one reference.
func (rewriter MediaRewriter) Rewrite(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || rewriter.Base == "" {
		return raw
	}
	if strings.HasPrefix(raw, "data:") || strings.HasPrefix(raw, "blob:") {
		return raw
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	if parsed.IsAbs() || strings.HasPrefix(raw, "//") {
		if !rewriter.isStoreHost(parsed.Hostname()) {
			return raw
		}
	}

	rewritten := strings.TrimRight(rewriter.Base, "/") + "/" + strings.TrimLeft(parsed.EscapedPath(), "/")
	if parsed.RawQuery != "" {
		rewritten += "?" + parsed.RawQuery
	}
	return rewritten
}

// RewriteArticle rewrites the cover image and gallery of an article in place.
func (rewriter MediaRewriter) RewriteArticle(article *Article) {
	article.CoverImageURL = rewriter.Rewrite(article.CoverImageURL)
	for i, image := range article.ImageURLs {
		article.ImageURLs[i] = rewriter.Rewrite(image)
	}
}

func (rewriter MediaRewriter) isStoreHost(host string) bool {
	host = strings.ToLower(host)
	for _, candidate := range rewriter.StoreHosts {
		candidate = strings.ToLower(candidate)
		if suffix, ok := strings.CutPrefix(candidate, "*."); ok {
			if strings.HasSuffix(host, "."+suffix) {
				return true
			}
			continue
		}
		if host == candidate {
			return true
		}
	}
	return false
}
