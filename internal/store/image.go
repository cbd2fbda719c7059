package store

import (
	"fmt"
	"strings"

	"github.com/lennartdeknikker/jaco-line/internal/model"
)

// ImageURL builds a CDN URL for a stored image. Asset references look like
// "image-<assetId>-<WxH>-<ext>"; resolved assets carry the URL directly.
func (s *documentStore) ImageURL(img *model.Image, width int) string {
	if img == nil || img.Asset == nil {
		return ""
	}
	base := img.Asset.URL
	if base == "" {
		ref := strings.TrimPrefix(img.Asset.Ref, "image-")
		idx := strings.LastIndex(ref, "-")
		if idx < 0 {
			return ""
		}
		base = s.client.cdnBaseURL + "/" + ref[:idx] + "." + ref[idx+1:]
	}
	if width > 0 {
		return fmt.Sprintf("%s?w=%d&auto=format", base, width)
	}
	return base
}

// cleanSettings strips invisible characters the CMS editor tends to paste into
// contact info and social links, and drops links missing platform or url.
func cleanSettings(settings *model.SiteSettings) {
	settings.ContactInfo.Email = CleanString(settings.ContactInfo.Email)
	if settings.ContactInfo.Phone != nil {
		phone := CleanString(*settings.ContactInfo.Phone)
		settings.ContactInfo.Phone = &phone
	}

	links := settings.SocialLinks[:0]
	for _, link := range settings.SocialLinks {
		link.Platform = CleanString(link.Platform)
		link.URL = CleanString(link.URL)
		link.Label = CleanString(link.Label)
		if link.Platform == "" || link.URL == "" {
			continue
		}
		links = append(links, link)
	}
	settings.SocialLinks = links
}

// CleanString removes zero-width and non-breaking space characters and trims
// the result.
func CleanString(s string) string {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case '\u200b', '\u200c', '\u200d', '\ufeff', '\u00a0':
			return -1
		}
		return r
	}, s)
	return strings.TrimSpace(cleaned)
}
