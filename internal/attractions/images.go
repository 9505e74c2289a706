// Package attractions holds the curated stock imagery used when an
// attraction has no uploaded pictures yet. URLs point at verified Wikimedia
// Commons files so cards never render blank.
package attractions

import (
	"strings"

	"github.com/trippix/attractions/internal/models"
)

// StockImage is one curated entry, keyed by a normalized slug.
type StockImage struct {
	Name string
	URL  string
}

var stockImages = map[string]StockImage{
	"taj-mahal": {
		Name: "Taj Mahal",
		URL:  "https://upload.wikimedia.org/wikipedia/commons/thumb/e/e7/Taj_Mahal%2C_Agra%2C_India_edit3.jpg/1200px-Taj_Mahal%2C_Agra%2C_India_edit3.jpg",
	},
	"hawa-mahal": {
		Name: "Hawa Mahal",
		URL:  "https://upload.wikimedia.org/wikipedia/commons/thumb/0/06/Hawa_Mahal%2C_Jaipur%2C_Rajasthan.jpg/1200px-Hawa_Mahal%2C_Jaipur%2C_Rajasthan.jpg",
	},
	"india-gate": {
		Name: "India Gate",
		URL:  "https://upload.wikimedia.org/wikipedia/commons/thumb/9/92/India_Gate_Delhi_1.jpg/1200px-India_Gate_Delhi_1.jpg",
	},
	"jaipur-city-palace": {
		Name: "City Palace",
		URL:  "https://upload.wikimedia.org/wikipedia/commons/thumb/e/e5/City_Palace_Jaipur.jpg/1200px-City_Palace_Jaipur.jpg",
	},
	"city-palace": {
		Name: "City Palace",
		URL:  "https://upload.wikimedia.org/wikipedia/commons/thumb/e/e5/City_Palace_Jaipur.jpg/1200px-City_Palace_Jaipur.jpg",
	},
	"golden-temple": {
		Name: "Golden Temple",
		URL:  "https://upload.wikimedia.org/wikipedia/commons/thumb/e/ed/Golden_Temple%2C_Amritsar.jpg/1200px-Golden_Temple%2C_Amritsar.jpg",
	},
	"varanasi-ghats": {
		Name: "Varanasi Ghats",
		URL:  "https://upload.wikimedia.org/wikipedia/commons/thumb/1/1a/Varanasi_Ganges_Ghats_1.jpg/1200px-Varanasi_Ganges_Ghats_1.jpg",
	},
	"red-fort": {
		Name: "Red Fort",
		URL:  "https://upload.wikimedia.org/wikipedia/commons/thumb/4/4a/Lal_Qila_Delhi.JPG/1200px-Lal_Qila_Delhi.JPG",
	},
	"mysore-palace": {
		Name: "Mysore Palace",
		URL:  "https://upload.wikimedia.org/wikipedia/commons/thumb/0/0e/Mysore_Palace_Illuminated.jpg/1200px-Mysore_Palace_Illuminated.jpg",
	},
	"gateway-of-india": {
		Name: "Gateway of India",
		URL:  "https://upload.wikimedia.org/wikipedia/commons/thumb/b/b5/Gateway_of_India_by_Jon_Choo.jpg/1200px-Gateway_of_India_by_Jon_Choo.jpg",
	},
	"charminar": {
		Name: "Charminar",
		URL:  "https://upload.wikimedia.org/wikipedia/commons/thumb/1/16/Char_minar.jpg/1200px-Char_minar.jpg",
	},
	"amber-fort": {
		Name: "Amber Fort",
		URL:  "https://upload.wikimedia.org/wikipedia/commons/thumb/1/1d/Amer_Fort_Jaipur_1.jpg/1200px-Amer_Fort_Jaipur_1.jpg",
	},
}

const defaultImageURL = "https://upload.wikimedia.org/wikipedia/commons/thumb/9/92/India_Gate_Delhi_1.jpg/1200px-India_Gate_Delhi_1.jpg"

// locationImages maps a city to the signature attraction shown as its
// background.
var locationImages = map[string]string{
	"delhi":     stockImages["india-gate"].URL,
	"agra":      stockImages["taj-mahal"].URL,
	"jaipur":    stockImages["hawa-mahal"].URL,
	"mumbai":    stockImages["gateway-of-india"].URL,
	"hyderabad": stockImages["charminar"].URL,
	"amritsar":  stockImages["golden-temple"].URL,
	"varanasi":  stockImages["varanasi-ghats"].URL,
	"mysore":    stockImages["mysore-palace"].URL,
}

// Normalize turns a free-form attraction name into a slug: lowercased, runs
// of non-alphanumerics collapsed into single dashes, edge dashes trimmed.
func Normalize(name string) string {
	var b strings.Builder
	prevDash := true // suppress a leading dash
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			prevDash = false
			continue
		}
		if !prevDash {
			b.WriteByte('-')
			prevDash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// ImageURL resolves a stock image for an attraction name. Resolution order:
// exact slug, slug substring either direction, display-name substring either
// direction, then the generic fallback. Always returns a usable URL.
func ImageURL(name string) string {
	if name == "" {
		return defaultImageURL
	}

	normalized := Normalize(name)
	if img, ok := stockImages[normalized]; ok {
		return img.URL
	}

	for key, img := range stockImages {
		if strings.Contains(key, normalized) || strings.Contains(normalized, key) {
			return img.URL
		}
	}

	lower := strings.ToLower(name)
	for _, img := range stockImages {
		display := strings.ToLower(img.Name)
		if strings.Contains(display, lower) || strings.Contains(lower, display) {
			return img.URL
		}
	}

	return defaultImageURL
}

// LocationImageURL returns the background image for a city, or the generic
// fallback for cities without a curated entry.
func LocationImageURL(location string) string {
	if url, ok := locationImages[strings.ToLower(strings.TrimSpace(location))]; ok {
		return url
	}
	return defaultImageURL
}

// FallbackFor resolves stock imagery for an attraction: by its name first,
// falling through to the location background when the name resolves to
// nothing specific.
func FallbackFor(a models.Attraction) string {
	if url := ImageURL(a.Name); url != defaultImageURL {
		return url
	}
	return LocationImageURL(a.Location)
}
