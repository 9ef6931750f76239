package scraper

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"pricewatch/internal/domain"
)

// currencyCodes maps the symbols seen on listing pages to ISO codes.
var currencyCodes = map[string]string{
	"$": "USD",
	"€": "EUR",
	"£": "GBP",
	"₹": "INR",
	"¥": "JPY",
}

// Parse extracts a Snapshot from a product listing document. Title and a
// positive current price are mandatory; a page without them yields
// domain.ErrSnapshotIncomplete.
func Parse(doc *goquery.Document, url string) (*domain.Snapshot, error) {
	title := strings.TrimSpace(doc.Find("#productTitle").First().Text())

	currentPrice := firstPrice(doc,
		".priceToPay span.a-price-whole",
		".a-price.a-text-price span.a-offscreen",
		"span.a-price span.a-offscreen",
		"#priceblock_ourprice",
	)
	originalPrice := firstPrice(doc,
		"#priceblock_ourprice",
		".a-price.a-text-price span.a-offscreen",
		"#listPrice",
		".a-size-base.a-color-price",
	)
	if originalPrice == 0 {
		originalPrice = currentPrice
	}

	if title == "" || currentPrice <= 0 {
		return nil, fmt.Errorf("parse %s: %w", url, domain.ErrSnapshotIncomplete)
	}

	currency := "USD"
	symbol := strings.TrimSpace(doc.Find(".a-price-symbol").First().Text())
	if code, ok := currencyCodes[symbol]; ok {
		currency = code
	}

	availability := strings.ToLower(strings.TrimSpace(doc.Find("#availability span").First().Text()))
	outOfStock := strings.Contains(availability, "currently unavailable")

	image, _ := doc.Find("#landingImage").First().Attr("src")
	if image == "" {
		image, _ = doc.Find("#imgBlkFront").First().Attr("src")
	}

	description := strings.TrimSpace(doc.Find("#productDescription").First().Text())
	if description == "" {
		var bullets []string
		doc.Find("#feature-bullets li span").Each(func(_ int, sel *goquery.Selection) {
			if text := strings.TrimSpace(sel.Text()); text != "" {
				bullets = append(bullets, text)
			}
		})
		description = strings.Join(bullets, "\n")
	}

	stars := leadingFloat(doc.Find("#acrPopover").First().AttrOr("title", ""))
	reviews := int(leadingFloat(doc.Find("#acrCustomerReviewText").First().Text()))

	discount := 0
	if originalPrice > currentPrice && originalPrice > 0 {
		discount = int((originalPrice - currentPrice) / originalPrice * 100)
	}

	return &domain.Snapshot{
		URL:           url,
		Title:         title,
		Currency:      currency,
		Image:         image,
		Description:   description,
		CurrentPrice:  currentPrice,
		OriginalPrice: originalPrice,
		DiscountRate:  discount,
		Stars:         stars,
		ReviewsCount:  reviews,
		IsOutOfStock:  outOfStock,
	}, nil
}

// firstPrice tries selectors in order and returns the first parsable price.
func firstPrice(doc *goquery.Document, selectors ...string) float64 {
	for _, sel := range selectors {
		if price := parsePrice(doc.Find(sel).First().Text()); price > 0 {
			return price
		}
	}
	return 0
}

// parsePrice strips everything but digits and separators from a price label
// like "$1,299.99" and parses the remainder.
func parsePrice(raw string) float64 {
	var b strings.Builder
	for _, r := range strings.TrimSpace(raw) {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	cleaned := strings.Trim(b.String(), ".")
	// Labels like "1.299.99" keep only the last dot as the decimal separator.
	if parts := strings.Split(cleaned, "."); len(parts) > 2 {
		cleaned = strings.Join(parts[:len(parts)-1], "") + "." + parts[len(parts)-1]
	}
	price, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return price
}

// leadingFloat parses the first number in strings like "4.3 out of 5 stars"
// or "1,024 ratings".
func leadingFloat(raw string) float64 {
	raw = strings.TrimSpace(raw)
	var b strings.Builder
	for _, r := range raw {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
			continue
		}
		if r == ',' {
			continue
		}
		break
	}
	value, err := strconv.ParseFloat(strings.Trim(b.String(), "."), 64)
	if err != nil {
		return 0
	}
	return value
}
