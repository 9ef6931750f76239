package notify

import (
	"fmt"

	"pricewatch/internal/domain"
)

const titleLimit = 24

// Render produces the message for a notification kind about a product.
// It is pure: the same kind and product always yield the same message,
// so bodies can be asserted on without a transport.
func Render(kind Kind, p domain.Product) (Message, error) {
	title := shorten(p.Title, titleLimit)

	switch kind {
	case KindWelcome:
		return Message{
			Subject: fmt.Sprintf("Welcome to price tracking for %s", title),
			Body: fmt.Sprintf(
				`<div><h2>You are now tracking %s</h2>`+
					`<p>We will email you when the price drops or the product comes back in stock.</p>`+
					`<p>Keep an eye on <a href="%s" target="_blank">%s</a>.</p></div>`,
				title, p.URL, p.Title),
		}, nil
	case KindBackInStock:
		return Message{
			Subject: fmt.Sprintf("%s is back in stock!", title),
			Body: fmt.Sprintf(
				`<div><h2>%s is available again</h2>`+
					`<p>Grab it before it sells out: <a href="%s" target="_blank">%s</a>.</p></div>`,
				title, p.URL, p.Title),
		}, nil
	case KindAllTimeLow:
		return Message{
			Subject: fmt.Sprintf("All-time low price for %s", title),
			Body: fmt.Sprintf(
				`<div><h2>%s has hit its lowest price ever</h2>`+
					`<p>Now %s %.2f — see <a href="%s" target="_blank">%s</a>.</p></div>`,
				title, p.Currency, p.CurrentPrice, p.URL, p.Title),
		}, nil
	case KindPriceDrop:
		return Message{
			Subject: fmt.Sprintf("Price drop alert for %s", title),
			Body: fmt.Sprintf(
				`<div><h2>%s dropped below the discount threshold</h2>`+
					`<p>Now %s %.2f (was listed at %s %.2f) — see <a href="%s" target="_blank">%s</a>.</p></div>`,
				title, p.Currency, p.CurrentPrice, p.Currency, p.OriginalPrice, p.URL, p.Title),
		}, nil
	default:
		return Message{}, fmt.Errorf("unknown notification kind %q", kind)
	}
}

func shorten(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
