package notify

// Kind identifies one of the closed set of notification events.
type Kind string

const (
	// KindWelcome is sent once when an email is first subscribed to a product.
	KindWelcome Kind = "WELCOME"
	// KindBackInStock is sent when a previously unavailable product becomes buyable.
	KindBackInStock Kind = "BACK_IN_STOCK"
	// KindAllTimeLow is sent when the current price undercuts every price ever observed.
	KindAllTimeLow Kind = "ALL_TIME_LOW"
	// KindPriceDrop is sent when the current price crosses the configured discount threshold.
	KindPriceDrop Kind = "PRICE_DROP"
)
