package service

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/tm-acme-shop/acme-shop-orderbot-service/internal/cart"
	"github.com/tm-acme-shop/acme-shop-orderbot-service/internal/menu"
	"github.com/tm-acme-shop/acme-shop-orderbot-service/internal/metrics"
	"github.com/tm-acme-shop/acme-shop-orderbot-service/internal/models"
	"github.com/tm-acme-shop/acme-shop-orderbot-service/internal/nlu"
)

// Intent is the class a message is routed to.
type Intent string

const (
	IntentGreeting       Intent = "greeting"
	IntentShowMenu       Intent = "show_menu"
	IntentRecommend      Intent = "recommend"
	IntentAddToCart      Intent = "add_to_cart"
	IntentRemoveFromCart Intent = "remove_from_cart"
	IntentShowCart       Intent = "show_cart"
	IntentCheckout       Intent = "checkout"
	IntentTrackOrder     Intent = "track_order"
	IntentBrowseCategory Intent = "browse_category"
	IntentHelp           Intent = "help"
	IntentFallback       Intent = "fallback"
)

const (
	suggestShowMenu  = "Show menu"
	suggestCart      = "What's in my cart?"
	suggestCheckout  = "Checkout"
	suggestTrack     = "Check status"
	suggestHelp      = "Help"
	menuPreviewItems = 3
)

// Patterns run against normalized text, so apostrophes are already spaces ("i ll have").
var (
	greetingPattern  = regexp.MustCompile(`\b(hi|hello|hey|good (morning|afternoon|evening))\b`)
	menuPattern      = regexp.MustCompile(`(show|see|open).*(menu)|\bmenu\b`)
	recommendPattern = regexp.MustCompile(`recommend|suggest|what.*good|best seller|popular`)
	addPattern       = regexp.MustCompile(`\b(order|add|get|i want|i ll have|give me|i would like)\b`)
	removePattern    = regexp.MustCompile(`\b(remove|delete|take.*off|no (longer )?want)\b`)
	removeAllPattern = regexp.MustCompile(`\ball\b`)
	cartPattern      = regexp.MustCompile(`cart|basket|my order|what (do i|is) (have|in)`)
	checkoutPattern  = regexp.MustCompile(`checkout|place order|pay|complete|submit`)
	trackPattern     = regexp.MustCompile(`track|where.*order|status`)
	helpPattern      = regexp.MustCompile(`help|how.*(work|order)|what.*can.*you.*do`)
)

// categoryKeywords are checked in order as plain substrings.
var categoryKeywords = []struct {
	keyword  string
	category string
}{
	{"burger", "Burgers"},
	{"pizza", "Pizza"},
	{"salad", "Salads"},
	{"drink", "Drinks"},
}

// Reply is the conversational part of a routed message.
type Reply struct {
	Text        string
	Suggestions []string
}

func (r *Reply) suggest(s ...string) {
	r.Suggestions = append(r.Suggestions, s...)
}

type rule struct {
	intent Intent
	match  func(text string) bool
	handle func(sess *SessionState, text string) Reply
}

// IntentRouter classifies normalized text with an ordered rule list. The first matching
// rule handles the message; the last rule always matches.
type IntentRouter struct {
	rules   []rule
	catalog *menu.Catalog
	matcher *nlu.ItemMatcher
	tracker *OrderTracker
	taxRate float64
	metrics *metrics.Metrics
}

func NewIntentRouter(catalog *menu.Catalog, tracker *OrderTracker, taxRate float64, m *metrics.Metrics) *IntentRouter {
	r := &IntentRouter{
		catalog: catalog,
		matcher: nlu.NewItemMatcher(catalog.Items()),
		tracker: tracker,
		taxRate: taxRate,
		metrics: m,
	}

	r.rules = []rule{
		{IntentGreeting, greetingPattern.MatchString, r.greeting},
		{IntentShowMenu, menuPattern.MatchString, r.showMenu},
		{IntentRecommend, recommendPattern.MatchString, r.recommend},
		{IntentAddToCart, addPattern.MatchString, r.addToCart},
		{IntentRemoveFromCart, removePattern.MatchString, r.removeFromCart},
		{IntentShowCart, cartPattern.MatchString, r.showCart},
		{IntentCheckout, checkoutPattern.MatchString, r.checkout},
		{IntentTrackOrder, trackPattern.MatchString, r.trackOrder},
		{IntentBrowseCategory, func(text string) bool { return matchCategory(text) != "" }, r.browseCategory},
		{IntentHelp, helpPattern.MatchString, r.help},
		{IntentFallback, func(string) bool { return true }, r.fallback},
	}

	return r
}

// Classify returns the intent of normalized text without handling it.
func (r *IntentRouter) Classify(text string) Intent {
	for _, rl := range r.rules {
		if rl.match(text) {
			return rl.intent
		}
	}
	return IntentFallback
}

// Route handles normalized text against the session and returns the intent and reply.
func (r *IntentRouter) Route(sess *SessionState, text string) (Intent, Reply) {
	for _, rl := range r.rules {
		if rl.match(text) {
			return rl.intent, rl.handle(sess, text)
		}
	}
	return IntentFallback, r.fallback(sess, text)
}

func (r *IntentRouter) total(c models.Cart) float64 {
	return cart.CalculateTotals(c, r.taxRate).Total
}

func (r *IntentRouter) greeting(_ *SessionState, _ string) Reply {
	rep := Reply{Text: "Hi! I'm your ordering assistant. Want to see the menu or get a recommendation?"}
	rep.suggest(suggestShowMenu, "Recommend something", suggestCart)
	return rep
}

func (r *IntentRouter) showMenu(_ *SessionState, _ string) Reply {
	var lines []string
	for _, group := range r.catalog.Categories() {
		items := group.Items
		if len(items) > menuPreviewItems {
			items = items[:menuPreviewItems]
		}
		tops := make([]string, len(items))
		for i, item := range items {
			tops[i] = fmt.Sprintf("%s ($%.2f)", item.Name, item.Price)
		}
		lines = append(lines, fmt.Sprintf("• %s: %s", group.Name, strings.Join(tops, ", ")))
	}

	rep := Reply{Text: "Here's a quick look at our menu:\n" + strings.Join(lines, "\n") +
		"\n\nTell me what you'd like. For example: “Order 2 Cheeseburgers”"}
	rep.suggest("Order 1 Margherita Pizza", "Order 2 Cheeseburger", "Recommend a combo")
	return rep
}

func (r *IntentRouter) recommend(_ *SessionState, _ string) Reply {
	rep := Reply{Text: "Our most popular choices are Pepperoni Pizza and the Classic Burger. Thirsty? Cola pairs nicely!"}
	rep.suggest("Order 1 Pepperoni Pizza", "Order 1 Classic Burger + Cola", "Show salads")
	return rep
}

func (r *IntentRouter) addToCart(sess *SessionState, text string) Reply {
	qty := nlu.ParseQuantity(text)
	item, ok := r.matcher.Match(text)
	if !ok {
		rep := Reply{Text: "I couldn't tell which item you want. Try “Order 1 Margherita Pizza” or ask me to show the menu."}
		rep.suggest(suggestShowMenu)
		return rep
	}

	sess.SetCart(cart.Add(sess.Cart, item, qty))
	r.metrics.CartMutation("add")

	rep := Reply{Text: fmt.Sprintf("Added %d × %s. Current total is $%.2f. Anything else?", qty, item.Name, r.total(sess.Cart))}
	rep.suggest(suggestCheckout, "Add a drink", suggestCart)
	return rep
}

func (r *IntentRouter) removeFromCart(sess *SessionState, text string) Reply {
	qty := cart.RemoveAll
	if !removeAllPattern.MatchString(text) {
		qty = nlu.ParseQuantity(text)
	}

	item, ok := r.matcher.Match(text)
	if !ok {
		rep := Reply{Text: "Which item should I remove? e.g., “Remove 1 Cola” or “Remove all pizzas”"}
		rep.suggest(suggestCart)
		return rep
	}

	updated, removed := cart.Remove(sess.Cart, item, qty)
	if removed == 0 {
		rep := Reply{Text: fmt.Sprintf("I didn't find %s in your cart.", item.Name)}
		rep.suggest(suggestShowMenu)
		return rep
	}
	sess.SetCart(updated)
	r.metrics.CartMutation("remove")

	amount := "all"
	if qty != cart.RemoveAll {
		amount = fmt.Sprintf("%d", removed)
	}
	return Reply{Text: fmt.Sprintf("Removed %s × %s. New total: $%.2f.", amount, item.Name, r.total(sess.Cart))}
}

func (r *IntentRouter) showCart(sess *SessionState, _ string) Reply {
	if len(sess.Cart) == 0 {
		rep := Reply{Text: "Your cart is empty. Want me to show the menu?"}
		rep.suggest(suggestShowMenu)
		return rep
	}

	lines := make([]string, len(sess.Cart))
	for i, line := range sess.Cart {
		lines[i] = fmt.Sprintf("• %d × %s — $%.2f", line.Qty, line.Name, line.Price*float64(line.Qty))
	}
	totals := cart.CalculateTotals(sess.Cart, r.taxRate)

	rep := Reply{Text: fmt.Sprintf("Here’s your cart:\n%s\nSubtotal: $%.2f\nTax: $%.2f\nTotal: $%.2f",
		strings.Join(lines, "\n"), totals.Subtotal, totals.Tax, totals.Total)}
	rep.suggest(suggestCheckout, "Remove an item")
	return rep
}

func (r *IntentRouter) checkout(sess *SessionState, _ string) Reply {
	order, err := r.tracker.Checkout(sess)
	if errors.Is(err, ErrEmptyCart) {
		rep := Reply{Text: "Your cart is empty. Add something first?"}
		rep.suggest(suggestShowMenu)
		return rep
	}

	r.metrics.OrderPlaced()
	rep := Reply{Text: fmt.Sprintf("Order placed! Your order number is %s. You'll receive it in about 20–30 minutes. Anything else?", order.ID)}
	rep.suggest(suggestTrack)
	return rep
}

func (r *IntentRouter) trackOrder(sess *SessionState, _ string) Reply {
	status, err := r.tracker.Track(sess)
	if errors.Is(err, ErrNoRecentOrder) {
		rep := Reply{Text: "I don't see a recent order. Would you like to start one?"}
		rep.suggest(suggestShowMenu)
		return rep
	}
	return Reply{Text: fmt.Sprintf("Order %s is being prepared. ETA ~%d minutes.", status.OrderID, status.ETAMinutes)}
}

func (r *IntentRouter) browseCategory(_ *SessionState, text string) Reply {
	name := matchCategory(text)
	items := r.catalog.Category(name)
	if len(items) == 0 {
		return r.fallback(nil, text)
	}

	lines := make([]string, len(items))
	for i, item := range items {
		lines[i] = fmt.Sprintf("• %s ($%.2f)", item.Name, item.Price)
	}

	rep := Reply{Text: fmt.Sprintf("%s options:\n%s", name, strings.Join(lines, "\n"))}
	rep.suggest("Order 1 " + items[0].Name)
	return rep
}

func (r *IntentRouter) help(_ *SessionState, _ string) Reply {
	rep := Reply{Text: "Try messages like: “Show menu”, “Order 2 cheeseburgers and a cola”, “Remove 1 cola”, “Checkout”, or “Check status”."}
	rep.suggest(suggestShowMenu, "Order 1 Margherita Pizza", suggestCart)
	return rep
}

func (r *IntentRouter) fallback(_ *SessionState, _ string) Reply {
	rep := Reply{Text: "Sorry, I didn't get that. You can say “Show menu” or “Recommend something”."}
	rep.suggest(suggestShowMenu, suggestHelp)
	return rep
}

func matchCategory(text string) string {
	for _, c := range categoryKeywords {
		if strings.Contains(text, c.keyword) {
			return c.category
		}
	}
	return ""
}
