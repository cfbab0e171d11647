// Package view models the storefront's client navigation as an explicit
// state machine. The server reports the view a client should land on after
// auth and checkout, so the routing rules live here rather than inline in
// handlers.
package view

// View is one of the storefront's top-level screens
type View string

const (
	Home     View = "home"
	Cakes    View = "cakes"
	Cupcakes View = "cupcakes"
	Category View = "category"
	Admin    View = "admin"
	Cart     View = "cart"
	Orders   View = "orders"
)

// Event is a navigation trigger. All events are user-triggered except
// EventAuthenticated, which carries the signed-in role.
type Event string

const (
	EventGoHome        Event = "go_home"
	EventBrowseCakes   Event = "browse_cakes"
	EventBrowseCupcake Event = "browse_cupcakes"
	EventOpenCategory  Event = "open_category"
	EventOpenCart      Event = "open_cart"
	EventOpenOrders    Event = "open_orders"
	EventOpenAdmin     Event = "open_admin"
	EventBack          Event = "back"
	EventAuthenticated Event = "authenticated"
	EventCheckoutDone  Event = "checkout_done"
)

// transitions maps events to target views. Navigation is absolute: the
// target never depends on the current view, and there is no history
// stack, so back always lands on home.
var transitions = map[Event]View{
	EventGoHome:        Home,
	EventBrowseCakes:   Cakes,
	EventBrowseCupcake: Cupcakes,
	EventOpenCategory:  Category,
	EventOpenCart:      Cart,
	EventOpenOrders:    Orders,
	EventOpenAdmin:     Admin,
	EventBack:          Home,
	EventCheckoutDone:  Orders,
}

// Next returns the view reached from current by event. Unknown events
// leave the view unchanged. EventAuthenticated applies RuleAdminAutoRoute
// with the given role.
func Next(current View, event Event, role string) View {
	if event == EventAuthenticated {
		return RuleAdminAutoRoute(role)
	}
	if target, ok := transitions[event]; ok {
		return target
	}
	return current
}

// RuleAdminAutoRoute is the one forced transition in the storefront:
// completing authentication as an admin lands on the admin panel, any
// other role lands on home.
func RuleAdminAutoRoute(role string) View {
	if role == "admin" {
		return Admin
	}
	return Home
}

// Valid reports whether v names a known view
func Valid(v View) bool {
	switch v {
	case Home, Cakes, Cupcakes, Category, Admin, Cart, Orders:
		return true
	}
	return false
}
