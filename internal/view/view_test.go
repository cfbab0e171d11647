package view

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
)

func allViews() []View {
	return []View{Home, Cakes, Cupcakes, Category, Admin, Cart, Orders}
}

func TestTransitionTable(t *testing.T) {
	cases := []struct {
		event  Event
		target View
	}{
		{EventGoHome, Home},
		{EventBrowseCakes, Cakes},
		{EventBrowseCupcake, Cupcakes},
		{EventOpenCategory, Category},
		{EventOpenCart, Cart},
		{EventOpenOrders, Orders},
		{EventOpenAdmin, Admin},
		{EventBack, Home},
		{EventCheckoutDone, Orders},
	}

	for _, tc := range cases {
		for _, from := range allViews() {
			assert.Equal(t, tc.target, Next(from, tc.event, "user"),
				"event %s from %s", tc.event, from)
		}
	}
}

func TestRuleAdminAutoRoute(t *testing.T) {
	assert.Equal(t, Admin, RuleAdminAutoRoute("admin"))
	assert.Equal(t, Home, RuleAdminAutoRoute("user"))
	assert.Equal(t, Home, RuleAdminAutoRoute(""))
	assert.Equal(t, Home, RuleAdminAutoRoute("guest"))
}

func TestProperty_NextAlwaysYieldsValidView(t *testing.T) {
	properties := gopter.NewProperties(nil)

	events := []Event{
		EventGoHome, EventBrowseCakes, EventBrowseCupcake, EventOpenCategory,
		EventOpenCart, EventOpenOrders, EventOpenAdmin, EventBack,
		EventAuthenticated, EventCheckoutDone,
	}

	properties.Property("every transition lands on a known view", prop.ForAll(
		func(fromIdx int, eventIdx int, role string) bool {
			from := allViews()[fromIdx%len(allViews())]
			event := events[eventIdx%len(events)]
			return Valid(Next(from, event, role))
		},
		gen.IntRange(0, 6),
		gen.IntRange(0, 9),
		gen.OneConstOf("user", "admin", "guest", ""),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestUnknownEventKeepsCurrentView(t *testing.T) {
	for _, from := range allViews() {
		assert.Equal(t, from, Next(from, Event("bogus"), "user"))
	}
}
