package biz

import "github.com/mycosoft/unified-search/internal/trend/types"

var fallbackTrends = []types.Trend{
	{Term: "Amanita muscaria", Category: "species", Count: 1250, Change: 12.5, Direction: "up"},
	{Term: "Psilocybe cubensis", Category: "species", Count: 980, Change: 8.3, Direction: "up"},
	{Term: "Hericium erinaceus", Category: "species", Count: 875, Change: 15.2, Direction: "up"},
	{Term: "Cordyceps militaris", Category: "species", Count: 720, Change: 5.1, Direction: "up"},
	{Term: "Psilocybin", Category: "compound", Count: 1100, Change: 18.7, Direction: "up"},
	{Term: "Ergothioneine", Category: "compound", Count: 450, Change: 22.4, Direction: "up"},
	{Term: "Beta-glucans", Category: "compound", Count: 390, Change: -2.3, Direction: "down"},
	{Term: "Pacific Northwest mushrooms", Category: "location", Count: 650, Change: 9.8, Direction: "up"},
	{Term: "California foraging", Category: "location", Count: 540, Change: 0, Direction: "stable"},
	{Term: "Mycoremediation", Category: "research", Count: 420, Change: 25.6, Direction: "up"},
	{Term: "Lion's mane neurogenesis", Category: "research", Count: 380, Change: 31.2, Direction: "up"},
	{Term: "Mushroom identification", Category: "general", Count: 1500, Change: 3.2, Direction: "up"},
	{Term: "Edible mushrooms", Category: "general", Count: 1320, Change: -1.4, Direction: "down"},
}

// FallbackTrends returns a copy of the static list
func FallbackTrends() []types.Trend {
	return append([]types.Trend(nil), fallbackTrends...)
}
